/*-------------------------------------------------------------------------
 *
 * conversation.go
 *    In-memory conversation state
 *
 * Tracks per-conversation message history, the last classified
 * intent, and the tagged pending-confirmation marker the classifier
 * shortcut keys on. History is bounded; the persisted operation rows
 * are the durable record, this state only shapes the next turn.
 *
 * Copyright (c) 2024-2026, neurondb, Inc. <support@neurondb.ai>
 *
 * IDENTIFICATION
 *    NeuronHR/internal/agent/conversation.go
 *
 *-------------------------------------------------------------------------
 */

package agent

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/neurondb/NeuronHR/internal/llm"
	"github.com/neurondb/NeuronHR/internal/nlu"
)

/* maxHistoryMessages bounds the history replayed to the model */
const maxHistoryMessages = 20

/* Conversation is the mutable state of one conversation */
type Conversation struct {
	ID                  string
	TenantID            uuid.UUID
	History             []llm.ChatMessage
	LastIntent          *nlu.Result
	PendingConfirmation *nlu.PendingConfirmation
	UpdatedAt           time.Time

	mu sync.Mutex
}

/* AppendHistory adds messages, trimming to the history bound */
func (c *Conversation) AppendHistory(messages ...llm.ChatMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.History = append(c.History, messages...)
	if len(c.History) > maxHistoryMessages {
		c.History = c.History[len(c.History)-maxHistoryMessages:]
	}
	c.UpdatedAt = time.Now()
}

/* Snapshot copies the history for a model call */
func (c *Conversation) Snapshot() []llm.ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()

	snapshot := make([]llm.ChatMessage, len(c.History))
	copy(snapshot, c.History)
	return snapshot
}

/* SetPendingConfirmation tags the conversation as awaiting a yes/no */
func (c *Conversation) SetPendingConfirmation(pending *nlu.PendingConfirmation) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.PendingConfirmation = pending
	c.UpdatedAt = time.Now()
}

/* Pending returns the current confirmation marker */
func (c *Conversation) Pending() *nlu.PendingConfirmation {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.PendingConfirmation
}

/* SetLastIntent records the classification of the latest message */
func (c *Conversation) SetLastIntent(result *nlu.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.LastIntent = result
	c.UpdatedAt = time.Now()
}

/* ConversationStore holds live conversations keyed by id */
type ConversationStore struct {
	conversations map[string]*Conversation
	mu            sync.RWMutex
}

func NewConversationStore() *ConversationStore {
	return &ConversationStore{conversations: make(map[string]*Conversation)}
}

/* Get returns the conversation, creating it on first use */
func (s *ConversationStore) Get(conversationID string, tenantID uuid.UUID) *Conversation {
	s.mu.RLock()
	conv, ok := s.conversations[conversationID]
	s.mu.RUnlock()
	if ok {
		return conv
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if conv, ok := s.conversations[conversationID]; ok {
		return conv
	}
	conv = &Conversation{
		ID:        conversationID,
		TenantID:  tenantID,
		UpdatedAt: time.Now(),
	}
	s.conversations[conversationID] = conv
	return conv
}

/* Delete drops a conversation's state */
func (s *ConversationStore) Delete(conversationID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conversations, conversationID)
}

/* PruneIdle drops conversations idle longer than maxIdle and returns
 * how many were removed */
func (s *ConversationStore) PruneIdle(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)

	s.mu.Lock()
	defer s.mu.Unlock()
	pruned := 0
	for id, conv := range s.conversations {
		if conv.UpdatedAt.Before(cutoff) {
			delete(s.conversations, id)
			pruned++
		}
	}
	return pruned
}
