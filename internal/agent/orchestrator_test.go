/*-------------------------------------------------------------------------
 *
 * orchestrator_test.go
 *    Tests for the tool-calling orchestration loop
 *
 * Copyright (c) 2024-2026, neurondb, Inc. <support@neurondb.ai>
 *
 * IDENTIFICATION
 *    NeuronHR/internal/agent/orchestrator_test.go
 *
 *-------------------------------------------------------------------------
 */

package agent

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/neurondb/NeuronHR/internal/llm"
	"github.com/neurondb/NeuronHR/internal/nlu"
	"github.com/neurondb/NeuronHR/internal/tools"
)

/* scriptedProvider replays a fixed sequence of responses */
type scriptedProvider struct {
	responses []*llm.ChatResponse
	calls     int
	lastReq   llm.ChatRequest
}

func (p *scriptedProvider) Chat(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	p.lastReq = req
	idx := p.calls
	p.calls++
	if idx >= len(p.responses) {
		/* Keep requesting tools forever past the script */
		return toolCallResponse("eco", `{}`), nil
	}
	return p.responses[idx], nil
}

func (p *scriptedProvider) Model() string { return "scripted" }

func toolCallResponse(name, args string) *llm.ChatResponse {
	return &llm.ChatResponse{
		ToolCalls: []llm.ToolCall{{
			ID:   "call-" + name,
			Type: "function",
			Function: llm.FunctionCall{
				Name:      name,
				Arguments: args,
			},
		}},
		Usage: llm.Usage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15},
	}
}

func finalResponse(content string) *llm.ChatResponse {
	return &llm.ChatResponse{
		Content: content,
		Usage:   llm.Usage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15},
	}
}

type echoHandler struct {
	executions int
	onProposal *uuid.UUID
}

func (h *echoHandler) Name() string { return "eco" }

func (h *echoHandler) Definition() llm.ToolDefinition {
	return llm.ToolDefinition{
		Type:     "function",
		Function: llm.FunctionDefinition{Name: "eco"},
	}
}

func (h *echoHandler) Execute(ctx context.Context, scope tools.Scope, args map[string]interface{}) (string, error) {
	h.executions++
	if h.onProposal != nil && scope.OnProposal != nil {
		scope.OnProposal(*h.onProposal)
	}
	return `{"ok": true}`, nil
}

func newTestOrchestrator(provider llm.Provider, handler tools.Handler, maxIterations int, toolCalling bool) (*Orchestrator, *ConversationStore) {
	registry := tools.NewRegistry()
	if handler != nil {
		registry.Register(handler)
	}
	classifier := nlu.NewClassifier(provider, nil)
	store := NewConversationStore()
	return NewOrchestrator(provider, registry, classifier, store, maxIterations, toolCalling), store
}

func turnRequest(message string) TurnRequest {
	return TurnRequest{
		TenantID:       uuid.New(),
		UserID:         uuid.New(),
		ConversationID: "conv-1",
		Message:        message,
	}
}

func TestTurnWithoutToolCallsIsFinal(t *testing.T) {
	provider := &scriptedProvider{responses: []*llm.ChatResponse{
		finalResponse("Suas férias valem R$ 4.000."),
	}}
	orch, _ := newTestOrchestrator(provider, &echoHandler{}, 5, true)

	/* Rule-classified message, so the provider only serves the turn */
	resp, err := orch.RunTurn(context.Background(), turnRequest("quanto vou receber de férias?"))
	if err != nil {
		t.Fatalf("RunTurn: %v", err)
	}
	if resp.Content != "Suas férias valem R$ 4.000." {
		t.Errorf("content = %q", resp.Content)
	}
	if resp.Iterations != 1 {
		t.Errorf("iterations = %d, want 1", resp.Iterations)
	}
	if len(resp.ToolExecutions) != 0 {
		t.Errorf("tool executions = %d, want 0", len(resp.ToolExecutions))
	}
}

func TestToolRoundThenFinal(t *testing.T) {
	provider := &scriptedProvider{responses: []*llm.ChatResponse{
		toolCallResponse("eco", `{}`),
		finalResponse("Pronto."),
	}}
	handler := &echoHandler{}
	orch, _ := newTestOrchestrator(provider, handler, 5, true)

	resp, err := orch.RunTurn(context.Background(), turnRequest("quanto vou receber de férias?"))
	if err != nil {
		t.Fatalf("RunTurn: %v", err)
	}
	if resp.Content != "Pronto." {
		t.Errorf("content = %q", resp.Content)
	}
	if resp.Iterations != 2 {
		t.Errorf("iterations = %d, want 2", resp.Iterations)
	}
	if handler.executions != 1 {
		t.Errorf("handler executions = %d, want 1", handler.executions)
	}
	if resp.Usage.TotalTokens != 30 {
		t.Errorf("total tokens = %d, want 30", resp.Usage.TotalTokens)
	}
}

func TestLoopCapYieldsApology(t *testing.T) {
	/* Provider that never stops requesting tools */
	provider := &scriptedProvider{}
	handler := &echoHandler{}
	maxIterations := 3
	orch, _ := newTestOrchestrator(provider, handler, maxIterations, true)

	resp, err := orch.RunTurn(context.Background(), turnRequest("quanto vou receber de férias?"))
	if err != nil {
		t.Fatalf("RunTurn: %v", err)
	}
	if resp.Content != apologyMessage {
		t.Errorf("content = %q, want apology", resp.Content)
	}
	if resp.Iterations != maxIterations {
		t.Errorf("iterations = %d, want %d", resp.Iterations, maxIterations)
	}
	if provider.calls > maxIterations+1 {
		t.Errorf("model calls = %d, exceeds bound %d", provider.calls, maxIterations+1)
	}
}

func TestToolCallingDisabledMakesOneDirectCall(t *testing.T) {
	provider := &scriptedProvider{responses: []*llm.ChatResponse{
		finalResponse("Resposta direta."),
	}}
	orch, _ := newTestOrchestrator(provider, &echoHandler{}, 5, false)

	resp, err := orch.RunTurn(context.Background(), turnRequest("quanto vou receber de férias?"))
	if err != nil {
		t.Fatalf("RunTurn: %v", err)
	}
	if resp.Content != "Resposta direta." {
		t.Errorf("content = %q", resp.Content)
	}
	if provider.calls != 1 {
		t.Errorf("model calls = %d, want 1", provider.calls)
	}
	if len(provider.lastReq.Tools) != 0 {
		t.Errorf("direct call advertised %d tools, want 0", len(provider.lastReq.Tools))
	}
}

func TestToolResultsCarryCallID(t *testing.T) {
	provider := &scriptedProvider{responses: []*llm.ChatResponse{
		toolCallResponse("eco", `{}`),
		finalResponse("Pronto."),
	}}
	orch, _ := newTestOrchestrator(provider, &echoHandler{}, 5, true)

	if _, err := orch.RunTurn(context.Background(), turnRequest("quanto vou receber de férias?")); err != nil {
		t.Fatalf("RunTurn: %v", err)
	}

	/* The final request must carry the assistant tool-call turn and a
	 * tool turn tagged with the originating call id */
	var sawAssistant, sawTool bool
	for _, msg := range provider.lastReq.Messages {
		if msg.Role == llm.RoleAssistant && len(msg.ToolCalls) == 1 {
			sawAssistant = true
		}
		if msg.Role == llm.RoleTool && msg.ToolCallID == "call-eco" {
			sawTool = true
		}
	}
	if !sawAssistant || !sawTool {
		t.Errorf("history missing tool plumbing: assistant=%v tool=%v", sawAssistant, sawTool)
	}
}

func TestProposalTagsConversation(t *testing.T) {
	operationID := uuid.New()
	provider := &scriptedProvider{responses: []*llm.ChatResponse{
		toolCallResponse("eco", `{}`),
		finalResponse("Deseja confirmar?"),
	}}
	handler := &echoHandler{onProposal: &operationID}
	orch, store := newTestOrchestrator(provider, handler, 5, true)

	req := turnRequest("quanto vou receber de férias?")
	if _, err := orch.RunTurn(context.Background(), req); err != nil {
		t.Fatalf("RunTurn: %v", err)
	}

	conv := store.Get(req.ConversationID, req.TenantID)
	pending := conv.Pending()
	if pending == nil {
		t.Fatal("conversation has no pending confirmation")
	}
	if pending.OperationID != operationID {
		t.Errorf("pending operation = %s, want %s", pending.OperationID, operationID)
	}
}

func TestHistoryIsBounded(t *testing.T) {
	conv := &Conversation{ID: "c", TenantID: uuid.New()}
	for i := 0; i < 50; i++ {
		conv.AppendHistory(llm.ChatMessage{Role: llm.RoleUser, Content: "msg"})
	}
	if got := len(conv.Snapshot()); got != maxHistoryMessages {
		t.Errorf("history length = %d, want %d", got, maxHistoryMessages)
	}
}

func TestEmptyMessageRejected(t *testing.T) {
	provider := &scriptedProvider{}
	orch, _ := newTestOrchestrator(provider, nil, 5, true)

	if _, err := orch.RunTurn(context.Background(), turnRequest("")); err == nil {
		t.Fatal("expected error for empty message")
	}
}
