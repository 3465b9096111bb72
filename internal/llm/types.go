/*-------------------------------------------------------------------------
 *
 * types.go
 *    Chat-completion request and response types
 *
 * Wire-compatible with OpenAI-style chat completion APIs, including
 * structured tool invocations returned alongside or instead of text.
 *
 * Copyright (c) 2024-2026, neurondb, Inc. <support@neurondb.ai>
 *
 * IDENTIFICATION
 *    NeuronHR/internal/llm/types.go
 *
 *-------------------------------------------------------------------------
 */

package llm

/* Message roles */
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

/* ChatMessage is one turn of a conversation */
type ChatMessage struct {
	Role       string     `json:"role"`
	Content    string     `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
	Name       string     `json:"name,omitempty"`
}

/* ToolCall is a structured tool invocation requested by the model */
type ToolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Function FunctionCall `json:"function"`
}

type FunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

/* ToolDefinition declares one callable function to the model */
type ToolDefinition struct {
	Type     string             `json:"type"`
	Function FunctionDefinition `json:"function"`
}

type FunctionDefinition struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Parameters  map[string]interface{} `json:"parameters"`
}

/* Usage carries token accounting for one model call */
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

/* Add accumulates usage across calls */
func (u *Usage) Add(other Usage) {
	u.PromptTokens += other.PromptTokens
	u.CompletionTokens += other.CompletionTokens
	u.TotalTokens += other.TotalTokens
}

/* ChatRequest is one chat-completion call */
type ChatRequest struct {
	Messages    []ChatMessage
	Tools       []ToolDefinition
	Temperature *float64
	MaxTokens   int
}

/* ChatResponse is the model's reply: text, tool invocations, or both */
type ChatResponse struct {
	Content   string
	ToolCalls []ToolCall
	Usage     Usage
}

/* HasToolCalls reports whether the model requested tool invocations */
func (r *ChatResponse) HasToolCalls() bool {
	return len(r.ToolCalls) > 0
}
