/*-------------------------------------------------------------------------
 *
 * handler.go
 *    Tool handler contract
 *
 * Every tool the model can call implements Handler: a stable name, a
 * self-describing definition advertised to the model, and a typed
 * Execute. Results and failures both travel back to the model as
 * JSON text; a failure is an envelope with "erro": true, never a Go
 * error surfaced to the orchestration loop.
 *
 * Copyright (c) 2024-2026, neurondb, Inc. <support@neurondb.ai>
 *
 * IDENTIFICATION
 *    NeuronHR/internal/tools/handler.go
 *
 *-------------------------------------------------------------------------
 */

package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/neurondb/NeuronHR/internal/llm"
)

/* Scope identifies who a tool call acts on behalf of. The optional
 * callbacks let the conversation track which proposal is awaiting a
 * yes/no answer. */
type Scope struct {
	TenantID       uuid.UUID
	UserID         uuid.UUID
	ConversationID string
	MessageID      *string

	OnProposal         func(operationID uuid.UUID)
	OnProposalResolved func(operationID uuid.UUID)
}

/* Handler is one callable tool */
type Handler interface {
	Name() string
	Definition() llm.ToolDefinition
	Execute(ctx context.Context, scope Scope, args map[string]interface{}) (string, error)
}

/* errorEnvelope renders a failure the model can read and relay */
func errorEnvelope(message string) string {
	payload, err := json.Marshal(map[string]interface{}{
		"erro":     true,
		"mensagem": message,
	})
	if err != nil {
		return `{"erro": true, "mensagem": "erro interno"}`
	}
	return string(payload)
}

/* resultJSON marshals a tool result payload */
func resultJSON(payload interface{}) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal tool result: error=%w", err)
	}
	return string(data), nil
}

/* argString reads an optional string argument */
func argString(args map[string]interface{}, key string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}

/* argFloat reads an optional numeric argument */
func argFloat(args map[string]interface{}, key string) float64 {
	switch v := args[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 0
}

/* argInt reads an optional integer argument */
func argInt(args map[string]interface{}, key string) int {
	return int(argFloat(args, key))
}

/* argBool reads an optional boolean argument */
func argBool(args map[string]interface{}, key string) bool {
	if v, ok := args[key].(bool); ok {
		return v
	}
	return false
}

/* argMap reads an optional object argument */
func argMap(args map[string]interface{}, key string) map[string]interface{} {
	if v, ok := args[key].(map[string]interface{}); ok {
		return v
	}
	return nil
}
