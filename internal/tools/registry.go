/*-------------------------------------------------------------------------
 *
 * registry.go
 *    Typed tool registry and dispatcher
 *
 * Holds the registered handlers, advertises their definitions to the
 * model, and dispatches tool calls. Dispatch never returns an error:
 * unknown tools, malformed arguments, schema violations, handler
 * errors, and panics all come back as the erro/mensagem JSON envelope
 * so the conversation can continue.
 *
 * Copyright (c) 2024-2026, neurondb, Inc. <support@neurondb.ai>
 *
 * IDENTIFICATION
 *    NeuronHR/internal/tools/registry.go
 *
 *-------------------------------------------------------------------------
 */

package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/neurondb/NeuronHR/internal/llm"
	"github.com/neurondb/NeuronHR/internal/metrics"
)

/* Registry manages tool registration and dispatch */
type Registry struct {
	handlers map[string]Handler
	mu       sync.RWMutex
}

/* NewRegistry creates an empty tool registry */
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

/* Register adds a handler under its own name */
func (r *Registry) Register(handler Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[handler.Name()] = handler
}

/* Get returns the named handler */
func (r *Registry) Get(name string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	handler, ok := r.handlers[name]
	return handler, ok
}

/* Definitions returns every registered tool definition, name-ordered
 * so the advertised list is stable across turns */
func (r *Registry) Definitions() []llm.ToolDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)

	definitions := make([]llm.ToolDefinition, 0, len(names))
	for _, name := range names {
		definitions = append(definitions, r.handlers[name].Definition())
	}
	return definitions
}

/* Dispatch runs one tool call and always produces a JSON result */
func (r *Registry) Dispatch(ctx context.Context, scope Scope, call llm.ToolCall) string {
	start := time.Now()
	name := call.Function.Name

	ctx = metrics.WithToolNameLogContext(ctx, name)
	result, status := r.dispatch(ctx, scope, call)
	metrics.RecordToolExecution(name, status, time.Since(start))

	return result
}

func (r *Registry) dispatch(ctx context.Context, scope Scope, call llm.ToolCall) (result string, status string) {
	name := call.Function.Name

	defer func() {
		if rec := recover(); rec != nil {
			metrics.ErrorWithContext(ctx, "Tool handler panicked", nil, map[string]interface{}{
				"tool_name": name,
				"panic":     fmt.Sprintf("%v", rec),
			})
			result = errorEnvelope("Erro interno ao executar a ferramenta.")
			status = "panic"
		}
	}()

	handler, ok := r.Get(name)
	if !ok {
		return errorEnvelope(fmt.Sprintf("Ferramenta desconhecida: %s", name)), "unknown"
	}

	args := map[string]interface{}{}
	if call.Function.Arguments != "" {
		if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil {
			return errorEnvelope(fmt.Sprintf("Argumentos inválidos: %v", err)), "bad_args"
		}
	}

	if schema := handler.Definition().Function.Parameters; schema != nil {
		if err := ValidateArgs(args, schema); err != nil {
			metrics.WarnWithContext(ctx, "Tool arguments rejected", map[string]interface{}{
				"tool_name": name,
				"error":     err.Error(),
			})
			return errorEnvelope(fmt.Sprintf("Argumentos inválidos: %v", err)), "bad_args"
		}
	}

	metrics.DebugWithContext(ctx, "Dispatching tool call", map[string]interface{}{
		"tool_name": name,
	})

	output, err := handler.Execute(ctx, scope, args)
	if err != nil {
		metrics.ErrorWithContext(ctx, "Tool execution failed", err, map[string]interface{}{
			"tool_name": name,
		})
		return errorEnvelope(err.Error()), "error"
	}
	return output, "ok"
}
