/*-------------------------------------------------------------------------
 *
 * orchestrator.go
 *    Bounded tool-calling orchestration loop
 *
 * Runs one conversation turn: classify the message, then loop the
 * model with the advertised tool schema until it answers without
 * requesting tools or the iteration cap is reached. The cap is the
 * only cancellation mechanism; on reaching it the turn settles on a
 * fixed apology instead of looping further.
 *
 * Copyright (c) 2024-2026, neurondb, Inc. <support@neurondb.ai>
 *
 * IDENTIFICATION
 *    NeuronHR/internal/agent/orchestrator.go
 *
 *-------------------------------------------------------------------------
 */

package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/neurondb/NeuronHR/internal/llm"
	"github.com/neurondb/NeuronHR/internal/metrics"
	"github.com/neurondb/NeuronHR/internal/nlu"
	"github.com/neurondb/NeuronHR/internal/tools"
)

/* defaultMaxIterations bounds the tool-calling loop */
const defaultMaxIterations = 5

/* apologyMessage is the fixed answer when the loop cap is reached */
const apologyMessage = "Desculpe, não foi possível completar a operação. Por favor, tente novamente com uma pergunta mais específica."

const assistantSystemPrompt = `Você é um assistente de RH. Responda sempre em português, de forma clara e objetiva.

Você tem acesso a ferramentas para cálculos trabalhistas, consultas de funcionários e folha, busca em políticas e legislação, e modificação de dados cadastrais.

Regras:
- Modificações de dados NUNCA são executadas diretamente: use modificar_dados para propor e aguarde a confirmação explícita do usuário.
- Quando o usuário confirmar ou rejeitar uma proposta pendente, use confirmar_operacao com o operation_id correspondente.
- Para desfazer uma operação já executada, use reverter_operacao com o operation_id correspondente.
- Nunca invente valores: use as ferramentas para obter dados reais.
- Se uma ferramenta retornar "erro": true, explique o problema ao usuário com a mensagem recebida.`

/* Orchestrator drives conversation turns */
type Orchestrator struct {
	provider      llm.Provider
	registry      *tools.Registry
	classifier    *nlu.Classifier
	store         *ConversationStore
	maxIterations int
	toolCalling   bool
}

/* NewOrchestrator creates an orchestrator. maxIterations <= 0 selects
 * the default; toolCalling false degrades every turn to one direct
 * model call. */
func NewOrchestrator(provider llm.Provider, registry *tools.Registry, classifier *nlu.Classifier, store *ConversationStore, maxIterations int, toolCalling bool) *Orchestrator {
	if maxIterations <= 0 {
		maxIterations = defaultMaxIterations
	}
	return &Orchestrator{
		provider:      provider,
		registry:      registry,
		classifier:    classifier,
		store:         store,
		maxIterations: maxIterations,
		toolCalling:   toolCalling,
	}
}

/* TurnRequest is one user message in a conversation */
type TurnRequest struct {
	TenantID       uuid.UUID
	UserID         uuid.UUID
	ConversationID string
	MessageID      *string
	Message        string
}

/* ToolExecution records one dispatched tool call within a turn */
type ToolExecution struct {
	ToolName string        `json:"tool_name"`
	CallID   string        `json:"call_id"`
	Result   string        `json:"result"`
	Duration time.Duration `json:"duration"`
}

/* TurnResponse is the settled outcome of one turn */
type TurnResponse struct {
	Content        string          `json:"content"`
	Intent         *nlu.Result     `json:"intent"`
	ToolExecutions []ToolExecution `json:"tool_executions"`
	Iterations     int             `json:"iterations"`
	Usage          llm.Usage       `json:"usage"`
}

/* RunTurn processes one user message to a final answer */
func (o *Orchestrator) RunTurn(ctx context.Context, req TurnRequest) (*TurnResponse, error) {
	if req.Message == "" {
		return nil, fmt.Errorf("turn execution failed: conversation_id='%s', empty_message=true", req.ConversationID)
	}

	start := time.Now()
	conv := o.store.Get(req.ConversationID, req.TenantID)

	intent := o.classifier.Classify(ctx, req.Message, conv.Pending())
	conv.SetLastIntent(intent)

	metrics.InfoWithContext(ctx, "Classified message", map[string]interface{}{
		"intent":     intent.Intent,
		"confidence": intent.Confidence,
		"source":     intent.Source,
	})

	messages := []llm.ChatMessage{{Role: llm.RoleSystem, Content: assistantSystemPrompt}}
	messages = append(messages, conv.Snapshot()...)
	messages = append(messages, llm.ChatMessage{Role: llm.RoleUser, Content: intentAnnotatedMessage(req.Message, intent)})

	var response *TurnResponse
	var err error
	if o.toolCalling {
		response, err = o.runLoop(ctx, req, conv, messages)
	} else {
		response, err = o.runDirect(ctx, messages)
	}
	if err != nil {
		metrics.RecordTurnExecution("error", 0, time.Since(start))
		return nil, err
	}
	response.Intent = intent

	conv.AppendHistory(
		llm.ChatMessage{Role: llm.RoleUser, Content: req.Message},
		llm.ChatMessage{Role: llm.RoleAssistant, Content: response.Content},
	)

	metrics.RecordTurnExecution("ok", response.Iterations, time.Since(start))
	return response, nil
}

/* runLoop is the bounded tool-calling loop */
func (o *Orchestrator) runLoop(ctx context.Context, req TurnRequest, conv *Conversation, messages []llm.ChatMessage) (*TurnResponse, error) {
	scope := tools.Scope{
		TenantID:       req.TenantID,
		UserID:         req.UserID,
		ConversationID: req.ConversationID,
		MessageID:      req.MessageID,
		OnProposal: func(operationID uuid.UUID) {
			conv.SetPendingConfirmation(&nlu.PendingConfirmation{
				OperationID: operationID,
				Action:      "confirm_operation",
			})
		},
		OnProposalResolved: func(operationID uuid.UUID) {
			if pending := conv.Pending(); pending != nil && pending.OperationID == operationID {
				conv.SetPendingConfirmation(nil)
			}
		},
	}

	definitions := o.registry.Definitions()
	response := &TurnResponse{}

	for iteration := 1; iteration <= o.maxIterations; iteration++ {
		response.Iterations = iteration

		resp, err := o.provider.Chat(ctx, llm.ChatRequest{
			Messages: messages,
			Tools:    definitions,
		})
		if err != nil {
			return nil, fmt.Errorf("turn execution failed: conversation_id='%s', iteration=%d, error=%w",
				req.ConversationID, iteration, err)
		}
		response.Usage.Add(resp.Usage)

		if !resp.HasToolCalls() {
			response.Content = resp.Content
			return response, nil
		}

		/* Assistant turn carrying the requested calls, then one tool
		 * result turn per call tagged with its id */
		messages = append(messages, llm.ChatMessage{
			Role:      llm.RoleAssistant,
			Content:   resp.Content,
			ToolCalls: resp.ToolCalls,
		})
		for _, call := range resp.ToolCalls {
			callStart := time.Now()
			result := o.registry.Dispatch(ctx, scope, call)
			response.ToolExecutions = append(response.ToolExecutions, ToolExecution{
				ToolName: call.Function.Name,
				CallID:   call.ID,
				Result:   result,
				Duration: time.Since(callStart),
			})
			messages = append(messages, llm.ChatMessage{
				Role:       llm.RoleTool,
				Content:    result,
				ToolCallID: call.ID,
				Name:       call.Function.Name,
			})
		}
	}

	metrics.WarnWithContext(ctx, "Tool-calling loop reached iteration cap", map[string]interface{}{
		"conversation_id": req.ConversationID,
		"max_iterations":  o.maxIterations,
	})
	response.Content = apologyMessage
	return response, nil
}

/* runDirect performs one model call without tools */
func (o *Orchestrator) runDirect(ctx context.Context, messages []llm.ChatMessage) (*TurnResponse, error) {
	resp, err := o.provider.Chat(ctx, llm.ChatRequest{Messages: messages})
	if err != nil {
		return nil, fmt.Errorf("turn execution failed: direct_call=true, error=%w", err)
	}
	return &TurnResponse{
		Content:    resp.Content,
		Iterations: 1,
		Usage:      resp.Usage,
	}, nil
}

/* intentAnnotatedMessage appends the classification hint the model
 * can use for tool selection */
func intentAnnotatedMessage(message string, intent *nlu.Result) string {
	if intent == nil || intent.Intent == "unknown" {
		return message
	}
	return fmt.Sprintf("%s\n\n[intenção detectada: %s (%.2f), ação: %s]",
		message, intent.Intent, intent.Confidence, intent.ActionType)
}
