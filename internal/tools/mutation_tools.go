/*-------------------------------------------------------------------------
 *
 * mutation_tools.go
 *    Tool handlers for the confirmed data mutation flow
 *
 * modificar_dados proposes a change and persists it as a pending
 * operation; nothing is written until confirmar_operacao executes it
 * with the user's explicit approval. reverter_operacao undoes an
 * executed operation inside the rollback window, and
 * listar_operacoes_pendentes lets the model enumerate open proposals
 * for the conversation.
 *
 * Copyright (c) 2024-2026, neurondb, Inc. <support@neurondb.ai>
 *
 * IDENTIFICATION
 *    NeuronHR/internal/tools/mutation_tools.go
 *
 *-------------------------------------------------------------------------
 */

package tools

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/neurondb/NeuronHR/internal/db"
	"github.com/neurondb/NeuronHR/internal/llm"
	"github.com/neurondb/NeuronHR/internal/mutation"
)

/* Proposer builds pending operations from natural-language commands */
type Proposer interface {
	Propose(ctx context.Context, req mutation.ProposalRequest) (*db.PendingOperation, error)
}

/* Lifecycle settles pending operations */
type Lifecycle interface {
	ProcessConfirmation(ctx context.Context, operationID, tenantID, userID uuid.UUID, confirm bool, rejectionReason *string) (*mutation.ConfirmationResult, error)
	Rollback(ctx context.Context, operationID, tenantID, userID uuid.UUID) (*mutation.ConfirmationResult, error)
	PendingOperationsForConversation(ctx context.Context, conversationID string, tenantID uuid.UUID, includeHistory bool) ([]db.PendingOperation, error)
}

/* ModifyDataTool proposes a data modification for confirmation */
type ModifyDataTool struct {
	proposer Proposer
}

func NewModifyDataTool(proposer Proposer) *ModifyDataTool {
	return &ModifyDataTool{proposer: proposer}
}

func (t *ModifyDataTool) Name() string { return "modificar_dados" }

func (t *ModifyDataTool) Definition() llm.ToolDefinition {
	return llm.ToolDefinition{
		Type: "function",
		Function: llm.FunctionDefinition{
			Name: "modificar_dados",
			Description: "Propõe uma modificação de dados cadastrais (salário, cargo, departamento, dados pessoais). " +
				"A modificação NÃO é executada imediatamente: o usuário precisa confirmar antes.",
			Parameters: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"comando": map[string]interface{}{
						"type":        "string",
						"description": "O comando de modificação em linguagem natural, exatamente como o usuário pediu",
						"minLength":   float64(3),
					},
					"tipo_entidade": map[string]interface{}{
						"type":        "string",
						"description": "Tipo de entidade afetada, quando conhecido (ex: funcionário, departamento)",
					},
					"contexto": map[string]interface{}{
						"type":        "object",
						"description": "Contexto adicional da conversa que ajude a interpretar o comando",
					},
				},
				"required": []interface{}{"comando"},
			},
		},
	}
}

func (t *ModifyDataTool) Execute(ctx context.Context, scope Scope, args map[string]interface{}) (string, error) {
	command := argString(args, "comando")

	cmdContext := map[string]interface{}{}
	for key, value := range argMap(args, "contexto") {
		cmdContext[key] = value
	}
	if entityType := argString(args, "tipo_entidade"); entityType != "" {
		cmdContext["tipo_entidade"] = entityType
	}

	op, err := t.proposer.Propose(ctx, mutation.ProposalRequest{
		Command:        command,
		TenantID:       scope.TenantID,
		UserID:         scope.UserID,
		ConversationID: scope.ConversationID,
		MessageID:      scope.MessageID,
		Context:        cmdContext,
	})
	if err != nil {
		if verr, ok := mutation.AsValidationError(err); ok {
			return "", fmt.Errorf("%s", verr.Message)
		}
		return "", fmt.Errorf("Não foi possível processar o comando no momento. Tente novamente.")
	}

	if scope.OnProposal != nil {
		scope.OnProposal(op.ID)
	}

	return resultJSON(map[string]interface{}{
		"operation_id":         op.ID.String(),
		"status":               op.Status,
		"description":          op.Description,
		"entity_name":          metadataValue(op.Metadata, "entity_name"),
		"changes":              op.ChangesSummary,
		"risk_level":           op.RiskLevel,
		"warning":              metadataValue(op.Metadata, "warning"),
		"confirmation_message": metadataValue(op.Metadata, "confirmation_message"),
		"expires_at":           op.ExpiresAt,
		"requires_approval":    true,
	})
}

/* ConfirmOperationTool confirms or rejects a pending operation */
type ConfirmOperationTool struct {
	lifecycle Lifecycle
}

func NewConfirmOperationTool(lifecycle Lifecycle) *ConfirmOperationTool {
	return &ConfirmOperationTool{lifecycle: lifecycle}
}

func (t *ConfirmOperationTool) Name() string { return "confirmar_operacao" }

func (t *ConfirmOperationTool) Definition() llm.ToolDefinition {
	return llm.ToolDefinition{
		Type: "function",
		Function: llm.FunctionDefinition{
			Name: "confirmar_operacao",
			Description: "Confirma ou rejeita uma operação de modificação de dados pendente. " +
				"Use quando o usuário responder a um pedido de confirmação.",
			Parameters: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"operation_id": map[string]interface{}{
						"type":        "string",
						"format":      "uuid",
						"description": "Identificador da operação pendente",
					},
					"confirmar": map[string]interface{}{
						"type":        "boolean",
						"description": "true para confirmar e executar, false para rejeitar",
					},
					"motivo_rejeicao": map[string]interface{}{
						"type":        "string",
						"description": "Motivo da rejeição, quando informado",
					},
				},
				"required": []interface{}{"operation_id", "confirmar"},
			},
		},
	}
}

func (t *ConfirmOperationTool) Execute(ctx context.Context, scope Scope, args map[string]interface{}) (string, error) {
	operationID, err := uuid.Parse(argString(args, "operation_id"))
	if err != nil {
		return "", fmt.Errorf("Identificador de operação inválido.")
	}

	var reason *string
	if motivo := argString(args, "motivo_rejeicao"); motivo != "" {
		reason = &motivo
	}

	result, err := t.lifecycle.ProcessConfirmation(ctx, operationID, scope.TenantID, scope.UserID, argBool(args, "confirmar"), reason)
	if err != nil {
		return "", fmt.Errorf("Não foi possível processar a operação no momento. Tente novamente.")
	}

	if scope.OnProposalResolved != nil {
		scope.OnProposalResolved(operationID)
	}

	return resultJSON(result)
}

/* RollbackOperationTool reverses an executed operation */
type RollbackOperationTool struct {
	lifecycle Lifecycle
}

func NewRollbackOperationTool(lifecycle Lifecycle) *RollbackOperationTool {
	return &RollbackOperationTool{lifecycle: lifecycle}
}

func (t *RollbackOperationTool) Name() string { return "reverter_operacao" }

func (t *RollbackOperationTool) Definition() llm.ToolDefinition {
	return llm.ToolDefinition{
		Type: "function",
		Function: llm.FunctionDefinition{
			Name: "reverter_operacao",
			Description: "Reverte uma operação de modificação de dados já executada, " +
				"restaurando os valores anteriores. Disponível por até 1 hora após a execução.",
			Parameters: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"operation_id": map[string]interface{}{
						"type":        "string",
						"format":      "uuid",
						"description": "Identificador da operação executada",
					},
				},
				"required": []interface{}{"operation_id"},
			},
		},
	}
}

func (t *RollbackOperationTool) Execute(ctx context.Context, scope Scope, args map[string]interface{}) (string, error) {
	operationID, err := uuid.Parse(argString(args, "operation_id"))
	if err != nil {
		return "", fmt.Errorf("Identificador de operação inválido.")
	}

	result, err := t.lifecycle.Rollback(ctx, operationID, scope.TenantID, scope.UserID)
	if err != nil {
		return "", fmt.Errorf("Não foi possível processar a operação no momento. Tente novamente.")
	}

	return resultJSON(result)
}

/* ListPendingOperationsTool enumerates open proposals for the conversation */
type ListPendingOperationsTool struct {
	lifecycle Lifecycle
}

func NewListPendingOperationsTool(lifecycle Lifecycle) *ListPendingOperationsTool {
	return &ListPendingOperationsTool{lifecycle: lifecycle}
}

func (t *ListPendingOperationsTool) Name() string { return "listar_operacoes_pendentes" }

func (t *ListPendingOperationsTool) Definition() llm.ToolDefinition {
	return llm.ToolDefinition{
		Type: "function",
		Function: llm.FunctionDefinition{
			Name:        "listar_operacoes_pendentes",
			Description: "Lista as operações de modificação de dados aguardando confirmação nesta conversa.",
			Parameters: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"conversation_id": map[string]interface{}{
						"type":        "string",
						"description": "Conversa a consultar; por padrão, a conversa atual",
					},
					"incluir_historico": map[string]interface{}{
						"type":        "boolean",
						"description": "Incluir também operações já processadas",
					},
				},
			},
		},
	}
}

func (t *ListPendingOperationsTool) Execute(ctx context.Context, scope Scope, args map[string]interface{}) (string, error) {
	includeHistory := argBool(args, "incluir_historico")
	conversationID := scope.ConversationID
	if v := argString(args, "conversation_id"); v != "" {
		conversationID = v
	}

	ops, err := t.lifecycle.PendingOperationsForConversation(ctx, conversationID, scope.TenantID, includeHistory)
	if err != nil {
		return "", fmt.Errorf("Não foi possível listar as operações pendentes.")
	}

	summaries := make([]map[string]interface{}, 0, len(ops))
	for _, op := range ops {
		summaries = append(summaries, map[string]interface{}{
			"operation_id": op.ID.String(),
			"status":       op.Status,
			"description":  op.Description,
			"entity_name":  metadataValue(op.Metadata, "entity_name"),
			"risk_level":   op.RiskLevel,
			"expires_at":   op.ExpiresAt,
		})
	}

	return resultJSON(map[string]interface{}{
		"total":      len(summaries),
		"operations": summaries,
	})
}

func metadataValue(metadata db.JSONBMap, key string) interface{} {
	if metadata == nil {
		return nil
	}
	return metadata[key]
}
