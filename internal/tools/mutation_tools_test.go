/*-------------------------------------------------------------------------
 *
 * mutation_tools_test.go
 *    Tests for the mutation flow tool handlers
 *
 * Copyright (c) 2024-2026, neurondb, Inc. <support@neurondb.ai>
 *
 * IDENTIFICATION
 *    NeuronHR/internal/tools/mutation_tools_test.go
 *
 *-------------------------------------------------------------------------
 */

package tools

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/neurondb/NeuronHR/internal/db"
	"github.com/neurondb/NeuronHR/internal/mutation"
)

var (
	toolOpID     = uuid.MustParse("aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee")
	toolTenantID = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	toolUserID   = uuid.MustParse("22222222-2222-2222-2222-222222222222")
)

type fakeProposer struct {
	lastRequest mutation.ProposalRequest
}

func (p *fakeProposer) Propose(ctx context.Context, req mutation.ProposalRequest) (*db.PendingOperation, error) {
	p.lastRequest = req
	return &db.PendingOperation{
		ID:          toolOpID,
		Status:      db.StatusPending,
		Description: "Atualizar salário",
		RiskLevel:   "MEDIUM",
	}, nil
}

type fakeLifecycle struct {
	confirmedID      uuid.UUID
	confirmed        *bool
	rejectionReason  *string
	rolledBackID     uuid.UUID
	listConversation string
	includeHistory   bool
}

func (l *fakeLifecycle) ProcessConfirmation(ctx context.Context, operationID, tenantID, userID uuid.UUID, confirm bool, rejectionReason *string) (*mutation.ConfirmationResult, error) {
	l.confirmedID = operationID
	l.confirmed = &confirm
	l.rejectionReason = rejectionReason
	return &mutation.ConfirmationResult{OperationID: operationID, Success: true}, nil
}

func (l *fakeLifecycle) Rollback(ctx context.Context, operationID, tenantID, userID uuid.UUID) (*mutation.ConfirmationResult, error) {
	l.rolledBackID = operationID
	return &mutation.ConfirmationResult{OperationID: operationID, Success: true, Status: db.StatusRolledBack}, nil
}

func (l *fakeLifecycle) PendingOperationsForConversation(ctx context.Context, conversationID string, tenantID uuid.UUID, includeHistory bool) ([]db.PendingOperation, error) {
	l.listConversation = conversationID
	l.includeHistory = includeHistory
	return nil, nil
}

func toolScope() Scope {
	return Scope{
		TenantID:       toolTenantID,
		UserID:         toolUserID,
		ConversationID: "conv-1",
	}
}

func propertyNames(t *testing.T, def map[string]interface{}) map[string]bool {
	t.Helper()
	properties, ok := def["properties"].(map[string]interface{})
	if !ok {
		t.Fatalf("definition has no properties: %v", def)
	}
	names := map[string]bool{}
	for name := range properties {
		names[name] = true
	}
	return names
}

func TestMutationToolDefinitions(t *testing.T) {
	tests := []struct {
		tool   Handler
		name   string
		params []string
	}{
		{NewModifyDataTool(&fakeProposer{}), "modificar_dados",
			[]string{"comando", "tipo_entidade", "contexto"}},
		{NewConfirmOperationTool(&fakeLifecycle{}), "confirmar_operacao",
			[]string{"operation_id", "confirmar", "motivo_rejeicao"}},
		{NewRollbackOperationTool(&fakeLifecycle{}), "reverter_operacao",
			[]string{"operation_id"}},
		{NewListPendingOperationsTool(&fakeLifecycle{}), "listar_operacoes_pendentes",
			[]string{"conversation_id", "incluir_historico"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.tool.Name() != tt.name {
				t.Errorf("name = %q, want %q", tt.tool.Name(), tt.name)
			}
			names := propertyNames(t, tt.tool.Definition().Function.Parameters)
			for _, param := range tt.params {
				if !names[param] {
					t.Errorf("%s: missing parameter %q", tt.name, param)
				}
			}
		})
	}
}

func TestModifyDataForwardsCommandContext(t *testing.T) {
	proposer := &fakeProposer{}
	tool := NewModifyDataTool(proposer)

	var proposed uuid.UUID
	scope := toolScope()
	scope.OnProposal = func(operationID uuid.UUID) { proposed = operationID }

	_, err := tool.Execute(context.Background(), scope, map[string]interface{}{
		"comando":       "aumente o salário da maria para 6000",
		"tipo_entidade": "funcionário",
		"contexto":      map[string]interface{}{"ultimo_funcionario": "Maria Silva"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req := proposer.lastRequest
	if req.Command != "aumente o salário da maria para 6000" {
		t.Errorf("command = %q", req.Command)
	}
	if req.Context["tipo_entidade"] != "funcionário" {
		t.Errorf("tipo_entidade = %v", req.Context["tipo_entidade"])
	}
	if req.Context["ultimo_funcionario"] != "Maria Silva" {
		t.Errorf("ultimo_funcionario = %v", req.Context["ultimo_funcionario"])
	}
	if proposed != toolOpID {
		t.Errorf("OnProposal called with %s, want %s", proposed, toolOpID)
	}
}

func TestConfirmOperationRoutesDecision(t *testing.T) {
	lifecycle := &fakeLifecycle{}
	tool := NewConfirmOperationTool(lifecycle)

	var resolved uuid.UUID
	scope := toolScope()
	scope.OnProposalResolved = func(operationID uuid.UUID) { resolved = operationID }

	_, err := tool.Execute(context.Background(), scope, map[string]interface{}{
		"operation_id": toolOpID.String(),
		"confirmar":    true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lifecycle.confirmed == nil || !*lifecycle.confirmed {
		t.Error("expected confirm=true")
	}
	if lifecycle.rejectionReason != nil {
		t.Errorf("reason = %v, want nil", *lifecycle.rejectionReason)
	}
	if resolved != toolOpID {
		t.Errorf("OnProposalResolved called with %s, want %s", resolved, toolOpID)
	}
}

func TestConfirmOperationRejectsWithReason(t *testing.T) {
	lifecycle := &fakeLifecycle{}
	tool := NewConfirmOperationTool(lifecycle)

	_, err := tool.Execute(context.Background(), toolScope(), map[string]interface{}{
		"operation_id":    toolOpID.String(),
		"confirmar":       false,
		"motivo_rejeicao": "valor errado",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lifecycle.confirmed == nil || *lifecycle.confirmed {
		t.Error("expected confirm=false")
	}
	if lifecycle.rejectionReason == nil || *lifecycle.rejectionReason != "valor errado" {
		t.Errorf("reason = %v, want valor errado", lifecycle.rejectionReason)
	}
}

func TestConfirmOperationRejectsBadID(t *testing.T) {
	tool := NewConfirmOperationTool(&fakeLifecycle{})

	_, err := tool.Execute(context.Background(), toolScope(), map[string]interface{}{
		"operation_id": "not-a-uuid",
		"confirmar":    true,
	})
	if err == nil {
		t.Fatal("expected error for invalid operation id")
	}
}

func TestRollbackOperationTool(t *testing.T) {
	lifecycle := &fakeLifecycle{}
	tool := NewRollbackOperationTool(lifecycle)

	_, err := tool.Execute(context.Background(), toolScope(), map[string]interface{}{
		"operation_id": toolOpID.String(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lifecycle.rolledBackID != toolOpID {
		t.Errorf("rollback called with %s, want %s", lifecycle.rolledBackID, toolOpID)
	}
}

func TestListPendingOperationsConversationOverride(t *testing.T) {
	lifecycle := &fakeLifecycle{}
	tool := NewListPendingOperationsTool(lifecycle)

	_, err := tool.Execute(context.Background(), toolScope(), map[string]interface{}{
		"incluir_historico": true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lifecycle.listConversation != "conv-1" {
		t.Errorf("conversation = %q, want conv-1", lifecycle.listConversation)
	}
	if !lifecycle.includeHistory {
		t.Error("expected includeHistory=true")
	}

	_, err = tool.Execute(context.Background(), toolScope(), map[string]interface{}{
		"conversation_id": "conv-2",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lifecycle.listConversation != "conv-2" {
		t.Errorf("conversation = %q, want conv-2", lifecycle.listConversation)
	}
}
