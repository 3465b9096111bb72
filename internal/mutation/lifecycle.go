/*-------------------------------------------------------------------------
 *
 * lifecycle.go
 *    Pending operation lifecycle manager
 *
 * Drives the proposal state machine:
 *
 *   PENDING --confirm & SQL ok--> EXECUTED
 *   PENDING --confirm & SQL error--> FAILED
 *   PENDING --reject--> REJECTED
 *   PENDING --ttl elapsed--> EXPIRED
 *   EXECUTED --rollback (within window)--> ROLLED_BACK
 *
 * Every transition goes through a conditional UPDATE guarded by the
 * current status, so confirmations racing the expiration sweep settle
 * on exactly one winner. Generated statements run in the same database
 * transaction as their transition: a guard that matches no row rolls
 * the data change back with it. Terminal statuses are never mutated
 * again.
 *
 * Copyright (c) 2024-2026, neurondb, Inc. <support@neurondb.ai>
 *
 * IDENTIFICATION
 *    NeuronHR/internal/mutation/lifecycle.go
 *
 *-------------------------------------------------------------------------
 */

package mutation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/neurondb/NeuronHR/internal/db"
	"github.com/neurondb/NeuronHR/internal/metrics"
)

/* rollbackWindow is the fixed reversal deadline after execution */
const rollbackWindow = 3600 * time.Second

/* Result messages reused across callers */
const (
	msgNotFound         = "Operação não encontrada."
	msgExpired          = "Esta operação expirou. Solicite a operação novamente."
	msgAlreadyProcessed = "Esta operação já foi processada anteriormente."
	msgOnlyExecuted     = "Apenas operações executadas podem ser revertidas."
	msgNoRollback       = "Esta operação não pode ser revertida."
	msgAlreadyRolled    = "Esta operação já foi revertida anteriormente."
	msgWindowExpired    = "O período para reversão expirou (máximo 1 hora após execução)."
	msgRejectedDefault  = "Rejeitado pelo usuário"
	msgCancelledByUser  = "Operação cancelada pelo usuário."
)

/* ConfirmationResult reports the outcome of confirm/reject/rollback */
type ConfirmationResult struct {
	OperationID     uuid.UUID `json:"operation_id"`
	Status          string    `json:"status"`
	Success         bool      `json:"success"`
	Message         string    `json:"message"`
	OperationType   string    `json:"operation_type,omitempty"`
	TargetEntity    string    `json:"target_entity,omitempty"`
	EntityName      string    `json:"entity_name,omitempty"`
	AffectedRecords int       `json:"affected_records"`
	CanRollback     bool      `json:"can_rollback"`
}

/* Manager drives pending operation status transitions */
type Manager struct {
	queries *db.Queries
	now     func() time.Time
}

func NewManager(queries *db.Queries) *Manager {
	return &Manager{queries: queries, now: time.Now}
}

/* ProcessConfirmation confirms or rejects a pending operation.
 * Terminal operations are left untouched and reported as already
 * processed; an elapsed TTL flips the row to EXPIRED first. */
func (m *Manager) ProcessConfirmation(ctx context.Context, operationID, tenantID, userID uuid.UUID, confirm bool, rejectionReason *string) (*ConfirmationResult, error) {
	metrics.InfoWithContext(ctx, "Processing confirmation", map[string]interface{}{
		"operation_id": operationID.String(),
		"confirmed":    confirm,
	})

	op, err := m.queries.GetOperation(ctx, operationID, tenantID)
	if err != nil {
		return failure(operationID, "", msgNotFound), nil
	}

	if op.Status == db.StatusPending && op.IsExpired(m.now()) {
		flipped, err := m.queries.MarkExpired(ctx, operationID, tenantID)
		if err != nil {
			return nil, fmt.Errorf("failed to expire operation: operation_id='%s', error=%w", operationID.String(), err)
		}
		if flipped {
			metrics.RecordOperationTransition(db.StatusExpired)
		}
		return failure(operationID, db.StatusExpired, msgExpired), nil
	}

	if op.IsTerminal() {
		return failure(operationID, op.Status, msgAlreadyProcessed), nil
	}

	if confirm {
		return m.execute(ctx, op, userID)
	}
	return m.reject(ctx, op, userID, rejectionReason)
}

/* execute runs the generated statement and settles EXECUTED or FAILED */
func (m *Manager) execute(ctx context.Context, op *db.PendingOperation, userID uuid.UUID) (*ConfirmationResult, error) {
	params := map[string]interface{}{}
	for key, value := range op.SQLParameters {
		params[key] = value
	}
	/* The resolved scope always wins over stored parameter values */
	params["tenant_id"] = op.TenantID
	if op.TargetID != nil {
		params["entity_id"] = *op.TargetID
	}

	metrics.InfoWithContext(ctx, "Executing confirmed operation", map[string]interface{}{
		"operation_id": op.ID.String(),
		"target_table": op.TargetTable,
	})

	/* Statement and EXECUTED transition share one transaction: if the
	 * status guard loses to a concurrent settlement (another confirm,
	 * the expiration sweep), rolling back undoes the data change too */
	tx, err := m.queries.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to start execution transaction: operation_id='%s', error=%w", op.ID.String(), err)
	}

	affected, err := tx.ExecuteUpdate(ctx, op.GeneratedSQL, params)
	if err != nil {
		tx.Rollback()
		won, markErr := m.queries.MarkFailed(ctx, op.ID, op.TenantID, userID, err.Error())
		if markErr != nil {
			return nil, fmt.Errorf("failed to record execution failure: operation_id='%s', error=%w", op.ID.String(), markErr)
		}
		if !won {
			return failure(op.ID, op.Status, msgAlreadyProcessed), nil
		}
		metrics.RecordOperationTransition(db.StatusFailed)
		metrics.ErrorWithContext(ctx, "Operation execution failed", err, map[string]interface{}{
			"operation_id": op.ID.String(),
		})
		return failure(op.ID, db.StatusFailed, fmt.Sprintf("Erro ao executar a operação: %v", err)), nil
	}

	result := fmt.Sprintf("Operação executada com sucesso. %d registro(s) afetado(s).", affected)
	won, err := tx.MarkExecuted(ctx, op.ID, op.TenantID, userID, int(affected), result)
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to record execution: operation_id='%s', error=%w", op.ID.String(), err)
	}
	if !won {
		/* The row settled under another status between the read and the
		 * transition; undo the statement with the transaction */
		tx.Rollback()
		metrics.WarnWithContext(ctx, "Execution transition lost race", map[string]interface{}{
			"operation_id": op.ID.String(),
		})
		return failure(op.ID, op.Status, msgAlreadyProcessed), nil
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit execution: operation_id='%s', error=%w", op.ID.String(), err)
	}
	metrics.RecordOperationTransition(db.StatusExecuted)

	entityName := metadataString(op.Metadata, "entity_name")
	return &ConfirmationResult{
		OperationID:     op.ID,
		Status:          db.StatusExecuted,
		Success:         true,
		Message:         successMessage(op, entityName, int(affected)),
		OperationType:   op.OperationType,
		TargetEntity:    op.TargetEntity,
		EntityName:      entityName,
		AffectedRecords: int(affected),
		CanRollback:     op.RollbackSQL != nil,
	}, nil
}

/* reject settles REJECTED with the supplied or default reason */
func (m *Manager) reject(ctx context.Context, op *db.PendingOperation, userID uuid.UUID, reason *string) (*ConfirmationResult, error) {
	storedReason := msgRejectedDefault
	message := msgCancelledByUser
	if reason != nil && *reason != "" {
		storedReason = *reason
		message = *reason
	}

	won, err := m.queries.MarkRejected(ctx, op.ID, op.TenantID, userID, storedReason)
	if err != nil {
		return nil, fmt.Errorf("failed to reject operation: operation_id='%s', error=%w", op.ID.String(), err)
	}
	if !won {
		return failure(op.ID, op.Status, msgAlreadyProcessed), nil
	}
	metrics.RecordOperationTransition(db.StatusRejected)

	return &ConfirmationResult{
		OperationID: op.ID,
		Status:      db.StatusRejected,
		Success:     true,
		Message:     message,
	}, nil
}

/* Rollback reverses an executed operation inside the rollback window.
 * Every violated precondition yields its specific message and leaves
 * the row untouched. */
func (m *Manager) Rollback(ctx context.Context, operationID, tenantID, userID uuid.UUID) (*ConfirmationResult, error) {
	metrics.InfoWithContext(ctx, "Attempting rollback", map[string]interface{}{
		"operation_id": operationID.String(),
	})

	op, err := m.queries.GetOperation(ctx, operationID, tenantID)
	if err != nil {
		return failure(operationID, "", msgNotFound), nil
	}

	if op.Status != db.StatusExecuted {
		return failure(operationID, op.Status, msgOnlyExecuted), nil
	}
	if op.RollbackSQL == nil || *op.RollbackSQL == "" {
		return failure(operationID, op.Status, msgNoRollback), nil
	}
	if op.IsRolledBack {
		return failure(operationID, op.Status, msgAlreadyRolled), nil
	}
	if op.ExecutedAt != nil && m.now().After(op.ExecutedAt.Add(rollbackWindow)) {
		return failure(operationID, op.Status, msgWindowExpired), nil
	}

	/* Same transaction discipline as execution: a concurrent reversal
	 * winning the guard takes this statement down with the rollback */
	tx, err := m.queries.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to start rollback transaction: operation_id='%s', error=%w", operationID.String(), err)
	}

	affected, err := tx.ExecuteUpdate(ctx, *op.RollbackSQL, map[string]interface{}{
		"tenant_id": op.TenantID,
	})
	if err != nil {
		tx.Rollback()
		metrics.ErrorWithContext(ctx, "Rollback failed", err, map[string]interface{}{
			"operation_id": operationID.String(),
		})
		return failure(operationID, op.Status, fmt.Sprintf("Erro ao reverter a operação: %v", err)), nil
	}

	won, err := tx.MarkRolledBack(ctx, operationID, tenantID, userID)
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to record rollback: operation_id='%s', error=%w", operationID.String(), err)
	}
	if !won {
		tx.Rollback()
		return failure(operationID, op.Status, msgAlreadyRolled), nil
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit rollback: operation_id='%s', error=%w", operationID.String(), err)
	}
	metrics.RecordOperationTransition(db.StatusRolledBack)

	entityName := metadataString(op.Metadata, "entity_name")
	return &ConfirmationResult{
		OperationID:     operationID,
		Status:          db.StatusRolledBack,
		Success:         true,
		Message:         fmt.Sprintf("Alterações em %s revertidas com sucesso!", entityName),
		OperationType:   op.OperationType,
		TargetEntity:    op.TargetEntity,
		EntityName:      entityName,
		AffectedRecords: int(affected),
		CanRollback:     false,
	}, nil
}

/* PendingOperationsForConversation lists open proposals for one conversation */
func (m *Manager) PendingOperationsForConversation(ctx context.Context, conversationID string, tenantID uuid.UUID, includeHistory bool) ([]db.PendingOperation, error) {
	return m.queries.ListConversationOperations(ctx, conversationID, tenantID, includeHistory)
}

/* CancelConversationOperations expires every open proposal in a conversation */
func (m *Manager) CancelConversationOperations(ctx context.Context, conversationID string, tenantID uuid.UUID) (int64, error) {
	cancelled, err := m.queries.CancelConversationOperations(ctx, conversationID, tenantID)
	if err != nil {
		return 0, err
	}
	if cancelled > 0 {
		metrics.InfoWithContext(ctx, "Cancelled conversation operations", map[string]interface{}{
			"conversation_id": conversationID,
			"cancelled":       cancelled,
		})
	}
	return cancelled, nil
}

/* successMessage renders the per-operation-type confirmation text */
func successMessage(op *db.PendingOperation, entityName string, affected int) string {
	name := entityName
	if name == "" {
		name = "Registro"
	}
	switch op.OperationType {
	case db.OperationInsert:
		return fmt.Sprintf("%s criado com sucesso!", op.TargetEntity)
	case db.OperationUpdate:
		return fmt.Sprintf("Dados de %s atualizados com sucesso!", name)
	case db.OperationDelete:
		return fmt.Sprintf("%s removido com sucesso!", name)
	case db.OperationBulkUpdate:
		return fmt.Sprintf("%d registros atualizados com sucesso!", affected)
	case db.OperationBulkDelete:
		return fmt.Sprintf("%d registros removidos com sucesso!", affected)
	}
	return "Operação executada com sucesso."
}

func metadataString(metadata db.JSONBMap, key string) string {
	if metadata == nil {
		return ""
	}
	if v, ok := metadata[key].(string); ok {
		return v
	}
	return ""
}

func failure(operationID uuid.UUID, status, message string) *ConfirmationResult {
	return &ConfirmationResult{
		OperationID: operationID,
		Status:      status,
		Success:     false,
		Message:     message,
	}
}
