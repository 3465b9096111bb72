/*-------------------------------------------------------------------------
 *
 * operation_queries.go
 *    Database queries for pending operations
 *
 * Provides persistence for mutation proposals. Every status transition
 * is a conditional UPDATE guarded by the current status so that user
 * actions and the expiration sweep can race safely; callers check the
 * returned flag instead of reading then writing.
 *
 * Copyright (c) 2024-2025, neurondb, Inc. <admin@neurondb.com>
 *
 * IDENTIFICATION
 *    NeuronHR/internal/db/operation_queries.go
 *
 *-------------------------------------------------------------------------
 */

package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

/* Pending operation queries */
const (
	createOperationQuery = `
		INSERT INTO neuronhr.pending_operations
		(tenant_id, user_id, conversation_id, message_id, operation_type, target_table,
		 target_entity, target_id, description, natural_language_request, original_data,
		 new_data, changes_summary, generated_sql, sql_parameters, rollback_sql,
		 risk_level, requires_approval, status, expires_at, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11::jsonb, $12::jsonb,
		        $13::jsonb, $14, $15::jsonb, $16, $17, $18, $19, $20, $21::jsonb)
		RETURNING id, created_at, updated_at`

	getOperationQuery = `
		SELECT * FROM neuronhr.pending_operations
		WHERE id = $1 AND tenant_id = $2`

	listConversationOperationsQuery = `
		SELECT * FROM neuronhr.pending_operations
		WHERE conversation_id = $1 AND tenant_id = $2
		AND ($3::boolean OR status = 'PENDING')
		ORDER BY created_at DESC`

	listOperationsByStatusQuery = `
		SELECT * FROM neuronhr.pending_operations
		WHERE tenant_id = $1
		AND ($2::text IS NULL OR status = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`

	countPendingForUserQuery = `
		SELECT COUNT(*) FROM neuronhr.pending_operations
		WHERE tenant_id = $1 AND user_id = $2 AND status = 'PENDING'`

	hasOpenOperationForTargetQuery = `
		SELECT EXISTS (
			SELECT 1 FROM neuronhr.pending_operations
			WHERE tenant_id = $1 AND target_table = $2 AND target_id = $3 AND status = 'PENDING'
		)`

	markExecutedQuery = `
		UPDATE neuronhr.pending_operations
		SET status = 'EXECUTED', approved_by = $3, affected_records_count = $4,
		    execution_result = $5, executed_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND tenant_id = $2 AND status = 'PENDING'`

	markFailedQuery = `
		UPDATE neuronhr.pending_operations
		SET status = 'FAILED', approved_by = $3, execution_error = $4, updated_at = NOW()
		WHERE id = $1 AND tenant_id = $2 AND status = 'PENDING'`

	markRejectedQuery = `
		UPDATE neuronhr.pending_operations
		SET status = 'REJECTED', rejected_by = $3, rejection_reason = $4, updated_at = NOW()
		WHERE id = $1 AND tenant_id = $2 AND status = 'PENDING'`

	markExpiredQuery = `
		UPDATE neuronhr.pending_operations
		SET status = 'EXPIRED', updated_at = NOW()
		WHERE id = $1 AND tenant_id = $2 AND status = 'PENDING'`

	markRolledBackQuery = `
		UPDATE neuronhr.pending_operations
		SET status = 'ROLLED_BACK', is_rolled_back = TRUE, rolled_back_at = NOW(),
		    rolled_back_by = $3, updated_at = NOW()
		WHERE id = $1 AND tenant_id = $2 AND status = 'EXECUTED' AND is_rolled_back = FALSE`

	expireOverdueOperationsQuery = `
		UPDATE neuronhr.pending_operations
		SET status = 'EXPIRED', updated_at = NOW()
		WHERE status = 'PENDING' AND expires_at < NOW()`

	cancelConversationOperationsQuery = `
		UPDATE neuronhr.pending_operations
		SET status = 'EXPIRED', updated_at = NOW()
		WHERE conversation_id = $1 AND tenant_id = $2 AND status = 'PENDING'`

	operationStatsByStatusQuery = `
		SELECT status, COUNT(*) AS count FROM neuronhr.pending_operations
		WHERE tenant_id = $1
		GROUP BY status`
)

/* Pending operation methods */
func (q *Queries) CreateOperation(ctx context.Context, op *PendingOperation) error {
	params := []interface{}{
		op.TenantID, op.UserID, op.ConversationID, op.MessageID, op.OperationType,
		op.TargetTable, op.TargetEntity, op.TargetID, op.Description,
		op.NaturalLanguageRequest, op.OriginalData, op.NewData, op.ChangesSummary,
		op.GeneratedSQL, op.SQLParameters, op.RollbackSQL, op.RiskLevel,
		op.RequiresApproval, op.Status, op.ExpiresAt, op.Metadata,
	}
	err := q.DB.GetContext(ctx, op, createOperationQuery, params...)
	if err != nil {
		return q.formatQueryError("INSERT", createOperationQuery, len(params), "neuronhr.pending_operations", err)
	}
	return nil
}

func (q *Queries) GetOperation(ctx context.Context, id, tenantID uuid.UUID) (*PendingOperation, error) {
	var op PendingOperation
	err := q.DB.GetContext(ctx, &op, getOperationQuery, id, tenantID)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("pending operation not found on %s: operation_id='%s', tenant_id='%s', table='neuronhr.pending_operations', error=%w",
			q.getConnInfoString(), id.String(), tenantID.String(), err)
	}
	if err != nil {
		return nil, q.formatQueryError("SELECT", getOperationQuery, 2, "neuronhr.pending_operations", err)
	}
	return &op, nil
}

func (q *Queries) ListConversationOperations(ctx context.Context, conversationID string, tenantID uuid.UUID, includeHistory bool) ([]PendingOperation, error) {
	var ops []PendingOperation
	err := q.DB.SelectContext(ctx, &ops, listConversationOperationsQuery, conversationID, tenantID, includeHistory)
	if err != nil {
		return nil, q.formatQueryError("SELECT", listConversationOperationsQuery, 3, "neuronhr.pending_operations", err)
	}
	return ops, nil
}

func (q *Queries) ListOperationsByStatus(ctx context.Context, tenantID uuid.UUID, status *string, limit, offset int) ([]PendingOperation, error) {
	var ops []PendingOperation
	err := q.DB.SelectContext(ctx, &ops, listOperationsByStatusQuery, tenantID, status, limit, offset)
	if err != nil {
		return nil, q.formatQueryError("SELECT", listOperationsByStatusQuery, 4, "neuronhr.pending_operations", err)
	}
	return ops, nil
}

func (q *Queries) CountPendingForUser(ctx context.Context, tenantID, userID uuid.UUID) (int64, error) {
	var count int64
	err := q.DB.GetContext(ctx, &count, countPendingForUserQuery, tenantID, userID)
	if err != nil {
		return 0, q.formatQueryError("SELECT", countPendingForUserQuery, 2, "neuronhr.pending_operations", err)
	}
	return count, nil
}

func (q *Queries) HasOpenOperationForTarget(ctx context.Context, tenantID uuid.UUID, targetTable string, targetID uuid.UUID) (bool, error) {
	var exists bool
	err := q.DB.GetContext(ctx, &exists, hasOpenOperationForTargetQuery, tenantID, targetTable, targetID)
	if err != nil {
		return false, q.formatQueryError("SELECT", hasOpenOperationForTargetQuery, 3, "neuronhr.pending_operations", err)
	}
	return exists, nil
}

/* transition runs one conditional status UPDATE and reports whether it won */
func (q *Queries) transition(ctx context.Context, query string, params ...interface{}) (bool, error) {
	result, err := q.DB.ExecContext(ctx, query, params...)
	if err != nil {
		return false, q.formatQueryError("UPDATE", query, len(params), "neuronhr.pending_operations", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected on %s: query='%s', error=%w", q.getConnInfoString(), query, err)
	}
	return affected > 0, nil
}

/* transition runs one conditional status UPDATE inside the transaction */
func (t *Tx) transition(ctx context.Context, query string, params ...interface{}) (bool, error) {
	result, err := t.tx.ExecContext(ctx, query, params...)
	if err != nil {
		return false, t.q.formatQueryError("UPDATE", query, len(params), "neuronhr.pending_operations", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected on %s: query='%s', error=%w", t.q.getConnInfoString(), query, err)
	}
	return affected > 0, nil
}

/* MarkExecuted runs inside the execution transaction so a lost guard
 * takes the data change down with it */
func (t *Tx) MarkExecuted(ctx context.Context, id, tenantID, approvedBy uuid.UUID, affectedCount int, result string) (bool, error) {
	return t.transition(ctx, markExecutedQuery, id, tenantID, approvedBy, affectedCount, result)
}

func (q *Queries) MarkFailed(ctx context.Context, id, tenantID, approvedBy uuid.UUID, executionError string) (bool, error) {
	return q.transition(ctx, markFailedQuery, id, tenantID, approvedBy, executionError)
}

func (q *Queries) MarkRejected(ctx context.Context, id, tenantID, rejectedBy uuid.UUID, reason string) (bool, error) {
	return q.transition(ctx, markRejectedQuery, id, tenantID, rejectedBy, reason)
}

func (q *Queries) MarkExpired(ctx context.Context, id, tenantID uuid.UUID) (bool, error) {
	return q.transition(ctx, markExpiredQuery, id, tenantID)
}

func (t *Tx) MarkRolledBack(ctx context.Context, id, tenantID, rolledBackBy uuid.UUID) (bool, error) {
	return t.transition(ctx, markRolledBackQuery, id, tenantID, rolledBackBy)
}

func (q *Queries) ExpireOverdueOperations(ctx context.Context) (int64, error) {
	result, err := q.DB.ExecContext(ctx, expireOverdueOperationsQuery)
	if err != nil {
		return 0, q.formatQueryError("UPDATE", expireOverdueOperationsQuery, 0, "neuronhr.pending_operations", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected on %s: query='%s', error=%w", q.getConnInfoString(), expireOverdueOperationsQuery, err)
	}
	return affected, nil
}

func (q *Queries) CancelConversationOperations(ctx context.Context, conversationID string, tenantID uuid.UUID) (int64, error) {
	result, err := q.DB.ExecContext(ctx, cancelConversationOperationsQuery, conversationID, tenantID)
	if err != nil {
		return 0, q.formatQueryError("UPDATE", cancelConversationOperationsQuery, 2, "neuronhr.pending_operations", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected on %s: query='%s', error=%w", q.getConnInfoString(), cancelConversationOperationsQuery, err)
	}
	return affected, nil
}

func (q *Queries) OperationStatsByStatus(ctx context.Context, tenantID uuid.UUID) ([]OperationStatusCount, error) {
	var stats []OperationStatusCount
	err := q.DB.SelectContext(ctx, &stats, operationStatsByStatusQuery, tenantID)
	if err != nil {
		return nil, q.formatQueryError("SELECT", operationStatsByStatusQuery, 1, "neuronhr.pending_operations", err)
	}
	return stats, nil
}
