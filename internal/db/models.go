/*-------------------------------------------------------------------------
 *
 * models.go
 *    Database models for NeuronHR
 *
 * Defines data structures for pending operations and their JSONB
 * payloads. Column mapping uses sqlx db tags; nullable columns are
 * pointers.
 *
 * Copyright (c) 2024-2025, neurondb, Inc. <admin@neurondb.com>
 *
 * IDENTIFICATION
 *    NeuronHR/internal/db/models.go
 *
 *-------------------------------------------------------------------------
 */

package db

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

/* Operation types */
const (
	OperationInsert     = "INSERT"
	OperationUpdate     = "UPDATE"
	OperationDelete     = "DELETE"
	OperationBulkUpdate = "BULK_UPDATE"
	OperationBulkDelete = "BULK_DELETE"
)

/* Operation statuses */
const (
	StatusPending    = "PENDING"
	StatusExecuted   = "EXECUTED"
	StatusRejected   = "REJECTED"
	StatusExpired    = "EXPIRED"
	StatusFailed     = "FAILED"
	StatusRolledBack = "ROLLED_BACK"
)

/* Risk levels, ordered from least to most severe */
const (
	RiskLow      = "LOW"
	RiskMedium   = "MEDIUM"
	RiskHigh     = "HIGH"
	RiskCritical = "CRITICAL"
)

/* riskRank orders risk levels for comparisons */
var riskRank = map[string]int{
	RiskLow:      0,
	RiskMedium:   1,
	RiskHigh:     2,
	RiskCritical: 3,
}

/* RiskAtLeast reports whether level is at or above floor */
func RiskAtLeast(level, floor string) bool {
	return riskRank[level] >= riskRank[floor]
}

/* MaxRisk returns the more severe of two risk levels */
func MaxRisk(a, b string) string {
	if riskRank[a] >= riskRank[b] {
		return a
	}
	return b
}

/* IsValidRisk reports whether s names a known risk level */
func IsValidRisk(s string) bool {
	_, ok := riskRank[s]
	return ok
}

/* IsValidStatus reports whether s names a known operation status */
func IsValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusExecuted, StatusRejected, StatusExpired, StatusFailed, StatusRolledBack:
		return true
	}
	return false
}

/* JSONBMap is a map stored as a JSONB column */
type JSONBMap map[string]interface{}

func (m JSONBMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

func (m *JSONBMap) Scan(src interface{}) error {
	if src == nil {
		*m = nil
		return nil
	}
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into JSONBMap", src)
	}
	return json.Unmarshal(data, m)
}

/* ToMap returns the map, never nil */
func (m JSONBMap) ToMap() map[string]interface{} {
	if m == nil {
		return map[string]interface{}{}
	}
	return m
}

/* DataChange describes one field change in a pending operation */
type DataChange struct {
	Field      string      `json:"field"`
	FieldLabel string      `json:"field_label"`
	OldValue   interface{} `json:"old_value"`
	NewValue   interface{} `json:"new_value"`
	ChangeType string      `json:"change_type"`
}

/* DataChangeList is an ordered change list stored as a JSONB column */
type DataChangeList []DataChange

func (l DataChangeList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

func (l *DataChangeList) Scan(src interface{}) error {
	if src == nil {
		*l = nil
		return nil
	}
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into DataChangeList", src)
	}
	return json.Unmarshal(data, l)
}

/* PendingOperation is a persisted, not-yet-applied mutation proposal.
 *
 * Rows are never deleted; terminal statuses are retained as the audit
 * trail of everything the agent proposed.
 */
type PendingOperation struct {
	ID                     uuid.UUID      `db:"id"`
	TenantID               uuid.UUID      `db:"tenant_id"`
	UserID                 uuid.UUID      `db:"user_id"`
	ConversationID         string         `db:"conversation_id"`
	MessageID              *string        `db:"message_id"`
	OperationType          string         `db:"operation_type"`
	TargetTable            string         `db:"target_table"`
	TargetEntity           string         `db:"target_entity"`
	TargetID               *uuid.UUID     `db:"target_id"`
	Description            string         `db:"description"`
	NaturalLanguageRequest string         `db:"natural_language_request"`
	OriginalData           JSONBMap       `db:"original_data"`
	NewData                JSONBMap       `db:"new_data"`
	ChangesSummary         DataChangeList `db:"changes_summary"`
	GeneratedSQL           string         `db:"generated_sql"`
	SQLParameters          JSONBMap       `db:"sql_parameters"`
	RollbackSQL            *string        `db:"rollback_sql"`
	RiskLevel              string         `db:"risk_level"`
	RequiresApproval       bool           `db:"requires_approval"`
	Status                 string         `db:"status"`
	AffectedRecordsCount   *int           `db:"affected_records_count"`
	ExecutionResult        *string        `db:"execution_result"`
	ExecutionError         *string        `db:"execution_error"`
	ExpiresAt              time.Time      `db:"expires_at"`
	CreatedAt              time.Time      `db:"created_at"`
	UpdatedAt              time.Time      `db:"updated_at"`
	ExecutedAt             *time.Time     `db:"executed_at"`
	ApprovedBy             *uuid.UUID     `db:"approved_by"`
	RejectedBy             *uuid.UUID     `db:"rejected_by"`
	RejectionReason        *string        `db:"rejection_reason"`
	IsRolledBack           bool           `db:"is_rolled_back"`
	RolledBackAt           *time.Time     `db:"rolled_back_at"`
	RolledBackBy           *uuid.UUID     `db:"rolled_back_by"`
	Metadata               JSONBMap       `db:"metadata"`
}

/* IsTerminal reports whether the operation can no longer be confirmed or rejected */
func (op *PendingOperation) IsTerminal() bool {
	return op.Status != StatusPending
}

/* IsExpired reports whether the proposal TTL has elapsed at the given instant */
func (op *PendingOperation) IsExpired(now time.Time) bool {
	return now.After(op.ExpiresAt)
}

/* OperationStatusCount is one row of the per-status statistics query */
type OperationStatusCount struct {
	Status string `db:"status"`
	Count  int64  `db:"count"`
}
