/*-------------------------------------------------------------------------
 *
 * risk.go
 *    Deterministic risk policy for mutation proposals
 *
 * The model self-assesses a risk level, but the persisted level is
 * never below the floor computed here from operation type, target
 * table, and touched fields. The policy raises, never lowers.
 *
 * Copyright (c) 2024-2026, neurondb, Inc. <support@neurondb.ai>
 *
 * IDENTIFICATION
 *    NeuronHR/internal/mutation/risk.go
 *
 *-------------------------------------------------------------------------
 */

package mutation

import (
	"strings"

	"github.com/neurondb/NeuronHR/internal/db"
)

/* sensitiveFields always push the floor to HIGH when touched */
var sensitiveFields = map[string]bool{
	"cpf":          true,
	"bank_account": true,
	"pix_key":      true,
	"password":     true,
}

/* salaryFields push the floor to at least MEDIUM */
var salaryFields = map[string]bool{
	"base_salary": true,
	"salary_type": true,
}

/* IsSensitiveField reports whether field carries sensitive identity or payment data */
func IsSensitiveField(field string) bool {
	f := strings.ToLower(field)
	return sensitiveFields[f] || salaryFields[f]
}

/* RiskFloor computes the minimum acceptable risk level for a proposal */
func RiskFloor(doc *AnalysisDocument) string {
	floor := db.RiskLow

	switch doc.OperationType {
	case db.OperationDelete:
		floor = db.MaxRisk(floor, db.RiskHigh)
	case db.OperationBulkUpdate, db.OperationBulkDelete:
		floor = db.MaxRisk(floor, db.RiskCritical)
	}

	for _, change := range doc.Changes {
		f := strings.ToLower(change.Field)
		if sensitiveFields[f] {
			floor = db.MaxRisk(floor, db.RiskHigh)
		}
		if salaryFields[f] {
			floor = db.MaxRisk(floor, db.RiskMedium)
		}
	}

	/* A mutation without a specific row filter is a bulk statement
	 * regardless of what the model called it */
	if isRowMutation(doc.OperationType) && !hasRowFilter(doc.SQL) {
		floor = db.MaxRisk(floor, db.RiskCritical)
	}

	return floor
}

/* EnforceRiskPolicy returns the persisted risk level: the model's
 * self-assessment raised to at least the deterministic floor */
func EnforceRiskPolicy(doc *AnalysisDocument) string {
	declared := doc.RiskLevel
	if !db.IsValidRisk(declared) {
		declared = db.RiskMedium
	}
	return db.MaxRisk(declared, RiskFloor(doc))
}

func isRowMutation(operationType string) bool {
	return operationType == db.OperationUpdate || operationType == db.OperationDelete
}

/* hasRowFilter reports whether the statement pins a single row */
func hasRowFilter(sql string) bool {
	lowered := strings.ToLower(sql)
	if !strings.Contains(lowered, "where") {
		return false
	}
	return strings.Contains(lowered, ":entity_id") || strings.Contains(lowered, "id =") || strings.Contains(lowered, "id=")
}
