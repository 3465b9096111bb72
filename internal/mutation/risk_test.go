/*-------------------------------------------------------------------------
 *
 * risk_test.go
 *    Tests for the deterministic risk policy
 *
 * Copyright (c) 2024-2026, neurondb, Inc. <support@neurondb.ai>
 *
 * IDENTIFICATION
 *    NeuronHR/internal/mutation/risk_test.go
 *
 *-------------------------------------------------------------------------
 */

package mutation

import (
	"testing"

	"github.com/neurondb/NeuronHR/internal/db"
)

const scopedUpdateSQL = "UPDATE shared.employees SET phone = :new_value WHERE id = :entity_id AND tenant_id = :tenant_id"

func TestRiskFloorByOperationType(t *testing.T) {
	tests := []struct {
		name          string
		operationType string
		want          string
	}{
		{"insert is low", db.OperationInsert, db.RiskLow},
		{"update is low", db.OperationUpdate, db.RiskLow},
		{"delete is high", db.OperationDelete, db.RiskHigh},
		{"bulk update is critical", db.OperationBulkUpdate, db.RiskCritical},
		{"bulk delete is critical", db.OperationBulkDelete, db.RiskCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := &AnalysisDocument{
				OperationType: tt.operationType,
				TargetTable:   "shared.employees",
				SQL:           scopedUpdateSQL,
			}
			if got := RiskFloor(doc); got != tt.want {
				t.Errorf("floor = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestRiskFloorBySensitiveField(t *testing.T) {
	tests := []struct {
		field string
		want  string
	}{
		{"cpf", db.RiskHigh},
		{"bank_account", db.RiskHigh},
		{"pix_key", db.RiskHigh},
		{"password", db.RiskHigh},
		{"CPF", db.RiskHigh},
		{"base_salary", db.RiskMedium},
		{"salary_type", db.RiskMedium},
		{"phone", db.RiskLow},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			doc := &AnalysisDocument{
				OperationType: db.OperationUpdate,
				TargetTable:   "shared.employees",
				SQL:           scopedUpdateSQL,
				Changes:       []AnalysisChange{{Field: tt.field}},
			}
			if got := RiskFloor(doc); got != tt.want {
				t.Errorf("floor for %s = %s, want %s", tt.field, got, tt.want)
			}
		})
	}
}

func TestRiskFloorTreatsUnfilteredMutationAsCritical(t *testing.T) {
	doc := &AnalysisDocument{
		OperationType: db.OperationUpdate,
		TargetTable:   "shared.employees",
		SQL:           "UPDATE shared.employees SET status = :new_value",
		Changes:       []AnalysisChange{{Field: "status"}},
	}
	if got := RiskFloor(doc); got != db.RiskCritical {
		t.Errorf("floor = %s, want CRITICAL for mutation without row filter", got)
	}
}

func TestRiskFloorAcceptsEntityIDFilter(t *testing.T) {
	doc := &AnalysisDocument{
		OperationType: db.OperationUpdate,
		TargetTable:   "shared.employees",
		SQL:           scopedUpdateSQL,
		Changes:       []AnalysisChange{{Field: "phone"}},
	}
	if got := RiskFloor(doc); got != db.RiskLow {
		t.Errorf("floor = %s, want LOW for row-scoped update", got)
	}
}

func TestEnforceRiskPolicyNeverLowers(t *testing.T) {
	doc := &AnalysisDocument{
		OperationType: db.OperationDelete,
		TargetTable:   "shared.employees",
		SQL:           "DELETE FROM shared.employees WHERE id = :entity_id AND tenant_id = :tenant_id",
		RiskLevel:     db.RiskLow,
	}
	if got := EnforceRiskPolicy(doc); got != db.RiskHigh {
		t.Errorf("policy = %s, want HIGH despite model declaring LOW", got)
	}
}

func TestEnforceRiskPolicyKeepsHigherDeclaration(t *testing.T) {
	doc := &AnalysisDocument{
		OperationType: db.OperationUpdate,
		TargetTable:   "shared.employees",
		SQL:           scopedUpdateSQL,
		RiskLevel:     db.RiskCritical,
	}
	if got := EnforceRiskPolicy(doc); got != db.RiskCritical {
		t.Errorf("policy = %s, want the declared CRITICAL kept", got)
	}
}

func TestEnforceRiskPolicyDefaultsInvalidDeclaration(t *testing.T) {
	doc := &AnalysisDocument{
		OperationType: db.OperationUpdate,
		TargetTable:   "shared.employees",
		SQL:           scopedUpdateSQL,
		RiskLevel:     "EXTREME",
	}
	if got := EnforceRiskPolicy(doc); got != db.RiskMedium {
		t.Errorf("policy = %s, want MEDIUM for unknown declaration", got)
	}
}

func TestIsSensitiveField(t *testing.T) {
	if !IsSensitiveField("cpf") || !IsSensitiveField("base_salary") {
		t.Error("expected cpf and base_salary to be sensitive")
	}
	if IsSensitiveField("phone") {
		t.Error("phone should not be sensitive")
	}
}
