/*-------------------------------------------------------------------------
 *
 * analysis_test.go
 *    Tests for analysis document parsing and validation
 *
 * Copyright (c) 2024-2026, neurondb, Inc. <support@neurondb.ai>
 *
 * IDENTIFICATION
 *    NeuronHR/internal/mutation/analysis_test.go
 *
 *-------------------------------------------------------------------------
 */

package mutation

import (
	"strings"
	"testing"
)

const validAnalysisJSON = `{
	"operation_type": "UPDATE",
	"target_table": "shared.employees",
	"target_entity": "funcionário",
	"description": "Atualizar salário de Maria Silva",
	"risk_level": "MEDIUM",
	"entity_identifier": {
		"search_field": "full_name",
		"search_value": "Maria Silva",
		"search_type": "CONTAINS"
	},
	"changes": [
		{"field": "base_salary", "field_label": "Salário base", "new_value": 6000, "change_type": "UPDATE"}
	],
	"sql": "UPDATE shared.employees SET base_salary = :new_value WHERE id = :entity_id AND tenant_id = :tenant_id",
	"parameters": {"new_value": 6000},
	"validation_query": "SELECT id, full_name FROM shared.employees WHERE tenant_id = :tenant_id AND full_name ILIKE :search_value",
	"confirmation_message": "Confirma o aumento de salário?"
}`

func TestParseAnalysisValidDocument(t *testing.T) {
	doc, err := ParseAnalysis(validAnalysisJSON)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if doc.OperationType != "UPDATE" {
		t.Errorf("operation_type = %s", doc.OperationType)
	}
	if doc.TargetTable != "shared.employees" {
		t.Errorf("target_table = %s", doc.TargetTable)
	}
	if doc.EntityIdentifier == nil || doc.EntityIdentifier.SearchValue != "Maria Silva" {
		t.Errorf("entity identifier not decoded: %+v", doc.EntityIdentifier)
	}
	if len(doc.Changes) != 1 || doc.Changes[0].Field != "base_salary" {
		t.Errorf("changes not decoded: %+v", doc.Changes)
	}
}

func TestParseAnalysisAcceptsFencedDocument(t *testing.T) {
	doc, err := ParseAnalysis("Segue a análise:\n```json\n" + validAnalysisJSON + "\n```")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Description != "Atualizar salário de Maria Silva" {
		t.Errorf("description = %s", doc.Description)
	}
}

func TestParseAnalysisRejectsMissingRequiredFields(t *testing.T) {
	_, err := ParseAnalysis(`{"operation_type": "UPDATE", "target_table": "shared.employees"}`)
	if err == nil {
		t.Fatal("expected schema validation failure")
	}
	if !strings.Contains(err.Error(), "schema validation") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestParseAnalysisRejectsUnknownOperationType(t *testing.T) {
	_, err := ParseAnalysis(`{
		"operation_type": "TRUNCATE",
		"target_table": "shared.employees",
		"target_entity": "funcionário",
		"description": "x",
		"sql": "TRUNCATE shared.employees"
	}`)
	if err == nil {
		t.Fatal("expected schema validation failure for TRUNCATE")
	}
}

func TestParseAnalysisRejectsGarbage(t *testing.T) {
	_, err := ParseAnalysis("desculpe, não entendi o comando")
	if err == nil {
		t.Fatal("expected failure for non-JSON content")
	}
}

func TestParseAnalysisDefaults(t *testing.T) {
	doc, err := ParseAnalysis(`{
		"operation_type": "UPDATE",
		"target_table": "shared.employees",
		"target_entity": "funcionário",
		"description": "x",
		"changes": [{"field": "phone"}],
		"sql": "UPDATE shared.employees SET phone = :new_value WHERE id = :entity_id"
	}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if doc.RiskLevel != "MEDIUM" {
		t.Errorf("risk_level default = %s, want MEDIUM", doc.RiskLevel)
	}
	if doc.Changes[0].ChangeType != "UPDATE" {
		t.Errorf("change_type default = %s, want UPDATE", doc.Changes[0].ChangeType)
	}
}
