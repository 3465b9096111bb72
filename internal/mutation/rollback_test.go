/*-------------------------------------------------------------------------
 *
 * rollback_test.go
 *    Tests for rollback statement generation
 *
 * Copyright (c) 2024-2026, neurondb, Inc. <support@neurondb.ai>
 *
 * IDENTIFICATION
 *    NeuronHR/internal/mutation/rollback_test.go
 *
 *-------------------------------------------------------------------------
 */

package mutation

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/neurondb/NeuronHR/internal/db"
)

func TestGenerateRollbackSQLRestoresPreImage(t *testing.T) {
	entityID := uuid.MustParse("11111111-2222-3333-4444-555555555555")
	doc := &AnalysisDocument{
		OperationType: db.OperationUpdate,
		TargetTable:   "shared.employees",
		Changes: []AnalysisChange{
			{Field: "base_salary", NewValue: 6000},
			{Field: "position", NewValue: "Gerente"},
		},
	}
	original := map[string]interface{}{
		"base_salary": 5000,
		"position":    "Analista",
	}

	sql := GenerateRollbackSQL(doc, original, entityID)
	if sql == nil {
		t.Fatal("expected rollback SQL for UPDATE")
	}

	want := "UPDATE shared.employees SET base_salary = '5000', position = 'Analista' WHERE id = '11111111-2222-3333-4444-555555555555'"
	if *sql != want {
		t.Errorf("rollback SQL:\n got %s\nwant %s", *sql, want)
	}
}

func TestGenerateRollbackSQLEscapesQuotes(t *testing.T) {
	doc := &AnalysisDocument{
		OperationType: db.OperationUpdate,
		TargetTable:   "shared.employees",
		Changes:       []AnalysisChange{{Field: "full_name"}},
	}
	original := map[string]interface{}{"full_name": "Maria D'Ávila"}

	sql := GenerateRollbackSQL(doc, original, uuid.New())
	if sql == nil {
		t.Fatal("expected rollback SQL")
	}
	if got := *sql; !strings.Contains(got, "full_name = 'Maria D''Ávila'") {
		t.Errorf("quote not escaped: %s", got)
	}
}

func TestGenerateRollbackSQLNullsMissingOriginals(t *testing.T) {
	doc := &AnalysisDocument{
		OperationType: db.OperationUpdate,
		TargetTable:   "shared.employees",
		Changes:       []AnalysisChange{{Field: "termination_date"}},
	}
	original := map[string]interface{}{"full_name": "Maria Silva"}

	sql := GenerateRollbackSQL(doc, original, uuid.New())
	if sql == nil {
		t.Fatal("expected rollback SQL")
	}
	if !strings.Contains(*sql, "termination_date = NULL") {
		t.Errorf("missing original should restore NULL: %s", *sql)
	}
}

func TestGenerateRollbackSQLOnlyForUpdate(t *testing.T) {
	original := map[string]interface{}{"full_name": "Maria Silva"}
	changes := []AnalysisChange{{Field: "full_name"}}

	for _, operationType := range []string{db.OperationInsert, db.OperationDelete, db.OperationBulkUpdate, db.OperationBulkDelete} {
		doc := &AnalysisDocument{
			OperationType: operationType,
			TargetTable:   "shared.employees",
			Changes:       changes,
		}
		if sql := GenerateRollbackSQL(doc, original, uuid.New()); sql != nil {
			t.Errorf("%s should not be reversible, got %s", operationType, *sql)
		}
	}
}

func TestGenerateRollbackSQLRequiresPreImage(t *testing.T) {
	doc := &AnalysisDocument{
		OperationType: db.OperationUpdate,
		TargetTable:   "shared.employees",
		Changes:       []AnalysisChange{{Field: "phone"}},
	}
	if sql := GenerateRollbackSQL(doc, nil, uuid.New()); sql != nil {
		t.Errorf("no pre-image should mean no rollback, got %s", *sql)
	}
	if sql := GenerateRollbackSQL(doc, map[string]interface{}{}, uuid.New()); sql != nil {
		t.Errorf("empty pre-image should mean no rollback, got %s", *sql)
	}
}
