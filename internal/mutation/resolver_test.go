/*-------------------------------------------------------------------------
 *
 * resolver_test.go
 *    Tests for entity resolution
 *
 * Copyright (c) 2024-2026, neurondb, Inc. <support@neurondb.ai>
 *
 * IDENTIFICATION
 *    NeuronHR/internal/mutation/resolver_test.go
 *
 *-------------------------------------------------------------------------
 */

package mutation

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/neurondb/NeuronHR/internal/db"
)

const employeeValidationQuery = "SELECT id, full_name FROM shared.employees WHERE tenant_id = :tenant_id AND full_name ILIKE :search_value"

func newTestResolver(t *testing.T) (*Resolver, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	return NewResolver(db.NewQueries(sqlx.NewDb(mockDB, "sqlmock"))), mock
}

func identifiedDoc(searchValue, searchType string) *AnalysisDocument {
	return &AnalysisDocument{
		OperationType:   db.OperationUpdate,
		TargetTable:     "shared.employees",
		ValidationQuery: employeeValidationQuery,
		EntityIdentifier: &EntityIdentifier{
			SearchField: "full_name",
			SearchValue: searchValue,
			SearchType:  searchType,
		},
	}
}

func TestResolveSingleMatch(t *testing.T) {
	resolver, mock := newTestResolver(t)

	mock.ExpectQuery(`SELECT id, full_name FROM shared\.employees`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "full_name"}).
			AddRow("33333333-3333-3333-3333-333333333333", "Maria Silva"))

	entity, err := resolver.Resolve(context.Background(), identifiedDoc("Maria", "CONTAINS"), testTenantID)
	require.NoError(t, err)
	require.Equal(t, "33333333-3333-3333-3333-333333333333", entity.ID.String())
	require.Equal(t, "Maria Silva", entity.DisplayName)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveNoMatchIsValidationError(t *testing.T) {
	resolver, mock := newTestResolver(t)

	mock.ExpectQuery(`SELECT id, full_name FROM shared\.employees`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "full_name"}))

	_, err := resolver.Resolve(context.Background(), identifiedDoc("Fulano", "CONTAINS"), testTenantID)
	verr, ok := AsValidationError(err)
	require.True(t, ok, "expected a validation error, got %v", err)
	require.Contains(t, verr.Message, "Não foi encontrado nenhum registro com 'Fulano'")
}

func TestResolveAmbiguousMatchListsCandidates(t *testing.T) {
	resolver, mock := newTestResolver(t)

	mock.ExpectQuery(`SELECT id, full_name FROM shared\.employees`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "full_name"}).
			AddRow("33333333-3333-3333-3333-333333333333", "Maria Silva").
			AddRow("44444444-4444-4444-4444-444444444444", "Maria Souza"))

	_, err := resolver.Resolve(context.Background(), identifiedDoc("Maria", "CONTAINS"), testTenantID)
	verr, ok := AsValidationError(err)
	require.True(t, ok, "expected a validation error, got %v", err)
	require.Contains(t, verr.Message, "múltiplos registros")
	require.Contains(t, verr.Message, "Maria Silva")
	require.Contains(t, verr.Message, "Maria Souza")
}

func TestResolveWithoutValidationQuery(t *testing.T) {
	resolver, _ := newTestResolver(t)

	doc := &AnalysisDocument{OperationType: db.OperationUpdate, TargetTable: "shared.employees"}
	_, err := resolver.Resolve(context.Background(), doc, testTenantID)
	_, ok := AsValidationError(err)
	require.True(t, ok, "expected a validation error, got %v", err)
}

func TestSearchValueFallbackWildcards(t *testing.T) {
	tests := []struct {
		name       string
		value      string
		searchType string
		want       string
	}{
		{"contains wraps", "Maria", "CONTAINS", "%Maria%"},
		{"contains keeps existing wildcards", "%Maria%", "CONTAINS", "%Maria%"},
		{"starts_with suffixes", "Mar", "STARTS_WITH", "Mar%"},
		{"exact untouched", "Maria Silva", "EXACT", "Maria Silva"},
		{"empty type defaults to contains", "Maria", "", "%Maria%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := identifiedDoc(tt.value, tt.searchType)
			got, found := doc.searchValueFallback()
			require.True(t, found)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestSearchValueFallbackFromParameters(t *testing.T) {
	doc := &AnalysisDocument{
		ValidationQuery: employeeValidationQuery,
		Parameters:      map[string]interface{}{"search_value": "%Maria%"},
	}
	got, found := doc.searchValueFallback()
	require.True(t, found)
	require.Equal(t, "%Maria%", got)
}
