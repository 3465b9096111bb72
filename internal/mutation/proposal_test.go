/*-------------------------------------------------------------------------
 *
 * proposal_test.go
 *    Tests for the proposal builder pipeline
 *
 * Copyright (c) 2024-2026, neurondb, Inc. <support@neurondb.ai>
 *
 * IDENTIFICATION
 *    NeuronHR/internal/mutation/proposal_test.go
 *
 *-------------------------------------------------------------------------
 */

package mutation

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/neurondb/NeuronHR/internal/db"
	"github.com/neurondb/NeuronHR/internal/llm"
)

/* analysisProvider replays a canned analysis document */
type analysisProvider struct {
	content string
	err     error
}

func (p *analysisProvider) Chat(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	if p.err != nil {
		return nil, p.err
	}
	return &llm.ChatResponse{Content: p.content}, nil
}

func (p *analysisProvider) Model() string { return "canned-analysis" }

func newTestBuilder(t *testing.T, content string, ttl time.Duration) (*Builder, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	queries := db.NewQueries(sqlx.NewDb(mockDB, "sqlmock"))
	return NewBuilder(&analysisProvider{content: content}, queries, ttl), mock
}

func proposalRequest() ProposalRequest {
	return ProposalRequest{
		Command:        "aumente o salário da maria para 6000",
		TenantID:       testTenantID,
		UserID:         testUserID,
		ConversationID: "conv-1",
	}
}

func TestProposeCreatesPendingOperation(t *testing.T) {
	builder, mock := newTestBuilder(t, validAnalysisJSON, 30*time.Minute)

	mock.ExpectQuery(`SELECT id, full_name FROM shared\.employees`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "full_name"}).
			AddRow("33333333-3333-3333-3333-333333333333", "Maria Silva"))
	mock.ExpectQuery(`SELECT EXISTS`).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(`SELECT \* FROM shared\.employees WHERE id = `).
		WillReturnRows(sqlmock.NewRows([]string{"id", "full_name", "base_salary"}).
			AddRow("33333333-3333-3333-3333-333333333333", "Maria Silva", 5000))
	mock.ExpectQuery(`INSERT INTO neuronhr\.pending_operations`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(testOpID.String(), time.Now(), time.Now()))

	before := time.Now().UTC()
	op, err := builder.Propose(context.Background(), proposalRequest())
	require.NoError(t, err)

	require.Equal(t, db.StatusPending, op.Status)
	require.Equal(t, "UPDATE", op.OperationType)
	require.Equal(t, "shared.employees", op.TargetTable)
	require.NotNil(t, op.TargetID)
	require.Equal(t, "33333333-3333-3333-3333-333333333333", op.TargetID.String())
	require.True(t, op.RequiresApproval)

	/* TTL is stamped at creation */
	require.WithinDuration(t, before.Add(30*time.Minute), op.ExpiresAt, 5*time.Second)

	/* Declared change paired with the authoritative pre-image */
	require.Len(t, op.ChangesSummary, 1)
	require.Equal(t, "base_salary", op.ChangesSummary[0].Field)
	require.NotNil(t, op.ChangesSummary[0].OldValue)

	/* Resolved scope overrides any model-declared binding */
	require.Equal(t, "33333333-3333-3333-3333-333333333333", op.SQLParameters["entity_id"])

	require.NotNil(t, op.RollbackSQL)
	require.Contains(t, *op.RollbackSQL, "base_salary = ")
	require.Equal(t, "Maria Silva", op.Metadata["entity_name"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProposeRefusesSecondOpenProposal(t *testing.T) {
	builder, mock := newTestBuilder(t, validAnalysisJSON, 30*time.Minute)

	mock.ExpectQuery(`SELECT id, full_name FROM shared\.employees`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "full_name"}).
			AddRow("33333333-3333-3333-3333-333333333333", "Maria Silva"))
	mock.ExpectQuery(`SELECT EXISTS`).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	_, err := builder.Propose(context.Background(), proposalRequest())
	verr, ok := AsValidationError(err)
	require.True(t, ok, "expected a validation error, got %v", err)
	require.Contains(t, verr.Message, "Já existe uma operação pendente")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProposeRejectsDisallowedTable(t *testing.T) {
	analysis := `{
		"operation_type": "UPDATE",
		"target_table": "auth.users",
		"target_entity": "usuário",
		"description": "x",
		"sql": "UPDATE auth.users SET role = :new_value WHERE id = :entity_id"
	}`
	builder, _ := newTestBuilder(t, analysis, 30*time.Minute)

	_, err := builder.Propose(context.Background(), proposalRequest())
	verr, ok := AsValidationError(err)
	require.True(t, ok, "expected a validation error, got %v", err)
	require.Contains(t, verr.Message, "não pode ser modificada")
}

func TestProposeModelGarbageIsValidationError(t *testing.T) {
	builder, _ := newTestBuilder(t, "desculpe, não entendi", 30*time.Minute)

	_, err := builder.Propose(context.Background(), proposalRequest())
	verr, ok := AsValidationError(err)
	require.True(t, ok, "expected a validation error, got %v", err)
	require.Contains(t, verr.Message, "Não foi possível processar o comando")
}

func TestNewBuilderDefaultsTTL(t *testing.T) {
	builder, _ := newTestBuilder(t, validAnalysisJSON, 0)
	require.Equal(t, 30*time.Minute, builder.ttl)
}
