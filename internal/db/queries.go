/*-------------------------------------------------------------------------
 *
 * queries.go
 *    Database query infrastructure for NeuronHR
 *
 * Provides the shared Queries handle, error formatting, and the
 * parameterized SQL adapter used by entity resolution and mutation
 * execution. Generated statements use :name placeholders; tenant
 * scoping is always supplied by the caller's parameter map, never by
 * this layer.
 *
 * Copyright (c) 2024-2025, neurondb, Inc. <admin@neurondb.com>
 *
 * IDENTIFICATION
 *    NeuronHR/internal/db/queries.go
 *
 *-------------------------------------------------------------------------
 */

package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

type Queries struct {
	DB       *sqlx.DB
	connInfo func() string
}

/* GetDB returns the database connection (for compatibility) */
func (q *Queries) GetDB() *sqlx.DB {
	return q.DB
}

func NewQueries(db *sqlx.DB) *Queries {
	return &Queries{
		DB: db,
		connInfo: func() string {
			return "unknown database connection"
		},
	}
}

/* SetConnInfoFunc sets a function to retrieve connection info for error messages */
func (q *Queries) SetConnInfoFunc(fn func() string) {
	q.connInfo = fn
}

/* getConnInfoString returns connection info string */
func (q *Queries) getConnInfoString() string {
	if q.connInfo != nil {
		return q.connInfo()
	}
	return "unknown database connection"
}

/* formatQueryError formats a detailed query error message */
func (q *Queries) formatQueryError(operation string, query string, paramCount int, table string, err error) error {
	compactQuery := strings.Join(strings.Fields(query), " ")
	if len(compactQuery) > 200 {
		compactQuery = compactQuery[:200] + "..."
	}
	return fmt.Errorf("query execution failed on %s: operation='%s', table='%s', params=%d, query='%s', error=%w",
		q.getConnInfoString(), operation, table, paramCount, compactQuery, err)
}

/* QueryRows runs a named-parameter SELECT and returns generic row maps */
func (q *Queries) QueryRows(ctx context.Context, query string, params map[string]interface{}) ([]map[string]interface{}, error) {
	bound, args, err := bindNamed(q.DB, query, params)
	if err != nil {
		return nil, fmt.Errorf("failed to bind query parameters: query='%s', error=%w", query, err)
	}

	rows, err := q.DB.QueryxContext(ctx, bound, args...)
	if err != nil {
		return nil, q.formatQueryError("SELECT", query, len(params), "dynamic", err)
	}
	defer rows.Close()

	var results []map[string]interface{}
	for rows.Next() {
		row := map[string]interface{}{}
		if err := rows.MapScan(row); err != nil {
			return nil, q.formatQueryError("SELECT", query, len(params), "dynamic", err)
		}
		/* MapScan yields []byte for text columns; normalize to string */
		for k, v := range row {
			if b, ok := v.([]byte); ok {
				row[k] = string(b)
			}
		}
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, q.formatQueryError("SELECT", query, len(params), "dynamic", err)
	}
	return results, nil
}

/* Tx scopes a generated statement and its status transition to one
 * database transaction. When the transition loses its status guard to
 * a concurrent settlement, rolling the transaction back undoes the
 * data change as well. */
type Tx struct {
	tx *sqlx.Tx
	q  *Queries
}

func (q *Queries) Begin(ctx context.Context) (*Tx, error) {
	tx, err := q.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction on %s: error=%w", q.getConnInfoString(), err)
	}
	return &Tx{tx: tx, q: q}, nil
}

func (t *Tx) Commit() error {
	return t.tx.Commit()
}

func (t *Tx) Rollback() error {
	return t.tx.Rollback()
}

/* ExecuteUpdate runs a named-parameter mutation inside the transaction */
func (t *Tx) ExecuteUpdate(ctx context.Context, query string, params map[string]interface{}) (int64, error) {
	bound, args, err := bindNamed(t.q.DB, query, params)
	if err != nil {
		return 0, fmt.Errorf("failed to bind statement parameters: query='%s', error=%w", query, err)
	}

	result, err := t.tx.ExecContext(ctx, bound, args...)
	if err != nil {
		return 0, t.q.formatQueryError("EXEC", query, len(params), "dynamic", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected on %s: query='%s', error=%w", t.q.getConnInfoString(), query, err)
	}
	return affected, nil
}

/* bindNamed converts :name placeholders to driver placeholders */
func bindNamed(db *sqlx.DB, query string, params map[string]interface{}) (string, []interface{}, error) {
	if params == nil {
		params = map[string]interface{}{}
	}
	bound, args, err := sqlx.Named(query, params)
	if err != nil {
		return "", nil, err
	}
	return db.Rebind(bound), args, nil
}
