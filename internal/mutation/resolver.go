/*-------------------------------------------------------------------------
 *
 * resolver.go
 *    Entity resolution for mutation proposals
 *
 * Runs the model-declared validation query, tenant-scoped, and
 * requires exactly one match. Zero matches and ambiguous matches are
 * user-facing validation failures; no proposal is persisted for
 * either.
 *
 * Copyright (c) 2024-2026, neurondb, Inc. <support@neurondb.ai>
 *
 * IDENTIFICATION
 *    NeuronHR/internal/mutation/resolver.go
 *
 *-------------------------------------------------------------------------
 */

package mutation

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/neurondb/NeuronHR/internal/db"
	"github.com/neurondb/NeuronHR/internal/metrics"
)

/* ResolvedEntity is the single row a proposal targets */
type ResolvedEntity struct {
	ID          uuid.UUID
	DisplayName string
}

/* Resolver locates the exact row a command targets */
type Resolver struct {
	queries *db.Queries
}

func NewResolver(queries *db.Queries) *Resolver {
	return &Resolver{queries: queries}
}

/* Resolve executes the validation query and requires exactly one match */
func (r *Resolver) Resolve(ctx context.Context, doc *AnalysisDocument, tenantID uuid.UUID) (*ResolvedEntity, error) {
	if doc.ValidationQuery == "" {
		return nil, NewValidationError("Não foi possível identificar o registro a ser modificado.")
	}

	params := map[string]interface{}{
		"tenant_id": tenantID,
	}
	for key, value := range doc.ValidationParams {
		params[key] = value
	}

	/* Derive search_value from the entity identifier when the model
	 * referenced it in the query but omitted it from the params */
	if _, ok := params["search_value"]; !ok {
		if value, found := doc.searchValueFallback(); found {
			params["search_value"] = value
		}
	}

	metrics.DebugWithContext(ctx, "Executing validation query", map[string]interface{}{
		"query":  doc.ValidationQuery,
		"params": len(params),
	})

	rows, err := r.queries.QueryRows(ctx, doc.ValidationQuery, params)
	if err != nil {
		return nil, NewValidationError(fmt.Sprintf("Erro ao validar o registro: %v", err))
	}

	if len(rows) == 0 {
		searchValue := ""
		if doc.EntityIdentifier != nil {
			searchValue = doc.EntityIdentifier.SearchValue
		}
		return nil, NewValidationError(fmt.Sprintf(
			"Não foi encontrado nenhum registro com '%s'. Verifique se o nome está correto.", searchValue))
	}

	if len(rows) > 1 {
		var sb strings.Builder
		sb.WriteString("Foram encontrados múltiplos registros. Seja mais específico:\n")
		for _, row := range rows {
			sb.WriteString("- ")
			sb.WriteString(displayName(row))
			sb.WriteString("\n")
		}
		return nil, NewValidationError(sb.String())
	}

	row := rows[0]
	idValue, ok := row["id"]
	if !ok {
		return nil, NewValidationError("Não foi possível identificar o registro a ser modificado.")
	}
	entityID, err := uuid.Parse(fmt.Sprintf("%v", idValue))
	if err != nil {
		return nil, NewValidationError(fmt.Sprintf("Erro ao validar o registro: id inválido '%v'", idValue))
	}

	return &ResolvedEntity{ID: entityID, DisplayName: displayName(row)}, nil
}

/* searchValueFallback derives the search_value parameter, wildcarding
 * by search type when the model's value lacks wildcards */
func (doc *AnalysisDocument) searchValueFallback() (string, bool) {
	if doc.EntityIdentifier != nil && doc.EntityIdentifier.SearchValue != "" {
		value := doc.EntityIdentifier.SearchValue
		searchType := doc.EntityIdentifier.SearchType
		if searchType == "" {
			searchType = "CONTAINS"
		}

		if strings.EqualFold(searchType, "CONTAINS") && !strings.Contains(value, "%") {
			value = "%" + value + "%"
		} else if strings.EqualFold(searchType, "STARTS_WITH") && !strings.HasSuffix(value, "%") {
			value = value + "%"
		}
		return value, true
	}

	if raw, ok := doc.Parameters["search_value"]; ok {
		return fmt.Sprintf("%v", raw), true
	}

	return "", false
}

/* displayName picks a human label from a resolved row */
func displayName(row map[string]interface{}) string {
	for _, key := range []string{"full_name", "name", "title"} {
		if v, ok := row[key]; ok && v != nil {
			if s := fmt.Sprintf("%v", v); s != "" {
				return s
			}
		}
	}
	return "Registro"
}
