/*-------------------------------------------------------------------------
 *
 * directory.go
 *    Read-only HR data collaborators
 *
 * Backs the query tools with tenant-scoped reads over the shared HR
 * tables. Reporting is keyword-routed to a fixed set of aggregate
 * queries; free-form SQL never reaches the database from here.
 *
 * Copyright (c) 2024-2026, neurondb, Inc. <support@neurondb.ai>
 *
 * IDENTIFICATION
 *    NeuronHR/internal/hr/directory.go
 *
 *-------------------------------------------------------------------------
 */

package hr

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/neurondb/NeuronHR/internal/db"
)

/* employeeSearchLimit caps directory result sets */
const employeeSearchLimit = 50

/* Directory serves employee, reporting, and knowledge lookups */
type Directory struct {
	queries *db.Queries
}

func NewDirectory(queries *db.Queries) *Directory {
	return &Directory{queries: queries}
}

/* SearchEmployees lists employees filtered by name, department, and status */
func (d *Directory) SearchEmployees(ctx context.Context, tenantID uuid.UUID, name, department, status string) ([]map[string]interface{}, error) {
	query := `SELECT e.id, e.full_name, e.email, e.position_title, e.hire_date, e.status, d.name AS department
		FROM shared.employees e
		LEFT JOIN shared.departments d ON d.id = e.department_id
		WHERE e.tenant_id = :tenant_id
		  AND (:name = '' OR e.full_name ILIKE :name_pattern)
		  AND (:department = '' OR d.name ILIKE :department_pattern)
		  AND (:status = '' OR e.status = :status)
		ORDER BY e.full_name
		LIMIT :limit`

	return d.queries.QueryRows(ctx, query, map[string]interface{}{
		"tenant_id":          tenantID,
		"name":               name,
		"name_pattern":       "%" + name + "%",
		"department":         department,
		"department_pattern": "%" + department + "%",
		"status":             status,
		"limit":              employeeSearchLimit,
	})
}

/* RunReport answers a reporting question routed by keyword */
func (d *Directory) RunReport(ctx context.Context, tenantID uuid.UUID, question string) ([]map[string]interface{}, error) {
	lower := strings.ToLower(question)
	params := map[string]interface{}{"tenant_id": tenantID}

	switch {
	case strings.Contains(lower, "folha") || strings.Contains(lower, "salário") || strings.Contains(lower, "salarial"):
		return d.queries.QueryRows(ctx, `SELECT d.name AS department,
				COUNT(e.id) AS employees,
				SUM(e.base_salary) AS total_payroll,
				ROUND(AVG(e.base_salary), 2) AS average_salary
			FROM shared.employees e
			LEFT JOIN shared.departments d ON d.id = e.department_id
			WHERE e.tenant_id = :tenant_id AND e.status = 'ACTIVE'
			GROUP BY d.name
			ORDER BY total_payroll DESC NULLS LAST`, params)

	case strings.Contains(lower, "quadro") || strings.Contains(lower, "quantos") || strings.Contains(lower, "headcount") || strings.Contains(lower, "departamento"):
		return d.queries.QueryRows(ctx, `SELECT d.name AS department,
				COUNT(e.id) FILTER (WHERE e.status = 'ACTIVE') AS active,
				COUNT(e.id) FILTER (WHERE e.status = 'INACTIVE') AS inactive
			FROM shared.departments d
			LEFT JOIN shared.employees e ON e.department_id = d.id AND e.tenant_id = d.tenant_id
			WHERE d.tenant_id = :tenant_id
			GROUP BY d.name
			ORDER BY d.name`, params)

	case strings.Contains(lower, "admiss") || strings.Contains(lower, "contrata"):
		return d.queries.QueryRows(ctx, `SELECT date_trunc('month', e.hire_date) AS month,
				COUNT(*) AS hires
			FROM shared.employees e
			WHERE e.tenant_id = :tenant_id
			  AND e.hire_date >= now() - interval '12 months'
			GROUP BY 1
			ORDER BY 1 DESC`, params)
	}

	return nil, fmt.Errorf("consulta não suportada; pergunte sobre folha, quadro de pessoal ou admissões")
}

/* SearchKnowledge retrieves policy and legislation passages */
func (d *Directory) SearchKnowledge(ctx context.Context, tenantID uuid.UUID, query, topic string, limit int) ([]map[string]interface{}, error) {
	if limit <= 0 || limit > 20 {
		limit = 5
	}

	return d.queries.QueryRows(ctx, `SELECT id, title, topic, content, source
		FROM shared.knowledge_articles
		WHERE (tenant_id = :tenant_id OR tenant_id IS NULL)
		  AND (:topic = '' OR topic = :topic)
		  AND (title ILIKE :pattern OR content ILIKE :pattern)
		ORDER BY updated_at DESC
		LIMIT :limit`, map[string]interface{}{
		"tenant_id": tenantID,
		"topic":     topic,
		"pattern":   "%" + query + "%",
		"limit":     limit,
	})
}
