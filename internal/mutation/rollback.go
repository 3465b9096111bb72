/*-------------------------------------------------------------------------
 *
 * rollback.go
 *    Rollback statement generation
 *
 * Only UPDATE proposals are reversible: the rollback statement
 * restores the authoritative pre-image values for the touched fields.
 * INSERT and DELETE have no rollback.
 *
 * Copyright (c) 2024-2026, neurondb, Inc. <support@neurondb.ai>
 *
 * IDENTIFICATION
 *    NeuronHR/internal/mutation/rollback.go
 *
 *-------------------------------------------------------------------------
 */

package mutation

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/neurondb/NeuronHR/internal/db"
)

/* GenerateRollbackSQL builds the reversal statement for an UPDATE, or nil */
func GenerateRollbackSQL(doc *AnalysisDocument, original map[string]interface{}, entityID uuid.UUID) *string {
	if doc.OperationType != db.OperationUpdate || len(original) == 0 || len(doc.Changes) == 0 {
		return nil
	}

	var setClauses []string
	for _, change := range doc.Changes {
		oldValue, ok := original[change.Field]
		if ok && oldValue != nil {
			escaped := strings.ReplaceAll(fmt.Sprintf("%v", oldValue), "'", "''")
			setClauses = append(setClauses, fmt.Sprintf("%s = '%s'", change.Field, escaped))
		} else {
			setClauses = append(setClauses, fmt.Sprintf("%s = NULL", change.Field))
		}
	}

	sql := fmt.Sprintf("UPDATE %s SET %s WHERE id = '%s'",
		doc.TargetTable, strings.Join(setClauses, ", "), entityID.String())
	return &sql
}
