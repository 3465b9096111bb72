/*-------------------------------------------------------------------------
 *
 * analysis.go
 *    Parsed mutation-analysis document
 *
 * The model's analysis JSON is validated against a schema before any
 * field is read. Self-assessed fields (risk level, SQL, parameters)
 * are still re-checked by the deterministic policy in risk.go; this
 * layer only guarantees shape.
 *
 * Copyright (c) 2024-2026, neurondb, Inc. <support@neurondb.ai>
 *
 * IDENTIFICATION
 *    NeuronHR/internal/mutation/analysis.go
 *
 *-------------------------------------------------------------------------
 */

package mutation

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

/* analysisSchema declares the required shape of the model's reply */
const analysisSchema = `{
	"type": "object",
	"required": ["operation_type", "target_table", "target_entity", "description", "sql"],
	"properties": {
		"operation_type": {"type": "string", "enum": ["INSERT", "UPDATE", "DELETE", "BULK_UPDATE", "BULK_DELETE"]},
		"target_table": {"type": "string", "minLength": 1},
		"target_entity": {"type": "string"},
		"description": {"type": "string"},
		"risk_level": {"type": "string", "enum": ["LOW", "MEDIUM", "HIGH", "CRITICAL"]},
		"entity_identifier": {
			"type": "object",
			"properties": {
				"search_field": {"type": "string"},
				"search_value": {"type": "string"},
				"search_type": {"type": "string", "enum": ["EXACT", "CONTAINS", "STARTS_WITH"]}
			}
		},
		"changes": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["field"],
				"properties": {
					"field": {"type": "string"},
					"field_label": {"type": "string"},
					"change_type": {"type": "string"}
				}
			}
		},
		"sql": {"type": "string", "minLength": 1},
		"parameters": {"type": "object"},
		"validation_query": {"type": "string"},
		"validation_params": {"type": "object"},
		"warning": {"type": ["string", "null"]},
		"confirmation_message": {"type": "string"}
	}
}`

var compiledAnalysisSchema = gojsonschema.NewStringLoader(analysisSchema)

/* EntityIdentifier describes how the model wants the target row located */
type EntityIdentifier struct {
	SearchField string `json:"search_field"`
	SearchValue string `json:"search_value"`
	SearchType  string `json:"search_type"`
}

/* AnalysisChange is one declared field change; old values are discarded
 * in favor of the authoritative pre-image */
type AnalysisChange struct {
	Field      string      `json:"field"`
	FieldLabel string      `json:"field_label"`
	NewValue   interface{} `json:"new_value"`
	ChangeType string      `json:"change_type"`
}

/* AnalysisDocument is the model's structured reading of the command */
type AnalysisDocument struct {
	OperationType       string                 `json:"operation_type"`
	TargetTable         string                 `json:"target_table"`
	TargetEntity        string                 `json:"target_entity"`
	Description         string                 `json:"description"`
	RiskLevel           string                 `json:"risk_level"`
	EntityIdentifier    *EntityIdentifier      `json:"entity_identifier"`
	Changes             []AnalysisChange       `json:"changes"`
	SQL                 string                 `json:"sql"`
	Parameters          map[string]interface{} `json:"parameters"`
	ValidationQuery     string                 `json:"validation_query"`
	ValidationParams    map[string]interface{} `json:"validation_params"`
	Warning             string                 `json:"warning"`
	ConfirmationMessage string                 `json:"confirmation_message"`
}

/* ParseAnalysis extracts and validates the analysis document from raw model text */
func ParseAnalysis(content string) (*AnalysisDocument, error) {
	raw := ExtractJSONObject(content)

	result, err := gojsonschema.Validate(compiledAnalysisSchema, gojsonschema.NewStringLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("analysis document is not valid JSON: error=%w", err)
	}
	if !result.Valid() {
		var problems []string
		for _, desc := range result.Errors() {
			problems = append(problems, desc.String())
		}
		return nil, fmt.Errorf("analysis document failed schema validation: %s", strings.Join(problems, "; "))
	}

	var doc AnalysisDocument
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, fmt.Errorf("failed to decode analysis document: error=%w", err)
	}

	if doc.RiskLevel == "" {
		doc.RiskLevel = "MEDIUM"
	}
	for i := range doc.Changes {
		if doc.Changes[i].ChangeType == "" {
			doc.Changes[i].ChangeType = "UPDATE"
		}
	}

	return &doc, nil
}
