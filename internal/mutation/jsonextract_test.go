/*-------------------------------------------------------------------------
 *
 * jsonextract_test.go
 *    Tests for defensive JSON extraction
 *
 * Copyright (c) 2024-2026, neurondb, Inc. <support@neurondb.ai>
 *
 * IDENTIFICATION
 *    NeuronHR/internal/mutation/jsonextract_test.go
 *
 *-------------------------------------------------------------------------
 */

package mutation

import "testing"

func TestExtractJSONObjectPlain(t *testing.T) {
	got := ExtractJSONObject(`{"operation_type": "UPDATE"}`)
	if got != `{"operation_type": "UPDATE"}` {
		t.Errorf("unexpected extraction: %s", got)
	}
}

func TestExtractJSONObjectStripsFences(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "json fence",
			content: "```json\n{\"a\": 1}\n```",
			want:    `{"a": 1}`,
		},
		{
			name:    "bare fence",
			content: "```\n{\"a\": 1}\n```",
			want:    `{"a": 1}`,
		},
		{
			name:    "fence with surrounding prose",
			content: "Segue a análise:\n```json\n{\"a\": 1}\n```\nEspero que ajude.",
			want:    `{"a": 1}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractJSONObject(tt.content); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractJSONObjectSkipsLeadingProse(t *testing.T) {
	got := ExtractJSONObject(`Aqui está o resultado: {"intent": "modify_data", "confidence": 0.9} como solicitado`)
	if got != `{"intent": "modify_data", "confidence": 0.9}` {
		t.Errorf("unexpected extraction: %s", got)
	}
}

func TestExtractJSONObjectNestedBraces(t *testing.T) {
	content := `{"outer": {"inner": {"deep": 1}}, "after": 2}`
	if got := ExtractJSONObject(content); got != content {
		t.Errorf("nested object truncated: %s", got)
	}
}

func TestExtractJSONObjectBracesInsideStrings(t *testing.T) {
	content := `{"sql": "UPDATE t SET v = '}' WHERE id = '{'", "ok": true}`
	if got := ExtractJSONObject(content); got != content {
		t.Errorf("string braces miscounted: %s", got)
	}
}

func TestExtractJSONObjectEscapedQuotes(t *testing.T) {
	content := `{"text": "ele disse \"sim\" e saiu", "n": 1}`
	if got := ExtractJSONObject(content); got != content {
		t.Errorf("escaped quotes miscounted: %s", got)
	}
}

func TestExtractJSONObjectFallsBackToEmpty(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty input", ""},
		{"whitespace only", "   \n\t  "},
		{"no object", "desculpe, não consegui processar"},
		{"unbalanced", `{"a": 1`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractJSONObject(tt.content); got != "{}" {
				t.Errorf("got %q, want {}", got)
			}
		})
	}
}
