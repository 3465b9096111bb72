/*-------------------------------------------------------------------------
 *
 * classifier_test.go
 *    Tests for intent classification
 *
 * Copyright (c) 2024-2026, neurondb, Inc. <support@neurondb.ai>
 *
 * IDENTIFICATION
 *    NeuronHR/internal/nlu/classifier_test.go
 *
 *-------------------------------------------------------------------------
 */

package nlu

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/neurondb/NeuronHR/internal/llm"
)

/* fakeProvider returns a canned response or fails the test when a
 * model call is not expected */
type fakeProvider struct {
	t        *testing.T
	response string
	err      error
	calls    int
	forbid   bool
}

func (f *fakeProvider) Chat(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	f.calls++
	if f.forbid {
		f.t.Fatalf("unexpected model call for message %q", req.Messages[len(req.Messages)-1].Content)
	}
	if f.err != nil {
		return nil, f.err
	}
	return &llm.ChatResponse{Content: f.response}, nil
}

func (f *fakeProvider) Model() string { return "fake" }

func TestRuleClassificationSkipsModel(t *testing.T) {
	provider := &fakeProvider{t: t, forbid: true}
	classifier := NewClassifier(provider, nil)

	cases := []struct {
		message    string
		intent     string
		confidence float64
		actionType string
	}{
		{"Quanto vou receber de férias?", "calculate_vacation", 0.90, ActionCalculation},
		{"calcular rescisão sem justa causa", "calculate_termination", 0.90, ActionCalculation},
		{"quem trabalha no setor de vendas", "query_employee", 0.88, ActionDatabaseQuery},
		{"quero ver meu holerite", "query_payroll", 0.88, ActionDatabaseQuery},
	}

	for _, tc := range cases {
		result := classifier.Classify(context.Background(), tc.message, nil)
		if result.Intent != tc.intent {
			t.Errorf("message %q: intent = %q, want %q", tc.message, result.Intent, tc.intent)
		}
		if result.Confidence != tc.confidence {
			t.Errorf("message %q: confidence = %v, want %v", tc.message, result.Confidence, tc.confidence)
		}
		if result.ActionType != tc.actionType {
			t.Errorf("message %q: action type = %q, want %q", tc.message, result.ActionType, tc.actionType)
		}
		if result.Source != "rule" {
			t.Errorf("message %q: source = %q, want rule", tc.message, result.Source)
		}
	}
}

func TestBorderlineConfidenceFallsThroughToModel(t *testing.T) {
	/* Policy and law rules sit exactly at the threshold, so they are
	 * not final; the model answer wins */
	provider := &fakeProvider{t: t, response: `{"intent": "hr_policy", "confidence": 0.95, "entities": {"topic": "remote_work"}}`}
	classifier := NewClassifier(provider, nil)

	result := classifier.Classify(context.Background(), "qual a política de home office?", nil)
	if provider.calls != 1 {
		t.Fatalf("model calls = %d, want 1", provider.calls)
	}
	if result.Intent != "hr_policy" || result.Source != "model" {
		t.Errorf("got intent %q from %q, want hr_policy from model", result.Intent, result.Source)
	}
}

func TestConfirmationShortcut(t *testing.T) {
	provider := &fakeProvider{t: t, forbid: true}
	classifier := NewClassifier(provider, nil)
	operationID := uuid.New()
	pending := &PendingConfirmation{OperationID: operationID, Action: "confirm_operation"}

	cases := []struct {
		message   string
		confirmed bool
	}{
		{"sim", true},
		{"Sim, pode confirmar", true},
		{"ok", true},
		{"confirmar", true},
		{"não", false},
		{"nao, cancela", false},
		{"cancelar", false},
	}

	for _, tc := range cases {
		result := classifier.Classify(context.Background(), tc.message, pending)
		if result.Intent != "confirm_operation" {
			t.Errorf("message %q: intent = %q, want confirm_operation", tc.message, result.Intent)
		}
		if result.Confidence != 0.99 {
			t.Errorf("message %q: confidence = %v, want 0.99", tc.message, result.Confidence)
		}
		if got := result.Parameters["confirmar"]; got != tc.confirmed {
			t.Errorf("message %q: confirmar = %v, want %v", tc.message, got, tc.confirmed)
		}
		if got := result.Parameters["operation_id"]; got != operationID.String() {
			t.Errorf("message %q: operation_id = %v, want %s", tc.message, got, operationID)
		}
	}
}

func TestConfirmationShortcutIgnoresUnrelatedMessages(t *testing.T) {
	provider := &fakeProvider{t: t, forbid: true}
	classifier := NewClassifier(provider, nil)
	pending := &PendingConfirmation{OperationID: uuid.New(), Action: "confirm_operation"}

	/* A substantive message while a confirmation is pending is
	 * classified normally */
	result := classifier.Classify(context.Background(), "quanto vou receber de férias?", pending)
	if result.Intent != "calculate_vacation" {
		t.Errorf("intent = %q, want calculate_vacation", result.Intent)
	}
}

func TestModelFallbackParsesResponse(t *testing.T) {
	provider := &fakeProvider{t: t, response: "```json\n{\"intent\": \"query_employee\", \"confidence\": 0.92, \"entities\": {\"department\": \"TI\"}}\n```"}
	classifier := NewClassifier(provider, nil)

	result := classifier.Classify(context.Background(), "me fala sobre a equipe", nil)
	if result.Intent != "query_employee" {
		t.Errorf("intent = %q, want query_employee", result.Intent)
	}
	if result.ActionType != ActionDatabaseQuery {
		t.Errorf("action type = %q, want %q", result.ActionType, ActionDatabaseQuery)
	}
	if result.Entities["department"] != "TI" {
		t.Errorf("department = %v, want TI", result.Entities["department"])
	}
}

func TestModelFailureDegradesToUnknown(t *testing.T) {
	provider := &fakeProvider{t: t, err: errors.New("connection refused")}
	classifier := NewClassifier(provider, nil)

	result := classifier.Classify(context.Background(), "mensagem sem regra", nil)
	if result.Intent != "unknown" || result.Confidence != 0.0 {
		t.Errorf("got %q/%v, want unknown/0.0", result.Intent, result.Confidence)
	}
	if result.ActionType != ActionInformation {
		t.Errorf("action type = %q, want %q", result.ActionType, ActionInformation)
	}
}

func TestModelGarbageDegradesToUnknown(t *testing.T) {
	provider := &fakeProvider{t: t, response: "claro, vou classificar isso para você!"}
	classifier := NewClassifier(provider, nil)

	result := classifier.Classify(context.Background(), "mensagem sem regra", nil)
	if result.Intent != "unknown" {
		t.Errorf("intent = %q, want unknown", result.Intent)
	}
}

func TestVacationEntityExtraction(t *testing.T) {
	entities := extractVacationEntities("quero vender 10 dias das minhas férias, salário de 8.500,00")
	if entities["days"] != 10 {
		t.Errorf("days = %v, want 10", entities["days"])
	}
	if entities["salary"] != 8500.00 {
		t.Errorf("salary = %v, want 8500.00", entities["salary"])
	}
	if entities["abono"] != true {
		t.Errorf("abono = %v, want true", entities["abono"])
	}
}

func TestSalaryCurrencyPrefix(t *testing.T) {
	entities := extractVacationEntities("férias com R$ 3.200,50")
	if entities["salary"] != 3200.50 {
		t.Errorf("salary = %v, want 3200.50", entities["salary"])
	}
}

func TestTerminationEntityExtraction(t *testing.T) {
	cases := []struct {
		message string
		want    map[string]interface{}
	}{
		{"rescisão sem justa causa depois de 3 anos", map[string]interface{}{"type": "SEM_JUSTA_CAUSA", "tenureMonths": 36}},
		{"demissão por justa causa", map[string]interface{}{"type": "JUSTA_CAUSA"}},
		{"quero fazer o pedido de demissão com 18 meses de casa", map[string]interface{}{"type": "PEDIDO_DEMISSAO", "tenureMonths": 18}},
		{"rescisão de comum acordo", map[string]interface{}{"type": "ACORDO"}},
	}

	for _, tc := range cases {
		entities := extractTerminationEntities(tc.message)
		for key, want := range tc.want {
			if entities[key] != want {
				t.Errorf("message %q: %s = %v, want %v", tc.message, key, entities[key], want)
			}
		}
	}
}

func TestTerminationDemitidoMapsToSemJustaCausa(t *testing.T) {
	entities := extractTerminationEntities("fui demitido por justa causa")
	/* "demitido" is checked first and wins */
	if entities["type"] != "SEM_JUSTA_CAUSA" {
		t.Errorf("type = %v, want SEM_JUSTA_CAUSA", entities["type"])
	}
}

func TestEmployeeQueryEntityExtraction(t *testing.T) {
	entities := extractEmployeeQueryEntities("listar colaboradores ativos do Financeiro")
	if entities["department"] != "Financeiro" {
		t.Errorf("department = %v, want Financeiro", entities["department"])
	}
	if entities["status"] != "ACTIVE" {
		t.Errorf("status = %v, want ACTIVE", entities["status"])
	}
}

func TestEmployeeQueryDepartmentMatchesWholeWordsOnly(t *testing.T) {
	/* "ativos" must not read as the TI department */
	entities := extractEmployeeQueryEntities("quantos colaboradores ativos temos?")
	if dept, ok := entities["department"]; ok {
		t.Errorf("department = %v, want none", dept)
	}

	entities = extractEmployeeQueryEntities("liste o pessoal do ti")
	if entities["department"] != "TI" {
		t.Errorf("department = %v, want TI", entities["department"])
	}

	entities = extractEmployeeQueryEntities("colaboradores de operações")
	if entities["department"] != "Operações" {
		t.Errorf("department = %v, want Operações", entities["department"])
	}
}

func TestTopicExtraction(t *testing.T) {
	if got := extractPolicyTopic("política de trabalho remoto"); got != "remote_work" {
		t.Errorf("policy topic = %q, want remote_work", got)
	}
	if got := extractPolicyTopic("qual a norma de estacionamento?"); got != "general" {
		t.Errorf("policy topic = %q, want general", got)
	}
	if got := extractLawTopic("o que a lei diz sobre o décimo terceiro?"); got != "thirteenth_salary" {
		t.Errorf("law topic = %q, want thirteenth_salary", got)
	}
	if got := extractLawTopic("legislação sobre fgts"); got != "fgts" {
		t.Errorf("law topic = %q, want fgts", got)
	}
}

func TestParseMoneyValue(t *testing.T) {
	cases := map[string]float64{
		"8.500,00": 8500.00,
		"1.234,56": 1234.56,
		"500":      500,
		"500,5":    500.5,
	}
	for input, want := range cases {
		got, err := parseMoneyValue(input)
		if err != nil {
			t.Fatalf("parseMoneyValue(%q): %v", input, err)
		}
		if got != want {
			t.Errorf("parseMoneyValue(%q) = %v, want %v", input, got, want)
		}
	}
}
