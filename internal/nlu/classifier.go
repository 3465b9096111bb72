/*-------------------------------------------------------------------------
 *
 * classifier.go
 *    Intent classification for user messages
 *
 * Classification runs in three tiers. A tagged pending confirmation on
 * the conversation short-circuits everything: an affirmation or denial
 * resolves directly to the confirmation intent at near-certain
 * confidence. Otherwise ordered keyword rules handle the common HR
 * phrasings without a model call, and only messages no rule claims
 * fall through to the model.
 *
 * Copyright (c) 2024-2026, neurondb, Inc. <support@neurondb.ai>
 *
 * IDENTIFICATION
 *    NeuronHR/internal/nlu/classifier.go
 *
 *-------------------------------------------------------------------------
 */

package nlu

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"github.com/neurondb/NeuronHR/internal/llm"
	"github.com/neurondb/NeuronHR/internal/metrics"
	"github.com/neurondb/NeuronHR/internal/mutation"
)

/* ruleConfidenceThreshold gates rule results; at or below it the
 * message falls through to the model */
const ruleConfidenceThreshold = 0.85

const classifierSystemPrompt = `Você é um classificador de intenções para um sistema de RH.

Analise a mensagem do usuário e retorne um JSON com:
1. "intent": a intenção identificada
2. "confidence": confiança de 0 a 1
3. "entities": entidades extraídas (nome, data, departamento, valor, etc.)
4. "parameters": parâmetros para a ação

Intenções disponíveis:
{intents}

Responda APENAS com o JSON, sem explicações.

Exemplo de resposta:
{
    "intent": "query_employee",
    "confidence": 0.92,
    "entities": {"department": "TI"},
    "parameters": {"filter_by": "department", "filter_value": "TI"}
}`

/* PendingConfirmation tags a conversation that is waiting on a yes/no
 * answer for one specific proposal */
type PendingConfirmation struct {
	OperationID uuid.UUID `json:"operation_id"`
	Action      string    `json:"action"`
}

/* Result is the outcome of classifying one message */
type Result struct {
	Intent     string                 `json:"intent"`
	Confidence float64                `json:"confidence"`
	Entities   map[string]interface{} `json:"entities"`
	Parameters map[string]interface{} `json:"parameters"`
	ActionType string                 `json:"action_type"`
	Source     string                 `json:"source"`
}

/* Classifier resolves user messages to intents */
type Classifier struct {
	provider llm.Provider
	catalog  []Intent
}

func NewClassifier(provider llm.Provider, catalog []Intent) *Classifier {
	if len(catalog) == 0 {
		catalog = DefaultCatalog()
	}
	return &Classifier{provider: provider, catalog: catalog}
}

var (
	affirmations = []string{"sim", "confirmar", "confirmo", "confirma", "pode confirmar", "ok", "pode", "claro", "isso", "certo"}
	denials      = []string{"não", "nao", "cancelar", "cancela", "rejeitar", "rejeito", "desistir"}
)

/* Classify resolves one message. It never returns an error; model
 * failures degrade to the unknown intent. */
func (c *Classifier) Classify(ctx context.Context, message string, pending *PendingConfirmation) *Result {
	if pending != nil {
		if result := c.confirmationShortcut(message, pending); result != nil {
			metrics.RecordIntentClassification(result.Intent, "confirmation")
			return result
		}
	}

	if result := c.ruleBased(message); result != nil && result.Confidence > ruleConfidenceThreshold {
		metrics.RecordIntentClassification(result.Intent, "rule")
		return result
	}

	result := c.modelBased(ctx, message)
	metrics.RecordIntentClassification(result.Intent, "model")
	return result
}

/* confirmationShortcut maps a plain yes/no onto the tagged proposal */
func (c *Classifier) confirmationShortcut(message string, pending *PendingConfirmation) *Result {
	normalized := strings.ToLower(strings.TrimSpace(message))

	confirmed := false
	matched := false
	for _, word := range affirmations {
		if normalized == word || strings.HasPrefix(normalized, word+" ") || strings.HasPrefix(normalized, word+",") {
			confirmed = true
			matched = true
			break
		}
	}
	if !matched {
		for _, word := range denials {
			if normalized == word || strings.HasPrefix(normalized, word+" ") || strings.HasPrefix(normalized, word+",") {
				matched = true
				break
			}
		}
	}
	if !matched {
		return nil
	}

	return &Result{
		Intent:     "confirm_operation",
		Confidence: 0.99,
		Entities:   map[string]interface{}{},
		Parameters: map[string]interface{}{
			"operation_id": pending.OperationID.String(),
			"confirmar":    confirmed,
		},
		ActionType: ActionDataModification,
		Source:     "confirmation",
	}
}

/* ruleBased matches ordered keyword rules; first hit wins */
func (c *Classifier) ruleBased(message string) *Result {
	normalized := strings.ToLower(strings.TrimSpace(message))

	if containsAny(normalized, "férias", "calcular férias", "valor das férias", "quanto vou receber de férias") {
		return &Result{
			Intent:     "calculate_vacation",
			Confidence: 0.90,
			Entities:   extractVacationEntities(message),
			ActionType: ActionCalculation,
			Source:     "rule",
		}
	}

	if containsAny(normalized, "rescisão", "demissão", "calcular rescisão", "verbas rescisórias") {
		return &Result{
			Intent:     "calculate_termination",
			Confidence: 0.90,
			Entities:   extractTerminationEntities(message),
			ActionType: ActionCalculation,
			Source:     "rule",
		}
	}

	if containsAny(normalized, "funcionários", "colaboradores", "empregados", "quem trabalha", "departamento", "setor", "setores", "área") {
		return &Result{
			Intent:     "query_employee",
			Confidence: 0.88,
			Entities:   extractEmployeeQueryEntities(message),
			ActionType: ActionDatabaseQuery,
			Source:     "rule",
		}
	}

	if containsAny(normalized, "contracheque", "holerite", "folha de pagamento", "salário", "quanto ganhei") {
		return &Result{
			Intent:     "query_payroll",
			Confidence: 0.88,
			Entities:   map[string]interface{}{},
			ActionType: ActionDatabaseQuery,
			Source:     "rule",
		}
	}

	if containsAny(normalized, "política", "regra", "procedimento", "norma") {
		return &Result{
			Intent:     "hr_policy",
			Confidence: 0.85,
			Entities:   map[string]interface{}{"topic": extractPolicyTopic(message)},
			ActionType: ActionKnowledgeSearch,
			Source:     "rule",
		}
	}

	if containsAny(normalized, "clt", "lei", "legislação", "direito", "trabalhista") {
		return &Result{
			Intent:     "labor_law",
			Confidence: 0.85,
			Entities:   map[string]interface{}{"topic": extractLawTopic(message)},
			ActionType: ActionKnowledgeSearch,
			Source:     "rule",
		}
	}

	return nil
}

/* modelBased asks the model against the catalog; failures degrade to unknown */
func (c *Classifier) modelBased(ctx context.Context, message string) *Result {
	var sb strings.Builder
	for _, intent := range c.catalog {
		sb.WriteString(fmt.Sprintf("- %s: %s (exemplos: %s)\n",
			intent.Name, intent.Description, strings.Join(intent.Examples, ", ")))
	}
	systemPrompt := strings.Replace(classifierSystemPrompt, "{intents}", sb.String(), 1)

	temperature := 0.3
	resp, err := c.provider.Chat(ctx, llm.ChatRequest{
		Messages: []llm.ChatMessage{
			{Role: llm.RoleSystem, Content: systemPrompt},
			{Role: llm.RoleUser, Content: message},
		},
		Temperature: &temperature,
		MaxTokens:   500,
	})
	if err != nil {
		metrics.ErrorWithContext(ctx, "Model classification failed", err, nil)
		return unknownResult()
	}

	var parsed struct {
		Intent     string                 `json:"intent"`
		Confidence float64                `json:"confidence"`
		Entities   map[string]interface{} `json:"entities"`
		Parameters map[string]interface{} `json:"parameters"`
	}
	if err := json.Unmarshal([]byte(mutation.ExtractJSONObject(resp.Content)), &parsed); err != nil || parsed.Intent == "" {
		metrics.WarnWithContext(ctx, "Unparseable classification response", map[string]interface{}{
			"content": resp.Content,
		})
		return unknownResult()
	}

	actionType := ActionInformation
	for _, intent := range c.catalog {
		if intent.Name == parsed.Intent {
			actionType = intent.ActionType
			break
		}
	}

	entities := parsed.Entities
	if entities == nil {
		entities = map[string]interface{}{}
	}
	parameters := parsed.Parameters
	if parameters == nil {
		parameters = map[string]interface{}{}
	}

	return &Result{
		Intent:     parsed.Intent,
		Confidence: parsed.Confidence,
		Entities:   entities,
		Parameters: parameters,
		ActionType: actionType,
		Source:     "model",
	}
}

func unknownResult() *Result {
	return &Result{
		Intent:     "unknown",
		Confidence: 0.0,
		Entities:   map[string]interface{}{},
		Parameters: map[string]interface{}{},
		ActionType: ActionInformation,
		Source:     "model",
	}
}

func containsAny(text string, keywords ...string) bool {
	for _, keyword := range keywords {
		if strings.Contains(text, strings.ToLower(keyword)) {
			return true
		}
	}
	return false
}

/* splitWords tokenizes a message into letter runs */
func splitWords(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r)
	})
}

/* containsWord matches whole words only, so a short name like "ti"
 * never matches inside "ativos" */
func containsWord(words []string, target string) bool {
	for _, word := range words {
		if word == target {
			return true
		}
	}
	return false
}

var (
	daysPattern   = regexp.MustCompile(`(?i)(\d+)\s*(dias?)`)
	salaryPattern = regexp.MustCompile(`(?i)R\$\s*([\d.,]+)|salário\s+de\s+([\d.,]+)`)
	tenurePattern = regexp.MustCompile(`(?i)(\d+)\s*(anos?|meses?)`)
)

func extractVacationEntities(message string) map[string]interface{} {
	entities := map[string]interface{}{}
	lower := strings.ToLower(message)

	if m := daysPattern.FindStringSubmatch(message); m != nil {
		if days, err := strconv.Atoi(m[1]); err == nil {
			entities["days"] = days
		}
	}

	if m := salaryPattern.FindStringSubmatch(message); m != nil {
		value := m[1]
		if value == "" {
			value = m[2]
		}
		if salary, err := parseMoneyValue(value); err == nil {
			entities["salary"] = salary
		}
	}

	if strings.Contains(lower, "abono") || strings.Contains(lower, "vender") {
		entities["abono"] = true
	}

	return entities
}

func extractTerminationEntities(message string) map[string]interface{} {
	entities := map[string]interface{}{}
	lower := strings.ToLower(message)

	if containsAny(lower, "sem justa causa", "demitido") {
		entities["type"] = "SEM_JUSTA_CAUSA"
	} else if containsAny(lower, "justa causa") {
		entities["type"] = "JUSTA_CAUSA"
	} else if containsAny(lower, "pedido de demissão", "pedir demissão") {
		entities["type"] = "PEDIDO_DEMISSAO"
	} else if containsAny(lower, "acordo", "comum acordo") {
		entities["type"] = "ACORDO"
	}

	if m := tenurePattern.FindStringSubmatch(message); m != nil {
		value, err := strconv.Atoi(m[1])
		if err == nil {
			if strings.HasPrefix(strings.ToLower(m[2]), "ano") {
				entities["tenureMonths"] = value * 12
			} else {
				entities["tenureMonths"] = value
			}
		}
	}

	return entities
}

func extractEmployeeQueryEntities(message string) map[string]interface{} {
	entities := map[string]interface{}{}
	lower := strings.ToLower(message)

	words := splitWords(lower)
	departments := []string{"TI", "RH", "Financeiro", "Vendas", "Marketing",
		"Operações", "Administrativo", "Jurídico", "Contabilidade"}
	for _, dept := range departments {
		if containsWord(words, strings.ToLower(dept)) {
			entities["department"] = dept
			break
		}
	}

	if strings.Contains(lower, "ativos") || strings.Contains(lower, "ativas") {
		entities["status"] = "ACTIVE"
	} else if strings.Contains(lower, "inativos") || strings.Contains(lower, "demitidos") {
		entities["status"] = "INACTIVE"
	}

	return entities
}

func extractPolicyTopic(message string) string {
	lower := strings.ToLower(message)
	switch {
	case strings.Contains(lower, "férias"):
		return "vacation"
	case strings.Contains(lower, "home office"), strings.Contains(lower, "remoto"):
		return "remote_work"
	case strings.Contains(lower, "benefício"):
		return "benefits"
	case strings.Contains(lower, "conduta"):
		return "code_of_conduct"
	case strings.Contains(lower, "vestimenta"), strings.Contains(lower, "roupa"):
		return "dress_code"
	}
	return "general"
}

func extractLawTopic(message string) string {
	lower := strings.ToLower(message)
	switch {
	case strings.Contains(lower, "férias"):
		return "vacation"
	case strings.Contains(lower, "hora extra"):
		return "overtime"
	case strings.Contains(lower, "rescisão"), strings.Contains(lower, "demissão"):
		return "termination"
	case strings.Contains(lower, "13"), strings.Contains(lower, "décimo terceiro"):
		return "thirteenth_salary"
	case strings.Contains(lower, "fgts"):
		return "fgts"
	case strings.Contains(lower, "inss"):
		return "social_security"
	}
	return "general"
}

/* parseMoneyValue converts "8.500,00" to 8500.00 */
func parseMoneyValue(value string) (float64, error) {
	normalized := strings.ReplaceAll(value, ".", "")
	normalized = strings.ReplaceAll(normalized, ",", ".")
	return strconv.ParseFloat(normalized, 64)
}
