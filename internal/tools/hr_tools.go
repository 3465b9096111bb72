/*-------------------------------------------------------------------------
 *
 * hr_tools.go
 *    Read-only HR tool handlers
 *
 * Calculation, directory, reporting, and knowledge tools. None of
 * these mutate data; they delegate to injected collaborators so the
 * concrete services can live behind their own boundaries.
 *
 * Copyright (c) 2024-2026, neurondb, Inc. <support@neurondb.ai>
 *
 * IDENTIFICATION
 *    NeuronHR/internal/tools/hr_tools.go
 *
 *-------------------------------------------------------------------------
 */

package tools

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/neurondb/NeuronHR/internal/llm"
)

/* VacationCalculator computes vacation pay */
type VacationCalculator interface {
	CalculateVacation(ctx context.Context, salary float64, days int, sellDays bool) (map[string]interface{}, error)
}

/* TerminationCalculator computes severance amounts */
type TerminationCalculator interface {
	CalculateTermination(ctx context.Context, terminationType string, salary float64, tenureMonths int) (map[string]interface{}, error)
}

/* OvertimeCalculator computes overtime pay */
type OvertimeCalculator interface {
	CalculateOvertime(ctx context.Context, salary float64, hours float64, percent float64) (map[string]interface{}, error)
}

/* EmployeeDirectory answers employee and department lookups */
type EmployeeDirectory interface {
	SearchEmployees(ctx context.Context, tenantID uuid.UUID, name, department, status string) ([]map[string]interface{}, error)
}

/* ReportRunner answers ad-hoc reporting questions over HR data */
type ReportRunner interface {
	RunReport(ctx context.Context, tenantID uuid.UUID, question string) ([]map[string]interface{}, error)
}

/* KnowledgeSearcher retrieves policy and legislation passages */
type KnowledgeSearcher interface {
	SearchKnowledge(ctx context.Context, tenantID uuid.UUID, query, topic string, limit int) ([]map[string]interface{}, error)
}

/* CalculateVacationTool computes vacation pay */
type CalculateVacationTool struct {
	calculator VacationCalculator
}

func NewCalculateVacationTool(calculator VacationCalculator) *CalculateVacationTool {
	return &CalculateVacationTool{calculator: calculator}
}

func (t *CalculateVacationTool) Name() string { return "calcular_ferias" }

func (t *CalculateVacationTool) Definition() llm.ToolDefinition {
	return llm.ToolDefinition{
		Type: "function",
		Function: llm.FunctionDefinition{
			Name:        "calcular_ferias",
			Description: "Calcula o valor líquido e os componentes das férias de um funcionário.",
			Parameters: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"salario": map[string]interface{}{
						"type":        "number",
						"minimum":     float64(0),
						"description": "Salário bruto mensal",
					},
					"dias": map[string]interface{}{
						"type":        "integer",
						"minimum":     float64(1),
						"maximum":     float64(30),
						"description": "Dias de férias a gozar",
					},
					"abono": map[string]interface{}{
						"type":        "boolean",
						"description": "Se o funcionário vende um terço dos dias (abono pecuniário)",
					},
				},
				"required": []interface{}{"salario", "dias"},
			},
		},
	}
}

func (t *CalculateVacationTool) Execute(ctx context.Context, scope Scope, args map[string]interface{}) (string, error) {
	result, err := t.calculator.CalculateVacation(ctx, argFloat(args, "salario"), argInt(args, "dias"), argBool(args, "abono"))
	if err != nil {
		return "", fmt.Errorf("Não foi possível calcular as férias: %v", err)
	}
	return resultJSON(result)
}

/* CalculateTerminationTool computes severance amounts */
type CalculateTerminationTool struct {
	calculator TerminationCalculator
}

func NewCalculateTerminationTool(calculator TerminationCalculator) *CalculateTerminationTool {
	return &CalculateTerminationTool{calculator: calculator}
}

func (t *CalculateTerminationTool) Name() string { return "calcular_rescisao" }

func (t *CalculateTerminationTool) Definition() llm.ToolDefinition {
	return llm.ToolDefinition{
		Type: "function",
		Function: llm.FunctionDefinition{
			Name:        "calcular_rescisao",
			Description: "Calcula as verbas rescisórias de um desligamento.",
			Parameters: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"tipo": map[string]interface{}{
						"type":        "string",
						"enum":        []interface{}{"SEM_JUSTA_CAUSA", "JUSTA_CAUSA", "PEDIDO_DEMISSAO", "ACORDO"},
						"description": "Modalidade da rescisão",
					},
					"salario": map[string]interface{}{
						"type":        "number",
						"minimum":     float64(0),
						"description": "Salário bruto mensal",
					},
					"meses_de_casa": map[string]interface{}{
						"type":        "integer",
						"minimum":     float64(0),
						"description": "Tempo de casa em meses",
					},
				},
				"required": []interface{}{"tipo", "salario", "meses_de_casa"},
			},
		},
	}
}

func (t *CalculateTerminationTool) Execute(ctx context.Context, scope Scope, args map[string]interface{}) (string, error) {
	result, err := t.calculator.CalculateTermination(ctx, argString(args, "tipo"), argFloat(args, "salario"), argInt(args, "meses_de_casa"))
	if err != nil {
		return "", fmt.Errorf("Não foi possível calcular a rescisão: %v", err)
	}
	return resultJSON(result)
}

/* CalculateOvertimeTool computes overtime pay */
type CalculateOvertimeTool struct {
	calculator OvertimeCalculator
}

func NewCalculateOvertimeTool(calculator OvertimeCalculator) *CalculateOvertimeTool {
	return &CalculateOvertimeTool{calculator: calculator}
}

func (t *CalculateOvertimeTool) Name() string { return "calcular_horas_extras" }

func (t *CalculateOvertimeTool) Definition() llm.ToolDefinition {
	return llm.ToolDefinition{
		Type: "function",
		Function: llm.FunctionDefinition{
			Name:        "calcular_horas_extras",
			Description: "Calcula o valor de horas extras com o adicional informado.",
			Parameters: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"salario": map[string]interface{}{
						"type":        "number",
						"minimum":     float64(0),
						"description": "Salário bruto mensal",
					},
					"horas": map[string]interface{}{
						"type":        "number",
						"minimum":     float64(0),
						"description": "Quantidade de horas extras",
					},
					"percentual": map[string]interface{}{
						"type":        "number",
						"minimum":     float64(0),
						"description": "Percentual do adicional (50 para dias úteis, 100 para domingos e feriados)",
					},
				},
				"required": []interface{}{"salario", "horas"},
			},
		},
	}
}

func (t *CalculateOvertimeTool) Execute(ctx context.Context, scope Scope, args map[string]interface{}) (string, error) {
	percent := argFloat(args, "percentual")
	if percent == 0 {
		percent = 50
	}
	result, err := t.calculator.CalculateOvertime(ctx, argFloat(args, "salario"), argFloat(args, "horas"), percent)
	if err != nil {
		return "", fmt.Errorf("Não foi possível calcular as horas extras: %v", err)
	}
	return resultJSON(result)
}

/* QueryEmployeesTool looks up employees by name, department, or status */
type QueryEmployeesTool struct {
	directory EmployeeDirectory
}

func NewQueryEmployeesTool(directory EmployeeDirectory) *QueryEmployeesTool {
	return &QueryEmployeesTool{directory: directory}
}

func (t *QueryEmployeesTool) Name() string { return "consultar_funcionarios" }

func (t *QueryEmployeesTool) Definition() llm.ToolDefinition {
	return llm.ToolDefinition{
		Type: "function",
		Function: llm.FunctionDefinition{
			Name:        "consultar_funcionarios",
			Description: "Consulta funcionários por nome, departamento ou situação.",
			Parameters: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"nome": map[string]interface{}{
						"type":        "string",
						"description": "Nome ou parte do nome do funcionário",
					},
					"departamento": map[string]interface{}{
						"type":        "string",
						"description": "Nome do departamento",
					},
					"situacao": map[string]interface{}{
						"type":        "string",
						"enum":        []interface{}{"ACTIVE", "INACTIVE"},
						"description": "Situação do vínculo",
					},
				},
			},
		},
	}
}

func (t *QueryEmployeesTool) Execute(ctx context.Context, scope Scope, args map[string]interface{}) (string, error) {
	rows, err := t.directory.SearchEmployees(ctx, scope.TenantID,
		argString(args, "nome"), argString(args, "departamento"), argString(args, "situacao"))
	if err != nil {
		return "", fmt.Errorf("Não foi possível consultar os funcionários.")
	}
	return resultJSON(map[string]interface{}{
		"total":        len(rows),
		"funcionarios": rows,
	})
}

/* QueryDatabaseTool answers ad-hoc reporting questions */
type QueryDatabaseTool struct {
	runner ReportRunner
}

func NewQueryDatabaseTool(runner ReportRunner) *QueryDatabaseTool {
	return &QueryDatabaseTool{runner: runner}
}

func (t *QueryDatabaseTool) Name() string { return "consultar_banco_dados" }

func (t *QueryDatabaseTool) Definition() llm.ToolDefinition {
	return llm.ToolDefinition{
		Type: "function",
		Function: llm.FunctionDefinition{
			Name:        "consultar_banco_dados",
			Description: "Consulta dados agregados de RH (folha, contracheques, quadro de pessoal) a partir de uma pergunta.",
			Parameters: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"pergunta": map[string]interface{}{
						"type":        "string",
						"minLength":   float64(3),
						"description": "A pergunta sobre os dados, em linguagem natural",
					},
				},
				"required": []interface{}{"pergunta"},
			},
		},
	}
}

func (t *QueryDatabaseTool) Execute(ctx context.Context, scope Scope, args map[string]interface{}) (string, error) {
	rows, err := t.runner.RunReport(ctx, scope.TenantID, argString(args, "pergunta"))
	if err != nil {
		return "", fmt.Errorf("Não foi possível executar a consulta.")
	}
	return resultJSON(map[string]interface{}{
		"total":      len(rows),
		"resultados": rows,
	})
}

/* SearchKnowledgeTool retrieves policy and legislation passages */
type SearchKnowledgeTool struct {
	searcher KnowledgeSearcher
}

func NewSearchKnowledgeTool(searcher KnowledgeSearcher) *SearchKnowledgeTool {
	return &SearchKnowledgeTool{searcher: searcher}
}

func (t *SearchKnowledgeTool) Name() string { return "buscar_base_conhecimento" }

func (t *SearchKnowledgeTool) Definition() llm.ToolDefinition {
	return llm.ToolDefinition{
		Type: "function",
		Function: llm.FunctionDefinition{
			Name:        "buscar_base_conhecimento",
			Description: "Busca políticas internas e legislação trabalhista na base de conhecimento.",
			Parameters: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"consulta": map[string]interface{}{
						"type":        "string",
						"minLength":   float64(2),
						"description": "Termos da busca",
					},
					"topico": map[string]interface{}{
						"type":        "string",
						"description": "Tópico para restringir a busca (vacation, overtime, termination, ...)",
					},
					"limite": map[string]interface{}{
						"type":        "integer",
						"minimum":     float64(1),
						"maximum":     float64(20),
						"description": "Número máximo de trechos",
					},
				},
				"required": []interface{}{"consulta"},
			},
		},
	}
}

func (t *SearchKnowledgeTool) Execute(ctx context.Context, scope Scope, args map[string]interface{}) (string, error) {
	limit := argInt(args, "limite")
	if limit <= 0 {
		limit = 5
	}
	hits, err := t.searcher.SearchKnowledge(ctx, scope.TenantID, argString(args, "consulta"), argString(args, "topico"), limit)
	if err != nil {
		return "", fmt.Errorf("Não foi possível consultar a base de conhecimento.")
	}
	return resultJSON(map[string]interface{}{
		"total":      len(hits),
		"resultados": hits,
	})
}
