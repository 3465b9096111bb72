/*-------------------------------------------------------------------------
 *
 * intents.go
 *    Intent catalog
 *
 * Declares the intents the classifier can resolve to, with the
 * example phrases fed to the model fallback. The action type decides
 * which handler family processes the message.
 *
 * Copyright (c) 2024-2026, neurondb, Inc. <support@neurondb.ai>
 *
 * IDENTIFICATION
 *    NeuronHR/internal/nlu/intents.go
 *
 *-------------------------------------------------------------------------
 */

package nlu

/* Action types */
const (
	ActionCalculation      = "CALCULATION"
	ActionDatabaseQuery    = "DATABASE_QUERY"
	ActionKnowledgeSearch  = "KNOWLEDGE_SEARCH"
	ActionDataModification = "DATA_MODIFICATION"
	ActionInformation      = "INFORMATION"
)

/* Intent is one entry of the classification catalog */
type Intent struct {
	Name        string
	Description string
	Examples    []string
	ActionType  string
}

/* DefaultCatalog returns the built-in HR intent catalog */
func DefaultCatalog() []Intent {
	return []Intent{
		{
			Name:        "calculate_vacation",
			Description: "Calcular valor de férias",
			Examples:    []string{"quanto vou receber de férias", "calcular minhas férias de 30 dias"},
			ActionType:  ActionCalculation,
		},
		{
			Name:        "calculate_termination",
			Description: "Calcular verbas rescisórias",
			Examples:    []string{"calcular rescisão sem justa causa", "quanto recebo se for demitido"},
			ActionType:  ActionCalculation,
		},
		{
			Name:        "calculate_overtime",
			Description: "Calcular horas extras",
			Examples:    []string{"quanto valem 10 horas extras", "calcular adicional noturno"},
			ActionType:  ActionCalculation,
		},
		{
			Name:        "query_employee",
			Description: "Consultar funcionários e departamentos",
			Examples:    []string{"quem trabalha no departamento de TI", "listar colaboradores ativos"},
			ActionType:  ActionDatabaseQuery,
		},
		{
			Name:        "query_payroll",
			Description: "Consultar folha de pagamento e contracheques",
			Examples:    []string{"meu holerite de janeiro", "quanto ganhei no mês passado"},
			ActionType:  ActionDatabaseQuery,
		},
		{
			Name:        "hr_policy",
			Description: "Consultar políticas internas de RH",
			Examples:    []string{"qual a política de home office", "regras de vestimenta"},
			ActionType:  ActionKnowledgeSearch,
		},
		{
			Name:        "labor_law",
			Description: "Consultar legislação trabalhista",
			Examples:    []string{"o que diz a CLT sobre férias", "direitos na rescisão"},
			ActionType:  ActionKnowledgeSearch,
		},
		{
			Name:        "modify_data",
			Description: "Modificar dados cadastrais de funcionários",
			Examples:    []string{"mudar o salário da Maria para R$ 8.000", "atualizar o email do João"},
			ActionType:  ActionDataModification,
		},
		{
			Name:        "confirm_operation",
			Description: "Confirmar ou rejeitar uma operação pendente",
			Examples:    []string{"sim, pode confirmar", "não, cancela"},
			ActionType:  ActionDataModification,
		},
	}
}
