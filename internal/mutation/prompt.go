/*-------------------------------------------------------------------------
 *
 * prompt.go
 *    Analysis prompt for mutation commands
 *
 * The prompt embeds the known HR schema and the friendly-field
 * dictionary so the model can map Portuguese field names to columns.
 * The model answers with a single JSON document; its shape is
 * validated in analysis.go before any field is trusted.
 *
 * Copyright (c) 2024-2026, neurondb, Inc. <support@neurondb.ai>
 *
 * IDENTIFICATION
 *    NeuronHR/internal/mutation/prompt.go
 *
 *-------------------------------------------------------------------------
 */

package mutation

import (
	"encoding/json"
	"strings"
)

const analysisPromptTemplate = `Você é um assistente especializado em interpretar comandos de modificação de dados em linguagem natural.

IMPORTANTE:
- Analise o comando do usuário e identifique a operação de dados desejada
- Extraia todas as informações necessárias para executar a operação
- Identifique qual entidade será afetada e quais campos serão modificados
- Gere SQL seguro usando parâmetros nomeados (:param)
- SEMPRE inclua tenant_id = :tenant_id nas condições WHERE
- Para UPDATE/DELETE, SEMPRE identifique o registro específico a ser modificado
- Valide se a operação é segura e não afeta múltiplos registros sem intenção

ESQUEMA DO BANCO DE DADOS:
{schema}

MAPEAMENTO DE CAMPOS (Nome Amigável -> Campo do Banco):
- Nome/Nome Completo -> full_name
- Nome Social -> social_name
- CPF -> cpf
- Email -> email
- Email Pessoal -> personal_email
- Telefone -> phone
- Celular -> mobile
- Salário/Salário Base -> base_salary
- Data de Nascimento -> birth_date
- Data de Admissão -> hire_date
- Data de Desligamento -> termination_date
- Departamento -> department_id (precisa JOIN com departments)
- Cargo -> position_id (precisa JOIN com positions)
- Centro de Custo -> cost_center_id
- Gestor/Gerente -> manager_id
- Endereço/Rua -> address_street
- Número -> address_number
- Complemento -> address_complement
- Bairro -> address_neighborhood
- Cidade -> address_city
- Estado -> address_state
- CEP -> address_zip_code
- Status -> status (ACTIVE, INACTIVE, TERMINATED)
- Regime de Trabalho -> work_regime
- Tipo de Contrato -> employment_type
- Carga Horária -> weekly_hours
- Turno -> shift

COMANDO DO USUÁRIO: {command}

CONTEXTO ADICIONAL: {context}

Responda com um JSON contendo:
{
    "operation_type": "INSERT" | "UPDATE" | "DELETE",
    "target_table": "nome da tabela (ex: shared.employees)",
    "target_entity": "tipo de entidade em português (ex: Funcionário, Departamento)",
    "description": "Descrição clara da operação em português",
    "risk_level": "LOW" | "MEDIUM" | "HIGH" | "CRITICAL",
    "entity_identifier": {
        "search_field": "campo para buscar o registro (ex: full_name, cpf, email)",
        "search_value": "valor para buscar",
        "search_type": "EXACT" | "CONTAINS" | "STARTS_WITH"
    },
    "changes": [
        {
            "field": "nome do campo no banco",
            "field_label": "nome amigável do campo em português",
            "old_value": null,
            "new_value": "novo valor",
            "change_type": "UPDATE" | "SET" | "CLEAR"
        }
    ],
    "sql": "UPDATE shared.employees SET field = :new_value WHERE tenant_id = :tenant_id AND id = :entity_id",
    "parameters": {
        "new_value": "valor"
    },
    "validation_query": "SELECT id, full_name, field FROM shared.employees WHERE tenant_id = :tenant_id AND search_field ILIKE :search_value LIMIT 5",
    "validation_params": {
        "search_value": "%valor%"
    },
    "warning": "mensagem de aviso se necessário (ex: esta operação é irreversível)",
    "confirmation_message": "Mensagem amigável para o usuário confirmar a operação"
}

REGRAS DE SEGURANÇA:
1. Para operações de DELETE, risk_level deve ser no mínimo HIGH
2. Para alteração de salário, risk_level deve ser no mínimo MEDIUM
3. Para alteração de dados pessoais sensíveis (CPF), risk_level deve ser HIGH
4. Bulk updates (sem WHERE específico) devem ter risk_level CRITICAL
5. SEMPRE gere uma validation_query para verificar qual registro será afetado

Responda APENAS com o JSON, sem explicações adicionais.`

const databaseSchema = `-- TABELA: shared.employees (Funcionários)
shared.employees (
    id UUID PRIMARY KEY,
    tenant_id UUID NOT NULL,
    registration_number VARCHAR(20),
    cpf VARCHAR(11) NOT NULL,
    full_name VARCHAR(200) NOT NULL,
    social_name VARCHAR(200),
    birth_date DATE,
    gender VARCHAR(20),
    marital_status VARCHAR(20),
    email VARCHAR(200) NOT NULL,
    personal_email VARCHAR(200),
    phone VARCHAR(20),
    mobile VARCHAR(20),
    address_street VARCHAR(200),
    address_number VARCHAR(20),
    address_complement VARCHAR(100),
    address_neighborhood VARCHAR(100),
    address_city VARCHAR(100),
    address_state VARCHAR(2),
    address_zip_code VARCHAR(10),
    department_id UUID,
    position_id UUID,
    cost_center_id UUID,
    manager_id UUID,
    hire_date DATE NOT NULL,
    termination_date DATE,
    employment_type VARCHAR(30),
    work_regime VARCHAR(30),
    weekly_hours INTEGER,
    shift VARCHAR(50),
    base_salary DECIMAL(15,2),
    salary_type VARCHAR(20),
    status VARCHAR(20), -- ACTIVE, INACTIVE, TERMINATED
    is_active BOOLEAN,
    created_at TIMESTAMP,
    updated_at TIMESTAMP
)

-- TABELA: shared.departments (Departamentos)
shared.departments (
    id UUID PRIMARY KEY,
    tenant_id UUID NOT NULL,
    code VARCHAR(20),
    name VARCHAR(100) NOT NULL,
    description TEXT,
    parent_id UUID,
    manager_id UUID,
    is_active BOOLEAN,
    created_at TIMESTAMP
)

-- TABELA: shared.positions (Cargos)
shared.positions (
    id UUID PRIMARY KEY,
    tenant_id UUID NOT NULL,
    code VARCHAR(20),
    title VARCHAR(100) NOT NULL,
    description TEXT,
    salary_range_min DECIMAL(15,2),
    salary_range_max DECIMAL(15,2),
    level VARCHAR(20),
    department_id UUID,
    is_active BOOLEAN,
    created_at TIMESTAMP
)

-- TABELA: shared.cost_centers (Centros de Custo)
shared.cost_centers (
    id UUID PRIMARY KEY,
    tenant_id UUID NOT NULL,
    code VARCHAR(20),
    name VARCHAR(100) NOT NULL,
    description TEXT,
    parent_id UUID,
    is_active BOOLEAN,
    created_at TIMESTAMP
)`

/* allowedTargetTables is the mutation allow-list; anything else is refused */
var allowedTargetTables = map[string]bool{
	"shared.employees":    true,
	"shared.departments":  true,
	"shared.positions":    true,
	"shared.cost_centers": true,
}

/* IsAllowedTargetTable reports whether table may be targeted by proposals */
func IsAllowedTargetTable(table string) bool {
	return allowedTargetTables[strings.ToLower(strings.TrimSpace(table))]
}

/* renderAnalysisPrompt fills the analysis template */
func renderAnalysisPrompt(command string, context map[string]interface{}) string {
	contextJSON := "{}"
	if len(context) > 0 {
		if data, err := json.Marshal(context); err == nil {
			contextJSON = string(data)
		}
	}

	prompt := strings.Replace(analysisPromptTemplate, "{schema}", databaseSchema, 1)
	prompt = strings.Replace(prompt, "{command}", command, 1)
	prompt = strings.Replace(prompt, "{context}", contextJSON, 1)
	return prompt
}
