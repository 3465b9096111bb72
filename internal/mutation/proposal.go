/*-------------------------------------------------------------------------
 *
 * proposal.go
 *    Proposal builder for natural-language mutation commands
 *
 * Turns a free-text command into a persisted PendingOperation: model
 * analysis at low temperature, defensive JSON extraction, entity
 * resolution, authoritative pre-image fetch, deterministic risk
 * enforcement, rollback generation, and persistence with a TTL.
 * Nothing is ever mutated here; execution requires explicit human
 * confirmation through the lifecycle manager.
 *
 * Copyright (c) 2024-2026, neurondb, Inc. <support@neurondb.ai>
 *
 * IDENTIFICATION
 *    NeuronHR/internal/mutation/proposal.go
 *
 *-------------------------------------------------------------------------
 */

package mutation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/neurondb/NeuronHR/internal/db"
	"github.com/neurondb/NeuronHR/internal/llm"
	"github.com/neurondb/NeuronHR/internal/metrics"
)

/* analysisTemperature keeps the analysis deterministic */
const analysisTemperature = 0.1

/* Builder creates pending operations from natural-language commands */
type Builder struct {
	provider llm.Provider
	queries  *db.Queries
	resolver *Resolver
	ttl      time.Duration
}

/* NewBuilder creates a proposal builder with the given proposal TTL */
func NewBuilder(provider llm.Provider, queries *db.Queries, ttl time.Duration) *Builder {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Builder{
		provider: provider,
		queries:  queries,
		resolver: NewResolver(queries),
		ttl:      ttl,
	}
}

/* ProposalRequest carries one mutation command and its scope */
type ProposalRequest struct {
	Command        string
	TenantID       uuid.UUID
	UserID         uuid.UUID
	ConversationID string
	MessageID      *string
	Context        map[string]interface{}
}

/* Propose runs the full proposal pipeline. A *ValidationError means the
 * command was understood to be unserviceable and nothing was persisted;
 * any other error is an internal failure. */
func (b *Builder) Propose(ctx context.Context, req ProposalRequest) (*db.PendingOperation, error) {
	metrics.InfoWithContext(ctx, "Processing modification command", map[string]interface{}{
		"command":   req.Command,
		"tenant_id": req.TenantID.String(),
		"user_id":   req.UserID.String(),
	})

	/* Step 1: model analysis at low temperature */
	doc, err := b.analyzeCommand(ctx, req.Command, req.Context)
	if err != nil {
		return nil, err
	}

	if !IsAllowedTargetTable(doc.TargetTable) {
		return nil, NewValidationError(fmt.Sprintf(
			"A tabela '%s' não pode ser modificada por este assistente.", doc.TargetTable))
	}

	/* Step 2: resolve exactly one target row */
	entity, err := b.resolver.Resolve(ctx, doc, req.TenantID)
	if err != nil {
		return nil, err
	}

	/* Step 3: refuse a second open proposal for the same row */
	open, err := b.queries.HasOpenOperationForTarget(ctx, req.TenantID, doc.TargetTable, entity.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check open operations: target_id='%s', error=%w", entity.ID.String(), err)
	}
	if open {
		return nil, NewValidationError(
			"Já existe uma operação pendente para este registro. Confirme ou rejeite a operação anterior antes de criar uma nova.")
	}

	/* Step 4: authoritative pre-image */
	original := b.fetchOriginalData(ctx, doc.TargetTable, entity.ID, req.TenantID)

	/* Step 5: assemble and persist */
	op := b.buildOperation(doc, req, entity, original)
	if err := b.queries.CreateOperation(ctx, op); err != nil {
		return nil, fmt.Errorf("failed to persist pending operation: error=%w", err)
	}

	metrics.RecordOperationProposed(op.OperationType, op.RiskLevel)
	metrics.InfoWithContext(ctx, "Created pending operation", map[string]interface{}{
		"operation_id": op.ID.String(),
		"entity_name":  entity.DisplayName,
		"risk_level":   op.RiskLevel,
	})

	return op, nil
}

/* analyzeCommand calls the model and parses its analysis document */
func (b *Builder) analyzeCommand(ctx context.Context, command string, cmdContext map[string]interface{}) (*AnalysisDocument, error) {
	temperature := analysisTemperature
	resp, err := b.provider.Chat(ctx, llm.ChatRequest{
		Messages: []llm.ChatMessage{
			{Role: llm.RoleSystem, Content: renderAnalysisPrompt(command, cmdContext)},
		},
		Temperature: &temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("command analysis failed: error=%w", err)
	}

	doc, err := ParseAnalysis(resp.Content)
	if err != nil {
		metrics.WarnWithContext(ctx, "Analysis document rejected", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, NewValidationError(fmt.Sprintf("Não foi possível processar o comando: %v", err))
	}
	return doc, nil
}

/* fetchOriginalData loads the pre-image row; failures degrade to an empty map */
func (b *Builder) fetchOriginalData(ctx context.Context, targetTable string, entityID, tenantID uuid.UUID) map[string]interface{} {
	query := fmt.Sprintf("SELECT * FROM %s WHERE id = :id AND tenant_id = :tenant_id", targetTable)
	rows, err := b.queries.QueryRows(ctx, query, map[string]interface{}{
		"id":        entityID,
		"tenant_id": tenantID,
	})
	if err != nil {
		metrics.WarnWithContext(ctx, "Could not fetch original data", map[string]interface{}{
			"target_table": targetTable,
			"entity_id":    entityID.String(),
			"error":        err.Error(),
		})
		return map[string]interface{}{}
	}
	if len(rows) == 0 {
		return map[string]interface{}{}
	}
	return rows[0]
}

/* buildOperation assembles the PendingOperation from the analysis,
 * pairing declared changes with authoritative old values */
func (b *Builder) buildOperation(doc *AnalysisDocument, req ProposalRequest, entity *ResolvedEntity, original map[string]interface{}) *db.PendingOperation {
	changes := make(db.DataChangeList, 0, len(doc.Changes))
	newData := db.JSONBMap{}
	for _, declared := range doc.Changes {
		changes = append(changes, db.DataChange{
			Field:      declared.Field,
			FieldLabel: declared.FieldLabel,
			OldValue:   original[declared.Field],
			NewValue:   declared.NewValue,
			ChangeType: declared.ChangeType,
		})
		newData[declared.Field] = declared.NewValue
	}

	sqlParams := db.JSONBMap{}
	for key, value := range doc.Parameters {
		sqlParams[key] = value
	}
	if _, ok := sqlParams["search_value"]; !ok {
		if v, ok := doc.ValidationParams["search_value"]; ok {
			sqlParams["search_value"] = v
		} else if doc.EntityIdentifier != nil && doc.EntityIdentifier.SearchValue != "" {
			sqlParams["search_value"] = doc.EntityIdentifier.SearchValue
		}
	}
	/* Force-bind the resolved scope; model-declared values never win */
	sqlParams["entity_id"] = entity.ID.String()
	sqlParams["tenant_id"] = req.TenantID.String()

	confirmationMessage := doc.ConfirmationMessage
	if confirmationMessage == "" {
		confirmationMessage = "Deseja confirmar esta operação?"
	}
	metadata := db.JSONBMap{
		"entity_name":          entity.DisplayName,
		"confirmation_message": confirmationMessage,
	}
	if doc.Warning != "" {
		metadata["warning"] = doc.Warning
	}

	targetID := entity.ID
	now := time.Now().UTC()
	affected := 1

	return &db.PendingOperation{
		TenantID:               req.TenantID,
		UserID:                 req.UserID,
		ConversationID:         req.ConversationID,
		MessageID:              req.MessageID,
		OperationType:          doc.OperationType,
		TargetTable:            doc.TargetTable,
		TargetEntity:           doc.TargetEntity,
		TargetID:               &targetID,
		Description:            doc.Description,
		NaturalLanguageRequest: req.Command,
		OriginalData:           db.JSONBMap(original),
		NewData:                newData,
		ChangesSummary:         changes,
		GeneratedSQL:           doc.SQL,
		SQLParameters:          sqlParams,
		RollbackSQL:            GenerateRollbackSQL(doc, original, entity.ID),
		RiskLevel:              EnforceRiskPolicy(doc),
		RequiresApproval:       true,
		Status:                 db.StatusPending,
		AffectedRecordsCount:   &affected,
		ExpiresAt:              now.Add(b.ttl),
		Metadata:               metadata,
	}
}
