/*-------------------------------------------------------------------------
 *
 * handlers.go
 *    HTTP handlers for the NeuronHR API
 *
 * Chat turns, pending operation inspection and settlement, and the
 * operational endpoints. All operation routes act within the
 * authenticated tenant scope; cross-tenant ids read as not found.
 *
 * Copyright (c) 2024-2026, neurondb, Inc. <support@neurondb.ai>
 *
 * IDENTIFICATION
 *    NeuronHR/internal/api/handlers.go
 *
 *-------------------------------------------------------------------------
 */

package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/neurondb/NeuronHR/internal/agent"
	"github.com/neurondb/NeuronHR/internal/db"
	"github.com/neurondb/NeuronHR/internal/metrics"
	"github.com/neurondb/NeuronHR/internal/mutation"
)

/* defaultListLimit bounds unpaginated operation listings */
const defaultListLimit = 50

/* Handlers carries the API dependencies */
type Handlers struct {
	orchestrator *agent.Orchestrator
	lifecycle    *mutation.Manager
	queries      *db.Queries
	database     *db.DB
}

func NewHandlers(orchestrator *agent.Orchestrator, lifecycle *mutation.Manager, queries *db.Queries, database *db.DB) *Handlers {
	return &Handlers{
		orchestrator: orchestrator,
		lifecycle:    lifecycle,
		queries:      queries,
		database:     database,
	}
}

/* Router assembles the route table and middleware chain */
func (h *Handlers) Router(authToken string) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	v1 := r.PathPrefix("/api/v1").Subrouter()
	v1.HandleFunc("/chat", h.Chat).Methods(http.MethodPost)
	v1.HandleFunc("/operations", h.ListOperations).Methods(http.MethodGet)
	v1.HandleFunc("/operations/stats", h.OperationStats).Methods(http.MethodGet)
	v1.HandleFunc("/operations/{id}", h.GetOperation).Methods(http.MethodGet)
	v1.HandleFunc("/operations/{id}/confirm", h.ConfirmOperation).Methods(http.MethodPost)
	v1.HandleFunc("/operations/{id}/reject", h.RejectOperation).Methods(http.MethodPost)
	v1.HandleFunc("/operations/{id}/rollback", h.RollbackOperation).Methods(http.MethodPost)
	v1.HandleFunc("/conversations/{id}/operations", h.ConversationOperations).Methods(http.MethodGet)
	v1.HandleFunc("/conversations/{id}/cancel-operations", h.CancelConversationOperations).Methods(http.MethodPost)

	var handler http.Handler = r
	handler = AuthMiddleware(authToken)(handler)
	handler = LoggingMiddleware(handler)
	handler = CORSMiddleware(handler)
	handler = SecurityHeadersMiddleware(handler)
	handler = RequestIDMiddleware(handler)
	return handler
}

/* Health reports process and database liveness */
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{"status": "ok"}
	code := http.StatusOK

	if err := h.database.HealthCheck(r.Context()); err != nil {
		status["status"] = "degraded"
		status["database"] = err.Error()
		code = http.StatusServiceUnavailable
	}

	open, idle, inUse := h.database.GetPoolStats()
	metrics.RecordDBPoolStats("neuronhr", open, idle, inUse)

	respondJSON(w, code, status)
}

type chatRequest struct {
	ConversationID string  `json:"conversation_id"`
	Message        string  `json:"message"`
	MessageID      *string `json:"message_id,omitempty"`
}

/* Chat runs one conversation turn */
func (h *Handlers) Chat(w http.ResponseWriter, r *http.Request) {
	requestID := GetRequestID(r.Context())
	tenantID, _ := TenantFromContext(r.Context())
	userID, _ := UserFromContext(r.Context())

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, NewError(http.StatusBadRequest, "invalid request body", err), requestID)
		return
	}
	if req.Message == "" {
		respondError(w, NewError(http.StatusBadRequest, "message is required", nil), requestID)
		return
	}
	if req.ConversationID == "" {
		req.ConversationID = uuid.New().String()
	}

	ctx := metrics.WithLogContext(r.Context(), requestID, tenantID.String(), userID.String(), req.ConversationID, "")
	response, err := h.orchestrator.RunTurn(ctx, agent.TurnRequest{
		TenantID:       tenantID,
		UserID:         userID,
		ConversationID: req.ConversationID,
		MessageID:      req.MessageID,
		Message:        req.Message,
	})
	if err != nil {
		metrics.ErrorWithContext(ctx, "Chat turn failed", err, nil)
		respondError(w, NewError(http.StatusInternalServerError, "failed to process message", err), requestID)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"conversation_id": req.ConversationID,
		"response":        response,
	})
}

/* ListOperations lists tenant operations with optional status filter */
func (h *Handlers) ListOperations(w http.ResponseWriter, r *http.Request) {
	requestID := GetRequestID(r.Context())
	tenantID, _ := TenantFromContext(r.Context())

	var status *string
	if s := r.URL.Query().Get("status"); s != "" {
		if !db.IsValidStatus(s) {
			respondError(w, NewError(http.StatusBadRequest, "unknown status filter", nil), requestID)
			return
		}
		status = &s
	}
	limit := queryInt(r, "limit", defaultListLimit)
	offset := queryInt(r, "offset", 0)

	ops, err := h.queries.ListOperationsByStatus(r.Context(), tenantID, status, limit, offset)
	if err != nil {
		respondError(w, NewError(http.StatusInternalServerError, "failed to list operations", err), requestID)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"total":      len(ops),
		"operations": ops,
	})
}

/* OperationStats reports operation counts grouped by status */
func (h *Handlers) OperationStats(w http.ResponseWriter, r *http.Request) {
	requestID := GetRequestID(r.Context())
	tenantID, _ := TenantFromContext(r.Context())

	stats, err := h.queries.OperationStatsByStatus(r.Context(), tenantID)
	if err != nil {
		respondError(w, NewError(http.StatusInternalServerError, "failed to load operation stats", err), requestID)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"stats": stats})
}

/* GetOperation returns one operation in the tenant scope */
func (h *Handlers) GetOperation(w http.ResponseWriter, r *http.Request) {
	requestID := GetRequestID(r.Context())
	tenantID, _ := TenantFromContext(r.Context())

	operationID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, NewError(http.StatusBadRequest, "invalid operation id", err), requestID)
		return
	}

	op, err := h.queries.GetOperation(r.Context(), operationID, tenantID)
	if err != nil {
		respondError(w, ErrNotFound, requestID)
		return
	}

	respondJSON(w, http.StatusOK, op)
}

/* ConfirmOperation executes a pending operation */
func (h *Handlers) ConfirmOperation(w http.ResponseWriter, r *http.Request) {
	h.settle(w, r, func(operationID, tenantID, userID uuid.UUID) (*mutation.ConfirmationResult, error) {
		return h.lifecycle.ProcessConfirmation(r.Context(), operationID, tenantID, userID, true, nil)
	})
}

type rejectRequest struct {
	Reason *string `json:"reason,omitempty"`
}

/* RejectOperation rejects a pending operation */
func (h *Handlers) RejectOperation(w http.ResponseWriter, r *http.Request) {
	var req rejectRequest
	if r.Body != nil {
		/* Body is optional */
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	h.settle(w, r, func(operationID, tenantID, userID uuid.UUID) (*mutation.ConfirmationResult, error) {
		return h.lifecycle.ProcessConfirmation(r.Context(), operationID, tenantID, userID, false, req.Reason)
	})
}

/* RollbackOperation reverses an executed operation */
func (h *Handlers) RollbackOperation(w http.ResponseWriter, r *http.Request) {
	h.settle(w, r, func(operationID, tenantID, userID uuid.UUID) (*mutation.ConfirmationResult, error) {
		return h.lifecycle.Rollback(r.Context(), operationID, tenantID, userID)
	})
}

/* settle shares the id parsing and result shaping of the three
 * settlement endpoints */
func (h *Handlers) settle(w http.ResponseWriter, r *http.Request, action func(operationID, tenantID, userID uuid.UUID) (*mutation.ConfirmationResult, error)) {
	requestID := GetRequestID(r.Context())
	tenantID, _ := TenantFromContext(r.Context())
	userID, _ := UserFromContext(r.Context())

	operationID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, NewError(http.StatusBadRequest, "invalid operation id", err), requestID)
		return
	}

	result, err := action(operationID, tenantID, userID)
	if err != nil {
		respondError(w, NewError(http.StatusInternalServerError, "failed to process operation", err), requestID)
		return
	}

	code := http.StatusOK
	if !result.Success && result.Message == "Operação não encontrada." {
		code = http.StatusNotFound
	}
	respondJSON(w, code, result)
}

/* ConversationOperations lists the operations of one conversation */
func (h *Handlers) ConversationOperations(w http.ResponseWriter, r *http.Request) {
	requestID := GetRequestID(r.Context())
	tenantID, _ := TenantFromContext(r.Context())
	conversationID := mux.Vars(r)["id"]

	includeHistory := r.URL.Query().Get("include_history") == "true"
	ops, err := h.lifecycle.PendingOperationsForConversation(r.Context(), conversationID, tenantID, includeHistory)
	if err != nil {
		respondError(w, NewError(http.StatusInternalServerError, "failed to list conversation operations", err), requestID)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"conversation_id": conversationID,
		"total":           len(ops),
		"operations":      ops,
	})
}

/* CancelConversationOperations expires every open proposal of a conversation */
func (h *Handlers) CancelConversationOperations(w http.ResponseWriter, r *http.Request) {
	requestID := GetRequestID(r.Context())
	tenantID, _ := TenantFromContext(r.Context())
	conversationID := mux.Vars(r)["id"]

	cancelled, err := h.lifecycle.CancelConversationOperations(r.Context(), conversationID, tenantID)
	if err != nil {
		respondError(w, NewError(http.StatusInternalServerError, "failed to cancel operations", err), requestID)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"conversation_id": conversationID,
		"cancelled":       cancelled,
	})
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return fallback
	}
	return value
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, err error, requestID string) {
	status, body := WrapError(err, requestID)
	respondJSON(w, status, body)
}
