/*-------------------------------------------------------------------------
 *
 * prometheus.go
 *    Prometheus metric collectors
 *
 * Copyright (c) 2024-2026, neurondb, Inc. <support@neurondb.ai>
 *
 * IDENTIFICATION
 *    NeuronHR/internal/metrics/prometheus.go
 *
 *-------------------------------------------------------------------------
 */

package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	/* Request metrics */
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "neuronhr_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "neuronhr_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	/* Conversation turn metrics */
	turnExecutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "neuronhr_turn_executions_total",
			Help: "Total number of conversation turns processed",
		},
		[]string{"status"},
	)

	turnExecutionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "neuronhr_turn_execution_duration_seconds",
			Help:    "Conversation turn duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"status"},
	)

	turnIterations = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "neuronhr_turn_tool_loop_iterations",
			Help:    "Tool-calling loop iterations per conversation turn",
			Buckets: []float64{1, 2, 3, 4, 5, 6},
		},
	)

	/* LLM metrics */
	llmCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "neuronhr_llm_calls_total",
			Help: "Total number of LLM calls",
		},
		[]string{"model", "status"},
	)

	llmCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "neuronhr_llm_call_duration_seconds",
			Help:    "LLM call duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"model"},
	)

	llmTokensTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "neuronhr_llm_tokens_total",
			Help: "Total number of LLM tokens",
		},
		[]string{"model", "type"},
	)

	/* Tool metrics */
	toolExecutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "neuronhr_tool_executions_total",
			Help: "Total number of tool executions",
		},
		[]string{"tool_name", "status"},
	)

	toolExecutionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "neuronhr_tool_execution_duration_seconds",
			Help:    "Tool execution duration in seconds",
			Buckets: []float64{0.01, 0.1, 0.5, 1, 5, 10, 30},
		},
		[]string{"tool_name"},
	)

	/* Pending operation metrics */
	operationsProposedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "neuronhr_operations_proposed_total",
			Help: "Total number of pending operations created",
		},
		[]string{"operation_type", "risk_level"},
	)

	operationTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "neuronhr_operation_transitions_total",
			Help: "Total number of pending operation status transitions",
		},
		[]string{"to_status"},
	)

	operationsExpiredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "neuronhr_operations_expired_total",
			Help: "Total number of operations expired by the sweep",
		},
	)

	/* Intent classification metrics */
	intentClassificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "neuronhr_intent_classifications_total",
			Help: "Total number of intent classifications",
		},
		[]string{"intent", "source"},
	)

	/* Database connection pool metrics */
	dbPoolOpenConns = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "neuronhr_db_pool_open_connections",
			Help: "Number of open database connections",
		},
		[]string{"database"},
	)

	dbPoolIdleConns = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "neuronhr_db_pool_idle_connections",
			Help: "Number of idle database connections",
		},
		[]string{"database"},
	)

	dbPoolInUseConns = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "neuronhr_db_pool_in_use_connections",
			Help: "Number of database connections in use",
		},
		[]string{"database"},
	)
)

/* RecordHTTPRequest records an HTTP request */
func RecordHTTPRequest(method, endpoint string, status int, duration time.Duration) {
	/* Convert status code to status class for better PromQL queries */
	statusClass := "unknown"
	if status >= 200 && status < 300 {
		statusClass = "2xx"
	} else if status >= 300 && status < 400 {
		statusClass = "3xx"
	} else if status >= 400 && status < 500 {
		statusClass = "4xx"
	} else if status >= 500 {
		statusClass = "5xx"
	}

	httpRequestsTotal.WithLabelValues(method, endpoint, statusClass).Inc()
	httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

/* RecordTurnExecution records a conversation turn */
func RecordTurnExecution(status string, iterations int, duration time.Duration) {
	turnExecutionsTotal.WithLabelValues(status).Inc()
	turnExecutionDuration.WithLabelValues(status).Observe(duration.Seconds())
	turnIterations.Observe(float64(iterations))
}

/* RecordLLMCall records an LLM call */
func RecordLLMCall(model, status string, promptTokens, completionTokens int, duration time.Duration) {
	llmCallsTotal.WithLabelValues(model, status).Inc()
	llmCallDuration.WithLabelValues(model).Observe(duration.Seconds())
	llmTokensTotal.WithLabelValues(model, "prompt").Add(float64(promptTokens))
	llmTokensTotal.WithLabelValues(model, "completion").Add(float64(completionTokens))
}

/* RecordToolExecution records a tool execution */
func RecordToolExecution(toolName, status string, duration time.Duration) {
	toolExecutionsTotal.WithLabelValues(toolName, status).Inc()
	toolExecutionDuration.WithLabelValues(toolName).Observe(duration.Seconds())
}

/* RecordOperationProposed records a newly created pending operation */
func RecordOperationProposed(operationType, riskLevel string) {
	operationsProposedTotal.WithLabelValues(operationType, riskLevel).Inc()
}

/* RecordOperationTransition records a pending operation status transition */
func RecordOperationTransition(toStatus string) {
	operationTransitionsTotal.WithLabelValues(toStatus).Inc()
}

/* RecordOperationsExpired records operations expired by the sweep */
func RecordOperationsExpired(count int) {
	operationsExpiredTotal.Add(float64(count))
}

/* RecordIntentClassification records an intent classification */
func RecordIntentClassification(intent, source string) {
	intentClassificationsTotal.WithLabelValues(intent, source).Inc()
}

/* RecordDBPoolStats records database connection pool statistics */
func RecordDBPoolStats(database string, openConns, idleConns, inUse int) {
	dbPoolOpenConns.WithLabelValues(database).Set(float64(openConns))
	dbPoolIdleConns.WithLabelValues(database).Set(float64(idleConns))
	dbPoolInUseConns.WithLabelValues(database).Set(float64(inUse))
}

/* Handler returns the Prometheus metrics handler */
func Handler() http.Handler {
	return promhttp.Handler()
}
