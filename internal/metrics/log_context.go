/*-------------------------------------------------------------------------
 *
 * log_context.go
 *    Log context helpers for structured logging
 *
 * Provides helpers for consistent structured logging with request_id,
 * tenant_id, user_id, conversation_id and tool_name fields across all
 * components.
 *
 * Copyright (c) 2024-2025, neurondb, Inc. <admin@neurondb.com>
 *
 * IDENTIFICATION
 *    NeuronHR/internal/metrics/log_context.go
 *
 *-------------------------------------------------------------------------
 */

package metrics

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type contextKey string

const (
	requestIDKey      contextKey = "request_id"
	tenantIDKey       contextKey = "tenant_id"
	userIDKey         contextKey = "user_id"
	conversationIDKey contextKey = "conversation_id"
	toolNameKey       contextKey = "tool_name"
)

/* WithLogContext adds logging fields to context */
func WithLogContext(ctx context.Context, requestID, tenantID, userID, conversationID, toolName string) context.Context {
	if requestID != "" {
		ctx = context.WithValue(ctx, requestIDKey, requestID)
	}
	if tenantID != "" {
		ctx = context.WithValue(ctx, tenantIDKey, tenantID)
	}
	if userID != "" {
		ctx = context.WithValue(ctx, userIDKey, userID)
	}
	if conversationID != "" {
		ctx = context.WithValue(ctx, conversationIDKey, conversationID)
	}
	if toolName != "" {
		ctx = context.WithValue(ctx, toolNameKey, toolName)
	}
	return ctx
}

/* WithToolNameLogContext adds tool name to log context */
func WithToolNameLogContext(ctx context.Context, toolName string) context.Context {
	return context.WithValue(ctx, toolNameKey, toolName)
}

/* GetRequestIDFromContext gets request ID from context */
func GetRequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

/* GetTenantIDFromContext gets tenant ID from context */
func GetTenantIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(tenantIDKey).(string); ok {
		return id
	}
	if id, ok := ctx.Value(tenantIDKey).(uuid.UUID); ok {
		return id.String()
	}
	return ""
}

/* GetUserIDFromContext gets user ID from context */
func GetUserIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(userIDKey).(string); ok {
		return id
	}
	if id, ok := ctx.Value(userIDKey).(uuid.UUID); ok {
		return id.String()
	}
	return ""
}

/* GetConversationIDFromContext gets conversation ID from context */
func GetConversationIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(conversationIDKey).(string); ok {
		return id
	}
	return ""
}

/* GetToolNameFromContext gets tool name from context */
func GetToolNameFromContext(ctx context.Context) string {
	if name, ok := ctx.Value(toolNameKey).(string); ok {
		return name
	}
	return ""
}

/* LoggerFromContext creates a zerolog logger with fields from context */
func LoggerFromContext(ctx context.Context) zerolog.Logger {
	logger := log.Logger

	/* Add context fields */
	requestID := GetRequestIDFromContext(ctx)
	tenantID := GetTenantIDFromContext(ctx)
	userID := GetUserIDFromContext(ctx)
	conversationID := GetConversationIDFromContext(ctx)
	toolName := GetToolNameFromContext(ctx)

	if requestID != "" {
		logger = logger.With().Str("request_id", requestID).Logger()
	}
	if tenantID != "" {
		logger = logger.With().Str("tenant_id", tenantID).Logger()
	}
	if userID != "" {
		logger = logger.With().Str("user_id", userID).Logger()
	}
	if conversationID != "" {
		logger = logger.With().Str("conversation_id", conversationID).Logger()
	}
	if toolName != "" {
		logger = logger.With().Str("tool_name", toolName).Logger()
	}

	return logger
}

/* LogWithContext logs a message with context fields */
func LogWithContext(ctx context.Context, level zerolog.Level, message string, fields map[string]interface{}) {
	logger := LoggerFromContext(ctx)
	event := logger.WithLevel(level)

	for key, value := range fields {
		event = event.Interface(key, value)
	}

	event.Msg(message)
}

/* DebugWithContext logs a debug message with context */
func DebugWithContext(ctx context.Context, message string, fields map[string]interface{}) {
	LogWithContext(ctx, zerolog.DebugLevel, message, fields)
}

/* InfoWithContext logs an info message with context */
func InfoWithContext(ctx context.Context, message string, fields map[string]interface{}) {
	LogWithContext(ctx, zerolog.InfoLevel, message, fields)
}

/* WarnWithContext logs a warning message with context */
func WarnWithContext(ctx context.Context, message string, fields map[string]interface{}) {
	LogWithContext(ctx, zerolog.WarnLevel, message, fields)
}

/* ErrorWithContext logs an error message with context */
func ErrorWithContext(ctx context.Context, message string, err error, fields map[string]interface{}) {
	if fields == nil {
		fields = make(map[string]interface{})
	}
	if err != nil {
		fields["error"] = err.Error()
	}
	LogWithContext(ctx, zerolog.ErrorLevel, message, fields)
}
