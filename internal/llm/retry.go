/*-------------------------------------------------------------------------
 *
 * retry.go
 *    Retry logic for model calls
 *
 * Provides bounded exponential backoff for transient transport
 * failures at the model-client boundary. SQL execution is never
 * routed through this: a failed mutation must not be silently
 * re-attempted.
 *
 * Copyright (c) 2024-2025, neurondb, Inc. <admin@neurondb.com>
 *
 * IDENTIFICATION
 *    NeuronHR/internal/llm/retry.go
 *
 *-------------------------------------------------------------------------
 */

package llm

import (
	"context"
	"fmt"
	"strings"
	"time"
)

/* RetryConfig defines retry configuration */
type RetryConfig struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
	IsRetryable  func(error) bool
}

/* DefaultRetryConfig returns default retry configuration */
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:  3,
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     5 * time.Second,
		Multiplier:   2.0,
		IsRetryable:  IsRetryableError,
	}
}

/* IsRetryableError checks if an error is retryable */
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}

	errStr := err.Error()

	/* Check for transient errors */
	retryablePatterns := []string{
		"timeout",
		"connection",
		"temporary",
		"network",
		"503",
		"502",
		"504",
		"429", /* Rate limit - might be retryable */
	}

	for _, pattern := range retryablePatterns {
		if strings.Contains(strings.ToLower(errStr), pattern) {
			return true
		}
	}

	return false
}

/* RetryWithResult executes a function with retry logic and returns result */
func RetryWithResult[T any](ctx context.Context, config RetryConfig, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error
	delay := config.InitialDelay

	for attempt := 0; attempt < config.MaxAttempts; attempt++ {
		/* Check context cancellation */
		if ctx.Err() != nil {
			return zero, ctx.Err()
		}

		/* Execute function */
		result, err := fn()
		if err == nil {
			return result, nil
		}

		lastErr = err

		/* Check if error is retryable */
		if !config.IsRetryable(err) {
			return zero, err
		}

		/* Don't sleep after last attempt */
		if attempt < config.MaxAttempts-1 {
			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(delay):
				/* Exponential backoff */
				delay = time.Duration(float64(delay) * config.Multiplier)
				if delay > config.MaxDelay {
					delay = config.MaxDelay
				}
			}
		}
	}

	return zero, fmt.Errorf("operation failed after %d attempts: %w", config.MaxAttempts, lastErr)
}
