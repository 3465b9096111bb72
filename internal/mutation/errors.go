/*-------------------------------------------------------------------------
 *
 * errors.go
 *    Error taxonomy for the proposal pipeline
 *
 * ValidationError carries a user-facing message in Portuguese; it
 * means no proposal was persisted and the user can recover by
 * re-issuing a more specific command. Anything else is an internal
 * failure surfaced generically.
 *
 * Copyright (c) 2024-2026, neurondb, Inc. <support@neurondb.ai>
 *
 * IDENTIFICATION
 *    NeuronHR/internal/mutation/errors.go
 *
 *-------------------------------------------------------------------------
 */

package mutation

import "errors"

/* ValidationError is a recoverable, user-facing proposal failure */
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

/* NewValidationError creates a user-facing validation failure */
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

/* AsValidationError extracts a ValidationError from an error chain */
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
