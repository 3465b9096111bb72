/*-------------------------------------------------------------------------
 *
 * errors.go
 *    API error taxonomy and wire format
 *
 * Copyright (c) 2024-2026, neurondb, Inc. <support@neurondb.ai>
 *
 * IDENTIFICATION
 *    NeuronHR/internal/api/errors.go
 *
 *-------------------------------------------------------------------------
 */

package api

import (
	"errors"
	"net/http"
)

/* APIError couples an HTTP status with a client-facing message */
type APIError struct {
	Status  int    `json:"-"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

/* NewError creates an APIError */
func NewError(status int, message string, err error) *APIError {
	return &APIError{Status: status, Message: message, Err: err}
}

var (
	ErrUnauthorized = NewError(http.StatusUnauthorized, "unauthorized", nil)
	ErrNotFound     = NewError(http.StatusNotFound, "not found", nil)
	ErrBadRequest   = NewError(http.StatusBadRequest, "bad request", nil)
)

/* ErrorResponse is the JSON error envelope */
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

/* WrapError attaches the request id, defaulting unknown errors to 500 */
func WrapError(err error, requestID string) (int, ErrorResponse) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status, ErrorResponse{Error: apiErr.Message, RequestID: requestID}
	}
	return http.StatusInternalServerError, ErrorResponse{Error: "internal server error", RequestID: requestID}
}
