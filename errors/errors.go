// Package errors provides the error handling system for the chatrelay server.
// It includes structured error types, JSON response formatting, request ID
// tracking, and integrated logging with Uber's zap logger.
//
// The chatbot endpoint has its own fixed failure payload and only logs
// through this package. The rest of the surface (panics, missing static
// files, wrong methods) answers with a RelayError as JSON:
//
//	errors.WriteError(w, errors.NewNotFoundError(requestID, r.URL.Path))
package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// ErrorType represents different categories of errors that can occur
// in the relay.
type ErrorType string

const (
	// InternalError represents unexpected internal server errors
	InternalError ErrorType = "internal_error"

	// UpstreamError represents any failure of the generative-language API:
	// network errors, auth failures, quota, malformed responses, open circuit.
	UpstreamError ErrorType = "upstream_error"

	// NotFoundError represents a static path with no file behind it
	NotFoundError ErrorType = "not_found"

	// MethodNotAllowedError represents a known route hit with the wrong method
	MethodNotAllowedError ErrorType = "method_not_allowed"
)

// RelayError is our custom error type that implements the error interface
// and provides additional context about the error. It is serialized to JSON
// for API responses while keeping the underlying error for logging.
type RelayError struct {
	// Type categorizes the error for client handling
	Type ErrorType `json:"type"`

	// Message is a human-readable error description
	Message string `json:"message"`

	// Code is the HTTP status code (not exposed in JSON)
	Code int `json:"-"`

	// RequestID links the error to a specific request
	RequestID string `json:"request_id"`

	// Details contains additional error context
	Details map[string]interface{} `json:"details,omitempty"`

	// err is the underlying error (not exposed in JSON)
	err error
}

// Error implements the error interface. It returns a string that
// combines the error type, message, and underlying error (if any).
func (e *RelayError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error.
func (e *RelayError) Unwrap() error {
	return e.err
}

// WriteError formats and writes a RelayError to an http.ResponseWriter.
func WriteError(w http.ResponseWriter, err *RelayError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.Code)
	json.NewEncoder(w).Encode(err)
}
