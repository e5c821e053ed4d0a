// Package errors provides error response utilities.
package errors

import (
	"errors"
)

// ErrorResponse is the decoded shape of a RelayError as clients see it.
// Tests and clients decode into it; the server writes RelayError directly.
type ErrorResponse struct {
	Type      ErrorType              `json:"type"`
	Message   string                 `json:"message"`
	RequestID string                 `json:"request_id"`
	Details   map[string]interface{} `json:"details,omitempty"`
}

// As is errors.As, re-exported so callers importing this package as
// errors keep access to it.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
