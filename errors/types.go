package errors

import (
	"net/http"
)

// NewUpstreamError wraps a failure of the generative-language API. Every
// upstream failure maps to the same 500 response on the chatbot endpoint, so
// the constructor does not try to distinguish auth, quota or network causes.
//
// Example:
//
//	err := NewUpstreamError("req_123", "Gemini call failed", apiErr)
func NewUpstreamError(requestID, message string, err error) *RelayError {
	return &RelayError{
		Type:      UpstreamError,
		Message:   message,
		Code:      http.StatusInternalServerError,
		RequestID: requestID,
		err:       err,
	}
}

// NewNotFoundError creates a not found error for the given path.
func NewNotFoundError(requestID, path string) *RelayError {
	return &RelayError{
		Type:      NotFoundError,
		Message:   "Resource not found",
		Code:      http.StatusNotFound,
		RequestID: requestID,
		Details: map[string]interface{}{
			"path": path,
		},
	}
}

// NewMethodNotAllowedError creates an error for a known route requested
// with an unsupported method.
func NewMethodNotAllowedError(requestID, method string) *RelayError {
	return &RelayError{
		Type:      MethodNotAllowedError,
		Message:   "Method not allowed",
		Code:      http.StatusMethodNotAllowed,
		RequestID: requestID,
		Details: map[string]interface{}{
			"method": method,
		},
	}
}

// NewInternalError creates an internal server error for anything not
// covered by the other types, panics included.
//
// Example:
//
//	err := NewInternalError("req_123", encodeErr)
func NewInternalError(requestID string, err error) *RelayError {
	return &RelayError{
		Type:      InternalError,
		Message:   "An internal error occurred",
		Code:      http.StatusInternalServerError,
		RequestID: requestID,
		err:       err,
	}
}
