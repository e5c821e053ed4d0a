package errors

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name           string
		err            *RelayError
		expectedCode   int
		expectedType   ErrorType
		expectedFields []string
	}{
		{
			name: "upstream error",
			err: &RelayError{
				Type:      UpstreamError,
				Message:   "upstream failed",
				Code:      http.StatusInternalServerError,
				RequestID: "test-id",
			},
			expectedCode:   http.StatusInternalServerError,
			expectedType:   UpstreamError,
			expectedFields: []string{"type", "message", "request_id"},
		},
		{
			name:           "error with details",
			err:            NewNotFoundError("test-id", "/missing.js"),
			expectedCode:   http.StatusNotFound,
			expectedType:   NotFoundError,
			expectedFields: []string{"type", "message", "request_id", "details"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()

			WriteError(rr, tt.err)

			if rr.Code != tt.expectedCode {
				t.Errorf("WriteError() status = %v, want %v", rr.Code, tt.expectedCode)
			}

			contentType := rr.Header().Get("Content-Type")
			if contentType != "application/json" {
				t.Errorf("WriteError() content-type = %v, want application/json", contentType)
			}

			var response map[string]interface{}
			if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
				t.Fatalf("Failed to decode response body: %v", err)
			}

			if errorType, ok := response["type"].(string); !ok || ErrorType(errorType) != tt.expectedType {
				t.Errorf("WriteError() error type = %v, want %v", errorType, tt.expectedType)
			}

			for _, field := range tt.expectedFields {
				if _, exists := response[field]; !exists {
					t.Errorf("WriteError() missing expected field: %s", field)
				}
			}
		})
	}
}

func TestWriteErrorDecodesAsErrorResponse(t *testing.T) {
	rr := httptest.NewRecorder()

	WriteError(rr, NewMethodNotAllowedError("abc", http.MethodPut))

	var response ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response body: %v", err)
	}
	if response.RequestID != "abc" {
		t.Errorf("request_id = %q, want %q", response.RequestID, "abc")
	}
	if response.Type != MethodNotAllowedError {
		t.Errorf("type = %q, want %q", response.Type, MethodNotAllowedError)
	}
	if response.Details["method"] != http.MethodPut {
		t.Errorf("details.method = %v, want %v", response.Details["method"], http.MethodPut)
	}
}
