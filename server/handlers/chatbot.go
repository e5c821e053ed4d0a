// Package handlers provides HTTP handlers for the chatrelay server.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/teilomillet/chatrelay/errors"
	"github.com/teilomillet/chatrelay/server/middleware"
	"github.com/teilomillet/chatrelay/server/processing"
	"go.uber.org/zap"
)

// FailureMessage is the reply sent whenever a request cannot be answered.
const FailureMessage = "Sorry, I couldn't process your request."

// ChatbotHandler serves POST /chatbot.
//
// The client only ever sees two shapes: 200 with the sanitized reply, or
// 500 with FailureMessage. Causes are logged, never returned.
type ChatbotHandler struct {
	processor *processing.Processor
	logger    *zap.Logger
}

// NewChatbotHandler creates a new chatbot handler with the given processor and logger.
func NewChatbotHandler(processor *processing.Processor, logger *zap.Logger) *ChatbotHandler {
	return &ChatbotHandler{
		processor: processor,
		logger:    logger,
	}
}

// ServeHTTP implements http.Handler.
func (h *ChatbotHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	logger := h.logger.With(zap.String("path", r.URL.Path))

	// The body is not validated: missing or empty text goes upstream and
	// any failure there is reported the same way as an unreadable body.
	var req processing.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.LogError(logger, errors.NewUpstreamError(requestID, "Unreadable chatbot request", err), requestID)
		h.writeReply(w, logger, http.StatusInternalServerError, FailureMessage)
		return
	}

	resp, err := h.processor.ProcessRequest(r.Context(), &req)
	if err != nil {
		errors.LogError(logger, errors.NewUpstreamError(requestID, "Error with upstream API", err), requestID)
		h.writeReply(w, logger, http.StatusInternalServerError, FailureMessage)
		return
	}

	h.writeReply(w, logger, http.StatusOK, resp.BotResponse)
}

// writeReply writes {"botResponse": text}. HTML escaping in the encoder is
// off because the text is already entity-escaped for display.
func (h *ChatbotHandler) writeReply(w http.ResponseWriter, logger *zap.Logger, status int, text string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(processing.Response{BotResponse: text}); err != nil {
		logger.Error("Failed to encode response", zap.Error(err))
	}
}
