package errors

import (
	"go.uber.org/zap"
)

// LogError logs an error with its context
func LogError(logger *zap.Logger, err error, requestID string) {
	var relayErr *RelayError
	if As(err, &relayErr) {
		fields := []zap.Field{
			zap.String("error_type", string(relayErr.Type)),
			zap.String("message", relayErr.Message),
			zap.Int("code", relayErr.Code),
			zap.String("request_id", requestID),
		}
		if relayErr.Details != nil {
			fields = append(fields, zap.Any("details", relayErr.Details))
		}
		if cause := relayErr.Unwrap(); cause != nil {
			fields = append(fields, zap.Error(cause))
		}
		logger.Error("request error", fields...)
		return
	}

	logger.Error("unexpected error",
		zap.Error(err),
		zap.String("request_id", requestID),
	)
}
