package application

import (
	"context"
	"encoding/json"
)

// AppLogger is the structured logger every layer writes to. Fields are
// free-form; the adapter decides how to encode them.
type AppLogger interface {
	Info(ctx context.Context, msg string, fields map[string]interface{})
	Debug(ctx context.Context, msg string, fields map[string]interface{})
	Error(ctx context.Context, msg string, fields map[string]interface{})
	Trace(ctx context.Context, msg string, fields map[string]interface{})
}

func LogError(ctx context.Context, logger AppLogger, message string, err error, fields map[string]interface{}) {
	logData := copyFields(fields)
	if err != nil {
		logData["error"] = err.Error()
	}
	logger.Error(ctx, message, logData)
}

func LogInfo(ctx context.Context, logger AppLogger, message string, fields map[string]interface{}) {
	logger.Info(ctx, message, copyFields(fields))
}

func LogDebug(ctx context.Context, logger AppLogger, message string, fields map[string]interface{}) {
	logger.Debug(ctx, message, copyFields(fields))
}

func copyFields(fields map[string]interface{}) map[string]interface{} {
	logData := make(map[string]interface{}, len(fields)+1)
	for k, v := range fields {
		logData[k] = v
	}
	return logData
}

func MarshalPayload[T any](payload T) ([]byte, error) {
	return json.Marshal(payload)
}

func UnmarshalPayload[T any](data []byte) (T, error) {
	var payload T
	err := json.Unmarshal(data, &payload)
	return payload, err
}

type requestIDKey struct{}

// WithRequestID tags ctx so every log line written with it carries the id.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

func RequestIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	requestID, ok := ctx.Value(requestIDKey{}).(string)
	return requestID, ok && requestID != ""
}

// NopLogger discards everything. Useful in tests and tools.
type NopLogger struct{}

func (NopLogger) Info(context.Context, string, map[string]interface{})  {}
func (NopLogger) Debug(context.Context, string, map[string]interface{}) {}
func (NopLogger) Error(context.Context, string, map[string]interface{}) {}
func (NopLogger) Trace(context.Context, string, map[string]interface{}) {}
