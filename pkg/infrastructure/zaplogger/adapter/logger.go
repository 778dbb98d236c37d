package adapter

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mateusmacedo/go-railbook/pkg/application"
)

type Options struct {
	AppName     string
	Level       string
	OutputPaths []string
}

type zapAppLoggerAdapter struct {
	zapLogger *zap.Logger
}

func NewZapAppLogger(opts Options) (application.AppLogger, error) {
	level, err := zapcore.ParseLevel(opts.Level)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", opts.Level, err)
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(level)
	config.InitialFields = map[string]interface{}{"app": opts.AppName}
	config.OutputPaths = opts.OutputPaths
	config.ErrorOutputPaths = []string{"stderr"}
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if len(config.OutputPaths) == 0 {
		config.OutputPaths = []string{"stderr"}
	}

	zapLogger, err := config.Build()
	if err != nil {
		return nil, err
	}

	return NewFromZap(zapLogger.WithOptions(zap.AddCallerSkip(1))), nil
}

// NewFromZap wraps an already built logger, e.g. zap.NewNop() or zaptest.
func NewFromZap(zapLogger *zap.Logger) application.AppLogger {
	return &zapAppLoggerAdapter{zapLogger: zapLogger}
}

func (l *zapAppLoggerAdapter) Info(ctx context.Context, msg string, fields map[string]interface{}) {
	l.zapLogger.Info(msg, convertFields(ctx, fields)...)
}

func (l *zapAppLoggerAdapter) Debug(ctx context.Context, msg string, fields map[string]interface{}) {
	l.zapLogger.Debug(msg, convertFields(ctx, fields)...)
}

func (l *zapAppLoggerAdapter) Error(ctx context.Context, msg string, fields map[string]interface{}) {
	l.zapLogger.Error(msg, convertFields(ctx, fields)...)
}

// Trace has no zap level of its own; it is written at debug.
func (l *zapAppLoggerAdapter) Trace(ctx context.Context, msg string, fields map[string]interface{}) {
	l.zapLogger.Debug(msg, convertFields(ctx, fields)...)
}

func convertFields(ctx context.Context, fields map[string]interface{}) []zap.Field {
	zapFields := make([]zap.Field, 0, len(fields)+1)

	if requestID, ok := application.RequestIDFromContext(ctx); ok {
		zapFields = append(zapFields, zap.String("requestID", requestID))
	}

	for k, v := range fields {
		if err, ok := v.(error); ok {
			zapFields = append(zapFields, zap.NamedError(k, err))
			continue
		}
		zapFields = append(zapFields, zap.Any(k, v))
	}
	return zapFields
}
