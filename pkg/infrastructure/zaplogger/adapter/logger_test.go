package adapter

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mateusmacedo/go-railbook/pkg/application"
)

func TestZapAppLogger_WritesFieldsAndRequestID(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := NewFromZap(zap.New(core))

	ctx := application.WithRequestID(context.Background(), "req-1")
	logger.Info(ctx, "seat booked", map[string]interface{}{"train_id": "101", "error": errors.New("boom")})
	logger.Trace(ctx, "tracing", nil)

	entries := logs.All()
	require.Len(t, entries, 2)

	fields := entries[0].ContextMap()
	assert.Equal(t, "seat booked", entries[0].Message)
	assert.Equal(t, "req-1", fields["requestID"])
	assert.Equal(t, "101", fields["train_id"])
	assert.Equal(t, "boom", fields["error"])
	assert.Equal(t, zapcore.DebugLevel, entries[1].Level)
}

func TestNewZapAppLogger_RejectsUnknownLevel(t *testing.T) {
	_, err := NewZapAppLogger(Options{AppName: "railbook", Level: "loud"})
	assert.Error(t, err)
}

func TestNewZapAppLogger_DefaultsOutput(t *testing.T) {
	logger, err := NewZapAppLogger(Options{AppName: "railbook", Level: "info"})
	require.NoError(t, err)
	assert.NotNil(t, logger)
}
