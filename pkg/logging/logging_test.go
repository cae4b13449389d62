package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestFor_AddsRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "info")

	ctx := WithRequestID(context.Background(), "req-123")
	For(ctx, logger).Info("cadastro created", "protocolo", "CANAA-20240102030405-123")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "req-123", line["request_id"])
	assert.Equal(t, "cadastro created", line["msg"])
}

func TestFor_WithoutRequestID(t *testing.T) {
	logger := Discard()
	assert.Same(t, logger, For(context.Background(), logger))
	assert.Equal(t, "", RequestID(context.Background()))
}

func TestNew_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "warn")
	logger.Info("hidden")
	assert.Zero(t, buf.Len())
	logger.Warn("shown")
	assert.NotZero(t, buf.Len())
}
