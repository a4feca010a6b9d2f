package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetInternalOutput(&buf)
	prev := Level()
	t.Cleanup(func() {
		SetInternalOutput(nil)
		_ = SetLevel(prev)
	})
	return &buf
}

func TestLoggerOutputs(t *testing.T) {
	buf := captureOutput(t)

	Info("test internal output %d", 1)
	Warn("test warn output")
	Error("test error output")

	out := buf.String()
	assert.Contains(t, out, "test internal output 1")
	assert.Contains(t, out, "test warn output")
	assert.Contains(t, out, `"level":"error"`)
}

func TestSetLevel(t *testing.T) {
	buf := captureOutput(t)

	require.NoError(t, SetLevel("warn"))
	assert.Equal(t, "warn", Level())
	Info("hidden info")
	Debug("hidden debug")
	Warn("visible warn")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "visible warn")

	require.NoError(t, SetLevel("debug"))
	Debug("visible debug")
	assert.Contains(t, buf.String(), "visible debug")

	assert.Error(t, SetLevel("chatty"))
}

func TestErrorf(t *testing.T) {
	buf := captureOutput(t)

	err := Errorf("test error with format: %s", "formatted")
	require.Error(t, err)
	assert.Equal(t, "test error with format: formatted", err.Error())
	assert.Contains(t, buf.String(), "test error with format: formatted")
}

func TestLoggerContext(t *testing.T) {
	buf := captureOutput(t)
	ctx := context.Background()

	ctxWithID := WithRequestID(ctx, "test-request-id")
	requestID, ok := RequestIDFromContext(ctxWithID)
	require.True(t, ok)
	assert.Equal(t, "test-request-id", requestID)

	_, ok = RequestIDFromContext(ctx)
	assert.False(t, ok)

	InfoCtx(ctxWithID, "test info with context", "key1", "value1")
	assert.Contains(t, buf.String(), `"request_id":"test-request-id"`)
	assert.Contains(t, buf.String(), `"key1":"value1"`)

	buf.Reset()
	WarnCtx(ctx, "test without request ID", "field", "value")
	assert.NotContains(t, buf.String(), "request_id")
}

func TestStdLogger(t *testing.T) {
	buf := captureOutput(t)

	StdLogger().Print("from the standard library")
	assert.Contains(t, buf.String(), "from the standard library")
}
