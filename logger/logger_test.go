package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// capture installs a JSON handler over a buffer as the default logger and
// restores the previous one when the test ends.
func capture(t *testing.T, level slog.Level) *bytes.Buffer {
	t.Helper()

	orig := DefaultLogger
	t.Cleanup(func() { DefaultLogger = orig })

	var buf bytes.Buffer
	inner := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: level})
	DefaultLogger = slog.New(NewContextHandler(inner))
	return &buf
}

// entries decodes every JSON log line written to buf.
func entries(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()

	var out []map[string]any
	dec := json.NewDecoder(buf)
	for dec.More() {
		var m map[string]any
		require.NoError(t, dec.Decode(&m))
		out = append(out, m)
	}
	return out
}

func TestContextHandler_AddsContextFields(t *testing.T) {
	buf := capture(t, slog.LevelInfo)

	ctx := WithSessionID(context.Background(), "sess-1")
	ctx = WithRemoteAddr(ctx, "10.0.0.1:1234")
	InfoContext(ctx, "hello")

	logs := entries(t, buf)
	require.Len(t, logs, 1)
	assert.Equal(t, "sess-1", logs[0]["session_id"])
	assert.Equal(t, "10.0.0.1:1234", logs[0]["remote_addr"])
}

func TestContextHandler_SkipsUnsetFields(t *testing.T) {
	buf := capture(t, slog.LevelInfo)

	InfoContext(context.Background(), "hello")

	logs := entries(t, buf)
	require.Len(t, logs, 1)
	assert.NotContains(t, logs[0], "session_id")
	assert.NotContains(t, logs[0], "remote_addr")
}

func TestContextHandler_CommonFields(t *testing.T) {
	orig := DefaultLogger
	t.Cleanup(func() { DefaultLogger = orig })

	var buf bytes.Buffer
	inner := slog.NewJSONHandler(&buf, nil)
	DefaultLogger = slog.New(NewContextHandler(inner, slog.String("environment", "test")))

	Info("hello")

	logs := entries(t, &buf)
	require.Len(t, logs, 1)
	assert.Equal(t, "test", logs[0]["environment"])
}

func TestSessionIDFrom(t *testing.T) {
	assert.Equal(t, "", SessionIDFrom(context.Background()))

	ctx := WithSessionID(context.Background(), "sess-9")
	assert.Equal(t, "sess-9", SessionIDFrom(ctx))
}

func TestSessionLifecycleHelpers(t *testing.T) {
	buf := capture(t, slog.LevelInfo)

	SessionConnected("sess-1", 3, "remote", "10.0.0.1:9")
	SessionClosed("sess-1", 2)
	BackgroundSelected("sess-1", "office", true)
	MessageError("sess-1", errors.New("bad frame"))

	logs := entries(t, buf)
	require.Len(t, logs, 4)

	assert.Equal(t, "session connected", logs[0]["msg"])
	assert.Equal(t, "sess-1", logs[0]["session_id"])
	assert.Equal(t, float64(3), logs[0]["connections"])
	assert.Equal(t, "10.0.0.1:9", logs[0]["remote"])

	assert.Equal(t, "session closed", logs[1]["msg"])
	assert.Equal(t, float64(2), logs[1]["connections"])

	assert.Equal(t, "background selected", logs[2]["msg"])
	assert.Equal(t, "office", logs[2]["background"])
	assert.Equal(t, true, logs[2]["success"])

	assert.Equal(t, "WARN", logs[3]["level"])
}

func TestFrameProcessed_SkippedBelowDebug(t *testing.T) {
	buf := capture(t, slog.LevelInfo)

	FrameProcessed("sess-1", "blur", 12*time.Millisecond)
	assert.Empty(t, entries(t, buf), "frame logging must be debug-gated")
}

func TestFrameProcessed_LoggedAtDebug(t *testing.T) {
	buf := capture(t, slog.LevelDebug)

	FrameProcessed("sess-1", "blur", 12*time.Millisecond, "width", 640)

	logs := entries(t, buf)
	require.Len(t, logs, 1)
	assert.Equal(t, "blur", logs[0]["background"])
	assert.Equal(t, float64(12), logs[0]["duration_ms"])
	assert.Equal(t, float64(640), logs[0]["width"])
}

func TestUploadResult(t *testing.T) {
	buf := capture(t, slog.LevelInfo)

	UploadResult("custom_ab12cd34", 2048, nil)
	UploadResult("", 16, errors.New("not an image"))

	logs := entries(t, buf)
	require.Len(t, logs, 2)
	assert.Equal(t, "background uploaded", logs[0]["msg"])
	assert.Equal(t, "custom_ab12cd34", logs[0]["background_id"])
	assert.Equal(t, "background upload rejected", logs[1]["msg"])
	assert.NotContains(t, logs[1], "background_id")
}
