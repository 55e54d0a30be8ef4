package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferLogger(level string) (*Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return New(Config{Level: level, Format: "json", TimeFormat: time.RFC3339, Output: buf}), buf
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()

	var entries []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		entry := map[string]interface{}{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		entries = append(entries, entry)
	}
	return entries
}

func TestParseLevel(t *testing.T) {
	tests := map[string]string{
		"debug":   "DEBUG",
		"info":    "INFO",
		"warn":    "WARN",
		"error":   "ERROR",
		"unknown": "INFO",
	}

	for in, want := range tests {
		assert.Equal(t, want, parseLevel(in).String(), in)
	}
}

func TestWithContext(t *testing.T) {
	log, buf := newBufferLogger("info")

	ctx := WithRequestIDContext(context.Background(), "req-1")
	ctx = WithAPIVersionContext(ctx, "2")
	ctx = WithTraceIDContext(ctx, "trace-1")

	log.WithContext(ctx).Info("hello")

	entries := decodeLines(t, buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "req-1", entries[0]["request_id"])
	assert.Equal(t, "2", entries[0]["api_version"])
	assert.Equal(t, "trace-1", entries[0]["trace_id"])
}

func TestWithContext_EmptyReturnsSameLogger(t *testing.T) {
	log, _ := newBufferLogger("info")

	assert.Same(t, log, log.WithContext(context.Background()))
}

func TestContextGetters(t *testing.T) {
	ctx := WithAPIVersionContext(WithRequestIDContext(context.Background(), "abc"), "1.5")

	assert.Equal(t, "abc", GetRequestIDFromContext(ctx))
	assert.Equal(t, "1.5", GetAPIVersionFromContext(ctx))
	assert.Empty(t, GetAPIVersionFromContext(context.Background()))
}

func TestLogVersionResolution_Levels(t *testing.T) {
	log, buf := newBufferLogger("info")

	log.LogVersionResolution("GET", "/weatherforecast", "1", "matched", false)
	log.LogVersionResolution("GET", "/weatherforecast", "3", "unsupported", false)

	entries := decodeLines(t, buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "unsupported", entries[0]["outcome"])
	assert.Equal(t, "3", entries[0]["version"])
}

func TestLogRequest(t *testing.T) {
	log, buf := newBufferLogger("debug")

	log.WithComponent("http").LogRequest("GET", "/api/v1/status", 200, time.Millisecond, "127.0.0.1")

	entries := decodeLines(t, buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "http request", entries[0]["msg"])
	assert.Equal(t, "http", entries[0]["component"])
	assert.Equal(t, float64(200), entries[0]["status"])
}
