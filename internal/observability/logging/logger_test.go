package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"clinic-reviews/internal/handler/http/requestid"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureLogger returns a JSON logger writing into buf at the given level.
func captureLogger(buf *bytes.Buffer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: level}))
}

// decodeLines splits buf into one decoded JSON object per log entry.
func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var entries []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry), "line %q", line)
		entries = append(entries, entry)
	}
	return entries
}

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name     string
		logLevel string
	}{
		{"default info", ""},
		{"debug", "debug"},
		{"unknown falls back to info", "verbose"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("LOG_LEVEL", tt.logLevel)
			assert.NotNil(t, NewLogger())
			assert.NotNil(t, NewTextLogger())
		})
	}
}

func TestLoggerEmitsJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := captureLogger(&buf, slog.LevelInfo)

	logger.Info("review fetched", "blog_id", "naver-123", "match_score", 0.87)

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "INFO", entries[0]["level"])
	assert.Equal(t, "review fetched", entries[0]["msg"])
	assert.Equal(t, "naver-123", entries[0]["blog_id"])
	assert.InDelta(t, 0.87, entries[0]["match_score"], 0.001)
	assert.Contains(t, entries[0], "time")
}

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := captureLogger(&buf, slog.LevelInfo)

	logger.Debug("dropped")
	logger.Info("kept info")
	logger.Warn("kept warn")
	logger.Error("kept error")

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 3)
	assert.Equal(t, "kept info", entries[0]["msg"])
	assert.Equal(t, "WARN", entries[1]["level"])
	assert.Equal(t, "ERROR", entries[2]["level"])
}

func TestLoggerDebugEnabled(t *testing.T) {
	var buf bytes.Buffer
	logger := captureLogger(&buf, slog.LevelDebug)

	logger.Debug("crawl detail", "url", "https://blog.naver.com/post/1")

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "DEBUG", entries[0]["level"])
}

func TestWithRequestID(t *testing.T) {
	t.Run("id present", func(t *testing.T) {
		var buf bytes.Buffer
		logger := captureLogger(&buf, slog.LevelInfo)
		ctx := requestid.WithRequestID(context.Background(), "req-42")

		WithRequestID(ctx, logger).Info("handling")

		entries := decodeLines(t, &buf)
		require.Len(t, entries, 1)
		assert.Equal(t, "req-42", entries[0]["request_id"])
	})
	t.Run("id absent returns same logger", func(t *testing.T) {
		var buf bytes.Buffer
		logger := captureLogger(&buf, slog.LevelInfo)

		got := WithRequestID(context.Background(), logger)
		assert.Same(t, logger, got)

		got.Info("handling")
		entries := decodeLines(t, &buf)
		require.Len(t, entries, 1)
		assert.NotContains(t, entries[0], "request_id")
	})
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	logger := captureLogger(&buf, slog.LevelInfo)

	enriched := WithFields(logger, map[string]interface{}{
		"component": "matcher",
		"clinic_id": 7,
	})
	enriched.Info("matched")

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "matcher", entries[0]["component"])
	assert.EqualValues(t, 7, entries[0]["clinic_id"])

	// Empty map hands back an equivalent logger, not a nil one.
	assert.NotNil(t, WithFields(logger, map[string]interface{}{}))
}

func TestContextRoundTripLogger(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil))

	ctx := WithLogger(context.Background(), logger)
	assert.Same(t, logger, FromContext(ctx))

	// Without a stored logger the default is returned.
	assert.Same(t, slog.Default(), FromContext(context.Background()))

	// A foreign value under a plain string key is invisible to FromContext.
	ctx = context.WithValue(context.Background(), contextKey("other"), "not a logger")
	assert.Same(t, slog.Default(), FromContext(ctx))
}

func TestContextPropagationThroughCalls(t *testing.T) {
	var buf bytes.Buffer
	base := captureLogger(&buf, slog.LevelInfo)
	ctx := WithLogger(requestid.WithRequestID(context.Background(), "req-99"), base)

	process := func(ctx context.Context) {
		logger := WithRequestID(ctx, FromContext(ctx))
		logger.Info("ingest step")
	}
	process(ctx)

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "req-99", entries[0]["request_id"])
}

func BenchmarkLoggerInfo(b *testing.B) {
	logger := slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logger.Info("review stored", "review_id", i)
	}
}

func BenchmarkWithFields(b *testing.B) {
	logger := slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil))
	fields := map[string]interface{}{"component": "crawler", "attempt": 1}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		WithFields(logger, fields).Info("fetch")
	}
}
