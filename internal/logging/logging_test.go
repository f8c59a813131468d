package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func newTestLogger(format string, buf *bytes.Buffer) *slog.Logger {
	lvl := new(slog.LevelVar)
	lvl.Set(slog.LevelDebug)
	if format == "json" {
		return slog.New(newJSONHandler(buf, lvl))
	}
	return slog.New(newConsoleHandler(buf, lvl))
}

func TestConsoleHandlerLine(t *testing.T) {
	var buf bytes.Buffer
	logger := NewComponentLogger(newTestLogger("console", &buf), "server")
	logger.Info("request served", slog.String("rota", "/falar"), slog.Int("status", 200))

	line := buf.String()
	if !strings.Contains(line, "INFO server: request served") {
		t.Fatalf("unexpected line: %q", line)
	}
	if !strings.Contains(line, "rota=/falar") || !strings.Contains(line, "status=200") {
		t.Fatalf("missing attributes: %q", line)
	}
}

func TestConsoleHandlerQuotesValues(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger("console", &buf)
	logger.Warn("upstream failed", Error(errors.New("status 500: internal")))
	if !strings.Contains(buf.String(), `error="status 500: internal"`) {
		t.Fatalf("expected quoted error value, got %q", buf.String())
	}
}

func TestJSONHandlerLowercasesLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger("json", &buf)
	logger.Info("ok")
	if !strings.Contains(buf.String(), `"level":"info"`) {
		t.Fatalf("unexpected json line: %q", buf.String())
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestParseLevelDefaults(t *testing.T) {
	if parseLevel("nonsense") != slog.LevelInfo {
		t.Fatal("unknown level should default to info")
	}
	if parseLevel("DEBUG") != slog.LevelDebug {
		t.Fatal("level parsing should be case-insensitive")
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := NewNop()
	// Must not panic and must report disabled at every level.
	logger.Error("ignored")
	if logger.Enabled(nil, slog.LevelError) { //nolint:staticcheck
		t.Fatal("nop logger should be disabled")
	}
}
