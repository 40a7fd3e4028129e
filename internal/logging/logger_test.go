package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"watchfilter/internal/config"
	"watchfilter/internal/logging"
	"watchfilter/internal/services"
)

func readLog(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	return string(content)
}

func TestNewFromConfigWritesLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.Logging.Dir = t.TempDir()

	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Info("hello from config")

	content := readLog(t, filepath.Join(cfg.Logging.Dir, "watchfilter.log"))
	if !strings.Contains(content, "hello from config") {
		t.Fatalf("expected message in log file, got %q", content)
	}
}

func TestConsoleLoggerOmitsCallerForInfo(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console-info.log")
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("message without caller")

	if content := readLog(t, logPath); strings.Contains(content, ".go:") {
		t.Fatalf("expected no caller information in info logs, got %q", content)
	}
}

func TestConsoleLoggerIncludesCallerForDebug(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console-debug.log")
	logger, err := logging.New(logging.Options{Format: "console", Level: "debug", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("message with caller")

	if content := readLog(t, logPath); !strings.Contains(content, ".go:") {
		t.Fatalf("expected caller information in debug logs, got %q", content)
	}
}

func TestConsoleLoggerLiftsComponent(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console-component.log")
	base, err := logging.New(logging.Options{Format: "console", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger := logging.NewComponentLogger(base, "enrichment")
	logger.Info("resolved batch", logging.Int("items", 12), logging.String("criterion", "channel:8"))

	content := readLog(t, logPath)
	if !strings.Contains(content, "INFO enrichment: resolved batch") {
		t.Fatalf("expected component prefix, got %q", content)
	}
	if strings.Contains(content, "component=") {
		t.Fatalf("expected component attribute to be lifted, got %q", content)
	}
	if !strings.Contains(content, "items=12") || !strings.Contains(content, "criterion=channel:8") {
		t.Fatalf("expected key/value pairs, got %q", content)
	}
}

func TestJSONLoggerShape(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "json.log")
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Warn("json message", logging.String("k", "v"))

	var payload map[string]any
	if err := json.Unmarshal(bytes.TrimSpace([]byte(readLog(t, logPath))), &payload); err != nil {
		t.Fatalf("decode json log: %v", err)
	}
	if payload["level"] != "warn" || payload["msg"] != "json message" || payload["k"] != "v" {
		t.Fatalf("unexpected payload: %#v", payload)
	}
	if _, ok := payload["ts"]; !ok {
		t.Fatalf("expected ts key, got %#v", payload)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewInvalidLevelDefaultsToInfo(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "level.log")
	logger, err := logging.New(logging.Options{Format: "console", Level: "invalid", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Debug("hidden")
	logger.Info("shown")

	content := readLog(t, logPath)
	if strings.Contains(content, "hidden") || !strings.Contains(content, "shown") {
		t.Fatalf("expected info level filtering, got %q", content)
	}
}

type captureHandler struct {
	attrs []slog.Attr
}

func (h *captureHandler) Enabled(context.Context, slog.Level) bool { return true }
func (h *captureHandler) Handle(context.Context, slog.Record) error  { return nil }
func (h *captureHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	h.attrs = append(h.attrs, attrs...)
	return h
}
func (h *captureHandler) WithGroup(string) slog.Handler { return h }

func TestWithContextAddsRequestID(t *testing.T) {
	ctx := services.WithRequestID(context.Background(), "req-xyz")
	handler := &captureHandler{}

	logging.WithContext(ctx, slog.New(handler)).Info("contextual log")

	for _, attr := range handler.attrs {
		if attr.Key == logging.FieldRequestID && attr.Value.String() == "req-xyz" {
			return
		}
	}
	t.Fatalf("expected %s attribute, got %v", logging.FieldRequestID, handler.attrs)
}

func TestWithContextWithoutRequestIDKeepsLogger(t *testing.T) {
	handler := &captureHandler{}
	logger := slog.New(handler)

	if got := logging.WithContext(context.Background(), logger); got != logger {
		t.Fatal("expected the same logger when ctx carries no request id")
	}
	if len(handler.attrs) != 0 {
		t.Fatalf("unexpected attrs %v", handler.attrs)
	}
}

func TestErrorWithContextKeepsCallerHint(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "error.log")
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logging.ErrorWithContext(logger, "rejected item", "invalid_identity",
		logging.Item(stringer("movie:0")),
		logging.String(logging.FieldErrorHint, "fix the caller"),
	)

	content := readLog(t, logPath)
	for _, fragment := range []string{"event_type=invalid_identity", "item=movie:0", `error_hint="fix the caller"`} {
		if !strings.Contains(content, fragment) {
			t.Fatalf("expected %q in %q", fragment, content)
		}
	}
	if strings.Count(content, "error_hint=") != 1 {
		t.Fatalf("expected a single error_hint, got %q", content)
	}
}

type stringer string

func (s stringer) String() string { return string(s) }

func TestWarnWithContextInjectsDefaults(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "warn.log")
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logging.WarnWithContext(logger, "lookup failed", "lookup_failed", logging.String(logging.FieldImpact, "item hidden"))

	content := readLog(t, logPath)
	for _, fragment := range []string{"event_type=lookup_failed", "error_hint=", `impact="item hidden"`} {
		if !strings.Contains(content, fragment) {
			t.Fatalf("expected %q in %q", fragment, content)
		}
	}
}
