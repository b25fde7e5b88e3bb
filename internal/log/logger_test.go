package log

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLoggerAddsComponent(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelInfo, Format: "json", Output: &buf, Component: ComponentLedger})
	l.Info("hello", FieldEntryID, "abc")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rec[FieldComponent] != ComponentLedger || rec[FieldEntryID] != "abc" {
		t.Fatalf("unexpected record: %v", rec)
	}

	buf.Reset()
	l.WithComponent(ComponentWorker).Warn("careful")
	if !strings.Contains(buf.String(), `"component":"worker"`) {
		t.Fatalf("expected worker component, got %s", buf.String())
	}
}

func TestMiddlewareAndRequestID(t *testing.T) {
	var buf bytes.Buffer
	base := New(Config{Level: slog.LevelInfo, Format: "json", Output: &buf})

	h := Middleware(base)(RequestIDMiddleware(func(*http.Request) string { return "req-1" })(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			FromContext(r.Context()).InfoContext(r.Context(), "inside")
		})))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if !strings.Contains(buf.String(), `"request_id":"req-1"`) {
		t.Fatalf("expected request id in log, got %s", buf.String())
	}

	if FromContext(context.Background()).Component() != "unknown" {
		t.Fatalf("expected fallback logger")
	}
}

func TestLogHTTPEndLevels(t *testing.T) {
	var buf bytes.Buffer
	sl := NewStructuredLogger(New(Config{Level: slog.LevelInfo, Format: "json", Output: &buf}))
	r := httptest.NewRequest(http.MethodGet, "/api/fuel-entries", nil)

	sl.LogHTTPEnd(context.Background(), r, 500, 12, "1.2.3.4")
	if !strings.Contains(buf.String(), `"level":"ERROR"`) {
		t.Fatalf("expected error level, got %s", buf.String())
	}

	buf.Reset()
	sl.LogError(context.Background(), "boom", errors.New("x"), OpRead, nil)
	if !strings.Contains(buf.String(), `"error":"x"`) {
		t.Fatalf("expected error field, got %s", buf.String())
	}
}
