package trace

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	applog "abastece/internal/log"
)

func newTestLogger(buf *bytes.Buffer) *applog.Logger {
	return applog.New(applog.Config{Level: slog.LevelDebug, Format: "json", Output: buf})
}

func TestMiddlewareAssignsRequestID(t *testing.T) {
	var buf bytes.Buffer
	var seen string
	m := NewMiddleware(newTestLogger(&buf), nil, nil, nil)
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if !strings.HasPrefix(seen, "req_") {
		t.Fatalf("generated id = %q", seen)
	}
	if rr.Header().Get(HeaderRequestID) != seen {
		t.Fatalf("response header = %q, want %q", rr.Header().Get(HeaderRequestID), seen)
	}
	if !strings.Contains(buf.String(), "HTTP request completed") {
		t.Fatalf("expected completion log, got %s", buf.String())
	}
}

func TestMiddlewareHonoursIncomingID(t *testing.T) {
	tests := []struct {
		name     string
		incoming string
		keep     bool
	}{
		{"printable", "abc-123", true},
		{"with space", "abc 123", false},
		{"too long", strings.Repeat("x", 65), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			m := NewMiddleware(newTestLogger(&buf), nil, nil, nil)
			var seen string
			h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = GetRequestID(r.Context())
			}))
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set(HeaderRequestID, tt.incoming)
			h.ServeHTTP(httptest.NewRecorder(), req)
			if (seen == tt.incoming) != tt.keep {
				t.Fatalf("seen %q for incoming %q", seen, tt.incoming)
			}
		})
	}
}

func TestMiddlewareObservesStatusAndRoute(t *testing.T) {
	var buf bytes.Buffer
	var gotRoute string
	var gotStatus int
	observe := func(method, route string, status int, d time.Duration) {
		gotRoute, gotStatus = route, status
	}
	route := func(*http.Request) string { return "GET /api/fuel-entries" }
	m := NewMiddleware(newTestLogger(&buf), func(*http.Request) string { return "1.2.3.4" }, route, observe)
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.WriteHeader(http.StatusOK)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/fuel-entries", nil))

	if gotRoute != "GET /api/fuel-entries" || gotStatus != http.StatusTeapot {
		t.Fatalf("observed route=%q status=%d", gotRoute, gotStatus)
	}
	if !strings.Contains(buf.String(), `"client_ip":"1.2.3.4"`) {
		t.Fatalf("expected client ip in log, got %s", buf.String())
	}
}
