package security

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestExtractClientIP(t *testing.T) {
	d := NewDetector()
	tests := []struct {
		name       string
		remoteAddr string
		xff        string
		xri        string
		want       string
	}{
		{"direct", "203.0.113.7:5555", "", "", "203.0.113.7"},
		{"untrusted proxy headers ignored", "203.0.113.7:5555", "1.2.3.4", "", "203.0.113.7"},
		{"trusted proxy xff", "10.0.0.2:80", "198.51.100.9, 10.0.0.2", "", "198.51.100.9"},
		{"trusted proxy real ip", "127.0.0.1:80", "", "198.51.100.10", "198.51.100.10"},
		{"trusted proxy bad xff", "127.0.0.1:80", "nonsense", "", "127.0.0.1"},
		{"no port", "198.51.100.11", "", "", "198.51.100.11"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				r.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				r.Header.Set("X-Real-IP", tt.xri)
			}
			if got := d.ExtractClientIP(r); got != tt.want {
				t.Errorf("ExtractClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReason(t *testing.T) {
	d := NewDetector()
	tests := []struct {
		name    string
		method  string
		target  string
		ua      string
		flagged bool
	}{
		{"api call", http.MethodGet, "/api/analytics/monthly?year=2024", "curl/8.0", false},
		{"dotenv probe", http.MethodGet, "/.env", "", true},
		{"sql in query", http.MethodGet, "/api/fuel-entries?q=1+union+select", "", true},
		{"percent encoded sql", http.MethodGet, "/x?q=1%20UNION%20select", "", true},
		{"percent encoded script", http.MethodGet, "/x?q=%3Cscript%3E", "", true},
		{"plain notes", http.MethodGet, "/api/maintenance?q=troca+de+oleo", "", false},
		{"scanner", http.MethodGet, "/", "sqlmap/1.7", true},
		{"trace method", "TRACE", "/", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(tt.method, tt.target, nil)
			r.Header.Set("User-Agent", tt.ua)
			if got := d.Reason(r) != ""; got != tt.flagged {
				t.Errorf("Reason() flagged = %v, want %v", got, tt.flagged)
			}
		})
	}
}

func TestMiddlewareCountsButDoesNotBlock(t *testing.T) {
	d := NewDetector()
	h := d.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/wp-admin", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rr.Code)
	}
	if d.SuspiciousCount() != 1 {
		t.Fatalf("SuspiciousCount() = %d, want 1", d.SuspiciousCount())
	}
}

func TestHeaders(t *testing.T) {
	h := Headers(DefaultHeadersConfig())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Header().Get("X-Content-Type-Options") != "nosniff" || rr.Header().Get("X-Frame-Options") != "DENY" {
		t.Errorf("missing basic headers: %v", rr.Header())
	}
	if rr.Header().Get("Strict-Transport-Security") != "" {
		t.Error("HSTS must not be set over plain HTTP")
	}

	rr = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.TLS = &tls.ConnectionState{}
	h.ServeHTTP(rr, req)
	if rr.Header().Get("Strict-Transport-Security") == "" {
		t.Error("HSTS expected over TLS")
	}
}
