package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"abastece/internal/analytics"
	"abastece/internal/core"
	applog "abastece/internal/log"
	"abastece/internal/maintenance"
	"abastece/internal/metrics"
	"abastece/internal/middleware/ratelimit"
	"abastece/internal/middleware/security"
	"abastece/internal/middleware/trace"
)

// LedgerWriter is the write side of the ledger.
type LedgerWriter interface {
	CreateFuelEntry(ctx context.Context, e core.RawFuelEntry) (core.RawFuelEntry, error)
	UpdateFuelEntry(ctx context.Context, e core.RawFuelEntry) (core.RawFuelEntry, error)
	DeleteFuelEntry(ctx context.Context, id string) error
	SaveMaintenance(ctx context.Context, m core.MaintenanceEvent) (core.MaintenanceEvent, error)
	DeleteMaintenance(ctx context.Context, id string) error
}

// LedgerReader serves the derived views.
type LedgerReader interface {
	ProcessedEntries(ctx context.Context) ([]core.ProcessedFuelEntry, error)
	Years(ctx context.Context, requested int) ([]int, int, error)
	Monthly(ctx context.Context, year int) ([12]core.MonthlyRow, error)
	Summary(ctx context.Context, year int) (core.YearSummary, error)
	MaintenanceLog(ctx context.Context) ([]maintenance.Row, error)
	RawMaintenance(ctx context.Context) ([]core.MaintenanceEvent, error)
	MaintenanceDefaults(ctx context.Context) (maintenance.FormData, error)
	Locale() analytics.Locale
}

// Options configures NewServer. Metrics and Ready may be nil.
type Options struct {
	Addr               string
	Writer             LedgerWriter
	Reader             LedgerReader
	Logger             *applog.Logger
	Metrics            *metrics.Metrics
	RateLimitPerMinute int
	TrustedProxies     []string
	Ready              func(context.Context) error
}

type Server struct {
	http.Server
	mux      *http.ServeMux
	writer   LedgerWriter
	reader   LedgerReader
	metrics  *metrics.Metrics
	ready    func(context.Context) error
	limiter  *ratelimit.Limiter
	detector *security.Detector

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run http.Server.
func NewServer(opts Options) (*Server, error) {
	logger := opts.Logger
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}

	detector := security.NewDetector()
	for _, cidr := range opts.TrustedProxies {
		if err := detector.AddTrustedProxy(cidr); err != nil {
			return nil, err
		}
	}

	rlCfg := ratelimit.DefaultConfig()
	if opts.RateLimitPerMinute > 0 {
		rlCfg.RequestsPerMinute = opts.RateLimitPerMinute
	}

	s := &Server{
		mux:      http.NewServeMux(),
		writer:   opts.Writer,
		reader:   opts.Reader,
		metrics:  opts.Metrics,
		ready:    opts.Ready,
		limiter:  ratelimit.NewLimiter(rlCfg),
		detector: detector,
	}
	s.routes()

	tracer := trace.NewMiddleware(logger, detector.ExtractClientIP, s.route, opts.Metrics.ObserveHTTPRequest)

	var h http.Handler = s.mux
	h = s.limiter.Middleware(detector.ExtractClientIP, func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusTooManyRequests, "rate limit exceeded, try again later")
	})(h)
	h = security.Headers(security.DefaultHeadersConfig())(h)
	h = detector.Middleware(h)
	h = applog.RequestIDMiddleware(trace.RequestIDFromRequest)(h)
	h = applog.Middleware(logger.WithComponent(applog.ComponentHTTP))(h)
	h = tracer.Middleware(h)

	s.Server = http.Server{
		Addr:              opts.Addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s, nil
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /healthz", handleHealth)
	s.mux.HandleFunc("GET /readyz", s.handleReady)
	s.mux.Handle("GET /metrics", s.metrics.Handler())

	s.mux.HandleFunc("GET /api/fuel-entries", s.handleListFuelEntries)
	s.mux.HandleFunc("POST /api/fuel-entries", s.handleCreateFuelEntry)
	s.mux.HandleFunc("PUT /api/fuel-entries/{id}", s.handleUpdateFuelEntry)
	s.mux.HandleFunc("DELETE /api/fuel-entries/{id}", s.handleDeleteFuelEntry)

	s.mux.HandleFunc("GET /api/analytics/years", s.handleYears)
	s.mux.HandleFunc("GET /api/analytics/monthly", s.handleMonthly)
	s.mux.HandleFunc("GET /api/analytics/summary", s.handleSummary)

	s.mux.HandleFunc("GET /api/maintenance", s.handleListMaintenance)
	s.mux.HandleFunc("POST /api/maintenance", s.handleCreateMaintenance)
	s.mux.HandleFunc("GET /api/maintenance/defaults", s.handleMaintenanceDefaults)
	s.mux.HandleFunc("PUT /api/maintenance/{id}", s.handleUpdateMaintenance)
	s.mux.HandleFunc("DELETE /api/maintenance/{id}", s.handleDeleteMaintenance)

	s.mux.HandleFunc("GET /api/export.xlsx", s.handleExportXLSX)
	s.mux.HandleFunc("GET /api/export.pdf", s.handleExportPDF)
}

// route labels metrics with the matched pattern, keeping path values out.
func (s *Server) route(r *http.Request) string {
	_, pattern := s.mux.Handler(r)
	return pattern
}

// Shutdown gracefully shuts down the server and the limiter cleanup.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()
		if err := s.ready(ctx); err != nil {
			applog.FromContext(r.Context()).WarnContext(r.Context(), "Readiness check failed", applog.FieldError, err)
			http.Error(w, "not ready", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
