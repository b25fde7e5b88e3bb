// Package metrics owns the Prometheus collectors of the service. A nil
// *Metrics is valid and records nothing.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	// Registry is exposed so /metrics can serve it.
	Registry *prometheus.Registry

	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
	recomputes     prometheus.Counter
	recomputedRows prometheus.Gauge
	cacheHits      *prometheus.CounterVec
	cacheMisses    *prometheus.CounterVec
	published      *prometheus.CounterVec
	syncRuns       *prometheus.CounterVec
}

// New registers every collector in a private registry, so tests can build
// as many instances as they like.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		httpRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "abastece_http_requests_total",
				Help: "HTTP requests by method, route and status code.",
			},
			[]string{"method", "route", "status"},
		),
		httpDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "abastece_http_request_duration_seconds",
				Help:    "HTTP request latency by route.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),
		recomputes: factory.NewCounter(prometheus.CounterOpts{
			Name: "abastece_ledger_recomputes_total",
			Help: "Full recomputations of the derived fuel ledger.",
		}),
		recomputedRows: factory.NewGauge(prometheus.GaugeOpts{
			Name: "abastece_ledger_entries",
			Help: "Entries in the last recomputed ledger.",
		}),
		cacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "abastece_cache_hits_total",
				Help: "Derived view cache hits.",
			},
			[]string{"cache"},
		),
		cacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "abastece_cache_misses_total",
				Help: "Derived view cache misses.",
			},
			[]string{"cache"},
		),
		published: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "abastece_ledger_messages_published_total",
				Help: "Ledger change messages by publish result.",
			},
			[]string{"result"},
		),
		syncRuns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "abastece_sync_runs_total",
				Help: "Sheets mirror runs by result.",
			},
			[]string{"result"},
		),
	}
}

func (m *Metrics) ObserveHTTPRequest(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(route).Observe(d.Seconds())
}

// LedgerRecomputed records one full pass of the entry processor.
func (m *Metrics) LedgerRecomputed(entries int) {
	if m == nil {
		return
	}
	m.recomputes.Inc()
	m.recomputedRows.Set(float64(entries))
}

// CacheHit implements cache.Observer.
func (m *Metrics) CacheHit(cache string) {
	if m == nil {
		return
	}
	m.cacheHits.WithLabelValues(cache).Inc()
}

// CacheMiss implements cache.Observer.
func (m *Metrics) CacheMiss(cache string) {
	if m == nil {
		return
	}
	m.cacheMisses.WithLabelValues(cache).Inc()
}

func (m *Metrics) MessagePublished(err error) {
	if m == nil {
		return
	}
	m.published.WithLabelValues(result(err)).Inc()
}

func (m *Metrics) SyncRun(err error) {
	if m == nil {
		return
	}
	m.syncRuns.WithLabelValues(result(err)).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
