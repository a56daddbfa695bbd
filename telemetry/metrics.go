// Package telemetry wires a Prometheus metrics registry for the HTTP
// surface, cache layer, upstream NHL proxy, and query orchestrator,
// grounded on cryptorun's internal/interfaces/http/metrics.go
// (MetricsRegistry struct, HistogramVec/CounterVec/GaugeVec field
// layout, MustRegister-at-construction pattern, small Record* methods
// per concern).
package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds every Prometheus metric the service exposes.
type Registry struct {
	reg *prometheus.Registry

	HTTPRequestDuration *prometheus.HistogramVec
	HTTPRequestsTotal   *prometheus.CounterVec

	CacheHits   *prometheus.CounterVec
	CacheMisses *prometheus.CounterVec

	UpstreamRequestDuration *prometheus.HistogramVec
	UpstreamErrorsTotal     *prometheus.CounterVec
	CircuitBreakerState     *prometheus.GaugeVec

	OrchestratorToolDuration *prometheus.HistogramVec
	OrchestratorToolFailures *prometheus.CounterVec

	ActiveQueries prometheus.Gauge
}

// NewRegistry constructs and registers every metric against a fresh
// prometheus.Registry, avoiding collisions with the global default
// registry across repeated test construction.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	r := &Registry{
		reg: reg,
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "icehockey_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"route", "method", "status"},
		),
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "icehockey_http_requests_total",
				Help: "Total HTTP requests served",
			},
			[]string{"route", "method", "status"},
		),
		CacheHits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "icehockey_cache_hits_total",
				Help: "Total cache hits by endpoint",
			},
			[]string{"endpoint"},
		),
		CacheMisses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "icehockey_cache_misses_total",
				Help: "Total cache misses by endpoint",
			},
			[]string{"endpoint"},
		),
		UpstreamRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "icehockey_nhl_upstream_duration_seconds",
				Help:    "Upstream NHL API call duration in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"endpoint", "outcome"},
		),
		UpstreamErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "icehockey_nhl_upstream_errors_total",
				Help: "Total upstream NHL API errors by kind",
			},
			[]string{"endpoint", "kind"},
		),
		CircuitBreakerState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "icehockey_circuit_breaker_state",
				Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
			},
			[]string{"breaker"},
		),
		OrchestratorToolDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "icehockey_orchestrator_tool_duration_seconds",
				Help:    "Duration of individual orchestrator tool calls",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"tool"},
		),
		OrchestratorToolFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "icehockey_orchestrator_tool_failures_total",
				Help: "Total orchestrator tool failures",
			},
			[]string{"tool"},
		),
		ActiveQueries: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "icehockey_orchestrator_active_queries",
				Help: "Number of in-flight orchestrator queries",
			},
		),
	}

	reg.MustRegister(
		r.HTTPRequestDuration,
		r.HTTPRequestsTotal,
		r.CacheHits,
		r.CacheMisses,
		r.UpstreamRequestDuration,
		r.UpstreamErrorsTotal,
		r.CircuitBreakerState,
		r.OrchestratorToolDuration,
		r.OrchestratorToolFailures,
		r.ActiveQueries,
	)
	return r
}

// RequestTimer tracks an in-flight HTTP request's duration.
type RequestTimer struct {
	registry *Registry
	route    string
	method   string
	start    time.Time
}

// StartRequestTimer begins timing an HTTP request.
func (r *Registry) StartRequestTimer(route, method string) *RequestTimer {
	return &RequestTimer{registry: r, route: route, method: method, start: time.Now()}
}

// Stop records the request's duration and increments its counter.
func (t *RequestTimer) Stop(status int) {
	statusLabel := http.StatusText(status)
	if statusLabel == "" {
		statusLabel = "unknown"
	}
	elapsed := time.Since(t.start).Seconds()
	t.registry.HTTPRequestDuration.WithLabelValues(t.route, t.method, statusLabel).Observe(elapsed)
	t.registry.HTTPRequestsTotal.WithLabelValues(t.route, t.method, statusLabel).Inc()
}

// RecordCacheHit records a cache hit for the given cache-key namespace.
func (r *Registry) RecordCacheHit(endpoint string) {
	r.CacheHits.WithLabelValues(endpoint).Inc()
}

// RecordCacheMiss records a cache miss for the given cache-key namespace.
func (r *Registry) RecordCacheMiss(endpoint string) {
	r.CacheMisses.WithLabelValues(endpoint).Inc()
}

// RecordUpstreamCall records one completed upstream NHL API call.
func (r *Registry) RecordUpstreamCall(endpoint, outcome string, duration time.Duration) {
	r.UpstreamRequestDuration.WithLabelValues(endpoint, outcome).Observe(duration.Seconds())
}

// RecordUpstreamError records an upstream failure by its apperr kind.
func (r *Registry) RecordUpstreamError(endpoint, kind string) {
	r.UpstreamErrorsTotal.WithLabelValues(endpoint, kind).Inc()
}

// SetCircuitBreakerState publishes the circuit breaker's current state.
func (r *Registry) SetCircuitBreakerState(breaker string, state float64) {
	r.CircuitBreakerState.WithLabelValues(breaker).Set(state)
}

// RecordToolCall records one orchestrator tool invocation's duration.
func (r *Registry) RecordToolCall(tool string, duration time.Duration, failed bool) {
	r.OrchestratorToolDuration.WithLabelValues(tool).Observe(duration.Seconds())
	if failed {
		r.OrchestratorToolFailures.WithLabelValues(tool).Inc()
	}
}

// Handler returns the Prometheus scrape endpoint handler for this registry.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}
