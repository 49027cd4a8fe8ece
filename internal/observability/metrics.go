package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "maps_api"

// Metrics holds the Prometheus collectors for map lookups and the HTTP surface.
type Metrics struct {
	LookupsTotal    *prometheus.CounterVec   // labels: operation, provider, outcome={success,invalid_input,error}
	LookupDuration  *prometheus.HistogramVec // labels: operation
	DefaultFallback prometheus.Gauge

	JournalErrors *prometheus.CounterVec // labels: sink

	HTTPRequests *prometheus.CounterVec // labels: method, status
	RateLimited  prometheus.Counter
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	return NewMetricsWithRegistry(prometheus.DefaultRegisterer)
}

// NewMetricsForTesting creates Metrics on a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return NewMetricsWithRegistry(prometheus.NewRegistry())
}

// NewMetricsWithRegistry creates all metrics and registers them with reg.
func NewMetricsWithRegistry(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		LookupsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lookups_total",
			Help:      "Map lookups by operation, provider, and outcome.",
		}, []string{"operation", "provider", "outcome"}),
		LookupDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "lookup_duration_seconds",
			Help:      "Time spent computing a lookup, excluding journaling.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}, []string{"operation"}),
		DefaultFallback: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "default_provider_fallback",
			Help:      "1 when the configured default provider was unknown and mock is used instead.",
		}),
		JournalErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "journal_errors_total",
			Help:      "Lookup journal write failures by sink.",
		}, []string{"sink"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method and status code.",
		}, []string{"method", "status"}),
		RateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the rate limiter.",
		}),
	}

	reg.MustRegister(
		m.LookupsTotal,
		m.LookupDuration,
		m.DefaultFallback,
		m.JournalErrors,
		m.HTTPRequests,
		m.RateLimited,
	)

	return m
}
