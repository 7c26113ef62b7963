package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the temporal lookup cache.
type Metrics struct {
	// Cache hits by source; result: "hit", "negative_hit", "miss"
	CacheLookups *prometheus.CounterVec

	// Upstream fetch latency by source and outcome
	FetchLatency *prometheus.HistogramVec

	// Rate-limit retries by source
	Retries *prometheus.CounterVec
}

// New creates a Metrics instance with all cache metrics registered.
func New() *Metrics {
	return &Metrics{
		CacheLookups: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "invoiceguard_lookup_cache_total",
			Help: "Cache lookups by source and result",
		}, []string{"source", "result"}),

		FetchLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "invoiceguard_lookup_fetch_duration_seconds",
			Help:    "Duration of upstream regulatory fetches by source and outcome",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"source", "outcome"}),

		Retries: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "invoiceguard_lookup_retries_total",
			Help: "Rate-limit retries by source",
		}, []string{"source"}),
	}
}

// ObserveCacheLookup records a cache access result.
func (m *Metrics) ObserveCacheLookup(source, result string) {
	if m != nil {
		m.CacheLookups.WithLabelValues(source, result).Inc()
	}
}

// ObserveFetch records the duration and outcome of an upstream fetch.
func (m *Metrics) ObserveFetch(source, outcome string, d time.Duration) {
	if m != nil {
		m.FetchLatency.WithLabelValues(source, outcome).Observe(d.Seconds())
	}
}

// IncrementRetry records one rate-limit retry.
func (m *Metrics) IncrementRetry(source string) {
	if m != nil {
		m.Retries.WithLabelValues(source).Inc()
	}
}
