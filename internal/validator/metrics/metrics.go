package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the validation engine.
type Metrics struct {
	// Per-check latencies by check name
	CheckLatency *prometheus.HistogramVec

	// Verdict outcomes by status
	VerdictOutcome *prometheus.CounterVec

	// Findings emitted by rule and severity
	Findings *prometheus.CounterVec

	// Overall validation latency including all lookups
	ValidateLatency prometheus.Histogram
}

// New creates a Metrics instance with all engine metrics registered.
func New() *Metrics {
	return &Metrics{
		CheckLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "invoiceguard_check_duration_seconds",
			Help:    "Duration of individual compliance checks by check name",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"check"}),

		VerdictOutcome: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "invoiceguard_verdicts_total",
			Help: "Total verdicts by status",
		}, []string{"status"}),

		Findings: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "invoiceguard_findings_total",
			Help: "Total findings by rule and severity",
		}, []string{"rule", "severity"}),

		ValidateLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "invoiceguard_validate_duration_seconds",
			Help:    "Duration of full invoice validation including lookups",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
	}
}

// ObserveCheckLatency records the duration of one compliance check.
func (m *Metrics) ObserveCheckLatency(check string, d time.Duration) {
	if m != nil {
		m.CheckLatency.WithLabelValues(check).Observe(d.Seconds())
	}
}

// IncrementVerdict records a verdict outcome.
func (m *Metrics) IncrementVerdict(status string) {
	if m != nil {
		m.VerdictOutcome.WithLabelValues(status).Inc()
	}
}

// IncrementFinding records an emitted finding.
func (m *Metrics) IncrementFinding(rule, severity string) {
	if m != nil {
		m.Findings.WithLabelValues(rule, severity).Inc()
	}
}

// ObserveValidateLatency records the total validation duration.
func (m *Metrics) ObserveValidateLatency(d time.Duration) {
	if m != nil {
		m.ValidateLatency.Observe(d.Seconds())
	}
}
