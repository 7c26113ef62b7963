// Package validator implements the compliance validation engine: five
// independent rule evaluators, engine-level cross-checks, and the composite
// orchestration that aggregates their findings into a single Verdict.
package validator

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"invoiceguard/internal/domain"
	"invoiceguard/internal/lookup"
	"invoiceguard/internal/regulatory"
	"invoiceguard/internal/validator/metrics"
)

// Tolerances for monetary and rate comparisons. Monetary values are compared
// to the nearest currency unit; rates to a hundredth of a percentage point.
const (
	ValueTolerance = 1.0
	RateTolerance  = 0.01
)

const defaultDeadline = 10 * time.Second

// Validator is the composite validation engine. It is safe for concurrent
// use; per-invoice runs share nothing but the lookup cache.
type Validator struct {
	sources  regulatory.Sources
	cache    *lookup.Cache
	deadline time.Duration
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

// Option configures a Validator.
type Option func(*Validator)

// WithDeadline bounds a whole validation run.
func WithDeadline(d time.Duration) Option {
	return func(v *Validator) { v.deadline = d }
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(v *Validator) { v.logger = logger }
}

// WithMetrics sets the engine metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(v *Validator) { v.metrics = m }
}

// New constructs a Validator over the given regulatory sources and cache.
func New(sources regulatory.Sources, cache *lookup.Cache, opts ...Option) *Validator {
	v := &Validator{
		sources:  sources,
		cache:    cache,
		deadline: defaultDeadline,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// incomplete builds the WARNING that marks a check the engine could not
// finish because its source was unavailable or rate-limited.
func incomplete(check string, source regulatory.Source, err error) domain.Finding {
	ev := map[string]string{
		"check":  check,
		"source": string(source),
	}
	var le *regulatory.LookupError
	if errors.As(err, &le) {
		ev["cause"] = string(le.Category)
	}
	return domain.Finding{
		RuleID:   domain.RuleCheckIncomplete,
		Severity: domain.SeverityWarning,
		Message:  fmt.Sprintf("%s check could not be completed", check),
		Evidence: ev,
	}
}

// fatal reports whether a lookup failure is a run-level fault rather than a
// classified source failure. Classified failures become findings; anything
// else (cache corruption, programming errors) aborts the run.
func fatal(err error) bool {
	var le *regulatory.LookupError
	return !errors.As(err, &le)
}

func money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func rate(v float64) string {
	return fmt.Sprintf("%.2f%%", v)
}
