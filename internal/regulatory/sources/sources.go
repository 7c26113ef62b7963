// Package sources provides deterministic in-memory implementations of the
// regulatory source contracts. They back tests and local runs; production
// deployments swap in real clients behind the same interfaces. Each source
// supports configurable latency and fault injection so unavailability and
// rate-limiting paths can be exercised.
package sources

import (
	"context"
	"sync/atomic"
	"time"

	"invoiceguard/internal/regulatory"
)

// Fault configures injected failures shared by all in-memory sources.
type Fault struct {
	// Down makes every lookup fail as unavailable.
	Down bool

	// RateLimitN makes the first N lookups fail as rate-limited with
	// RetryAfter as the server hint.
	RateLimitN int64
	RetryAfter time.Duration
}

type faultState struct {
	fault     Fault
	remaining atomic.Int64
	calls     atomic.Int64
}

func newFaultState(f Fault) *faultState {
	s := &faultState{fault: f}
	s.remaining.Store(f.RateLimitN)
	return s
}

// check simulates latency and injected faults before the fixture lookup.
func (s *faultState) check(ctx context.Context, source regulatory.Source, latency time.Duration) error {
	s.calls.Add(1)
	if latency > 0 {
		t := time.NewTimer(latency)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return regulatory.NewLookupError(regulatory.ErrorUnavailable, source, "lookup timed out", ctx.Err())
		case <-t.C:
		}
	}
	if err := ctx.Err(); err != nil {
		return regulatory.NewLookupError(regulatory.ErrorUnavailable, source, "lookup cancelled", err)
	}
	if s.fault.Down {
		return regulatory.NewLookupError(regulatory.ErrorUnavailable, source, "source down", nil)
	}
	if s.remaining.Load() > 0 && s.remaining.Add(-1) >= 0 {
		return regulatory.NewRateLimited(source, s.fault.RetryAfter)
	}
	return nil
}

// Calls returns how many lookups the source has served, including failed
// ones. Tests use it to assert single-flight behavior.
func (s *faultState) Calls() int64 {
	return s.calls.Load()
}
