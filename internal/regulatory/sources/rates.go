package sources

import (
	"context"
	"time"

	"invoiceguard/internal/regulatory"
)

// RateTable is an in-memory time-versioned HSN/SAC rate table. A code maps to
// its full band history; lookups select the band covering the as-of date.
type RateTable struct {
	*faultState
	Latency time.Duration
	bands   map[string][]regulatory.RateBand
}

// NewRateTable builds a rate table from fixture bands.
func NewRateTable(bands []regulatory.RateBand, fault Fault) *RateTable {
	m := make(map[string][]regulatory.RateBand)
	for _, b := range bands {
		m[b.HSNCode] = append(m[b.HSNCode], b)
	}
	return &RateTable{faultState: newFaultState(fault), bands: m}
}

func (t *RateTable) LookupRate(ctx context.Context, hsnCode string, asOf time.Time) (regulatory.RateBand, error) {
	if err := t.check(ctx, regulatory.SourceRateTable, t.Latency); err != nil {
		return regulatory.RateBand{}, err
	}
	for _, b := range t.bands[hsnCode] {
		if b.Covers(asOf) {
			return b, nil
		}
	}
	return regulatory.RateBand{}, regulatory.NewLookupError(regulatory.ErrorNotFound, regulatory.SourceRateTable, "no rate band for code and date", nil)
}
