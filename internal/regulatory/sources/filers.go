package sources

import (
	"context"
	"time"

	"invoiceguard/internal/regulatory"
)

// FilerRegistry is an in-memory non-filer/withholding registry. PANs absent
// from the fixture set are regular filers.
type FilerRegistry struct {
	*faultState
	Latency time.Duration
	records map[string]regulatory.FilerStatus
}

// NewFilerRegistry builds a registry from fixture statuses keyed by PAN.
func NewFilerRegistry(records []regulatory.FilerStatus, fault Fault) *FilerRegistry {
	m := make(map[string]regulatory.FilerStatus, len(records))
	for _, r := range records {
		m[r.PAN] = r
	}
	return &FilerRegistry{faultState: newFaultState(fault), records: m}
}

func (r *FilerRegistry) LookupFiler(ctx context.Context, pan string) (regulatory.FilerStatus, error) {
	if err := r.check(ctx, regulatory.SourceFilerRegistry, r.Latency); err != nil {
		return regulatory.FilerStatus{}, err
	}
	if rec, ok := r.records[pan]; ok {
		return rec, nil
	}
	return regulatory.FilerStatus{PAN: pan, EnhancedTDS: false, VerifiedOn: time.Now()}, nil
}
