package sources

import (
	"context"
	"time"

	"invoiceguard/internal/regulatory"
)

// GSTINRegistry is an in-memory GSTIN registry backed by a fixture map.
type GSTINRegistry struct {
	*faultState
	Latency time.Duration
	records map[string]regulatory.GSTINRecord
}

// NewGSTINRegistry builds a registry from fixture records keyed by GSTIN.
func NewGSTINRegistry(records []regulatory.GSTINRecord, fault Fault) *GSTINRegistry {
	m := make(map[string]regulatory.GSTINRecord, len(records))
	for _, r := range records {
		m[r.GSTIN] = r
	}
	return &GSTINRegistry{faultState: newFaultState(fault), records: m}
}

func (r *GSTINRegistry) LookupGSTIN(ctx context.Context, gstin string) (regulatory.GSTINRecord, error) {
	if err := r.check(ctx, regulatory.SourceGSTINRegistry, r.Latency); err != nil {
		return regulatory.GSTINRecord{}, err
	}
	rec, ok := r.records[gstin]
	if !ok {
		return regulatory.GSTINRecord{}, regulatory.NewLookupError(regulatory.ErrorNotFound, regulatory.SourceGSTINRegistry, "gstin not registered", nil)
	}
	return rec, nil
}
