package sources

import (
	"context"
	"time"

	"invoiceguard/internal/regulatory"
)

// IRNRegistry is an in-memory e-invoice registry backed by a fixture map.
type IRNRegistry struct {
	*faultState
	Latency time.Duration
	records map[string]regulatory.IRNRecord
}

// NewIRNRegistry builds a registry from fixture records keyed by IRN.
func NewIRNRegistry(records []regulatory.IRNRecord, fault Fault) *IRNRegistry {
	m := make(map[string]regulatory.IRNRecord, len(records))
	for _, r := range records {
		m[r.IRN] = r
	}
	return &IRNRegistry{faultState: newFaultState(fault), records: m}
}

func (r *IRNRegistry) LookupIRN(ctx context.Context, irn string) (regulatory.IRNRecord, error) {
	if err := r.check(ctx, regulatory.SourceIRNRegistry, r.Latency); err != nil {
		return regulatory.IRNRecord{}, err
	}
	rec, ok := r.records[irn]
	if !ok {
		return regulatory.IRNRecord{}, regulatory.NewLookupError(regulatory.ErrorNotFound, regulatory.SourceIRNRegistry, "irn not registered", nil)
	}
	return rec, nil
}
