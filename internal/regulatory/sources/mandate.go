package sources

import (
	"context"
	"time"

	"invoiceguard/internal/regulatory"
)

// MandateService is an in-memory e-invoice mandate service. A seller's
// aggregate turnover decides whether the mandate threshold applies; sellers
// absent from the turnover map are treated as below every threshold.
type MandateService struct {
	*faultState
	Latency time.Duration

	// Threshold is the aggregate-turnover cutoff above which e-invoicing
	// is mandatory from MandateDate onward.
	Threshold   float64
	MandateDate time.Time

	turnover map[string]float64
}

// NewMandateService builds a mandate service from per-seller turnover
// fixtures.
func NewMandateService(turnover map[string]float64, threshold float64, mandateDate time.Time, fault Fault) *MandateService {
	return &MandateService{
		faultState:  newFaultState(fault),
		Threshold:   threshold,
		MandateDate: mandateDate,
		turnover:    turnover,
	}
}

func (s *MandateService) LookupMandate(ctx context.Context, sellerGSTIN string, invoiceDate time.Time, _ float64) (regulatory.MandateRuling, error) {
	if err := s.check(ctx, regulatory.SourceMandate, s.Latency); err != nil {
		return regulatory.MandateRuling{}, err
	}
	t := s.turnover[sellerGSTIN]
	if t > s.Threshold && !invoiceDate.Before(s.MandateDate) {
		return regulatory.MandateRuling{
			Required:    true,
			Reason:      "aggregate turnover exceeds mandate threshold",
			Threshold:   s.Threshold,
			MandateDate: s.MandateDate,
		}, nil
	}
	return regulatory.MandateRuling{
		Required:  false,
		Reason:    "below mandate threshold",
		Threshold: s.Threshold,
	}, nil
}
