// Package regulatory defines the contracts of the external regulatory data
// sources the engine consults, together with their normalized failure
// taxonomy. Transport and authentication live behind these interfaces;
// the engine only depends on the logical contracts.
package regulatory

import (
	"context"
	"time"
)

// GSTINRegistry answers registration-status queries. Lookups are as-of the
// invoice date: callers decide what an inactive status means for their date.
type GSTINRegistry interface {
	LookupGSTIN(ctx context.Context, gstin string) (GSTINRecord, error)
}

// IRNRegistry answers e-invoice reference queries.
type IRNRegistry interface {
	LookupIRN(ctx context.Context, irn string) (IRNRecord, error)
}

// RateTable answers time-versioned HSN/SAC rate queries. The same code may
// resolve to different bands for different dates; implementations must not
// conflate dates.
type RateTable interface {
	LookupRate(ctx context.Context, hsnCode string, asOf time.Time) (RateBand, error)
}

// MandateService answers whether e-invoicing was mandatory for the seller on
// the invoice date at the invoice value.
type MandateService interface {
	LookupMandate(ctx context.Context, sellerGSTIN string, invoiceDate time.Time, invoiceValue float64) (MandateRuling, error)
}

// FilerRegistry answers non-filer/withholding-applicability queries by PAN.
type FilerRegistry interface {
	LookupFiler(ctx context.Context, pan string) (FilerStatus, error)
}

// Sources bundles the five regulatory endpoints consumed by a validation run.
type Sources struct {
	GSTIN   GSTINRegistry
	IRN     IRNRegistry
	Rates   RateTable
	Mandate MandateService
	Filers  FilerRegistry
}
