package validator

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"invoiceguard/internal/domain"
	"invoiceguard/internal/lookup"
	"invoiceguard/internal/regulatory"
)

// evaluateHSNRates compares each line item's stated rates against the
// time-versioned rate table as of the invoice date. Line items are
// independent: a source failure on one line does not stop the others.
func (v *Validator) evaluateHSNRates(ctx context.Context, inv domain.RawInvoice) ([]domain.Finding, error) {
	var findings []domain.Finding
	for i, li := range inv.LineItems {
		fs, err := v.evaluateLineRate(ctx, i, li, inv)
		if err != nil {
			return nil, err
		}
		findings = append(findings, fs...)
	}
	return findings, nil
}

func (v *Validator) evaluateLineRate(ctx context.Context, idx int, li domain.LineItem, inv domain.RawInvoice) ([]domain.Finding, error) {
	band, err := lookup.Fetch(ctx, v.cache, regulatory.SourceRateTable, li.HSNCode, inv.InvoiceDate,
		func(ctx context.Context) (regulatory.RateBand, error) {
			return v.sources.Rates.LookupRate(ctx, li.HSNCode, inv.InvoiceDate)
		})
	if err != nil {
		if fatal(err) {
			return nil, err
		}
		if regulatory.IsNotFound(err) {
			return []domain.Finding{{
				RuleID:   domain.RuleUnknownHSN,
				Severity: domain.SeverityWarning,
				Message:  fmt.Sprintf("no rate entry for HSN code %s as of the invoice date", li.HSNCode),
				Evidence: map[string]string{
					"line":     strconv.Itoa(idx + 1),
					"hsn_code": li.HSNCode,
				},
			}}, nil
		}
		f := incomplete(fmt.Sprintf("HSN rate (line %d)", idx+1), regulatory.SourceRateTable, err)
		f.Evidence["line"] = strconv.Itoa(idx + 1)
		f.Evidence["hsn_code"] = li.HSNCode
		return []domain.Finding{f}, nil
	}

	type pair struct {
		name             string
		stated, expected float64
	}
	var off []pair
	for _, p := range []pair{
		{"cgst", li.CGSTRate, band.CGST},
		{"sgst", li.SGSTRate, band.SGST},
		{"igst", li.IGSTRate, band.IGST},
	} {
		if math.Abs(p.stated-p.expected) > RateTolerance {
			off = append(off, p)
		}
	}
	if len(off) == 0 {
		return nil, nil
	}

	window := band.EffectiveFrom.Format("2006-01-02") + ".."
	if band.EffectiveTo != nil {
		window += band.EffectiveTo.Format("2006-01-02")
	}
	ev := map[string]string{
		"line":             strconv.Itoa(idx + 1),
		"hsn_code":         li.HSNCode,
		"effective_window": window,
	}
	for _, p := range off {
		ev["expected_"+p.name] = rate(p.expected)
		ev["stated_"+p.name] = rate(p.stated)
	}
	return []domain.Finding{{
		RuleID:   domain.RuleRateMismatch,
		Severity: domain.SeverityError,
		Message: fmt.Sprintf("line %d states %s %s but the rate in force for %s is %s",
			idx+1, off[0].name, rate(off[0].stated), li.HSNCode, rate(off[0].expected)),
		Evidence: ev,
	}}, nil
}
