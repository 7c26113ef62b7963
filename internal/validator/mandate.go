package validator

import (
	"context"
	"fmt"

	"invoiceguard/internal/domain"
	"invoiceguard/internal/lookup"
	"invoiceguard/internal/regulatory"
)

// evaluateMandate determines whether an IRN was required for this invoice.
// When the mandate source is unavailable a missing IRN cannot be asserted as
// a violation, so it is reported as a WARNING instead of an ERROR.
func (v *Validator) evaluateMandate(ctx context.Context, inv domain.RawInvoice) ([]domain.Finding, error) {
	queryKey := fmt.Sprintf("%s|%s", inv.SellerGSTIN, money(inv.InvoiceValue))
	ruling, err := lookup.Fetch(ctx, v.cache, regulatory.SourceMandate, queryKey, inv.InvoiceDate,
		func(ctx context.Context) (regulatory.MandateRuling, error) {
			return v.sources.Mandate.LookupMandate(ctx, inv.SellerGSTIN, inv.InvoiceDate, inv.InvoiceValue)
		})
	if err != nil {
		if fatal(err) {
			return nil, err
		}
		findings := []domain.Finding{incomplete("e-invoice mandate", regulatory.SourceMandate, err)}
		if inv.IRN == "" {
			findings = append(findings, domain.Finding{
				RuleID:   domain.RuleMissingRequiredIRN,
				Severity: domain.SeverityWarning,
				Message:  "invoice has no IRN and the mandate requirement could not be confirmed",
				Evidence: map[string]string{"seller_gstin": inv.SellerGSTIN},
			})
		}
		return findings, nil
	}

	if ruling.Required && inv.IRN == "" {
		return []domain.Finding{{
			RuleID:   domain.RuleMissingRequiredIRN,
			Severity: domain.SeverityError,
			Message:  "e-invoicing was mandatory for this invoice but no IRN is present",
			Evidence: map[string]string{
				"seller_gstin": inv.SellerGSTIN,
				"reason":       ruling.Reason,
				"threshold":    money(ruling.Threshold),
				"mandate_date": ruling.MandateDate.Format("2006-01-02"),
			},
		}}, nil
	}

	// Required with an IRN present: the IRN evaluator owns its correctness.
	return nil, nil
}
