package validator

import (
	"context"
	"fmt"
	"math"
	"strings"

	"invoiceguard/internal/domain"
	"invoiceguard/internal/lookup"
	"invoiceguard/internal/regulatory"
)

// evaluateIRN verifies the e-invoice reference when one is present. The
// mandate evaluator decides whether an absent IRN is a problem, so absence
// skips the whole check.
func (v *Validator) evaluateIRN(ctx context.Context, inv domain.RawInvoice) ([]domain.Finding, error) {
	if inv.IRN == "" {
		return nil, nil
	}

	rec, err := lookup.Fetch(ctx, v.cache, regulatory.SourceIRNRegistry, inv.IRN, inv.InvoiceDate,
		func(ctx context.Context) (regulatory.IRNRecord, error) {
			return v.sources.IRN.LookupIRN(ctx, inv.IRN)
		})
	if err != nil {
		if fatal(err) {
			return nil, err
		}
		if regulatory.IsNotFound(err) {
			return []domain.Finding{{
				RuleID:   domain.RuleIRNNotFound,
				Severity: domain.SeverityError,
				Message:  "IRN is not present in the e-invoice registry",
				Evidence: map[string]string{"irn": inv.IRN},
			}}, nil
		}
		return []domain.Finding{incomplete("IRN status", regulatory.SourceIRNRegistry, err)}, nil
	}

	if rec.Status == regulatory.IRNCancelled {
		return []domain.Finding{{
			RuleID:   domain.RuleIRNCancelled,
			Severity: domain.SeverityError,
			Message:  "IRN was cancelled in the e-invoice registry",
			Evidence: map[string]string{
				"irn":    inv.IRN,
				"reason": rec.CancelReason,
			},
		}}, nil
	}

	// Active: the registered invoice details must match what was extracted.
	var mismatches []string
	ev := map[string]string{"irn": inv.IRN}
	if math.Abs(rec.InvoiceValue-inv.InvoiceValue) > ValueTolerance {
		mismatches = append(mismatches, "invoice_value")
		ev["registered_value"] = money(rec.InvoiceValue)
		ev["stated_value"] = money(inv.InvoiceValue)
	}
	if rec.SellerGSTIN != inv.SellerGSTIN {
		mismatches = append(mismatches, "seller_gstin")
		ev["registered_seller"] = rec.SellerGSTIN
		ev["stated_seller"] = inv.SellerGSTIN
	}
	if inv.BuyerGSTIN != "" && rec.BuyerGSTIN != inv.BuyerGSTIN {
		mismatches = append(mismatches, "buyer_gstin")
		ev["registered_buyer"] = rec.BuyerGSTIN
		ev["stated_buyer"] = inv.BuyerGSTIN
	}
	if len(mismatches) > 0 {
		ev["fields"] = strings.Join(mismatches, ",")
		return []domain.Finding{{
			RuleID:   domain.RuleIRNInvoiceMismatch,
			Severity: domain.SeverityError,
			Message:  fmt.Sprintf("invoice disagrees with registered e-invoice on %s", strings.Join(mismatches, ", ")),
			Evidence: ev,
		}}, nil
	}

	return nil, nil
}
