package validator

import (
	"context"

	"invoiceguard/internal/domain"
	"invoiceguard/internal/lookup"
	"invoiceguard/internal/regulatory"
)

// evaluateWithholding flags sellers with non-filer status. This is an
// informational compliance flag: it never escalates past WARNING and never
// fails an invoice on its own.
func (v *Validator) evaluateWithholding(ctx context.Context, inv domain.RawInvoice) ([]domain.Finding, error) {
	if !domain.ValidPAN(inv.SellerPAN) {
		return []domain.Finding{{
			RuleID:   domain.RuleInvalidFormat,
			Severity: domain.SeverityWarning,
			Message:  "seller PAN is not a structurally valid PAN; withholding status not checked",
			Evidence: map[string]string{"pan": inv.SellerPAN},
		}}, nil
	}

	status, err := lookup.Fetch(ctx, v.cache, regulatory.SourceFilerRegistry, inv.SellerPAN, inv.InvoiceDate,
		func(ctx context.Context) (regulatory.FilerStatus, error) {
			return v.sources.Filers.LookupFiler(ctx, inv.SellerPAN)
		})
	if err != nil {
		if fatal(err) {
			return nil, err
		}
		return []domain.Finding{incomplete("withholding status", regulatory.SourceFilerRegistry, err)}, nil
	}

	if status.EnhancedTDS {
		return []domain.Finding{{
			RuleID:   domain.RuleEnhancedTDS,
			Severity: domain.SeverityWarning,
			Message:  "seller PAN carries non-filer status; enhanced withholding applies",
			Evidence: map[string]string{
				"pan":         inv.SellerPAN,
				"reason":      status.Reason,
				"verified_on": status.VerifiedOn.Format("2006-01-02"),
			},
		}}, nil
	}

	return nil, nil
}
