package validator

import (
	"context"
	"fmt"
	"time"

	"invoiceguard/internal/domain"
	"invoiceguard/internal/lookup"
	"invoiceguard/internal/regulatory"
)

// evaluateGSTIN checks one party's registration status as of the invoice
// date. role is "seller" or "buyer" and lands in the finding evidence.
// Malformed GSTINs fail locally without touching the registry.
func (v *Validator) evaluateGSTIN(ctx context.Context, gstin, role string, invoiceDate time.Time) ([]domain.Finding, error) {
	if !domain.ValidGSTIN(gstin) {
		return []domain.Finding{{
			RuleID:   domain.RuleInvalidFormat,
			Severity: domain.SeverityError,
			Message:  fmt.Sprintf("%s GSTIN is not a structurally valid GSTIN", role),
			Evidence: map[string]string{"role": role, "gstin": gstin},
		}}, nil
	}

	rec, err := lookup.Fetch(ctx, v.cache, regulatory.SourceGSTINRegistry, gstin, invoiceDate,
		func(ctx context.Context) (regulatory.GSTINRecord, error) {
			return v.sources.GSTIN.LookupGSTIN(ctx, gstin)
		})
	if err != nil {
		if fatal(err) {
			return nil, err
		}
		if regulatory.IsNotFound(err) {
			return []domain.Finding{{
				RuleID:   domain.RuleGSTINNotFound,
				Severity: domain.SeverityError,
				Message:  fmt.Sprintf("%s GSTIN is not present in the registry", role),
				Evidence: map[string]string{"role": role, "gstin": gstin},
			}}, nil
		}
		return []domain.Finding{incomplete(role+" GSTIN status", regulatory.SourceGSTINRegistry, err)}, nil
	}

	if rec.InactiveAsOf(invoiceDate) {
		ruleID := domain.RuleGSTINSuspended
		if rec.Status == regulatory.RegistrationCancelled {
			ruleID = domain.RuleGSTINCancelled
		}
		return []domain.Finding{{
			RuleID:   ruleID,
			Severity: domain.SeverityError,
			Message:  fmt.Sprintf("%s GSTIN was %s as of the invoice date", role, rec.Status),
			Evidence: map[string]string{
				"role":        role,
				"gstin":       gstin,
				"status":      string(rec.Status),
				"status_date": rec.StatusDate.Format("2006-01-02"),
				"reason":      rec.StatusReason,
			},
		}}, nil
	}

	// Registered and active on the invoice date: nothing to report.
	return nil, nil
}
