package validator

import (
	"fmt"
	"math"
	"strconv"

	"invoiceguard/internal/domain"
)

// crossChecks are engine-level consistency rules computed locally from the
// invoice itself, independent of any regulatory source.
func crossChecks(inv domain.RawInvoice) []domain.Finding {
	var findings []domain.Finding

	if inv.InvoiceNumber == "" {
		findings = append(findings, domain.Finding{
			RuleID:   domain.RuleMissingInvoiceNo,
			Severity: domain.SeverityError,
			Message:  "invoice number is missing",
		})
	}

	for i, li := range inv.LineItems {
		if li.Quantity == 0 || li.UnitRate == 0 {
			continue
		}
		expected := li.Quantity * li.UnitRate
		if math.Abs(expected-li.TaxableValue) > ValueTolerance {
			findings = append(findings, domain.Finding{
				RuleID:   domain.RuleLineTotalMismatch,
				Severity: domain.SeverityError,
				Message:  fmt.Sprintf("line %d taxable value disagrees with quantity times unit rate", i+1),
				Evidence: map[string]string{
					"line":     strconv.Itoa(i + 1),
					"expected": money(expected),
					"stated":   money(li.TaxableValue),
				},
			})
		}
	}

	var total float64
	for _, li := range inv.LineItems {
		total += li.TaxableValue + li.TaxAmount()
	}
	if len(inv.LineItems) > 0 && math.Abs(total-inv.InvoiceValue) > ValueTolerance {
		findings = append(findings, domain.Finding{
			RuleID:   domain.RuleTotalMismatch,
			Severity: domain.SeverityError,
			Message:  "sum of line taxable values and taxes disagrees with the invoice value",
			Evidence: map[string]string{
				"computed_total": money(total),
				"invoice_value":  money(inv.InvoiceValue),
			},
		})
	}

	return findings
}
