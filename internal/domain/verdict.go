package domain

import (
	"time"

	"github.com/google/uuid"
)

// Status is the composite outcome of a validation run.
type Status string

const (
	StatusPass        Status = "PASS"
	StatusFail        Status = "FAIL"
	StatusNeedsReview Status = "NEEDS_REVIEW"
)

// Verdict is the output contract of a validation run. It is created once per
// run and never mutated; a new run produces a new Verdict.
type Verdict struct {
	InvoiceRef  string    `json:"invoice_ref"`
	RunID       uuid.UUID `json:"run_id"`
	Findings    []Finding `json:"findings"`
	Status      Status    `json:"status"`
	EvaluatedAt time.Time `json:"evaluated_at"`
}

// NewVerdict derives the composite status from the findings and seals them
// into a Verdict. Status is never set directly: FAIL if any ERROR finding
// exists, NEEDS_REVIEW if any check was left incomplete and no ERROR exists,
// PASS otherwise.
func NewVerdict(invoiceRef string, findings []Finding, evaluatedAt time.Time) *Verdict {
	return &Verdict{
		InvoiceRef:  invoiceRef,
		RunID:       uuid.New(),
		Findings:    findings,
		Status:      deriveStatus(findings),
		EvaluatedAt: evaluatedAt,
	}
}

func deriveStatus(findings []Finding) Status {
	incomplete := false
	for _, f := range findings {
		if f.Severity == SeverityError {
			return StatusFail
		}
		if f.Incomplete() {
			incomplete = true
		}
	}
	if incomplete {
		return StatusNeedsReview
	}
	return StatusPass
}
