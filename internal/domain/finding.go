package domain

// Severity grades a finding.
type Severity string

const (
	SeverityInfo    Severity = "INFO"
	SeverityWarning Severity = "WARNING"
	SeverityError   Severity = "ERROR"
)

// Rule identifiers. Each is produced by exactly one check.
const (
	RuleInvalidFormat      = "INVALID_FORMAT"
	RuleGSTINNotFound      = "GSTIN_NOT_FOUND"
	RuleGSTINSuspended     = "GSTIN_SUSPENDED"
	RuleGSTINCancelled     = "GSTIN_CANCELLED"
	RuleIRNNotFound        = "IRN_NOT_FOUND"
	RuleIRNCancelled       = "IRN_CANCELLED"
	RuleIRNInvoiceMismatch = "IRN_INVOICE_MISMATCH"
	RuleMissingRequiredIRN = "MISSING_REQUIRED_IRN"
	RuleRateMismatch       = "RATE_MISMATCH"
	RuleUnknownHSN         = "UNKNOWN_HSN"
	RuleEnhancedTDS        = "ENHANCED_TDS_APPLICABLE"
	RuleTotalMismatch      = "TOTAL_MISMATCH"
	RuleLineTotalMismatch  = "LINE_TOTAL_MISMATCH"
	RuleMissingInvoiceNo   = "MISSING_INVOICE_NUMBER"
	RuleCheckIncomplete    = "CHECK_INCOMPLETE"
)

// Finding is one itemized validation result. Findings are immutable once
// constructed; each is created by exactly one check.
type Finding struct {
	RuleID   string            `json:"rule_id"`
	Severity Severity          `json:"severity"`
	Message  string            `json:"message"`
	Evidence map[string]string `json:"evidence,omitempty"`
}

// Incomplete reports whether the finding marks a check the engine could not
// bring to a definite conclusion. UNKNOWN_HSN counts: the stated rate was
// neither confirmed nor refuted.
func (f Finding) Incomplete() bool {
	return f.RuleID == RuleCheckIncomplete || f.RuleID == RuleUnknownHSN
}
