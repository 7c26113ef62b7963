package regulatory

import "time"

// Source identifies a regulatory data source. Used as the cache partition key
// and as the label on metrics and findings.
type Source string

const (
	SourceGSTINRegistry Source = "gstin_registry"
	SourceIRNRegistry   Source = "irn_registry"
	SourceRateTable     Source = "hsn_rate_table"
	SourceMandate       Source = "einvoice_mandate"
	SourceFilerRegistry Source = "filer_registry"
)

// RegistrationStatus is the lifecycle state of a GSTIN registration.
type RegistrationStatus string

const (
	RegistrationActive    RegistrationStatus = "ACTIVE"
	RegistrationSuspended RegistrationStatus = "SUSPENDED"
	RegistrationCancelled RegistrationStatus = "CANCELLED"
)

// GSTINRecord is the registry's view of one registration. StatusDate and
// StatusReason are populated only for suspended/cancelled registrations;
// constructors below keep the variants honest.
type GSTINRecord struct {
	GSTIN        string             `json:"gstin"`
	LegalName    string             `json:"legal_name"`
	Status       RegistrationStatus `json:"status"`
	StatusDate   time.Time          `json:"status_date,omitzero"`
	StatusReason string             `json:"status_reason,omitempty"`
}

// ActiveRegistration builds the ACTIVE variant.
func ActiveRegistration(gstin, legalName string) GSTINRecord {
	return GSTINRecord{GSTIN: gstin, LegalName: legalName, Status: RegistrationActive}
}

// InactiveRegistration builds the SUSPENDED or CANCELLED variant with its
// mandatory effective date and reason.
func InactiveRegistration(gstin, legalName string, status RegistrationStatus, date time.Time, reason string) GSTINRecord {
	return GSTINRecord{
		GSTIN:        gstin,
		LegalName:    legalName,
		Status:       status,
		StatusDate:   date,
		StatusReason: reason,
	}
}

// InactiveAsOf reports whether the registration was suspended or cancelled on
// or before the given date.
func (r GSTINRecord) InactiveAsOf(date time.Time) bool {
	if r.Status == RegistrationActive {
		return false
	}
	return !r.StatusDate.After(date)
}

// IRNStatus is the lifecycle state of a reported e-invoice.
type IRNStatus string

const (
	IRNActive    IRNStatus = "ACTIVE"
	IRNCancelled IRNStatus = "CANCELLED"
)

// IRNRecord is the e-invoice registry's view of one reported invoice. The
// invoice details echo what was reported at registration time and are used
// for cross-checking against the extracted invoice.
type IRNRecord struct {
	IRN           string    `json:"irn"`
	Status        IRNStatus `json:"status"`
	CancelReason  string    `json:"cancel_reason,omitempty"`
	SellerGSTIN   string    `json:"seller_gstin"`
	BuyerGSTIN    string    `json:"buyer_gstin"`
	InvoiceNumber string    `json:"invoice_number"`
	InvoiceValue  float64   `json:"invoice_value"`
}

// RateBand is one time-versioned rate entry for an HSN/SAC code. EffectiveTo
// is nil for the currently open band.
type RateBand struct {
	HSNCode       string     `json:"hsn_code"`
	CGST          float64    `json:"cgst"`
	SGST          float64    `json:"sgst"`
	IGST          float64    `json:"igst"`
	EffectiveFrom time.Time  `json:"effective_from"`
	EffectiveTo   *time.Time `json:"effective_to,omitempty"`
}

// Covers reports whether the band is in force on the given date.
func (b RateBand) Covers(date time.Time) bool {
	if date.Before(b.EffectiveFrom) {
		return false
	}
	return b.EffectiveTo == nil || date.Before(*b.EffectiveTo)
}

// MandateRuling answers whether e-invoicing was mandatory for a given seller,
// date, and invoice value.
type MandateRuling struct {
	Required    bool      `json:"required"`
	Reason      string    `json:"reason"`
	Threshold   float64   `json:"threshold"`
	MandateDate time.Time `json:"mandate_date,omitzero"`
}

// FilerStatus is the withholding-tax registry's view of one PAN.
type FilerStatus struct {
	PAN         string    `json:"pan"`
	EnhancedTDS bool      `json:"enhanced_tds"`
	Reason      string    `json:"reason,omitempty"`
	VerifiedOn  time.Time `json:"verified_on"`
}
