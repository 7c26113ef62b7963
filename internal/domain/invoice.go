package domain

import "time"

// RawInvoice is the structured output of the upstream extraction service.
// The engine treats it as read-only input: validation runs never mutate it.
type RawInvoice struct {
	SellerGSTIN   string     `json:"seller_gstin"`
	BuyerGSTIN    string     `json:"buyer_gstin,omitempty"`
	InvoiceNumber string     `json:"invoice_number"`
	InvoiceDate   time.Time  `json:"invoice_date"`
	InvoiceValue  float64    `json:"invoice_value"`
	LineItems     []LineItem `json:"line_items"`
	IRN           string     `json:"irn,omitempty"`
	SellerPAN     string     `json:"seller_pan"`
}

// LineItem is a single invoice line with its stated classification and taxes.
type LineItem struct {
	HSNCode      string  `json:"hsn_code"`
	Description  string  `json:"description"`
	Quantity     float64 `json:"quantity"`
	UnitRate     float64 `json:"unit_rate"`
	TaxableValue float64 `json:"taxable_value"`
	CGSTRate     float64 `json:"cgst_rate"`
	SGSTRate     float64 `json:"sgst_rate"`
	IGSTRate     float64 `json:"igst_rate"`
	CGSTAmount   float64 `json:"cgst_amount"`
	SGSTAmount   float64 `json:"sgst_amount"`
	IGSTAmount   float64 `json:"igst_amount"`
}

// TaxAmount returns the total tax stated on the line.
func (li LineItem) TaxAmount() float64 {
	return li.CGSTAmount + li.SGSTAmount + li.IGSTAmount
}

// Ref returns a stable human-readable reference for the invoice, used to tie
// a Verdict back to its input.
func (inv RawInvoice) Ref() string {
	return inv.SellerGSTIN + "/" + inv.InvoiceNumber
}
