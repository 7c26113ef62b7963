package domain

import "regexp"

// GSTIN structure: 2-digit state code, embedded 10-character PAN, entity code,
// the literal 'Z', and a check character. Only the structural shape is enforced
// here; registration status comes from the registry lookup.
var gstinPattern = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z][1-9A-Z]Z[0-9A-Z]$`)

var panPattern = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)

// ValidGSTIN reports whether s is a structurally well-formed GSTIN.
func ValidGSTIN(s string) bool {
	return gstinPattern.MatchString(s)
}

// ValidPAN reports whether s is a structurally well-formed PAN.
func ValidPAN(s string) bool {
	return panPattern.MatchString(s)
}

// GSTINStateCode returns the two-digit state code prefix, or "" when the
// GSTIN is malformed.
func GSTINStateCode(gstin string) string {
	if !ValidGSTIN(gstin) {
		return ""
	}
	return gstin[:2]
}

// GSTINEmbeddedPAN returns the PAN embedded in a GSTIN, or "" when the
// GSTIN is malformed.
func GSTINEmbeddedPAN(gstin string) string {
	if !ValidGSTIN(gstin) {
		return ""
	}
	return gstin[2:12]
}
