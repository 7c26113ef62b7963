package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidGSTIN(t *testing.T) {
	tests := []struct {
		name  string
		gstin string
		want  bool
	}{
		{"well-formed", "27AABCT1234F1ZP", true},
		{"another state", "29AAACB5671G1Z2", true},
		{"too short", "27AABCT1234F1Z", false},
		{"too long", "27AABCT1234F1ZPX", false},
		{"lowercase", "27aabct1234f1zp", false},
		{"missing Z marker", "27AABCT1234F1XP", false},
		{"non-numeric state code", "2AAABCT1234F1ZP", false},
		{"digits in PAN letters", "27AAB1T1234F1ZP", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidGSTIN(tt.gstin))
		})
	}
}

func TestValidPAN(t *testing.T) {
	tests := []struct {
		name string
		pan  string
		want bool
	}{
		{"well-formed", "AABCT1234F", true},
		{"too short", "AABCT1234", false},
		{"lowercase", "aabct1234f", false},
		{"trailing digit", "AABCT12345", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidPAN(tt.pan))
		})
	}
}

func TestGSTINComponents(t *testing.T) {
	assert.Equal(t, "27", GSTINStateCode("27AABCT1234F1ZP"))
	assert.Equal(t, "AABCT1234F", GSTINEmbeddedPAN("27AABCT1234F1ZP"))
	assert.Empty(t, GSTINStateCode("bogus"))
	assert.Empty(t, GSTINEmbeddedPAN("bogus"))
}
