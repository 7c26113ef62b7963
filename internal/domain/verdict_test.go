package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestVerdictStatusDerivation(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name     string
		findings []Finding
		want     Status
	}{
		{"no findings", nil, StatusPass},
		{"info only", []Finding{
			{RuleID: RuleEnhancedTDS, Severity: SeverityInfo},
		}, StatusPass},
		{"plain warning passes", []Finding{
			{RuleID: RuleEnhancedTDS, Severity: SeverityWarning},
		}, StatusPass},
		{"incomplete check needs review", []Finding{
			{RuleID: RuleCheckIncomplete, Severity: SeverityWarning},
		}, StatusNeedsReview},
		{"unknown hsn needs review", []Finding{
			{RuleID: RuleUnknownHSN, Severity: SeverityWarning},
		}, StatusNeedsReview},
		{"error wins over incomplete", []Finding{
			{RuleID: RuleCheckIncomplete, Severity: SeverityWarning},
			{RuleID: RuleRateMismatch, Severity: SeverityError},
		}, StatusFail},
		{"any error fails", []Finding{
			{RuleID: RuleGSTINSuspended, Severity: SeverityError},
		}, StatusFail},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewVerdict("ref", tt.findings, now)
			assert.Equal(t, tt.want, v.Status)
		})
	}
}

func TestVerdictIsSealedPerRun(t *testing.T) {
	v1 := NewVerdict("ref", nil, time.Now())
	v2 := NewVerdict("ref", nil, time.Now())
	assert.NotEqual(t, v1.RunID, v2.RunID)
}
