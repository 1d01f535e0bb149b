package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInferRail(t *testing.T) {
	cfg := NewConfig(DefaultTokens())

	tests := []struct {
		desc string
		rail string
	}{
		{"GIRO PAYMENT AIA", "GIRO"},
		{"FAST TRANSFER", "FAST"},
		{"PAYNOW TO JOHN", "PAYNOW"},
		{"NETS PURCHASE", "NETS"},
		{"ATM 123", "ATM"},
		{"CASH WITHDRAWAL-ATM 79608204", "ATM"},
		{"CHEQUE DEPOSIT", "CHEQUE"},
		{"UOB CARDS BILL PAYMENT", "CARD"},
		{"MISC DEBIT", "OTHER"},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			assert.Equal(t, tt.rail, cfg.InferRail(tt.desc))
		})
	}
}

func TestDetectIssuer(t *testing.T) {
	cfg := NewConfig(DefaultTokens())

	tests := []struct {
		desc   string
		issuer string
	}{
		{"CITI BILL PAYMENT", "CITI"},
		{"STANDARD CHARTERED CC", "SCB"},
		{"HSBC CARDS", "HSBC"},
		{"AMERICAN EXPRESS", "AMEX"},
		{"LOCAL GROCER", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.issuer, cfg.detectIssuer(tt.desc))
	}
}

func TestContainsTokenNeedsExactSubstring(t *testing.T) {
	assert.True(t, containsToken("GIRO AIA PREMIUM", DefaultTokens().Insurers))
	assert.False(t, containsToken("GIRO XYZ PREMIUM", DefaultTokens().Insurers))
}

func TestFirstTokenFallback(t *testing.T) {
	assert.Equal(t, "MICROSOFT", firstToken("MICROSOFT SALARY", DefaultTokens().SalaryEmployers, "EMPLOYER"))
	assert.Equal(t, "EMPLOYER", firstToken("NOBODY", DefaultTokens().SalaryEmployers, "EMPLOYER"))
}
