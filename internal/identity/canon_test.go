package identity

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCanonDate(t *testing.T) {
	assert.Equal(t, "NA", CanonDate(time.Time{}))
	assert.Equal(t, "2024-01-05", CanonDate(time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)))
}

func TestCanonText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  Salary   Payment  ", "SALARY PAYMENT"},
		{"giro\tpayment\nAIA", "GIRO PAYMENT AIA"},
		{"", ""},
		{"ALREADY CANONICAL", "ALREADY CANONICAL"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CanonText(tt.in))
	}
}

func TestCanonCents(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"5000.00", "500000"},
		{"-5.50", "-550"},
		{"0", "0"},
		{"0.005", "1"}, // rounds to the nearest cent
		{"1234.567", "123457"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CanonCents(dec(tt.in)))
	}
}

func TestCanonNullCents(t *testing.T) {
	assert.Equal(t, "NaN", canonNullCents(decimal.NullDecimal{}))
	assert.Equal(t, "12345", canonNullCents(nullDec("123.45")))
}
