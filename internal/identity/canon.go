// Package identity assigns each transaction a stable, content-addressed
// identifier. The identifier depends only on the transaction's economic
// content, never on ingestion order, so re-ingesting the same statements
// in any row order yields the same IDs.
package identity

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// missingDate is the sentinel used when a transaction has no parsable date.
const missingDate = "NA"

// missingNumeric is the sentinel for absent optional numerics inside the
// fingerprint.
const missingNumeric = "NaN"

// CanonDate canonicalizes a date to an ISO string, or the fixed sentinel
// when absent.
func CanonDate(t time.Time) string {
	if t.IsZero() {
		return missingDate
	}
	return t.Format("2006-01-02")
}

// CanonText collapses whitespace and upper-cases free text so formatting
// noise cannot change an identifier.
func CanonText(s string) string {
	return strings.ToUpper(strings.Join(strings.Fields(s), " "))
}

// CanonCents converts an amount to an integer minor-currency-units string.
// Identifier-critical fields must be numeric; absence is an error here,
// not a sentinel.
func CanonCents(d decimal.Decimal) string {
	return d.Shift(2).Round(0).String()
}

// canonNullCents renders an optional numeric for the fingerprint.
func canonNullCents(d decimal.NullDecimal) string {
	if !d.Valid {
		return missingNumeric
	}
	return CanonCents(d.Decimal)
}

// fieldError names the offending field and value for parse failures.
func fieldError(field, value, source string) error {
	return fmt.Errorf("missing %s for identifier canonicalization (source %s, value %q)", field, source, value)
}
