package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is one economic transaction produced by the statement
// normalizer. Date is the zero time when the statement row carried no
// parsable date; YearMonth is still populated (from the source filename)
// so the row can be period-bucketed.
type Transaction struct {
	Date        time.Time
	YearMonth   string // "2006-01"
	Description string
	Amount      decimal.Decimal // signed; positive = inflow
	Balance     decimal.NullDecimal
	Withdrawal  decimal.NullDecimal
	Deposit     decimal.NullDecimal
	RowsMerged  int    // physical statement rows merged into this transaction
	SourceFile  string // provenance: statement file the row came from
	RowOrder    int    // original file order; used for output ordering only
	TxnID       string // assigned once by identity.Assign, immutable after
}

// HasDate reports whether the row carried a parsable calendar date.
func (t Transaction) HasDate() bool {
	return !t.Date.IsZero()
}
