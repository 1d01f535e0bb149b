package statement

import (
	"fmt"
	"strings"
)

// Canonical raw statement columns expected from the OCR extraction step.
const (
	ColDate        = "Date"
	ColDescription = "Description"
	ColWithdrawals = "Withdrawals"
	ColDeposits    = "Deposits"
	ColBalance     = "Balance"
)

// RequiredColumns is the input schema contract, in canonical order.
var RequiredColumns = []string{ColDate, ColDescription, ColWithdrawals, ColDeposits, ColBalance}

// legacyColumns maps alternate header spellings seen across source
// variants to canonical columns. Declared up front and validated at load
// time rather than probed at each use site.
var legacyColumns = map[string]string{
	"DATE":                    ColDate,
	"TXN DATE":                ColDate,
	"TRANSACTION DATE":        ColDate,
	"DESCRIPTION":             ColDescription,
	"TRANSACTION DESCRIPTION": ColDescription,
	"DETAILS":                 ColDescription,
	"WITHDRAWALS":             ColWithdrawals,
	"WITHDRAWAL":              ColWithdrawals,
	"DEBIT":                   ColWithdrawals,
	"DEPOSITS":                ColDeposits,
	"DEPOSIT":                 ColDeposits,
	"CREDIT":                  ColDeposits,
	"BALANCE":                 ColBalance,
	"RUNNING BALANCE":         ColBalance,
}

// SchemaError reports required columns missing from an input file.
type SchemaError struct {
	SourceFile string
	Missing    []string
	Found      []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: missing required columns %v (found %v)",
		e.SourceFile, e.Missing, e.Found)
}

// resolveHeader maps a raw header row to canonical column indexes.
// Returns a SchemaError when any required column is absent.
func resolveHeader(header []string, sourceFile string) (map[string]int, error) {
	idx := make(map[string]int, len(RequiredColumns))
	for i, cell := range header {
		key := strings.ToUpper(strings.TrimSpace(cell))
		canonical, ok := legacyColumns[key]
		if !ok {
			continue
		}
		if _, seen := idx[canonical]; !seen {
			idx[canonical] = i
		}
	}

	var missing []string
	for _, c := range RequiredColumns {
		if _, ok := idx[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, &SchemaError{SourceFile: sourceFile, Missing: missing, Found: header}
	}
	return idx, nil
}
