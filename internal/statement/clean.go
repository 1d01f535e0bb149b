package statement

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/auditledger-dev/auditledger/internal/model"
)

// rawRow is one physical statement row after header resolution.
type rawRow struct {
	date        string
	description string
	withdrawals string
	deposits    string
	balance     string
}

// Clean reads one raw statement CSV from disk and normalizes it into one
// row per economic transaction.
func Clean(path string) ([]model.Transaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening statement %s: %w", path, err)
	}
	defer f.Close()

	return CleanReader(f, filepath.Base(path))
}

// CleanReader normalizes a raw statement CSV from r. sourceFile is the
// provenance name attached to every output row and the source of the
// year/month fallback for dates missing a year.
func CleanReader(r io.Reader, sourceFile string) ([]model.Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // OCR extracts are ragged

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading statement CSV %s: %w", sourceFile, err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	idx, err := resolveHeader(records[0], sourceFile)
	if err != nil {
		return nil, err
	}

	var rows []rawRow
	for _, rec := range records[1:] {
		row := rawRow{
			date:        cell(rec, idx[ColDate]),
			description: cell(rec, idx[ColDescription]),
			withdrawals: cell(rec, idx[ColWithdrawals]),
			deposits:    cell(rec, idx[ColDeposits]),
			balance:     cell(rec, idx[ColBalance]),
		}
		if isNoiseRow(row) {
			continue
		}
		rows = append(rows, row)
	}

	year, fileMonth := InferYearMonth(sourceFile)

	merged := mergeContinuations(rows)

	txns := make([]model.Transaction, 0, len(merged))
	for order, g := range merged {
		txn := buildTransaction(g, year, fileMonth, sourceFile, order)
		if emptyTransaction(txn) {
			continue
		}
		txns = append(txns, txn)
	}

	// Re-number after dropping no-signal rows so RowOrder stays dense.
	for i := range txns {
		txns[i].RowOrder = i
	}
	return txns, nil
}

func cell(rec []string, i int) string {
	if i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

// isNoiseRow detects repeated page headers, currency header rows, and
// fully blank separator rows.
func isNoiseRow(r rawRow) bool {
	w, d, b := strings.ToUpper(r.withdrawals), strings.ToUpper(r.deposits), strings.ToUpper(r.balance)

	// Currency header: the three numeric columns all show the currency code.
	if w == "SGD" && d == "SGD" && b == "SGD" {
		return true
	}

	date, desc := strings.ToUpper(r.date), strings.ToUpper(r.description)
	tokens := map[string]bool{date: true, desc: true, w: true, d: true, b: true}
	if tokens["DATE"] && tokens["DESCRIPTION"] {
		return true
	}
	if date == "DATE" || desc == "DESCRIPTION" || b == "BALANCE" {
		return true
	}

	return r.date == "" && r.description == "" && r.withdrawals == "" && r.deposits == "" && r.balance == ""
}

// isAnchor reports whether a row starts a new transaction: it carries a
// date or any numeric field. Rows without such markers are continuation
// lines of the preceding anchor's wrapped description.
func isAnchor(r rawRow) bool {
	return r.date != "" || r.withdrawals != "" || r.deposits != "" || r.balance != ""
}

// mergeContinuations groups continuation rows into their anchors,
// space-joining wrapped description text in original file order. A file
// that opens with a continuation row gets that row promoted to an anchor.
func mergeContinuations(rows []rawRow) []mergedRow {
	var merged []mergedRow
	for i, r := range rows {
		if i == 0 || isAnchor(r) {
			merged = append(merged, mergedRow{rawRow: r, rowsMerged: 1})
			continue
		}
		last := &merged[len(merged)-1]
		if r.description != "" {
			if last.description != "" {
				last.description += " " + r.description
			} else {
				last.description = r.description
			}
		}
		last.rowsMerged++
	}
	return merged
}

type mergedRow struct {
	rawRow
	rowsMerged int
}

func buildTransaction(g mergedRow, year int, fileMonth time.Month, sourceFile string, order int) model.Transaction {
	withdrawal := parseAmount(g.withdrawals)
	deposit := parseAmount(g.deposits)
	balance := parseAmount(g.balance)

	// Net amount: a missing side counts as zero so a one-sided row never
	// produces a missing amount.
	amount := orZero(deposit).Sub(orZero(withdrawal))

	date := parseDate(g.date, year)

	yearMonth := ""
	switch {
	case !date.IsZero():
		yearMonth = date.Format("2006-01")
	case year != 0 && fileMonth != 0:
		yearMonth = fmt.Sprintf("%04d-%02d", year, int(fileMonth))
	}

	return model.Transaction{
		Date:        date,
		YearMonth:   yearMonth,
		Description: collapseWS(g.description),
		Amount:      amount,
		Balance:     balance,
		Withdrawal:  withdrawal,
		Deposit:     deposit,
		RowsMerged:  g.rowsMerged,
		SourceFile:  sourceFile,
		RowOrder:    order,
	}
}

func orZero(d decimal.NullDecimal) decimal.Decimal {
	if !d.Valid {
		return decimal.Zero
	}
	return d.Decimal
}

// emptyTransaction reports a no-signal row: no date, no description, zero
// amount, no balance. These carry nothing worth keeping.
func emptyTransaction(t model.Transaction) bool {
	return !t.HasDate() && t.Description == "" && t.Amount.IsZero() && !t.Balance.Valid
}
