package statement

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/auditledger-dev/auditledger/internal/model"
)

// Header is the CSV header for cleaned statement files.
const Header = "Date,YearMonth,Description,Amount,Balance,Withdrawals,Deposits,RowsMerged,SourceFile,RowOrder,Txn_ID"

const (
	numFields     = 11
	dateFormat    = "2006-01-02"
	colDate       = 0
	colYearMonth  = 1
	colDesc       = 2
	colAmount     = 3
	colBalance    = 4
	colWithdrawal = 5
	colDeposit    = 6
	colRowsMerged = 7
	colSource     = 8
	colRowOrder   = 9
	colTxnID      = 10
)

// ReadTransactions reads a cleaned statement CSV.
func ReadTransactions(r io.Reader) ([]model.Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading cleaned CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	var txns []model.Transaction
	for i, rec := range records[1:] {
		txn, err := UnmarshalTransaction(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		txns = append(txns, txn)
	}
	return txns, nil
}

// WriteTransactions writes a cleaned statement CSV (including header).
func WriteTransactions(w io.Writer, txns []model.Transaction) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, txn := range txns {
		if err := cw.Write(MarshalTransaction(txn)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// MarshalTransaction converts a Transaction to a CSV row.
func MarshalTransaction(t model.Transaction) []string {
	row := make([]string, numFields)
	if t.HasDate() {
		row[colDate] = t.Date.Format(dateFormat)
	}
	row[colYearMonth] = t.YearMonth
	row[colDesc] = t.Description
	row[colAmount] = t.Amount.StringFixed(2)
	row[colBalance] = nullDecimalString(t.Balance)
	row[colWithdrawal] = nullDecimalString(t.Withdrawal)
	row[colDeposit] = nullDecimalString(t.Deposit)
	row[colRowsMerged] = strconv.Itoa(t.RowsMerged)
	row[colSource] = t.SourceFile
	row[colRowOrder] = strconv.Itoa(t.RowOrder)
	row[colTxnID] = t.TxnID
	return row
}

// UnmarshalTransaction converts a CSV row to a Transaction.
func UnmarshalTransaction(record []string) (model.Transaction, error) {
	if len(record) != numFields {
		return model.Transaction{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	var date time.Time
	if record[colDate] != "" {
		var err error
		date, err = time.Parse(dateFormat, record[colDate])
		if err != nil {
			return model.Transaction{}, fmt.Errorf("parsing date %q: %w", record[colDate], err)
		}
	}

	amount, err := decimal.NewFromString(record[colAmount])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing amount %q: %w", record[colAmount], err)
	}

	balance, err := parseNullDecimal(record[colBalance])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing balance %q: %w", record[colBalance], err)
	}
	withdrawal, err := parseNullDecimal(record[colWithdrawal])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing withdrawals %q: %w", record[colWithdrawal], err)
	}
	deposit, err := parseNullDecimal(record[colDeposit])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing deposits %q: %w", record[colDeposit], err)
	}

	rowsMerged, err := strconv.Atoi(record[colRowsMerged])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing rows_merged %q: %w", record[colRowsMerged], err)
	}
	rowOrder, err := strconv.Atoi(record[colRowOrder])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing row_order %q: %w", record[colRowOrder], err)
	}

	return model.Transaction{
		Date:        date,
		YearMonth:   record[colYearMonth],
		Description: record[colDesc],
		Amount:      amount,
		Balance:     balance,
		Withdrawal:  withdrawal,
		Deposit:     deposit,
		RowsMerged:  rowsMerged,
		SourceFile:  record[colSource],
		RowOrder:    rowOrder,
		TxnID:       record[colTxnID],
	}, nil
}

func nullDecimalString(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.StringFixed(2)
}

func parseNullDecimal(s string) (decimal.NullDecimal, error) {
	if s == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}, nil
}
