// Package ledger reads and writes the classified transaction ledger CSV,
// the fixed column contract consumed by downstream reporting sinks.
package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/auditledger-dev/auditledger/internal/model"
)

// Header is the CSV header for the classified ledger.
const Header = "Date,YearMonth,Description,Amount,Balance,Withdrawals,Deposits,RowsMerged,SourceFile,RowOrder,Txn_ID," +
	"Record_Type,Flow_Nature,Cashflow_Statement,Economic_Purpose_L1,Economic_Purpose_L2,Asset_Context,Stability_Class," +
	"Baseline_Eligible,Event_Tag,Bank_Rail,Rule_ID,Rule_Explanation,Managerial_Purpose_L1,Managerial_Purpose_L2," +
	"Is_CC_Settlement,Was_Overridden,Override_ID_Applied,Override_Reason"

const (
	numFields  = 29
	dateFormat = "2006-01-02"

	colDate        = 0
	colYearMonth   = 1
	colDesc        = 2
	colAmount      = 3
	colBalance     = 4
	colWithdrawal  = 5
	colDeposit     = 6
	colRowsMerged  = 7
	colSource      = 8
	colRowOrder    = 9
	colTxnID       = 10
	colRecordType  = 11
	colFlowNature  = 12
	colCashflow    = 13
	colEconL1      = 14
	colEconL2      = 15
	colAssetCtx    = 16
	colStability   = 17
	colBaseline    = 18
	colEventTag    = 19
	colBankRail    = 20
	colRuleID      = 21
	colRuleExpl    = 22
	colMgrL1       = 23
	colMgrL2       = 24
	colIsCC        = 25
	colOverridden  = 26
	colOverrideID  = 27
	colOverrideWhy = 28
)

// Sort orders rows by (SourceFile, RowOrder), the canonical output order.
func Sort(rows []model.LedgerRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].SourceFile != rows[j].SourceFile {
			return rows[i].SourceFile < rows[j].SourceFile
		}
		return rows[i].RowOrder < rows[j].RowOrder
	})
}

// Write writes the classified ledger (including header) in canonical order.
func Write(w io.Writer, rows []model.LedgerRow) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, row := range rows {
		if err := cw.Write(Marshal(row)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// Read reads a classified ledger CSV.
func Read(r io.Reader) ([]model.LedgerRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading ledger CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	var rows []model.LedgerRow
	for i, rec := range records[1:] {
		row, err := Unmarshal(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Marshal converts a LedgerRow to a CSV record.
func Marshal(row model.LedgerRow) []string {
	rec := make([]string, numFields)
	if row.HasDate() {
		rec[colDate] = row.Date.Format(dateFormat)
	}
	rec[colYearMonth] = row.YearMonth
	rec[colDesc] = row.Description
	rec[colAmount] = row.Amount.StringFixed(2)
	rec[colBalance] = nullDecimalString(row.Balance)
	rec[colWithdrawal] = nullDecimalString(row.Withdrawal)
	rec[colDeposit] = nullDecimalString(row.Deposit)
	rec[colRowsMerged] = strconv.Itoa(row.RowsMerged)
	rec[colSource] = row.SourceFile
	rec[colRowOrder] = strconv.Itoa(row.RowOrder)
	rec[colTxnID] = row.TxnID
	rec[colRecordType] = string(row.Class.RecordType)
	rec[colFlowNature] = string(row.Class.FlowNature)
	rec[colCashflow] = string(row.Class.CashflowStatement)
	rec[colEconL1] = row.Class.EconomicL1
	rec[colEconL2] = row.Class.EconomicL2
	rec[colAssetCtx] = string(row.Class.AssetContext)
	rec[colStability] = string(row.Class.StabilityClass)
	rec[colBaseline] = formatBool(row.Class.BaselineEligible)
	rec[colEventTag] = string(row.Class.EventTag)
	rec[colBankRail] = row.Class.BankRail
	rec[colRuleID] = row.Class.RuleID
	rec[colRuleExpl] = row.Class.RuleExplanation
	rec[colMgrL1] = row.Class.ManagerialL1
	rec[colMgrL2] = row.Class.ManagerialL2
	rec[colIsCC] = formatBool(row.Class.IsCCSettlement)
	rec[colOverridden] = formatBool(row.WasOverridden)
	rec[colOverrideID] = row.OverrideIDApplied
	rec[colOverrideWhy] = row.OverrideReason
	return rec
}

// Unmarshal converts a CSV record to a LedgerRow.
func Unmarshal(rec []string) (model.LedgerRow, error) {
	if len(rec) != numFields {
		return model.LedgerRow{}, fmt.Errorf("expected %d fields, got %d", numFields, len(rec))
	}

	var date time.Time
	if rec[colDate] != "" {
		var err error
		date, err = time.Parse(dateFormat, rec[colDate])
		if err != nil {
			return model.LedgerRow{}, fmt.Errorf("parsing date %q: %w", rec[colDate], err)
		}
	}

	amount, err := decimal.NewFromString(rec[colAmount])
	if err != nil {
		return model.LedgerRow{}, fmt.Errorf("parsing amount %q: %w", rec[colAmount], err)
	}
	balance, err := parseNullDecimal(rec[colBalance])
	if err != nil {
		return model.LedgerRow{}, fmt.Errorf("parsing balance %q: %w", rec[colBalance], err)
	}
	withdrawal, err := parseNullDecimal(rec[colWithdrawal])
	if err != nil {
		return model.LedgerRow{}, fmt.Errorf("parsing withdrawals %q: %w", rec[colWithdrawal], err)
	}
	deposit, err := parseNullDecimal(rec[colDeposit])
	if err != nil {
		return model.LedgerRow{}, fmt.Errorf("parsing deposits %q: %w", rec[colDeposit], err)
	}
	rowsMerged, err := strconv.Atoi(rec[colRowsMerged])
	if err != nil {
		return model.LedgerRow{}, fmt.Errorf("parsing rows_merged %q: %w", rec[colRowsMerged], err)
	}
	rowOrder, err := strconv.Atoi(rec[colRowOrder])
	if err != nil {
		return model.LedgerRow{}, fmt.Errorf("parsing row_order %q: %w", rec[colRowOrder], err)
	}
	baseline, err := parseBool(rec[colBaseline])
	if err != nil {
		return model.LedgerRow{}, fmt.Errorf("parsing baseline_eligible: %w", err)
	}
	isCC, err := parseBool(rec[colIsCC])
	if err != nil {
		return model.LedgerRow{}, fmt.Errorf("parsing is_cc_settlement: %w", err)
	}
	overridden, err := parseBool(rec[colOverridden])
	if err != nil {
		return model.LedgerRow{}, fmt.Errorf("parsing was_overridden: %w", err)
	}

	return model.LedgerRow{
		Transaction: model.Transaction{
			Date:        date,
			YearMonth:   rec[colYearMonth],
			Description: rec[colDesc],
			Amount:      amount,
			Balance:     balance,
			Withdrawal:  withdrawal,
			Deposit:     deposit,
			RowsMerged:  rowsMerged,
			SourceFile:  rec[colSource],
			RowOrder:    rowOrder,
			TxnID:       rec[colTxnID],
		},
		Class: model.ClassificationResult{
			RecordType:        model.RecordType(rec[colRecordType]),
			FlowNature:        model.FlowNature(rec[colFlowNature]),
			CashflowStatement: model.CashflowSection(rec[colCashflow]),
			EconomicL1:        rec[colEconL1],
			EconomicL2:        rec[colEconL2],
			AssetContext:      model.AssetContext(rec[colAssetCtx]),
			StabilityClass:    model.StabilityClass(rec[colStability]),
			BaselineEligible:  baseline,
			EventTag:          model.EventTag(rec[colEventTag]),
			BankRail:          rec[colBankRail],
			RuleID:            rec[colRuleID],
			RuleExplanation:   rec[colRuleExpl],
			ManagerialL1:      rec[colMgrL1],
			ManagerialL2:      rec[colMgrL2],
			IsCCSettlement:    isCC,
		},
		WasOverridden:     overridden,
		OverrideIDApplied: rec[colOverrideID],
		OverrideReason:    rec[colOverrideWhy],
	}, nil
}

func formatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// parseBool accepts only the exact values the marshaler emits.
func parseBool(s string) (bool, error) {
	switch s {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean %q", s)
	}
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
