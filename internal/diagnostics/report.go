package diagnostics

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/auditledger-dev/auditledger/internal/statement"
)

// WriteReconciliationReport writes reconciliation results as CSV.
func WriteReconciliationReport(w io.Writer, results []statement.ReconcileResult) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"SourceFile", "YearMonth", "OpeningBalance", "SumAmount", "ClosingBalance", "Delta", "OK"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, r := range results {
		opening, closing, delta := "", "", ""
		if r.OpeningBalance.Valid {
			opening = r.OpeningBalance.Decimal.StringFixed(2)
		}
		if r.ClosingBalance.Valid {
			closing = r.ClosingBalance.Decimal.StringFixed(2)
		}
		if r.Delta.Valid {
			delta = r.Delta.Decimal.StringFixed(2)
		}
		rec := []string{
			r.SourceFile, r.YearMonth, opening,
			r.SumAmount.StringFixed(2), closing, delta,
			strconv.FormatBool(r.OK),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// WriteRuleImpactReport writes the per-rule summary as CSV.
func WriteRuleImpactReport(w io.Writer, impacts []RuleImpact) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"Rule_ID", "Count", "CountSharePct", "AbsAmount", "AmountSharePct", "IsFallback"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, r := range impacts {
		rec := []string{
			r.RuleID,
			strconv.Itoa(r.Count),
			r.CountShare.StringFixed(2),
			r.AbsAmount.StringFixed(2),
			r.AmountShare.StringFixed(2),
			strconv.FormatBool(r.IsFallback),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// WriteFallbackReport writes per-rule monthly fallback pressure as CSV.
func WriteFallbackReport(w io.Writer, pressure []FallbackPressure) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"YearMonth", "Rule_ID", "Direction", "Transactions", "FallbackCount", "DollarValue", "FallbackPct", "Severity"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, p := range pressure {
		rec := []string{
			p.YearMonth,
			p.RuleID,
			p.Direction,
			strconv.Itoa(p.Transactions),
			strconv.Itoa(p.FallbackCount),
			p.DollarValue.StringFixed(2),
			p.FallbackPct.StringFixed(2),
			p.Severity,
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// WriteAnomalyReport writes the fallback-description drilldown as CSV.
func WriteAnomalyReport(w io.Writer, anomalies []CategoryAnomaly) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{
		"Anomaly_Type", "Description", "Rule_ID", "Txn_Count", "Total_Amount", "Avg_Amount",
		"First_YearMonth", "Last_YearMonth", "Months_Span", "Unique_Months", "Recurrence",
		"Bank_Rail_Breakdown", "Suggested_Category",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, a := range anomalies {
		rec := []string{
			a.AnomalyType,
			a.Description,
			a.RuleID,
			strconv.Itoa(a.Count),
			a.TotalAmount.StringFixed(2),
			a.AvgAmount.StringFixed(2),
			a.FirstYearMonth,
			a.LastYearMonth,
			strconv.Itoa(a.MonthsSpan),
			strconv.Itoa(a.UniqueMonths),
			a.Recurrence,
			a.RailBreakdown,
			a.SuggestedCategory,
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// WriteOverrideMaskingReport writes the override-masking metrics as CSV.
func WriteOverrideMaskingReport(w io.Writer, metrics []MaskingMetric) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"Metric", "Value", "Note"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, m := range metrics {
		if err := cw.Write([]string{m.Metric, m.Value, m.Note}); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}
