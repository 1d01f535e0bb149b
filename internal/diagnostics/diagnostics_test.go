package diagnostics

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auditledger-dev/auditledger/internal/model"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func row(ym, ruleID, amount string, recordType model.RecordType) model.LedgerRow {
	return model.LedgerRow{
		Transaction: model.Transaction{YearMonth: ym, Amount: dec(amount)},
		Class:       model.ClassificationResult{RecordType: recordType, RuleID: ruleID},
	}
}

func sectionRow(ym, ruleID, amount string, section model.CashflowSection) model.LedgerRow {
	r := row(ym, ruleID, amount, model.RecordTransaction)
	r.Class.CashflowStatement = section
	return r
}

func TestSummarizeRules(t *testing.T) {
	rows := []model.LedgerRow{
		row("2024-01", "R01_SALARY", "5000", model.RecordTransaction),
		row("2024-01", "R22_GENERIC_OUTFLOW", "-100", model.RecordTransaction),
		row("2024-01", "R22_GENERIC_OUTFLOW", "-400", model.RecordTransaction),
		row("2024-01", "R00_BALANCE_BF", "0", model.RecordSummary),
	}

	impacts := SummarizeRules(rows)
	require.Len(t, impacts, 2)

	// Highest count first.
	fallback := impacts[0]
	assert.Equal(t, "R22_GENERIC_OUTFLOW", fallback.RuleID)
	assert.Equal(t, 2, fallback.Count)
	assert.True(t, fallback.IsFallback)
	assert.Equal(t, "66.67", fallback.CountShare.StringFixed(2))
	assert.Equal(t, "500.00", fallback.AbsAmount.StringFixed(2))
	// 500 of 5500 total absolute volume.
	assert.Equal(t, "9.09", fallback.AmountShare.StringFixed(2))

	salary := impacts[1]
	assert.Equal(t, "R01_SALARY", salary.RuleID)
	assert.False(t, salary.IsFallback)
	assert.Equal(t, "33.33", salary.CountShare.StringFixed(2))
}

func TestSummarizeRulesExcludesSummaryRows(t *testing.T) {
	rows := []model.LedgerRow{
		row("2024-01", "R00_BALANCE_BF", "0", model.RecordSummary),
	}
	assert.Empty(t, SummarizeRules(rows))
}

func TestMeasureFallbackPerRule(t *testing.T) {
	rows := []model.LedgerRow{
		// January inflows: 1000 of 6000 unmatched -> 16.67% WARNING.
		row("2024-01", "R01_SALARY", "5000", model.RecordTransaction),
		row("2024-01", "R21_OTHER_INCOME", "1000", model.RecordTransaction),
		// January outflows: 800 of 4000 unmatched -> 20% OK (outflow
		// cutoffs are looser than inflow cutoffs).
		row("2024-01", "R06_MORTGAGE", "-3200", model.RecordTransaction),
		row("2024-01", "R22_GENERIC_OUTFLOW", "-800", model.RecordTransaction),
		// February outflows: 600 of 1000 unmatched -> 60% CRITICAL.
		row("2024-02", "R20_BANK_FEES", "-400", model.RecordTransaction),
		row("2024-02", "R22_GENERIC_OUTFLOW", "-600", model.RecordTransaction),
	}

	pressure := MeasureFallback(rows, DefaultThresholds())
	require.Len(t, pressure, 4)

	janInflow := pressure[0]
	assert.Equal(t, "2024-01", janInflow.YearMonth)
	assert.Equal(t, "R21_OTHER_INCOME", janInflow.RuleID)
	assert.Equal(t, DirectionInflow, janInflow.Direction)
	assert.Equal(t, 2, janInflow.Transactions)
	assert.Equal(t, 1, janInflow.FallbackCount)
	assert.Equal(t, "1000.00", janInflow.DollarValue.StringFixed(2))
	assert.Equal(t, "16.67", janInflow.FallbackPct.StringFixed(2))
	assert.Equal(t, SeverityWarning, janInflow.Severity)

	janOutflow := pressure[1]
	assert.Equal(t, "R22_GENERIC_OUTFLOW", janOutflow.RuleID)
	assert.Equal(t, DirectionOutflow, janOutflow.Direction)
	assert.Equal(t, "20.00", janOutflow.FallbackPct.StringFixed(2))
	assert.Equal(t, SeverityOK, janOutflow.Severity)

	// February has no inflows at all: zero row, not a division error.
	febInflow := pressure[2]
	assert.Equal(t, "2024-02", febInflow.YearMonth)
	assert.Equal(t, "R21_OTHER_INCOME", febInflow.RuleID)
	assert.Equal(t, 0, febInflow.Transactions)
	assert.True(t, febInflow.FallbackPct.IsZero())
	assert.Equal(t, SeverityOK, febInflow.Severity)

	febOutflow := pressure[3]
	assert.Equal(t, "60.00", febOutflow.FallbackPct.StringFixed(2))
	assert.Equal(t, SeverityCritical, febOutflow.Severity)
}

func TestMeasureFallbackExcludesTransfersFromBase(t *testing.T) {
	rows := []model.LedgerRow{
		// A large internal transfer must not dilute the outflow share.
		sectionRow("2024-01", "R13_INTERNAL_TRANSFER", "-50000", model.CFSTransfer),
		row("2024-01", "R06_MORTGAGE", "-3200", model.RecordTransaction),
		row("2024-01", "R22_GENERIC_OUTFLOW", "-800", model.RecordTransaction),
	}

	pressure := MeasureFallback(rows, DefaultThresholds())
	require.Len(t, pressure, 2)
	outflow := pressure[1]
	assert.Equal(t, "R22_GENERIC_OUTFLOW", outflow.RuleID)
	assert.Equal(t, 2, outflow.Transactions)
	assert.Equal(t, "20.00", outflow.FallbackPct.StringFixed(2))
}

func TestSeverityThresholdsInclusive(t *testing.T) {
	th := DefaultThresholds()
	assert.Equal(t, SeverityOK, severity(dec("14.99"), th.InflowWarnPct, th.InflowCritPct))
	assert.Equal(t, SeverityWarning, severity(dec("15"), th.InflowWarnPct, th.InflowCritPct))
	assert.Equal(t, SeverityCritical, severity(dec("25"), th.InflowWarnPct, th.InflowCritPct))
	assert.Equal(t, SeverityOK, severity(dec("29.99"), th.OutflowWarnPct, th.OutflowCritPct))
	assert.Equal(t, SeverityWarning, severity(dec("30"), th.OutflowWarnPct, th.OutflowCritPct))
	assert.Equal(t, SeverityCritical, severity(dec("50"), th.OutflowWarnPct, th.OutflowCritPct))
}

func TestWriteReports(t *testing.T) {
	rows := []model.LedgerRow{
		row("2024-01", "R01_SALARY", "5000", model.RecordTransaction),
		row("2024-01", "R22_GENERIC_OUTFLOW", "-100", model.RecordTransaction),
	}

	var impactBuf bytes.Buffer
	require.NoError(t, WriteRuleImpactReport(&impactBuf, SummarizeRules(rows)))
	lines := strings.Split(strings.TrimSpace(impactBuf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Rule_ID,Count,CountSharePct,AbsAmount,AmountSharePct,IsFallback", lines[0])

	var fbBuf bytes.Buffer
	require.NoError(t, WriteFallbackReport(&fbBuf, MeasureFallback(rows, DefaultThresholds())))
	fbLines := strings.Split(strings.TrimSpace(fbBuf.String()), "\n")
	require.Len(t, fbLines, 3)
	assert.Equal(t, "YearMonth,Rule_ID,Direction,Transactions,FallbackCount,DollarValue,FallbackPct,Severity", fbLines[0])
	assert.Equal(t, "2024-01,R21_OTHER_INCOME,inflow,1,0,0.00,0.00,OK", fbLines[1])
	assert.Equal(t, "2024-01,R22_GENERIC_OUTFLOW,outflow,1,1,100.00,100.00,CRITICAL", fbLines[2])
}
