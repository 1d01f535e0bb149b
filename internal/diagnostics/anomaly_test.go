package diagnostics

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auditledger-dev/auditledger/internal/model"
)

func fallbackRow(ym, ruleID, desc, amount, rail string) model.LedgerRow {
	r := row(ym, ruleID, amount, model.RecordTransaction)
	r.Description = desc
	r.Class.BankRail = rail
	return r
}

func TestDetectAnomaliesGroupsByDescription(t *testing.T) {
	rows := []model.LedgerRow{
		fallbackRow("2024-01", "R22_GENERIC_OUTFLOW", "NETFLIX.COM", "-19.80", "CARD"),
		fallbackRow("2024-02", "R22_GENERIC_OUTFLOW", "netflix.com", "-19.80", "CARD"),
		fallbackRow("2024-03", "R22_GENERIC_OUTFLOW", "NETFLIX.COM", "-19.80", "GIRO"),
		fallbackRow("2024-02", "R21_OTHER_INCOME", "CASHBACK REWARD", "50.00", "GIRO"),
		// Matched rows never show up in the drilldown.
		fallbackRow("2024-01", "R01_SALARY", "SALARY PAYMENT", "5000.00", "GIRO"),
	}

	anomalies := DetectAnomalies(rows)
	require.Len(t, anomalies, 2)

	// Largest absolute total first.
	netflix := anomalies[0]
	assert.Equal(t, AnomalyDiscretionary, netflix.AnomalyType)
	assert.Equal(t, "NETFLIX.COM", netflix.Description)
	assert.Equal(t, "R22_GENERIC_OUTFLOW", netflix.RuleID)
	assert.Equal(t, 3, netflix.Count)
	assert.Equal(t, "-59.40", netflix.TotalAmount.StringFixed(2))
	assert.Equal(t, "-19.80", netflix.AvgAmount.StringFixed(2))
	assert.Equal(t, "2024-01", netflix.FirstYearMonth)
	assert.Equal(t, "2024-03", netflix.LastYearMonth)
	assert.Equal(t, 3, netflix.MonthsSpan)
	assert.Equal(t, 3, netflix.UniqueMonths)
	assert.Equal(t, RecurrenceRecurring, netflix.Recurrence)
	assert.Equal(t, "CARD:$39|GIRO:$19", netflix.RailBreakdown)
	assert.Equal(t, "SUBSCRIPTIONS/ENTERTAINMENT", netflix.SuggestedCategory)

	cashback := anomalies[1]
	assert.Equal(t, AnomalyOtherIncome, cashback.AnomalyType)
	assert.Equal(t, RecurrenceOneOff, cashback.Recurrence)
	assert.Equal(t, "INCOME/CASHBACK", cashback.SuggestedCategory)
}

func TestDetectAnomaliesSkipsWrongDirection(t *testing.T) {
	// Fallback rules are direction-bound; an opposite-signed row under a
	// fallback id would be a classifier bug, not an anomaly pattern.
	rows := []model.LedgerRow{
		fallbackRow("2024-01", "R21_OTHER_INCOME", "MYSTERY", "-10.00", ""),
		fallbackRow("2024-01", "R22_GENERIC_OUTFLOW", "MYSTERY", "10.00", ""),
	}
	assert.Empty(t, DetectAnomalies(rows))
}

func TestRecurrencePattern(t *testing.T) {
	tests := []struct {
		name         string
		count        int
		uniqueMonths int
		span         int
		want         string
	}{
		{"single occurrence", 1, 1, 1, RecurrenceOneOff},
		{"monthly over full span", 6, 6, 6, RecurrenceRecurring},
		{"three hits, seventy percent coverage", 3, 7, 10, RecurrenceRecurring},
		{"two hits, good coverage", 2, 2, 4, RecurrenceSporadic},
		{"three hits, thin coverage", 3, 3, 12, RecurrenceOneOff},
		{"two hits in one month", 2, 1, 1, RecurrenceSporadic},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, recurrencePattern(tt.count, tt.uniqueMonths, tt.span))
		})
	}
}

func TestMonthsSpan(t *testing.T) {
	assert.Equal(t, 1, monthsSpan("2024-01", "2024-01"))
	assert.Equal(t, 12, monthsSpan("2024-01", "2024-12"))
	assert.Equal(t, 14, monthsSpan("2023-12", "2025-01"))
	assert.Equal(t, 1, monthsSpan("", ""))
	assert.Equal(t, 1, monthsSpan("garbage", "2024-01"))
}

func TestNormalizeDescription(t *testing.T) {
	assert.Equal(t, "FUNDS TRANSFER REF 123", normalizeDescription("  funds   transfer\tref 123 "))
	long := strings.Repeat("A", 100)
	assert.Len(t, normalizeDescription(long), 80)
}

func TestSuggestCategory(t *testing.T) {
	tests := []struct {
		desc string
		want string
	}{
		{"SINGTEL BILL", "UTILITIES/TELECOM"},
		{"GRAB RIDE 4411", "TRANSPORT/RIDESHARE"},
		{"DIVIDEND PAYOUT", "INCOME/DIVIDEND"},
		{"FUNDS TRANSFER 1234567890", "POSSIBLE_TRANSFER"},
		{"SOMETHING ELSE", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, suggestCategory(tt.desc), tt.desc)
	}
}

func TestWriteAnomalyReport(t *testing.T) {
	rows := []model.LedgerRow{
		fallbackRow("2024-01", "R22_GENERIC_OUTFLOW", "SPOTIFY", "-9.90", "CARD"),
	}

	var buf bytes.Buffer
	require.NoError(t, WriteAnomalyReport(&buf, DetectAnomalies(rows)))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t,
		"Anomaly_Type,Description,Rule_ID,Txn_Count,Total_Amount,Avg_Amount,"+
			"First_YearMonth,Last_YearMonth,Months_Span,Unique_Months,Recurrence,"+
			"Bank_Rail_Breakdown,Suggested_Category",
		lines[0])
	assert.Equal(t,
		"DISCRETIONARY,SPOTIFY,R22_GENERIC_OUTFLOW,1,-9.90,-9.90,2024-01,2024-01,1,1,ONE_OFF,CARD:$9,SUBSCRIPTIONS/ENTERTAINMENT",
		lines[1])
}
