package diagnostics

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auditledger-dev/auditledger/internal/model"
)

func overriddenRow(desc, ruleID string) model.LedgerRow {
	r := row("2024-01", ruleID, "-10", model.RecordTransaction)
	r.Description = desc
	r.WasOverridden = true
	return r
}

func metricsByName(metrics []MaskingMetric) map[string]MaskingMetric {
	out := make(map[string]MaskingMetric, len(metrics))
	for _, m := range metrics {
		out[m.Metric] = m
	}
	return out
}

func TestSummarizeOverrideMaskingNoWorkbook(t *testing.T) {
	metrics := SummarizeOverrideMasking(nil, nil, false)
	require.Len(t, metrics, 1)
	assert.Equal(t, "Overrides_Available", metrics[0].Metric)
	assert.Equal(t, "false", metrics[0].Value)
}

func TestSummarizeOverrideMasking(t *testing.T) {
	rows := []model.LedgerRow{
		row("2024-01", "R01_SALARY", "5000", model.RecordTransaction),
		overriddenRow("GIRO ACME CLUB", "R22_GENERIC_OUTFLOW"),
		overriddenRow("GIRO ACME CLUB", "R22_GENERIC_OUTFLOW"),
		overriddenRow("ONE OFF SHOP", "R21_OTHER_INCOME"),
		row("2024-01", "R00_BALANCE_BF", "0", model.RecordSummary),
	}
	overrides := []model.Override{
		{TxnID: "a", Enabled: true}, {TxnID: "b", Enabled: true}, {TxnID: "c", Enabled: true},
	}

	byName := metricsByName(SummarizeOverrideMasking(rows, overrides, true))

	assert.Equal(t, "true", byName["Overrides_Available"].Value)
	assert.Equal(t, "3", byName["Total_Overrides_Enabled"].Value)
	assert.Equal(t, "3", byName["Transactions_Overridden"].Value)
	// 3 of 4 transaction rows; the summary row is not in the base.
	assert.Equal(t, "75.00%", byName["Override_Pct"].Value)
	// Only the repeated description is a magnet.
	assert.Equal(t, "GIRO ACME CLUB (2x)", byName["Top_Override_Magnets"].Value)
	assert.Equal(t, "R22_GENERIC_OUTFLOW:2|R21_OTHER_INCOME:1", byName["Masked_Rules"].Value)
}

func TestSummarizeOverrideMaskingNoHits(t *testing.T) {
	rows := []model.LedgerRow{
		row("2024-01", "R01_SALARY", "5000", model.RecordTransaction),
	}
	byName := metricsByName(SummarizeOverrideMasking(rows, nil, true))

	assert.Equal(t, "0", byName["Transactions_Overridden"].Value)
	assert.Equal(t, "0.00%", byName["Override_Pct"].Value)
	assert.Equal(t, "None", byName["Top_Override_Magnets"].Value)
	assert.Equal(t, "None", byName["Masked_Rules"].Value)
}

func TestWriteOverrideMaskingReport(t *testing.T) {
	metrics := SummarizeOverrideMasking(nil, nil, false)

	var buf bytes.Buffer
	require.NoError(t, WriteOverrideMaskingReport(&buf, metrics))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Metric,Value,Note", lines[0])
	assert.Equal(t, "Overrides_Available,false,no override workbook configured", lines[1])
}
