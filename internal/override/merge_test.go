package override

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auditledger-dev/auditledger/internal/model"
)

func classifiedRow(txnID string) model.LedgerRow {
	return model.LedgerRow{
		Transaction: model.Transaction{TxnID: txnID, Description: "UNKNOWN MERCHANT"},
		Class: model.ClassificationResult{
			RecordType:        model.RecordTransaction,
			FlowNature:        model.FlowExpense,
			CashflowStatement: model.CFSOperating,
			EconomicL1:        "LIFESTYLE",
			EconomicL2:        "DISCRETIONARY",
			BaselineEligible:  false,
			RuleID:            "R22_GENERIC_OUTFLOW",
			ManagerialL1:      "LIFESTYLE",
			ManagerialL2:      "DISCRETIONARY",
		},
	}
}

func boolPtr(b bool) *bool { return &b }

func TestApplyNonBlankFieldsOnly(t *testing.T) {
	rows := []model.LedgerRow{classifiedRow("t1")}
	overrides := []model.Override{{
		TxnID:      "t1",
		EconomicL1: "INSURANCE",
		EconomicL2: "PREMIUM",
		Reason:     "recurring premium misread as discretionary",
		Enabled:    true,
		OverrideID: "OVR_0001",
	}}

	out := Apply(rows, overrides)
	require.Len(t, out, 1)
	got := out[0]

	assert.Equal(t, "INSURANCE", got.Class.EconomicL1)
	assert.Equal(t, "PREMIUM", got.Class.EconomicL2)
	// Blank cashflow field keeps the engine's value.
	assert.Equal(t, model.CFSOperating, got.Class.CashflowStatement)
	assert.True(t, got.WasOverridden)
	assert.Equal(t, "OVR_0001", got.OverrideIDApplied)
	assert.Equal(t, "recurring premium misread as discretionary", got.OverrideReason)
	// RuleID still names the original engine rule.
	assert.Equal(t, "R22_GENERIC_OUTFLOW", got.Class.RuleID)

	// The input slice is untouched.
	assert.False(t, rows[0].WasOverridden)
	assert.Equal(t, "LIFESTYLE", rows[0].Class.EconomicL1)
}

func TestApplyRederivesManagerial(t *testing.T) {
	rows := []model.LedgerRow{classifiedRow("t1")}
	overrides := []model.Override{{
		TxnID:      "t1",
		EconomicL1: "INSURANCE",
		EconomicL2: "PREMIUM",
		Enabled:    true,
	}}

	out := Apply(rows, overrides)
	// No managerial fields supplied: re-derived from the new economics,
	// not left at the stale engine values.
	assert.Equal(t, "INSURANCE", out[0].Class.ManagerialL1)
	assert.Equal(t, "PREMIUM", out[0].Class.ManagerialL2)
}

func TestApplySuppliedManagerialWins(t *testing.T) {
	rows := []model.LedgerRow{classifiedRow("t1")}
	overrides := []model.Override{{
		TxnID:        "t1",
		EconomicL1:   "INSURANCE",
		EconomicL2:   "PREMIUM",
		ManagerialL1: "HEALTH",
		ManagerialL2: "MEDICAL_COVER",
		Enabled:      true,
	}}

	out := Apply(rows, overrides)
	assert.Equal(t, "HEALTH", out[0].Class.ManagerialL1)
	assert.Equal(t, "MEDICAL_COVER", out[0].Class.ManagerialL2)
}

func TestApplyTransferShortCircuit(t *testing.T) {
	rows := []model.LedgerRow{classifiedRow("t1")}
	overrides := []model.Override{{
		TxnID:             "t1",
		CashflowStatement: "TRANSFER",
		ManagerialL1:      "LIFESTYLE",
		ManagerialL2:      "DISCRETIONARY",
		Enabled:           true,
	}}

	out := Apply(rows, overrides)
	// Transfer neutralization wins over the analyst-supplied managerial
	// fields.
	assert.Equal(t, "TRANSFER", out[0].Class.ManagerialL1)
	assert.Equal(t, "INTERNAL_TRANSFER", out[0].Class.ManagerialL2)
}

func TestApplyBlankSentinelNeverOverwrites(t *testing.T) {
	rows := []model.LedgerRow{classifiedRow("t1")}
	overrides := []model.Override{{
		TxnID:      "t1",
		EconomicL1: "(blank)",
		EconomicL2: "BLANK",
		Enabled:    true,
	}}

	out := Apply(rows, overrides)
	assert.Equal(t, "LIFESTYLE", out[0].Class.EconomicL1)
	assert.Equal(t, "DISCRETIONARY", out[0].Class.EconomicL2)
	assert.True(t, out[0].WasOverridden)
}

func TestApplyBaselineTriState(t *testing.T) {
	rows := []model.LedgerRow{classifiedRow("t1"), classifiedRow("t2")}
	overrides := []model.Override{
		{TxnID: "t1", BaselineEligible: boolPtr(true), Enabled: true},
		{TxnID: "t2", Enabled: true},
	}

	out := Apply(rows, overrides)
	assert.True(t, out[0].Class.BaselineEligible)
	assert.False(t, out[1].Class.BaselineEligible)
}

func TestApplyAppendsReasons(t *testing.T) {
	row := classifiedRow("t1")
	row.OverrideReason = "earlier correction"
	out := Apply([]model.LedgerRow{row}, []model.Override{{
		TxnID:   "t1",
		Reason:  "second pass",
		Enabled: true,
	}})
	assert.Equal(t, "earlier correction | second pass", out[0].OverrideReason)
}

func TestApplyIgnoresUnknownAndDisabled(t *testing.T) {
	rows := []model.LedgerRow{classifiedRow("t1")}
	out := Apply(rows, []model.Override{
		{TxnID: "missing", EconomicL1: "X", Enabled: true},
		{TxnID: "t1", EconomicL1: "X", Enabled: false},
	})
	assert.False(t, out[0].WasOverridden)
	assert.Equal(t, "LIFESTYLE", out[0].Class.EconomicL1)
}
