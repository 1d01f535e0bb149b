package classify

import (
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

func TestClassifyRuleTable(t *testing.T) {
	engine := NewDefaultEngine()

	tests := []struct {
		name     string
		desc     string
		amount   string
		ruleID   string
		cashflow model.CashflowSection
		econL2   string
		baseline bool
	}{
		{"balance bf", "BALANCE B/F", "0", "R00_BALANCE_BF", model.CFSNonCash, "BALANCE_BF", false},
		{"salary marker", "SALARY PAYMENT ACME CORP", "5000", "R01_SALARY", model.CFSOperating, "SALARY", true},
		{"salary employer token", "GIRO MICROSOFT PTE LTD", "8200", "R01_SALARY", model.CFSOperating, "SALARY", true},
		{"interest", "BONUS INTEREST", "12.34", "R02_INTEREST", model.CFSOperating, "INTEREST", true},
		{"trust internal", "TRUST BANK OTHR TRANSFER", "-400", "R03_TRUST_INTERNAL", model.CFSTransfer, "INTERNAL_TRANSFER", false},
		{"property downpayment", "CHEQUE WITHDRAWAL CO-123456-001", "-50000", "R04_PROPERTY_DOWNPAYMENT", model.CFSInvesting, "PROPERTY_PURCHASE", false},
		{"tax", "IRAS INCOME TAX ITX", "-2300", "R05_TAX", model.CFSOperating, "IRAS_TAX", true},
		{"mortgage", "TRF. WD. LOANS 8839", "-3200", "R06_MORTGAGE", model.CFSFinancing, "MORTGAGE_PAYMENT", true},
		{"car loan", "HONG LEONG FINANCE HLF-9921", "-1100", "R07_CAR_LOAN", model.CFSFinancing, "CAR_LOAN_PAYMENT", true},
		{"renovation", "BUILD BUILT PTE LTD RENOV", "-15000", "R08_RENOVATION", model.CFSInvesting, "RENOVATION", false},
		{"mcst", "MCST 4321 MAINTENANCE", "-380", "R09_MCST", model.CFSOperating, "HOA_CONDO_FEES", true},
		{"insurance payout", "INWARD CR AIA SINGAPORE", "950", "R10_INS_IN", model.CFSOperating, "INSURANCE_PAYOUT", false},
		{"insurance premium", "GIRO PRUDENTIAL PREMIUM", "-412", "R11_INS_OUT", model.CFSOperating, "PREMIUM", true},
		{"cc settlement", "UOB CARDS BILL PAYMENT", "-2211", "R12_CC_SETTLEMENT", model.CFSFinancing, "CREDIT_CARD_SETTLEMENT_UOB", true},
		{"self transfer", "FAST TRANSFER TO SAMANTHA SEAH", "-1000", "R13_INTERNAL_TRANSFER", model.CFSTransfer, "INTERNAL_TRANSFER", false},
		{"cpf topup", "CPF RETIREMENT TOP-UP", "-7000", "R14_CPF_CONTRIBUTION", model.CFSInvesting, "CPF_CONTRIBUTION", true},
		{"town council", "TOWN COUNCIL S&CC", "-85", "R15_MUNICIPAL_FEES", model.CFSOperating, "MUNICIPAL_FEES", true},
		{"gov payout", "GOVT GST VOUCHER", "300", "R16_GOV_PAYOUT", model.CFSOperating, "GOVERNMENT_PAYOUT", false},
		{"atm withdrawal", "CASH WITHDRAWAL-ATM 79608204", "-100", "R17_CASH_WITHDRAWAL", model.CFSOperating, "CASH_WITHDRAWAL", true},
		{"telecom", "SINGTEL BILLING", "-65", "R18_TELECOM", model.CFSOperating, "TELECOM", true},
		{"transport", "EZ-LINK TOP UP", "-20", "R19_TRANSPORT", model.CFSOperating, "TRANSPORT", true},
		{"bank fees", "Cheque Charges", "-0.75", "R20_BANK_FEES", model.CFSOperating, "BANK_FEES", true},
		{"fallback income", "MISC REFUND XYZ", "42", "R21_OTHER_INCOME", model.CFSOperating, "OTHER_INCOME", false},
		{"fallback outflow", "UNKNOWN MERCHANT 123", "-42", "R22_GENERIC_OUTFLOW", model.CFSOperating, "DISCRETIONARY", false},
		{"zero adjustment", "ROUNDING", "0", "R23_ZERO_ADJ", model.CFSNonCash, "ACCOUNTING_ADJUSTMENT", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := engine.Classify(tt.desc, dec(tt.amount))
			assert.Equal(t, tt.ruleID, res.RuleID)
			assert.Equal(t, tt.cashflow, res.CashflowStatement)
			assert.Equal(t, tt.econL2, res.EconomicL2)
			assert.Equal(t, tt.baseline, res.BaselineEligible)
			assert.NotEmpty(t, res.RuleExplanation)
		})
	}
}

func TestClassifyDeterministic(t *testing.T) {
	engine := NewDefaultEngine()
	a := engine.Classify("GIRO PRUDENTIAL PREMIUM", dec("-412"))
	b := engine.Classify("GIRO PRUDENTIAL PREMIUM", dec("-412"))
	assert.Equal(t, a, b)
}

func TestClassifyWhitespaceAndCaseInsensitive(t *testing.T) {
	engine := NewDefaultEngine()
	a := engine.Classify("salary   payment\tacme", dec("5000"))
	b := engine.Classify("SALARY PAYMENT ACME", dec("5000"))
	assert.Equal(t, a, b)
	assert.Equal(t, "R01_SALARY", a.RuleID)
}

func TestClassifySignGatesSalary(t *testing.T) {
	// A negative amount with a salary marker must not classify as income.
	engine := NewDefaultEngine()
	res := engine.Classify("SALARY PAYMENT CLAWBACK", dec("-500"))
	assert.NotEqual(t, "R01_SALARY", res.RuleID)
	assert.Equal(t, model.FlowExpense, res.FlowNature)
}

func TestClassifyCCSettlementForcesCardRail(t *testing.T) {
	engine := NewDefaultEngine()
	res := engine.Classify("GIRO UOB CC SETTLEMENT", dec("-900"))
	assert.Equal(t, "R12_CC_SETTLEMENT", res.RuleID)
	// The description says GIRO but settlements always report CARD.
	assert.Equal(t, "CARD", res.BankRail)
	assert.True(t, res.IsCCSettlement)
	assert.Equal(t, "LIFESTYLE", res.ManagerialL1)
	assert.Equal(t, "CREDIT_CARD_SPEND_PROXY", res.ManagerialL2)
}

func TestClassifyIssuerMentionAloneIsNotSettlement(t *testing.T) {
	engine := NewDefaultEngine()
	res := engine.Classify("UOB ACCOUNT SERVICE CHARGE", dec("-30"))
	assert.NotEqual(t, "R12_CC_SETTLEMENT", res.RuleID)
	assert.Equal(t, "R20_BANK_FEES", res.RuleID)
}

func TestClassifyRailOrthogonalToEconomics(t *testing.T) {
	engine := NewDefaultEngine()
	// Same economics over different rails.
	giro := engine.Classify("GIRO PRUDENTIAL PREMIUM", dec("-412"))
	fast := engine.Classify("FAST PRUDENTIAL PREMIUM", dec("-412"))
	assert.Equal(t, giro.RuleID, fast.RuleID)
	assert.Equal(t, "GIRO", giro.BankRail)
	assert.Equal(t, "FAST", fast.BankRail)
}

func TestClassifyFirstMatchWins(t *testing.T) {
	engine := NewDefaultEngine()
	// Matches both the trust-internal rule and the generic transfer rule;
	// the earlier rule claims it.
	res := engine.Classify("TRUST BANK OTHR TRANSFER SAMANTHA", dec("-100"))
	assert.Equal(t, "R03_TRUST_INTERNAL", res.RuleID)
}

func TestClassifyAllAttachesTransactions(t *testing.T) {
	engine := NewDefaultEngine()
	txns := []model.Transaction{
		{Description: "SALARY PAYMENT ACME", Amount: dec("5000"), TxnID: "t1"},
		{Description: "BALANCE B/F", Amount: dec("0"), TxnID: "t2"},
	}
	rows := engine.ClassifyAll(txns)
	require.Len(t, rows, 2)
	assert.Equal(t, "t1", rows[0].TxnID)
	assert.Equal(t, "R01_SALARY", rows[0].Class.RuleID)
	assert.Equal(t, model.RecordSummary, rows[1].Class.RecordType)
}

func TestFallbackRuleIDs(t *testing.T) {
	assert.True(t, FallbackRuleIDs["R21_OTHER_INCOME"])
	assert.True(t, FallbackRuleIDs["R22_GENERIC_OUTFLOW"])
	assert.False(t, FallbackRuleIDs["R23_ZERO_ADJ"])
	assert.False(t, FallbackRuleIDs["R01_SALARY"])
}
