package classify

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/auditledger-dev/auditledger/internal/model"
)

// The catch-all rules, one per flow direction. Their volume is a
// first-class quality signal: high fallback share means the priority
// rule set is missing markers.
const (
	FallbackInflowRuleID  = "R21_OTHER_INCOME"
	FallbackOutflowRuleID = "R22_GENERIC_OUTFLOW"
)

// FallbackRuleIDs indexes the catch-all rules by id.
var FallbackRuleIDs = map[string]bool{
	FallbackInflowRuleID:  true,
	FallbackOutflowRuleID: true,
}

// ruleCtx is the per-row evaluation context.
type ruleCtx struct {
	desc   string // upper-cased, whitespace-collapsed description
	amount decimal.Decimal
	sign   int
	rail   string
	issuer string
}

// rule pairs a predicate with its outcome. Evaluation is strictly
// first-match-wins; ordering encodes business priority.
type rule struct {
	id      string
	matches func(c *Config, r ruleCtx) bool
	outcome func(c *Config, r ruleCtx) model.ClassificationResult
}

// Engine evaluates the ordered rule table. Build once with NewEngine and
// reuse; Classify is a pure function of its arguments.
type Engine struct {
	cfg   *Config
	rules []rule
}

// NewEngine builds an engine over a compiled pattern config.
func NewEngine(cfg *Config) *Engine {
	return &Engine{cfg: cfg, rules: ruleTable()}
}

// NewDefaultEngine builds an engine with the built-in token lists.
func NewDefaultEngine() *Engine {
	return NewEngine(NewConfig(DefaultTokens()))
}

// Classify assigns the full taxonomy for one (description, amount) pair.
// Calling it twice with identical inputs yields an identical result,
// including the rule id.
func (e *Engine) Classify(desc string, amount decimal.Decimal) model.ClassificationResult {
	upper := canonDesc(desc)
	ctx := ruleCtx{
		desc:   upper,
		amount: amount,
		sign:   amount.Sign(),
		rail:   e.cfg.InferRail(upper),
		issuer: e.cfg.detectIssuer(upper),
	}
	for _, r := range e.rules {
		if r.matches(e.cfg, ctx) {
			return r.outcome(e.cfg, ctx)
		}
	}
	// The table ends in total fallbacks; this is unreachable.
	panic("classify: no rule matched")
}

// ClassifyAll classifies every transaction into a ledger row.
func (e *Engine) ClassifyAll(txns []model.Transaction) []model.LedgerRow {
	rows := make([]model.LedgerRow, len(txns))
	for i, t := range txns {
		rows[i] = model.LedgerRow{
			Transaction: t,
			Class:       e.Classify(t.Description, t.Amount),
		}
	}
	return rows
}

func canonDesc(s string) string {
	return strings.ToUpper(strings.Join(strings.Fields(s), " "))
}

// ruleTable is the priority-ordered rule set. Keep outcomes explicit and
// auditable; every rule names itself in the rationale.
func ruleTable() []rule {
	return []rule{
		{
			id: "R00_BALANCE_BF",
			matches: func(c *Config, r ruleCtx) bool {
				return hasAny(r.desc, c.balanceBF)
			},
			outcome: func(c *Config, r ruleCtx) model.ClassificationResult {
				return model.ClassificationResult{
					RecordType:        model.RecordSummary,
					FlowNature:        model.FlowNonCash,
					CashflowStatement: model.CFSNonCash,
					EconomicL1:        "NON-CASH",
					EconomicL2:        "BALANCE_BF",
					AssetContext:      model.AssetUnknown,
					StabilityClass:    model.StabilityOneOff,
					BaselineEligible:  false,
					EventTag:          model.EventNone,
					BankRail:          r.rail,
					RuleID:            "R00_BALANCE_BF",
					RuleExplanation:   "Balance B/F is a non-cash summary line; excluded from cashflow analytics.",
					ManagerialL1:      "NON-CASH",
					ManagerialL2:      "BALANCE_BF",
				}
			},
		},
		{
			id: "R01_SALARY",
			matches: func(c *Config, r ruleCtx) bool {
				return r.sign > 0 && (hasAny(r.desc, c.salary) || containsToken(r.desc, c.tokens.SalaryEmployers))
			},
			outcome: func(c *Config, r ruleCtx) model.ClassificationResult {
				employer := firstToken(r.desc, c.tokens.SalaryEmployers, "EMPLOYER")
				return model.ClassificationResult{
					RecordType:        model.RecordTransaction,
					FlowNature:        model.FlowIncome,
					CashflowStatement: model.CFSOperating,
					EconomicL1:        "INCOME",
					EconomicL2:        "SALARY",
					AssetContext:      model.AssetGeneral,
					StabilityClass:    model.StabilityStructural,
					BaselineEligible:  true,
					EventTag:          model.EventNone,
					BankRail:          r.rail,
					RuleID:            "R01_SALARY",
					RuleExplanation:   fmt.Sprintf("Detected salary income (employer token: %s). Income can never be classified as lifestyle.", employer),
					ManagerialL1:      "INCOME",
					ManagerialL2:      "SALARY",
				}
			},
		},
		{
			id: "R02_INTEREST",
			matches: func(c *Config, r ruleCtx) bool {
				return r.sign > 0 && hasAny(r.desc, c.interest)
			},
			outcome: func(c *Config, r ruleCtx) model.ClassificationResult {
				return model.ClassificationResult{
					RecordType:        model.RecordTransaction,
					FlowNature:        model.FlowIncome,
					CashflowStatement: model.CFSOperating,
					EconomicL1:        "INCOME",
					EconomicL2:        "INTEREST",
					AssetContext:      model.AssetFinancial,
					StabilityClass:    model.StabilitySemi,
					BaselineEligible:  true,
					EventTag:          model.EventNone,
					BankRail:          r.rail,
					RuleID:            "R02_INTEREST",
					RuleExplanation:   "Interest credited (bank/bonus interest). Operating income.",
					ManagerialL1:      "INCOME",
					ManagerialL2:      "INTEREST",
				}
			},
		},
		{
			id: "R03_TRUST_INTERNAL",
			matches: func(c *Config, r ruleCtx) bool {
				return hasAny(r.desc, c.trustInternal)
			},
			outcome: func(c *Config, r ruleCtx) model.ClassificationResult {
				return model.ClassificationResult{
					RecordType:        model.RecordTransaction,
					FlowNature:        model.FlowTransfer,
					CashflowStatement: model.CFSTransfer,
					EconomicL1:        "TRANSFER",
					EconomicL2:        "INTERNAL_TRANSFER",
					AssetContext:      model.AssetGeneral,
					StabilityClass:    model.StabilityStructural,
					BaselineEligible:  false,
					EventTag:          model.EventNone,
					BankRail:          r.rail,
					RuleID:            "R03_TRUST_INTERNAL",
					RuleExplanation:   "Trust Bank OTHR Transfer is internal inter-bank fund reallocation; neutralized as Transfer.",
					ManagerialL1:      "TRANSFER",
					ManagerialL2:      "INTERNAL_TRANSFER",
				}
			},
		},
		{
			id: "R04_PROPERTY_DOWNPAYMENT",
			matches: func(c *Config, r ruleCtx) bool {
				return r.sign < 0 && hasAny(r.desc, c.propertyDown)
			},
			outcome: func(c *Config, r ruleCtx) model.ClassificationResult {
				return model.ClassificationResult{
					RecordType:        model.RecordTransaction,
					FlowNature:        model.FlowExpense,
					CashflowStatement: model.CFSInvesting,
					EconomicL1:        "HOUSING",
					EconomicL2:        "PROPERTY_PURCHASE",
					AssetContext:      model.AssetProperty,
					StabilityClass:    model.StabilityOneOff,
					BaselineEligible:  false,
					EventTag:          model.EventPropertyAcq,
					BankRail:          r.rail,
					RuleID:            "R04_PROPERTY_DOWNPAYMENT",
					RuleExplanation:   "Cheque/DR CO CHARGES treated as property downpayment (cash to property asset). Investing cashflow.",
					ManagerialL1:      "HOUSING",
					ManagerialL2:      "PROPERTY_PURCHASE",
				}
			},
		},
		{
			id: "R05_TAX",
			matches: func(c *Config, r ruleCtx) bool {
				return r.sign < 0 && hasAny(r.desc, c.tax)
			},
			outcome: func(c *Config, r ruleCtx) model.ClassificationResult {
				return model.ClassificationResult{
					RecordType:        model.RecordTransaction,
					FlowNature:        model.FlowExpense,
					CashflowStatement: model.CFSOperating,
					EconomicL1:        "TAXES",
					EconomicL2:        "IRAS_TAX",
					AssetContext:      model.AssetGeneral,
					StabilityClass:    model.StabilitySemi,
					BaselineEligible:  true,
					EventTag:          model.EventTax,
					BankRail:          r.rail,
					RuleID:            "R05_TAX",
					RuleExplanation:   "IRAS-related tax payment. Operating cashflow.",
					ManagerialL1:      "TAXES",
					ManagerialL2:      "IRAS_TAX",
				}
			},
		},
		{
			id: "R06_MORTGAGE",
			matches: func(c *Config, r ruleCtx) bool {
				return r.sign < 0 && hasAny(r.desc, c.mortgage)
			},
			outcome: func(c *Config, r ruleCtx) model.ClassificationResult {
				return model.ClassificationResult{
					RecordType:        model.RecordTransaction,
					FlowNature:        model.FlowExpense,
					CashflowStatement: model.CFSFinancing,
					EconomicL1:        "DEBT_SERVICE",
					EconomicL2:        "MORTGAGE_PAYMENT",
					AssetContext:      model.AssetProperty,
					StabilityClass:    model.StabilityStructural,
					BaselineEligible:  true,
					EventTag:          model.EventNone,
					BankRail:          r.rail,
					RuleID:            "R06_MORTGAGE",
					RuleExplanation:   "Detected mortgage/housing loan payment. Financing cashflow (debt service).",
					ManagerialL1:      "DEBT_SERVICE",
					ManagerialL2:      "MORTGAGE_PAYMENT",
				}
			},
		},
		{
			id: "R07_CAR_LOAN",
			matches: func(c *Config, r ruleCtx) bool {
				return r.sign < 0 && hasAny(r.desc, c.carFinance)
			},
			outcome: func(c *Config, r ruleCtx) model.ClassificationResult {
				return model.ClassificationResult{
					RecordType:        model.RecordTransaction,
					FlowNature:        model.FlowExpense,
					CashflowStatement: model.CFSFinancing,
					EconomicL1:        "DEBT_SERVICE",
					EconomicL2:        "CAR_LOAN_PAYMENT",
					AssetContext:      model.AssetCar,
					StabilityClass:    model.StabilityStructural,
					BaselineEligible:  true,
					EventTag:          model.EventNone,
					BankRail:          r.rail,
					RuleID:            "R07_CAR_LOAN",
					RuleExplanation:   "Detected car loan payment. Financing cashflow (debt service).",
					ManagerialL1:      "DEBT_SERVICE",
					ManagerialL2:      "CAR_LOAN_PAYMENT",
				}
			},
		},
		{
			id: "R08_RENOVATION",
			matches: func(c *Config, r ruleCtx) bool {
				return r.sign < 0 && hasAny(r.desc, c.renovation)
			},
			outcome: func(c *Config, r ruleCtx) model.ClassificationResult {
				return model.ClassificationResult{
					RecordType:        model.RecordTransaction,
					FlowNature:        model.FlowExpense,
					CashflowStatement: model.CFSInvesting,
					EconomicL1:        "HOUSING",
					EconomicL2:        "RENOVATION",
					AssetContext:      model.AssetProperty,
					StabilityClass:    model.StabilityOneOff,
					BaselineEligible:  false,
					EventTag:          model.EventRenovation,
					BankRail:          r.rail,
					RuleID:            "R08_RENOVATION",
					RuleExplanation:   "Renovation/capex improvement detected. Investing cashflow (property).",
					ManagerialL1:      "HOUSING",
					ManagerialL2:      "RENOVATION",
				}
			},
		},
		{
			id: "R09_MCST",
			matches: func(c *Config, r ruleCtx) bool {
				return r.sign < 0 && hasAny(r.desc, c.condoFees)
			},
			outcome: func(c *Config, r ruleCtx) model.ClassificationResult {
				return model.ClassificationResult{
					RecordType:        model.RecordTransaction,
					FlowNature:        model.FlowExpense,
					CashflowStatement: model.CFSOperating,
					EconomicL1:        "HOUSING",
					EconomicL2:        "HOA_CONDO_FEES",
					AssetContext:      model.AssetProperty,
					StabilityClass:    model.StabilitySemi,
					BaselineEligible:  true,
					EventTag:          model.EventNone,
					BankRail:          r.rail,
					RuleID:            "R09_MCST",
					RuleExplanation:   "MCST/condo maintenance fees are operating housing costs (not lifestyle).",
					ManagerialL1:      "HOUSING",
					ManagerialL2:      "HOA_CONDO_FEES",
				}
			},
		},
		{
			id: "R10_INS_IN",
			matches: func(c *Config, r ruleCtx) bool {
				return r.sign > 0 && containsToken(r.desc, c.tokens.Insurers) && hasAny(r.desc, c.insInflow)
			},
			outcome: func(c *Config, r ruleCtx) model.ClassificationResult {
				return model.ClassificationResult{
					RecordType:        model.RecordTransaction,
					FlowNature:        model.FlowIncome,
					CashflowStatement: model.CFSOperating,
					EconomicL1:        "INCOME",
					EconomicL2:        "INSURANCE_PAYOUT",
					AssetContext:      model.AssetGeneral,
					StabilityClass:    model.StabilityVariable,
					BaselineEligible:  false,
					EventTag:          model.EventNone,
					BankRail:          r.rail,
					RuleID:            "R10_INS_IN",
					RuleExplanation:   "Insurer-related inflow (refund/payout). Treated as operating income.",
					ManagerialL1:      "INCOME",
					ManagerialL2:      "INSURANCE_PAYOUT",
				}
			},
		},
		{
			id: "R11_INS_OUT",
			matches: func(c *Config, r ruleCtx) bool {
				return r.sign < 0 && containsToken(r.desc, c.tokens.Insurers)
			},
			outcome: func(c *Config, r ruleCtx) model.ClassificationResult {
				return model.ClassificationResult{
					RecordType:        model.RecordTransaction,
					FlowNature:        model.FlowExpense,
					CashflowStatement: model.CFSOperating,
					EconomicL1:        "INSURANCE",
					EconomicL2:        "PREMIUM",
					AssetContext:      model.AssetGeneral,
					StabilityClass:    model.StabilityStructural,
					BaselineEligible:  true,
					EventTag:          model.EventNone,
					BankRail:          r.rail,
					RuleID:            "R11_INS_OUT",
					RuleExplanation:   "Insurer-related outflow treated as insurance premium (operating).",
					ManagerialL1:      "INSURANCE",
					ManagerialL2:      "PREMIUM",
				}
			},
		},
		{
			id: "R12_CC_SETTLEMENT",
			matches: func(c *Config, r ruleCtx) bool {
				return r.sign < 0 && r.issuer != "" && ccSettlementMarker(r.desc)
			},
			outcome: func(c *Config, r ruleCtx) model.ClassificationResult {
				return model.ClassificationResult{
					RecordType:        model.RecordTransaction,
					FlowNature:        model.FlowExpense,
					CashflowStatement: model.CFSFinancing,
					EconomicL1:        "DEBT_SERVICE",
					EconomicL2:        ccSettlementPrefix + "_" + r.issuer,
					AssetContext:      model.AssetGeneral,
					StabilityClass:    model.StabilitySemi,
					BaselineEligible:  true,
					EventTag:          model.EventNone,
					BankRail:          "CARD",
					RuleID:            "R12_CC_SETTLEMENT",
					RuleExplanation:   "Credit card settlement is liability repayment; classify as financing (debt service).",
					ManagerialL1:      "LIFESTYLE",
					ManagerialL2:      "CREDIT_CARD_SPEND_PROXY",
					IsCCSettlement:    true,
				}
			},
		},
		{
			id: "R13_INTERNAL_TRANSFER",
			matches: func(c *Config, r ruleCtx) bool {
				transferish := hasAny(r.desc, c.transfer) || r.rail == "FAST" || r.rail == "PAYNOW" || r.rail == "GIRO"
				return transferish && containsToken(r.desc, c.tokens.SelfEntities)
			},
			outcome: func(c *Config, r ruleCtx) model.ClassificationResult {
				return model.ClassificationResult{
					RecordType:        model.RecordTransaction,
					FlowNature:        model.FlowTransfer,
					CashflowStatement: model.CFSTransfer,
					EconomicL1:        "TRANSFER",
					EconomicL2:        "INTERNAL_TRANSFER",
					AssetContext:      model.AssetGeneral,
					StabilityClass:    model.StabilityStructural,
					BaselineEligible:  false,
					EventTag:          model.EventNone,
					BankRail:          r.rail,
					RuleID:            "R13_INTERNAL_TRANSFER",
					RuleExplanation:   "Detected self-controlled transfer (ownership unchanged). Neutralized as Transfer.",
					ManagerialL1:      "TRANSFER",
					ManagerialL2:      "INTERNAL_TRANSFER",
				}
			},
		},
		{
			id: "R14_CPF_CONTRIBUTION",
			matches: func(c *Config, r ruleCtx) bool {
				return r.sign < 0 && hasAny(r.desc, c.cpf)
			},
			outcome: func(c *Config, r ruleCtx) model.ClassificationResult {
				return model.ClassificationResult{
					RecordType:        model.RecordTransaction,
					FlowNature:        model.FlowExpense,
					CashflowStatement: model.CFSInvesting,
					EconomicL1:        "SAVINGS_INVESTING",
					EconomicL2:        "CPF_CONTRIBUTION",
					AssetContext:      model.AssetFinancial,
					StabilityClass:    model.StabilityStructural,
					BaselineEligible:  true,
					EventTag:          model.EventNone,
					BankRail:          r.rail,
					RuleID:            "R14_CPF_CONTRIBUTION",
					RuleExplanation:   "Voluntary retirement account top-up. Savings, not consumption.",
					ManagerialL1:      "SAVINGS_INVESTING",
					ManagerialL2:      "CPF_CONTRIBUTION",
				}
			},
		},
		{
			id: "R15_MUNICIPAL_FEES",
			matches: func(c *Config, r ruleCtx) bool {
				return r.sign < 0 && hasAny(r.desc, c.municipal)
			},
			outcome: func(c *Config, r ruleCtx) model.ClassificationResult {
				return model.ClassificationResult{
					RecordType:        model.RecordTransaction,
					FlowNature:        model.FlowExpense,
					CashflowStatement: model.CFSOperating,
					EconomicL1:        "HOUSING",
					EconomicL2:        "MUNICIPAL_FEES",
					AssetContext:      model.AssetProperty,
					StabilityClass:    model.StabilitySemi,
					BaselineEligible:  true,
					EventTag:          model.EventNone,
					BankRail:          r.rail,
					RuleID:            "R15_MUNICIPAL_FEES",
					RuleExplanation:   "Town council / service & conservancy charges. Operating housing cost.",
					ManagerialL1:      "HOUSING",
					ManagerialL2:      "MUNICIPAL_FEES",
				}
			},
		},
		{
			id: "R16_GOV_PAYOUT",
			matches: func(c *Config, r ruleCtx) bool {
				return r.sign > 0 && hasAny(r.desc, c.govPayout)
			},
			outcome: func(c *Config, r ruleCtx) model.ClassificationResult {
				return model.ClassificationResult{
					RecordType:        model.RecordTransaction,
					FlowNature:        model.FlowIncome,
					CashflowStatement: model.CFSOperating,
					EconomicL1:        "INCOME",
					EconomicL2:        "GOVERNMENT_PAYOUT",
					AssetContext:      model.AssetGeneral,
					StabilityClass:    model.StabilityVariable,
					BaselineEligible:  false,
					EventTag:          model.EventNone,
					BankRail:          r.rail,
					RuleID:            "R16_GOV_PAYOUT",
					RuleExplanation:   "Government payout/voucher credited. One-off support income, excluded from baseline.",
					ManagerialL1:      "INCOME",
					ManagerialL2:      "GOVERNMENT_PAYOUT",
				}
			},
		},
		{
			id: "R17_CASH_WITHDRAWAL",
			matches: func(c *Config, r ruleCtx) bool {
				return r.sign < 0 && r.rail == "ATM"
			},
			outcome: func(c *Config, r ruleCtx) model.ClassificationResult {
				return model.ClassificationResult{
					RecordType:        model.RecordTransaction,
					FlowNature:        model.FlowExpense,
					CashflowStatement: model.CFSOperating,
					EconomicL1:        "LIFESTYLE",
					EconomicL2:        "CASH_WITHDRAWAL",
					AssetContext:      model.AssetGeneral,
					StabilityClass:    model.StabilityVariable,
					BaselineEligible:  true,
					EventTag:          model.EventNone,
					BankRail:          r.rail,
					RuleID:            "R17_CASH_WITHDRAWAL",
					RuleExplanation:   "ATM cash withdrawal. Treated as lifestyle spend at the point of withdrawal.",
					ManagerialL1:      "LIFESTYLE",
					ManagerialL2:      "CASH_WITHDRAWAL",
				}
			},
		},
		{
			id: "R18_TELECOM",
			matches: func(c *Config, r ruleCtx) bool {
				return r.sign < 0 && hasAny(r.desc, c.telecom)
			},
			outcome: func(c *Config, r ruleCtx) model.ClassificationResult {
				return model.ClassificationResult{
					RecordType:        model.RecordTransaction,
					FlowNature:        model.FlowExpense,
					CashflowStatement: model.CFSOperating,
					EconomicL1:        "LIFESTYLE",
					EconomicL2:        "TELECOM",
					AssetContext:      model.AssetGeneral,
					StabilityClass:    model.StabilityStructural,
					BaselineEligible:  true,
					EventTag:          model.EventNone,
					BankRail:          r.rail,
					RuleID:            "R18_TELECOM",
					RuleExplanation:   "Telecom operator billing. Recurring lifestyle cost.",
					ManagerialL1:      "LIFESTYLE",
					ManagerialL2:      "TELECOM",
				}
			},
		},
		{
			id: "R19_TRANSPORT",
			matches: func(c *Config, r ruleCtx) bool {
				return r.sign < 0 && hasAny(r.desc, c.transit)
			},
			outcome: func(c *Config, r ruleCtx) model.ClassificationResult {
				return model.ClassificationResult{
					RecordType:        model.RecordTransaction,
					FlowNature:        model.FlowExpense,
					CashflowStatement: model.CFSOperating,
					EconomicL1:        "LIFESTYLE",
					EconomicL2:        "TRANSPORT",
					AssetContext:      model.AssetGeneral,
					StabilityClass:    model.StabilitySemi,
					BaselineEligible:  true,
					EventTag:          model.EventNone,
					BankRail:          r.rail,
					RuleID:            "R19_TRANSPORT",
					RuleExplanation:   "Public transit fare top-up or deduction. Recurring lifestyle cost.",
					ManagerialL1:      "LIFESTYLE",
					ManagerialL2:      "TRANSPORT",
				}
			},
		},
		{
			id: "R20_BANK_FEES",
			matches: func(c *Config, r ruleCtx) bool {
				return r.sign < 0 && hasAny(r.desc, c.bankFees)
			},
			outcome: func(c *Config, r ruleCtx) model.ClassificationResult {
				return model.ClassificationResult{
					RecordType:        model.RecordTransaction,
					FlowNature:        model.FlowExpense,
					CashflowStatement: model.CFSOperating,
					EconomicL1:        "FEES",
					EconomicL2:        "BANK_FEES",
					AssetContext:      model.AssetFinancial,
					StabilityClass:    model.StabilitySemi,
					BaselineEligible:  true,
					EventTag:          model.EventNone,
					BankRail:          r.rail,
					RuleID:            "R20_BANK_FEES",
					RuleExplanation:   "Bank service/cheque charge. Operating fee.",
					ManagerialL1:      "FEES",
					ManagerialL2:      "BANK_FEES",
				}
			},
		},
		{
			id: "R21_OTHER_INCOME",
			matches: func(c *Config, r ruleCtx) bool {
				return r.sign > 0
			},
			outcome: func(c *Config, r ruleCtx) model.ClassificationResult {
				return model.ClassificationResult{
					RecordType:        model.RecordTransaction,
					FlowNature:        model.FlowIncome,
					CashflowStatement: model.CFSOperating,
					EconomicL1:        "INCOME",
					EconomicL2:        "OTHER_INCOME",
					AssetContext:      model.AssetGeneral,
					StabilityClass:    model.StabilityVariable,
					BaselineEligible:  false,
					EventTag:          model.EventNone,
					BankRail:          r.rail,
					RuleID:            "R21_OTHER_INCOME",
					RuleExplanation:   "Unmapped inflow treated as other operating income (review later if needed).",
					ManagerialL1:      "INCOME",
					ManagerialL2:      "OTHER_INCOME",
				}
			},
		},
		{
			id: "R22_GENERIC_OUTFLOW",
			matches: func(c *Config, r ruleCtx) bool {
				return r.sign < 0
			},
			outcome: func(c *Config, r ruleCtx) model.ClassificationResult {
				return model.ClassificationResult{
					RecordType:        model.RecordTransaction,
					FlowNature:        model.FlowExpense,
					CashflowStatement: model.CFSOperating,
					EconomicL1:        "LIFESTYLE",
					EconomicL2:        "DISCRETIONARY",
					AssetContext:      model.AssetGeneral,
					StabilityClass:    model.StabilityVariable,
					BaselineEligible:  false,
					EventTag:          model.EventNone,
					BankRail:          r.rail,
					RuleID:            "R22_GENERIC_OUTFLOW",
					RuleExplanation:   "Unmapped outflow treated as lifestyle discretionary (conservative fallback).",
					ManagerialL1:      "LIFESTYLE",
					ManagerialL2:      "DISCRETIONARY",
				}
			},
		},
		{
			id: "R23_ZERO_ADJ",
			matches: func(c *Config, r ruleCtx) bool {
				return true
			},
			outcome: func(c *Config, r ruleCtx) model.ClassificationResult {
				return model.ClassificationResult{
					RecordType:        model.RecordTransaction,
					FlowNature:        model.FlowNonCash,
					CashflowStatement: model.CFSNonCash,
					EconomicL1:        "NON-CASH",
					EconomicL2:        "ACCOUNTING_ADJUSTMENT",
					AssetContext:      model.AssetUnknown,
					StabilityClass:    model.StabilityOneOff,
					BaselineEligible:  false,
					EventTag:          model.EventNone,
					BankRail:          r.rail,
					RuleID:            "R23_ZERO_ADJ",
					RuleExplanation:   "Zero-amount row treated as non-cash adjustment (should be rare).",
					ManagerialL1:      "NON-CASH",
					ManagerialL2:      "ACCOUNTING_ADJUSTMENT",
				}
			},
		},
	}
}

// ccSettlementMarker requires an explicit settlement word next to the
// issuer match so plain issuer mentions do not classify as settlements.
// "CC" must stand alone: "ACCOUNT" is not a settlement marker.
var ccSettlementPattern = regexp.MustCompile(`\bBILL\s+PAYMENT\b|\bCC\b|\bCARDS\b`)

func ccSettlementMarker(desc string) bool {
	return ccSettlementPattern.MatchString(desc)
}
