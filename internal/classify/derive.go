package classify

import (
	"strings"

	"github.com/auditledger-dev/auditledger/internal/model"
)

// purpose is an (L1, L2) purpose pair.
type purpose struct {
	l1, l2 string
}

// managerialDeriveMap re-buckets economic purposes into the analyst-facing
// managerial view. Most purposes map to themselves; the deliberate
// exception is credit-card settlement, which is economically debt service
// but managerially a lifestyle-spend proxy.
var managerialDeriveMap = map[purpose]purpose{
	{"NON-CASH", "BALANCE_BF"}:                {"NON-CASH", "BALANCE_BF"},
	{"INCOME", "SALARY"}:                      {"INCOME", "SALARY"},
	{"INCOME", "INTEREST"}:                    {"INCOME", "INTEREST"},
	{"TRANSFER", "INTERNAL_TRANSFER"}:         {"TRANSFER", "INTERNAL_TRANSFER"},
	{"HOUSING", "PROPERTY_PURCHASE"}:          {"HOUSING", "PROPERTY_PURCHASE"},
	{"TAXES", "IRAS_TAX"}:                     {"TAXES", "IRAS_TAX"},
	{"DEBT_SERVICE", "MORTGAGE_PAYMENT"}:      {"DEBT_SERVICE", "MORTGAGE_PAYMENT"},
	{"DEBT_SERVICE", "CAR_LOAN_PAYMENT"}:      {"DEBT_SERVICE", "CAR_LOAN_PAYMENT"},
	{"HOUSING", "RENOVATION"}:                 {"HOUSING", "RENOVATION"},
	{"HOUSING", "HOA_CONDO_FEES"}:             {"HOUSING", "HOA_CONDO_FEES"},
	{"INCOME", "INSURANCE_PAYOUT"}:            {"INCOME", "INSURANCE_PAYOUT"},
	{"INSURANCE", "PREMIUM"}:                  {"INSURANCE", "PREMIUM"},
	{"INCOME", "OTHER_INCOME"}:                {"INCOME", "OTHER_INCOME"},
	{"LIFESTYLE", "DISCRETIONARY"}:            {"LIFESTYLE", "DISCRETIONARY"},
	{"NON-CASH", "ACCOUNTING_ADJUSTMENT"}:     {"NON-CASH", "ACCOUNTING_ADJUSTMENT"},
	{"SAVINGS_INVESTING", "CPF_CONTRIBUTION"}: {"SAVINGS_INVESTING", "CPF_CONTRIBUTION"},
	{"HOUSING", "MUNICIPAL_FEES"}:             {"HOUSING", "MUNICIPAL_FEES"},
	{"INCOME", "GOVERNMENT_PAYOUT"}:           {"INCOME", "GOVERNMENT_PAYOUT"},
	{"LIFESTYLE", "CASH_WITHDRAWAL"}:          {"LIFESTYLE", "CASH_WITHDRAWAL"},
	{"LIFESTYLE", "TELECOM"}:                  {"LIFESTYLE", "TELECOM"},
	{"LIFESTYLE", "TRANSPORT"}:                {"LIFESTYLE", "TRANSPORT"},
	{"FEES", "BANK_FEES"}:                     {"FEES", "BANK_FEES"},
}

const ccSettlementPrefix = "CREDIT_CARD_SETTLEMENT"

// DeriveManagerial maps a final economic purpose to its managerial
// re-bucketing. Two invariants override the lookup table:
//
//   - any DEBT_SERVICE / CREDIT_CARD_SETTLEMENT_* purpose is a
//     lifestyle-spend proxy regardless of issuer suffix;
//   - a TRANSFER cashflow statement always derives
//     TRANSFER/INTERNAL_TRANSFER, whatever the economic sub-type.
func DeriveManagerial(cashflow model.CashflowSection, econL1, econL2 string) (string, string) {
	l1 := strings.ToUpper(strings.TrimSpace(econL1))
	l2 := strings.ToUpper(strings.TrimSpace(econL2))

	derived := purpose{l1, l2}
	if l1 == "DEBT_SERVICE" && strings.HasPrefix(l2, ccSettlementPrefix) {
		derived = purpose{"LIFESTYLE", "CREDIT_CARD_SPEND_PROXY"}
	} else if m, ok := managerialDeriveMap[derived]; ok {
		derived = m
	}

	if cashflow == model.CFSTransfer {
		derived = purpose{"TRANSFER", "INTERNAL_TRANSFER"}
	}
	return derived.l1, derived.l2
}
