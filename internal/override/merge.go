package override

import (
	"strings"

	"github.com/auditledger-dev/auditledger/internal/classify"
	"github.com/auditledger-dev/auditledger/internal/model"
)

// Apply merges overrides into classified ledger rows and returns a new
// slice; the input is never mutated. Only non-blank override fields are
// applied. When an override changes economic purpose but supplies no
// managerial fields, the managerial pair is re-derived from the final
// economic purpose so stale values never survive a correction.
func Apply(rows []model.LedgerRow, overrides []model.Override) []model.LedgerRow {
	byID := make(map[string]model.Override, len(overrides))
	for _, o := range overrides {
		if o.Enabled {
			byID[o.TxnID] = o
		}
	}

	out := make([]model.LedgerRow, len(rows))
	for i, row := range rows {
		o, ok := byID[strings.TrimSpace(row.TxnID)]
		if !ok {
			out[i] = row
			continue
		}
		out[i] = applyOne(row, o)
	}
	return out
}

// applyOne merges a single override into a row.
func applyOne(row model.LedgerRow, o model.Override) model.LedgerRow {
	mgrL1Provided := hasValue(o.ManagerialL1)
	mgrL2Provided := hasValue(o.ManagerialL2)

	if hasValue(o.CashflowStatement) {
		row.Class.CashflowStatement = model.CashflowSection(canon(o.CashflowStatement))
	}
	if hasValue(o.EconomicL1) {
		row.Class.EconomicL1 = canon(o.EconomicL1)
	}
	if hasValue(o.EconomicL2) {
		row.Class.EconomicL2 = canon(o.EconomicL2)
	}
	if mgrL1Provided {
		row.Class.ManagerialL1 = canon(o.ManagerialL1)
	}
	if mgrL2Provided {
		row.Class.ManagerialL2 = canon(o.ManagerialL2)
	}
	if o.BaselineEligible != nil {
		row.Class.BaselineEligible = *o.BaselineEligible
	}
	if hasValue(o.Reason) {
		row.OverrideReason = appendReason(row.OverrideReason, strings.TrimSpace(o.Reason))
	}

	// Re-derive managerial purpose from the final economic purpose for any
	// managerial field the analyst left blank. DeriveManagerial carries the
	// credit-card-settlement prefix rule and the transfer short-circuit.
	derivedL1, derivedL2 := classify.DeriveManagerial(
		row.Class.CashflowStatement, row.Class.EconomicL1, row.Class.EconomicL2)
	if !mgrL1Provided {
		row.Class.ManagerialL1 = derivedL1
	}
	if !mgrL2Provided {
		row.Class.ManagerialL2 = derivedL2
	}
	// The transfer short-circuit is a business invariant, not a default: it
	// wins even over analyst-supplied managerial fields.
	if row.Class.CashflowStatement == model.CFSTransfer {
		row.Class.ManagerialL1 = "TRANSFER"
		row.Class.ManagerialL2 = "INTERNAL_TRANSFER"
	}

	row.WasOverridden = true
	row.OverrideIDApplied = o.OverrideID
	return row
}

// hasValue reports whether an override cell carries a real value. Blank
// cells and the explicit "(blank)" sentinel never overwrite.
func hasValue(s string) bool {
	v := strings.ToUpper(strings.TrimSpace(s))
	return v != "" && v != "(BLANK)" && v != "BLANK"
}

func canon(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// appendReason appends rather than replaces so repeated corrections stay
// individually visible in the audit trail.
func appendReason(existing, reason string) string {
	if existing == "" {
		return reason
	}
	return existing + " | " + reason
}
