package diagnostics

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/auditledger-dev/auditledger/internal/classify"
	"github.com/auditledger-dev/auditledger/internal/model"
)

// Severity labels for threshold breaches.
const (
	SeverityOK       = "OK"
	SeverityWarning  = "WARNING"
	SeverityCritical = "CRITICAL"
)

// Flow directions a fallback rule can absorb.
const (
	DirectionInflow  = "inflow"
	DirectionOutflow = "outflow"
)

// Thresholds are the fallback-share severity cutoffs, in percent of the
// direction's dollar volume. Unmatched outflows tolerate a higher share
// than unmatched inflows: income sources are few and should all be
// recognized, while outflow long tails are expected.
type Thresholds struct {
	InflowWarnPct  decimal.Decimal
	InflowCritPct  decimal.Decimal
	OutflowWarnPct decimal.Decimal
	OutflowCritPct decimal.Decimal
}

// DefaultThresholds returns the advisory defaults. Configurable; the
// exact values are not load-bearing.
func DefaultThresholds() Thresholds {
	return Thresholds{
		InflowWarnPct:  decimal.NewFromInt(15),
		InflowCritPct:  decimal.NewFromInt(25),
		OutflowWarnPct: decimal.NewFromInt(30),
		OutflowCritPct: decimal.NewFromInt(50),
	}
}

// FallbackPressure is one fallback rule's monthly share of its flow
// direction's dollar volume.
type FallbackPressure struct {
	YearMonth     string
	RuleID        string
	Direction     string
	Transactions  int // direction rows in the month
	FallbackCount int
	DollarValue   decimal.Decimal // |amount| absorbed by the rule
	FallbackPct   decimal.Decimal // percent of the direction's |amount|
	Severity      string
}

// fallbackRules pins each catch-all rule to the direction it absorbs.
var fallbackRules = []struct {
	id        string
	direction string
}{
	{classify.FallbackInflowRuleID, DirectionInflow},
	{classify.FallbackOutflowRuleID, DirectionOutflow},
}

// MeasureFallback computes monthly fallback pressure per catch-all rule.
// Each rule's dollar value is measured against its own direction's total
// volume with direction-specific thresholds. Transfer and non-cash rows
// are excluded from the base so internal movements cannot dilute the
// signal.
func MeasureFallback(rows []model.LedgerRow, t Thresholds) []FallbackPressure {
	type bucket struct {
		count  map[string]int
		rows   map[string]int
		dollar map[string]decimal.Decimal
		total  map[string]decimal.Decimal
	}
	newBucket := func() *bucket {
		return &bucket{
			count:  map[string]int{},
			rows:   map[string]int{},
			dollar: map[string]decimal.Decimal{DirectionInflow: decimal.Zero, DirectionOutflow: decimal.Zero},
			total:  map[string]decimal.Decimal{DirectionInflow: decimal.Zero, DirectionOutflow: decimal.Zero},
		}
	}
	byMonth := make(map[string]*bucket)

	for _, row := range baseRows(rows) {
		if row.YearMonth == "" {
			continue
		}
		dir := DirectionInflow
		if row.Amount.IsNegative() {
			dir = DirectionOutflow
		}
		b, ok := byMonth[row.YearMonth]
		if !ok {
			b = newBucket()
			byMonth[row.YearMonth] = b
		}
		abs := row.Amount.Abs()
		b.rows[dir]++
		b.total[dir] = b.total[dir].Add(abs)
		if classify.FallbackRuleIDs[row.Class.RuleID] {
			b.count[row.Class.RuleID]++
			b.dollar[dir] = b.dollar[dir].Add(abs)
		}
	}

	months := make([]string, 0, len(byMonth))
	for ym := range byMonth {
		months = append(months, ym)
	}
	sort.Strings(months)

	hundred := decimal.NewFromInt(100)
	out := make([]FallbackPressure, 0, len(months)*len(fallbackRules))
	for _, ym := range months {
		b := byMonth[ym]
		for _, fr := range fallbackRules {
			dollar := b.dollar[fr.direction]
			pct := decimal.Zero
			if b.total[fr.direction].IsPositive() {
				pct = dollar.Mul(hundred).Div(b.total[fr.direction]).Round(2)
			}
			warn, crit := t.InflowWarnPct, t.InflowCritPct
			if fr.direction == DirectionOutflow {
				warn, crit = t.OutflowWarnPct, t.OutflowCritPct
			}
			out = append(out, FallbackPressure{
				YearMonth:     ym,
				RuleID:        fr.id,
				Direction:     fr.direction,
				Transactions:  b.rows[fr.direction],
				FallbackCount: b.count[fr.id],
				DollarValue:   dollar.Round(2),
				FallbackPct:   pct,
				Severity:      severity(pct, warn, crit),
			})
		}
	}
	return out
}

// baseRows filters to the rows fallback and anomaly analysis reason
// about: real transactions, excluding transfer and non-cash sections.
func baseRows(rows []model.LedgerRow) []model.LedgerRow {
	out := make([]model.LedgerRow, 0, len(rows))
	for _, row := range rows {
		if row.Class.RecordType != model.RecordTransaction {
			continue
		}
		switch row.Class.CashflowStatement {
		case model.CFSTransfer, model.CFSNonCash:
			continue
		}
		out = append(out, row)
	}
	return out
}

func severity(pct, warnPct, critPct decimal.Decimal) string {
	switch {
	case pct.GreaterThanOrEqual(critPct):
		return SeverityCritical
	case pct.GreaterThanOrEqual(warnPct):
		return SeverityWarning
	default:
		return SeverityOK
	}
}
