// Package diagnostics measures classification quality signals: per-rule
// volume, each fallback rule's share of its flow direction, recurring
// unmatched descriptions, and how much of the classifier's output the
// override workbook has corrected away. High fallback pressure means
// the priority rule set is missing markers; thresholds are advisory
// severity cutoffs, not correctness gates.
package diagnostics

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/auditledger-dev/auditledger/internal/classify"
	"github.com/auditledger-dev/auditledger/internal/model"
)

// RuleImpact summarizes one rule's footprint across the ledger.
type RuleImpact struct {
	RuleID      string
	Count       int
	AbsAmount   decimal.Decimal // sum of |amount| matched by the rule
	CountShare  decimal.Decimal // percent of transaction rows
	AmountShare decimal.Decimal // percent of total |amount|
	IsFallback  bool
}

// SummarizeRules aggregates per-rule counts and absolute amounts.
// Summary rows (balance carry-forward) are excluded from the base.
func SummarizeRules(rows []model.LedgerRow) []RuleImpact {
	byRule := make(map[string]*RuleImpact)
	totalCount := 0
	totalAmount := decimal.Zero

	for _, row := range rows {
		if row.Class.RecordType != model.RecordTransaction {
			continue
		}
		totalCount++
		abs := row.Amount.Abs()
		totalAmount = totalAmount.Add(abs)

		r, ok := byRule[row.Class.RuleID]
		if !ok {
			r = &RuleImpact{
				RuleID:     row.Class.RuleID,
				AbsAmount:  decimal.Zero,
				IsFallback: classify.FallbackRuleIDs[row.Class.RuleID],
			}
			byRule[row.Class.RuleID] = r
		}
		r.Count++
		r.AbsAmount = r.AbsAmount.Add(abs)
	}

	hundred := decimal.NewFromInt(100)
	impacts := make([]RuleImpact, 0, len(byRule))
	for _, r := range byRule {
		if totalCount > 0 {
			r.CountShare = decimal.NewFromInt(int64(r.Count)).Mul(hundred).
				Div(decimal.NewFromInt(int64(totalCount))).Round(2)
		}
		if totalAmount.IsPositive() {
			r.AmountShare = r.AbsAmount.Mul(hundred).Div(totalAmount).Round(2)
		}
		impacts = append(impacts, *r)
	}

	sort.Slice(impacts, func(i, j int) bool {
		if impacts[i].Count != impacts[j].Count {
			return impacts[i].Count > impacts[j].Count
		}
		return impacts[i].RuleID < impacts[j].RuleID
	})
	return impacts
}
