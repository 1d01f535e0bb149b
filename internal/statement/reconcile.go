package statement

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/auditledger-dev/auditledger/internal/model"
)

// DefaultTolerance is the reconciliation tolerance in currency units.
var DefaultTolerance = decimal.NewFromFloat(0.02)

// ReconcileResult is the balance check for one (source file, period)
// group: opening + sum(amount) against closing. It is an observability
// signal for the investigator, never a processing gate.
type ReconcileResult struct {
	SourceFile     string
	YearMonth      string
	OpeningBalance decimal.NullDecimal
	ClosingBalance decimal.NullDecimal
	SumAmount      decimal.Decimal
	Delta          decimal.NullDecimal
	OK             bool
}

// Reconcile checks each (SourceFile, YearMonth) group. Opening and closing
// balances are the first and last non-null Balance in original file order,
// not date order, because carry-forward lines may have no date.
func Reconcile(txns []model.Transaction, tolerance decimal.Decimal) []ReconcileResult {
	type groupKey struct {
		source string
		ym     string
	}

	groups := make(map[groupKey][]model.Transaction)
	var order []groupKey
	for _, t := range txns {
		if t.YearMonth == "" {
			continue
		}
		k := groupKey{t.SourceFile, t.YearMonth}
		if _, seen := groups[k]; !seen {
			order = append(order, k)
		}
		groups[k] = append(groups[k], t)
	}
	sort.Slice(order, func(i, j int) bool {
		if order[i].source != order[j].source {
			return order[i].source < order[j].source
		}
		return order[i].ym < order[j].ym
	})

	var results []ReconcileResult
	for _, k := range order {
		g := groups[k]
		sort.SliceStable(g, func(i, j int) bool { return g[i].RowOrder < g[j].RowOrder })

		var opening, closing decimal.NullDecimal
		sum := decimal.Zero
		for _, t := range g {
			sum = sum.Add(t.Amount)
			if t.Balance.Valid {
				if !opening.Valid {
					opening = t.Balance
				}
				closing = t.Balance
			}
		}

		res := ReconcileResult{
			SourceFile:     k.source,
			YearMonth:      k.ym,
			OpeningBalance: opening,
			ClosingBalance: closing,
			SumAmount:      sum,
		}
		if opening.Valid && closing.Valid {
			delta := opening.Decimal.Add(sum).Sub(closing.Decimal)
			res.Delta = decimal.NullDecimal{Decimal: delta, Valid: true}
			res.OK = delta.Abs().LessThanOrEqual(tolerance)
		}
		results = append(results, res)
	}
	return results
}
