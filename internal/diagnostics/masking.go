package diagnostics

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/auditledger-dev/auditledger/internal/model"
)

// MaskingMetric is one row of the override-masking report: a named
// metric about how much of the classifier's output analysts have
// corrected away, and where those corrections cluster.
type MaskingMetric struct {
	Metric string
	Value  string
	Note   string
}

// Two or more overrides on the same description suggest a rule is
// missing; below that a correction is just a correction.
const magnetMinOverrides = 2

const maxMagnets = 10

// SummarizeOverrideMasking reports how overrides reshape the ledger.
// available is whether an override workbook was configured at all;
// overrides are the enabled workbook rows. Rule_ID always keeps the
// classifier's own verdict, so the masked rules are directly observable.
func SummarizeOverrideMasking(rows []model.LedgerRow, overrides []model.Override, available bool) []MaskingMetric {
	if !available {
		return []MaskingMetric{{
			Metric: "Overrides_Available",
			Value:  "false",
			Note:   "no override workbook configured",
		}}
	}

	metrics := []MaskingMetric{
		{Metric: "Overrides_Available", Value: "true"},
		{
			Metric: "Total_Overrides_Enabled",
			Value:  strconv.Itoa(len(overrides)),
			Note:   "enabled rows in the override workbook",
		},
	}

	total := 0
	byDesc := make(map[string]int)
	byRule := make(map[string]int)
	overridden := 0
	for _, row := range rows {
		if row.Class.RecordType != model.RecordTransaction {
			continue
		}
		total++
		if !row.WasOverridden {
			continue
		}
		overridden++
		byDesc[normalizeDescription(row.Description)]++
		byRule[row.Class.RuleID]++
	}

	pct := decimal.Zero
	if total > 0 {
		pct = decimal.NewFromInt(int64(overridden)).Mul(decimal.NewFromInt(100)).
			Div(decimal.NewFromInt(int64(total))).Round(2)
	}
	metrics = append(metrics,
		MaskingMetric{
			Metric: "Transactions_Overridden",
			Value:  strconv.Itoa(overridden),
			Note:   "ledger rows carrying an override audit id",
		},
		MaskingMetric{
			Metric: "Override_Pct",
			Value:  pct.StringFixed(2) + "%",
			Note:   "share of transaction rows overridden",
		},
		MaskingMetric{
			Metric: "Top_Override_Magnets",
			Value:  overrideMagnets(byDesc),
			Note:   "descriptions with repeated overrides, candidates for a dedicated rule",
		},
		MaskingMetric{
			Metric: "Masked_Rules",
			Value:  maskedRules(byRule),
			Note:   "classifier verdicts displaced by overrides; Rule_ID stays the classifier's own",
		},
	)
	return metrics
}

// overrideMagnets lists descriptions overridden at least twice, most
// overridden first, capped at maxMagnets.
func overrideMagnets(byDesc map[string]int) string {
	type magnet struct {
		desc  string
		count int
	}
	magnets := make([]magnet, 0, len(byDesc))
	for desc, count := range byDesc {
		if count >= magnetMinOverrides {
			magnets = append(magnets, magnet{desc, count})
		}
	}
	if len(magnets) == 0 {
		return "None"
	}
	sort.Slice(magnets, func(i, j int) bool {
		if magnets[i].count != magnets[j].count {
			return magnets[i].count > magnets[j].count
		}
		return magnets[i].desc < magnets[j].desc
	})
	if len(magnets) > maxMagnets {
		magnets = magnets[:maxMagnets]
	}
	parts := make([]string, len(magnets))
	for i, m := range magnets {
		parts[i] = fmt.Sprintf("%s (%dx)", m.desc, m.count)
	}
	return strings.Join(parts, "; ")
}

// maskedRules renders overridden-row counts per classifier rule, highest
// first.
func maskedRules(byRule map[string]int) string {
	type masked struct {
		ruleID string
		count  int
	}
	rules := make([]masked, 0, len(byRule))
	for id, count := range byRule {
		rules = append(rules, masked{id, count})
	}
	if len(rules) == 0 {
		return "None"
	}
	sort.Slice(rules, func(i, j int) bool {
		if rules[i].count != rules[j].count {
			return rules[i].count > rules[j].count
		}
		return rules[i].ruleID < rules[j].ruleID
	})
	parts := make([]string, len(rules))
	for i, r := range rules {
		parts[i] = fmt.Sprintf("%s:%d", r.ruleID, r.count)
	}
	return strings.Join(parts, "|")
}
