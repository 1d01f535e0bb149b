package diagnostics

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/auditledger-dev/auditledger/internal/classify"
	"github.com/auditledger-dev/auditledger/internal/model"
)

// Anomaly groupings, one per fallback direction.
const (
	AnomalyOtherIncome   = "OTHER_INCOME"
	AnomalyDiscretionary = "DISCRETIONARY"
)

// Recurrence patterns for a grouped description.
const (
	RecurrenceOneOff    = "ONE_OFF"
	RecurrenceSporadic  = "SPORADIC"
	RecurrenceRecurring = "RECURRING"
)

// CategoryAnomaly is one recurring-description drilldown row: every
// distinct normalized description that landed in a fallback rule, with
// enough context (frequency, span, rails, a category hint) for an
// analyst to decide whether it deserves a dedicated rule.
type CategoryAnomaly struct {
	AnomalyType       string
	Description       string // normalized, for grouping
	RuleID            string
	Count             int
	TotalAmount       decimal.Decimal // signed sum
	AvgAmount         decimal.Decimal
	FirstYearMonth    string
	LastYearMonth     string
	MonthsSpan        int
	UniqueMonths      int
	Recurrence        string
	RailBreakdown     string // "GIRO:$1234|FAST:$567", by magnitude
	SuggestedCategory string // hint only, never applied
}

// categoryHints suggest a category for an unmatched description. Order
// matters: the first matching hint wins.
var categoryHints = []struct {
	pattern  *regexp.Regexp
	category string
}{
	{regexp.MustCompile(`\bSINGTEL\b|\bSTARHUB\b|\bM1\b`), "UTILITIES/TELECOM"},
	{regexp.MustCompile(`\bSP\s+SERVICES\b|\bSP\s+GROUP\b`), "UTILITIES/ELECTRIC_GAS"},
	{regexp.MustCompile(`\bPUB\b`), "UTILITIES/WATER"},
	{regexp.MustCompile(`\bTOWNCOUNCIL\b|\bTCSC\b`), "HOUSING/TOWN_COUNCIL_FEES"},
	{regexp.MustCompile(`\bMCST\b`), "HOUSING/HOA_CONDO_FEES"},
	{regexp.MustCompile(`\bTRANSITLIN\b|\bEZLINK\b`), "TRANSPORT/PUBLIC_TRANSIT"},
	{regexp.MustCompile(`\bGRAB\b|\bGOJEK\b`), "TRANSPORT/RIDESHARE"},
	{regexp.MustCompile(`\bCOMFORT\b|\bCDG\b`), "TRANSPORT/TAXI"},
	{regexp.MustCompile(`\bNETFLIX\b|\bSPOTIFY\b|\bDISNEY\b`), "SUBSCRIPTIONS/ENTERTAINMENT"},
	{regexp.MustCompile(`\bREFUND\b`), "INCOME/REFUND"},
	{regexp.MustCompile(`\bCASHBACK\b`), "INCOME/CASHBACK"},
	{regexp.MustCompile(`\bDIVIDEND\b`), "INCOME/DIVIDEND"},
	{regexp.MustCompile(`\bFUNDS\s+TRANSFER\b.*\d{10}`), "POSSIBLE_TRANSFER"},
	{regexp.MustCompile(`\bFAST\b.*\d{8}`), "POSSIBLE_TRANSFER"},
}

// DetectAnomalies groups the fallback-rule rows by normalized description
// and characterizes each group. Deterministic ordering: absolute total
// amount descending, then description ascending.
func DetectAnomalies(rows []model.LedgerRow) []CategoryAnomaly {
	type key struct {
		anomalyType string
		desc        string
	}
	type group struct {
		ruleID string
		count  int
		total  decimal.Decimal
		months map[string]bool
		rails  map[string]decimal.Decimal
	}
	groups := make(map[key]*group)

	for _, row := range baseRows(rows) {
		var anomalyType string
		switch {
		case row.Class.RuleID == classify.FallbackInflowRuleID && row.Amount.IsPositive():
			anomalyType = AnomalyOtherIncome
		case row.Class.RuleID == classify.FallbackOutflowRuleID && row.Amount.IsNegative():
			anomalyType = AnomalyDiscretionary
		default:
			continue
		}

		k := key{anomalyType, normalizeDescription(row.Description)}
		g, ok := groups[k]
		if !ok {
			g = &group{
				ruleID: row.Class.RuleID,
				total:  decimal.Zero,
				months: map[string]bool{},
				rails:  map[string]decimal.Decimal{},
			}
			groups[k] = g
		}
		g.count++
		g.total = g.total.Add(row.Amount)
		if row.YearMonth != "" {
			g.months[row.YearMonth] = true
		}
		rail := row.Class.BankRail
		if rail == "" {
			rail = "OTHER"
		}
		g.rails[rail] = g.rails[rail].Add(row.Amount.Abs())
	}

	out := make([]CategoryAnomaly, 0, len(groups))
	for k, g := range groups {
		first, last := monthRange(g.months)
		span := monthsSpan(first, last)
		out = append(out, CategoryAnomaly{
			AnomalyType:       k.anomalyType,
			Description:       k.desc,
			RuleID:            g.ruleID,
			Count:             g.count,
			TotalAmount:       g.total.Round(2),
			AvgAmount:         g.total.Div(decimal.NewFromInt(int64(g.count))).Round(2),
			FirstYearMonth:    first,
			LastYearMonth:     last,
			MonthsSpan:        span,
			UniqueMonths:      len(g.months),
			Recurrence:        recurrencePattern(g.count, len(g.months), span),
			RailBreakdown:     railBreakdown(g.rails),
			SuggestedCategory: suggestCategory(k.desc),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		ai, aj := out[i].TotalAmount.Abs(), out[j].TotalAmount.Abs()
		if !ai.Equal(aj) {
			return ai.GreaterThan(aj)
		}
		return out[i].Description < out[j].Description
	})
	return out
}

// normalizeDescription canonicalizes a description for grouping:
// uppercase, collapsed whitespace, capped at 80 characters.
func normalizeDescription(desc string) string {
	s := strings.Join(strings.Fields(strings.ToUpper(desc)), " ")
	if len(s) > 80 {
		s = s[:80]
	}
	return s
}

// suggestCategory returns the first matching hint, or "".
func suggestCategory(descNorm string) string {
	for _, h := range categoryHints {
		if h.pattern.MatchString(descNorm) {
			return h.category
		}
	}
	return ""
}

func monthRange(months map[string]bool) (first, last string) {
	for ym := range months {
		if first == "" || ym < first {
			first = ym
		}
		if ym > last {
			last = ym
		}
	}
	return first, last
}

// monthsSpan is the inclusive month count between two "2006-01" strings;
// the same month counts as 1. Malformed input falls back to 1.
func monthsSpan(first, last string) int {
	fy, fm, ok1 := splitYearMonth(first)
	ly, lm, ok2 := splitYearMonth(last)
	if !ok1 || !ok2 {
		return 1
	}
	return (ly-fy)*12 + (lm - fm) + 1
}

func splitYearMonth(ym string) (year, month int, ok bool) {
	parts := strings.SplitN(ym, "-", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	year, err1 := strconv.Atoi(parts[0])
	month, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return year, month, true
}

// recurrencePattern characterizes how regularly a description appears:
// 3+ occurrences covering 70%+ of the span is RECURRING, 30%+ coverage
// is SPORADIC, anything else ONE_OFF.
func recurrencePattern(count, uniqueMonths, monthsSpan int) string {
	if count == 1 {
		return RecurrenceOneOff
	}
	if monthsSpan < 1 {
		monthsSpan = 1
	}
	coverage := float64(uniqueMonths) / float64(monthsSpan)
	if count >= 3 && coverage >= 0.7 {
		return RecurrenceRecurring
	}
	if coverage >= 0.3 {
		return RecurrenceSporadic
	}
	return RecurrenceOneOff
}

// railBreakdown renders per-rail dollar totals sorted by magnitude
// descending, then rail name ascending.
func railBreakdown(rails map[string]decimal.Decimal) string {
	type entry struct {
		rail string
		amt  decimal.Decimal
	}
	entries := make([]entry, 0, len(rails))
	for rail, amt := range rails {
		entries = append(entries, entry{rail, amt})
	}
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].amt.Equal(entries[j].amt) {
			return entries[i].amt.GreaterThan(entries[j].amt)
		}
		return entries[i].rail < entries[j].rail
	})
	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = fmt.Sprintf("%s:$%d", e.rail, e.amt.IntPart())
	}
	return strings.Join(parts, "|")
}
