package statement

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var monthTokens = map[string]time.Month{
	"JAN": time.January, "FEB": time.February, "MAR": time.March,
	"APR": time.April, "MAY": time.May, "JUN": time.June,
	"JUL": time.July, "AUG": time.August, "SEP": time.September,
	"OCT": time.October, "NOV": time.November, "DEC": time.December,
}

var (
	yearPattern     = regexp.MustCompile(`20\d{2}`)
	monthPattern    = regexp.MustCompile(`\b(JAN|FEB|MAR|APR|MAY|JUN|JUL|AUG|SEP|OCT|NOV|DEC)\b`)
	monthYYPattern  = regexp.MustCompile(`\b(JAN|FEB|MAR|APR|MAY|JUN|JUL|AUG|SEP|OCT|NOV|DEC)(\d{2})\b`)
	amountNoise     = regexp.MustCompile(`[^0-9.\-()]`)
	parenNegative   = regexp.MustCompile(`^\((-?\d+(\.\d+)?)\)$`)
	inlineYearCheck = regexp.MustCompile(`\b20\d{2}\b`)
)

// InferYearMonth extracts (year, month) hints from a statement filename,
// e.g. "2024_1. Jan24.csv" -> (2024, 1). Either value is 0 when the
// filename carries no usable token.
func InferYearMonth(filename string) (year int, month time.Month) {
	name := strings.ToUpper(filename)

	if m := yearPattern.FindString(name); m != "" {
		year, _ = strconv.Atoi(m)
	}

	// "Jan24" style first: the glued two-digit year defeats the word
	// boundary in the plain month pattern.
	if m := monthYYPattern.FindStringSubmatch(name); m != nil {
		month = monthTokens[m[1]]
		if year == 0 {
			yy, _ := strconv.Atoi(m[2])
			year = 2000 + yy
		}
	} else if m := monthPattern.FindStringSubmatch(name); m != nil {
		month = monthTokens[m[1]]
	}
	return year, month
}

// parseAmount parses numeric strings like "3,610.00" or "(120.50)" into a
// decimal. Thousands separators are stripped and parenthesized values are
// negative. Unparsable or empty values come back invalid rather than
// failing the row.
func parseAmount(s string) decimal.NullDecimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.NullDecimal{}
	}

	s = strings.ReplaceAll(s, ",", "")
	s = amountNoise.ReplaceAllString(s, "")

	if m := parenNegative.FindStringSubmatch(s); m != nil {
		s = "-" + m[1]
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

// dayFirst layouts accepted for statement dates that already carry a year.
var datedLayouts = []string{
	"2 Jan 2006",
	"02 Jan 2006",
	"2 January 2006",
	"2006-01-02",
	"02/01/2006",
	"2/1/2006",
}

// dayMonth layouts for dates missing a year ("02 Jan").
var yearlessLayouts = []string{
	"2 Jan",
	"02 Jan",
	"2 January",
	"02/01",
}

// parseDate parses statement dates, appending the filename-inferred year
// when the date itself has none. Returns the zero time when unparsable;
// the row is kept either way.
func parseDate(s string, year int) time.Time {
	s = collapseWS(s)
	if s == "" {
		return time.Time{}
	}

	if inlineYearCheck.MatchString(s) {
		for _, layout := range datedLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t
			}
		}
		return time.Time{}
	}

	if year != 0 {
		for _, layout := range yearlessLayouts {
			if t, err := time.Parse(layout+" 2006", fmt.Sprintf("%s %04d", s, year)); err == nil {
				return t
			}
		}
	}
	return time.Time{}
}

func collapseWS(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
