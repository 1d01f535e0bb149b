package identity

import (
	"fmt"
	"strings"

	"github.com/auditledger-dev/auditledger/internal/model"
)

// DuplicateError reports economically indistinguishable rows: identical
// base key and fingerprint. Carries a sample colliding group so the
// diagnostic can show the offending content in full.
type DuplicateError struct {
	Sample []model.Transaction
}

func (e *DuplicateError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "indistinguishable duplicate transactions: %d rows share every content field; ", len(e.Sample))
	b.WriteString("this indicates duplicate statement ingestion or a true duplicate with no differentiating field\n")
	b.WriteString(renderRows(e.Sample))
	return b.String()
}

// InvariantError reports a broken post-assignment invariant, listing the
// offending rows.
type InvariantError struct {
	Reason string
	Rows   []model.Transaction
}

func (e *InvariantError) Error() string {
	return e.Reason + "\n" + renderRows(e.Rows)
}

func renderRows(rows []model.Transaction) string {
	const maxSample = 10
	var b strings.Builder
	for i, t := range rows {
		if i == maxSample {
			fmt.Fprintf(&b, "  ... %d more\n", len(rows)-maxSample)
			break
		}
		balance := ""
		if t.Balance.Valid {
			balance = t.Balance.Decimal.StringFixed(2)
		}
		fmt.Fprintf(&b, "  date=%s amount=%s description=%q source=%s balance=%s\n",
			CanonDate(t.Date), t.Amount.StringFixed(2), t.Description, t.SourceFile, balance)
	}
	return b.String()
}
