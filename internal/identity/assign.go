package identity

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/auditledger-dev/auditledger/internal/model"
)

// keyed carries one transaction plus its derived identity material.
type keyed struct {
	index       int // position in the input slice
	baseKey     string
	fingerprint string
}

// Assign computes and attaches a TxnID to every transaction, in place.
// IDs are content-addressed: base key (date, period, amount, description,
// source) plus a 1-based occurrence index that disambiguates legitimate
// repeats. Two rows identical across every content field are a fatal
// DuplicateError, never silently deduplicated.
func Assign(txns []model.Transaction) error {
	keys := make([]keyed, len(txns))
	groups := make(map[string][]int)

	for i, t := range txns {
		baseKey, err := BaseKey(t)
		if err != nil {
			return err
		}
		keys[i] = keyed{
			index:       i,
			baseKey:     baseKey,
			fingerprint: Fingerprint(t, baseKey),
		}
		groups[baseKey] = append(groups[baseKey], i)
	}

	if err := checkIndistinguishable(txns, keys, groups); err != nil {
		return err
	}

	for _, members := range groups {
		assignOccurrences(txns, keys, members)
	}

	return checkInvariants(txns)
}

// BaseKey builds the order-independent content key:
// date|period|amount_cents|description|source. Original row order is
// deliberately excluded so re-ingestion order cannot change identifiers.
func BaseKey(t model.Transaction) (string, error) {
	yearMonth := strings.Join(strings.Fields(t.YearMonth), " ")
	if yearMonth == "" {
		return "", fieldError("YearMonth", t.YearMonth, t.SourceFile)
	}
	source := CanonText(t.SourceFile)
	if source == "" {
		return "", fieldError("SourceFile", t.SourceFile, t.SourceFile)
	}

	return strings.Join([]string{
		CanonDate(t.Date),
		yearMonth,
		CanonCents(t.Amount),
		CanonText(t.Description),
		source,
	}, "|"), nil
}

// Fingerprint hashes the base key plus balance/withdrawal/deposit. It is
// purely a deterministic tie-breaker for occurrence ranking and is never
// part of the identifier itself.
func Fingerprint(t model.Transaction, baseKey string) string {
	key := strings.Join([]string{
		baseKey,
		canonNullCents(t.Balance),
		canonNullCents(t.Withdrawal),
		canonNullCents(t.Deposit),
	}, "|")
	sum := sha1.Sum([]byte(key))
	return hex.EncodeToString(sum[:])
}

// TxnID derives the final identifier from a base key and 1-based
// occurrence index.
func TxnID(baseKey string, occurrence int) string {
	sum := sha1.Sum([]byte(fmt.Sprintf("%s|OCC%03d", baseKey, occurrence)))
	return hex.EncodeToString(sum[:])
}

// assignOccurrences ranks one base-key group and writes TxnIDs. The sort
// key contains no row-order-dependent field, so the resulting rank is
// identical for any input permutation.
func assignOccurrences(txns []model.Transaction, keys []keyed, members []int) {
	ranked := make([]int, len(members))
	copy(ranked, members)

	sort.SliceStable(ranked, func(a, b int) bool {
		ta, tb := txns[ranked[a]], txns[ranked[b]]
		if c := compareNull(ta.Balance, tb.Balance); c != 0 {
			return c < 0
		}
		if c := compareNull(ta.Withdrawal, tb.Withdrawal); c != 0 {
			return c < 0
		}
		if c := compareNull(ta.Deposit, tb.Deposit); c != 0 {
			return c < 0
		}
		if c := ta.Amount.Cmp(tb.Amount); c != 0 {
			return c < 0
		}
		return keys[ranked[a]].fingerprint < keys[ranked[b]].fingerprint
	})

	for rank, idx := range ranked {
		txns[idx].TxnID = TxnID(keys[idx].baseKey, rank+1)
	}
}

// compareNull orders optional numerics ascending with missing values last.
func compareNull(a, b decimal.NullDecimal) int {
	switch {
	case a.Valid && b.Valid:
		return a.Decimal.Cmp(b.Decimal)
	case a.Valid:
		return -1
	case b.Valid:
		return 1
	default:
		return 0
	}
}

// checkIndistinguishable finds rows sharing both base key and fingerprint.
// Such rows are economically indistinguishable: no deterministic
// identifier can be assigned without masking a real duplicate transaction
// or an ingestion bug, so this is fatal.
func checkIndistinguishable(txns []model.Transaction, keys []keyed, groups map[string][]int) error {
	for _, members := range groups {
		if len(members) < 2 {
			continue
		}
		byFingerprint := make(map[string][]int)
		for _, idx := range members {
			fp := keys[idx].fingerprint
			byFingerprint[fp] = append(byFingerprint[fp], idx)
		}
		for _, dupes := range byFingerprint {
			if len(dupes) < 2 {
				continue
			}
			sample := make([]model.Transaction, len(dupes))
			for i, idx := range dupes {
				sample[i] = txns[idx]
			}
			return &DuplicateError{Sample: sample}
		}
	}
	return nil
}

// checkInvariants verifies the post-assignment contract: no blank IDs,
// identifier count equals row count, no duplicate IDs.
func checkInvariants(txns []model.Transaction) error {
	seen := make(map[string]int, len(txns))
	var blanks, dupes []model.Transaction

	for _, t := range txns {
		if strings.TrimSpace(t.TxnID) == "" {
			blanks = append(blanks, t)
			continue
		}
		seen[t.TxnID]++
	}
	for _, t := range txns {
		if seen[t.TxnID] > 1 {
			dupes = append(dupes, t)
		}
	}

	if len(blanks) > 0 {
		return &InvariantError{Reason: "blank identifiers after assignment", Rows: blanks}
	}
	if len(seen) != len(txns) {
		return &InvariantError{
			Reason: fmt.Sprintf("identifier bijection broken: %d rows, %d unique identifiers", len(txns), len(seen)),
			Rows:   dupes,
		}
	}
	return nil
}
