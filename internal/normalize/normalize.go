// Package normalize turns raw transaction fields into canonical comparable
// forms. Every function here is total: bad input maps to a sentinel value,
// never an error, so downstream hashing and scoring need no nil checks.
package normalize

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"finbooks/internal/models"
)

// UnknownDate is returned for any value that cannot be read as a date.
const UnknownDate = "unknown"

// dateLayouts are the formats accepted by Date, tried in order.
var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"2006-01-02T15:04:05Z07:00",
	"Jan 2, 2006",
	"Jan 2 2006",
}

var (
	nonAlnumPattern   = regexp.MustCompile(`[^a-z0-9\s]`)
	whitespacePattern = regexp.MustCompile(`\s+`)

	// Statement boilerplate words that carry no merchant signal.
	stopwordPattern = regexp.MustCompile(`\b(debit|credit|card|purchase|payment|pos|ach|web)\b`)
)

// Date renders a date value as YYYY-MM-DD, or UnknownDate if the input is a
// zero time or an unparseable string.
func Date(v any) string {
	switch d := v.(type) {
	case time.Time:
		if d.IsZero() {
			return UnknownDate
		}
		return d.Format("2006-01-02")
	case string:
		s := strings.TrimSpace(d)
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t.Format("2006-01-02")
			}
		}
		return UnknownDate
	default:
		return UnknownDate
	}
}

// Amount renders the absolute value with exactly two decimal places. Sign is
// not part of "amount" for matching purposes: a debit and a refund of the
// same magnitude normalize identically.
func Amount(d decimal.Decimal) string {
	return d.Abs().StringFixed(2)
}

// Description lowercases, strips punctuation, removes statement boilerplate
// words, and collapses whitespace. The result is for fuzzy comparison only,
// never storage.
func Description(s string) string {
	s = strings.ToLower(s)
	s = nonAlnumPattern.ReplaceAllString(s, "")
	s = stopwordPattern.ReplaceAllString(s, " ")
	s = whitespacePattern.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// DedupHash returns a stable hex digest over the normalized date, amount, and
// the first 30 characters of the normalized description. It is a fast
// pre-filter and idempotence key, not the matching mechanism itself.
func DedupHash(txn models.Transaction) string {
	desc := Description(txn.Description)
	if len(desc) > 30 {
		desc = desc[:30]
	}
	key := strings.ToLower(fmt.Sprintf("%s|%s|%s", Date(txn.Date), Amount(txn.Amount), desc))
	sum := md5.Sum([]byte(key))
	return hex.EncodeToString(sum[:])
}
