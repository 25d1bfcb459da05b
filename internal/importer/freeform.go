package importer

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"finbooks/internal/categorize"
	"finbooks/internal/models"
)

// Freeform input is whatever a user pasted: tab-separated, comma-separated,
// column-aligned, or plain prose with a date and an amount somewhere on each
// line. The parser guesses the delimiter per line block and then pulls the
// first date-looking and first amount-looking token out of each row.

var (
	freeformDatePattern   = regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{4}$|^\d{4}-\d{2}-\d{2}$`)
	freeformAmountPattern = regexp.MustCompile(`^\(?-?\$?[\d,]+\.\d{2}\)?$`)
	twoSpaceSplit         = regexp.MustCompile(`\s{2,}`)
)

var freeformDateLayouts = []string{"01/02/2006", "1/2/2006", "2006-01-02"}

// ParseFreeform reads pasted tabular or unstructured text and stages a
// best-effort transaction per line. Lines with no recognizable date or
// amount are skipped; an input yielding nothing at all is an error so the
// caller can tell the user instead of silently importing zero rows.
func ParseFreeform(r io.Reader, source models.Source) ([]models.StagedTransaction, error) {
	var staged []models.StagedTransaction

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		txn, ok := parseFreeformLine(line)
		if !ok {
			continue
		}
		staged = append(staged, models.NewStagedTransaction(txn, source, manualConfidence))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}

	if len(staged) == 0 {
		return nil, fmt.Errorf("no transactions recognized in input")
	}
	return staged, nil
}

// parseFreeformLine tries each delimiter guess in turn and keeps the first
// split that yields both a date and an amount. Trying commas before plain
// spaces would otherwise shred amounts with thousands separators.
func parseFreeformLine(line string) (models.Transaction, bool) {
	for _, fields := range splitCandidates(line) {
		if txn, ok := extractFields(line, fields); ok {
			return txn, true
		}
	}
	return models.Transaction{}, false
}

func extractFields(line string, fields []string) (models.Transaction, bool) {
	var (
		date     time.Time
		amount   decimal.Decimal
		gotDate  bool
		gotAmt   bool
		descrips []string
	)

	for _, field := range fields {
		token := strings.TrimSpace(field)
		if token == "" {
			continue
		}
		if !gotDate && freeformDatePattern.MatchString(token) {
			if d, ok := parseFreeformDate(token); ok {
				date = d
				gotDate = true
				continue
			}
		}
		if !gotAmt && freeformAmountPattern.MatchString(token) {
			if a, ok := parseFreeformAmount(token); ok {
				amount = a
				gotAmt = true
				continue
			}
		}
		descrips = append(descrips, token)
	}

	if !gotDate || !gotAmt {
		return models.Transaction{}, false
	}

	txType := models.TypeCredit
	if amount.IsNegative() {
		txType = models.TypeDebit
	}

	desc := strings.Join(descrips, " ")
	return models.Transaction{
		Date:        date,
		Amount:      amount.Abs(),
		Description: desc,
		Type:        txType,
		Category:    categorize.Lookup(desc),
		RawText:     line,
	}, true
}

// splitCandidates returns the plausible field splits in preference order:
// tabs, commas, runs of two or more spaces, then single spaces.
func splitCandidates(line string) [][]string {
	var candidates [][]string
	if strings.Contains(line, "\t") {
		candidates = append(candidates, strings.Split(line, "\t"))
	}
	if strings.Contains(line, ",") {
		candidates = append(candidates, strings.Split(line, ","))
	}
	if twoSpaceSplit.MatchString(line) {
		candidates = append(candidates, twoSpaceSplit.Split(line, -1))
	}
	candidates = append(candidates, strings.Fields(line))
	return candidates
}

func parseFreeformDate(token string) (time.Time, bool) {
	for _, layout := range freeformDateLayouts {
		if d, err := time.Parse(layout, token); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}

// parseFreeformAmount reads "$1,234.56", "-42.00", or accounting-style
// "(42.00)" as a signed decimal.
func parseFreeformAmount(token string) (decimal.Decimal, bool) {
	negative := strings.HasPrefix(token, "(") && strings.HasSuffix(token, ")")
	token = strings.Trim(token, "()")
	token = strings.ReplaceAll(token, "$", "")
	token = strings.ReplaceAll(token, ",", "")

	d, err := decimal.NewFromString(token)
	if err != nil {
		return decimal.Zero, false
	}
	if negative {
		d = d.Neg()
	}
	return d, true
}
