// Package parser recovers structured transactions from layout-preserved bank
// statement text. Two statement dialects are recognized: personal (fixed
// four-section layout) and business (stateful multi-section, multi-line
// scan). Text is expected to come from a layout-preserving extraction of the
// statement PDF; see ExtractText.
package parser

import (
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"finbooks/internal/logger"
	"finbooks/internal/models"
)

// UnknownFormatError means the text matched neither known statement dialect,
// or was missing the markers parsing depends on. Nothing partial is returned
// alongside it.
type UnknownFormatError struct {
	Reason string
}

func (e *UnknownFormatError) Error() string {
	return "unknown statement format: " + e.Reason
}

// Dialect-identifying markers. Checked before any parsing strategy runs.
const (
	personalMarker = "Virtual Wallet"
	businessMarker = "Business Checking"
)

// Shared header/summary patterns. Each is a named constant because statement
// layouts are brittle and silent regressions are easy to introduce.
var (
	// Statement period: "For the period 01/01/2024 to 01/31/2024" (the
	// leading words vary between dialects, the date span does not).
	periodPattern = regexp.MustCompile(`(\d{1,2}/\d{1,2}/\d{4})\s+to\s+(\d{1,2}/\d{1,2}/\d{4})`)

	// Account number: "Account Number: 12-3456-7890" (sometimes partially
	// masked). Only the last four digits are kept.
	accountPattern = regexp.MustCompile(`Account [Nn]umber:\s*[\dXx*]{2}-[\dXx*]{4}-(\d{4})`)

	// Business statements carry the account holder name on the line before
	// the account number.
	accountNamePattern = regexp.MustCompile(`(?m)^\s*([A-Z][A-Z0-9 &.,'-]{2,60}?)\s*\n\s*Account [Nn]umber:`)

	// The balance summary row holds four figures: beginning balance, total
	// additions, total deductions, ending balance.
	amountToken = regexp.MustCompile(`-?[\d,]+\.\d{2}`)
)

const periodDateLayout = "01/02/2006"

// Parser converts one statement's extracted text into a ParsedStatement.
// A Parser is cheap to construct and safe to reuse across statements;
// per-parse state lives on the call stack.
type Parser struct {
	log *slog.Logger
}

// New creates a statement parser.
func New() *Parser {
	return &Parser{log: logger.Default()}
}

// Parse detects the statement dialect and extracts all transactions.
func (p *Parser) Parse(text string) (*models.ParsedStatement, error) {
	switch {
	case strings.Contains(text, personalMarker):
		return p.parsePersonal(text)
	case strings.Contains(text, businessMarker):
		return p.parseBusiness(text)
	default:
		return nil, &UnknownFormatError{Reason: "no recognized dialect marker"}
	}
}

// parseCommon extracts the fields both dialects share: period, balances, and
// the masked account number. It also fixes the year-inference window.
func (p *Parser) parseCommon(text string, stmt *models.ParsedStatement) (*yearWindow, error) {
	match := periodPattern.FindStringSubmatch(text)
	if match == nil {
		return nil, &UnknownFormatError{Reason: "no statement period found"}
	}

	start, err := time.Parse(periodDateLayout, match[1])
	if err != nil {
		return nil, &UnknownFormatError{Reason: fmt.Sprintf("bad period start %q", match[1])}
	}
	end, err := time.Parse(periodDateLayout, match[2])
	if err != nil {
		return nil, &UnknownFormatError{Reason: fmt.Sprintf("bad period end %q", match[2])}
	}

	window, err := newYearWindow(start, end)
	if err != nil {
		return nil, err
	}

	stmt.PeriodStart = start
	stmt.PeriodEnd = end

	if m := accountPattern.FindStringSubmatch(text); m != nil {
		stmt.AccountNumber = "****" + m[1]
	}

	p.parseBalances(text, stmt)
	return window, nil
}

// parseBalances reads the four-figure summary row following the "Beginning
// balance" label. Missing balances are left at zero rather than failing the
// parse.
func (p *Parser) parseBalances(text string, stmt *models.ParsedStatement) {
	idx := strings.Index(text, "Beginning balance")
	if idx == -1 {
		return
	}
	region := text[idx:]
	if cut := strings.Index(region, "\n\n"); cut != -1 {
		region = region[:cut]
	}
	amounts := amountToken.FindAllString(region, 4)
	if len(amounts) < 4 {
		return
	}
	stmt.BeginningBalance = parseAmount(amounts[0])
	stmt.EndingBalance = parseAmount(amounts[3])
}

// yearWindow assigns a calendar year to MM/DD transaction dates based on the
// statement period. For a period contained in one year every entry takes that
// year. For a December-to-January span, December entries keep the start year
// and everything else takes the end year. Spans across more than one year
// boundary are rejected up front rather than guessed at.
type yearWindow struct {
	startYear int
	endYear   int
}

func newYearWindow(start, end time.Time) (*yearWindow, error) {
	if end.Before(start) {
		return nil, &UnknownFormatError{Reason: "statement period end precedes start"}
	}
	switch end.Year() - start.Year() {
	case 0:
		return &yearWindow{startYear: start.Year(), endYear: end.Year()}, nil
	case 1:
		if start.Month() != time.December {
			return nil, &UnknownFormatError{Reason: "unsupported statement period longer than one year boundary"}
		}
		return &yearWindow{startYear: start.Year(), endYear: end.Year()}, nil
	default:
		return nil, &UnknownFormatError{Reason: "unsupported statement period spanning multiple years"}
	}
}

// dateFor resolves an MM/DD pair against the window.
func (w *yearWindow) dateFor(month, day int) time.Time {
	year := w.endYear
	if month == 12 {
		year = w.startYear
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

// parseMonthDay splits an "MM/DD" token.
func parseMonthDay(s string) (int, int, bool) {
	parts := strings.Split(s, "/")
	if len(parts) != 2 {
		return 0, 0, false
	}
	month, err1 := strconv.Atoi(parts[0])
	day, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || month < 1 || month > 12 || day < 1 || day > 31 {
		return 0, 0, false
	}
	return month, day, true
}

// parseAmount converts "1,234.56" (optionally signed) to a decimal. Returns
// zero on malformed input; callers have already pattern-matched the token.
func parseAmount(s string) decimal.Decimal {
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, "$", "")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// stripReference removes a trailing run of ten or more digits from a
// description, returning the cleaned description and the reference number.
var trailingRefPattern = regexp.MustCompile(`\s*(\d{10,})\s*$`)

func stripReference(desc string) (string, string) {
	if m := trailingRefPattern.FindStringSubmatch(desc); m != nil {
		return strings.TrimSpace(strings.TrimSuffix(desc, m[0])), m[1]
	}
	return strings.TrimSpace(desc), ""
}

// sortByDate orders transactions date ascending, preserving statement order
// within a day.
func sortByDate(txns []models.Transaction) {
	sort.SliceStable(txns, func(i, j int) bool {
		return txns[i].Date.Before(txns[j].Date)
	})
}
