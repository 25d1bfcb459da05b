package parser

import (
	"regexp"
	"strings"

	"finbooks/internal/categorize"
	"finbooks/internal/models"
)

// businessSection describes one labeled region of a business statement.
// Checks use a distinct line format; every other section shares the generic
// date-amount-description shape.
type businessSection struct {
	header string
	txType models.TransactionType
	checks bool
}

var businessSections = []businessSection{
	{header: "Deposits", txType: models.TypeCredit},
	{header: "ATM Deposits and Additions", txType: models.TypeCredit},
	{header: "ACH Additions", txType: models.TypeCredit},
	{header: "Checks and Substitute Checks", txType: models.TypeDebit, checks: true},
	{header: "Debit Card Purchases", txType: models.TypeDebit},
	{header: "POS Purchases", txType: models.TypeDebit},
	{header: "ATM/Misc. Debit Card Transactions", txType: models.TypeDebit},
	{header: "ACH Deductions", txType: models.TypeDebit},
	{header: "Service Charges and Fees", txType: models.TypeDebit},
	{header: "Other Deductions", txType: models.TypeDebit},
}

// The Daily Balance table repeats date+amount pairs that are ledger
// snapshots, not transactions. Its whole body is skipped.
const dailyBalanceHeader = "Daily Balance Detail"

var (
	// Generic business transaction line: MM/DD amount description. The
	// description may be empty on the first line and continue below.
	businessTxnPattern = regexp.MustCompile(`^\s*(\d{2}/\d{2})\s+([\d,]+\.\d{2})\s*(.*?)\s*$`)

	// Checks line: MM/DD check-number [*] amount [reference]. The asterisk
	// marks a break in check sequence.
	checkTxnPattern = regexp.MustCompile(`^\s*(\d{2}/\d{2})\s+(\d+)\s*\*?\s+([\d,]+\.\d{2})\s*(.*?)\s*$`)

	pageMarkerPattern = regexp.MustCompile(`^Page \d+ of \d+$`)
)

// noiseMarkers are structural lines that are neither transactions nor
// description continuations.
var noiseMarkers = []string{
	"Date posted Amount Transaction description",
	"Date posted Check number Amount Reference number",
	"Date Amount Description",
	"Date Amount Date Amount",
	"continued on next page",
	"Member FDIC",
	"For 24-hour banking",
	"Business Checking Account Statement",
}

func isNoiseLine(trimmed string) bool {
	if pageMarkerPattern.MatchString(trimmed) {
		return true
	}
	for _, marker := range noiseMarkers {
		if strings.Contains(trimmed, marker) {
			return true
		}
	}
	return false
}

// businessScan is the line-scanner state: the active section (nil outside any
// extraction region), a flag for the daily-balance table, the transaction
// being accumulated, and its buffered description fragments.
type businessScan struct {
	section        *businessSection
	inDailyBalance bool
	pending        *models.Transaction
	descBuffer     []string
	sectionTxns    int
	skipped        int
}

func (p *Parser) parseBusiness(text string) (*models.ParsedStatement, error) {
	stmt := &models.ParsedStatement{StatementType: models.StatementBusiness}

	window, err := p.parseCommon(text, stmt)
	if err != nil {
		return nil, err
	}

	if m := accountNamePattern.FindStringSubmatch(text); m != nil {
		stmt.AccountName = strings.TrimSpace(m[1])
	}

	scan := &businessScan{}
	for _, raw := range strings.Split(text, "\n") {
		p.scanBusinessLine(scan, raw, window, stmt)
	}
	// End of input finalizes whatever is still pending.
	p.finalize(scan, stmt)
	p.noteSectionEnd(scan)

	stmt.SkippedLines = scan.skipped
	sortByDate(stmt.Transactions)
	return stmt, nil
}

// scanBusinessLine advances the state machine by one line. Transitions:
// section headers finalize the pending transaction and switch sections, a
// transaction prefix finalizes and starts a new pending entry, and any other
// non-noise line inside a section extends the pending description.
func (p *Parser) scanBusinessLine(scan *businessScan, raw string, window *yearWindow, stmt *models.ParsedStatement) {
	trimmed := strings.TrimSpace(raw)

	// Entering or leaving the daily-balance table.
	if strings.HasPrefix(trimmed, dailyBalanceHeader) {
		p.finalize(scan, stmt)
		p.noteSectionEnd(scan)
		scan.section = nil
		scan.inDailyBalance = true
		return
	}
	if next := matchSectionHeader(trimmed); next != nil {
		p.finalize(scan, stmt)
		p.noteSectionEnd(scan)
		scan.section = next
		scan.inDailyBalance = false
		scan.sectionTxns = 0
		return
	}
	if scan.inDailyBalance || scan.section == nil {
		return
	}

	if trimmed == "" || isNoiseLine(trimmed) {
		return
	}

	// A new transaction prefix closes the previous entry.
	if txn, ok := p.matchTransactionStart(scan.section, trimmed, raw, window); ok {
		p.finalize(scan, stmt)
		scan.pending = txn
		scan.sectionTxns++
		return
	}

	// Inside a section, any other non-empty line continues the pending
	// transaction's description.
	if scan.pending != nil {
		scan.descBuffer = append(scan.descBuffer, trimmed)
		return
	}

	scan.skipped++
	p.log.Debug("statement_line_skipped", "section", scan.section.header, "line", trimmed)
}

// matchSectionHeader reports whether a line is one of the known section
// headers, tolerating a "(continued)" suffix after page breaks.
func matchSectionHeader(trimmed string) *businessSection {
	name := strings.TrimSpace(strings.TrimSuffix(trimmed, "(continued)"))
	for i := range businessSections {
		if businessSections[i].header == name {
			return &businessSections[i]
		}
	}
	return nil
}

// matchTransactionStart tries the section's line format and builds the
// initial pending transaction.
func (p *Parser) matchTransactionStart(section *businessSection, trimmed, raw string, window *yearWindow) (*models.Transaction, bool) {
	if section.checks {
		match := checkTxnPattern.FindStringSubmatch(trimmed)
		if match == nil {
			return nil, false
		}
		month, day, ok := parseMonthDay(match[1])
		if !ok {
			return nil, false
		}
		desc := "Check #" + match[2]
		if match[4] != "" {
			desc += " " + match[4]
		}
		return &models.Transaction{
			Date:        window.dateFor(month, day),
			Amount:      parseAmount(match[3]),
			Description: desc,
			Type:        models.TypeDebit,
			RawText:     strings.TrimSpace(raw),
		}, true
	}

	match := businessTxnPattern.FindStringSubmatch(trimmed)
	if match == nil {
		return nil, false
	}
	month, day, ok := parseMonthDay(match[1])
	if !ok {
		return nil, false
	}
	return &models.Transaction{
		Date:        window.dateFor(month, day),
		Amount:      parseAmount(match[2]),
		Description: match[3],
		Type:        section.txType,
		RawText:     strings.TrimSpace(raw),
	}, true
}

// finalize flushes the buffered description into the pending transaction,
// splits off a trailing reference number, assigns a category, and appends
// the completed entry. Runs on every state transition and at end of input.
func (p *Parser) finalize(scan *businessScan, stmt *models.ParsedStatement) {
	if scan.pending == nil {
		return
	}
	txn := scan.pending
	scan.pending = nil

	parts := make([]string, 0, len(scan.descBuffer)+1)
	if txn.Description != "" {
		parts = append(parts, txn.Description)
	}
	parts = append(parts, scan.descBuffer...)
	scan.descBuffer = scan.descBuffer[:0]

	desc, ref := stripReference(strings.Join(parts, " "))
	txn.Description = desc
	txn.ReferenceNumber = ref
	txn.Category = categorize.Lookup(desc)

	stmt.Transactions = append(stmt.Transactions, *txn)
}

// noteSectionEnd warns when a recognized section produced no transactions.
// Empty sections are legal, so this is diagnostics only.
func (p *Parser) noteSectionEnd(scan *businessScan) {
	if scan.section != nil && scan.sectionTxns == 0 {
		p.log.Warn("statement_section_empty", "section", scan.section.header)
	}
}
