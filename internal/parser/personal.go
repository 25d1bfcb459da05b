package parser

import (
	"regexp"
	"strings"

	"finbooks/internal/categorize"
	"finbooks/internal/models"
)

// Personal statements have a fixed four-section layout. Each section body
// runs from its header to the next known header (or end of text), and every
// transaction fits on one line: MM/DD amount description.
var personalSections = []struct {
	header string
	txType models.TransactionType
}{
	{"Deposits and Other Additions", models.TypeCredit},
	{"Banking/Debit Card Withdrawals and Purchases", models.TypeDebit},
	{"Online and Electronic Banking Deductions", models.TypeDebit},
	{"Other Deductions", models.TypeDebit},
}

// Personal transaction line: date, amount, then free-text description.
var personalTxnPattern = regexp.MustCompile(`^\s*(\d{2}/\d{2})\s+([\d,]+\.\d{2})\s+(\S.*?)\s*$`)

func (p *Parser) parsePersonal(text string) (*models.ParsedStatement, error) {
	stmt := &models.ParsedStatement{StatementType: models.StatementPersonal}

	window, err := p.parseCommon(text, stmt)
	if err != nil {
		return nil, err
	}

	for _, section := range personalSections {
		body := sectionBody(text, section.header)
		if body == "" {
			continue
		}
		txns, skipped := p.parsePersonalSection(body, section.txType, window)
		if len(txns) == 0 {
			p.log.Warn("statement_section_empty", "section", section.header)
		}
		stmt.Transactions = append(stmt.Transactions, txns...)
		stmt.SkippedLines += skipped
	}

	sortByDate(stmt.Transactions)
	return stmt, nil
}

// sectionBody returns the text between a section header and the next known
// header, or "" if the header is absent (statements legitimately omit
// sections with no activity).
func sectionBody(text, header string) string {
	idx := strings.Index(text, header)
	if idx == -1 {
		return ""
	}
	body := text[idx+len(header):]

	end := len(body)
	for _, other := range personalSections {
		if other.header == header {
			continue
		}
		if i := strings.Index(body, other.header); i != -1 && i < end {
			end = i
		}
	}
	return body[:end]
}

func (p *Parser) parsePersonalSection(body string, txType models.TransactionType, window *yearWindow) ([]models.Transaction, int) {
	var txns []models.Transaction
	skipped := 0

	for _, line := range strings.Split(body, "\n") {
		match := personalTxnPattern.FindStringSubmatch(line)
		if match == nil {
			if trimmed := strings.TrimSpace(line); trimmed != "" && !isNoiseLine(trimmed) {
				skipped++
				p.log.Debug("statement_line_skipped", "line", trimmed)
			}
			continue
		}

		month, day, ok := parseMonthDay(match[1])
		if !ok {
			skipped++
			continue
		}

		desc, ref := stripReference(strings.TrimSpace(match[3]))
		txn := models.Transaction{
			Date:            window.dateFor(month, day),
			Amount:          parseAmount(match[2]),
			Description:     desc,
			Type:            txType,
			Category:        categorize.Lookup(desc),
			ReferenceNumber: ref,
			RawText:         strings.TrimSpace(line),
		}
		txns = append(txns, txn)
	}
	return txns, skipped
}
