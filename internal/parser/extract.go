package parser

import (
	"errors"
	"fmt"
	"os/exec"

	"finbooks/internal/models"
)

// ExtractText runs pdftotext with layout preservation and returns the
// statement text. Column layout matters to the parser, so -layout is tried
// first; some PDFs make pdftotext choke on it, in which case plain
// extraction is used instead.
func ExtractText(pdfPath string) (string, error) {
	out, err := exec.Command("pdftotext", "-layout", pdfPath, "-").Output()
	if err == nil {
		return string(out), nil
	}

	out, plainErr := exec.Command("pdftotext", pdfPath, "-").Output()
	if plainErr != nil {
		return "", fmt.Errorf("pdftotext failed: %w", err)
	}
	return string(out), nil
}

// ParseFile extracts text from a statement PDF and parses it. If the
// layout-preserved text is not recognized, extraction is re-attempted
// without layout preservation before giving up; both paths converge on the
// same Parse entry point.
func (p *Parser) ParseFile(pdfPath string) (*models.ParsedStatement, error) {
	text, err := ExtractText(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("extract text: %w", err)
	}

	stmt, err := p.Parse(text)
	var formatErr *UnknownFormatError
	if err == nil || !errors.As(err, &formatErr) {
		return stmt, err
	}

	plain, plainErr := exec.Command("pdftotext", pdfPath, "-").Output()
	if plainErr != nil {
		return nil, err
	}
	return p.Parse(string(plain))
}
