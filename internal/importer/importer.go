// Package importer converts raw input from either source into staged
// transactions ready for deduplication. Statement text goes through the
// bank-statement parser; anything it does not recognize falls back to a
// line-oriented freeform parser.
package importer

import (
	"errors"
	"strings"

	"finbooks/internal/models"
	"finbooks/internal/parser"
)

// Confidence defaults per source. Manual entry is fixed; PDF extraction
// starts higher and is discounted for every line the parser had to skip.
const (
	manualConfidence  = 0.9
	pdfBaseConfidence = 0.95
	pdfSkipPenalty    = 0.01
	pdfMinConfidence  = 0.75
)

// FromStatement stages a parsed statement's transactions as the PDF-sourced
// input set.
func FromStatement(stmt *models.ParsedStatement) []models.StagedTransaction {
	confidence := pdfBaseConfidence - pdfSkipPenalty*float64(stmt.SkippedLines)
	if confidence < pdfMinConfidence {
		confidence = pdfMinConfidence
	}

	staged := make([]models.StagedTransaction, 0, len(stmt.Transactions))
	for _, txn := range stmt.Transactions {
		staged = append(staged, models.NewStagedTransaction(txn, models.SourcePDF, confidence))
	}
	return staged
}

// ImportText stages transactions from pasted text. Statement-formatted text
// is parsed with the statement parser; unrecognized formats fall back to the
// freeform parser, tagged as manual entry. Both paths produce the same
// staged shape.
func ImportText(text string) ([]models.StagedTransaction, models.Source, error) {
	stmt, err := parser.New().Parse(text)
	if err == nil {
		return FromStatement(stmt), models.SourcePDF, nil
	}

	var formatErr *parser.UnknownFormatError
	if !errors.As(err, &formatErr) {
		return nil, "", err
	}

	staged, err := ParseFreeform(strings.NewReader(text), models.SourceManual)
	if err != nil {
		return nil, "", err
	}
	return staged, models.SourceManual, nil
}
