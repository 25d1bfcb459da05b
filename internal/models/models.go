package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType tags the direction of a transaction as it appears on a
// statement. Amounts on Transaction are unsigned magnitudes; the type carries
// the direction.
type TransactionType string

const (
	TypeCredit TransactionType = "credit"
	TypeDebit  TransactionType = "debit"
)

// Flow maps the statement vocabulary onto the ledger vocabulary used by the
// deduplication side of the system. This is the single place the two tag sets
// meet: credit -> INCOME, debit -> EXPENSE.
func (t TransactionType) Flow() string {
	if t == TypeCredit {
		return "INCOME"
	}
	return "EXPENSE"
}

// Sign returns +1 for credits and -1 for debits.
func (t TransactionType) Sign() decimal.Decimal {
	if t == TypeCredit {
		return decimal.NewFromInt(1)
	}
	return decimal.NewFromInt(-1)
}

// StatementType identifies which statement dialect a document was parsed as.
type StatementType string

const (
	StatementPersonal StatementType = "personal"
	StatementBusiness StatementType = "business"
)

// Source identifies where a staged transaction came from.
type Source string

const (
	SourcePDF    Source = "PDF"
	SourceManual Source = "MANUAL"
	SourceCSV    Source = "CSV"
)

// Transaction is a single entry recovered from statement text. Amount is an
// unsigned magnitude; Type carries the direction.
type Transaction struct {
	Date            time.Time       `json:"date"`
	Amount          decimal.Decimal `json:"amount"`
	Description     string          `json:"description"`
	Type            TransactionType `json:"type"`
	Category        string          `json:"category,omitempty"`
	ReferenceNumber string          `json:"referenceNumber,omitempty"`
	RawText         string          `json:"rawText,omitempty"`
}

// SignedAmount returns the amount with direction applied: credits positive,
// debits negative.
func (t Transaction) SignedAmount() decimal.Decimal {
	return t.Amount.Abs().Mul(t.Type.Sign())
}

// ParsedStatement is the full result of parsing one statement's text.
type ParsedStatement struct {
	StatementType    StatementType   `json:"statementType"`
	AccountNumber    string          `json:"accountNumber"` // masked, ****NNNN
	AccountName      string          `json:"accountName,omitempty"`
	PeriodStart      time.Time       `json:"periodStart"`
	PeriodEnd        time.Time       `json:"periodEnd"`
	BeginningBalance decimal.Decimal `json:"beginningBalance"`
	EndingBalance    decimal.Decimal `json:"endingBalance"`
	Transactions     []Transaction   `json:"transactions"`
	SkippedLines     int             `json:"skippedLines,omitempty"`
}

// StagedTransaction is a transaction queued for reconciliation, tagged with
// its origin and a confidence weight.
type StagedTransaction struct {
	ID          string  `json:"id"`
	Transaction         // embedded parser fields
	Merchant    string  `json:"merchant,omitempty"`
	Source      Source  `json:"source"`
	Confidence  float64 `json:"confidence"`
}

// NewStagedTransaction wraps a parsed transaction with a fresh ID.
func NewStagedTransaction(txn Transaction, source Source, confidence float64) StagedTransaction {
	return StagedTransaction{
		ID:          uuid.NewString(),
		Transaction: txn,
		Source:      source,
		Confidence:  confidence,
	}
}

// MatchedPair is a candidate duplicate: one record from each source plus the
// evidence that paired them.
type MatchedPair struct {
	PDF     StagedTransaction  `json:"pdf"`
	Manual  StagedTransaction  `json:"manual"`
	Score   int                `json:"score"`
	Reasons []string           `json:"reasons"`
	Merged  *StagedTransaction `json:"merged,omitempty"` // set for auto-merged pairs only
}

// DeduplicationResult partitions both input sets exhaustively: every input
// record lands in exactly one of the four buckets.
type DeduplicationResult struct {
	AutoMerged      []MatchedPair       `json:"autoMerged"`
	NeedsReview     []MatchedPair       `json:"needsReview"`
	PDFOnly         []StagedTransaction `json:"pdfOnly"`
	ManualOnly      []StagedTransaction `json:"manualOnly"`
	TotalPDF        int                 `json:"totalPdf"`
	TotalManual     int                 `json:"totalManual"`
	DuplicatesFound int                 `json:"duplicatesFound"`
}

// Job represents a background job in the queue
type Job struct {
	ID          int64
	JobType     string
	Payload     string // JSON payload
	Status      string // pending, running, completed, failed
	Progress    int    // 0-100
	Result      string // JSON result or error message
	Attempts    int
	MaxAttempts int
	CreatedAt   time.Time
	StartedAt   *time.Time
	CompletedAt *time.Time
}

// StatementRecord is a stored statement upload and its parse status.
type StatementRecord struct {
	ID               int64
	FilePath         string // stored filename in filestore
	Status           string // pending, parsing, parsed, failed
	StatementType    string
	AccountNumber    string
	PeriodStart      string // YYYY-MM-DD
	PeriodEnd        string // YYYY-MM-DD
	BeginningBalance decimal.Decimal
	EndingBalance    decimal.Decimal
	SkippedLines     int
	ParseJobID       *int64
	ParsedAt         *time.Time
	Notes            string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// DedupRun is a stored reconciliation run between two staged sources.
type DedupRun struct {
	ID          int64
	StatementID *int64
	Status      string // pending, running, completed, failed
	AutoMerged  int
	NeedsReview int
	PDFOnly     int
	ManualOnly  int
	ResultJSON  string // full DeduplicationResult
	CreatedAt   time.Time
	CompletedAt *time.Time
}
