package database

import (
	"fmt"
	"strings"

	"finbooks/internal/models"
)

// InsertStagedTransactions writes a batch of staged transactions in one
// transaction. statementID may be zero for records that did not come from a
// stored statement (manual or CSV imports).
func (db *DB) InsertStagedTransactions(statementID int64, txns []models.StagedTransaction) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO staged_transactions (
			id, statement_id, date, amount, description, type,
			category, merchant, reference_number, raw_text, source, confidence
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, t := range txns {
		var sid any
		if statementID > 0 {
			sid = statementID
		}
		if _, err := stmt.Exec(t.ID, sid, t.Date, t.Amount, t.Description, string(t.Type),
			t.Category, t.Merchant, t.ReferenceNumber, t.RawText, string(t.Source), t.Confidence); err != nil {
			return fmt.Errorf("insert staged transaction %s: %w", t.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// GetStagedTransactions returns staged transactions from any of the given
// sources, or from all sources when none are given. Ordered by date for
// stable pairing.
func (db *DB) GetStagedTransactions(sources ...models.Source) ([]models.StagedTransaction, error) {
	query := `
		SELECT id, date, amount, description, type,
			   category, merchant, reference_number, raw_text, source, confidence
		FROM staged_transactions
	`
	var args []any
	if len(sources) > 0 {
		query += ` WHERE source IN (?` + strings.Repeat(", ?", len(sources)-1) + `)`
		for _, s := range sources {
			args = append(args, string(s))
		}
	}
	query += ` ORDER BY date, id`

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query staged transactions: %w", err)
	}
	defer rows.Close()

	var txns []models.StagedTransaction
	for rows.Next() {
		var t models.StagedTransaction
		var typ, src string
		if err := rows.Scan(&t.ID, &t.Date, &t.Amount, &t.Description, &typ,
			&t.Category, &t.Merchant, &t.ReferenceNumber, &t.RawText, &src, &t.Confidence); err != nil {
			return nil, fmt.Errorf("scan staged transaction: %w", err)
		}
		t.Type = models.TransactionType(typ)
		t.Source = models.Source(src)
		txns = append(txns, t)
	}
	return txns, rows.Err()
}

// GetStagedByStatement returns the staged transactions produced by one statement
func (db *DB) GetStagedByStatement(statementID int64) ([]models.StagedTransaction, error) {
	rows, err := db.Query(`
		SELECT id, date, amount, description, type,
			   category, merchant, reference_number, raw_text, source, confidence
		FROM staged_transactions
		WHERE statement_id = ?
		ORDER BY date, id
	`, statementID)
	if err != nil {
		return nil, fmt.Errorf("query staged transactions: %w", err)
	}
	defer rows.Close()

	var txns []models.StagedTransaction
	for rows.Next() {
		var t models.StagedTransaction
		var typ, src string
		if err := rows.Scan(&t.ID, &t.Date, &t.Amount, &t.Description, &typ,
			&t.Category, &t.Merchant, &t.ReferenceNumber, &t.RawText, &src, &t.Confidence); err != nil {
			return nil, fmt.Errorf("scan staged transaction: %w", err)
		}
		t.Type = models.TransactionType(typ)
		t.Source = models.Source(src)
		txns = append(txns, t)
	}
	return txns, rows.Err()
}

// DeleteStagedTransactions removes staged records by ID, used after a merge
// replaces a pair with its merged survivor
func (db *DB) DeleteStagedTransactions(ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, id := range ids {
		if _, err := tx.Exec(`DELETE FROM staged_transactions WHERE id = ?`, id); err != nil {
			return fmt.Errorf("delete staged transaction %s: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
