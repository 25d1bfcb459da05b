package database

import (
	"database/sql"
	"fmt"

	"finbooks/internal/models"
)

// CreateStatement records a newly uploaded statement file
func (db *DB) CreateStatement(filePath string) (int64, error) {
	result, err := db.Exec(`
		INSERT INTO statements (file_path)
		VALUES (?)
	`, filePath)
	if err != nil {
		return 0, fmt.Errorf("insert statement: %w", err)
	}
	return result.LastInsertId()
}

// GetStatement returns a statement by ID
func (db *DB) GetStatement(id int64) (*models.StatementRecord, error) {
	var s models.StatementRecord
	var parseJobID sql.NullInt64
	var parsedAt sql.NullTime
	err := db.QueryRow(`
		SELECT id, file_path, status, statement_type, account_number,
			   period_start, period_end, beginning_balance, ending_balance,
			   skipped_lines, parse_job_id, parsed_at, notes, created_at, updated_at
		FROM statements
		WHERE id = ?
	`, id).Scan(&s.ID, &s.FilePath, &s.Status, &s.StatementType, &s.AccountNumber,
		&s.PeriodStart, &s.PeriodEnd, &s.BeginningBalance, &s.EndingBalance,
		&s.SkippedLines, &parseJobID, &parsedAt, &s.Notes, &s.CreatedAt, &s.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("statement not found")
	}
	if err != nil {
		return nil, fmt.Errorf("query statement: %w", err)
	}
	if parseJobID.Valid {
		s.ParseJobID = &parseJobID.Int64
	}
	if parsedAt.Valid {
		s.ParsedAt = &parsedAt.Time
	}
	return &s, nil
}

// ListStatements returns all statements, newest first
func (db *DB) ListStatements() ([]models.StatementRecord, error) {
	rows, err := db.Query(`
		SELECT id, file_path, status, statement_type, account_number,
			   period_start, period_end, beginning_balance, ending_balance,
			   skipped_lines, parse_job_id, parsed_at, notes, created_at, updated_at
		FROM statements
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query statements: %w", err)
	}
	defer rows.Close()

	var statements []models.StatementRecord
	for rows.Next() {
		var s models.StatementRecord
		var parseJobID sql.NullInt64
		var parsedAt sql.NullTime
		if err := rows.Scan(&s.ID, &s.FilePath, &s.Status, &s.StatementType, &s.AccountNumber,
			&s.PeriodStart, &s.PeriodEnd, &s.BeginningBalance, &s.EndingBalance,
			&s.SkippedLines, &parseJobID, &parsedAt, &s.Notes, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan statement: %w", err)
		}
		if parseJobID.Valid {
			s.ParseJobID = &parseJobID.Int64
		}
		if parsedAt.Valid {
			s.ParsedAt = &parsedAt.Time
		}
		statements = append(statements, s)
	}
	return statements, rows.Err()
}

// SetStatementJob links a statement to its parse job and marks it parsing
func (db *DB) SetStatementJob(id, jobID int64) error {
	_, err := db.Exec(`
		UPDATE statements
		SET parse_job_id = ?, status = 'parsing', updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, jobID, id)
	if err != nil {
		return fmt.Errorf("set statement job: %w", err)
	}
	return nil
}

// MarkStatementParsed stores the header fields recovered from a successful parse
func (db *DB) MarkStatementParsed(id int64, parsed *models.ParsedStatement) error {
	_, err := db.Exec(`
		UPDATE statements
		SET status = 'parsed',
			statement_type = ?,
			account_number = ?,
			period_start = ?,
			period_end = ?,
			beginning_balance = ?,
			ending_balance = ?,
			skipped_lines = ?,
			parsed_at = CURRENT_TIMESTAMP,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, string(parsed.StatementType), parsed.AccountNumber,
		parsed.PeriodStart.Format("2006-01-02"), parsed.PeriodEnd.Format("2006-01-02"),
		parsed.BeginningBalance, parsed.EndingBalance, parsed.SkippedLines, id)
	if err != nil {
		return fmt.Errorf("mark statement parsed: %w", err)
	}
	return nil
}

// MarkStatementFailed records a parse failure with the error message
func (db *DB) MarkStatementFailed(id int64, reason string) error {
	_, err := db.Exec(`
		UPDATE statements
		SET status = 'failed', notes = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, reason, id)
	if err != nil {
		return fmt.Errorf("mark statement failed: %w", err)
	}
	return nil
}
