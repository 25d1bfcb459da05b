package database

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"finbooks/internal/models"
)

// CreateDedupRun records the start of a deduplication run. statementID may be
// zero when the run spans all staged records rather than one statement.
func (db *DB) CreateDedupRun(statementID int64) (int64, error) {
	var sid any
	if statementID > 0 {
		sid = statementID
	}
	result, err := db.Exec(`
		INSERT INTO dedup_runs (statement_id, status)
		VALUES (?, 'running')
	`, sid)
	if err != nil {
		return 0, fmt.Errorf("insert dedup run: %w", err)
	}
	return result.LastInsertId()
}

// CompleteDedupRun stores the bucket counts and full result for a finished run
func (db *DB) CompleteDedupRun(id int64, result *models.DeduplicationResult) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	_, err = db.Exec(`
		UPDATE dedup_runs
		SET status = 'completed',
			auto_merged = ?,
			needs_review = ?,
			pdf_only = ?,
			manual_only = ?,
			result = ?,
			completed_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, len(result.AutoMerged), len(result.NeedsReview),
		len(result.PDFOnly), len(result.ManualOnly), string(resultJSON), id)
	if err != nil {
		return fmt.Errorf("complete dedup run: %w", err)
	}
	return nil
}

// FailDedupRun marks a run as failed with the error message in result
func (db *DB) FailDedupRun(id int64, errMsg string) error {
	_, err := db.Exec(`
		UPDATE dedup_runs
		SET status = 'failed', result = ?, completed_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, errMsg, id)
	if err != nil {
		return fmt.Errorf("fail dedup run: %w", err)
	}
	return nil
}

// GetDedupRun returns a run by ID
func (db *DB) GetDedupRun(id int64) (*models.DedupRun, error) {
	var r models.DedupRun
	var statementID sql.NullInt64
	var completedAt sql.NullTime
	err := db.QueryRow(`
		SELECT id, statement_id, status, auto_merged, needs_review,
			   pdf_only, manual_only, result, created_at, completed_at
		FROM dedup_runs
		WHERE id = ?
	`, id).Scan(&r.ID, &statementID, &r.Status, &r.AutoMerged, &r.NeedsReview,
		&r.PDFOnly, &r.ManualOnly, &r.ResultJSON, &r.CreatedAt, &completedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("dedup run not found")
	}
	if err != nil {
		return nil, fmt.Errorf("query dedup run: %w", err)
	}
	if statementID.Valid {
		r.StatementID = &statementID.Int64
	}
	if completedAt.Valid {
		r.CompletedAt = &completedAt.Time
	}
	return &r, nil
}

// ListDedupRuns returns all runs, newest first
func (db *DB) ListDedupRuns() ([]models.DedupRun, error) {
	rows, err := db.Query(`
		SELECT id, statement_id, status, auto_merged, needs_review,
			   pdf_only, manual_only, result, created_at, completed_at
		FROM dedup_runs
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query dedup runs: %w", err)
	}
	defer rows.Close()

	var runs []models.DedupRun
	for rows.Next() {
		var r models.DedupRun
		var statementID sql.NullInt64
		var completedAt sql.NullTime
		if err := rows.Scan(&r.ID, &statementID, &r.Status, &r.AutoMerged, &r.NeedsReview,
			&r.PDFOnly, &r.ManualOnly, &r.ResultJSON, &r.CreatedAt, &completedAt); err != nil {
			return nil, fmt.Errorf("scan dedup run: %w", err)
		}
		if statementID.Valid {
			r.StatementID = &statementID.Int64
		}
		if completedAt.Valid {
			r.CompletedAt = &completedAt.Time
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
