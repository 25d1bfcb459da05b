package jobs

import (
	"context"
	"encoding/json"
	"fmt"

	"finbooks/internal/database"
	"finbooks/internal/dedup"
	"finbooks/internal/match"
	"finbooks/internal/models"
)

// DedupRunPayload is the JSON payload for dedup_run jobs
type DedupRunPayload struct {
	RunID       int64 `json:"run_id"`
	StatementID int64 `json:"statement_id,omitempty"`
	AutoMerge   int   `json:"auto_merge_threshold,omitempty"`
	Review      int   `json:"review_threshold,omitempty"`
}

// DedupRunHandler creates a job handler that runs deduplication across the
// staged PDF and manual records and persists the outcome. Auto-merged pairs
// are collapsed in the staging table: both originals are removed and the
// merged survivor takes their place.
func DedupRunHandler() JobHandler {
	return func(ctx context.Context, job *models.Job, db *database.DB) error {
		var payload DedupRunPayload
		if err := json.Unmarshal([]byte(job.Payload), &payload); err != nil {
			return fmt.Errorf("unmarshal payload: %w", err)
		}

		fail := func(err error) error {
			db.FailDedupRun(payload.RunID, err.Error())
			return err
		}

		var pdf []models.StagedTransaction
		var err error
		if payload.StatementID > 0 {
			pdf, err = db.GetStagedByStatement(payload.StatementID)
		} else {
			pdf, err = db.GetStagedTransactions(models.SourcePDF)
		}
		if err != nil {
			return fail(fmt.Errorf("load pdf records: %w", err))
		}
		// The manual side of a run is everything not extracted from a
		// statement: hand-entered records and CSV exports alike.
		manual, err := db.GetStagedTransactions(models.SourceManual, models.SourceCSV)
		if err != nil {
			return fail(fmt.Errorf("load manual records: %w", err))
		}
		db.UpdateJobProgress(job.ID, 20)

		thresholds := match.DefaultThresholds()
		if payload.AutoMerge > 0 {
			thresholds.AutoMerge = payload.AutoMerge
		}
		if payload.Review > 0 {
			thresholds.Review = payload.Review
		}

		engine := dedup.NewEngine(dedup.WithThresholds(thresholds))
		result := engine.Deduplicate(pdf, manual)
		db.UpdateJobProgress(job.ID, 70)

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		// Collapse auto-merged pairs in the staging table
		if len(result.AutoMerged) > 0 {
			var removed []string
			var survivors []models.StagedTransaction
			for _, pair := range result.AutoMerged {
				removed = append(removed, pair.PDF.ID, pair.Manual.ID)
				if pair.Merged != nil {
					survivors = append(survivors, *pair.Merged)
				}
			}
			if err := db.DeleteStagedTransactions(removed); err != nil {
				return fail(fmt.Errorf("delete merged originals: %w", err))
			}
			if err := db.InsertStagedTransactions(payload.StatementID, survivors); err != nil {
				return fail(fmt.Errorf("insert merged survivors: %w", err))
			}
		}
		db.UpdateJobProgress(job.ID, 90)

		if err := db.CompleteDedupRun(payload.RunID, &result); err != nil {
			return fmt.Errorf("complete dedup run: %w", err)
		}

		resultJSON, _ := json.Marshal(map[string]any{
			"auto_merged":  len(result.AutoMerged),
			"needs_review": len(result.NeedsReview),
			"pdf_only":     len(result.PDFOnly),
			"manual_only":  len(result.ManualOnly),
		})
		db.CompleteJob(job.ID, string(resultJSON))

		return nil
	}
}
