package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"finbooks/internal/database"
	"finbooks/internal/importer"
	"finbooks/internal/models"
	"finbooks/internal/parser"
)

// ParseStatementPayload is the JSON payload for parse_statement jobs
type ParseStatementPayload struct {
	StatementID int64  `json:"statement_id"`
	FilePath    string `json:"file_path"`
}

// ParseStatementHandler creates a job handler that parses an uploaded
// statement and stages its transactions for deduplication
func ParseStatementHandler(fileStorePath string) JobHandler {
	return func(ctx context.Context, job *models.Job, db *database.DB) error {
		var payload ParseStatementPayload
		if err := json.Unmarshal([]byte(job.Payload), &payload); err != nil {
			return fmt.Errorf("unmarshal payload: %w", err)
		}

		db.UpdateJobProgress(job.ID, 5)

		fullPath := filepath.Join(fileStorePath, payload.FilePath)

		p := parser.New()
		parsed, err := p.ParseFile(fullPath)
		if err != nil {
			db.MarkStatementFailed(payload.StatementID, err.Error())
			return fmt.Errorf("parse statement: %w", err)
		}
		db.UpdateJobProgress(job.ID, 50)

		// Replace any staged records from a previous parse of this statement
		existing, err := db.GetStagedByStatement(payload.StatementID)
		if err != nil {
			return fmt.Errorf("load existing staged: %w", err)
		}
		if len(existing) > 0 {
			ids := make([]string, len(existing))
			for i, t := range existing {
				ids[i] = t.ID
			}
			if err := db.DeleteStagedTransactions(ids); err != nil {
				return fmt.Errorf("delete existing staged: %w", err)
			}
		}

		staged := importer.FromStatement(parsed)
		if err := db.InsertStagedTransactions(payload.StatementID, staged); err != nil {
			return fmt.Errorf("insert staged transactions: %w", err)
		}
		db.UpdateJobProgress(job.ID, 85)

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := db.MarkStatementParsed(payload.StatementID, parsed); err != nil {
			return fmt.Errorf("mark statement parsed: %w", err)
		}

		resultJSON, _ := json.Marshal(map[string]any{
			"statement_type": parsed.StatementType,
			"account_number": parsed.AccountNumber,
			"transactions":   len(staged),
			"skipped_lines":  parsed.SkippedLines,
		})
		db.CompleteJob(job.ID, string(resultJSON))

		return nil
	}
}
