package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"finbooks/internal/jobs"
)

func newIngestCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest <statement>",
		Short: "Store a statement, parse it, and stage its transactions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.close()

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open statement: %w", err)
			}
			defer f.Close()

			stored, err := e.files.Save(filepath.Base(args[0]), f)
			if err != nil {
				return fmt.Errorf("store statement: %w", err)
			}

			stmtID, err := e.db.CreateStatement(stored)
			if err != nil {
				return err
			}

			jobID, err := e.db.CreateJob("parse_statement", jobs.ParseStatementPayload{
				StatementID: stmtID,
				FilePath:    stored,
			})
			if err != nil {
				return err
			}
			if err := e.db.SetStatementJob(stmtID, jobID); err != nil {
				return err
			}

			// One-shot mode: drain the queue instead of running a worker loop
			w := jobs.NewWorker(e.db, e.log)
			w.Register("parse_statement", jobs.ParseStatementHandler(e.cfg.Database.UploadsDir))
			w.Register("dedup_run", jobs.DedupRunHandler())
			if _, err := w.ProcessPending(cmd.Context()); err != nil {
				return err
			}

			s, err := e.db.GetStatement(stmtID)
			if err != nil {
				return err
			}
			if s.Status != "parsed" {
				return fmt.Errorf("statement %d not parsed: %s", stmtID, s.Notes)
			}

			staged, err := e.db.GetStagedByStatement(stmtID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Statement %d ingested from %s\n", stmtID, args[0])
			fmt.Fprintf(out, "  Type:    %s\n", s.StatementType)
			fmt.Fprintf(out, "  Account: %s\n", s.AccountNumber)
			fmt.Fprintf(out, "  Period:  %s to %s\n", s.PeriodStart, s.PeriodEnd)
			fmt.Fprintf(out, "  Staged:  %d transactions\n", len(staged))
			if s.SkippedLines > 0 {
				fmt.Fprintf(out, "  Skipped: %d unparseable lines\n", s.SkippedLines)
			}
			return nil
		},
	}

	return cmd
}
