package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"finbooks/internal/jobs"
)

func newDedupeCommand() *cobra.Command {
	var statementID int64
	var autoMerge, review int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "dedupe",
		Short: "Reconcile staged statement transactions against manual records",
		Long: "Run fuzzy deduplication between PDF-sourced and manually recorded " +
			"transactions. Pairs at or above the auto-merge threshold are collapsed " +
			"into a single record; pairs in the review band are reported for a human " +
			"to settle.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.close()

			thresholds := e.cfg.Thresholds.MatchThresholds()
			if autoMerge == 0 {
				autoMerge = thresholds.AutoMerge
			}
			if review == 0 {
				review = thresholds.Review
			}

			runID, err := e.db.CreateDedupRun(statementID)
			if err != nil {
				return err
			}
			if _, err := e.db.CreateJob("dedup_run", jobs.DedupRunPayload{
				RunID:       runID,
				StatementID: statementID,
				AutoMerge:   autoMerge,
				Review:      review,
			}); err != nil {
				return err
			}

			w := jobs.NewWorker(e.db, e.log)
			w.Register("parse_statement", jobs.ParseStatementHandler(e.cfg.Database.UploadsDir))
			w.Register("dedup_run", jobs.DedupRunHandler())
			if _, err := w.ProcessPending(cmd.Context()); err != nil {
				return err
			}

			run, err := e.db.GetDedupRun(runID)
			if err != nil {
				return err
			}
			if run.Status != "completed" {
				return fmt.Errorf("dedup run %d %s: %s", runID, run.Status, run.ResultJSON)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				fmt.Fprintln(out, run.ResultJSON)
				return nil
			}

			fmt.Fprintf(out, "Dedup run %d completed\n", runID)
			fmt.Fprintf(out, "  Auto-merged:  %d\n", run.AutoMerged)
			fmt.Fprintf(out, "  Needs review: %d\n", run.NeedsReview)
			fmt.Fprintf(out, "  PDF only:     %d\n", run.PDFOnly)
			fmt.Fprintf(out, "  Manual only:  %d\n", run.ManualOnly)
			return nil
		},
	}

	cmd.Flags().Int64Var(&statementID, "statement", 0, "limit the PDF side to one statement's records")
	cmd.Flags().IntVar(&autoMerge, "auto-merge", 0, "auto-merge score threshold (default from config)")
	cmd.Flags().IntVar(&review, "review", 0, "review score threshold (default from config)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full run result as JSON")

	return cmd
}
