package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatusCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show stored statements, dedupe runs, and recent jobs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.close()

			out := cmd.OutOrStdout()

			statements, err := e.db.ListStatements()
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Statements (%d)\n", len(statements))
			for _, s := range statements {
				period := ""
				if s.PeriodStart != "" {
					period = fmt.Sprintf(" %s to %s", s.PeriodStart, s.PeriodEnd)
				}
				fmt.Fprintf(out, "  #%-4d %-8s %-10s %s%s\n",
					s.ID, s.Status, s.StatementType, s.AccountNumber, period)
			}

			runs, err := e.db.ListDedupRuns()
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "\nDedup runs (%d)\n", len(runs))
			for _, r := range runs {
				fmt.Fprintf(out, "  #%-4d %-10s merged=%d review=%d pdf_only=%d manual_only=%d\n",
					r.ID, r.Status, r.AutoMerged, r.NeedsReview, r.PDFOnly, r.ManualOnly)
			}

			jobList, err := e.db.ListJobs(10)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "\nRecent jobs (%d)\n", len(jobList))
			for _, j := range jobList {
				fmt.Fprintf(out, "  #%-4d %-16s %-10s progress=%d%% attempts=%d/%d\n",
					j.ID, j.JobType, j.Status, j.Progress, j.Attempts, j.MaxAttempts)
			}

			return nil
		},
	}

	return cmd
}
