package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"finbooks/internal/importer"
	"finbooks/internal/models"
)

func newImportCommand() *cobra.Command {
	var sourceFlag string

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Stage manually recorded transactions from a text or CSV export",
		Long: "Import loosely formatted transaction lines. Each line needs a date and " +
			"an amount; delimiters are guessed per line. Records are staged under the " +
			"given source so a later dedupe run can reconcile them against statements.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var source models.Source
			switch strings.ToUpper(sourceFlag) {
			case "MANUAL":
				source = models.SourceManual
			case "CSV":
				source = models.SourceCSV
			default:
				return fmt.Errorf("unknown source %q (want MANUAL or CSV)", sourceFlag)
			}

			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.close()

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open import file: %w", err)
			}
			defer f.Close()

			staged, err := importer.ParseFreeform(f, source)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			if err := e.db.InsertStagedTransactions(0, staged); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Staged %d %s transactions from %s\n",
				len(staged), source, args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&sourceFlag, "source", "MANUAL", "record source tag (MANUAL or CSV)")

	return cmd
}
