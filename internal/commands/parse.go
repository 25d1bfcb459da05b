package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"finbooks/internal/models"
	"finbooks/internal/parser"
)

func newParseCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "parse <statement>",
		Short: "Parse a statement file and print what was recovered",
		Long: "Parse a statement PDF or text file without touching the database. " +
			"Useful for checking how a statement reads before ingesting it.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := parser.New()

			var parsed *models.ParsedStatement
			var err error
			if strings.EqualFold(filepath.Ext(args[0]), ".pdf") {
				parsed, err = p.ParseFile(args[0])
			} else {
				var data []byte
				data, err = os.ReadFile(args[0])
				if err != nil {
					return err
				}
				parsed, err = p.Parse(string(data))
			}
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(parsed)
			}

			printParsed(cmd, parsed)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full parse result as JSON")

	return cmd
}

func printParsed(cmd *cobra.Command, parsed *models.ParsedStatement) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Statement type:    %s\n", parsed.StatementType)
	fmt.Fprintf(out, "Account:           %s", parsed.AccountNumber)
	if parsed.AccountName != "" {
		fmt.Fprintf(out, " (%s)", parsed.AccountName)
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Period:            %s to %s\n",
		parsed.PeriodStart.Format("2006-01-02"), parsed.PeriodEnd.Format("2006-01-02"))
	fmt.Fprintf(out, "Beginning balance: $%s\n", parsed.BeginningBalance.StringFixed(2))
	fmt.Fprintf(out, "Ending balance:    $%s\n", parsed.EndingBalance.StringFixed(2))
	fmt.Fprintf(out, "Transactions:      %d\n", len(parsed.Transactions))
	if parsed.SkippedLines > 0 {
		fmt.Fprintf(out, "Skipped lines:     %d\n", parsed.SkippedLines)
	}

	fmt.Fprintln(out)
	for _, txn := range parsed.Transactions {
		fmt.Fprintf(out, "  %s | %-6s | %10s | %-18s | %s\n",
			txn.Date.Format("2006-01-02"),
			txn.Type,
			txn.SignedAmount().StringFixed(2),
			txn.Category,
			truncate(txn.Description, 50))
	}

	// Sanity check the recovered transactions against the statement totals
	net := decimal.Zero
	for _, txn := range parsed.Transactions {
		net = net.Add(txn.SignedAmount())
	}
	calculated := parsed.BeginningBalance.Add(net)
	diff := calculated.Sub(parsed.EndingBalance)
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Calculated ending: $%s\n", calculated.StringFixed(2))
	if !diff.IsZero() {
		fmt.Fprintf(out, "Difference:        $%s (may indicate missed transactions)\n", diff.StringFixed(2))
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
