// Package commands wires the finbooks CLI.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"finbooks/internal/version"
)

var configFlag string

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "finbooks",
		Short:   "Bank statement ingestion and transaction deduplication",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version.Version, version.GitCommit, version.BuildTime),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "finbooks.yaml", "path to config file")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newParseCommand())
	rootCmd.AddCommand(newIngestCommand())
	rootCmd.AddCommand(newImportCommand())
	rootCmd.AddCommand(newDedupeCommand())
	rootCmd.AddCommand(newStatusCommand())

	return rootCmd
}
