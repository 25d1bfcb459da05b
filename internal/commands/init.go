package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"finbooks/internal/config"
)

func newInitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Write a default finbooks.yaml and create the data directories",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			cfgPath := filepath.Join(dir, "finbooks.yaml")
			if _, err := os.Stat(cfgPath); err == nil {
				return fmt.Errorf("%s already exists", cfgPath)
			}

			cfg := config.Default()
			if err := os.MkdirAll(filepath.Join(dir, filepath.Dir(cfg.Database.Path)), 0o755); err != nil {
				return fmt.Errorf("creating data directory: %w", err)
			}
			if err := os.MkdirAll(filepath.Join(dir, cfg.Database.UploadsDir), 0o755); err != nil {
				return fmt.Errorf("creating uploads directory: %w", err)
			}
			if err := config.Save(cfgPath, cfg); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Initialized %s\n", cfgPath)
			return nil
		},
	}

	return cmd
}
