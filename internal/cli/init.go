package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rtlcheck/rtlcheck/internal/config"
)

func newInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a default rtlcheck.json configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath := "rtlcheck.json"

			if _, err := os.Stat(configPath); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", configPath)
			}

			cfg := config.DefaultConfig()
			if err := cfg.Save(configPath); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", configPath)
			fmt.Fprintln(cmd.OutOrStdout(), "\nEdit this file to configure:")
			fmt.Fprintln(cmd.OutOrStdout(), "  - Rule severities (or \"off\" to disable a rule)")
			fmt.Fprintln(cmd.OutOrStdout(), "  - File patterns to ignore")
			fmt.Fprintln(cmd.OutOrStdout(), "  - A policy directory with project rego rules")
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")

	return cmd
}
