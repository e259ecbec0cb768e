// Package cli wires the analyzer core, advisory generators, and review
// runner into the rtlcheck command tree. All file I/O, configuration,
// and rendering decisions live at this layer; the core packages stay
// pure functions of their inputs.
package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var version = "0.1.0"

type rootOptions struct {
	ConfigPath string
	Verbose    bool
}

// NewRootCmd builds the rtlcheck command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "rtlcheck",
		Short:         "Heuristic design-risk checks and advisories for Verilog and VHDL",
		Long: `rtlcheck scans HDL source text with lexical heuristics and reports
design risks: latch inference, blocking assignments in sequential
logic, incomplete sensitivity lists, missing case defaults, multiply
driven signals, and clock domain crossings. It also generates fixed
advisory guidance for timing violations and CDC scenarios.

The checks are deliberately heuristic: there is no parser and no
elaboration, so false positives and negatives are expected. Treat the
output as review hints, not sign-off.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
	}
	rootCmd.SetVersionTemplate("rtlcheck version {{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "Path to rtlcheck.json or rtlcheck.yaml (optional)")
	rootCmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(
		newAnalyzeCmd(opts),
		newTimingCmd(),
		newCDCCmd(),
		newInitCmd(),
	)

	return rootCmd
}

// Execute builds the root command tree and runs the CLI.
func Execute() error {
	return NewRootCmd().Execute()
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return cfg.Build()
}
