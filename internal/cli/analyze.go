package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rtlcheck/rtlcheck/internal/analyzer"
	"github.com/rtlcheck/rtlcheck/internal/config"
	"github.com/rtlcheck/rtlcheck/internal/policy"
	"github.com/rtlcheck/rtlcheck/internal/review"
	"github.com/rtlcheck/rtlcheck/internal/validator"
)

type analyzeFlags struct {
	Lang        string
	JSON        bool
	MinSeverity string
	PolicyDir   string
}

func newAnalyzeCmd(opts *rootOptions) *cobra.Command {
	flags := &analyzeFlags{}

	cmd := &cobra.Command{
		Use:   "analyze [paths...]",
		Short: "Analyze HDL files or stdin for design risks",
		Long: `Analyze runs the heuristic rule set over the given files or
directories. Language is inferred from the file extension (.v/.sv =
Verilog, .vhd/.vhdl = VHDL) and can be forced with --lang. Use "-" as
the only path to read source text from stdin (requires --lang).`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 && args[0] == "-" {
				return analyzeStdin(cmd, flags)
			}

			cfg, err := loadConfig(opts, args)
			if err != nil {
				return err
			}
			applyAnalyzeFlags(cmd, cfg, flags)

			logger, err := newLogger(opts.Verbose)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			runner := review.NewRunner(cfg, logger)
			if cfg.PolicyDir != "" {
				engine, err := policy.New(cfg.PolicyDir)
				if err != nil {
					return err
				}
				runner.Policy = engine
			}

			report, err := runner.Run(cmd.Context(), args)
			if err != nil {
				return err
			}

			if cfg.Output.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), report)
			}
			renderReport(cmd.OutOrStdout(), report)
			return nil
		},
	}

	cmd.Flags().StringVar(&flags.Lang, "lang", "", "Force the HDL language: verilog or vhdl")
	cmd.Flags().BoolVar(&flags.JSON, "json", false, "Emit the report as JSON")
	cmd.Flags().StringVar(&flags.MinSeverity, "min-severity", "", "Hide issues below this severity: error, warning, info")
	cmd.Flags().StringVar(&flags.PolicyDir, "policy", "", "Directory of .rego policies to evaluate")

	return cmd
}

func loadConfig(opts *rootOptions, args []string) (*config.Config, error) {
	if opts.ConfigPath != "" {
		return config.LoadFile(opts.ConfigPath)
	}
	root := "."
	if len(args) > 0 {
		root = args[0]
	}
	return config.Load(root)
}

func applyAnalyzeFlags(cmd *cobra.Command, cfg *config.Config, flags *analyzeFlags) {
	if flags.JSON {
		cfg.Output.Format = "json"
	}
	if cmd.Flags().Changed("min-severity") {
		cfg.Output.MinSeverity = flags.MinSeverity
	}
	if cmd.Flags().Changed("policy") {
		cfg.PolicyDir = flags.PolicyDir
	}
}

// analyzeStdin bypasses the review runner: one source string in, one
// validated analysis result out.
func analyzeStdin(cmd *cobra.Command, flags *analyzeFlags) error {
	lang, err := parseLanguage(flags.Lang)
	if err != nil {
		return err
	}

	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("reading stdin: %w", err)
	}

	result := analyzer.Analyze(string(data), lang)

	v, err := validator.New()
	if err != nil {
		return err
	}
	if err := v.ValidateAnalysisResult(result); err != nil {
		return err
	}

	if flags.JSON {
		return writeJSON(cmd.OutOrStdout(), result)
	}
	renderResult(cmd.OutOrStdout(), result)
	return nil
}

func parseLanguage(lang string) (analyzer.Language, error) {
	switch lang {
	case "verilog":
		return analyzer.LangVerilog, nil
	case "vhdl":
		return analyzer.LangVHDL, nil
	case "":
		return "", fmt.Errorf("--lang is required when reading from stdin")
	default:
		return "", fmt.Errorf("unknown language %q (want verilog or vhdl)", lang)
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func renderReport(w io.Writer, report *review.Report) {
	for _, fr := range report.Files {
		fmt.Fprintf(w, "%s (%s): %s\n", fr.File, fr.Language, fr.Result.Summary)
		renderIssues(w, fr.Result.Issues)
		for _, pv := range fr.PolicyViolations {
			fmt.Fprintf(w, "  policy %s [%s] line %d: %s\n", pv.Rule, pv.Severity, pv.Line, pv.Message)
		}
	}
	fmt.Fprintf(w, "\n%s\n", report.Summary)
}

func renderResult(w io.Writer, result analyzer.Result) {
	renderIssues(w, result.Issues)
	fmt.Fprintf(w, "\n%s\n", result.Summary)
}

func renderIssues(w io.Writer, issues []analyzer.Issue) {
	for _, issue := range issues {
		if issue.Line > 0 {
			fmt.Fprintf(w, "  line %d [%s] %s: %s\n", issue.Line, issue.Severity, issue.Kind, issue.Message)
		} else {
			fmt.Fprintf(w, "  [%s] %s: %s\n", issue.Severity, issue.Kind, issue.Message)
		}
		fmt.Fprintf(w, "      fix: %s\n", issue.Suggestion)
	}
}
