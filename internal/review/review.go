// Package review orchestrates analysis over files: it discovers HDL
// sources, runs the analyzer on each, applies configuration filters,
// evaluates optional policies, and assembles a validated report. The
// analyzer core stays a pure function of source text; everything
// involving files, config, and logging lives here.
package review

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rtlcheck/rtlcheck/internal/analyzer"
	"github.com/rtlcheck/rtlcheck/internal/config"
	"github.com/rtlcheck/rtlcheck/internal/facts"
	"github.com/rtlcheck/rtlcheck/internal/policy"
	"github.com/rtlcheck/rtlcheck/internal/validator"
)

// FileResult is the analysis outcome for one source file.
type FileResult struct {
	File             string             `json:"file"`
	Language         analyzer.Language  `json:"language"`
	Result           analyzer.Result    `json:"result"`
	PolicyViolations []policy.Violation `json:"policy_violations,omitempty"`
}

// Report aggregates one review run across all input files.
type Report struct {
	RunID       string       `json:"run_id"`
	GeneratedAt time.Time    `json:"generated_at"`
	Files       []FileResult `json:"files"`
	TotalIssues int          `json:"total_issues"`
	Summary     string       `json:"summary"`
}

// Runner runs reviews. The zero Config and Logger are replaced with
// defaults; Policy is optional.
type Runner struct {
	Config *config.Config
	Logger *zap.Logger
	Policy *policy.Engine
}

// NewRunner creates a Runner with the given config, or defaults when
// cfg is nil.
func NewRunner(cfg *config.Config, logger *zap.Logger) *Runner {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{Config: cfg, Logger: logger}
}

// LanguageForFile infers the HDL language from a file extension.
// The second return is false for non-HDL files.
func LanguageForFile(path string) (analyzer.Language, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".v", ".sv", ".vh", ".svh":
		return analyzer.LangVerilog, true
	case ".vhd", ".vhdl":
		return analyzer.LangVHDL, true
	default:
		return "", false
	}
}

// Run reviews every HDL file under the given paths. Directories are
// walked recursively; explicit file arguments are analyzed even when
// their extension is unknown, defaulting to Verilog.
func (r *Runner) Run(ctx context.Context, paths []string) (*Report, error) {
	files, err := r.discover(paths)
	if err != nil {
		return nil, err
	}
	r.Logger.Debug("discovered HDL files", zap.Int("count", len(files)))

	recorder := newTimingRecorder(time.Now(), os.Getenv("RTLCHECK_TIMING_JSONL"))
	defer recorder.Close()

	report := &Report{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Files:       []FileResult{},
	}

	var allIssues []analyzer.Issue
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		fr, err := r.reviewFile(ctx, file, recorder)
		if err != nil {
			return nil, err
		}

		report.Files = append(report.Files, fr)
		report.TotalIssues += fr.Result.TotalIssues
		allIssues = append(allIssues, fr.Result.Issues...)
	}

	report.Summary = analyzer.Summarize(allIssues)

	v, err := validator.New()
	if err != nil {
		return nil, fmt.Errorf("creating output validator: %w", err)
	}
	if err := v.ValidateReport(report); err != nil {
		return nil, err
	}

	return report, nil
}

func (r *Runner) reviewFile(ctx context.Context, file string, recorder *timingRecorder) (FileResult, error) {
	lang, ok := LanguageForFile(file)
	if !ok {
		lang = analyzer.LangVerilog
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return FileResult{}, fmt.Errorf("reading %s: %w", file, err)
	}
	source := string(data)

	start := time.Now()
	result := analyzer.Analyze(source, lang)
	recorder.RecordFile("analyze", file, time.Since(start))

	result = r.applyConfig(result)
	r.Logger.Debug("analyzed file",
		zap.String("file", file),
		zap.String("language", string(lang)),
		zap.Int("issues", result.TotalIssues))

	fr := FileResult{
		File:     file,
		Language: lang,
		Result:   result,
	}

	if r.Policy != nil {
		tables := facts.FromAnalysis(file, lang, source, result)
		violations, err := r.Policy.Evaluate(ctx, tables)
		if err != nil {
			return FileResult{}, fmt.Errorf("policy evaluation for %s: %w", file, err)
		}
		fr.PolicyViolations = violations
	}

	return fr, nil
}

// applyConfig filters and re-ranks issues per the configuration. This
// happens after analysis on purpose: the detector's behavior is fixed,
// and configuration only shapes what the caller reports.
func (r *Runner) applyConfig(res analyzer.Result) analyzer.Result {
	min := analyzer.Severity(r.Config.Output.MinSeverity)

	issues := []analyzer.Issue{}
	for _, issue := range res.Issues {
		if !r.Config.IsRuleEnabled(string(issue.Kind)) {
			continue
		}
		severity := analyzer.Severity(r.Config.RuleSeverity(string(issue.Kind), string(issue.Severity)))
		if severity.Rank() == 0 {
			// Unknown override; keep the fixed severity.
			severity = issue.Severity
		}
		issue.Severity = severity
		if issue.Severity.Rank() < min.Rank() {
			continue
		}
		issues = append(issues, issue)
	}

	return analyzer.Result{
		TotalIssues: len(issues),
		Issues:      issues,
		Summary:     analyzer.Summarize(issues),
	}
}

func (r *Runner) discover(paths []string) ([]string, error) {
	var files []string
	seen := make(map[string]bool)

	add := func(path string) {
		if seen[path] || r.Config.ShouldIgnoreFile(path) {
			return
		}
		seen[path] = true
		files = append(files, path)
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}

		if !info.IsDir() {
			add(path)
			continue
		}

		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			if _, ok := LanguageForFile(p); ok {
				add(p)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", path, err)
		}
	}

	sort.Strings(files)
	return files, nil
}
