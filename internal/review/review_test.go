package review

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rtlcheck/rtlcheck/internal/analyzer"
	"github.com/rtlcheck/rtlcheck/internal/config"
	"github.com/rtlcheck/rtlcheck/internal/policy"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLanguageForFile(t *testing.T) {
	cases := []struct {
		path string
		lang analyzer.Language
		ok   bool
	}{
		{"top.v", analyzer.LangVerilog, true},
		{"top.sv", analyzer.LangVerilog, true},
		{"defs.vh", analyzer.LangVerilog, true},
		{"core.VHD", analyzer.LangVHDL, true},
		{"core.vhdl", analyzer.LangVHDL, true},
		{"readme.md", "", false},
	}
	for _, c := range cases {
		lang, ok := LanguageForFile(c.path)
		if lang != c.lang || ok != c.ok {
			t.Fatalf("%s: got (%q, %v), want (%q, %v)", c.path, lang, ok, c.lang, c.ok)
		}
	}
}

func TestRunSingleFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "seq.v", "always @(posedge clk) begin\n  q = d;\nend\n")

	runner := NewRunner(nil, nil)
	report, err := runner.Run(context.Background(), []string{path})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if report.RunID == "" {
		t.Fatal("expected a run ID")
	}
	if len(report.Files) != 1 {
		t.Fatalf("expected one file result, got %#v", report.Files)
	}

	fr := report.Files[0]
	if fr.Language != analyzer.LangVerilog {
		t.Fatalf("expected verilog, got %q", fr.Language)
	}
	if fr.Result.TotalIssues == 0 {
		t.Fatal("expected the blocking-assignment issue to be reported")
	}
	if report.TotalIssues != fr.Result.TotalIssues {
		t.Fatalf("aggregate count %d != file count %d", report.TotalIssues, fr.Result.TotalIssues)
	}
}

func TestRunWalksDirectories(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "rtl")
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeFile(t, dir, "top.v", "assign y = a;\n")
	writeFile(t, sub, "core.vhd", "process(clk)\nbegin\nend process;\n")
	writeFile(t, dir, "notes.txt", "not hdl\n")

	runner := NewRunner(nil, nil)
	report, err := runner.Run(context.Background(), []string{dir})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(report.Files) != 2 {
		t.Fatalf("expected two HDL files, got %#v", report.Files)
	}
	if report.Files[0].Language != analyzer.LangVHDL {
		t.Fatalf("expected rtl/core.vhd first (sorted), got %#v", report.Files)
	}
}

func TestRunAppliesRuleConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "latch.v", "always @(*) begin\n  if (en)\n    q = d;\nend\n")

	cfg := config.DefaultConfig()
	cfg.Rules["latch_inference"] = "off"
	cfg.Rules["incomplete_sensitivity"] = "off"

	runner := NewRunner(cfg, nil)
	report, err := runner.Run(context.Background(), []string{path})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	for _, issue := range report.Files[0].Result.Issues {
		if issue.Kind == analyzer.KindLatchInference || issue.Kind == analyzer.KindIncompleteSensitivity {
			t.Fatalf("disabled rule still reported: %#v", issue)
		}
	}
}

func TestRunAppliesSeverityOverride(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "latch.v", "always @(en or d) begin\n  if (en)\n    q = d;\nend\n")

	cfg := config.DefaultConfig()
	cfg.Rules["latch_inference"] = "error"

	runner := NewRunner(cfg, nil)
	report, err := runner.Run(context.Background(), []string{path})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	var found bool
	for _, issue := range report.Files[0].Result.Issues {
		if issue.Kind == analyzer.KindLatchInference {
			found = true
			if issue.Severity != analyzer.SeverityError {
				t.Fatalf("expected overridden error severity, got %q", issue.Severity)
			}
		}
	}
	if !found {
		t.Fatal("expected a latch issue")
	}
}

func TestRunMinSeverityFilter(t *testing.T) {
	dir := t.TempDir()
	// Style info issue plus a latch warning.
	long := make([]byte, 130)
	for i := range long {
		long[i] = 'x'
	}
	path := writeFile(t, dir, "mix.v", "if (a)\n  y = b;\n// "+string(long)+"\n")

	cfg := config.DefaultConfig()
	cfg.Output.MinSeverity = "warning"

	runner := NewRunner(cfg, nil)
	report, err := runner.Run(context.Background(), []string{path})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	for _, issue := range report.Files[0].Result.Issues {
		if issue.Severity == analyzer.SeverityInfo {
			t.Fatalf("info issue survived the min-severity filter: %#v", issue)
		}
	}
}

func TestRunIgnorePatterns(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "cpu_tb.v", "assign y = a;\n")
	writeFile(t, dir, "cpu.v", "assign y = a;\n")

	cfg := config.DefaultConfig()
	cfg.IgnorePatterns = []string{"*_tb.v"}

	runner := NewRunner(cfg, nil)
	report, err := runner.Run(context.Background(), []string{dir})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(report.Files) != 1 {
		t.Fatalf("expected the testbench to be ignored, got %#v", report.Files)
	}
	if filepath.Base(report.Files[0].File) != "cpu.v" {
		t.Fatalf("wrong file survived: %#v", report.Files)
	}
}

func TestRunWithPolicy(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "seq.v", "always @(posedge clk) q = d;\n")

	engine, err := policy.NewFromModules(map[string]string{"p.rego": `package hdl.review

all_violations contains violation if {
	some issue in input.issues
	issue.severity == "error"
	violation := {
		"rule": "block-on-errors",
		"severity": "error",
		"file": input.file,
		"line": issue.line,
		"message": issue.message,
	}
}
`})
	if err != nil {
		t.Fatalf("policy: %v", err)
	}

	runner := NewRunner(nil, nil)
	runner.Policy = engine
	report, err := runner.Run(context.Background(), []string{path})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(report.Files[0].PolicyViolations) != 1 {
		t.Fatalf("expected one policy violation, got %#v", report.Files[0].PolicyViolations)
	}
}

func TestRunMissingPathFails(t *testing.T) {
	runner := NewRunner(nil, nil)
	if _, err := runner.Run(context.Background(), []string{"does/not/exist.v"}); err == nil {
		t.Fatal("expected error for missing path")
	}
}

func TestTimingRecorderWritesJSONL(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "timing.jsonl")
	writeFile(t, dir, "a.v", "assign y = a;\n")

	t.Setenv("RTLCHECK_TIMING_JSONL", out)

	runner := NewRunner(nil, nil)
	if _, err := runner.Run(context.Background(), []string{filepath.Join(dir, "a.v")}); err != nil {
		t.Fatalf("run: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("timing file not written: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("expected at least one timing event")
	}
}
