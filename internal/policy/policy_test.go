package policy

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rtlcheck/rtlcheck/internal/analyzer"
	"github.com/rtlcheck/rtlcheck/internal/facts"
)

const blockingPolicy = `package hdl.review

all_violations contains violation if {
	some issue in input.issues
	issue.kind == "blocking_in_sequential"
	violation := {
		"rule": "no-blocking-in-seq",
		"severity": "error",
		"file": input.file,
		"line": issue.line,
		"message": sprintf("project policy: %s", [issue.message]),
	}
}
`

const clockLimitPolicy = `package hdl.review

all_violations contains violation if {
	clocks := {edge.signal | some edge in input.clock_edges}
	count(clocks) > 1
	violation := {
		"rule": "single-clock-only",
		"severity": "warning",
		"file": input.file,
		"line": 0,
		"message": sprintf("%d clocks found; this block is single-clock by convention", [count(clocks)]),
	}
}
`

func tablesFor(t *testing.T, source string) facts.Tables {
	t.Helper()
	res := analyzer.Analyze(source, analyzer.LangVerilog)
	return facts.FromAnalysis("top.v", analyzer.LangVerilog, source, res)
}

func TestEvaluateMatchesIssueFacts(t *testing.T) {
	engine, err := NewFromModules(map[string]string{"blocking.rego": blockingPolicy})
	if err != nil {
		t.Fatalf("building engine: %v", err)
	}

	input := tablesFor(t, "always @(posedge clk) q = d;")
	violations, err := engine.Evaluate(context.Background(), input)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}

	if len(violations) != 1 {
		t.Fatalf("expected one violation, got %#v", violations)
	}
	v := violations[0]
	if v.Rule != "no-blocking-in-seq" || v.Severity != "error" || v.File != "top.v" {
		t.Fatalf("unexpected violation: %#v", v)
	}
	if v.Line != 1 {
		t.Fatalf("expected line 1, got %d", v.Line)
	}
}

func TestEvaluateMatchesClockEdgeFacts(t *testing.T) {
	engine, err := NewFromModules(map[string]string{"clocks.rego": clockLimitPolicy})
	if err != nil {
		t.Fatalf("building engine: %v", err)
	}

	multi := tablesFor(t, "always @(posedge clk1) a <= b;\nalways @(posedge clk2) c <= a;\n")
	violations, err := engine.Evaluate(context.Background(), multi)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(violations) != 1 || violations[0].Rule != "single-clock-only" {
		t.Fatalf("expected single-clock-only violation, got %#v", violations)
	}

	single := tablesFor(t, "always @(posedge clk) a <= b;\n")
	violations, err = engine.Evaluate(context.Background(), single)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(violations) != 0 {
		t.Fatalf("expected no violations for a single clock, got %#v", violations)
	}
}

func TestNewLoadsPolicyDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "blocking.rego"), []byte(blockingPolicy), 0644); err != nil {
		t.Fatalf("write policy: %v", err)
	}

	engine, err := New(dir)
	if err != nil {
		t.Fatalf("loading policy dir: %v", err)
	}

	input := tablesFor(t, "always @(posedge clk) q = d;")
	violations, err := engine.Evaluate(context.Background(), input)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(violations) != 1 {
		t.Fatalf("expected one violation, got %#v", violations)
	}
}

func TestNewEmptyDirFails(t *testing.T) {
	if _, err := New(t.TempDir()); err == nil {
		t.Fatal("expected error for directory without policies")
	}
}

func TestNewBadModuleFails(t *testing.T) {
	_, err := NewFromModules(map[string]string{"bad.rego": "package hdl.review\n\nthis is not rego"})
	if err == nil {
		t.Fatal("expected compile error")
	}
}
