package analyzer

import (
	"fmt"
	"strings"
)

// Language selects which rule set Analyze evaluates.
type Language string

const (
	LangVerilog Language = "verilog"
	LangVHDL    Language = "vhdl"
)

// Severity classifies an issue. Severities are fixed per rule kind and
// never computed from the source.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Rank orders severities for filtering: error > warning > info.
// Unknown severities rank below info.
func (s Severity) Rank() int {
	switch s {
	case SeverityError:
		return 3
	case SeverityWarning:
		return 2
	case SeverityInfo:
		return 1
	default:
		return 0
	}
}

// IssueKind identifies the rule that produced an issue.
type IssueKind string

const (
	KindLatchInference        IssueKind = "latch_inference"
	KindBlockingInSequential  IssueKind = "blocking_in_sequential"
	KindIncompleteSensitivity IssueKind = "incomplete_sensitivity"
	KindNoCaseDefault         IssueKind = "no_case_default"
	KindMultipleAssignments   IssueKind = "multiple_assignments"
	KindClockDomainCrossing   IssueKind = "clock_domain_crossing"
	KindMixedVariableSignal   IssueKind = "mixed_variable_signal"
	KindStyle                 IssueKind = "style"
)

// Issue is one detected problem. Line is 1-based and 0 when the rule
// is file-global.
type Issue struct {
	Kind       IssueKind `json:"kind"`
	Severity   Severity  `json:"severity"`
	Line       int       `json:"line,omitempty"`
	Message    string    `json:"message"`
	Suggestion string    `json:"suggestion"`
}

// Result is the detector output. Issues appear in detection order, not
// severity order; callers may resort. Summary is derived purely from
// the issues' severity counts.
type Result struct {
	TotalIssues int     `json:"total_issues"`
	Issues      []Issue `json:"issues"`
	Summary     string  `json:"summary"`
}

// Analyze scans HDL source text with the rule set for lang and reports
// design risks. It is a pure function: no I/O, no shared state, and it
// never fails — pattern absence simply yields fewer issues. Malformed
// or empty input produces an empty result, not an error.
func Analyze(source string, lang Language) Result {
	sc := newScanner(source)

	var rules []rule
	switch lang {
	case LangVHDL:
		rules = vhdlRules
	default:
		rules = verilogRules
	}

	issues := []Issue{}
	for _, r := range rules {
		for _, m := range r.check(sc) {
			issues = append(issues, Issue{
				Kind:       r.kind,
				Severity:   r.severity,
				Line:       m.line,
				Message:    m.message,
				Suggestion: m.suggestion,
			})
		}
	}
	for _, r := range commonRules {
		for _, m := range r.check(sc) {
			issues = append(issues, Issue{
				Kind:       r.kind,
				Severity:   r.severity,
				Line:       m.line,
				Message:    m.message,
				Suggestion: m.suggestion,
			})
		}
	}

	return Result{
		TotalIssues: len(issues),
		Issues:      issues,
		Summary:     Summarize(issues),
	}
}

// Summarize renders the fixed summary line for a set of issues. It is
// exported so callers that filter issues after analysis can recompute
// a consistent summary.
func Summarize(issues []Issue) string {
	if len(issues) == 0 {
		return "No issues found. Code looks good!"
	}

	var errors, warnings, infos int
	for _, issue := range issues {
		switch issue.Severity {
		case SeverityError:
			errors++
		case SeverityWarning:
			warnings++
		case SeverityInfo:
			infos++
		}
	}

	parts := []string{}
	if errors > 0 {
		parts = append(parts, fmt.Sprintf("%d error(s)", errors))
	}
	if warnings > 0 {
		parts = append(parts, fmt.Sprintf("%d warning(s)", warnings))
	}
	if infos > 0 {
		parts = append(parts, fmt.Sprintf("%d info", infos))
	}

	return fmt.Sprintf("Found %d issue(s): %s", len(issues), strings.Join(parts, ", "))
}
