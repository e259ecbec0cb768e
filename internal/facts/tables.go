package facts

import (
	"regexp"
	"sort"
	"strings"

	"github.com/rtlcheck/rtlcheck/internal/analyzer"
)

// Tables is the relational fact model derived from one analysis run.
// Each slice is a relation with flat rows, the input shape for policy
// engines and JSON consumers.
type Tables struct {
	File        string          `json:"file"`
	Language    string          `json:"language"`
	Signals     []SignalRow     `json:"signals"`
	ClockEdges  []ClockEdgeRow  `json:"clock_edges"`
	Assignments []AssignmentRow `json:"assignments"`
	Issues      []IssueRow      `json:"issues"`
}

type SignalRow struct {
	Name string `json:"name"`
}

type ClockEdgeRow struct {
	Edge   string `json:"edge"`
	Signal string `json:"signal"`
	Line   int    `json:"line"`
}

type AssignmentRow struct {
	Target   string `json:"target"`
	Blocking bool   `json:"blocking"`
	Line     int    `json:"line"`
}

type IssueRow struct {
	Kind     string `json:"kind"`
	Severity string `json:"severity"`
	Line     int    `json:"line"`
	Message  string `json:"message"`
}

var (
	edgeEventPattern  = regexp.MustCompile(`\b(posedge|negedge)\s+([a-zA-Z_][a-zA-Z0-9_]*)`)
	assignmentPattern = regexp.MustCompile(`\b([a-zA-Z_][a-zA-Z0-9_]*)\s*(<=|=)`)
)

// FromAnalysis flattens one analysis into fact tables. Signal rows are
// sorted by name so the output is deterministic.
func FromAnalysis(file string, lang analyzer.Language, source string, res analyzer.Result) Tables {
	t := Tables{
		File:     file,
		Language: string(lang),
	}

	names := make([]string, 0)
	for name := range analyzer.ExtractSignals(source) {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		t.Signals = append(t.Signals, SignalRow{Name: name})
	}

	for _, loc := range edgeEventPattern.FindAllStringSubmatchIndex(source, -1) {
		t.ClockEdges = append(t.ClockEdges, ClockEdgeRow{
			Edge:   source[loc[2]:loc[3]],
			Signal: source[loc[4]:loc[5]],
			Line:   lineAt(source, loc[0]),
		})
	}

	for _, loc := range assignmentPattern.FindAllStringSubmatchIndex(source, -1) {
		op := source[loc[4]:loc[5]]
		if op == "=" && loc[5] < len(source) && source[loc[5]] == '=' {
			// Comparison, not an assignment.
			continue
		}
		t.Assignments = append(t.Assignments, AssignmentRow{
			Target:   source[loc[2]:loc[3]],
			Blocking: op == "=",
			Line:     lineAt(source, loc[0]),
		})
	}

	for _, issue := range res.Issues {
		t.Issues = append(t.Issues, IssueRow{
			Kind:     string(issue.Kind),
			Severity: string(issue.Severity),
			Line:     issue.Line,
			Message:  issue.Message,
		})
	}

	return t
}

func lineAt(source string, offset int) int {
	return strings.Count(source[:offset], "\n") + 1
}
