package analyzer

import (
	"fmt"
	"sort"
	"strings"
)

// match is one triggering of a rule. line 0 means file-global.
type match struct {
	line       int
	message    string
	suggestion string
}

// rule is a declarative detection record: a fixed kind and severity
// plus a check evaluated against the scanned source. Rules run in
// slice order, which fixes the detection order of the output.
type rule struct {
	kind     IssueKind
	severity Severity
	check    func(sc *scanner) []match
}

// The Verilog rules are whole-file heuristics. They deliberately do
// not scope conditions to individual procedural blocks: an `else` in
// one always block suppresses the latch warning for an unrelated `if`
// in another. Tightening that granularity would change observable
// behavior, so any per-block analysis belongs in a new rule, not here.
var verilogRules = []rule{
	{
		kind:     KindLatchInference,
		severity: SeverityWarning,
		check:    checkVerilogLatch,
	},
	{
		kind:     KindBlockingInSequential,
		severity: SeverityError,
		check:    checkBlockingInSequential,
	},
	{
		kind:     KindIncompleteSensitivity,
		severity: SeverityWarning,
		check:    checkIncompleteSensitivity,
	},
	{
		kind:     KindNoCaseDefault,
		severity: SeverityWarning,
		check:    checkNoCaseDefault,
	},
	{
		kind:     KindMultipleAssignments,
		severity: SeverityError,
		check:    checkMultipleAssignments,
	},
	{
		kind:     KindClockDomainCrossing,
		severity: SeverityWarning,
		check:    checkClockDomainCrossing,
	},
}

var vhdlRules = []rule{
	{
		kind:     KindLatchInference,
		severity: SeverityWarning,
		check:    checkVHDLLatch,
	},
	{
		kind:     KindMixedVariableSignal,
		severity: SeverityInfo,
		check:    checkMixedVariableSignal,
	},
}

var commonRules = []rule{
	{
		kind:     KindStyle,
		severity: SeverityInfo,
		check:    checkLongLines,
	},
}

func checkVerilogLatch(sc *scanner) []match {
	if !sc.containsWord("if") || sc.containsWord("else") {
		return nil
	}
	return []match{{
		line:       sc.lineOfFirstWord("if"),
		message:    "Conditional assignment without an else branch may infer a latch",
		suggestion: "Add an else branch or assign a default value before the if so every path drives the signal",
	}}
}

func checkBlockingInSequential(sc *scanner) []match {
	if !sc.containsPattern(edgePattern) {
		return nil
	}
	// Equality-style assignment somewhere, non-blocking nowhere.
	if !sc.containsPattern(blockingAssignPattern) || strings.Contains(sc.source, "<=") {
		return nil
	}
	return []match{{
		line:       sc.lineOfFirstPattern(blockingAssignPattern),
		message:    "Blocking assignments (=) used in edge-triggered logic",
		suggestion: "Use non-blocking assignments (<=) in sequential always blocks",
	}}
}

func checkIncompleteSensitivity(sc *scanner) []match {
	var matches []match

	referenced := sc.identifiers()
	for _, loc := range alwaysBlockPattern.FindAllStringSubmatchIndex(sc.source, -1) {
		list := sc.source[loc[2]:loc[3]]
		if edgePattern.MatchString(list) {
			// Edge-triggered block, not combinational.
			continue
		}

		listed := make(map[string]struct{})
		for _, tok := range identPattern.FindAllString(list, -1) {
			listed[tok] = struct{}{}
		}

		var missing []string
		for name := range referenced {
			if _, ok := listed[name]; !ok {
				missing = append(missing, name)
			}
		}
		if len(missing) == 0 {
			continue
		}
		sort.Strings(missing)

		matches = append(matches, match{
			line:       sc.lineAt(loc[0]),
			message:    fmt.Sprintf("Sensitivity list may be incomplete; referenced but not listed: %s", strings.Join(missing, ", ")),
			suggestion: "Add the missing signals to the sensitivity list, or use always @(*) for combinational logic",
		})
	}

	return matches
}

func checkNoCaseDefault(sc *scanner) []match {
	if !sc.containsWord("case") || sc.containsWord("default") {
		return nil
	}
	return []match{{
		line:       sc.lineOfFirstWord("case"),
		message:    "Case statement has no default branch",
		suggestion: "Add a default branch so unlisted selector values are covered",
	}}
}

func checkMultipleAssignments(sc *scanner) []match {
	firstLine := make(map[string]int)
	counts := make(map[string]int)
	var order []string

	for _, loc := range assignTargetPattern.FindAllStringSubmatchIndex(sc.source, -1) {
		target := sc.source[loc[2]:loc[3]]
		op := sc.source[loc[4]:loc[5]]
		// Skip == comparisons; <= is kept (assignment-like per the
		// tokenization, even though it can also be a comparison).
		if op == "=" && loc[5] < len(sc.source) && sc.source[loc[5]] == '=' {
			continue
		}
		if signalKeywords[target] {
			continue
		}
		if counts[target] == 0 {
			order = append(order, target)
			firstLine[target] = sc.lineAt(loc[0])
		}
		counts[target]++
	}

	var matches []match
	for _, target := range order {
		if counts[target] < 2 {
			continue
		}
		matches = append(matches, match{
			line:       firstLine[target],
			message:    fmt.Sprintf("Signal '%s' is assigned in more than one place", target),
			suggestion: "Drive each signal from a single always block or continuous assignment",
		})
	}
	return matches
}

func checkClockDomainCrossing(sc *scanner) []match {
	clocks := make(map[string]struct{})
	for _, m := range posedgePattern.FindAllStringSubmatch(sc.source, -1) {
		clocks[m[1]] = struct{}{}
	}
	if len(clocks) < 2 {
		return nil
	}
	return []match{{
		message:    "Multiple clock domains detected; signals crossing between them risk metastability",
		suggestion: "Synchronize every crossing signal, e.g. with a two-flop synchronizer in the destination domain",
	}}
}

func checkVHDLLatch(sc *scanner) []match {
	if !sc.containsPattern(processPattern) || sc.containsPattern(elseCIPattern) {
		return nil
	}
	return []match{{
		line:       sc.lineOfFirstPattern(processPattern),
		message:    "Process without an else branch may infer a latch",
		suggestion: "Cover all conditions, or assign default values at the top of the process",
	}}
}

func checkMixedVariableSignal(sc *scanner) []match {
	if !sc.containsPattern(variablePattern) || !sc.containsPattern(signalPattern) {
		return nil
	}
	return []match{{
		message:    "Both variables and signals are used in this design",
		suggestion: "Remember that variables update immediately while signals update at the end of the process",
	}}
}

const maxLineLength = 120

func checkLongLines(sc *scanner) []match {
	count := 0
	first := 0
	for i, line := range sc.lines {
		if len(line) > maxLineLength {
			if count == 0 {
				first = i + 1
			}
			count++
		}
	}
	if count == 0 {
		return nil
	}
	return []match{{
		line:       first,
		message:    fmt.Sprintf("%d line(s) exceed %d characters", count, maxLineLength),
		suggestion: "Wrap long lines to keep the code readable in side-by-side reviews",
	}}
}
