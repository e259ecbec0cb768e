package analyzer

import (
	"regexp"
	"strings"
)

var (
	// Pattern: any identifier (letter/underscore start, word continuation)
	identPattern = regexp.MustCompile(`[a-zA-Z_][a-zA-Z0-9_]*`)

	// Pattern: posedge <signal>
	posedgePattern = regexp.MustCompile(`\bposedge\s+([a-zA-Z_][a-zA-Z0-9_]*)`)

	// Pattern: posedge or negedge anywhere
	edgePattern = regexp.MustCompile(`\b(posedge|negedge)\b`)

	// Pattern: always @(<sensitivity list>)
	alwaysBlockPattern = regexp.MustCompile(`\balways\s*@\s*\(([^)]*)\)`)

	// Pattern: <target> = <expr>, excluding ==, <=, >=, !=
	blockingAssignPattern = regexp.MustCompile(`\b[a-zA-Z_][a-zA-Z0-9_]*\s*=([^=]|$)`)

	// Pattern: <target> followed by = or <= (assignment-like expression)
	assignTargetPattern = regexp.MustCompile(`\b([a-zA-Z_][a-zA-Z0-9_]*)\s*(<=|=)`)

	// VHDL is case-insensitive, so its keyword checks are too
	processPattern  = regexp.MustCompile(`(?i)\bprocess\b`)
	variablePattern = regexp.MustCompile(`(?i)\bvariable\b`)
	signalPattern   = regexp.MustCompile(`(?i)\bsignal\b`)
	elseCIPattern   = regexp.MustCompile(`(?i)\belse\b`)
)

// signalKeywords are identifiers never treated as signal names.
// The list is intentionally small; expanding it would change which
// identifiers count as signals in the sensitivity-list check.
var signalKeywords = map[string]bool{
	"always":    true,
	"if":        true,
	"else":      true,
	"case":      true,
	"begin":     true,
	"end":       true,
	"module":    true,
	"endmodule": true,
}

// scanner is a lexical view of one source text. It exposes the small
// set of capabilities the rule table needs: keyword presence, line of
// first match, and identifier extraction. It never parses.
type scanner struct {
	source string
	lines  []string
}

func newScanner(source string) *scanner {
	return &scanner{
		source: source,
		lines:  strings.Split(source, "\n"),
	}
}

func wordPattern(word string) *regexp.Regexp {
	return regexp.MustCompile(`\b` + regexp.QuoteMeta(word) + `\b`)
}

var wordPatterns = map[string]*regexp.Regexp{
	"if":      wordPattern("if"),
	"else":    wordPattern("else"),
	"case":    wordPattern("case"),
	"default": wordPattern("default"),
}

func (s *scanner) containsWord(word string) bool {
	return wordPatterns[word].MatchString(s.source)
}

func (s *scanner) containsPattern(re *regexp.Regexp) bool {
	return re.MatchString(s.source)
}

// lineOfFirstWord returns the 1-based line of the first occurrence of
// word, or 0 if the word does not appear.
func (s *scanner) lineOfFirstWord(word string) int {
	return s.lineOfFirstPattern(wordPatterns[word])
}

func (s *scanner) lineOfFirstPattern(re *regexp.Regexp) int {
	loc := re.FindStringIndex(s.source)
	if loc == nil {
		return 0
	}
	return s.lineAt(loc[0])
}

// lineAt converts a byte offset into a 1-based line number.
func (s *scanner) lineAt(offset int) int {
	return strings.Count(s.source[:offset], "\n") + 1
}

// identifiers returns the distinct identifier tokens in the source,
// excluding the fixed keyword blocklist.
func (s *scanner) identifiers() map[string]struct{} {
	return identifierSet(s.source)
}

func identifierSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range identPattern.FindAllString(text, -1) {
		if signalKeywords[tok] {
			continue
		}
		set[tok] = struct{}{}
	}
	return set
}

// ExtractSignals approximates the set of signal names referenced in
// HDL source text. Tokenization is purely lexical: comment and string
// contents are included, and anything shaped like an identifier counts
// unless it is on the keyword blocklist. Callers that need precision
// should not use this; the heuristic rules tolerate the noise.
func ExtractSignals(source string) map[string]struct{} {
	return identifierSet(source)
}
