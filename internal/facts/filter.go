package facts

import "github.com/rtlcheck/rtlcheck/internal/analyzer"

// FilterIssuesByMinSeverity returns a copy of t whose issue relation
// keeps only rows at or above min. The other relations are unchanged:
// they describe the source, not the findings.
func FilterIssuesByMinSeverity(t Tables, min analyzer.Severity) Tables {
	filtered := t
	filtered.Issues = nil
	for _, row := range t.Issues {
		if analyzer.Severity(row.Severity).Rank() >= min.Rank() {
			filtered.Issues = append(filtered.Issues, row)
		}
	}
	return filtered
}
