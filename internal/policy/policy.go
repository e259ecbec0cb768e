// Package policy evaluates project-specific OPA rules against the
// fact tables of one analysis. The built-in rule set is fixed; rego
// policies are the extension point for rules that belong to a project,
// not to the tool.
package policy

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/open-policy-agent/opa/v1/rego"

	"github.com/rtlcheck/rtlcheck/internal/facts"
)

// violationsQuery collects every violation produced by the loaded
// policies. Policies add to it with:
//
//	package hdl.review
//	all_violations contains violation if { ... }
const violationsQuery = "data.hdl.review.all_violations"

// Engine evaluates rego policies against analysis fact tables.
type Engine struct {
	query rego.PreparedEvalQuery
}

// Violation is one policy rule violation.
type Violation struct {
	Rule     string `json:"rule"`
	Severity string `json:"severity"`
	File     string `json:"file"`
	Line     int    `json:"line"`
	Message  string `json:"message"`
}

// New creates a policy engine from every .rego file in policyDir.
func New(policyDir string) (*Engine, error) {
	files, err := filepath.Glob(filepath.Join(policyDir, "*.rego"))
	if err != nil {
		return nil, fmt.Errorf("finding policy files: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no policy files found in %s", policyDir)
	}

	modules := make(map[string]string, len(files))
	for _, f := range files {
		content, err := os.ReadFile(f)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", f, err)
		}
		modules[f] = string(content)
	}

	return NewFromModules(modules)
}

// NewFromModules creates a policy engine from in-memory rego modules,
// keyed by a display name used in error messages.
func NewFromModules(modules map[string]string) (*Engine, error) {
	opts := []func(*rego.Rego){rego.Query(violationsQuery)}
	for name, content := range modules {
		opts = append(opts, rego.Module(name, content))
	}

	query, err := rego.New(opts...).PrepareForEval(context.Background())
	if err != nil {
		return nil, fmt.Errorf("preparing violations query: %w", err)
	}

	return &Engine{query: query}, nil
}

// Evaluate runs the loaded policies against one file's fact tables.
func (e *Engine) Evaluate(ctx context.Context, input facts.Tables) ([]Violation, error) {
	inputMap, err := structToMap(input)
	if err != nil {
		return nil, fmt.Errorf("converting input: %w", err)
	}

	rs, err := e.query.Eval(ctx, rego.EvalInput(inputMap))
	if err != nil {
		return nil, fmt.Errorf("evaluating violations: %w", err)
	}

	var violations []Violation
	if len(rs) > 0 && len(rs[0].Expressions) > 0 {
		values, ok := rs[0].Expressions[0].Value.([]interface{})
		if ok {
			for _, v := range values {
				vmap, ok := v.(map[string]interface{})
				if !ok {
					continue
				}
				violations = append(violations, Violation{
					Rule:     getString(vmap, "rule"),
					Severity: getString(vmap, "severity"),
					File:     getString(vmap, "file"),
					Line:     getInt(vmap, "line"),
					Message:  getString(vmap, "message"),
				})
			}
		}
	}

	return violations, nil
}

func structToMap(v interface{}) (map[string]interface{}, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var result map[string]interface{}
	err = json.Unmarshal(data, &result)
	return result, err
}

func getString(m map[string]interface{}, key string) string {
	if v, ok := m[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func getInt(m map[string]interface{}, key string) int {
	if v, ok := m[key]; ok {
		switch n := v.(type) {
		case int:
			return n
		case float64:
			return int(n)
		case json.Number:
			i, _ := n.Int64()
			return int(i)
		}
	}
	return 0
}
