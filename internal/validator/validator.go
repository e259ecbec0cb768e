// Package validator is the contract guard between the analyzer core
// and its callers. Output that does not match the embedded CUE schema
// crashes the run immediately with a clear error instead of letting a
// renderer or downstream consumer silently receive a malformed field.
// When validation fails, fix the producer or the schema at the source;
// do not suppress the error.
package validator

import (
	"embed"
	"encoding/json"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
)

//go:embed result_schema.cue
var schemaFS embed.FS

// Validator validates analyzer and advisory output against the CUE
// schema contract.
type Validator struct {
	ctx    *cue.Context
	schema cue.Value
}

// New creates a Validator with the embedded CUE schema.
func New() (*Validator, error) {
	ctx := cuecontext.New()

	schemaBytes, err := schemaFS.ReadFile("result_schema.cue")
	if err != nil {
		return nil, fmt.Errorf("loading embedded schema: %w", err)
	}

	schema := ctx.CompileBytes(schemaBytes)
	if schema.Err() != nil {
		return nil, fmt.Errorf("compiling schema: %w", schema.Err())
	}

	return &Validator{
		ctx:    ctx,
		schema: schema,
	}, nil
}

// ValidateAnalysisResult checks one analysis result against #AnalysisResult.
func (v *Validator) ValidateAnalysisResult(data interface{}) error {
	return v.validate(data, "#AnalysisResult")
}

// ValidateTimingGuidance checks timing guidance against #TimingGuidance.
func (v *Validator) ValidateTimingGuidance(data interface{}) error {
	return v.validate(data, "#TimingGuidance")
}

// ValidateCDCGuidance checks CDC guidance against #CDCGuidance.
func (v *Validator) ValidateCDCGuidance(data interface{}) error {
	return v.validate(data, "#CDCGuidance")
}

// ValidateReport checks a full review report against #Report.
func (v *Validator) ValidateReport(data interface{}) error {
	return v.validate(data, "#Report")
}

func (v *Validator) validate(data interface{}, defName string) error {
	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshaling data to JSON: %w", err)
	}

	dataValue := v.ctx.CompileBytes(jsonBytes)
	if dataValue.Err() != nil {
		return fmt.Errorf("compiling data as CUE: %w", dataValue.Err())
	}

	def := v.schema.LookupPath(cue.ParsePath(defName))
	if def.Err() != nil {
		return fmt.Errorf("looking up %s definition: %w", defName, def.Err())
	}

	unified := def.Unify(dataValue)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("schema validation failed for %s: %w", defName, err)
	}

	return nil
}

// ValidationErrors returns detailed information about every validation
// error for data against the named definition.
func (v *Validator) ValidationErrors(data interface{}, defName string) []string {
	err := v.validate(data, defName)
	if err == nil {
		return nil
	}

	var errs []string
	for _, e := range errors.Errors(err) {
		errs = append(errs, e.Error())
	}
	return errs
}
