// Package validate adapts the gofhir validation engine to the converter's
// service.Validator contract. Validator findings are classified into the
// four run-summary classes; complaints matched by the allow-list degrade
// from error to ignorable instead of flipping the record invalid.
package validate

import (
	"context"
	"strings"

	fv "github.com/gofhir/validator"
	"github.com/gofhir/validator/engine"

	"github.com/gofhir/csv2fhir"
)

// Engine wraps a gofhir engine.Validator.
type Engine struct {
	v         *engine.Validator
	allowList []string
}

// Option configures the Engine.
type Option func(*Engine)

// WithAllowList sets substring patterns of validator diagnostics that are
// counted as ignorable rather than as errors. Typical entries name known,
// accepted profile complaints (e.g. value sets the terminology service
// cannot retrieve).
func WithAllowList(patterns []string) Option {
	return func(e *Engine) {
		e.allowList = patterns
	}
}

// New creates the validation engine for FHIR R4.
func New(ctx context.Context, opts ...Option) (*Engine, error) {
	v, err := engine.New(ctx, fv.R4)
	if err != nil {
		return nil, err
	}
	e := &Engine{v: v}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Close releases the underlying engine.
func (e *Engine) Close() error {
	return e.v.Close()
}

// Validate implements service.Validator.
func (e *Engine) Validate(ctx context.Context, resourceJSON []byte) ([]csv2fhir.Finding, error) {
	res, err := e.v.Validate(ctx, resourceJSON)
	if err != nil {
		return nil, err
	}
	defer res.Release()

	var findings []csv2fhir.Finding
	for _, issue := range res.Issues {
		findings = append(findings, csv2fhir.Finding{
			Class:       e.classify(issue),
			Diagnostics: issue.Diagnostics,
		})
	}
	return findings, nil
}

// classify maps a validator issue to a finding class.
func (e *Engine) classify(issue fv.Issue) csv2fhir.FindingClass {
	if e.allowed(issue.Diagnostics) {
		return csv2fhir.FindingIgnorable
	}
	switch {
	case issue.IsError():
		return csv2fhir.FindingError
	case issue.IsWarning():
		return csv2fhir.FindingWarning
	default:
		return csv2fhir.FindingIgnorable
	}
}

func (e *Engine) allowed(diagnostics string) bool {
	for _, pattern := range e.allowList {
		if pattern != "" && strings.Contains(diagnostics, pattern) {
			return true
		}
	}
	return false
}
