package validate

import (
	"testing"

	fv "github.com/gofhir/validator"

	"github.com/gofhir/csv2fhir"
)

func TestClassify(t *testing.T) {
	e := &Engine{allowList: []string{"Cannot retrieve valueset"}}

	tests := []struct {
		name  string
		issue fv.Issue
		want  csv2fhir.FindingClass
	}{
		{
			name:  "error",
			issue: fv.Issue{Severity: fv.SeverityError, Diagnostics: "missing required element"},
			want:  csv2fhir.FindingError,
		},
		{
			name:  "allow-listed error degrades to ignorable",
			issue: fv.Issue{Severity: fv.SeverityError, Diagnostics: "Cannot retrieve valueset 'http://example.org/vs'"},
			want:  csv2fhir.FindingIgnorable,
		},
		{
			name:  "warning",
			issue: fv.Issue{Severity: fv.SeverityWarning, Diagnostics: "unknown extension"},
			want:  csv2fhir.FindingWarning,
		},
		{
			name:  "information",
			issue: fv.Issue{Severity: fv.SeverityInformation, Diagnostics: "note"},
			want:  csv2fhir.FindingIgnorable,
		},
		{
			name:  "fatal",
			issue: fv.Issue{Severity: fv.SeverityFatal, Diagnostics: "not parseable"},
			want:  csv2fhir.FindingError,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.classify(tt.issue); got != tt.want {
				t.Errorf("classify = %v; want %v", got, tt.want)
			}
		})
	}
}

func TestAllowed_EmptyPatternNeverMatches(t *testing.T) {
	e := &Engine{allowList: []string{""}}
	if e.allowed("anything") {
		t.Error("empty pattern must not match")
	}
}
