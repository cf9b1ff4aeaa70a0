// Package service defines the collaborator contracts the conversion core
// consumes: the row source, the record validator and the terminology
// service. The core depends only on these small interfaces, never on the
// implementations behind them.
package service

import (
	"context"
	"errors"
	"strings"

	"github.com/gofhir/csv2fhir"
)

// ErrMissingColumn marks a table whose header lacks a required column. No
// row of such a table is safely mappable, so the whole table is skipped
// (fatal-per-file).
var ErrMissingColumn = errors.New("required column missing")

// Row is one named-column record of an input table.
type Row struct {
	// Line is the 1-based data row number within the table, headers
	// excluded.
	Line int

	// Values maps column name to the raw cell content.
	Values map[string]string
}

// Get returns the trimmed cell value of the column, "" when the column is
// absent or empty.
func (r Row) Get(column string) string {
	return strings.TrimSpace(r.Values[column])
}

// Has reports whether the column carries a non-empty value.
func (r Row) Has(column string) bool {
	return r.Get(column) != ""
}

// RowSource yields, per table, an ordered sequence of named-column rows.
//
// A missing table returns (nil, nil): datasets legitimately omit tables.
// A table missing one of its required columns returns an error wrapping
// ErrMissingColumn.
type RowSource interface {
	Rows(table csv2fhir.Table) ([]Row, error)
}

// DocumentReader resolves the document URIs referenced by the export to
// their raw content. Row sources that sit next to the referenced files
// implement it; the converter falls back to a bare URL attachment when a
// URI does not resolve.
type DocumentReader interface {
	ReadDocument(uri string) ([]byte, error)
}

// Validator accepts one finished record's serialized form and returns a
// severity-classified list of findings. The core only acts on the
// classification.
type Validator interface {
	Validate(ctx context.Context, resourceJSON []byte) ([]csv2fhir.Finding, error)
}

// ValidateCodeResult is the outcome of a terminology lookup.
type ValidateCodeResult struct {
	Valid   bool
	Display string
	Message string
}

// TerminologyService validates codes against the known code systems and
// resolves display texts. Implementations must be safe for concurrent
// reads; parallel bundle workers share one instance.
type TerminologyService interface {
	ValidateCode(ctx context.Context, system, code string) (*ValidateCodeResult, error)
	Display(system, code string) string
}
