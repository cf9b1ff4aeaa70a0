// Package csvsource implements the service.RowSource contract on top of a
// directory of CSV export files, one file per table.
package csvsource

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofhir/csv2fhir"
	"github.com/gofhir/csv2fhir/service"
)

// Source reads tables from a directory of CSV files.
type Source struct {
	dir string
}

// New creates a Source reading from dir.
func New(dir string) *Source {
	return &Source{dir: dir}
}

// Rows implements service.RowSource. The first record is the header;
// header names and cell values are trimmed. A missing file yields
// (nil, nil); a header missing a required column fails the whole table
// with an error wrapping service.ErrMissingColumn.
func (s *Source) Rows(table csv2fhir.Table) ([]service.Row, error) {
	f, err := os.Open(filepath.Join(s.dir, table.FileName()))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open table %s: %w", table, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // ragged rows are tolerated, cells default to ""
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %w", table, err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	if len(header) > 0 {
		// Strip a UTF-8 byte order mark exported by some spreadsheet tools.
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}

	if missing := missingColumns(header, table.RequiredColumns()); len(missing) > 0 {
		return nil, fmt.Errorf("table %s: %w: %s", table, service.ErrMissingColumn, strings.Join(missing, ", "))
	}

	var rows []service.Row
	for line := 1; ; line++ {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s row %d: %w", table, line, err)
		}
		values := make(map[string]string, len(header))
		for i, col := range header {
			if col == "" {
				continue
			}
			if i < len(record) {
				values[col] = strings.TrimSpace(record[i])
			}
		}
		rows = append(rows, service.Row{Line: line, Values: values})
	}
	return rows, nil
}

// ReadDocument implements service.DocumentReader. Relative URIs resolve
// against the table directory.
func (s *Source) ReadDocument(uri string) ([]byte, error) {
	p := filepath.FromSlash(strings.ReplaceAll(uri, "\\", "/"))
	if !filepath.IsAbs(p) {
		p = filepath.Join(s.dir, p)
	}
	return os.ReadFile(p)
}

func missingColumns(header, required []string) []string {
	present := make(map[string]bool, len(header))
	for _, col := range header {
		present[col] = true
	}
	var missing []string
	for _, col := range required {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	return missing
}
