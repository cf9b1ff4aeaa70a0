package csv2fhir

// Counts aggregates findings by class.
type Counts struct {
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Ignored  int `json:"ignored"`
	Valid    int `json:"valid"`
}

// Add accumulates other into c.
func (c *Counts) Add(other Counts) {
	c.Errors += other.Errors
	c.Warnings += other.Warnings
	c.Ignored += other.Ignored
	c.Valid += other.Valid
}

// Total returns the number of classified findings.
func (c Counts) Total() int {
	return c.Errors + c.Warnings + c.Ignored + c.Valid
}

// Result accumulates the outcome of one bundle conversion. It is owned by a
// single conversion run and is not safe for concurrent writers; parallel
// bundle conversions each hold their own Result.
type Result struct {
	// PatientID is set in per-patient mode, empty for dataset bundles.
	PatientID string

	// Counts per finding class.
	Counts Counts

	// Findings in the order they were raised.
	Findings []Finding

	// Records is the number of records registered in the bundle.
	Records int
}

// AddFinding records one classified finding and updates the counts.
func (r *Result) AddFinding(f Finding) {
	r.Findings = append(r.Findings, f)
	switch f.Class {
	case FindingError:
		r.Counts.Errors++
	case FindingWarning:
		r.Counts.Warnings++
	case FindingIgnorable:
		r.Counts.Ignored++
	case FindingValid:
		r.Counts.Valid++
	}
}

// Error records a FindingError.
func (r *Result) Error(table, recordID, diagnostics string) {
	r.AddFinding(Finding{Class: FindingError, Table: table, RecordID: recordID, Diagnostics: diagnostics})
}

// Warning records a FindingWarning.
func (r *Result) Warning(table, recordID, diagnostics string) {
	r.AddFinding(Finding{Class: FindingWarning, Table: table, RecordID: recordID, Diagnostics: diagnostics})
}

// HasErrors reports whether any FindingError was recorded.
func (r *Result) HasErrors() bool {
	return r.Counts.Errors > 0
}
