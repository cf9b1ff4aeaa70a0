package csv2fhir

// FindingClass is the converter-side classification of a finding attached
// to one record or table. It deliberately collapses validator severities
// and mapping problems into the four classes the run summary reports.
type FindingClass int

const (
	// FindingValid marks a record that passed validation.
	FindingValid FindingClass = iota
	// FindingIgnorable is a known, allow-listed validator complaint. It is
	// counted separately and does not flip the record's overall status.
	FindingIgnorable
	// FindingWarning is a data-quality problem that was degraded to a
	// best-effort default or an explicit absence marker.
	FindingWarning
	// FindingError invalidates one record or one row; it never escalates
	// past the current row.
	FindingError
)

// String returns the class name.
func (c FindingClass) String() string {
	switch c {
	case FindingValid:
		return "valid"
	case FindingIgnorable:
		return "ignorable"
	case FindingWarning:
		return "warning"
	case FindingError:
		return "error"
	default:
		return "unknown"
	}
}

// Finding is one classified conversion or validation finding.
type Finding struct {
	// Class of the finding.
	Class FindingClass

	// RecordID is the synthetic id of the affected record, empty for
	// table-level findings.
	RecordID string

	// Table names the input table the finding originated from, if any.
	Table string

	// Diagnostics contains human-readable details.
	Diagnostics string
}

// Worst returns the most severe class among the findings, FindingValid for
// an empty list.
func Worst(findings []Finding) FindingClass {
	worst := FindingValid
	for _, f := range findings {
		if f.Class > worst {
			worst = f.Class
		}
	}
	return worst
}
