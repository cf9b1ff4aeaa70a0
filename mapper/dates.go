package mapper

import (
	"fmt"
	"time"

	"github.com/gofhir/csv2fhir/fhir"
)

// Timestamp is a parsed input date with a flag for whether the source
// carried a clock component. FHIR rendering depends on that flag: a
// date-only input stays a date, a clocked input becomes a dateTime.
type Timestamp struct {
	Time    time.Time
	HasTime bool
}

// dateLayouts lists the accepted input formats. German day-first forms
// come before ISO forms; within a family the clocked variants come first
// so a trailing time component is never silently dropped.
var dateLayouts = []struct {
	layout  string
	hasTime bool
}{
	{"02.01.2006 15:04:05", true},
	{"02.01.2006 15:04", true},
	{"02.01.2006", false},
	{"2006-01-02T15:04:05", true},
	{"2006-01-02 15:04:05", true},
	{"2006-01-02 15:04", true},
	{"2006-01-02", false},
}

// ParseTimestamp parses a date or date-time cell. All inputs are read as
// UTC so identical inputs render identically on every machine.
func ParseTimestamp(s string) (Timestamp, error) {
	for _, dl := range dateLayouts {
		t, err := time.ParseInLocation(dl.layout, s, time.UTC)
		if err == nil {
			return Timestamp{Time: t, HasTime: dl.hasTime}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("unparseable date %q", s)
}

// FHIR renders the timestamp as a FHIR date or dateTime string.
func (ts Timestamp) FHIR() string {
	if ts.HasTime {
		return ts.Time.Format("2006-01-02T15:04:05Z")
	}
	return ts.Time.Format("2006-01-02")
}

// optionalTimestamp parses a cell that may be empty. Empty cells yield a
// nil timestamp without an error.
func optionalTimestamp(s string) (*Timestamp, error) {
	if s == "" {
		return nil, nil
	}
	ts, err := ParseTimestamp(s)
	if err != nil {
		return nil, err
	}
	return &ts, nil
}

// periodOf builds a FHIR period from optional start and end timestamps.
// Nil when both are absent.
func periodOf(start, end *Timestamp) *fhir.Period {
	if start == nil && end == nil {
		return nil
	}
	p := &fhir.Period{}
	if start != nil {
		p.Start = start.FHIR()
	}
	if end != nil {
		p.End = end.FHIR()
	}
	return p
}

// timePtr extracts the bare time of an optional timestamp for registry
// period bookkeeping.
func timePtr(ts *Timestamp) *time.Time {
	if ts == nil {
		return nil
	}
	t := ts.Time
	return &t
}
