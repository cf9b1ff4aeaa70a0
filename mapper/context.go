package mapper

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/rs/zerolog"

	"github.com/gofhir/csv2fhir"
	"github.com/gofhir/csv2fhir/fhir"
	"github.com/gofhir/csv2fhir/registry"
	"github.com/gofhir/csv2fhir/service"
)

// Context carries the per-bundle collaborators a mapper needs. One Context
// belongs to exactly one bundle build and must not be shared across
// concurrent builds.
type Context struct {
	Options     *csv2fhir.Options
	Registry    *registry.Registry
	Alloc       *registry.Allocator
	Result      *csv2fhir.Result
	Terminology service.TerminologyService

	// Documents resolves document URIs to their content. Optional; without
	// it attachments carry the URL only.
	Documents service.DocumentReader

	Log zerolog.Logger
}

// PatientID reads and transforms the patient id of a row. An empty id is a
// row-fatal error.
func (mc *Context) PatientID(row service.Row) (string, error) {
	pid := row.Get(csv2fhir.PatientIDColumn)
	if pid == "" {
		return "", fmt.Errorf("column %s is empty", csv2fhir.PatientIDColumn)
	}
	return mc.Options.FullPID(pid), nil
}

// PatientRef builds the subject reference for a transformed patient id.
func (mc *Context) PatientRef(pid string) *fhir.Reference {
	return fhir.RefTo("Patient", pid)
}

// IDContext resolves the id context of a clinical row: the department
// encounter whose period contains the row's timestamp, or the patient id
// when no department encounter matches. The second return value is the
// matched encounter id, empty when the context fell back to the patient.
func (mc *Context) IDContext(pid string, at *time.Time) (string, string) {
	if at != nil {
		if rec, ok := mc.Registry.DepartmentEncounterAt(pid, *at); ok {
			return rec.ID, rec.ID
		}
	}
	return pid, ""
}

// CaseEncounterFor returns the case encounter a clinical row belongs to,
// preferring the one whose period contains the timestamp and falling back
// to the patient's first case encounter. Nil when the patient has none.
func (mc *Context) CaseEncounterFor(pid string, at *time.Time) *registry.Record {
	encs := mc.Registry.EncountersOf(csv2fhir.KindCaseEncounter, pid)
	if at != nil {
		for _, e := range encs {
			if e.ContainsTime(*at) {
				return e
			}
		}
	}
	if len(encs) > 0 {
		return encs[0]
	}
	return nil
}

// Warn records a warning finding and mirrors it to the log.
func (mc *Context) Warn(table csv2fhir.Table, recordID, msg string) {
	mc.Result.Warning(table.String(), recordID, msg)
	mc.Log.Warn().
		Str("table", table.String()).
		Str("record", recordID).
		Msg(msg)
}

// dizID derives a data integration center identifier from the untransformed
// patient id prefix. The leading letter run of the pid names the site;
// without one a generic site id is used.
func dizID(pid string) string {
	var b strings.Builder
	for _, r := range pid {
		if !unicode.IsLetter(r) {
			break
		}
		b.WriteRune(r)
	}
	if b.Len() == 0 {
		return "diz"
	}
	return strings.ToLower(b.String())
}
