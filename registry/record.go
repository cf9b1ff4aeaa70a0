// Package registry provides the per-bundle record store and the synthetic
// identifier allocator. One Registry and one Allocator are created per
// bundle conversion and discarded afterwards; counters and ids never leak
// across bundles.
package registry

import (
	"time"

	"github.com/gofhir/csv2fhir"
	"github.com/gofhir/csv2fhir/fhir"
)

// DiagnosisEntry is one speculative diagnosis attachment on an encounter
// record. Entries reference their target either by natural key (ICD code,
// resolved against the registry during hierarchy resolution) or directly by
// record id. Whether an entry is materialized on the encounter, on the
// target, or on both is decided by the reference directionality policy.
type DiagnosisEntry struct {
	// Code is the ICD code of the target condition; empty when TargetID is
	// set directly.
	Code string

	// TargetID is the synthetic id of the target record.
	TargetID string

	// TargetKind is csv2fhir.KindCondition or csv2fhir.KindProcedure.
	TargetKind csv2fhir.Kind

	// Use is the diagnosis-role code (e.g. "AD"), empty for entries added
	// by the procedure mapper.
	Use string
}

// Record is one converted resource tracked for cross-referencing. The
// payload (Resource) is created once by a row mapper; the reference fields
// below may receive additional back-references from later mapping steps and
// from the hierarchy resolver. Records are never deleted.
type Record struct {
	Kind csv2fhir.Kind

	// ID is the synthetic id, unique within the bundle.
	ID string

	// PatientID is the transformed patient id the record belongs to.
	PatientID string

	// EncounterID is the id of the owning department encounter, if one
	// could be determined from the row's timestamp.
	EncounterID string

	// NaturalKey indexes the record for cross-referencing (ICD code for
	// conditions, encounter id for encounters). Empty records are not
	// indexed.
	NaturalKey string

	// Resource is the typed payload.
	Resource fhir.Resource

	// Start and End bound the record's period; used by encounters for
	// containment and by the department-context lookup. A nil End means
	// open/unbounded.
	Start *time.Time
	End   *time.Time

	// Diagnoses and Class are the mutable encounter-only attributes the
	// hierarchy resolver fills, inherits and materializes.
	Diagnoses []DiagnosisEntry
	Class     *fhir.Coding

	// PartOf is the id of the enclosing case encounter once resolved;
	// meaningful only for department encounters.
	PartOf string
}

// Contains reports whether the record's period fully contains the other
// record's period. A nil own end is treated as unbounded; a nil other end
// collapses the other period to its start.
func (r *Record) Contains(other *Record) bool {
	if r.Start == nil || other.Start == nil {
		return false
	}
	if other.Start.Before(*r.Start) {
		return false
	}
	if r.End == nil {
		return true
	}
	otherEnd := other.End
	if otherEnd == nil {
		otherEnd = other.Start
	}
	return !otherEnd.After(*r.End)
}

// ContainsTime reports whether t falls within the record's period.
func (r *Record) ContainsTime(t time.Time) bool {
	if r.Start == nil || t.Before(*r.Start) {
		return false
	}
	return r.End == nil || !t.After(*r.End)
}
