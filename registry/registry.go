package registry

import (
	"sync"
	"time"

	"github.com/gofhir/csv2fhir"
)

// Registry is the shared per-bundle store of all records created so far.
// Insertion order is preserved per kind and globally; it is replayed by the
// bundle assembler. The natural-key index is first-writer-wins.
//
// The mapping phase has exactly one sequential writer. The read lock only
// guards the registry against readers that overlap the occasional
// post-mapping consumers (validation runs while the resolver is idle);
// concurrent writers within one bundle are not supported.
type Registry struct {
	mu     sync.RWMutex
	byKind map[csv2fhir.Kind][]*Record
	byKey  map[csv2fhir.Kind]map[string]*Record
	order  []*Record
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		byKind: make(map[csv2fhir.Kind][]*Record),
		byKey:  make(map[csv2fhir.Kind]map[string]*Record),
	}
}

// Add appends the record to the per-kind ordered list and, when it carries
// a natural key not seen before, to the by-key index.
func (r *Registry) Add(rec *Record) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byKind[rec.Kind] = append(r.byKind[rec.Kind], rec)
	r.order = append(r.order, rec)

	if rec.NaturalKey == "" {
		return
	}
	keys := r.byKey[rec.Kind]
	if keys == nil {
		keys = make(map[string]*Record)
		r.byKey[rec.Kind] = keys
	}
	if _, exists := keys[rec.NaturalKey]; !exists {
		keys[rec.NaturalKey] = rec
	}
}

// Lookup returns the first record of the kind registered under the natural
// key.
func (r *Registry) Lookup(kind csv2fhir.Kind, naturalKey string) (*Record, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.byKey[kind][naturalKey]
	return rec, ok
}

// RecordsOf returns the records of one kind in insertion order. The
// returned slice is shared; callers must not modify it.
func (r *Registry) RecordsOf(kind csv2fhir.Kind) []*Record {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byKind[kind]
}

// All returns every record in global insertion order.
func (r *Registry) All() []*Record {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.order
}

// Len returns the number of registered records.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Patient returns the patient record with the given transformed id.
func (r *Registry) Patient(patientID string) (*Record, bool) {
	return r.Lookup(csv2fhir.KindPatient, patientID)
}

// EncountersOf returns the encounters of the given level belonging to the
// patient, in insertion order.
func (r *Registry) EncountersOf(kind csv2fhir.Kind, patientID string) []*Record {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*Record
	for _, rec := range r.byKind[kind] {
		if rec.PatientID == patientID {
			out = append(out, rec)
		}
	}
	return out
}

// DepartmentEncounterAt returns the first department encounter of the
// patient whose period contains t. It provides the id context for rows
// that carry a timestamp but no explicit stay reference.
func (r *Registry) DepartmentEncounterAt(patientID string, t time.Time) (*Record, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, rec := range r.byKind[csv2fhir.KindDepartmentEncounter] {
		if rec.PatientID == patientID && rec.ContainsTime(t) {
			return rec, true
		}
	}
	return nil, false
}
