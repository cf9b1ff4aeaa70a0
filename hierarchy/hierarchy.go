// Package hierarchy resolves the two-level encounter hierarchy and
// materializes the cross-references between encounters, conditions and
// procedures. Resolution runs once per bundle, after all rows are mapped
// and before the bundle is assembled.
//
// Resolution is idempotent: running it a second time over the same
// registry produces the same resource state, because every materialized
// field is rebuilt from the registry instead of being appended to.
package hierarchy

import (
	"sort"

	"github.com/rs/zerolog"

	"github.com/gofhir/csv2fhir"
	"github.com/gofhir/csv2fhir/fhir"
	"github.com/gofhir/csv2fhir/registry"
)

// Resolver wires the hierarchy pass to its collaborators. Like the
// registry it operates on, a Resolver belongs to one bundle conversion.
type Resolver struct {
	Options  *csv2fhir.Options
	Registry *registry.Registry
	Result   *csv2fhir.Result
	Log      zerolog.Logger
}

// Resolve runs the full resolution pass:
//
//  1. assign each department encounter to its enclosing case encounter
//  2. inherit diagnoses and class from the case encounter where enabled
//  3. resolve speculative admission diagnosis codes against the registry
//  4. materialize references and classes onto the FHIR resources
func (h *Resolver) Resolve() {
	h.assignParents()
	h.inherit()
	h.resolveDiagnosisCodes()
	h.materialize()
}

// assignParents links every department encounter to the case encounter
// whose period contains it. With several containing candidates the one
// with the earliest start wins; a start tie is broken in favor of the
// candidate carrying more diagnoses.
func (h *Resolver) assignParents() {
	for _, dept := range h.Registry.RecordsOf(csv2fhir.KindDepartmentEncounter) {
		parent := h.enclosingCase(dept)
		if parent == nil {
			dept.PartOf = ""
			h.warn(dept, "department encounter without enclosing case encounter")
			continue
		}
		dept.PartOf = parent.ID
	}
}

func (h *Resolver) enclosingCase(dept *registry.Record) *registry.Record {
	var candidates []*registry.Record
	for _, c := range h.Registry.EncountersOf(csv2fhir.KindCaseEncounter, dept.PatientID) {
		if c.Contains(dept) {
			candidates = append(candidates, c)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if !a.Start.Equal(*b.Start) {
			return a.Start.Before(*b.Start)
		}
		return len(a.Diagnoses) > len(b.Diagnoses)
	})
	return candidates[0]
}

// inherit copies diagnoses and class down from the case encounter into
// department encounters that lack them, where the respective option is
// enabled. Admission and chief complaint diagnoses are copied first so
// sub-encounters carry the admission context ahead of later documentation.
func (h *Resolver) inherit() {
	for _, dept := range h.Registry.RecordsOf(csv2fhir.KindDepartmentEncounter) {
		if dept.PartOf == "" {
			continue
		}
		parent, ok := h.Registry.Lookup(csv2fhir.KindCaseEncounter, dept.PartOf)
		if !ok {
			continue
		}
		if h.Options.AddMissingDiagnosesFromSuper && len(dept.Diagnoses) == 0 {
			dept.Diagnoses = orderedByRole(parent.Diagnoses)
		}
		if h.Options.AddMissingClassFromSuper && dept.Class == nil && parent.Class != nil {
			c := *parent.Class
			dept.Class = &c
		}
	}
}

// orderedByRole copies admission and chief complaint entries first,
// keeping the relative order within each group.
func orderedByRole(entries []registry.DiagnosisEntry) []registry.DiagnosisEntry {
	out := make([]registry.DiagnosisEntry, 0, len(entries))
	for _, e := range entries {
		if preferredRole(e.Use) {
			out = append(out, e)
		}
	}
	for _, e := range entries {
		if !preferredRole(e.Use) {
			out = append(out, e)
		}
	}
	return out
}

func preferredRole(use string) bool {
	return use == "AD" || use == "CC"
}

// resolveDiagnosisCodes binds speculative diagnosis entries, registered by
// code before their condition rows were parsed, to the condition records
// now in the registry. Codes without a matching condition stay unbound and
// are later materialized as explicitly absent references.
func (h *Resolver) resolveDiagnosisCodes() {
	for _, kind := range []csv2fhir.Kind{csv2fhir.KindCaseEncounter, csv2fhir.KindDepartmentEncounter} {
		for _, enc := range h.Registry.RecordsOf(kind) {
			for i := range enc.Diagnoses {
				d := &enc.Diagnoses[i]
				if d.TargetID != "" || d.Code == "" {
					continue
				}
				if target, ok := h.Registry.Lookup(d.TargetKind, d.Code); ok {
					d.TargetID = target.ID
				} else {
					h.warn(enc, "no condition found for diagnosis code "+d.Code)
				}
			}
		}
	}
}

// materialize writes the resolved state onto the FHIR resources. All
// reference fields are rebuilt from scratch; the directionality options
// decide which side of each relation carries the reference.
func (h *Resolver) materialize() {
	for _, enc := range h.Registry.RecordsOf(csv2fhir.KindCaseEncounter) {
		res := enc.Resource.(*fhir.Encounter)
		res.Class = classOrAbsent(enc.Class)
		res.PartOf = nil
		res.Diagnosis = h.encounterDiagnoses(enc)
	}
	for _, dept := range h.Registry.RecordsOf(csv2fhir.KindDepartmentEncounter) {
		res := dept.Resource.(*fhir.Encounter)
		res.Class = classOrAbsent(dept.Class)
		if dept.PartOf != "" {
			res.PartOf = fhir.RefTo("Encounter", dept.PartOf)
		} else {
			res.PartOf = nil
		}
		res.Diagnosis = h.encounterDiagnoses(dept)
		// Downstream profiles require a populated diagnosis field; an
		// empty list becomes an explicit absence marker.
		if len(res.Diagnosis) == 0 && h.Options.ReferenceEnabled(csv2fhir.RelationDiagnosisEncounter, csv2fhir.EncounterToResource) {
			res.Diagnosis = []fhir.EncounterDiagnosis{{
				Condition: fhir.Reference{Extension: []fhir.Extension{fhir.DataAbsentUnknown()}},
			}}
		}
	}
	h.materializeBackReferences()
}

// encounterDiagnoses builds the Encounter.diagnosis list for one encounter
// record, honoring the encounter-to-resource directionality per target
// kind. Unbound entries become references marked as absent.
func (h *Resolver) encounterDiagnoses(enc *registry.Record) []fhir.EncounterDiagnosis {
	var out []fhir.EncounterDiagnosis
	for _, d := range enc.Diagnoses {
		rel := csv2fhir.RelationDiagnosisEncounter
		if d.TargetKind == csv2fhir.KindProcedure {
			rel = csv2fhir.RelationProcedureEncounter
		}
		if !h.Options.ReferenceEnabled(rel, csv2fhir.EncounterToResource) {
			continue
		}
		var ref fhir.Reference
		if d.TargetID != "" {
			ref = *fhir.RefTo(d.TargetKind.ResourceType(), d.TargetID)
		} else {
			ref = fhir.Reference{Extension: []fhir.Extension{fhir.DataAbsentUnknown()}}
		}
		ed := fhir.EncounterDiagnosis{Condition: ref}
		if d.Use != "" {
			ed.Use = fhir.Concept(fhir.Coding{
				System: "http://terminology.hl7.org/CodeSystem/diagnosis-role",
				Code:   d.Use,
			})
		}
		out = append(out, ed)
	}
	return out
}

// materializeBackReferences sets or clears Condition.encounter and
// Procedure.encounter according to the resource-to-encounter
// directionality. The reference targets the record's own department
// encounter, falling back to the patient's enclosing case encounter.
func (h *Resolver) materializeBackReferences() {
	condEnabled := h.Options.ReferenceEnabled(csv2fhir.RelationDiagnosisEncounter, csv2fhir.ResourceToEncounter)
	for _, rec := range h.Registry.RecordsOf(csv2fhir.KindCondition) {
		res := rec.Resource.(*fhir.Condition)
		res.Encounter = h.backReference(rec, condEnabled)
	}
	procEnabled := h.Options.ReferenceEnabled(csv2fhir.RelationProcedureEncounter, csv2fhir.ResourceToEncounter)
	for _, rec := range h.Registry.RecordsOf(csv2fhir.KindProcedure) {
		res := rec.Resource.(*fhir.Procedure)
		res.Encounter = h.backReference(rec, procEnabled)
	}
}

func (h *Resolver) backReference(rec *registry.Record, enabled bool) *fhir.Reference {
	if !enabled {
		return nil
	}
	if rec.EncounterID != "" {
		return fhir.RefTo("Encounter", rec.EncounterID)
	}
	t := rec.Start
	for _, c := range h.Registry.EncountersOf(csv2fhir.KindCaseEncounter, rec.PatientID) {
		if t != nil && c.ContainsTime(*t) {
			return fhir.RefTo("Encounter", c.ID)
		}
	}
	return nil
}

// classOrAbsent returns the resolved class coding, or a coding carrying
// the data-absent-reason extension when no class could be determined.
func classOrAbsent(class *fhir.Coding) *fhir.Coding {
	if class != nil {
		c := *class
		return &c
	}
	return &fhir.Coding{Extension: []fhir.Extension{fhir.DataAbsentUnknown()}}
}

func (h *Resolver) warn(rec *registry.Record, msg string) {
	h.Result.Warning(rec.Kind.String(), rec.ID, msg)
	h.Log.Warn().
		Str("record", rec.ID).
		Msg(msg)
}
