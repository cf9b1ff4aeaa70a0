package mapper

import (
	"context"
	"strings"

	"github.com/gofhir/csv2fhir"
	"github.com/gofhir/csv2fhir/fhir"
	"github.com/gofhir/csv2fhir/registry"
	"github.com/gofhir/csv2fhir/service"
)

const (
	colStartDate      = "Startdatum"
	colEndDate        = "Enddatum"
	colEncounterClass = "Versorgungsfallklasse"
	colAdmissionDiag  = "Versorgungsfallgrund (Aufnahmediagnose)"
)

type caseEncounterMapper struct{}

func (caseEncounterMapper) Table() csv2fhir.Table { return csv2fhir.TableCaseEncounter }

func (caseEncounterMapper) MapRow(mc *Context, row service.Row) error {
	rawPID := row.Get(csv2fhir.PatientIDColumn)
	pid, err := mc.PatientID(row)
	if err != nil {
		return err
	}
	id := mc.Alloc.NextID(pid, csv2fhir.KindCaseEncounter)

	start, err := optionalTimestamp(row.Get(colStartDate))
	if err != nil {
		return err
	}
	end, err := optionalTimestamp(row.Get(colEndDate))
	if err != nil {
		return err
	}
	if start == nil {
		mc.Warn(csv2fhir.TableCaseEncounter, id, "encounter without start date")
	}

	enc := &fhir.Encounter{
		ResourceType: "Encounter",
		ID:           id,
		Meta:         &fhir.Meta{Profile: []string{ProfileCaseEncounter}},
		Identifier: []fhir.Identifier{{
			Type:  fhir.Concept(fhir.Coding{System: SystemIDType, Code: "VN", Display: "Visit number"}),
			Value: id,
			Assigner: &fhir.Reference{
				Identifier: &fhir.Identifier{Value: dizID(rawPID)},
			},
		}},
		Status:  "finished",
		Subject: mc.PatientRef(pid),
		Period:  periodOf(start, end),
	}

	class := encounterClass(mc, id, row.Get(colEncounterClass))

	diagnoses := admissionDiagnoses(row.Get(colAdmissionDiag))
	if len(diagnoses) == 0 {
		mc.Warn(csv2fhir.TableCaseEncounter, id, "encounter without admission diagnosis")
	}

	mc.Registry.Add(&registry.Record{
		Kind:       csv2fhir.KindCaseEncounter,
		ID:         id,
		PatientID:  pid,
		NaturalKey: id,
		Resource:   enc,
		Start:      timePtr(start),
		End:        timePtr(end),
		Class:      class,
		Diagnoses:  diagnoses,
	})
	return nil
}

// encounterClass resolves the raw class cell into a coding of the contact
// class code system. Codes not known to the terminology service are kept but
// flagged with a warning; an empty cell yields no class so that absence can
// be marked or inherited during hierarchy resolution.
func encounterClass(mc *Context, recordID, raw string) *fhir.Coding {
	if raw == "" {
		return nil
	}
	code := normalizeClassCode(raw)
	coding := &fhir.Coding{System: SystemEncounterClass, Code: code, Display: raw}
	if mc.Terminology != nil {
		res, err := mc.Terminology.ValidateCode(context.Background(), SystemEncounterClass, code)
		if err != nil || !res.Valid {
			mc.Warn(csv2fhir.TableCaseEncounter, recordID, "unknown encounter class "+raw)
		} else if res.Display != "" {
			coding.Display = res.Display
		}
	}
	return coding
}

// normalizeClassCode lowercases the raw class and folds German umlauts, so
// that "Stationär" matches the code "stationaer".
func normalizeClassCode(raw string) string {
	r := strings.NewReplacer("ä", "ae", "ö", "oe", "ü", "ue", "ß", "ss")
	return r.Replace(strings.ToLower(strings.TrimSpace(raw)))
}

// admissionDiagnoses splits the "+"-separated ICD list of the admission
// diagnosis cell into speculative diagnosis entries with role AD. The codes
// are resolved against conditions parsed later, during hierarchy
// resolution.
func admissionDiagnoses(raw string) []registry.DiagnosisEntry {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var entries []registry.DiagnosisEntry
	for _, code := range strings.Split(raw, "+") {
		code = strings.TrimSpace(code)
		if code == "" {
			continue
		}
		entries = append(entries, registry.DiagnosisEntry{
			Code:       code,
			TargetKind: csv2fhir.KindCondition,
			Use:        "AD",
		})
	}
	return entries
}
