package mapper

import (
	"fmt"
	"strings"

	"github.com/gofhir/csv2fhir"
	"github.com/gofhir/csv2fhir/fhir"
	"github.com/gofhir/csv2fhir/registry"
	"github.com/gofhir/csv2fhir/service"
)

const (
	colLabel    = "Bezeichner"
	colICD      = "ICD"
	colDocDate  = "Dokumentationsdatum"
	colDiagType = "Typ"
)

type conditionMapper struct{}

func (conditionMapper) Table() csv2fhir.Table { return csv2fhir.TableDiagnosis }

func (conditionMapper) MapRow(mc *Context, row service.Row) error {
	pid, err := mc.PatientID(row)
	if err != nil {
		return err
	}
	icd := row.Get(colICD)
	if icd == "" {
		return fmt.Errorf("column %s is empty", colICD)
	}

	docDate, err := optionalTimestamp(row.Get(colDocDate))
	if err != nil {
		return err
	}
	idContext, encounterID := mc.IDContext(pid, timePtr(docDate))
	id := mc.Alloc.NextID(idContext, csv2fhir.KindCondition)

	code := fhir.Concept(fhir.Coding{System: SystemICD10GM, Version: codingVersion, Code: icd})
	code.Text = row.Get(colLabel)

	cond := &fhir.Condition{
		ResourceType: "Condition",
		ID:           id,
		Meta:         &fhir.Meta{Profile: []string{ProfileCondition}},
		Code:         code,
		Subject:      mc.PatientRef(pid),
	}
	if docDate != nil {
		cond.RecordedDate = docDate.FHIR()
	}

	// Attach the diagnosis to the case encounter of its documentation
	// date. Whether the attachment surfaces as Encounter.diagnosis, as
	// Condition.encounter, or both is a directionality decision taken at
	// materialization time, not here.
	if enc := mc.CaseEncounterFor(pid, timePtr(docDate)); enc != nil {
		enc.Diagnoses = append(enc.Diagnoses, registry.DiagnosisEntry{
			Code:       icd,
			TargetID:   id,
			TargetKind: csv2fhir.KindCondition,
			Use:        diagnosisUse(mc, id, row.Get(colDiagType)),
		})
	} else {
		mc.Warn(csv2fhir.TableDiagnosis, id, "diagnosis without case encounter")
	}

	mc.Registry.Add(&registry.Record{
		Kind:        csv2fhir.KindCondition,
		ID:          id,
		PatientID:   pid,
		EncounterID: encounterID,
		NaturalKey:  icd,
		Resource:    cond,
		Start:       timePtr(docDate),
	})
	return nil
}

// diagnosisUse maps the German diagnosis type to a diagnosis-role code.
// Unknown types degrade to an entry without a role plus a warning.
func diagnosisUse(mc *Context, recordID, typ string) string {
	switch strings.ToLower(strings.TrimSpace(typ)) {
	case "hauptdiagnose", "hd":
		return "CC"
	case "nebendiagnose", "nd":
		return "CM"
	case "aufnahmediagnose", "ad":
		return "AD"
	case "":
		return ""
	default:
		mc.Warn(csv2fhir.TableDiagnosis, recordID, "unknown diagnosis type "+typ)
		return ""
	}
}
