package mapper

import (
	"fmt"

	"github.com/gofhir/csv2fhir"
	"github.com/gofhir/csv2fhir/fhir"
	"github.com/gofhir/csv2fhir/registry"
	"github.com/gofhir/csv2fhir/service"
)

const (
	colProcedureText = "Prozedurentext"
	colProcedureCode = "Prozedurencode"
)

// opsCategory maps the leading OPS chapter digit to its SNOMED CT
// procedure category.
var opsCategory = map[byte]string{
	'1': "103693007", // Diagnostic procedure
	'3': "363679005", // Imaging
	'5': "387713003", // Surgical procedure
	'6': "18629005",  // Administration of medicine
	'8': "277132007", // Therapeutic procedure
	'9': "394841004", // Other category
}

type procedureMapper struct{}

func (procedureMapper) Table() csv2fhir.Table { return csv2fhir.TableProcedure }

func (procedureMapper) MapRow(mc *Context, row service.Row) error {
	pid, err := mc.PatientID(row)
	if err != nil {
		return err
	}
	ops := row.Get(colProcedureCode)
	if ops == "" {
		return fmt.Errorf("column %s is empty", colProcedureCode)
	}

	docDate, err := optionalTimestamp(row.Get(colDocDate))
	if err != nil {
		return err
	}
	idContext, encounterID := mc.IDContext(pid, timePtr(docDate))
	id := mc.Alloc.NextID(idContext, csv2fhir.KindProcedure)

	code := fhir.Concept(fhir.Coding{System: SystemOPS, Version: codingVersion, Code: ops})
	code.Text = row.Get(colProcedureText)

	proc := &fhir.Procedure{
		ResourceType: "Procedure",
		ID:           id,
		Meta:         &fhir.Meta{Profile: []string{ProfileProcedure}},
		Status:       "completed",
		Category:     procedureCategory(mc, ops),
		Code:         code,
		Subject:      mc.PatientRef(pid),
	}
	if docDate != nil {
		proc.PerformedDateTime = docDate.FHIR()
	}

	// The core data set tracks procedures in the diagnosis list of their
	// case encounter, alongside the conditions.
	if enc := mc.CaseEncounterFor(pid, timePtr(docDate)); enc != nil {
		enc.Diagnoses = append(enc.Diagnoses, registry.DiagnosisEntry{
			TargetID:   id,
			TargetKind: csv2fhir.KindProcedure,
		})
	} else {
		mc.Warn(csv2fhir.TableProcedure, id, "procedure without case encounter")
	}

	mc.Registry.Add(&registry.Record{
		Kind:        csv2fhir.KindProcedure,
		ID:          id,
		PatientID:   pid,
		EncounterID: encounterID,
		NaturalKey:  ops,
		Resource:    proc,
		Start:       timePtr(docDate),
	})
	return nil
}

// procedureCategory derives the SNOMED procedure category from the leading
// OPS chapter digit. Chapters without a mapping yield no category.
func procedureCategory(mc *Context, ops string) *fhir.CodeableConcept {
	if ops == "" {
		return nil
	}
	snomed, ok := opsCategory[ops[0]]
	if !ok {
		return nil
	}
	coding := fhir.Coding{System: SystemSNOMED, Code: snomed}
	if mc.Terminology != nil {
		coding.Display = mc.Terminology.Display(SystemSNOMED, snomed)
	}
	return fhir.Concept(coding)
}
