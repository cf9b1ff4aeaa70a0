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
	colMedicationType = "Medikationstyp"
	colATC            = "ATC"
	colSubstance      = "Wirksubstanz"
	colDosesPerDay    = "Anzahl Dosen pro Tag"
	colTherapyStart   = "Therapiestartdatum"
	colTherapyEnd     = "Therapieendedatum"
)

// medicationMapper emits a MedicationStatement or a
// MedicationAdministration depending on the row's medication type.
type medicationMapper struct{}

func (medicationMapper) Table() csv2fhir.Table { return csv2fhir.TableMedication }

func (medicationMapper) MapRow(mc *Context, row service.Row) error {
	pid, err := mc.PatientID(row)
	if err != nil {
		return err
	}
	atc := row.Get(colATC)
	if atc == "" {
		return fmt.Errorf("column %s is empty", colATC)
	}

	kind, err := medicationKind(row.Get(colMedicationType))
	if err != nil {
		return err
	}

	start, err := optionalTimestamp(row.Get(colTherapyStart))
	if err != nil {
		return err
	}
	end, err := optionalTimestamp(row.Get(colTherapyEnd))
	if err != nil {
		return err
	}

	idContext, encounterID := mc.IDContext(pid, timePtr(start))
	id := mc.Alloc.NextID(idContext, kind)

	medication := fhir.Concept(fhir.Coding{System: SystemATC, Code: atc})
	medication.Text = row.Get(colSubstance)

	var encRef *fhir.Reference
	if encounterID != "" {
		encRef = fhir.RefTo("Encounter", encounterID)
	}

	dosage := dosageText(row.Get(colDosesPerDay))

	var res fhir.Resource
	if kind == csv2fhir.KindMedicationAdministration {
		adm := &fhir.MedicationAdministration{
			ResourceType:              "MedicationAdministration",
			ID:                        id,
			Meta:                      &fhir.Meta{Profile: []string{ProfileMedAdmin}},
			Status:                    "completed",
			MedicationCodeableConcept: medication,
			Subject:                   mc.PatientRef(pid),
			Context:                   encRef,
			EffectivePeriod:           periodOf(start, end),
		}
		if dosage != "" {
			adm.Dosage = &fhir.MedicationAdministrationDosage{Text: dosage}
		}
		res = adm
	} else {
		stmt := &fhir.MedicationStatement{
			ResourceType:              "MedicationStatement",
			ID:                        id,
			Meta:                      &fhir.Meta{Profile: []string{ProfileMedStatement}},
			Status:                    "completed",
			MedicationCodeableConcept: medication,
			Subject:                   mc.PatientRef(pid),
			Context:                   encRef,
			EffectivePeriod:           periodOf(start, end),
		}
		if dosage != "" {
			stmt.Dosage = []fhir.Dosage{{Text: dosage}}
		}
		res = stmt
	}

	mc.Registry.Add(&registry.Record{
		Kind:        kind,
		ID:          id,
		PatientID:   pid,
		EncounterID: encounterID,
		NaturalKey:  atc,
		Resource:    res,
		Start:       timePtr(start),
		End:         timePtr(end),
	})
	return nil
}

// medicationKind maps the medication type cell to the emitted resource
// kind. An unknown type is a row-fatal error.
func medicationKind(typ string) (csv2fhir.Kind, error) {
	switch strings.ToLower(strings.TrimSpace(typ)) {
	case "", "vorbestehende medikation", "medikation", "statement":
		return csv2fhir.KindMedicationStatement, nil
	case "gabe", "verabreichung", "administration":
		return csv2fhir.KindMedicationAdministration, nil
	default:
		return 0, fmt.Errorf("unknown medication type %q", typ)
	}
}

func dosageText(dosesPerDay string) string {
	if dosesPerDay == "" {
		return ""
	}
	return dosesPerDay + " pro Tag"
}
