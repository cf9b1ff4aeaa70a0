package mapper

import (
	"github.com/gofhir/csv2fhir"
	"github.com/gofhir/csv2fhir/fhir"
	"github.com/gofhir/csv2fhir/registry"
	"github.com/gofhir/csv2fhir/service"
)

const colDepartment = "Fachabteilung"

type departmentEncounterMapper struct{}

func (departmentEncounterMapper) Table() csv2fhir.Table { return csv2fhir.TableDepartmentEncounter }

func (departmentEncounterMapper) MapRow(mc *Context, row service.Row) error {
	pid, err := mc.PatientID(row)
	if err != nil {
		return err
	}
	id := mc.Alloc.NextID(pid, csv2fhir.KindDepartmentEncounter)

	start, err := optionalTimestamp(row.Get(colStartDate))
	if err != nil {
		return err
	}
	end, err := optionalTimestamp(row.Get(colEndDate))
	if err != nil {
		return err
	}
	if start == nil {
		mc.Warn(csv2fhir.TableDepartmentEncounter, id, "encounter without start date")
	}

	enc := &fhir.Encounter{
		ResourceType: "Encounter",
		ID:           id,
		Meta:         &fhir.Meta{Profile: []string{ProfileDeptEncounter}},
		Status:       "finished",
		Subject:      mc.PatientRef(pid),
		Period:       periodOf(start, end),
	}

	if dept := row.Get(colDepartment); dept != "" {
		enc.ServiceType = &fhir.CodeableConcept{
			Coding: []fhir.Coding{{System: SystemDeptKey, Code: dept}},
			Text:   dept,
		}
	} else {
		enc.ServiceType = fhir.AbsentConcept()
		mc.Warn(csv2fhir.TableDepartmentEncounter, id, "encounter without department, serviceType marked absent")
	}

	// Class stays empty here. The hierarchy resolver inherits it from the
	// enclosing case encounter or marks it absent.
	mc.Registry.Add(&registry.Record{
		Kind:       csv2fhir.KindDepartmentEncounter,
		ID:         id,
		PatientID:  pid,
		NaturalKey: id,
		Resource:   enc,
		Start:      timePtr(start),
		End:        timePtr(end),
	})
	return nil
}
