// Package mapper implements the row mappers, one per input table. A mapper
// is pure over (row, registry read access, allocator): it maps one row into
// zero or more registered records and never holds registry state beyond its
// own call.
package mapper

import (
	"github.com/gofhir/csv2fhir"
	"github.com/gofhir/csv2fhir/service"
)

// Mapper maps single rows of one table into records.
type Mapper interface {
	// Table returns the input table this mapper handles.
	Table() csv2fhir.Table

	// MapRow converts one row. A returned error is fatal for this row
	// only: the engine logs it, counts it and continues with the next row.
	MapRow(mc *Context, row service.Row) error
}

// mappers is the closed dispatch table keyed by input table.
var mappers = map[csv2fhir.Table]Mapper{
	csv2fhir.TablePerson:              personMapper{},
	csv2fhir.TableCaseEncounter:       caseEncounterMapper{},
	csv2fhir.TableDepartmentEncounter: departmentEncounterMapper{},
	csv2fhir.TableDiagnosis:           conditionMapper{},
	csv2fhir.TableProcedure:           procedureMapper{},
	csv2fhir.TableLaboratory:          observationMapper{kind: csv2fhir.KindObservationLaboratory},
	csv2fhir.TableVitalSigns:          observationMapper{kind: csv2fhir.KindObservationVitalSigns},
	csv2fhir.TableMedication:          medicationMapper{},
	csv2fhir.TableDocumentReference:   documentMapper{},
}

// ForTable returns the mapper for the table.
func ForTable(t csv2fhir.Table) (Mapper, bool) {
	m, ok := mappers[t]
	return m, ok
}
