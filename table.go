package csv2fhir

// Table identifies one input table of the clinical export format.
type Table int

// Input tables. The declaration order is the fixed processing order of one
// bundle conversion: patients before encounters, encounters before the
// clinical tables that attach to them, diagnoses before procedures so that
// procedure rows can cross-reference conditions already in the registry.
const (
	TablePerson Table = iota
	TableCaseEncounter
	TableDepartmentEncounter
	TableDiagnosis
	TableProcedure
	TableLaboratory
	TableVitalSigns
	TableMedication
	TableDocumentReference
)

// PatientIDColumn is the patient id column shared by all tables.
const PatientIDColumn = "Patient-ID"

type tableSpec struct {
	name     string
	fileName string
	columns  []string
}

// File names and required columns follow the German clinical export format.
// A table whose file lacks one of the required columns is not convertible
// at all and is skipped as a whole.
var tableSpecs = [...]tableSpec{
	TablePerson: {
		name:     "Person",
		fileName: "Person.csv",
		columns:  []string{PatientIDColumn, "Vorname", "Nachname", "Anschrift", "Geburtsdatum", "Geschlecht", "Krankenkasse"},
	},
	TableCaseEncounter: {
		name:     "Versorgungsfall",
		fileName: "Versorgungsfall.csv",
		columns:  []string{PatientIDColumn, "Startdatum", "Enddatum", "Versorgungsfallklasse", "Versorgungsfallgrund (Aufnahmediagnose)"},
	},
	TableDepartmentEncounter: {
		name:     "Abteilungsfall",
		fileName: "Abteilungsfall.csv",
		columns:  []string{PatientIDColumn, "Startdatum", "Enddatum", "Fachabteilung"},
	},
	TableDiagnosis: {
		name:     "Diagnose",
		fileName: "Diagnose.csv",
		columns:  []string{PatientIDColumn, "Bezeichner", "ICD", "Dokumentationsdatum", "Typ"},
	},
	TableProcedure: {
		name:     "Prozedur",
		fileName: "Prozedur.csv",
		columns:  []string{PatientIDColumn, "Prozedurentext", "Prozedurencode", "Dokumentationsdatum"},
	},
	TableLaboratory: {
		name:     "Laborbefund",
		fileName: "Laborbefund.csv",
		columns:  []string{PatientIDColumn, "Bezeichner", "LOINC", "Wert", "Einheit", "Zeitstempel"},
	},
	TableVitalSigns: {
		name:     "KlinischeDokumentation",
		fileName: "Klinische Dokumentation.csv",
		columns:  []string{PatientIDColumn, "Bezeichner", "LOINC", "Wert", "Einheit", "Zeitstempel"},
	},
	TableMedication: {
		name:     "Medikation",
		fileName: "Medikation.csv",
		columns:  []string{PatientIDColumn, "Medikationstyp", "ATC", "Wirksubstanz", "Anzahl Dosen pro Tag", "Therapiestartdatum", "Therapieendedatum"},
	},
	TableDocumentReference: {
		name:     "DocumentReference",
		fileName: "DocumentReference.csv",
		columns:  []string{PatientIDColumn, "URI"},
	},
}

// String returns the table name.
func (t Table) String() string {
	if t < 0 || int(t) >= len(tableSpecs) {
		return "Unknown"
	}
	return tableSpecs[t].name
}

// FileName returns the CSV file name of this table.
func (t Table) FileName() string {
	if t < 0 || int(t) >= len(tableSpecs) {
		return ""
	}
	return tableSpecs[t].fileName
}

// RequiredColumns returns the columns that must be present in the table
// header for the table to be convertible.
func (t Table) RequiredColumns() []string {
	if t < 0 || int(t) >= len(tableSpecs) {
		return nil
	}
	cols := make([]string, len(tableSpecs[t].columns))
	copy(cols, tableSpecs[t].columns)
	return cols
}

// Tables returns all input tables in the fixed processing order.
func Tables() []Table {
	ts := make([]Table, len(tableSpecs))
	for i := range ts {
		ts[i] = Table(i)
	}
	return ts
}
