package csv2fhir

import "testing"

func TestKindIDLetters(t *testing.T) {
	tests := []struct {
		kind   Kind
		letter string
		rtype  string
	}{
		{KindPatient, "", "Patient"},
		{KindCaseEncounter, "E", "Encounter"},
		{KindDepartmentEncounter, "A", "Encounter"},
		{KindCondition, "C", "Condition"},
		{KindProcedure, "P", "Procedure"},
		{KindObservationLaboratory, "OL", "Observation"},
		{KindObservationVitalSigns, "OV", "Observation"},
		{KindMedicationStatement, "MS", "MedicationStatement"},
		{KindMedicationAdministration, "MA", "MedicationAdministration"},
		{KindDocumentReference, "D", "DocumentReference"},
	}
	for _, tt := range tests {
		if got := tt.kind.IDLetter(); got != tt.letter {
			t.Errorf("%s.IDLetter() = %q, want %q", tt.kind, got, tt.letter)
		}
		if got := tt.kind.ResourceType(); got != tt.rtype {
			t.Errorf("%s.ResourceType() = %q, want %q", tt.kind, got, tt.rtype)
		}
	}
}

func TestKindIsEncounter(t *testing.T) {
	for _, k := range Kinds() {
		want := k == KindCaseEncounter || k == KindDepartmentEncounter
		if got := k.IsEncounter(); got != want {
			t.Errorf("%s.IsEncounter() = %v, want %v", k, got, want)
		}
	}
}

func TestTableProcessingOrder(t *testing.T) {
	tables := Tables()
	if len(tables) != 9 {
		t.Fatalf("tables = %d, want 9", len(tables))
	}
	// Patients and encounters must precede the clinical tables.
	if tables[0] != TablePerson || tables[1] != TableCaseEncounter || tables[2] != TableDepartmentEncounter {
		t.Errorf("leading tables = %v %v %v", tables[0], tables[1], tables[2])
	}
	for _, table := range tables {
		if table.FileName() == "" {
			t.Errorf("table %s has no file name", table)
		}
		cols := table.RequiredColumns()
		if len(cols) == 0 || cols[0] != PatientIDColumn {
			t.Errorf("table %s required columns = %v", table, cols)
		}
	}
}

func TestWorstFinding(t *testing.T) {
	if got := Worst(nil); got != FindingValid {
		t.Errorf("Worst(nil) = %v", got)
	}
	findings := []Finding{
		{Class: FindingIgnorable},
		{Class: FindingError},
		{Class: FindingWarning},
	}
	if got := Worst(findings); got != FindingError {
		t.Errorf("Worst = %v, want error", got)
	}
}
