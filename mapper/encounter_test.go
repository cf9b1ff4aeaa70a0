package mapper

import (
	"testing"

	"github.com/gofhir/csv2fhir"
	"github.com/gofhir/csv2fhir/fhir"
)

func TestCaseEncounterMapRow(t *testing.T) {
	mc := newTestContext(t)
	err := caseEncounterMapper{}.MapRow(mc, testRow(map[string]string{
		"Patient-ID":            "P1",
		"Startdatum":            "01.01.2021",
		"Enddatum":              "04.01.2021",
		"Versorgungsfallklasse": "Stationär",
		"Versorgungsfallgrund (Aufnahmediagnose)": "F29 + F17.0",
	}))
	if err != nil {
		t.Fatalf("MapRow: %v", err)
	}

	encs := mc.Registry.EncountersOf(csv2fhir.KindCaseEncounter, "P1")
	if len(encs) != 1 {
		t.Fatalf("case encounters = %d", len(encs))
	}
	rec := encs[0]
	if rec.ID != "P1-E-1" {
		t.Errorf("id = %q, want P1-E-1", rec.ID)
	}
	if rec.Class == nil || rec.Class.Code != "stationaer" {
		t.Errorf("class = %+v", rec.Class)
	}
	if rec.Class.Display != "Stationär" {
		t.Errorf("class display = %q", rec.Class.Display)
	}
	if len(rec.Diagnoses) != 2 {
		t.Fatalf("admission diagnoses = %d", len(rec.Diagnoses))
	}
	for i, code := range []string{"F29", "F17.0"} {
		d := rec.Diagnoses[i]
		if d.Code != code || d.Use != "AD" || d.TargetKind != csv2fhir.KindCondition {
			t.Errorf("diagnosis[%d] = %+v", i, d)
		}
	}

	enc := rec.Resource.(*fhir.Encounter)
	if enc.Period == nil || enc.Period.Start != "2021-01-01" || enc.Period.End != "2021-01-04" {
		t.Errorf("period = %+v", enc.Period)
	}
	if len(enc.Identifier) != 1 || enc.Identifier[0].Value != "P1-E-1" {
		t.Errorf("identifier = %+v", enc.Identifier)
	}
}

func TestCaseEncounterUnknownClassWarns(t *testing.T) {
	mc := newTestContext(t)
	err := caseEncounterMapper{}.MapRow(mc, testRow(map[string]string{
		"Patient-ID":            "P1",
		"Startdatum":            "01.01.2021",
		"Versorgungsfallklasse": "intergalaktisch",
		"Versorgungsfallgrund (Aufnahmediagnose)": "F29",
	}))
	if err != nil {
		t.Fatalf("MapRow: %v", err)
	}
	rec := mc.Registry.EncountersOf(csv2fhir.KindCaseEncounter, "P1")[0]
	if rec.Class == nil || rec.Class.Code != "intergalaktisch" {
		t.Errorf("class = %+v", rec.Class)
	}
	if mc.Result.Counts.Warnings == 0 {
		t.Error("expected warning for unknown class")
	}
}

func TestCaseEncounterEmptyAdmissionDiagnosisWarns(t *testing.T) {
	mc := newTestContext(t)
	err := caseEncounterMapper{}.MapRow(mc, testRow(map[string]string{
		"Patient-ID":            "P1",
		"Startdatum":            "01.01.2021",
		"Versorgungsfallklasse": "ambulant",
	}))
	if err != nil {
		t.Fatalf("MapRow: %v", err)
	}
	rec := mc.Registry.EncountersOf(csv2fhir.KindCaseEncounter, "P1")[0]
	if len(rec.Diagnoses) != 0 {
		t.Errorf("diagnoses = %+v", rec.Diagnoses)
	}
	if mc.Result.Counts.Warnings == 0 {
		t.Error("expected warning for missing admission diagnosis")
	}
}

func TestDepartmentEncounterMapRow(t *testing.T) {
	mc := newTestContext(t)
	err := departmentEncounterMapper{}.MapRow(mc, testRow(map[string]string{
		"Patient-ID":    "P1",
		"Startdatum":    "01.01.2021 10:00",
		"Enddatum":      "02.01.2021 09:00",
		"Fachabteilung": "0100",
	}))
	if err != nil {
		t.Fatalf("MapRow: %v", err)
	}
	encs := mc.Registry.EncountersOf(csv2fhir.KindDepartmentEncounter, "P1")
	if len(encs) != 1 {
		t.Fatalf("department encounters = %d", len(encs))
	}
	rec := encs[0]
	if rec.ID != "P1-A-1" {
		t.Errorf("id = %q, want P1-A-1", rec.ID)
	}
	if rec.Class != nil {
		t.Errorf("class = %+v, want nil before resolution", rec.Class)
	}
	enc := rec.Resource.(*fhir.Encounter)
	if enc.ServiceType == nil || enc.ServiceType.Coding[0].Code != "0100" {
		t.Errorf("serviceType = %+v", enc.ServiceType)
	}
}

func TestDepartmentEncounterWithoutDepartment(t *testing.T) {
	mc := newTestContext(t)
	err := departmentEncounterMapper{}.MapRow(mc, testRow(map[string]string{
		"Patient-ID": "P1",
		"Startdatum": "01.01.2021",
		"Enddatum":   "02.01.2021",
	}))
	if err != nil {
		t.Fatalf("MapRow: %v", err)
	}
	encs := mc.Registry.EncountersOf(csv2fhir.KindDepartmentEncounter, "P1")
	if len(encs) != 1 {
		t.Fatalf("department encounters = %d", len(encs))
	}
	st := encs[0].Resource.(*fhir.Encounter).ServiceType
	if st == nil || len(st.Extension) == 0 || st.Extension[0].URL != fhir.DataAbsentReasonURL {
		t.Errorf("serviceType = %+v, want absence marker", st)
	}
	if mc.Result.Counts.Warnings != 1 {
		t.Errorf("warnings = %d, want 1", mc.Result.Counts.Warnings)
	}
}

func TestNormalizeClassCode(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Stationär", "stationaer"},
		{"ambulant", "ambulant"},
		{"TEILSTATIONÄR", "teilstationaer"},
		{" vorstationär ", "vorstationaer"},
	}
	for _, tt := range tests {
		if got := normalizeClassCode(tt.in); got != tt.want {
			t.Errorf("normalizeClassCode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
