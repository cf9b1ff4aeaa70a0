package mapper

import (
	"encoding/base64"
	"errors"
	"testing"

	"github.com/gofhir/csv2fhir"
	"github.com/gofhir/csv2fhir/fhir"
)

// seedEncounters registers one case encounter (whole stay) and one
// department encounter (first two days) for P1.
func seedEncounters(t *testing.T, mc *Context) {
	t.Helper()
	err := caseEncounterMapper{}.MapRow(mc, testRow(map[string]string{
		"Patient-ID":            "P1",
		"Startdatum":            "01.01.2021",
		"Enddatum":              "10.01.2021",
		"Versorgungsfallklasse": "stationaer",
		"Versorgungsfallgrund (Aufnahmediagnose)": "F29",
	}))
	if err != nil {
		t.Fatalf("case encounter: %v", err)
	}
	err = departmentEncounterMapper{}.MapRow(mc, testRow(map[string]string{
		"Patient-ID":    "P1",
		"Startdatum":    "01.01.2021",
		"Enddatum":      "02.01.2021",
		"Fachabteilung": "0100",
	}))
	if err != nil {
		t.Fatalf("department encounter: %v", err)
	}
}

func TestConditionMapRow(t *testing.T) {
	mc := newTestContext(t)
	seedEncounters(t, mc)

	err := conditionMapper{}.MapRow(mc, testRow(map[string]string{
		"Patient-ID":          "P1",
		"Bezeichner":          "Paranoide Schizophrenie",
		"ICD":                 "F29",
		"Dokumentationsdatum": "01.01.2021",
		"Typ":                 "Hauptdiagnose",
	}))
	if err != nil {
		t.Fatalf("MapRow: %v", err)
	}

	rec, ok := mc.Registry.Lookup(csv2fhir.KindCondition, "F29")
	if !ok {
		t.Fatal("condition not indexed by ICD code")
	}
	// The documentation date falls into the department encounter, so the
	// id is scoped to it.
	if rec.ID != "P1-A-1-C-1" {
		t.Errorf("id = %q, want P1-A-1-C-1", rec.ID)
	}
	if rec.EncounterID != "P1-A-1" {
		t.Errorf("encounterID = %q", rec.EncounterID)
	}

	cond := rec.Resource.(*fhir.Condition)
	if cond.Code.Coding[0].System != SystemICD10GM || cond.Code.Coding[0].Code != "F29" {
		t.Errorf("code = %+v", cond.Code.Coding[0])
	}
	if cond.Code.Text != "Paranoide Schizophrenie" {
		t.Errorf("code text = %q", cond.Code.Text)
	}
	if cond.RecordedDate != "2021-01-01" {
		t.Errorf("recordedDate = %q", cond.RecordedDate)
	}

	caseEnc := mc.Registry.EncountersOf(csv2fhir.KindCaseEncounter, "P1")[0]
	// Admission diagnosis entry plus the documented diagnosis entry.
	if len(caseEnc.Diagnoses) != 2 {
		t.Fatalf("case encounter diagnoses = %d", len(caseEnc.Diagnoses))
	}
	last := caseEnc.Diagnoses[1]
	if last.TargetID != "P1-A-1-C-1" || last.Use != "CC" {
		t.Errorf("attached diagnosis = %+v", last)
	}
}

func TestConditionOutsideDepartmentEncounterUsesPatientContext(t *testing.T) {
	mc := newTestContext(t)
	seedEncounters(t, mc)

	err := conditionMapper{}.MapRow(mc, testRow(map[string]string{
		"Patient-ID":          "P1",
		"ICD":                 "J44.0",
		"Dokumentationsdatum": "08.01.2021",
	}))
	if err != nil {
		t.Fatalf("MapRow: %v", err)
	}
	rec, _ := mc.Registry.Lookup(csv2fhir.KindCondition, "J44.0")
	if rec.ID != "P1-C-1" {
		t.Errorf("id = %q, want P1-C-1", rec.ID)
	}
	if rec.EncounterID != "" {
		t.Errorf("encounterID = %q, want empty", rec.EncounterID)
	}
}

func TestConditionMissingICDIsRowError(t *testing.T) {
	mc := newTestContext(t)
	err := conditionMapper{}.MapRow(mc, testRow(map[string]string{
		"Patient-ID": "P1",
	}))
	if err == nil {
		t.Fatal("expected row error for missing ICD")
	}
}

func TestProcedureMapRow(t *testing.T) {
	mc := newTestContext(t)
	seedEncounters(t, mc)

	err := procedureMapper{}.MapRow(mc, testRow(map[string]string{
		"Patient-ID":          "P1",
		"Prozedurentext":      "Koronarangiographie",
		"Prozedurencode":      "1-275.0",
		"Dokumentationsdatum": "01.01.2021",
	}))
	if err != nil {
		t.Fatalf("MapRow: %v", err)
	}

	rec, ok := mc.Registry.Lookup(csv2fhir.KindProcedure, "1-275.0")
	if !ok {
		t.Fatal("procedure not indexed by OPS code")
	}
	if rec.ID != "P1-A-1-P-1" {
		t.Errorf("id = %q, want P1-A-1-P-1", rec.ID)
	}

	proc := rec.Resource.(*fhir.Procedure)
	if proc.Category == nil || proc.Category.Coding[0].Code != "103693007" {
		t.Errorf("category = %+v", proc.Category)
	}
	if proc.Category.Coding[0].Display != "Diagnostic procedure" {
		t.Errorf("category display = %q", proc.Category.Coding[0].Display)
	}

	// KDS rule: the procedure joins the case encounter's diagnosis list.
	caseEnc := mc.Registry.EncountersOf(csv2fhir.KindCaseEncounter, "P1")[0]
	found := false
	for _, d := range caseEnc.Diagnoses {
		if d.TargetKind == csv2fhir.KindProcedure && d.TargetID == rec.ID {
			found = true
		}
	}
	if !found {
		t.Error("procedure not attached to case encounter diagnosis list")
	}
}

func TestProcedureCategoryUnknownChapter(t *testing.T) {
	mc := newTestContext(t)
	if c := procedureCategory(mc, "7-123"); c != nil {
		t.Errorf("category for chapter 7 = %+v, want nil", c)
	}
}

func TestObservationMapRowDecimalComma(t *testing.T) {
	mc := newTestContext(t)
	seedEncounters(t, mc)

	err := observationMapper{kind: csv2fhir.KindObservationLaboratory}.MapRow(mc, testRow(map[string]string{
		"Patient-ID":  "P1",
		"Bezeichner":  "Kreatinin",
		"LOINC":       "2160-0",
		"Wert":        "1,08",
		"Einheit":     "mg/dL",
		"Zeitstempel": "01.01.2021 06:30",
	}))
	if err != nil {
		t.Fatalf("MapRow: %v", err)
	}

	rec, _ := mc.Registry.Lookup(csv2fhir.KindObservationLaboratory, "2160-0")
	if rec.ID != "P1-A-1-OL-1" {
		t.Errorf("id = %q, want P1-A-1-OL-1", rec.ID)
	}
	obs := rec.Resource.(*fhir.Observation)
	if obs.ValueQuantity == nil || obs.ValueQuantity.Value != "1.08" {
		t.Errorf("valueQuantity = %+v", obs.ValueQuantity)
	}
	if obs.ValueQuantity.Unit != "mg/dL" || obs.ValueQuantity.System != SystemUCUM {
		t.Errorf("unit = %+v", obs.ValueQuantity)
	}
	if obs.EffectiveDateTime != "2021-01-01T06:30:00Z" {
		t.Errorf("effective = %q", obs.EffectiveDateTime)
	}
	if len(obs.Category) != 1 || obs.Category[0].Coding[0].Code != "laboratory" {
		t.Errorf("category = %+v", obs.Category)
	}
}

func TestObservationNonNumericValueStaysTextual(t *testing.T) {
	mc := newTestContext(t)
	err := observationMapper{kind: csv2fhir.KindObservationVitalSigns}.MapRow(mc, testRow(map[string]string{
		"Patient-ID":  "P1",
		"LOINC":       "8302-2",
		"Wert":        "negativ",
		"Zeitstempel": "01.01.2021",
	}))
	if err != nil {
		t.Fatalf("MapRow: %v", err)
	}
	rec, _ := mc.Registry.Lookup(csv2fhir.KindObservationVitalSigns, "8302-2")
	obs := rec.Resource.(*fhir.Observation)
	if obs.ValueQuantity != nil {
		t.Errorf("valueQuantity = %+v, want nil", obs.ValueQuantity)
	}
	if obs.ValueString != "negativ" {
		t.Errorf("valueString = %q", obs.ValueString)
	}
	if obs.Category[0].Coding[0].Code != "vital-signs" {
		t.Errorf("category = %+v", obs.Category)
	}
}

func TestMedicationMapRowStatementAndAdministration(t *testing.T) {
	mc := newTestContext(t)
	seedEncounters(t, mc)

	err := medicationMapper{}.MapRow(mc, testRow(map[string]string{
		"Patient-ID":           "P1",
		"Medikationstyp":       "Vorbestehende Medikation",
		"ATC":                  "C07AB07",
		"Wirksubstanz":         "Bisoprolol",
		"Anzahl Dosen pro Tag": "2",
		"Therapiestartdatum":   "01.01.2021",
		"Therapieendedatum":    "05.01.2021",
	}))
	if err != nil {
		t.Fatalf("statement row: %v", err)
	}
	err = medicationMapper{}.MapRow(mc, testRow(map[string]string{
		"Patient-ID":         "P1",
		"Medikationstyp":     "Gabe",
		"ATC":                "N02BE01",
		"Wirksubstanz":       "Paracetamol",
		"Therapiestartdatum": "01.01.2021 08:00",
	}))
	if err != nil {
		t.Fatalf("administration row: %v", err)
	}

	stmtRec, ok := mc.Registry.Lookup(csv2fhir.KindMedicationStatement, "C07AB07")
	if !ok {
		t.Fatal("medication statement not registered")
	}
	stmt := stmtRec.Resource.(*fhir.MedicationStatement)
	if stmtRec.ID != "P1-A-1-MS-1" {
		t.Errorf("statement id = %q", stmtRec.ID)
	}
	if stmt.MedicationCodeableConcept.Text != "Bisoprolol" {
		t.Errorf("substance = %q", stmt.MedicationCodeableConcept.Text)
	}
	if len(stmt.Dosage) != 1 || stmt.Dosage[0].Text != "2 pro Tag" {
		t.Errorf("dosage = %+v", stmt.Dosage)
	}

	admRec, ok := mc.Registry.Lookup(csv2fhir.KindMedicationAdministration, "N02BE01")
	if !ok {
		t.Fatal("medication administration not registered")
	}
	if admRec.ID != "P1-A-1-MA-1" {
		t.Errorf("administration id = %q", admRec.ID)
	}
	adm := admRec.Resource.(*fhir.MedicationAdministration)
	if adm.Status != "completed" {
		t.Errorf("status = %q", adm.Status)
	}
	if adm.Context == nil || adm.Context.Reference != "Encounter/P1-A-1" {
		t.Errorf("context = %+v", adm.Context)
	}
}

func TestMedicationUnknownTypeIsRowError(t *testing.T) {
	mc := newTestContext(t)
	err := medicationMapper{}.MapRow(mc, testRow(map[string]string{
		"Patient-ID":     "P1",
		"Medikationstyp": "Zauberei",
		"ATC":            "A01",
	}))
	if err == nil {
		t.Fatal("expected row error for unknown medication type")
	}
}

func TestDocumentMapRow(t *testing.T) {
	mc := newTestContext(t)
	seedEncounters(t, mc)

	err := documentMapper{}.MapRow(mc, testRow(map[string]string{
		"Patient-ID": "P1",
		"URI":        "reports/arztbrief.pdf",
	}))
	if err != nil {
		t.Fatalf("MapRow: %v", err)
	}

	rec, ok := mc.Registry.Lookup(csv2fhir.KindDocumentReference, "reports/arztbrief.pdf")
	if !ok {
		t.Fatal("document not registered")
	}
	if rec.ID != "P1-D-1" {
		t.Errorf("id = %q, want P1-D-1", rec.ID)
	}
	doc := rec.Resource.(*fhir.DocumentReference)
	att := doc.Content[0].Attachment
	if att.ContentType != "application/pdf" {
		t.Errorf("contentType = %q", att.ContentType)
	}
	if att.Title != "arztbrief.pdf" {
		t.Errorf("title = %q", att.Title)
	}
	if doc.Context == nil || len(doc.Context.Encounter) != 1 || doc.Context.Encounter[0].Reference != "Encounter/P1-E-1" {
		t.Errorf("context = %+v", doc.Context)
	}
	// Without a document reader the attachment carries the URL only.
	if att.Data != "" || att.Size != 0 {
		t.Errorf("data = %q, size = %d", att.Data, att.Size)
	}
}

// memDocuments resolves document URIs from memory.
type memDocuments map[string][]byte

func (m memDocuments) ReadDocument(uri string) ([]byte, error) {
	data, ok := m[uri]
	if !ok {
		return nil, errors.New("no such document")
	}
	return data, nil
}

func TestDocumentMapRowEmbedsContent(t *testing.T) {
	mc := newTestContext(t)
	content := []byte("%PDF-1.4 arztbrief")
	mc.Documents = memDocuments{"reports/arztbrief.pdf": content}

	err := documentMapper{}.MapRow(mc, testRow(map[string]string{
		"Patient-ID": "P1",
		"URI":        "reports/arztbrief.pdf",
	}))
	if err != nil {
		t.Fatalf("MapRow: %v", err)
	}

	rec, _ := mc.Registry.Lookup(csv2fhir.KindDocumentReference, "reports/arztbrief.pdf")
	att := rec.Resource.(*fhir.DocumentReference).Content[0].Attachment
	if att.Data != base64.StdEncoding.EncodeToString(content) {
		t.Errorf("data = %q", att.Data)
	}
	if att.Size != len(content) {
		t.Errorf("size = %d, want %d", att.Size, len(content))
	}
	if att.URL != "reports/arztbrief.pdf" {
		t.Errorf("url = %q", att.URL)
	}
}

func TestDocumentMapRowUnreadableKeepsURL(t *testing.T) {
	mc := newTestContext(t)
	mc.Documents = memDocuments{}

	err := documentMapper{}.MapRow(mc, testRow(map[string]string{
		"Patient-ID": "P1",
		"URI":        "reports/fehlt.pdf",
	}))
	if err != nil {
		t.Fatalf("MapRow: %v", err)
	}

	rec, _ := mc.Registry.Lookup(csv2fhir.KindDocumentReference, "reports/fehlt.pdf")
	att := rec.Resource.(*fhir.DocumentReference).Content[0].Attachment
	if att.Data != "" || att.Size != 0 {
		t.Errorf("data = %q, size = %d", att.Data, att.Size)
	}
	if att.URL != "reports/fehlt.pdf" {
		t.Errorf("url = %q", att.URL)
	}
	if mc.Result.Counts.Warnings != 1 {
		t.Errorf("warnings = %d, want 1", mc.Result.Counts.Warnings)
	}
}

func TestForTableCoversAllTables(t *testing.T) {
	for _, table := range csv2fhir.Tables() {
		m, ok := ForTable(table)
		if !ok {
			t.Errorf("no mapper for table %s", table)
			continue
		}
		if m.Table() != table {
			t.Errorf("mapper for %s reports table %s", table, m.Table())
		}
	}
}
