package csv2fhir

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultOptions(t *testing.T) {
	o := DefaultOptions()

	// Only the encounter-to-X directions are on by default; the reverse
	// directions would allow reference cycles.
	if !o.ReferenceEnabled(RelationDiagnosisEncounter, EncounterToResource) {
		t.Error("encounter->diagnosis should default to enabled")
	}
	if !o.ReferenceEnabled(RelationProcedureEncounter, EncounterToResource) {
		t.Error("encounter->procedure should default to enabled")
	}
	if o.ReferenceEnabled(RelationDiagnosisEncounter, ResourceToEncounter) {
		t.Error("diagnosis->encounter should default to disabled")
	}
	if o.ReferenceEnabled(RelationProcedureEncounter, ResourceToEncounter) {
		t.Error("procedure->encounter should default to disabled")
	}

	if got := o.StartOffset(KindProcedure); got != 1 {
		t.Errorf("StartOffset(Procedure) = %d; want 1", got)
	}
}

func TestLoadOptions_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.config")
	content := `
SET_REFERENCE_FROM_DIAGNOSIS_CONDITION_TO_ENCOUNTER = ja
SET_REFERENCE_FROM_ENCOUNTER_TO_DIAGNOSIS_CONDITION = nein
ADD_MISSING_DIAGNOSES_FROM_SUPER_ENCOUNTER = wahr
START_ID_PROCEDURE = 100
PID_LAST_NUMBER_INCREASE_INITIAL_OFFSET = 5
PID_PREFIX = UKL-
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	o, err := LoadOptions(path)
	if err != nil {
		t.Fatalf("LoadOptions: %v", err)
	}

	if !o.ReferenceEnabled(RelationDiagnosisEncounter, ResourceToEncounter) {
		t.Error("diagnosis->encounter should be enabled ('ja')")
	}
	if o.ReferenceEnabled(RelationDiagnosisEncounter, EncounterToResource) {
		t.Error("encounter->diagnosis should be disabled ('nein')")
	}
	if !o.AddMissingDiagnosesFromSuper {
		t.Error("ADD_MISSING_DIAGNOSES_FROM_SUPER_ENCOUNTER should be true ('wahr')")
	}
	if got := o.StartOffset(KindProcedure); got != 100 {
		t.Errorf("StartOffset(Procedure) = %d; want 100", got)
	}
	if got := o.StartOffset(KindCondition); got != 1 {
		t.Errorf("StartOffset(Condition) = %d; want default 1", got)
	}
	if o.PIDLastNumberIncrease != 5 {
		t.Errorf("PIDLastNumberIncrease = %d; want 5", o.PIDLastNumberIncrease)
	}
	if o.PIDPrefix != "UKL-" {
		t.Errorf("PIDPrefix = %q; want UKL-", o.PIDPrefix)
	}
}

func TestLoadOptions_ExtensionFallback(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "project")
	if err := os.WriteFile(path+OptionsFileExtension, []byte("START_ID_DIAGNOSIS = 7\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	o, err := LoadOptions(path)
	if err != nil {
		t.Fatalf("LoadOptions: %v", err)
	}
	if got := o.StartOffset(KindCondition); got != 7 {
		t.Errorf("StartOffset(Condition) = %d; want 7", got)
	}
}

func TestLoadOptions_EmptyPathUsesDefaults(t *testing.T) {
	o, err := LoadOptions("")
	if err != nil {
		t.Fatalf("LoadOptions(\"\"): %v", err)
	}
	if !o.EncounterToDiagnosis || o.DiagnosisToEncounter {
		t.Error("embedded defaults should match compiled-in defaults")
	}
}

func TestLoadOptions_MissingFile(t *testing.T) {
	if _, err := LoadOptions(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("expected error for missing options file")
	}
}
