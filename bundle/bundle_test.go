package bundle

import (
	"testing"

	"github.com/gofhir/csv2fhir"
	"github.com/gofhir/csv2fhir/fhir"
	"github.com/gofhir/csv2fhir/registry"
)

func rec(kind csv2fhir.Kind, id string) *registry.Record {
	var res fhir.Resource
	switch kind {
	case csv2fhir.KindPatient:
		res = &fhir.Patient{ResourceType: "Patient", ID: id}
	case csv2fhir.KindCaseEncounter, csv2fhir.KindDepartmentEncounter:
		res = &fhir.Encounter{ResourceType: "Encounter", ID: id}
	case csv2fhir.KindCondition:
		res = &fhir.Condition{ResourceType: "Condition", ID: id}
	default:
		res = &fhir.Observation{ResourceType: "Observation", ID: id}
	}
	return &registry.Record{Kind: kind, ID: id, NaturalKey: id, Resource: res}
}

func TestAssembleOrderAndRequests(t *testing.T) {
	reg := registry.New()
	// Insertion order deliberately interleaves the kinds.
	reg.Add(rec(csv2fhir.KindCondition, "P1-C-1"))
	reg.Add(rec(csv2fhir.KindPatient, "P1"))
	reg.Add(rec(csv2fhir.KindDepartmentEncounter, "P1-A-1"))
	reg.Add(rec(csv2fhir.KindCaseEncounter, "P1-E-1"))
	reg.Add(rec(csv2fhir.KindObservationLaboratory, "P1-OL-1"))

	b := Assemble(reg, "P1")

	if b.Type != fhir.BundleTypeTransaction {
		t.Errorf("type = %q", b.Type)
	}
	wantOrder := []string{"P1", "P1-E-1", "P1-A-1", "P1-C-1", "P1-OL-1"}
	if len(b.Entry) != len(wantOrder) {
		t.Fatalf("entries = %d, want %d", len(b.Entry), len(wantOrder))
	}
	for i, want := range wantOrder {
		if got := b.Entry[i].Resource.ResourceID(); got != want {
			t.Errorf("entry[%d] = %q, want %q", i, got, want)
		}
	}

	first := b.Entry[0]
	if first.Request == nil || first.Request.Method != fhir.HTTPVerbPUT {
		t.Errorf("request = %+v", first.Request)
	}
	if first.Request.URL != "Patient/P1" {
		t.Errorf("request url = %q", first.Request.URL)
	}
}

func TestAssembleIdentifierFollowsSeed(t *testing.T) {
	reg := registry.New()
	reg.Add(rec(csv2fhir.KindPatient, "P1"))
	reg.Add(rec(csv2fhir.KindCondition, "P1-C-1"))
	a := Assemble(reg, "P1")
	if a.Identifier == nil || a.Identifier.Value == "" {
		t.Fatal("bundle without identifier")
	}

	// The identifier is derived from the seed, not the content: growing the
	// registry keeps the same seed on the same identity.
	reg.Add(rec(csv2fhir.KindObservationLaboratory, "P1-OL-1"))
	if b := Assemble(reg, "P1"); b.Identifier.Value != a.Identifier.Value {
		t.Errorf("identifier changed with content: %q vs %q", b.Identifier.Value, a.Identifier.Value)
	}

	if c := Assemble(reg, "P2"); c.Identifier.Value == a.Identifier.Value {
		t.Error("identifier did not change with seed")
	}

	// Empty seeds collapse onto the generic dataset name.
	if d := Assemble(reg, ""); d.Identifier.Value == a.Identifier.Value {
		t.Error("empty seed matched patient seed")
	}
}
