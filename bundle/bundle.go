// Package bundle assembles the resolved registry content into a FHIR
// transaction bundle. Assembly is purely deterministic: the same registry
// content always produces the same bundle.
package bundle

import (
	"github.com/google/uuid"

	"github.com/gofhir/csv2fhir"
	"github.com/gofhir/csv2fhir/fhir"
	"github.com/gofhir/csv2fhir/registry"
)

// identifierSystem is the system of the generated bundle identifier.
const identifierSystem = "urn:ietf:rfc:3986"

// namespace seeds the name-based bundle identifier.
var namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/gofhir/csv2fhir"))

// Assemble builds the transaction bundle from a resolved registry. The
// seed names the bundle: per-patient bundles pass the patient id, dataset
// bundles the output name. The identifier derives from the seed alone, so
// re-converting changed source data keeps the bundle identity stable.
//
// Entry order is fixed: patients first, then case encounters, then
// department encounters, then all remaining records in registry insertion
// order. Referenced resources therefore precede the resources that point
// at them.
func Assemble(reg *registry.Registry, seed string) *fhir.Bundle {
	b := fhir.NewTransactionBundle()

	for _, rec := range reg.RecordsOf(csv2fhir.KindPatient) {
		b.AddEntry(rec.Resource)
	}
	for _, rec := range reg.RecordsOf(csv2fhir.KindCaseEncounter) {
		b.AddEntry(rec.Resource)
	}
	for _, rec := range reg.RecordsOf(csv2fhir.KindDepartmentEncounter) {
		b.AddEntry(rec.Resource)
	}
	for _, rec := range reg.All() {
		switch rec.Kind {
		case csv2fhir.KindPatient, csv2fhir.KindCaseEncounter, csv2fhir.KindDepartmentEncounter:
			continue
		}
		b.AddEntry(rec.Resource)
	}

	if seed == "" {
		seed = "bundle"
	}
	b.Identifier = &fhir.Identifier{
		System: identifierSystem,
		Value:  "urn:uuid:" + uuid.NewSHA1(namespace, []byte(seed)).String(),
	}
	return b
}
