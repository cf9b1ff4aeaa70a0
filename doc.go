// Package csv2fhir converts tabular clinical export files into FHIR R4
// transaction bundles.
//
// One CSV table per clinical domain (person, case encounter, department
// encounter, diagnosis, procedure, lab and vital-sign observations,
// medication, documents) is mapped row by row into typed resources that are
// cross-referenced through a per-bundle record registry. After all tables
// are mapped, a hierarchy resolver links department encounters to their
// enclosing case encounter and inherits missing diagnosis and class data
// according to the configured policy. The assembler then emits one
// transaction bundle with an idempotent PUT entry per record.
//
// # Quick Start
//
//	import (
//	    "github.com/gofhir/csv2fhir"
//	    "github.com/gofhir/csv2fhir/csvsource"
//	    "github.com/gofhir/csv2fhir/engine"
//	)
//
//	opts, err := csv2fhir.LoadOptions("Converter_Options.config")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	conv, err := engine.New(csvsource.New(inputDir), opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	out, err := conv.ConvertAll(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	// out.Bundle is ready for serialization, out.Result carries the
//	// per-bundle error/warning/ignored/valid counts.
//
// # Determinism
//
// Converting identical input with identical configuration yields byte
// identical id assignments and bundle ordering. Synthetic record ids are
// composed as {context}-{kind letter}-{counter}, where context is the owning
// department encounter id when one can be determined from the row, else the
// transformed patient id. Counters are scoped to one bundle conversion and
// never shared across bundles, which is what makes per-patient bundles safe
// to convert in parallel.
//
// # Packages
//
//   - registry: per-bundle record store and identifier allocator
//   - mapper: one row mapper per input table
//   - hierarchy: case/department encounter containment and inheritance
//   - bundle: transaction bundle assembly
//   - engine: orchestration, per-patient splitting, parallel bundles
//   - csvsource: CSV row source collaborator
//   - terminology: in-memory code systems consulted by the mappers
//   - validate: adapter over the gofhir validation engine
package csv2fhir
