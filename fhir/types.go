// Package fhir provides the FHIR R4 data structures the converter emits.
//
// Only the resources and datatypes the clinical export format produces are
// modeled; optional elements the converter never populates are omitted.
// All structs marshal to conformant FHIR JSON.
package fhir

import "encoding/json"

// DataAbsentReasonURL is the standard extension URL marking a required
// element whose value is known to be missing.
const DataAbsentReasonURL = "http://hl7.org/fhir/StructureDefinition/data-absent-reason"

// Resource is implemented by all resource types in this package.
type Resource interface {
	// ResourceName returns the FHIR resource type name.
	ResourceName() string
	// ResourceID returns the logical id.
	ResourceID() string
}

// Extension represents an extension element.
type Extension struct {
	URL         string `json:"url"`
	ValueCode   string `json:"valueCode,omitempty"`
	ValueString string `json:"valueString,omitempty"`
}

// DataAbsentUnknown returns the data-absent-reason extension with code
// "unknown".
func DataAbsentUnknown() Extension {
	return Extension{URL: DataAbsentReasonURL, ValueCode: "unknown"}
}

// Meta contains resource metadata.
type Meta struct {
	Profile []string `json:"profile,omitempty"`
}

// Coding represents a code in a code system.
type Coding struct {
	Extension    []Extension `json:"extension,omitempty"`
	System       string      `json:"system,omitempty"`
	Version      string      `json:"version,omitempty"`
	Code         string      `json:"code,omitempty"`
	Display      string      `json:"display,omitempty"`
	UserSelected *bool       `json:"userSelected,omitempty"`
}

// CodeableConcept represents a value from one or more code systems.
type CodeableConcept struct {
	Extension []Extension `json:"extension,omitempty"`
	Coding    []Coding    `json:"coding,omitempty"`
	Text      string      `json:"text,omitempty"`
}

// Concept builds a CodeableConcept from codings.
func Concept(codings ...Coding) *CodeableConcept {
	return &CodeableConcept{Coding: codings}
}

// AbsentConcept returns a CodeableConcept carrying only the
// data-absent-reason extension.
func AbsentConcept() *CodeableConcept {
	return &CodeableConcept{Extension: []Extension{DataAbsentUnknown()}}
}

// Identifier identifies a resource in a business sense.
type Identifier struct {
	Use      string           `json:"use,omitempty"`
	Type     *CodeableConcept `json:"type,omitempty"`
	System   string           `json:"system,omitempty"`
	Value    string           `json:"value,omitempty"`
	Assigner *Reference       `json:"assigner,omitempty"`
}

// Reference points at another resource.
type Reference struct {
	Extension  []Extension `json:"extension,omitempty"`
	Reference  string      `json:"reference,omitempty"`
	Type       string      `json:"type,omitempty"`
	Identifier *Identifier `json:"identifier,omitempty"`
	Display    string      `json:"display,omitempty"`
}

// RefTo builds a relative literal reference, e.g. "Condition/P-1-C-1".
func RefTo(resourceType, id string) *Reference {
	return &Reference{Reference: resourceType + "/" + id}
}

// Period is a start/end time range. Both ends are FHIR dateTime strings;
// an empty end means the period is open.
type Period struct {
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
}

// Quantity is a measured amount. Value preserves the decimal precision of
// the source data.
type Quantity struct {
	Value  json.Number `json:"value,omitempty"`
	Unit   string      `json:"unit,omitempty"`
	System string      `json:"system,omitempty"`
	Code   string      `json:"code,omitempty"`
}

// HumanName is a name of a person.
type HumanName struct {
	Use    string   `json:"use,omitempty"`
	Text   string   `json:"text,omitempty"`
	Family string   `json:"family,omitempty"`
	Given  []string `json:"given,omitempty"`
}

// Address is a postal address.
type Address struct {
	Use        string   `json:"use,omitempty"`
	Type       string   `json:"type,omitempty"`
	Text       string   `json:"text,omitempty"`
	Line       []string `json:"line,omitempty"`
	City       string   `json:"city,omitempty"`
	PostalCode string   `json:"postalCode,omitempty"`
	Country    string   `json:"country,omitempty"`
}

// Attachment holds or points at document content.
type Attachment struct {
	ContentType string `json:"contentType,omitempty"`
	URL         string `json:"url,omitempty"`
	Data        string `json:"data,omitempty"`
	Size        int    `json:"size,omitempty"`
	Title       string `json:"title,omitempty"`
}

// Annotation is a text note.
type Annotation struct {
	Text string `json:"text"`
}

// Dosage describes how a medication is taken.
type Dosage struct {
	Text string `json:"text,omitempty"`
}
