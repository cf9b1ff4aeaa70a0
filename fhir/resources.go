package fhir

// Patient represents a FHIR R4 Patient resource.
type Patient struct {
	ResourceType string       `json:"resourceType"`
	ID           string       `json:"id,omitempty"`
	Meta         *Meta        `json:"meta,omitempty"`
	Identifier   []Identifier `json:"identifier,omitempty"`
	Name         []HumanName  `json:"name,omitempty"`
	Gender       string       `json:"gender,omitempty"`
	BirthDate    string       `json:"birthDate,omitempty"`
	Address      []Address    `json:"address,omitempty"`
}

func (p *Patient) ResourceName() string { return "Patient" }
func (p *Patient) ResourceID() string   { return p.ID }

// EncounterDiagnosis is one entry of Encounter.diagnosis.
type EncounterDiagnosis struct {
	Condition Reference        `json:"condition"`
	Use       *CodeableConcept `json:"use,omitempty"`
}

// Encounter represents a FHIR R4 Encounter resource. Case and department
// level stays both serialize to this type; department stays carry a partOf
// reference to their case stay once the hierarchy is resolved.
type Encounter struct {
	ResourceType string               `json:"resourceType"`
	ID           string               `json:"id,omitempty"`
	Meta         *Meta                `json:"meta,omitempty"`
	Identifier   []Identifier         `json:"identifier,omitempty"`
	Status       string               `json:"status,omitempty"`
	Class        *Coding              `json:"class,omitempty"`
	ServiceType  *CodeableConcept     `json:"serviceType,omitempty"`
	Subject      *Reference           `json:"subject,omitempty"`
	Period       *Period              `json:"period,omitempty"`
	Diagnosis    []EncounterDiagnosis `json:"diagnosis,omitempty"`
	PartOf       *Reference           `json:"partOf,omitempty"`
}

func (e *Encounter) ResourceName() string { return "Encounter" }
func (e *Encounter) ResourceID() string   { return e.ID }

// Condition represents a FHIR R4 Condition resource.
type Condition struct {
	ResourceType string           `json:"resourceType"`
	ID           string           `json:"id,omitempty"`
	Meta         *Meta            `json:"meta,omitempty"`
	Code         *CodeableConcept `json:"code,omitempty"`
	Subject      *Reference       `json:"subject,omitempty"`
	Encounter    *Reference       `json:"encounter,omitempty"`
	RecordedDate string           `json:"recordedDate,omitempty"`
	Note         []Annotation     `json:"note,omitempty"`
}

func (c *Condition) ResourceName() string { return "Condition" }
func (c *Condition) ResourceID() string   { return c.ID }

// Procedure represents a FHIR R4 Procedure resource.
type Procedure struct {
	ResourceType      string           `json:"resourceType"`
	ID                string           `json:"id,omitempty"`
	Meta              *Meta            `json:"meta,omitempty"`
	Status            string           `json:"status,omitempty"`
	Category          *CodeableConcept `json:"category,omitempty"`
	Code              *CodeableConcept `json:"code,omitempty"`
	Subject           *Reference       `json:"subject,omitempty"`
	Encounter         *Reference       `json:"encounter,omitempty"`
	PerformedDateTime string           `json:"performedDateTime,omitempty"`
}

func (p *Procedure) ResourceName() string { return "Procedure" }
func (p *Procedure) ResourceID() string   { return p.ID }

// Observation represents a FHIR R4 Observation resource for lab results
// and vital signs.
type Observation struct {
	ResourceType      string            `json:"resourceType"`
	ID                string            `json:"id,omitempty"`
	Meta              *Meta             `json:"meta,omitempty"`
	Identifier        []Identifier      `json:"identifier,omitempty"`
	Status            string            `json:"status,omitempty"`
	Category          []CodeableConcept `json:"category,omitempty"`
	Code              *CodeableConcept  `json:"code,omitempty"`
	Subject           *Reference        `json:"subject,omitempty"`
	Encounter         *Reference        `json:"encounter,omitempty"`
	EffectiveDateTime string            `json:"effectiveDateTime,omitempty"`
	ValueQuantity     *Quantity         `json:"valueQuantity,omitempty"`
	ValueString       string            `json:"valueString,omitempty"`
}

func (o *Observation) ResourceName() string { return "Observation" }
func (o *Observation) ResourceID() string   { return o.ID }

// MedicationStatement represents a FHIR R4 MedicationStatement resource.
type MedicationStatement struct {
	ResourceType              string           `json:"resourceType"`
	ID                        string           `json:"id,omitempty"`
	Meta                      *Meta            `json:"meta,omitempty"`
	Status                    string           `json:"status,omitempty"`
	MedicationCodeableConcept *CodeableConcept `json:"medicationCodeableConcept,omitempty"`
	Subject                   *Reference       `json:"subject,omitempty"`
	Context                   *Reference       `json:"context,omitempty"`
	EffectivePeriod           *Period          `json:"effectivePeriod,omitempty"`
	Dosage                    []Dosage         `json:"dosage,omitempty"`
}

func (m *MedicationStatement) ResourceName() string { return "MedicationStatement" }
func (m *MedicationStatement) ResourceID() string   { return m.ID }

// MedicationAdministrationDosage is the dosage of an administration.
type MedicationAdministrationDosage struct {
	Text string `json:"text,omitempty"`
}

// MedicationAdministration represents a FHIR R4 MedicationAdministration
// resource.
type MedicationAdministration struct {
	ResourceType              string                          `json:"resourceType"`
	ID                        string                          `json:"id,omitempty"`
	Meta                      *Meta                           `json:"meta,omitempty"`
	Status                    string                          `json:"status,omitempty"`
	MedicationCodeableConcept *CodeableConcept                `json:"medicationCodeableConcept,omitempty"`
	Subject                   *Reference                      `json:"subject,omitempty"`
	Context                   *Reference                      `json:"context,omitempty"`
	EffectivePeriod           *Period                         `json:"effectivePeriod,omitempty"`
	Dosage                    *MedicationAdministrationDosage `json:"dosage,omitempty"`
}

func (m *MedicationAdministration) ResourceName() string { return "MedicationAdministration" }
func (m *MedicationAdministration) ResourceID() string   { return m.ID }

// DocumentReferenceContent is one content element of a DocumentReference.
type DocumentReferenceContent struct {
	Attachment Attachment `json:"attachment"`
}

// DocumentReferenceContext relates a document to its encounters.
type DocumentReferenceContext struct {
	Encounter []Reference `json:"encounter,omitempty"`
}

// DocumentReference represents a FHIR R4 DocumentReference resource.
type DocumentReference struct {
	ResourceType string                     `json:"resourceType"`
	ID           string                     `json:"id,omitempty"`
	Meta         *Meta                      `json:"meta,omitempty"`
	Status       string                     `json:"status,omitempty"`
	Subject      *Reference                 `json:"subject,omitempty"`
	Content      []DocumentReferenceContent `json:"content,omitempty"`
	Context      *DocumentReferenceContext  `json:"context,omitempty"`
}

func (d *DocumentReference) ResourceName() string { return "DocumentReference" }
func (d *DocumentReference) ResourceID() string   { return d.ID }
