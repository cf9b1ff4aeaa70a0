package csv2fhir

// Kind identifies the clinical record type a row mapper produces.
type Kind int

// Record kinds, in bundle emission precedence for the first three.
const (
	KindPatient Kind = iota
	KindCaseEncounter
	KindDepartmentEncounter
	KindCondition
	KindProcedure
	KindObservationLaboratory
	KindObservationVitalSigns
	KindMedicationStatement
	KindMedicationAdministration
	KindDocumentReference
)

// kindNames are the human-readable kind names.
var kindNames = [...]string{
	KindPatient:                  "Patient",
	KindCaseEncounter:            "CaseEncounter",
	KindDepartmentEncounter:      "DepartmentEncounter",
	KindCondition:                "Condition",
	KindProcedure:                "Procedure",
	KindObservationLaboratory:    "ObservationLaboratory",
	KindObservationVitalSigns:    "ObservationVitalSigns",
	KindMedicationStatement:      "MedicationStatement",
	KindMedicationAdministration: "MedicationAdministration",
	KindDocumentReference:        "DocumentReference",
}

// idLetters are the per-kind infixes of synthetic record ids,
// {context}-{letter}-{counter}. The patient id is taken from the source
// data and carries no letter.
var idLetters = [...]string{
	KindPatient:                  "",
	KindCaseEncounter:            "E",
	KindDepartmentEncounter:      "A",
	KindCondition:                "C",
	KindProcedure:                "P",
	KindObservationLaboratory:    "OL",
	KindObservationVitalSigns:    "OV",
	KindMedicationStatement:      "MS",
	KindMedicationAdministration: "MA",
	KindDocumentReference:        "D",
}

// resourceTypes are the FHIR resource type names records of each kind
// serialize to.
var resourceTypes = [...]string{
	KindPatient:                  "Patient",
	KindCaseEncounter:            "Encounter",
	KindDepartmentEncounter:      "Encounter",
	KindCondition:                "Condition",
	KindProcedure:                "Procedure",
	KindObservationLaboratory:    "Observation",
	KindObservationVitalSigns:    "Observation",
	KindMedicationStatement:      "MedicationStatement",
	KindMedicationAdministration: "MedicationAdministration",
	KindDocumentReference:        "DocumentReference",
}

// String returns the kind name.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Unknown"
	}
	return kindNames[k]
}

// IDLetter returns the infix used in synthetic ids of this kind.
func (k Kind) IDLetter() string {
	if k < 0 || int(k) >= len(idLetters) {
		return ""
	}
	return idLetters[k]
}

// ResourceType returns the FHIR resource type name for this kind.
func (k Kind) ResourceType() string {
	if k < 0 || int(k) >= len(resourceTypes) {
		return ""
	}
	return resourceTypes[k]
}

// IsEncounter reports whether the kind is one of the two encounter levels.
func (k Kind) IsEncounter() bool {
	return k == KindCaseEncounter || k == KindDepartmentEncounter
}

// Kinds returns all record kinds in declaration order.
func Kinds() []Kind {
	ks := make([]Kind, len(kindNames))
	for i := range ks {
		ks[i] = Kind(i)
	}
	return ks
}
