package mapper

// Code system and profile canonical URLs used by the mappers. The profile
// URLs follow the Medizininformatik-Initiative core data set modules.
const (
	SystemICD10GM  = "http://fhir.de/CodeSystem/bfarm/icd-10-gm"
	SystemOPS      = "http://fhir.de/CodeSystem/bfarm/ops"
	SystemATC      = "http://fhir.de/CodeSystem/bfarm/atc"
	SystemLOINC    = "http://loinc.org"
	SystemSNOMED   = "http://snomed.info/sct"
	SystemUCUM     = "http://unitsofmeasure.org"
	SystemDeptKey  = "http://fhir.de/CodeSystem/dkgev/Fachabteilungsschluessel"
	SystemIDType   = "http://terminology.hl7.org/CodeSystem/v2-0203"
	SystemObsCat   = "http://terminology.hl7.org/CodeSystem/observation-category"
	SystemDiagRole = "http://terminology.hl7.org/CodeSystem/diagnosis-role"

	SystemEncounterClass = "https://www.medizininformatik-initiative.de/fhir/core/modul-fall/CodeSystem/Versorgungsfallklasse"

	profileBase          = "https://www.medizininformatik-initiative.de/fhir/core"
	ProfilePatient       = profileBase + "/modul-person/StructureDefinition/Patient"
	ProfileCaseEncounter = profileBase + "/modul-fall/StructureDefinition/Encounter/Versorgungsfall"
	ProfileDeptEncounter = profileBase + "/modul-fall/StructureDefinition/Encounter/Abteilungsfall"
	ProfileCondition     = profileBase + "/modul-diagnose/StructureDefinition/Diagnose"
	ProfileProcedure     = profileBase + "/modul-prozedur/StructureDefinition/Procedure"
	ProfileObservation   = profileBase + "/modul-labor/StructureDefinition/ObservationLab"
	ProfileMedStatement  = profileBase + "/modul-medikation/StructureDefinition/MedicationStatement"
	ProfileMedAdmin      = profileBase + "/modul-medikation/StructureDefinition/MedicationAdministration"

	// codingVersion pins the German catalog year for ICD-10-GM and OPS.
	codingVersion = "2020"
)
