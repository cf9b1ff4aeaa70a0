package csv2fhir

// Version is the converter release version.
const Version = "0.3.0"

// FHIRVersion is the FHIR release the generated bundles target.
const FHIRVersion = "4.0.1"
