// Package specs provides the embedded converter defaults.
//
// It embeds the default options file used when no options file is given on
// the command line, and the FHIR CodeSystem definitions the terminology
// service preloads (diagnosis roles, case encounter classes, SNOMED
// procedure categories).
package specs

import "embed"

// DefaultOptions is the embedded default converter configuration in Java
// properties format.
//
//go:embed Converter_Options.config
var DefaultOptions []byte

// CodeSystems holds the embedded FHIR R4 CodeSystem JSON files.
//
//go:embed codesystems/*.json
var CodeSystems embed.FS

// CodeSystemDir is the directory inside CodeSystems holding the JSON files.
const CodeSystemDir = "codesystems"
