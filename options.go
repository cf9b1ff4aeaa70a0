package csv2fhir

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/gofhir/csv2fhir/specs"
)

// OptionsFileExtension is appended to an options file name when the file
// cannot be found under the given name.
const OptionsFileExtension = ".config"

// Relation identifies one bidirectional record relation whose materialized
// reference direction is configurable.
type Relation int

const (
	// RelationDiagnosisEncounter is the Condition <-> Encounter relation.
	RelationDiagnosisEncounter Relation = iota
	// RelationProcedureEncounter is the Procedure <-> Encounter relation.
	RelationProcedureEncounter
)

// Direction selects which side of a bidirectional relation stores the
// reference.
type Direction int

const (
	// ResourceToEncounter embeds the encounter reference in the diagnosis
	// or procedure record.
	ResourceToEncounter Direction = iota
	// EncounterToResource lists the diagnosis or procedure in the
	// encounter's diagnosis component.
	EncounterToResource
)

// Options holds the full converter configuration. Every value has a
// compiled-in default; keys missing from the loaded config file fall back
// silently.
//
// Enabling both directions of a relation is allowed but produces reference
// cycles that some FHIR servers reject, which is why the resource-to-
// encounter directions default to off.
type Options struct {
	// Reference directionality (SET_REFERENCE_* keys).
	DiagnosisToEncounter bool
	EncounterToDiagnosis bool
	ProcedureToEncounter bool
	EncounterToProcedure bool

	// Encounter attribute inheritance (ADD_MISSING_* keys). When disabled,
	// a department encounter lacking the attribute receives an explicit
	// data-absent marker instead.
	AddMissingDiagnosesFromSuper bool
	AddMissingClassFromSuper     bool

	// StartID carries the per-kind counter start offsets (START_ID_* keys).
	// Kinds without an entry start at 1.
	StartID map[Kind]int

	// Patient id transform (PID_* keys).
	PIDPrefix             string
	PIDSuffix             string
	PIDLastNumberIncrease int
}

// DefaultOptions returns the compiled-in configuration.
func DefaultOptions() *Options {
	return &Options{
		EncounterToDiagnosis: true,
		EncounterToProcedure: true,
		StartID:              make(map[Kind]int),
	}
}

// ReferenceEnabled reports whether the given direction of the relation is
// materialized. It is a pure function of the loaded configuration.
func (o *Options) ReferenceEnabled(rel Relation, dir Direction) bool {
	switch rel {
	case RelationDiagnosisEncounter:
		if dir == ResourceToEncounter {
			return o.DiagnosisToEncounter
		}
		return o.EncounterToDiagnosis
	case RelationProcedureEncounter:
		if dir == ResourceToEncounter {
			return o.ProcedureToEncounter
		}
		return o.EncounterToProcedure
	default:
		return false
	}
}

// StartOffset returns the configured counter start offset for the kind,
// defaulting to 1.
func (o *Options) StartOffset(kind Kind) int {
	if n, ok := o.StartID[kind]; ok {
		return n
	}
	return 1
}

// startIDKeys maps the configurable kinds to their option keys.
var startIDKeys = map[Kind]string{
	KindCaseEncounter:            "START_ID_ENCOUNTER",
	KindDepartmentEncounter:      "START_ID_ENCOUNTER_LEVEL_2",
	KindCondition:                "START_ID_DIAGNOSIS",
	KindProcedure:                "START_ID_PROCEDURE",
	KindObservationLaboratory:    "START_ID_OBSERVATION_LABORATORY",
	KindObservationVitalSigns:    "START_ID_OBSERVATION_VITAL_SIGNS",
	KindMedicationStatement:      "START_ID_MEDICATION_STATEMENT",
	KindMedicationAdministration: "START_ID_MEDICATION_ADMINISTRATION",
	KindDocumentReference:        "START_ID_DOCUMENT_REFERENCE",
}

// trueValues are the strings interpreted as boolean true, matching the
// German and English spellings accepted by the export format.
var trueValues = map[string]bool{
	"true": true, "t": true, "wahr": true, "w": true,
	"yes": true, "y": true, "ja": true, "j": true, "1": true,
}

// LoadOptions loads the embedded default configuration and merges the
// options file on top of it. An empty path returns the defaults. A path
// that does not exist is retried with the ".config" extension appended; if
// that is missing too, an error is returned.
func LoadOptions(path string) (*Options, error) {
	v := viper.New()
	v.SetConfigType("properties")
	if err := v.ReadConfig(bytes.NewReader(specs.DefaultOptions)); err != nil {
		return nil, fmt.Errorf("read embedded default options: %w", err)
	}

	if path != "" {
		f, err := os.Open(path)
		if os.IsNotExist(err) {
			f, err = os.Open(path + OptionsFileExtension)
		}
		if err != nil {
			return nil, fmt.Errorf("open options file: %w", err)
		}
		defer f.Close()
		if err := v.MergeConfig(f); err != nil {
			return nil, fmt.Errorf("parse options file %s: %w", path, err)
		}
	}

	return optionsFromViper(v)
}

func optionsFromViper(v *viper.Viper) (*Options, error) {
	o := DefaultOptions()

	o.DiagnosisToEncounter = boolOption(v, "SET_REFERENCE_FROM_DIAGNOSIS_CONDITION_TO_ENCOUNTER", o.DiagnosisToEncounter)
	o.EncounterToDiagnosis = boolOption(v, "SET_REFERENCE_FROM_ENCOUNTER_TO_DIAGNOSIS_CONDITION", o.EncounterToDiagnosis)
	o.ProcedureToEncounter = boolOption(v, "SET_REFERENCE_FROM_PROCEDURE_CONDITION_TO_ENCOUNTER", o.ProcedureToEncounter)
	o.EncounterToProcedure = boolOption(v, "SET_REFERENCE_FROM_ENCOUNTER_TO_PROCEDURE_CONDITION", o.EncounterToProcedure)
	o.AddMissingDiagnosesFromSuper = boolOption(v, "ADD_MISSING_DIAGNOSES_FROM_SUPER_ENCOUNTER", o.AddMissingDiagnosesFromSuper)
	o.AddMissingClassFromSuper = boolOption(v, "ADD_MISSING_CLASS_FROM_SUPER_ENCOUNTER", o.AddMissingClassFromSuper)

	for kind, key := range startIDKeys {
		if !v.IsSet(key) {
			continue
		}
		n, err := intOption(v, key)
		if err != nil {
			return nil, err
		}
		o.StartID[kind] = n
	}

	if v.IsSet("PID_LAST_NUMBER_INCREASE_INITIAL_OFFSET") {
		n, err := intOption(v, "PID_LAST_NUMBER_INCREASE_INITIAL_OFFSET")
		if err != nil {
			return nil, err
		}
		o.PIDLastNumberIncrease = n
	}
	o.PIDPrefix = strings.TrimSpace(v.GetString("PID_PREFIX"))
	o.PIDSuffix = strings.TrimSpace(v.GetString("PID_SUFFIX"))

	return o, nil
}

func boolOption(v *viper.Viper, key string, def bool) bool {
	if !v.IsSet(key) {
		return def
	}
	s := strings.ToLower(strings.TrimSpace(v.GetString(key)))
	if s == "" {
		return def
	}
	return trueValues[s]
}

func intOption(v *viper.Viper, key string) (int, error) {
	s := strings.TrimSpace(v.GetString(key))
	var n int
	if _, err := fmt.Sscanf(s, "%d", &n); err != nil {
		return 0, fmt.Errorf("option %s: %q is not an integer", key, s)
	}
	return n, nil
}
