package mapper

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/gofhir/csv2fhir"
	"github.com/gofhir/csv2fhir/fhir"
	"github.com/gofhir/csv2fhir/registry"
	"github.com/gofhir/csv2fhir/service"
)

const (
	colLOINC     = "LOINC"
	colValue     = "Wert"
	colUnit      = "Einheit"
	colTimestamp = "Zeitstempel"
)

// observationMapper handles both the laboratory and the vital signs table;
// they share columns and differ only in kind, category and profile.
type observationMapper struct {
	kind csv2fhir.Kind
}

func (m observationMapper) Table() csv2fhir.Table {
	if m.kind == csv2fhir.KindObservationVitalSigns {
		return csv2fhir.TableVitalSigns
	}
	return csv2fhir.TableLaboratory
}

func (m observationMapper) MapRow(mc *Context, row service.Row) error {
	pid, err := mc.PatientID(row)
	if err != nil {
		return err
	}
	loinc := row.Get(colLOINC)
	if loinc == "" {
		return fmt.Errorf("column %s is empty", colLOINC)
	}

	taken, err := optionalTimestamp(row.Get(colTimestamp))
	if err != nil {
		return err
	}
	idContext, encounterID := mc.IDContext(pid, timePtr(taken))
	id := mc.Alloc.NextID(idContext, m.kind)

	code := fhir.Concept(fhir.Coding{System: SystemLOINC, Code: loinc})
	code.Text = row.Get(colLabel)

	obs := &fhir.Observation{
		ResourceType: "Observation",
		ID:           id,
		Status:       "final",
		Category:     []fhir.CodeableConcept{m.category()},
		Code:         code,
		Subject:      mc.PatientRef(pid),
	}
	if m.kind == csv2fhir.KindObservationLaboratory {
		obs.Meta = &fhir.Meta{Profile: []string{ProfileObservation}}
		obs.Identifier = []fhir.Identifier{{
			Type:  fhir.Concept(fhir.Coding{System: SystemIDType, Code: "OBI"}),
			Value: id,
		}}
	}
	if taken != nil {
		obs.EffectiveDateTime = taken.FHIR()
	}

	value := row.Get(colValue)
	unit := row.Get(colUnit)
	if value == "" {
		mc.Warn(m.Table(), id, "observation without value")
	} else if dec, err := decimal.NewFromString(strings.ReplaceAll(value, ",", ".")); err == nil {
		obs.ValueQuantity = &fhir.Quantity{
			Value:  json.Number(dec.String()),
			Unit:   unit,
			System: SystemUCUM,
			Code:   unit,
		}
	} else {
		// Non-numeric results (e.g. "negativ") stay textual.
		obs.ValueString = value
	}

	mc.Registry.Add(&registry.Record{
		Kind:        m.kind,
		ID:          id,
		PatientID:   pid,
		EncounterID: encounterID,
		NaturalKey:  loinc,
		Resource:    obs,
		Start:       timePtr(taken),
	})
	return nil
}

func (m observationMapper) category() fhir.CodeableConcept {
	code, display := "laboratory", "Laboratory"
	if m.kind == csv2fhir.KindObservationVitalSigns {
		code, display = "vital-signs", "Vital Signs"
	}
	return fhir.CodeableConcept{
		Coding: []fhir.Coding{{System: SystemObsCat, Code: code, Display: display}},
	}
}
