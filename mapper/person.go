package mapper

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gofhir/csv2fhir"
	"github.com/gofhir/csv2fhir/fhir"
	"github.com/gofhir/csv2fhir/registry"
	"github.com/gofhir/csv2fhir/service"
)

const (
	colGivenName = "Vorname"
	colFamily    = "Nachname"
	colBirthDate = "Geburtsdatum"
	colGender    = "Geschlecht"
	colAddress   = "Anschrift"
)

// postalCity matches the German "12345 Ort" address tail.
var postalCity = regexp.MustCompile(`^(\d{5})\s+(.+)$`)

type personMapper struct{}

func (personMapper) Table() csv2fhir.Table { return csv2fhir.TablePerson }

func (personMapper) MapRow(mc *Context, row service.Row) error {
	rawPID := row.Get(csv2fhir.PatientIDColumn)
	pid, err := mc.PatientID(row)
	if err != nil {
		return err
	}

	p := &fhir.Patient{
		ResourceType: "Patient",
		ID:           pid,
		Meta:         &fhir.Meta{Profile: []string{ProfilePatient}},
		Identifier: []fhir.Identifier{{
			Type:   fhir.Concept(fhir.Coding{System: SystemIDType, Code: "MR", Display: "Medical record number"}),
			System: fmt.Sprintf("https://%s.de/pid", dizID(rawPID)),
			Value:  pid,
		}},
	}

	// The profile requires a populated name; missing parts get generated
	// placeholders so the patient stays emittable.
	family := row.Get(colFamily)
	if family == "" {
		family = "Nachname-" + pid
		mc.Warn(csv2fhir.TablePerson, pid, "family name missing, placeholder substituted")
	}
	given := row.Get(colGivenName)
	if given == "" {
		given = "Vorname-" + pid
		mc.Warn(csv2fhir.TablePerson, pid, "given name missing, placeholder substituted")
	}
	p.Name = []fhir.HumanName{{Use: "official", Family: family, Given: []string{given}}}

	switch gender := strings.ToLower(row.Get(colGender)); gender {
	case "m", "männlich", "maennlich", "male":
		p.Gender = "male"
	case "w", "f", "weiblich", "female":
		p.Gender = "female"
	case "d", "divers", "other":
		p.Gender = "other"
	case "x", "unbekannt", "unknown":
		p.Gender = "unknown"
	case "":
		mc.Warn(csv2fhir.TablePerson, pid, "person without gender")
	default:
		return fmt.Errorf("unknown gender %q", gender)
	}

	// A bad birth date degrades the patient, it never drops it. References
	// from the clinical tables must still resolve.
	if bd := row.Get(colBirthDate); bd != "" {
		if ts, err := ParseTimestamp(bd); err != nil {
			mc.Warn(csv2fhir.TablePerson, pid, fmt.Sprintf("unparseable birth date %q dropped", bd))
		} else {
			p.BirthDate = ts.Time.Format("2006-01-02")
		}
	} else {
		mc.Warn(csv2fhir.TablePerson, pid, "person without birth date")
	}

	if addr := row.Get(colAddress); addr != "" {
		p.Address = []fhir.Address{parseAddress(addr)}
	} else {
		p.Address = []fhir.Address{dummyAddress()}
		mc.Warn(csv2fhir.TablePerson, pid, "person without address, dummy substituted")
	}

	mc.Registry.Add(&registry.Record{
		Kind:       csv2fhir.KindPatient,
		ID:         pid,
		PatientID:  pid,
		NaturalKey: pid,
		Resource:   p,
	})
	return nil
}

// parseAddress splits the single-cell German address forms
// "Musterweg 1, 12345 Musterstadt" and "12345 Musterstadt". Anything else
// is kept verbatim as the address text.
func parseAddress(s string) fhir.Address {
	addr := fhir.Address{Type: "both", Country: "DE"}
	rest := s
	if i := strings.Index(s, ","); i >= 0 {
		addr.Line = []string{strings.TrimSpace(s[:i])}
		rest = strings.TrimSpace(s[i+1:])
	}
	if m := postalCity.FindStringSubmatch(strings.TrimSpace(rest)); m != nil {
		addr.PostalCode = m[1]
		addr.City = m[2]
		return addr
	}
	return fhir.Address{Type: "both", Country: "DE", Text: s}
}

// dummyAddress satisfies the profile's address requirement when the
// source row carries none.
func dummyAddress() fhir.Address {
	return fhir.Address{
		Type:       "both",
		Line:       []string{"Dummy-Strasse 1"},
		PostalCode: "00000",
		City:       "Dummy-Stadt",
		Country:    "DE",
	}
}
