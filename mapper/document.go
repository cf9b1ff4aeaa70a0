package mapper

import (
	"encoding/base64"
	"fmt"
	"mime"
	"path"
	"strings"

	"github.com/gofhir/csv2fhir"
	"github.com/gofhir/csv2fhir/fhir"
	"github.com/gofhir/csv2fhir/registry"
	"github.com/gofhir/csv2fhir/service"
)

const colURI = "URI"

type documentMapper struct{}

func (documentMapper) Table() csv2fhir.Table { return csv2fhir.TableDocumentReference }

func (documentMapper) MapRow(mc *Context, row service.Row) error {
	pid, err := mc.PatientID(row)
	if err != nil {
		return err
	}
	uri := row.Get(colURI)
	if uri == "" {
		return fmt.Errorf("column %s is empty", colURI)
	}

	id := mc.Alloc.NextID(pid, csv2fhir.KindDocumentReference)

	att := fhir.Attachment{
		ContentType: contentTypeOf(uri),
		URL:         uri,
		Title:       path.Base(strings.ReplaceAll(uri, "\\", "/")),
	}
	if mc.Documents != nil {
		if data, err := mc.Documents.ReadDocument(uri); err != nil {
			mc.Warn(csv2fhir.TableDocumentReference, id, fmt.Sprintf("document %s not readable, attachment carries the url only", uri))
		} else {
			att.Data = base64.StdEncoding.EncodeToString(data)
			att.Size = len(data)
		}
	}

	doc := &fhir.DocumentReference{
		ResourceType: "DocumentReference",
		ID:           id,
		Status:       "current",
		Subject:      mc.PatientRef(pid),
		Content:      []fhir.DocumentReferenceContent{{Attachment: att}},
	}

	if enc := mc.CaseEncounterFor(pid, nil); enc != nil {
		doc.Context = &fhir.DocumentReferenceContext{
			Encounter: []fhir.Reference{*fhir.RefTo("Encounter", enc.ID)},
		}
	}

	mc.Registry.Add(&registry.Record{
		Kind:       csv2fhir.KindDocumentReference,
		ID:         id,
		PatientID:  pid,
		NaturalKey: uri,
		Resource:   doc,
	})
	return nil
}

// contentTypeOf guesses the attachment mime type from the URI's file
// extension. Unknown extensions fall back to a binary content type.
func contentTypeOf(uri string) string {
	ext := path.Ext(strings.ReplaceAll(uri, "\\", "/"))
	if ct := mime.TypeByExtension(ext); ct != "" {
		// Strip charset parameters; attachments carry the bare type.
		if i := strings.Index(ct, ";"); i >= 0 {
			ct = ct[:i]
		}
		return ct
	}
	return "application/octet-stream"
}
