package fhir

// Bundle types and request methods used by the converter.
const (
	BundleTypeTransaction = "transaction"

	HTTPVerbPOST = "POST"
	HTTPVerbPUT  = "PUT"
)

// BundleEntryRequest is the transaction instruction of one entry.
type BundleEntryRequest struct {
	Method string `json:"method"`
	URL    string `json:"url"`
}

// BundleEntry is one entry of a Bundle.
type BundleEntry struct {
	FullURL  string              `json:"fullUrl,omitempty"`
	Resource Resource            `json:"resource,omitempty"`
	Request  *BundleEntryRequest `json:"request,omitempty"`
}

// Bundle represents a FHIR R4 Bundle resource.
type Bundle struct {
	ResourceType string        `json:"resourceType"`
	ID           string        `json:"id,omitempty"`
	Identifier   *Identifier   `json:"identifier,omitempty"`
	Type         string        `json:"type"`
	Entry        []BundleEntry `json:"entry,omitempty"`
}

func (b *Bundle) ResourceName() string { return "Bundle" }
func (b *Bundle) ResourceID() string   { return b.ID }

// NewTransactionBundle creates an empty transaction bundle.
func NewTransactionBundle() *Bundle {
	return &Bundle{ResourceType: "Bundle", Type: BundleTypeTransaction}
}

// AddEntry appends a resource with an idempotent update instruction: the
// request addresses the resource's own id, so resubmitting the bundle is
// safe.
func (b *Bundle) AddEntry(res Resource) {
	url := res.ResourceName()
	method := HTTPVerbPOST
	if id := res.ResourceID(); id != "" {
		url += "/" + id
		method = HTTPVerbPUT
	}
	b.Entry = append(b.Entry, BundleEntry{
		Resource: res,
		Request:  &BundleEntryRequest{Method: method, URL: url},
	})
}
