// Package terminology provides the in-memory code lookup the mappers and
// the validator consult. It preloads the embedded CodeSystem definitions
// (diagnosis roles, case encounter classes, SNOMED procedure categories)
// and can load additional R4 CodeSystems.
package terminology

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"sync"

	"github.com/gofhir/fhir/r4"

	"github.com/gofhir/csv2fhir/service"
	"github.com/gofhir/csv2fhir/specs"
)

// codeEntry represents one code of a code system.
type codeEntry struct {
	code    string
	display string
}

// Service implements service.TerminologyService with in-memory storage.
// All lookups take only a read lock; parallel bundle workers share one
// instance.
type Service struct {
	mu          sync.RWMutex
	codeSystems map[string]map[string]codeEntry // system url -> code -> entry
}

// New creates a Service preloaded with the embedded code systems.
func New() (*Service, error) {
	s := &Service{codeSystems: make(map[string]map[string]codeEntry)}
	if err := s.loadEmbedded(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Service) loadEmbedded() error {
	entries, err := fs.ReadDir(specs.CodeSystems, specs.CodeSystemDir)
	if err != nil {
		return fmt.Errorf("read embedded code systems: %w", err)
	}
	for _, entry := range entries {
		data, err := fs.ReadFile(specs.CodeSystems, path.Join(specs.CodeSystemDir, entry.Name()))
		if err != nil {
			return fmt.Errorf("read %s: %w", entry.Name(), err)
		}
		var cs r4.CodeSystem
		if err := json.Unmarshal(data, &cs); err != nil {
			return fmt.Errorf("parse %s: %w", entry.Name(), err)
		}
		if err := s.LoadR4CodeSystem(&cs); err != nil {
			return fmt.Errorf("load %s: %w", entry.Name(), err)
		}
	}
	return nil
}

// LoadR4CodeSystem loads an R4 CodeSystem into the service. Codes of a
// system already present are merged, first writer wins.
func (s *Service) LoadR4CodeSystem(cs *r4.CodeSystem) error {
	if cs == nil || cs.Url == nil {
		return fmt.Errorf("codesystem is nil or has no URL")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	codes := s.codeSystems[*cs.Url]
	if codes == nil {
		codes = make(map[string]codeEntry)
		s.codeSystems[*cs.Url] = codes
	}
	s.extractConcepts(cs.Concept, codes)
	return nil
}

func (s *Service) extractConcepts(concepts []r4.CodeSystemConcept, codes map[string]codeEntry) {
	for i := range concepts {
		concept := &concepts[i]
		if concept.Code != nil {
			display := ""
			if concept.Display != nil {
				display = *concept.Display
			}
			if _, exists := codes[*concept.Code]; !exists {
				codes[*concept.Code] = codeEntry{code: *concept.Code, display: display}
			}
		}
		if len(concept.Concept) > 0 {
			s.extractConcepts(concept.Concept, codes)
		}
	}
}

// ValidateCode implements service.TerminologyService.
func (s *Service) ValidateCode(ctx context.Context, system, code string) (*service.ValidateCodeResult, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if code == "" {
		return &service.ValidateCodeResult{Valid: false, Message: "code is empty"}, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	codes, ok := s.codeSystems[system]
	if !ok {
		return nil, fmt.Errorf("codesystem not found: %s", system)
	}
	if entry, ok := codes[code]; ok {
		return &service.ValidateCodeResult{Valid: true, Display: entry.display}, nil
	}
	return &service.ValidateCodeResult{
		Valid:   false,
		Message: fmt.Sprintf("code '%s' not found in CodeSystem '%s'", code, system),
	}, nil
}

// Display implements service.TerminologyService. It returns the display
// text for the code, "" when the system or code is unknown.
func (s *Service) Display(system, code string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if entry, ok := s.codeSystems[system][code]; ok {
		return entry.display
	}
	return ""
}
