package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/promptcorpus/internal/core/domain"
	"github.com/custodia-labs/promptcorpus/internal/core/ports/driven"
)

// Ensure TemplateStore implements the interface.
var _ driven.TemplateRepository = (*TemplateStore)(nil)

// TemplateStore is an in-memory implementation of driven.TemplateRepository.
// Text is trimmed on load, matching the file store.
type TemplateStore struct {
	mu        sync.RWMutex
	templates map[string]string
	loadErr   error
	saveErr   error
	loads     int
}

// NewTemplateStore creates a new in-memory template store.
func NewTemplateStore() *TemplateStore {
	return &TemplateStore{
		templates: make(map[string]string),
	}
}

// Put stores a template without going through Save.
func (s *TemplateStore) Put(name, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.templates[name] = text
}

// FailLoad makes subsequent LoadAll calls return err. Pass nil to clear.
func (s *TemplateStore) FailLoad(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadErr = err
}

// FailSave makes subsequent Save calls return err. Pass nil to clear.
func (s *TemplateStore) FailSave(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveErr = err
}

// Loads reports how many times LoadAll has been called.
func (s *TemplateStore) Loads() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loads
}

// LoadAll returns every stored template sorted by name.
func (s *TemplateStore) LoadAll(_ context.Context) ([]domain.Template, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loads++
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	result := make([]domain.Template, 0, len(s.templates))
	for name, text := range s.templates {
		result = append(result, domain.Template{Name: name, Text: strings.TrimSpace(text)})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result, nil
}

// Save stores or replaces a template.
func (s *TemplateStore) Save(_ context.Context, name, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.templates[name] = text
	return nil
}

// Location returns a fixed marker for the in-memory store.
func (s *TemplateStore) Location() string {
	return ":memory:"
}
