package services

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/promptcorpus/internal/core/domain"
	"github.com/custodia-labs/promptcorpus/internal/core/ports/driven"
	"github.com/custodia-labs/promptcorpus/internal/core/ports/driving"
	"github.com/custodia-labs/promptcorpus/internal/logger"
)

// Ensure TemplateService implements the interface.
var _ driving.TemplateService = (*TemplateService)(nil)

// TemplateService keeps an in-memory snapshot of the template repository and
// renders from it.
//
// One RWMutex guards the snapshot. Refresh and Add (save plus reload) hold the
// write lock, so a reader sees either the previous or the next complete set.
// A failed reload keeps the previous set.
type TemplateService struct {
	mu        sync.RWMutex
	repo      driven.TemplateRepository
	templates map[string]string
	names     []string
	loaded    bool
}

// NewTemplateService creates a template service over repo.
// A nil repo means no template directory is configured: the service reports
// itself unavailable and Get, GetAll and Add fail with
// domain.ErrConfigurationMissing. Templates are loaded on first use or on
// Refresh.
func NewTemplateService(repo driven.TemplateRepository) *TemplateService {
	return &TemplateService{
		repo:      repo,
		templates: map[string]string{},
		names:     []string{},
	}
}

// SetRepository swaps the backing repository, as after a settings change.
// The next read reloads from it. Passing nil makes the service unavailable.
func (s *TemplateService) SetRepository(repo driven.TemplateRepository) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.repo = repo
	s.loaded = false
}

// Refresh reloads every template from the repository.
func (s *TemplateService) Refresh(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reloadLocked(ctx)
}

// Status reports availability and per-template metadata.
func (s *TemplateService) Status(ctx context.Context, refresh bool) (*domain.TemplateStatus, error) {
	if err := s.prepare(ctx, refresh); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return &domain.TemplateStatus{
		Available: s.repo != nil,
		Templates: s.infoLocked(),
	}, nil
}

// List returns metadata for every loaded template, sorted by name.
func (s *TemplateService) List(ctx context.Context) ([]domain.TemplateInfo, error) {
	if err := s.prepare(ctx, false); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.infoLocked(), nil
}

// Get renders the named template. An unknown name renders as empty text.
func (s *TemplateService) Get(
	ctx context.Context, name string, params map[string]string, refresh bool,
) (*domain.RenderedTemplate, error) {
	if err := s.prepare(ctx, refresh); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.repo == nil {
		return nil, fmt.Errorf("get template %q: %w", name, domain.ErrConfigurationMissing)
	}

	text, ok := s.templates[name]
	if !ok {
		logger.Debug("template %q not found, rendering empty text", name)
	}
	return renderTemplate(name, text, params), nil
}

// GetAll renders every known template with the same parameters, sorted by name.
func (s *TemplateService) GetAll(
	ctx context.Context, params map[string]string, refresh bool,
) ([]domain.RenderedTemplate, error) {
	if err := s.prepare(ctx, refresh); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.repo == nil {
		return nil, fmt.Errorf("get templates: %w", domain.ErrConfigurationMissing)
	}

	result := make([]domain.RenderedTemplate, 0, len(s.names))
	for _, name := range s.names {
		result = append(result, *renderTemplate(name, s.templates[name], params))
	}
	return result, nil
}

// Add saves the template and reloads the store under the write lock.
func (s *TemplateService) Add(ctx context.Context, name, text string) error {
	if err := domain.ValidateName("template", name); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.repo == nil {
		return fmt.Errorf("add template %q: %w", name, domain.ErrConfigurationMissing)
	}

	if err := s.repo.Save(ctx, name, text); err != nil {
		return fmt.Errorf("save template %q: %w", name, err)
	}
	logger.Info("template %s saved to %s", name, s.repo.Location())
	return s.reloadLocked(ctx)
}

// prepare refreshes when asked to, or loads once on first use.
func (s *TemplateService) prepare(ctx context.Context, refresh bool) error {
	if refresh {
		return s.Refresh(ctx)
	}

	s.mu.RLock()
	loaded := s.loaded
	s.mu.RUnlock()
	if loaded {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return nil
	}
	return s.reloadLocked(ctx)
}

func (s *TemplateService) reloadLocked(ctx context.Context) error {
	if s.repo == nil {
		s.templates = map[string]string{}
		s.names = []string{}
		s.loaded = true
		logger.Warn("template directory is not configured, templates unavailable")
		return nil
	}

	loaded, err := s.repo.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("refresh templates: %w", err)
	}

	templates := make(map[string]string, len(loaded))
	for _, t := range loaded {
		templates[t.Name] = t.Text
	}
	names := make([]string, 0, len(templates))
	for name := range templates {
		names = append(names, name)
	}
	sort.Strings(names)

	s.templates = templates
	s.names = names
	s.loaded = true

	logger.Info("loaded %d templates from %s", len(names), s.repo.Location())
	for _, name := range names {
		logger.Debug("  %s", domain.Template{Name: name, Text: templates[name]}.Info())
	}
	return nil
}

func (s *TemplateService) infoLocked() []domain.TemplateInfo {
	infos := make([]domain.TemplateInfo, 0, len(s.names))
	for _, name := range s.names {
		infos = append(infos, domain.Template{Name: name, Text: s.templates[name]}.Info())
	}
	return infos
}

func renderTemplate(name, text string, params map[string]string) *domain.RenderedTemplate {
	supplied := make(map[string]string, len(params))
	for k, v := range params {
		supplied[k] = v
	}
	return &domain.RenderedTemplate{
		Name:   name,
		Text:   Render(text, params),
		Params: supplied,
	}
}
