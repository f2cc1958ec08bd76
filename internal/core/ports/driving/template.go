package driving

import (
	"context"

	"github.com/custodia-labs/promptcorpus/internal/core/domain"
)

// TemplateService manages and renders base prompt templates.
type TemplateService interface {
	// Status reports availability and per-template metadata.
	// If refresh is true the store reloads first.
	Status(ctx context.Context, refresh bool) (*domain.TemplateStatus, error)

	// Refresh reloads all templates from the backing directory.
	// With no directory configured the store becomes unavailable; no error.
	Refresh(ctx context.Context) error

	// Get renders the named template. Unknown names render as empty text.
	// Returns domain.ErrConfigurationMissing if no directory is configured.
	Get(ctx context.Context, name string, params map[string]string, refresh bool) (*domain.RenderedTemplate, error)

	// GetAll renders every known template with the same parameters.
	GetAll(ctx context.Context, params map[string]string, refresh bool) ([]domain.RenderedTemplate, error)

	// Add persists or overwrites a template, then reloads the store.
	Add(ctx context.Context, name, text string) error

	// List returns metadata for every loaded template, sorted by name.
	List(ctx context.Context) ([]domain.TemplateInfo, error)
}
