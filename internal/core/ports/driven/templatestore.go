package driven

import (
	"context"

	"github.com/custodia-labs/promptcorpus/internal/core/domain"
)

// TemplateRepository persists base prompt templates.
// Implementations own one backing location; names map 1:1 onto entries.
type TemplateRepository interface {
	// LoadAll returns every stored template, trimmed of surrounding whitespace.
	// A backing location that does not exist yet yields an empty result.
	LoadAll(ctx context.Context) ([]domain.Template, error)

	// Save creates or overwrites the named template.
	Save(ctx context.Context, name, text string) error

	// Location describes where templates are kept (a directory path for
	// file implementations). Used in logs and status output.
	Location() string
}
