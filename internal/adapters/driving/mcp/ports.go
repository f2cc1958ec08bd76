package mcp

import (
	"github.com/custodia-labs/promptcorpus/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Templates renders and manages base prompts.
	Templates driving.TemplateService

	// Datasets manages corpus datasets.
	Datasets driving.DatasetService

	// Corpus appends conversation records to datasets.
	Corpus driving.CorpusService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Templates == nil {
		return ErrMissingTemplateService
	}
	if p.Datasets == nil {
		return ErrMissingDatasetService
	}
	if p.Corpus == nil {
		return ErrMissingCorpusService
	}
	return nil
}
