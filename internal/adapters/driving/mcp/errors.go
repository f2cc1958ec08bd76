// Package mcp provides an MCP (Model Context Protocol) server adapter.
// It lets AI assistants render base prompts and record corpus conversations.
package mcp

import "errors"

var (
	// ErrMissingTemplateService is returned when the template service is not provided.
	ErrMissingTemplateService = errors.New("mcp: template service is required")

	// ErrMissingDatasetService is returned when the dataset service is not provided.
	ErrMissingDatasetService = errors.New("mcp: dataset service is required")

	// ErrMissingCorpusService is returned when the corpus service is not provided.
	ErrMissingCorpusService = errors.New("mcp: corpus service is required")
)
