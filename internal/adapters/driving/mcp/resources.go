package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/promptcorpus/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for promptcorpus resources.
	uriScheme = "promptcorpus://"

	templatesPrefix = uriScheme + "templates/"
	datasetsPrefix  = uriScheme + "datasets/"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "templates",
		Name:        "templates",
		Description: "Metadata for every loaded base prompt template",
		MIMEType:    "application/json",
	}, s.handleTemplatesResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: templatesPrefix + "{name}",
		Name:        "template-text",
		Description: "Raw text of a base prompt template",
		MIMEType:    "text/plain",
	}, s.handleTemplateTextResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "datasets",
		Name:        "datasets",
		Description: "Descriptors of all readable corpus datasets",
		MIMEType:    "application/json",
	}, s.handleDatasetsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: datasetsPrefix + "{name}",
		Name:        "dataset-info",
		Description: "Descriptor of one corpus dataset",
		MIMEType:    "application/json",
	}, s.handleDatasetResource)
}

// handleTemplatesResource returns metadata for every template.
func (s *Server) handleTemplatesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	status, err := s.ports.Templates.Status(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("listing templates: %w", err)
	}
	return jsonResult(req.Params.URI, toInfoOutputs(status.Templates))
}

// handleTemplateTextResource returns the unrendered text of a template.
func (s *Server) handleTemplateTextResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	name := extractName(req.Params.URI, templatesPrefix)
	if name == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	infos, err := s.ports.Templates.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing templates: %w", err)
	}
	if !containsTemplate(infos, name) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	rendered, err := s.ports.Templates.Get(ctx, name, nil, false)
	if err != nil {
		return nil, fmt.Errorf("getting template: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     rendered.Text,
		}},
	}, nil
}

// handleDatasetsResource returns every readable dataset descriptor.
func (s *Server) handleDatasetsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	infos, err := s.ports.Datasets.ListInfo(ctx)
	if errors.Is(err, domain.ErrConfigurationMissing) {
		return jsonResult(req.Params.URI, []DatasetOutput{})
	}
	if err != nil {
		return nil, fmt.Errorf("listing datasets: %w", err)
	}

	out := make([]DatasetOutput, len(infos))
	for i, info := range infos {
		out[i] = toDatasetOutput(info)
	}
	return jsonResult(req.Params.URI, out)
}

// handleDatasetResource returns one dataset descriptor.
func (s *Server) handleDatasetResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	name := extractName(req.Params.URI, datasetsPrefix)
	if name == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	info, err := s.ports.Datasets.GetInfo(ctx, name)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("getting dataset: %w", err)
	}
	return jsonResult(req.Params.URI, toDatasetOutput(*info))
}

func jsonResult(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractName returns the single path element after prefix, or "".
func extractName(uri, prefix string) string {
	if !strings.HasPrefix(uri, prefix) {
		return ""
	}
	name := strings.TrimPrefix(uri, prefix)
	if strings.Contains(name, "/") {
		return ""
	}
	return name
}

func containsTemplate(infos []domain.TemplateInfo, name string) bool {
	for _, info := range infos {
		if info.Name == name {
			return true
		}
	}
	return false
}
