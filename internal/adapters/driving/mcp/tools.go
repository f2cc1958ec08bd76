package mcp

import (
	"context"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/promptcorpus/internal/core/domain"
	"github.com/custodia-labs/promptcorpus/internal/core/ports/driving"
)

// TemplateStatusInput is the input schema for the template_status tool.
type TemplateStatusInput struct {
	Refresh bool `json:"refresh,omitempty" jsonschema:"reload templates from disk first"`
}

// TemplateInfoOutput describes one template.
type TemplateInfoOutput struct {
	Name     string `json:"name"`
	Length   int    `json:"length"`
	ParamNum int    `json:"param_num"`
}

// TemplateStatusOutput is the output schema for the template_status tool.
type TemplateStatusOutput struct {
	Available bool                 `json:"is_available"`
	Templates []TemplateInfoOutput `json:"base_prompt_info"`
}

// TemplateRefreshInput is the input schema for the template_refresh tool.
type TemplateRefreshInput struct{}

// TemplateRefreshOutput is the output schema for the template_refresh tool.
type TemplateRefreshOutput struct {
	Available bool `json:"is_available"`
	Count     int  `json:"count"`
}

// TemplateGetInput is the input schema for the template_get tool.
type TemplateGetInput struct {
	Name    string            `json:"name" jsonschema:"template name"`
	Params  map[string]string `json:"params,omitempty" jsonschema:"values for {{{placeholder}}} substitution"`
	Refresh bool              `json:"refresh,omitempty" jsonschema:"reload templates from disk first"`
}

// RenderedTemplateOutput is a rendered template.
type RenderedTemplateOutput struct {
	Name   string            `json:"name"`
	Text   string            `json:"text"`
	Params map[string]string `json:"params"`
}

// TemplateGetAllInput is the input schema for the template_get_all tool.
type TemplateGetAllInput struct {
	Params  map[string]string `json:"params,omitempty" jsonschema:"values for {{{placeholder}}} substitution"`
	Refresh bool              `json:"refresh,omitempty" jsonschema:"reload templates from disk first"`
}

// TemplateGetAllOutput is the output schema for the template_get_all tool.
type TemplateGetAllOutput struct {
	Templates []RenderedTemplateOutput `json:"templates"`
	Count     int                      `json:"count"`
}

// TemplateAddInput is the input schema for the template_add tool.
type TemplateAddInput struct {
	Name string `json:"name" jsonschema:"template name, also its file name without .txt"`
	Text string `json:"text" jsonschema:"template text using {{{name}}} placeholders"`
}

// TemplateAddOutput is the output schema for the template_add tool.
type TemplateAddOutput struct {
	Name     string `json:"name"`
	Length   int    `json:"length"`
	ParamNum int    `json:"param_num"`
}

// DatasetOutput is a dataset descriptor.
type DatasetOutput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	BucketNum   int    `json:"bucket_num"`
}

// DatasetListInput is the input schema for the dataset_list tool.
type DatasetListInput struct{}

// DatasetListOutput is the output schema for the dataset_list tool.
type DatasetListOutput struct {
	Datasets []DatasetOutput `json:"datasets"`
	Count    int             `json:"count"`
}

// DatasetInfoInput is the input schema for the dataset_info tool.
type DatasetInfoInput struct {
	Name string `json:"name" jsonschema:"dataset name"`
}

// DatasetCreateInput is the input schema for the dataset_create tool.
type DatasetCreateInput struct {
	Name        string `json:"name" jsonschema:"dataset name, also its directory name"`
	Description string `json:"description,omitempty" jsonschema:"free text description"`
	BucketNum   *int   `json:"bucket_num,omitempty" jsonschema:"number of bucket files (default 8)"`
	ExistOK     bool   `json:"exist_ok,omitempty" jsonschema:"succeed without changes if the dataset exists"`
}

// DatasetCreateOutput is the output schema for the dataset_create tool.
type DatasetCreateOutput struct {
	Created bool           `json:"created"`
	Dataset *DatasetOutput `json:"dataset,omitempty"`
}

// RoleInput identifies the speaker of a message.
type RoleInput struct {
	RoleType string  `json:"role_type" jsonschema:"system, user or assistant"`
	Name     *string `json:"name,omitempty" jsonschema:"optional display name"`
}

// MessageInput is one conversation turn.
type MessageInput struct {
	Role      RoleInput         `json:"role"`
	Content   string            `json:"content"`
	Knowledge map[string]string `json:"knowledge,omitempty" jsonschema:"keys: user_description, datetime_info, background_info, other"`
}

// CorpusAddInput is the input schema for the corpus_add tool.
type CorpusAddInput struct {
	Dataset     string            `json:"dataset" jsonschema:"target dataset name"`
	Data        []MessageInput    `json:"data" jsonschema:"conversation messages in order"`
	RoleNameMap map[string]string `json:"role_name_map,omitempty" jsonschema:"explicit display name to role id table"`
}

// CorpusAddOutput is the output schema for the corpus_add tool.
type CorpusAddOutput struct {
	Dataset  DatasetOutput `json:"dataset"`
	BucketID int           `json:"bucket_id"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "template_status",
		Description: "Report whether templates are available and list them with length and parameter count",
	}, s.handleTemplateStatus)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "template_refresh",
		Description: "Reload all templates from the template directory",
	}, s.handleTemplateRefresh)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "template_get",
		Description: "Render one template; unknown names render as empty text",
	}, s.handleTemplateGet)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "template_get_all",
		Description: "Render every template with the same parameters",
	}, s.handleTemplateGetAll)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "template_add",
		Description: "Create or overwrite a template",
	}, s.handleTemplateAdd)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "dataset_list",
		Description: "List readable corpus datasets",
	}, s.handleDatasetList)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "dataset_info",
		Description: "Show one dataset descriptor",
	}, s.handleDatasetInfo)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "dataset_create",
		Description: "Create a corpus dataset with a fixed number of bucket files",
	}, s.handleDatasetCreate)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "corpus_add",
		Description: "Append a conversation record to a dataset bucket chosen by content hash",
	}, s.handleCorpusAdd)
}

func (s *Server) handleTemplateStatus(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input TemplateStatusInput,
) (*mcp.CallToolResult, TemplateStatusOutput, error) {
	status, err := s.ports.Templates.Status(ctx, input.Refresh)
	if err != nil {
		return nil, TemplateStatusOutput{}, err
	}
	return nil, TemplateStatusOutput{
		Available: status.Available,
		Templates: toInfoOutputs(status.Templates),
	}, nil
}

func (s *Server) handleTemplateRefresh(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ TemplateRefreshInput,
) (*mcp.CallToolResult, TemplateRefreshOutput, error) {
	if err := s.ports.Templates.Refresh(ctx); err != nil {
		return nil, TemplateRefreshOutput{}, err
	}
	status, err := s.ports.Templates.Status(ctx, false)
	if err != nil {
		return nil, TemplateRefreshOutput{}, err
	}
	return nil, TemplateRefreshOutput{
		Available: status.Available,
		Count:     len(status.Templates),
	}, nil
}

func (s *Server) handleTemplateGet(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input TemplateGetInput,
) (*mcp.CallToolResult, RenderedTemplateOutput, error) {
	rendered, err := s.ports.Templates.Get(ctx, input.Name, input.Params, input.Refresh)
	if err != nil {
		return nil, RenderedTemplateOutput{}, err
	}
	return nil, toRenderedOutput(*rendered), nil
}

func (s *Server) handleTemplateGetAll(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input TemplateGetAllInput,
) (*mcp.CallToolResult, TemplateGetAllOutput, error) {
	rendered, err := s.ports.Templates.GetAll(ctx, input.Params, input.Refresh)
	if err != nil {
		return nil, TemplateGetAllOutput{}, err
	}

	output := TemplateGetAllOutput{
		Templates: make([]RenderedTemplateOutput, len(rendered)),
		Count:     len(rendered),
	}
	for i := range rendered {
		output.Templates[i] = toRenderedOutput(rendered[i])
	}
	return nil, output, nil
}

func (s *Server) handleTemplateAdd(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input TemplateAddInput,
) (*mcp.CallToolResult, TemplateAddOutput, error) {
	if err := s.ports.Templates.Add(ctx, input.Name, input.Text); err != nil {
		return nil, TemplateAddOutput{}, err
	}
	info := domain.Template{Name: input.Name, Text: strings.TrimSpace(input.Text)}.Info()
	return nil, TemplateAddOutput{
		Name:     info.Name,
		Length:   info.Length,
		ParamNum: info.ParamNum,
	}, nil
}

func (s *Server) handleDatasetList(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ DatasetListInput,
) (*mcp.CallToolResult, DatasetListOutput, error) {
	infos, err := s.ports.Datasets.ListInfo(ctx)
	if err != nil {
		return nil, DatasetListOutput{}, err
	}

	output := DatasetListOutput{
		Datasets: make([]DatasetOutput, len(infos)),
		Count:    len(infos),
	}
	for i, info := range infos {
		output.Datasets[i] = toDatasetOutput(info)
	}
	return nil, output, nil
}

func (s *Server) handleDatasetInfo(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DatasetInfoInput,
) (*mcp.CallToolResult, DatasetOutput, error) {
	info, err := s.ports.Datasets.GetInfo(ctx, input.Name)
	if err != nil {
		return nil, DatasetOutput{}, err
	}
	return nil, toDatasetOutput(*info), nil
}

func (s *Server) handleDatasetCreate(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DatasetCreateInput,
) (*mcp.CallToolResult, DatasetCreateOutput, error) {
	bucketNum := domain.DefaultBucketNum
	if input.BucketNum != nil {
		bucketNum = *input.BucketNum
	}

	existed := false
	if input.ExistOK {
		if _, err := s.ports.Datasets.GetInfo(ctx, input.Name); err == nil {
			existed = true
		}
	}

	info, err := s.ports.Datasets.Create(ctx, driving.CreateDatasetRequest{
		Name:        input.Name,
		Description: input.Description,
		BucketNum:   bucketNum,
		ExistOK:     input.ExistOK,
	})
	if err != nil {
		return nil, DatasetCreateOutput{}, err
	}

	output := DatasetCreateOutput{Created: !existed && info != nil}
	if info != nil {
		out := toDatasetOutput(*info)
		output.Dataset = &out
	}
	return nil, output, nil
}

func (s *Server) handleCorpusAdd(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input CorpusAddInput,
) (*mcp.CallToolResult, CorpusAddOutput, error) {
	messages := make([]domain.Message, len(input.Data))
	for i, m := range input.Data {
		knowledge := make(map[domain.KnowledgeKey]string, len(m.Knowledge))
		for k, v := range m.Knowledge {
			knowledge[domain.KnowledgeKey(k)] = v
		}
		messages[i] = domain.Message{
			Role:      domain.Role{Type: domain.RoleType(m.Role.RoleType), Name: m.Role.Name},
			Content:   m.Content,
			Knowledge: knowledge,
		}
	}

	corpus, err := domain.NewCorpus(messages, input.RoleNameMap)
	if err != nil {
		return nil, CorpusAddOutput{}, err
	}

	result, err := s.ports.Corpus.AddCorpus(ctx, input.Dataset, corpus)
	if err != nil {
		return nil, CorpusAddOutput{}, err
	}
	return nil, CorpusAddOutput{
		Dataset:  toDatasetOutput(result.Dataset),
		BucketID: result.BucketID,
	}, nil
}

func toInfoOutputs(infos []domain.TemplateInfo) []TemplateInfoOutput {
	out := make([]TemplateInfoOutput, len(infos))
	for i, info := range infos {
		out[i] = TemplateInfoOutput{
			Name:     info.Name,
			Length:   info.Length,
			ParamNum: info.ParamNum,
		}
	}
	return out
}

func toRenderedOutput(r domain.RenderedTemplate) RenderedTemplateOutput {
	return RenderedTemplateOutput{
		Name:   r.Name,
		Text:   r.Text,
		Params: r.Params,
	}
}

func toDatasetOutput(info domain.DatasetInfo) DatasetOutput {
	return DatasetOutput{
		Name:        info.Name,
		Description: info.Description,
		BucketNum:   info.BucketNum,
	}
}
