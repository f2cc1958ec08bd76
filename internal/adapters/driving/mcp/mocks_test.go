package mcp

import (
	"context"

	"github.com/custodia-labs/promptcorpus/internal/core/domain"
	"github.com/custodia-labs/promptcorpus/internal/core/ports/driving"
)

// mockTemplateService is a mock implementation of driving.TemplateService.
type mockTemplateService struct {
	status    *domain.TemplateStatus
	infos     []domain.TemplateInfo
	rendered  *domain.RenderedTemplate
	all       []domain.RenderedTemplate
	err       error
	refreshes int

	lastName    string
	lastParams  map[string]string
	lastRefresh bool
	lastText    string
}

func (m *mockTemplateService) Status(_ context.Context, refresh bool) (*domain.TemplateStatus, error) {
	m.lastRefresh = refresh
	if m.err != nil {
		return nil, m.err
	}
	if m.status == nil {
		return &domain.TemplateStatus{Available: true, Templates: []domain.TemplateInfo{}}, nil
	}
	return m.status, nil
}

func (m *mockTemplateService) Refresh(_ context.Context) error {
	m.refreshes++
	return m.err
}

func (m *mockTemplateService) Get(
	_ context.Context, name string, params map[string]string, refresh bool,
) (*domain.RenderedTemplate, error) {
	m.lastName, m.lastParams, m.lastRefresh = name, params, refresh
	if m.err != nil {
		return nil, m.err
	}
	if m.rendered != nil {
		return m.rendered, nil
	}
	return &domain.RenderedTemplate{Name: name, Params: map[string]string{}}, nil
}

func (m *mockTemplateService) GetAll(
	_ context.Context, params map[string]string, refresh bool,
) ([]domain.RenderedTemplate, error) {
	m.lastParams, m.lastRefresh = params, refresh
	return m.all, m.err
}

func (m *mockTemplateService) Add(_ context.Context, name, text string) error {
	m.lastName, m.lastText = name, text
	return m.err
}

func (m *mockTemplateService) List(_ context.Context) ([]domain.TemplateInfo, error) {
	return m.infos, m.err
}

// mockDatasetService is a mock implementation of driving.DatasetService.
type mockDatasetService struct {
	infos   []domain.DatasetInfo
	info    *domain.DatasetInfo
	infoErr error
	err     error
	created *driving.CreateDatasetRequest
}

func (m *mockDatasetService) Create(_ context.Context, req driving.CreateDatasetRequest) (*domain.DatasetInfo, error) {
	m.created = &req
	if m.err != nil {
		return nil, m.err
	}
	if m.info != nil {
		return m.info, nil
	}
	return &domain.DatasetInfo{Name: req.Name, Description: req.Description, BucketNum: req.BucketNum}, nil
}

func (m *mockDatasetService) GetInfo(_ context.Context, _ string) (*domain.DatasetInfo, error) {
	if m.infoErr != nil {
		return nil, m.infoErr
	}
	return m.info, m.err
}

func (m *mockDatasetService) ListInfo(_ context.Context) ([]domain.DatasetInfo, error) {
	return m.infos, m.err
}

// mockCorpusService is a mock implementation of driving.CorpusService.
type mockCorpusService struct {
	result  *driving.AddCorpusResult
	err     error
	dataset string
	corpus  *domain.Corpus
}

func (m *mockCorpusService) AddCorpus(
	_ context.Context, dataset string, corpus *domain.Corpus,
) (*driving.AddCorpusResult, error) {
	m.dataset, m.corpus = dataset, corpus
	return m.result, m.err
}

// newTestServer builds a server over the given mocks, filling in defaults.
func newTestServer(
	templates *mockTemplateService, datasets *mockDatasetService, corpus *mockCorpusService,
) (*Server, error) {
	if templates == nil {
		templates = &mockTemplateService{}
	}
	if datasets == nil {
		datasets = &mockDatasetService{}
	}
	if corpus == nil {
		corpus = &mockCorpusService{}
	}
	return NewServer(&Ports{Templates: templates, Datasets: datasets, Corpus: corpus})
}
