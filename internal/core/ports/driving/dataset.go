package driving

import (
	"context"

	"github.com/custodia-labs/promptcorpus/internal/core/domain"
)

// CreateDatasetRequest holds the parameters for creating a dataset.
type CreateDatasetRequest struct {
	Name        string
	Description string
	BucketNum   int

	// ExistOK turns a name collision into a no-op instead of an error.
	ExistOK bool
}

// DatasetService manages corpus datasets and their descriptors.
type DatasetService interface {
	// Create creates a dataset. On an ExistOK collision it returns the
	// existing descriptor when readable, nil otherwise, and no error.
	Create(ctx context.Context, req CreateDatasetRequest) (*domain.DatasetInfo, error)

	// GetInfo returns the descriptor of a dataset.
	GetInfo(ctx context.Context, name string) (*domain.DatasetInfo, error)

	// ListInfo returns every readable dataset descriptor, sorted by name.
	// Unreadable datasets are logged and skipped.
	ListInfo(ctx context.Context) ([]domain.DatasetInfo, error)
}

// AddCorpusResult reports where a record was stored.
type AddCorpusResult struct {
	Dataset  domain.DatasetInfo
	BucketID int
}

// CorpusService appends validated records into datasets.
type CorpusService interface {
	// AddCorpus stores the record in the bucket selected by its content hash.
	AddCorpus(ctx context.Context, dataset string, corpus *domain.Corpus) (*AddCorpusResult, error)
}
