package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/promptcorpus/internal/core/domain"
	"github.com/custodia-labs/promptcorpus/internal/core/ports/driven"
	"github.com/custodia-labs/promptcorpus/internal/core/ports/driving"
	"github.com/custodia-labs/promptcorpus/internal/logger"
)

// Ensure CorpusService implements the interface.
var _ driving.CorpusService = (*CorpusService)(nil)

// CorpusService is the bucket writer. It resolves the dataset through the
// registry and appends each record to the bucket chosen by its content hash.
type CorpusService struct {
	datasets driving.DatasetService
	store    driven.DatasetStore
}

// NewCorpusService creates a corpus service.
// A nil store means no corpus directory is configured.
func NewCorpusService(datasets driving.DatasetService, store driven.DatasetStore) *CorpusService {
	return &CorpusService{
		datasets: datasets,
		store:    store,
	}
}

// AddCorpus serializes the record canonically, selects its bucket and
// appends it. Identical records always land in the same bucket.
func (s *CorpusService) AddCorpus(
	ctx context.Context, dataset string, corpus *domain.Corpus,
) (*driving.AddCorpusResult, error) {
	if s.store == nil || s.datasets == nil {
		return nil, fmt.Errorf("add corpus: %w", domain.ErrConfigurationMissing)
	}
	if corpus == nil {
		return nil, fmt.Errorf("add corpus: no record: %w", domain.ErrInvalidInput)
	}

	info, err := s.datasets.GetInfo(ctx, dataset)
	if err != nil {
		return nil, err
	}

	line, err := corpus.MarshalCanonical()
	if err != nil {
		return nil, fmt.Errorf("serialize corpus: %w", err)
	}

	bucketID, err := BucketID(line, info.BucketNum)
	if err != nil {
		return nil, fmt.Errorf("dataset %q: %w", dataset, err)
	}

	if err := s.store.AppendRecord(ctx, dataset, bucketID, line); err != nil {
		return nil, fmt.Errorf("append to dataset %q bucket %d: %w", dataset, bucketID, err)
	}

	logger.Info("corpus record added to dataset %s bucket %d", dataset, bucketID)
	return &driving.AddCorpusResult{Dataset: *info, BucketID: bucketID}, nil
}
