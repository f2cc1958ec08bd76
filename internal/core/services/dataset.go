package services

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/promptcorpus/internal/core/domain"
	"github.com/custodia-labs/promptcorpus/internal/core/ports/driven"
	"github.com/custodia-labs/promptcorpus/internal/core/ports/driving"
	"github.com/custodia-labs/promptcorpus/internal/logger"
)

// Ensure DatasetService implements the interface.
var _ driving.DatasetService = (*DatasetService)(nil)

// defaultListConcurrency bounds concurrent descriptor reads in ListInfo.
const defaultListConcurrency = 8

// DatasetService is the dataset registry: it creates datasets and reads their
// descriptors.
type DatasetService struct {
	store           driven.DatasetStore
	listConcurrency int
}

// NewDatasetService creates a dataset service.
// A nil store means no corpus directory is configured; every operation then
// fails with domain.ErrConfigurationMissing.
func NewDatasetService(store driven.DatasetStore) *DatasetService {
	return &DatasetService{
		store:           store,
		listConcurrency: defaultListConcurrency,
	}
}

// Create validates the request and creates the dataset.
func (s *DatasetService) Create(ctx context.Context, req driving.CreateDatasetRequest) (*domain.DatasetInfo, error) {
	if s.store == nil {
		return nil, fmt.Errorf("create dataset: %w", domain.ErrConfigurationMissing)
	}

	info, err := domain.NewDatasetInfo(req.Name, req.Description, req.BucketNum)
	if err != nil {
		return nil, err
	}

	err = s.store.CreateDataset(ctx, *info)
	switch {
	case errors.Is(err, domain.ErrAlreadyExists):
		if !req.ExistOK {
			return nil, err
		}
		logger.Warn("dataset %s already exists, creation skipped", req.Name)
		existing, rerr := s.store.ReadInfo(ctx, req.Name)
		if rerr != nil {
			logger.Warn("existing dataset %s has no readable descriptor: %v", req.Name, rerr)
			return nil, nil
		}
		return existing, nil
	case err != nil:
		return nil, fmt.Errorf("create dataset %q: %w", req.Name, err)
	}

	logger.Info("dataset %s created with %d buckets", info.Name, info.BucketNum)
	return info, nil
}

// GetInfo returns the descriptor of a dataset.
func (s *DatasetService) GetInfo(ctx context.Context, name string) (*domain.DatasetInfo, error) {
	if s.store == nil {
		return nil, fmt.Errorf("get dataset info: %w", domain.ErrConfigurationMissing)
	}
	if err := domain.ValidateName("dataset", name); err != nil {
		return nil, err
	}
	return s.store.ReadInfo(ctx, name)
}

// ListInfo reads every dataset descriptor concurrently. A dataset whose
// descriptor cannot be read is logged and left out; it never fails the list.
func (s *DatasetService) ListInfo(ctx context.Context) ([]domain.DatasetInfo, error) {
	if s.store == nil {
		return nil, fmt.Errorf("list datasets: %w", domain.ErrConfigurationMissing)
	}

	names, err := s.store.ListDatasets(ctx)
	if err != nil {
		return nil, fmt.Errorf("list datasets: %w", err)
	}

	infos := make([]*domain.DatasetInfo, len(names))
	var g errgroup.Group
	g.SetLimit(s.listConcurrency)
	for i, name := range names {
		g.Go(func() error {
			info, err := s.store.ReadInfo(ctx, name)
			if err != nil {
				logger.Warn("skipping dataset %s: %v", name, err)
				return nil
			}
			infos[i] = info
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := make([]domain.DatasetInfo, 0, len(names))
	for _, info := range infos {
		if info != nil {
			result = append(result, *info)
		}
	}
	return result, nil
}
