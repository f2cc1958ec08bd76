package driven

import (
	"context"

	"github.com/custodia-labs/promptcorpus/internal/core/domain"
)

// DatasetStore persists corpus datasets: their descriptors and bucket files.
type DatasetStore interface {
	// CreateDataset creates the dataset location and writes its descriptor.
	// Returns domain.ErrAlreadyExists if the dataset location already exists.
	CreateDataset(ctx context.Context, info domain.DatasetInfo) error

	// ReadInfo reads a dataset descriptor.
	// Returns domain.ErrNotFound if the dataset or its descriptor is absent,
	// domain.ErrCorrupted if the descriptor cannot be decoded or is invalid.
	ReadInfo(ctx context.Context, name string) (*domain.DatasetInfo, error)

	// ListDatasets returns the names of all dataset locations, sorted.
	// Entries are not validated; a listed dataset may still fail ReadInfo.
	ListDatasets(ctx context.Context) ([]string, error)

	// AppendRecord appends line plus a newline to the given bucket of a dataset.
	// The bucket file is created on first write. Appends to the same bucket
	// are serialized; a failed append leaves no partial line behind.
	AppendRecord(ctx context.Context, dataset string, bucketID int, line []byte) error
}
