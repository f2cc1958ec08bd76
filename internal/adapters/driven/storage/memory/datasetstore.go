package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/promptcorpus/internal/core/domain"
	"github.com/custodia-labs/promptcorpus/internal/core/ports/driven"
)

// Ensure DatasetStore implements the interface.
var _ driven.DatasetStore = (*DatasetStore)(nil)

type dataset struct {
	info    *domain.DatasetInfo
	readErr error
	buckets map[int][]string
}

// DatasetStore is an in-memory implementation of driven.DatasetStore.
// A single mutex serializes every operation.
type DatasetStore struct {
	mu       sync.RWMutex
	datasets map[string]*dataset
}

// NewDatasetStore creates a new in-memory dataset store.
func NewDatasetStore() *DatasetStore {
	return &DatasetStore{
		datasets: make(map[string]*dataset),
	}
}

// PutBroken registers a dataset whose descriptor read fails with err,
// standing in for a directory without a readable INFO.json.
func (s *DatasetStore) PutBroken(name string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.datasets[name] = &dataset{readErr: err, buckets: make(map[int][]string)}
}

// Lines returns the records appended to one bucket, in order.
func (s *DatasetStore) Lines(name string, bucketID int) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ds, ok := s.datasets[name]
	if !ok {
		return nil
	}
	return append([]string(nil), ds.buckets[bucketID]...)
}

// CreateDataset stores the descriptor.
func (s *DatasetStore) CreateDataset(_ context.Context, info domain.DatasetInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.datasets[info.Name]; ok {
		return fmt.Errorf("dataset %q: %w", info.Name, domain.ErrAlreadyExists)
	}
	stored := info
	s.datasets[info.Name] = &dataset{info: &stored, buckets: make(map[int][]string)}
	return nil
}

// ReadInfo returns a copy of the stored descriptor.
func (s *DatasetStore) ReadInfo(_ context.Context, name string) (*domain.DatasetInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ds, ok := s.datasets[name]
	if !ok {
		return nil, fmt.Errorf("dataset %q: %w", name, domain.ErrNotFound)
	}
	if ds.readErr != nil {
		return nil, ds.readErr
	}
	info := *ds.info
	return &info, nil
}

// ListDatasets returns all dataset names, sorted.
func (s *DatasetStore) ListDatasets(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.datasets))
	for name := range s.datasets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// AppendRecord appends a copy of line to the bucket.
func (s *DatasetStore) AppendRecord(_ context.Context, name string, bucketID int, line []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ds, ok := s.datasets[name]
	if !ok {
		return fmt.Errorf("dataset %q: %w", name, domain.ErrNotFound)
	}
	ds.buckets[bucketID] = append(ds.buckets[bucketID], string(line))
	return nil
}
