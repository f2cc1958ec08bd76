package jsonl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/custodia-labs/promptcorpus/internal/core/domain"
	"github.com/custodia-labs/promptcorpus/internal/core/ports/driven"
	"github.com/custodia-labs/promptcorpus/internal/fsutil"
)

// Ensure Store implements the interface.
var _ driven.DatasetStore = (*Store)(nil)

const (
	// InfoFile is the descriptor file name inside a dataset directory.
	InfoFile = "INFO.json"

	bucketPrefix = "bucket_"
	bucketExt    = ".jsonl"
)

// BucketFile returns the file name for a bucket id.
func BucketFile(bucketID int) string {
	return bucketPrefix + strconv.Itoa(bucketID) + bucketExt
}

// Store is a filesystem-backed driven.DatasetStore.
type Store struct {
	root  string
	locks lockTable
}

// NewStore creates a dataset store rooted at dir. No I/O happens until the
// first operation; the root is created on the first CreateDataset.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("corpus directory: %w", domain.ErrConfigurationMissing)
	}
	return &Store{root: dir}, nil
}

// Root returns the corpus root directory.
func (s *Store) Root() string {
	return s.root
}

// CreateDataset makes the dataset directory and writes INFO.json.
func (s *Store) CreateDataset(ctx context.Context, info domain.DatasetInfo) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := domain.ValidateName("dataset", info.Name); err != nil {
		return err
	}

	if err := os.MkdirAll(s.root, 0755); err != nil {
		return fmt.Errorf("create corpus directory: %w", err)
	}

	dir := s.datasetDir(info.Name)
	if err := os.Mkdir(dir, 0755); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("dataset %q: %w", info.Name, domain.ErrAlreadyExists)
		}
		return fmt.Errorf("create dataset directory: %w", err)
	}

	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return fmt.Errorf("encode dataset info: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, InfoFile), data, 0644); err != nil {
		// Leave no descriptor-less directory behind for a failed create.
		_ = os.RemoveAll(dir)
		return fmt.Errorf("write dataset info: %w", err)
	}
	return nil
}

// ReadInfo loads and validates <root>/<name>/INFO.json.
func (s *Store) ReadInfo(ctx context.Context, name string) (*domain.DatasetInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := domain.ValidateName("dataset", name); err != nil {
		return nil, err
	}

	data, err := fsutil.ReadUTF8File(filepath.Join(s.datasetDir(name), InfoFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("dataset %q: %w", name, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("read dataset info: %w", err)
	}

	var info domain.DatasetInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("dataset %q descriptor: %v: %w", name, err, domain.ErrCorrupted)
	}
	if err := info.Validate(); err != nil {
		return nil, fmt.Errorf("dataset %q descriptor: %v: %w", name, err, domain.ErrCorrupted)
	}
	return &info, nil
}

// ListDatasets returns the names of all subdirectories of the root, sorted.
// A missing root yields an empty list.
func (s *Store) ListDatasets(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(s.root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("read corpus directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// AppendRecord appends line and a newline to the bucket file under its lock.
// The record is written with one Write call; if it fails the file is
// truncated back to its previous size.
func (s *Store) AppendRecord(ctx context.Context, dataset string, bucketID int, line []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := domain.ValidateName("dataset", dataset); err != nil {
		return err
	}
	if bucketID < 1 {
		return fmt.Errorf("bucket id %d: %w", bucketID, domain.ErrInvalidInput)
	}

	dir := s.datasetDir(dataset)
	if _, err := os.Stat(dir); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("dataset %q: %w", dataset, domain.ErrNotFound)
		}
		return fmt.Errorf("stat dataset directory: %w", err)
	}

	path := filepath.Join(dir, BucketFile(bucketID))
	record := make([]byte, 0, len(line)+1)
	record = append(record, line...)
	record = append(record, '\n')

	mu := s.locks.get(path)
	mu.Lock()
	defer mu.Unlock()

	return appendLine(path, record)
}

func appendLine(path string, record []byte) (err error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open bucket file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close bucket file: %w", cerr)
		}
	}()

	stat, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat bucket file: %w", err)
	}
	size := stat.Size()

	if _, err := f.Write(record); err != nil {
		if terr := f.Truncate(size); terr != nil {
			return fmt.Errorf("write bucket file: %w (truncate: %v)", err, terr)
		}
		return fmt.Errorf("write bucket file: %w", err)
	}
	return nil
}

func (s *Store) datasetDir(name string) string {
	return filepath.Join(s.root, name)
}
