package domain

import "fmt"

// DefaultBucketNum is the bucket count used when a caller does not choose one.
const DefaultBucketNum = 8

// DatasetInfo is the descriptor persisted alongside a corpus dataset.
// BucketNum is fixed at creation; there is no update operation and no
// re-bucketing of existing files.
type DatasetInfo struct {
	// Name is the dataset name and also its directory name.
	Name string `json:"name"`

	// Description is free text supplied at creation.
	Description string `json:"description"`

	// BucketNum is the number of bucket files records are spread across.
	BucketNum int `json:"bucket_num"`
}

// NewDatasetInfo builds a validated descriptor.
func NewDatasetInfo(name, description string, bucketNum int) (*DatasetInfo, error) {
	info := &DatasetInfo{
		Name:        name,
		Description: description,
		BucketNum:   bucketNum,
	}
	if err := ValidateName("dataset", name); err != nil {
		return nil, err
	}
	if err := info.Validate(); err != nil {
		return nil, err
	}
	return info, nil
}

// Validate checks the descriptor invariants.
func (d DatasetInfo) Validate() error {
	if d.BucketNum < 1 {
		return fmt.Errorf("bucket_num must be at least 1, got %d: %w", d.BucketNum, ErrInvalidInput)
	}
	return nil
}
