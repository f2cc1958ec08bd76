package services

import (
	"crypto/sha256"
	"fmt"
	"math/big"

	"github.com/custodia-labs/promptcorpus/internal/core/domain"
)

// BucketID selects the bucket for a serialized record.
// The SHA-256 digest is read as a big-endian unsigned integer; the result is
// (digest mod bucketNum) + 1, so it always lies in [1, bucketNum].
func BucketID(serialized []byte, bucketNum int) (int, error) {
	if bucketNum < 1 {
		return 0, fmt.Errorf("bucket_num must be at least 1, got %d: %w", bucketNum, domain.ErrInvalidInput)
	}
	sum := sha256.Sum256(serialized)
	n := new(big.Int).SetBytes(sum[:])
	n.Mod(n, big.NewInt(int64(bucketNum)))
	return int(n.Int64()) + 1, nil
}
