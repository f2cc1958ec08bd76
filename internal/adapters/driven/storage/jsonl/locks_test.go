package jsonl

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLockTable_SameMutexPerPath(t *testing.T) {
	var table lockTable

	a := table.get("/x/bucket_1.jsonl")
	b := table.get("/x/bucket_1.jsonl")
	c := table.get("/x/bucket_2.jsonl")

	assert.Same(t, a, b)
	assert.NotSame(t, a, c)
	assert.Equal(t, 2, table.len())
}

func TestLockTable_ConcurrentGet(t *testing.T) {
	var table lockTable
	got := make([]*sync.Mutex, 32)

	var wg sync.WaitGroup
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i] = table.get("/same")
		}(i)
	}
	wg.Wait()

	for _, mu := range got {
		assert.Same(t, got[0], mu)
	}
}
