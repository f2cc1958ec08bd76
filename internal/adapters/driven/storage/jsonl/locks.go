package jsonl

import "sync"

// lockTable hands out one mutex per bucket file path.
// Entries are inserted on first use and never evicted, so its size is bounded
// by the bucket files this process has written to.
type lockTable struct {
	locks sync.Map // path -> *sync.Mutex
}

func (t *lockTable) get(path string) *sync.Mutex {
	if mu, ok := t.locks.Load(path); ok {
		return mu.(*sync.Mutex)
	}
	mu, _ := t.locks.LoadOrStore(path, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

func (t *lockTable) len() int {
	n := 0
	t.locks.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
