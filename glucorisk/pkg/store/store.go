package store

import (
	"glucotrend/glucorisk/defs"
	"sync"
)

type SeriesReader interface {
	Get() (defs.Upload, bool)
}

type SeriesWriter interface {
	Put(u defs.Upload)
	Clear()
}

type SeriesStore interface {
	SeriesReader
	SeriesWriter
}

// MemoryStore holds at most one upload, the current one. Put replaces it
// wholesale; values are copied in and out so callers never share the backing
// series.
type MemoryStore struct {
	mu      sync.RWMutex
	current *defs.Upload
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (ms *MemoryStore) Put(u defs.Upload) {
	u.Series = u.Series.Clone()

	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.current = &u
}

func (ms *MemoryStore) Get() (defs.Upload, bool) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	if ms.current == nil {
		return defs.Upload{}, false
	}
	u := *ms.current
	u.Series = u.Series.Clone()
	return u, true
}

func (ms *MemoryStore) Clear() {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.current = nil
}
