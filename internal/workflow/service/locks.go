package service

import (
	"sync"

	"github.com/google/uuid"
)

// lockTable hands out one mutex per request id. Entries are reference counted
// and removed once no goroutine holds or waits on them.
type lockTable struct {
	mu      sync.Mutex
	entries map[uuid.UUID]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func newLockTable() *lockTable {
	return &lockTable{entries: make(map[uuid.UUID]*lockEntry)}
}

// Lock blocks until the caller holds the lock for id and returns the release function.
func (t *lockTable) Lock(id uuid.UUID) func() {
	t.mu.Lock()
	entry, ok := t.entries[id]
	if !ok {
		entry = &lockEntry{}
		t.entries[id] = entry
	}
	entry.refs++
	t.mu.Unlock()

	entry.mu.Lock()

	var once sync.Once
	return func() {
		once.Do(func() {
			entry.mu.Unlock()

			t.mu.Lock()
			entry.refs--
			if entry.refs == 0 {
				delete(t.entries, id)
			}
			t.mu.Unlock()
		})
	}
}

func (t *lockTable) size() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}
