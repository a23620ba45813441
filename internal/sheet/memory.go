package sheet

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore keeps sheets in memory. Reads and writes copy the table so
// callers never share backing arrays with the store.
type MemoryStore struct {
	mu     sync.RWMutex
	sheets map[string]Table
}

// NewMemoryStore returns a store pre-populated with the given sheets.
func NewMemoryStore(sheets map[string]Table) *MemoryStore {
	m := &MemoryStore{sheets: make(map[string]Table, len(sheets))}
	for name, t := range sheets {
		m.sheets[name] = t.Clone()
	}
	return m
}

// Open returns a handle for the named sheet.
func (m *MemoryStore) Open(name string) Sheet {
	return &memorySheet{store: m, name: name}
}

// Snapshot returns a copy of the named sheet and whether it exists.
func (m *MemoryStore) Snapshot(name string) (Table, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.sheets[name]
	return t.Clone(), ok
}

type memorySheet struct {
	store *MemoryStore
	name  string
}

func (s *memorySheet) Name() string { return s.name }

func (s *memorySheet) Read(ctx context.Context) (Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t, ok := s.store.Snapshot(s.name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSheetNotFound, s.name)
	}
	return t, nil
}

func (s *memorySheet) Write(ctx context.Context, t Table) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	s.store.sheets[s.name] = t.Clone()
	return nil
}
