package core

import (
	"context"
	"sync"
)

// RunHistory stores finished run records.
type RunHistory interface {
	Record(ctx context.Context, rec RunRecord) error
	// Recent returns up to limit records, newest first.
	Recent(ctx context.Context, limit int) ([]RunRecord, error)
}

// MemoryHistory keeps the last N run records in memory.
type MemoryHistory struct {
	mu      sync.RWMutex
	limit   int
	records []RunRecord // oldest first
}

// NewMemoryHistory returns a history holding at most limit records.
func NewMemoryHistory(limit int) *MemoryHistory {
	if limit <= 0 {
		limit = 50
	}
	return &MemoryHistory{limit: limit}
}

// Record appends rec, dropping the oldest record when full.
func (h *MemoryHistory) Record(_ context.Context, rec RunRecord) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.records = append(h.records, rec)
	if over := len(h.records) - h.limit; over > 0 {
		h.records = append([]RunRecord(nil), h.records[over:]...)
	}
	return nil
}

// Recent returns up to limit records, newest first. A limit <= 0 returns all.
func (h *MemoryHistory) Recent(_ context.Context, limit int) ([]RunRecord, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	n := len(h.records)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]RunRecord, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, h.records[i])
	}
	return out, nil
}
