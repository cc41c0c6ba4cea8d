package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Memory keeps everything in process memory.
type Memory struct {
	mu      sync.RWMutex
	records []Record
	byID    map[string]int
	stats   Stats
	now     func() time.Time
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{byID: make(map[string]int), now: time.Now}
}

// CreateRecord assigns an ID and creation time and appends r.
func (m *Memory) CreateRecord(_ context.Context, r Record) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r.ID = uuid.NewString()
	r.CreatedAt = m.now().UTC()
	m.byID[r.ID] = len(m.records)
	m.records = append(m.records, r)
	return r, nil
}

func (m *Memory) GetRecord(_ context.Context, id string) (Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	i, ok := m.byID[id]
	if !ok {
		return Record{}, ErrNotFound
	}
	return m.records[i], nil
}

// GetRecent returns up to n records, newest first.
func (m *Memory) GetRecent(_ context.Context, n int) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if n <= 0 || n > len(m.records) {
		n = len(m.records)
	}
	out := make([]Record, 0, n)
	for i := len(m.records) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, m.records[i])
	}
	return out, nil
}

func (m *Memory) GetStats(_ context.Context) (Stats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.stats, nil
}

// UpdateStats adds delta under the write lock and returns the new totals.
func (m *Memory) UpdateStats(_ context.Context, delta Stats) (Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats = m.stats.Add(delta)
	return m.stats, nil
}

var _ Store = (*Memory)(nil)
