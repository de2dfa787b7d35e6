package store

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/53Karthik/Summary-Q-A-Insight-Engine/types"
)

// MemoryStore keeps history in process memory. It backs deployments
// without a Postgres DSN and the test suite.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string][]types.HistoryEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string][]types.HistoryEntry)}
}

func (m *MemoryStore) AppendEntry(_ context.Context, entry types.HistoryEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[entry.OwnerID] = append(m.entries[entry.OwnerID], entry)
	return nil
}

func (m *MemoryStore) ListByOwner(_ context.Context, ownerID string, limit int) ([]types.HistoryEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]types.HistoryEntry, len(m.entries[ownerID]))
	copy(out, m.entries[ownerID])
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MemoryStore) Init(context.Context) error { return nil }

func (m *MemoryStore) Close() error { return nil }
