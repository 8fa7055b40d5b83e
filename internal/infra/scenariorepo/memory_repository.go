package scenariorepo

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/marcus-medeiros/analise-bess/internal/domain/scenario"
)

// MemoryRepository is an in-memory scenario.Repository used for tests/dev.
type MemoryRepository struct {
	mu      sync.RWMutex
	records map[uuid.UUID]scenario.Scenario
}

// NewMemoryRepository constructs a repo backed by memory.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{records: make(map[uuid.UUID]scenario.Scenario)}
}

// Insert implements scenario.Repository.
func (r *MemoryRepository) Insert(_ context.Context, s scenario.Scenario) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[s.ID] = s
	return nil
}

// Get implements scenario.Repository.
func (r *MemoryRepository) Get(_ context.Context, id uuid.UUID) (scenario.Scenario, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.records[id]
	return s, ok, nil
}

// List returns the newest scenarios first.
func (r *MemoryRepository) List(_ context.Context, limit int) ([]scenario.Scenario, error) {
	r.mu.RLock()
	items := make([]scenario.Scenario, 0, len(r.records))
	for _, s := range r.records {
		items = append(items, s)
	}
	r.mu.RUnlock()

	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ID.String() < items[j].ID.String()
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

var _ scenario.Repository = (*MemoryRepository)(nil)
