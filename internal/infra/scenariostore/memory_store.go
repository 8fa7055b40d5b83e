package scenariostore

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/marcus-medeiros/analise-bess/internal/domain/scenario"
)

// MemoryStore keeps state counters in process memory for tests/dev.
type MemoryStore struct {
	mu     sync.RWMutex
	counts map[string]int64
}

// NewMemoryStore constructs a store backed by process memory.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{counts: make(map[string]int64)}
}

// IncrementState implements scenario.Store.
func (s *MemoryStore) IncrementState(_ context.Context, code string) error {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts[code]++
	return nil
}

// TopStates returns the most selected states, ties ordered by code.
func (s *MemoryStore) TopStates(_ context.Context, limit int) ([]scenario.StateCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit <= 0 {
		limit = len(s.counts)
	}
	items := make([]scenario.StateCount, 0, len(s.counts))
	for code, count := range s.counts {
		items = append(items, scenario.StateCount{State: code, Count: count})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Count == items[j].Count {
			return items[i].State < items[j].State
		}
		return items[i].Count > items[j].Count
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

var _ scenario.Store = (*MemoryStore)(nil)
