package scenario

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists saved scenarios.
type Repository interface {
	Insert(ctx context.Context, s Scenario) error
	Get(ctx context.Context, id uuid.UUID) (Scenario, bool, error)
	List(ctx context.Context, limit int) ([]Scenario, error)
}

// Store keeps the state selection counters.
type Store interface {
	IncrementState(ctx context.Context, code string) error
	TopStates(ctx context.Context, limit int) ([]StateCount, error)
}
