package scenariostore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/marcus-medeiros/analise-bess/internal/domain/scenario"
)

func TestMemoryStoreTopStates(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	for _, code := range []string{"ba", "PE", "BA", " ce ", "PE", "BA", ""} {
		require.NoError(t, store.IncrementState(ctx, code))
	}

	top, err := store.TopStates(ctx, 2)
	require.NoError(t, err)
	require.Equal(t, []scenario.StateCount{{State: "BA", Count: 3}, {State: "PE", Count: 2}}, top)

	all, err := store.TopStates(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, "CE", all[2].State)
}
