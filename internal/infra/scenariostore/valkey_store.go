package scenariostore

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/valkey-io/valkey-go"

	"github.com/marcus-medeiros/analise-bess/internal/domain/scenario"
)

// ValkeyStore keeps state counters in a Valkey sorted set.
type ValkeyStore struct {
	client valkey.Client
	prefix string
}

// NewValkeyStore constructs a new store backed by Valkey.
func NewValkeyStore(client valkey.Client, prefix string) *ValkeyStore {
	if prefix == "" {
		prefix = "bess"
	}
	return &ValkeyStore{client: client, prefix: prefix}
}

func (s *ValkeyStore) IncrementState(ctx context.Context, code string) error {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil
	}
	return s.client.Do(ctx, s.client.B().Zincrby().Key(s.statesKey()).Increment(1).Member(code).Build()).Error()
}

func (s *ValkeyStore) TopStates(ctx context.Context, limit int) ([]scenario.StateCount, error) {
	if limit <= 0 {
		limit = 10
	}
	resp := s.client.Do(ctx, s.client.B().Zrevrange().Key(s.statesKey()).Start(0).Stop(int64(limit-1)).Withscores().Build())
	scores, err := resp.AsZScores()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return nil, nil
		}
		return nil, err
	}
	return stateCounts(scores), nil
}

// stateCounts converts sorted-set entries, already ordered by score, into counters.
func stateCounts(scores []valkey.ZScore) []scenario.StateCount {
	out := make([]scenario.StateCount, 0, len(scores))
	for _, z := range scores {
		code := strings.ToUpper(strings.TrimSpace(z.Member))
		if code == "" {
			continue
		}
		out = append(out, scenario.StateCount{State: code, Count: int64(math.Round(z.Score))})
	}
	return out
}

func (s *ValkeyStore) statesKey() string {
	return fmt.Sprintf("%s:states", s.prefix)
}

var _ scenario.Store = (*ValkeyStore)(nil)
