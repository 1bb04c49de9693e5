package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"weekly-quiz-service/internal/domain"
	"github.com/redis/go-redis/v9"
)

// LeaderboardStore persists one JSON-encoded board per week under
// "leaderboard-<weekKey>". Boards have no TTL: past weeks stick around until
// an admin reset.
type LeaderboardStore struct {
	client *redis.Client
}

func NewLeaderboardStore(client *redis.Client) *LeaderboardStore {
	return &LeaderboardStore{client: client}
}

// Load returns the board for weekKey. A missing key, a read failure, or a
// value that no longer parses all load as an empty board; persistence here
// is best-effort by design.
func (s *LeaderboardStore) Load(ctx context.Context, weekKey string) []domain.SubmissionRecord {
	raw, err := s.client.Get(ctx, s.key(weekKey)).Result()
	if err != nil {
		return nil
	}
	var entries []domain.SubmissionRecord
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil
	}
	return entries
}

// Save overwrites the whole board for weekKey.
func (s *LeaderboardStore) Save(ctx context.Context, weekKey string, entries []domain.SubmissionRecord) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshal leaderboard: %w", err)
	}
	if err := s.client.Set(ctx, s.key(weekKey), data, 0).Err(); err != nil {
		return fmt.Errorf("save leaderboard: %w", err)
	}
	return nil
}

// Clear removes the board for weekKey.
func (s *LeaderboardStore) Clear(ctx context.Context, weekKey string) error {
	if err := s.client.Del(ctx, s.key(weekKey)).Err(); err != nil {
		return fmt.Errorf("clear leaderboard: %w", err)
	}
	return nil
}

func (s *LeaderboardStore) key(weekKey string) string {
	return "leaderboard-" + weekKey
}
