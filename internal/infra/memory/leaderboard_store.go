package memory

import (
	"context"
	"sync"

	"weekly-quiz-service/internal/domain"
)

// LeaderboardStore is an in-memory implementation of app.LeaderboardStore,
// one board per week key. It is the default when no Redis is configured.
type LeaderboardStore struct {
	mu     sync.RWMutex
	boards map[string][]domain.SubmissionRecord
}

func NewLeaderboardStore() *LeaderboardStore {
	return &LeaderboardStore{
		boards: make(map[string][]domain.SubmissionRecord),
	}
}

// Load returns the board for weekKey, or an empty list when none exists.
func (s *LeaderboardStore) Load(_ context.Context, weekKey string) []domain.SubmissionRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries, ok := s.boards[weekKey]
	if !ok {
		return nil
	}
	out := make([]domain.SubmissionRecord, len(entries))
	copy(out, entries)
	return out
}

// Save overwrites the whole board for weekKey.
func (s *LeaderboardStore) Save(_ context.Context, weekKey string, entries []domain.SubmissionRecord) error {
	stored := make([]domain.SubmissionRecord, len(entries))
	copy(stored, entries)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.boards[weekKey] = stored
	return nil
}

// Clear removes the board for weekKey.
func (s *LeaderboardStore) Clear(_ context.Context, weekKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.boards, weekKey)
	return nil
}
