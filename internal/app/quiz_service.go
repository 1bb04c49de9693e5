package app

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"weekly-quiz-service/internal/domain"
)

// LeaderboardStore persists the ranked list for each week key (in-memory,
// Redis, etc). Load never fails: a missing or unreadable board is an empty
// list, matching the service's best-effort persistence posture.
type LeaderboardStore interface {
	Load(ctx context.Context, weekKey string) []domain.SubmissionRecord
	Save(ctx context.Context, weekKey string, entries []domain.SubmissionRecord) error
	Clear(ctx context.Context, weekKey string) error
}

// QuestionRepository serves the question bank and accepts admin appends.
type QuestionRepository interface {
	Questions(ctx context.Context) ([]domain.Question, error)
	AddQuestion(ctx context.Context, draft domain.QuestionDraft) (domain.Question, error)
}

// QuizService contains the weekly quiz use cases: scoring submissions,
// ranking the weekly board, exporting it, and the admin operations.
type QuizService struct {
	store      LeaderboardStore
	questions  QuestionRepository
	passphrase string
	now        func() time.Time

	mu sync.Mutex // serializes read-merge-write on the weekly board

	subMu       sync.Mutex
	subscribers map[chan domain.Leaderboard]struct{}
}

func NewQuizService(store LeaderboardStore, questions QuestionRepository, passphrase string) *QuizService {
	return NewQuizServiceWithClock(store, questions, passphrase, time.Now)
}

// NewQuizServiceWithClock allows deterministic timestamps in tests.
func NewQuizServiceWithClock(store LeaderboardStore, questions QuestionRepository, passphrase string, now func() time.Time) *QuizService {
	return &QuizService{
		store:       store,
		questions:   questions,
		passphrase:  passphrase,
		now:         now,
		subscribers: make(map[chan domain.Leaderboard]struct{}),
	}
}

// Questions returns the current question bank in order.
func (s *QuizService) Questions(ctx context.Context) ([]domain.Question, error) {
	return s.questions.Questions(ctx)
}

// Submit scores the answers against the current bank, files the record under
// the week active right now, and returns it with the re-ranked board.
func (s *QuizService) Submit(ctx context.Context, name, twitter string, answers domain.AnswerSet) (domain.SubmissionRecord, domain.Leaderboard, error) {
	bank, err := s.questions.Questions(ctx)
	if err != nil {
		return domain.SubmissionRecord{}, domain.Leaderboard{}, err
	}

	record := domain.SubmissionRecord{
		Name:        name,
		Twitter:     twitter,
		Score:       Score(bank, answers),
		SubmittedAt: s.now(),
	}

	s.mu.Lock()
	weekKey := domain.WeekKey(s.now())
	merged := Merge(s.store.Load(ctx, weekKey), record)
	err = s.store.Save(ctx, weekKey, merged)
	s.mu.Unlock()
	if err != nil {
		return domain.SubmissionRecord{}, domain.Leaderboard{}, fmt.Errorf("save leaderboard: %w", err)
	}

	lb := domain.Leaderboard{WeekKey: weekKey, Entries: merged, UpdatedAt: s.now()}
	s.broadcast(lb)
	return record, lb, nil
}

// Leaderboard returns the board for the week active right now.
func (s *QuizService) Leaderboard(ctx context.Context) domain.Leaderboard {
	weekKey := domain.WeekKey(s.now())
	return domain.Leaderboard{
		WeekKey:   weekKey,
		Entries:   s.store.Load(ctx, weekKey),
		UpdatedAt: s.now(),
	}
}

// Export renders the current week's board as CSV and names the download
// after its week key.
func (s *QuizService) Export(ctx context.Context) (string, []byte, error) {
	weekKey := domain.WeekKey(s.now())
	data, err := ExportCSV(s.store.Load(ctx, weekKey))
	if err != nil {
		return "", nil, err
	}
	return fmt.Sprintf("leaderboard-%s.csv", weekKey), data, nil
}

// Authenticate compares the supplied key against the configured passphrase.
// This is a UX gate, not a security boundary: the comparison is verbatim
// string equality and the secret ships in config.
func (s *QuizService) Authenticate(key string) error {
	if key != s.passphrase {
		return domain.ErrInvalidAdminKey
	}
	return nil
}

// AddQuestion appends an admin draft to the bank. The draft is trusted as-is.
func (s *QuizService) AddQuestion(ctx context.Context, adminKey string, draft domain.QuestionDraft) (domain.Question, error) {
	if err := s.Authenticate(adminKey); err != nil {
		return domain.Question{}, err
	}
	return s.questions.AddQuestion(ctx, draft)
}

// ResetLeaderboard clears the current week's board and broadcasts the empty
// board to subscribers.
func (s *QuizService) ResetLeaderboard(ctx context.Context, adminKey string) (domain.Leaderboard, error) {
	if err := s.Authenticate(adminKey); err != nil {
		return domain.Leaderboard{}, err
	}

	s.mu.Lock()
	weekKey := domain.WeekKey(s.now())
	err := s.store.Clear(ctx, weekKey)
	s.mu.Unlock()
	if err != nil {
		return domain.Leaderboard{}, fmt.Errorf("clear leaderboard: %w", err)
	}

	lb := domain.Leaderboard{WeekKey: weekKey, Entries: []domain.SubmissionRecord{}, UpdatedAt: s.now()}
	s.broadcast(lb)
	return lb, nil
}

// Subscribe returns a channel that receives the current board immediately
// and again after every submission or reset. The caller must invoke the
// returned cancel function to avoid leaks.
func (s *QuizService) Subscribe(ctx context.Context) (<-chan domain.Leaderboard, func()) {
	ch := make(chan domain.Leaderboard, 8)

	s.subMu.Lock()
	s.subscribers[ch] = struct{}{}
	s.subMu.Unlock()

	ch <- s.Leaderboard(ctx)

	cancel := func() {
		s.subMu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.subMu.Unlock()
	}
	return ch, cancel
}

func (s *QuizService) broadcast(lb domain.Leaderboard) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for ch := range s.subscribers {
		select {
		case ch <- lb:
		default:
			// Drop the stale update so slow clients never block broadcast.
			select {
			case <-ch:
			default:
			}
			ch <- lb
		}
	}
}

// Score counts exact, case-sensitive matches between the participant's picks
// and the answer key. No partial credit, no penalty; an absent pick never
// matches. Pure.
func Score(questions []domain.Question, answers domain.AnswerSet) int {
	total := 0
	for _, q := range questions {
		if picked, ok := answers[q.ID]; ok && picked == q.Correct {
			total++
		}
	}
	return total
}

// Merge appends record to existing and re-ranks the result: score descending,
// earlier submission first on equal score. The sort is stable, so records
// tied on both keys keep their insertion order. O(n log n) per submission,
// which is fine at human-paced weekly volume.
func Merge(existing []domain.SubmissionRecord, record domain.SubmissionRecord) []domain.SubmissionRecord {
	merged := make([]domain.SubmissionRecord, 0, len(existing)+1)
	merged = append(merged, existing...)
	merged = append(merged, record)
	sort.SliceStable(merged, func(i, j int) bool {
		if merged[i].Score != merged[j].Score {
			return merged[i].Score > merged[j].Score
		}
		return merged[i].SubmittedAt.Before(merged[j].SubmittedAt)
	})
	return merged
}

const csvDateLayout = "1/2/2006, 3:04:05 PM"

// ExportCSV renders the board in its current order with a 1-based rank
// column. Fields are joined with plain commas and no quoting, byte-for-byte
// what the original exporter produced: a name containing a comma will shift
// columns. Returns domain.ErrNoData for an empty board.
func ExportCSV(entries []domain.SubmissionRecord) ([]byte, error) {
	if len(entries) == 0 {
		return nil, domain.ErrNoData
	}

	rows := make([]string, 0, len(entries)+1)
	rows = append(rows, "Rank,Name,Twitter,Score,Date")
	for i, e := range entries {
		rows = append(rows, fmt.Sprintf("%d,%s,%s,%d,%s", i+1, e.Name, e.Twitter, e.Score, e.SubmittedAt.Format(csvDateLayout)))
	}
	return []byte(strings.Join(rows, "\n")), nil
}
