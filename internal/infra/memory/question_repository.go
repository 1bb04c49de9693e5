package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"weekly-quiz-service/internal/domain"
	"golang.org/x/sync/singleflight"
)

// QuestionLoader fetches the seed question bank from a backing store
// (e.g., Postgres).
type QuestionLoader interface {
	LoadQuestions(ctx context.Context) ([]domain.Question, error)
}

// QuestionRepository caches the seed bank with a TTL to avoid repeated
// loader hits and keeps admin-added questions in an in-memory overlay on top
// of it. IDs are assigned as bank length + 1 at append time.
type QuestionRepository struct {
	loader QuestionLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu        sync.RWMutex
	seed      []domain.Question
	expiresAt time.Time
	added     []domain.Question
}

func NewQuestionRepository(loader QuestionLoader, ttl time.Duration) *QuestionRepository {
	return &QuestionRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Questions returns the seed bank followed by admin-added questions.
func (r *QuestionRepository) Questions(ctx context.Context) ([]domain.Question, error) {
	seed, err := r.loadSeed(ctx)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Question, 0, len(seed)+len(r.added))
	out = append(out, seed...)
	out = append(out, r.added...)
	return out, nil
}

// AddQuestion appends draft with the next sequential ID.
func (r *QuestionRepository) AddQuestion(ctx context.Context, draft domain.QuestionDraft) (domain.Question, error) {
	seed, err := r.loadSeed(ctx)
	if err != nil {
		return domain.Question{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	question := domain.Question{
		ID:      len(seed) + len(r.added) + 1,
		Prompt:  draft.Prompt,
		Options: draft.Options,
		Correct: draft.Correct,
	}
	r.added = append(r.added, question)
	return question, nil
}

func (r *QuestionRepository) loadSeed(ctx context.Context) ([]domain.Question, error) {
	now := r.clock()

	r.mu.RLock()
	if r.seed != nil && r.expiresAt.After(now) {
		seed := r.seed
		r.mu.RUnlock()
		return seed, nil
	}
	r.mu.RUnlock()

	result, err, _ := r.sf.Do("seed", func() (interface{}, error) {
		now := r.clock()
		r.mu.RLock()
		if r.seed != nil && r.expiresAt.After(now) {
			seed := r.seed
			r.mu.RUnlock()
			return seed, nil
		}
		r.mu.RUnlock()

		seed, err := r.loader.LoadQuestions(ctx)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.seed = seed
		r.expiresAt = now.Add(r.ttlWithJitter())
		r.mu.Unlock()
		return seed, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Question), nil
}

func (r *QuestionRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

// StaticQuestionLoader serves a fixed bank from memory (tests/demos, and the
// fallback when Postgres is not configured).
type StaticQuestionLoader struct {
	questions []domain.Question
}

func NewStaticQuestionLoader(questions []domain.Question) *StaticQuestionLoader {
	return &StaticQuestionLoader{questions: questions}
}

func (l *StaticQuestionLoader) LoadQuestions(_ context.Context) ([]domain.Question, error) {
	out := make([]domain.Question, len(l.questions))
	copy(out, l.questions)
	return out, nil
}
