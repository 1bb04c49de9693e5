package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"sort"
	"strconv"
	"time"

	"weekly-quiz-service/internal/domain"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// QuestionLoader fetches the seed question bank from a backing store
// (e.g., Postgres).
type QuestionLoader interface {
	LoadQuestions(ctx context.Context) ([]domain.Question, error)
}

// QuestionRepository caches the seed bank in a Redis hash and keeps
// admin-added questions in a Redis list so they survive restarts.
// Seed is stored as:  HSET quiz:questions:seed {questionID} {question JSON}
// Appends are stored: RPUSH quiz:questions:added {question JSON}
type QuestionRepository struct {
	client *redis.Client
	loader QuestionLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

const (
	seedKey  = "quiz:questions:seed"
	addedKey = "quiz:questions:added"
)

func NewQuestionRepository(client *redis.Client, loader QuestionLoader, ttl time.Duration) *QuestionRepository {
	return &QuestionRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Questions returns the seed bank followed by admin-added questions.
func (r *QuestionRepository) Questions(ctx context.Context) ([]domain.Question, error) {
	seed, err := r.loadSeed(ctx)
	if err != nil {
		return nil, err
	}
	added, err := r.loadAdded(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Question, 0, len(seed)+len(added))
	out = append(out, seed...)
	out = append(out, added...)
	return out, nil
}

// AddQuestion appends draft with the next sequential ID and persists it.
func (r *QuestionRepository) AddQuestion(ctx context.Context, draft domain.QuestionDraft) (domain.Question, error) {
	seed, err := r.loadSeed(ctx)
	if err != nil {
		return domain.Question{}, err
	}
	count, err := r.client.LLen(ctx, addedKey).Result()
	if err != nil {
		return domain.Question{}, fmt.Errorf("count added questions: %w", err)
	}

	question := domain.Question{
		ID:      len(seed) + int(count) + 1,
		Prompt:  draft.Prompt,
		Options: draft.Options,
		Correct: draft.Correct,
	}
	data, err := json.Marshal(question)
	if err != nil {
		return domain.Question{}, fmt.Errorf("marshal question: %w", err)
	}
	if err := r.client.RPush(ctx, addedKey, data).Err(); err != nil {
		return domain.Question{}, fmt.Errorf("persist question: %w", err)
	}
	return question, nil
}

func (r *QuestionRepository) loadSeed(ctx context.Context) ([]domain.Question, error) {
	cached, err := r.client.HGetAll(ctx, seedKey).Result()
	if err == nil && len(cached) > 0 {
		return seedFromCache(cached), nil
	}

	result, err, _ := r.sf.Do(seedKey, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		cached, err := r.client.HGetAll(ctx, seedKey).Result()
		if err == nil && len(cached) > 0 {
			return seedFromCache(cached), nil
		}

		seed, err := r.loader.LoadQuestions(ctx)
		if err != nil {
			return nil, err
		}

		pipe := r.client.Pipeline()
		for _, q := range seed {
			data, err := json.Marshal(q)
			if err != nil {
				return nil, fmt.Errorf("marshal question: %w", err)
			}
			pipe.HSet(ctx, seedKey, strconv.Itoa(q.ID), data)
		}
		if ttl := r.ttlWithJitter(); ttl > 0 {
			pipe.Expire(ctx, seedKey, ttl)
		}
		_, _ = pipe.Exec(ctx)

		return seed, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Question), nil
}

func (r *QuestionRepository) loadAdded(ctx context.Context) ([]domain.Question, error) {
	raw, err := r.client.LRange(ctx, addedKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("load added questions: %w", err)
	}
	added := make([]domain.Question, 0, len(raw))
	for _, item := range raw {
		var q domain.Question
		if err := json.Unmarshal([]byte(item), &q); err != nil {
			continue // skip unreadable entries rather than failing the bank
		}
		added = append(added, q)
	}
	return added, nil
}

func seedFromCache(cached map[string]string) []domain.Question {
	seed := make([]domain.Question, 0, len(cached))
	for _, raw := range cached {
		var q domain.Question
		if err := json.Unmarshal([]byte(raw), &q); err != nil {
			continue
		}
		seed = append(seed, q)
	}
	sort.Slice(seed, func(i, j int) bool { return seed[i].ID < seed[j].ID })
	return seed
}

func (r *QuestionRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
