package memory

import (
	"context"
	"testing"
	"time"

	"weekly-quiz-service/internal/domain"
)

func TestQuestionRepositoryCaches(t *testing.T) {
	loader := &countingLoader{
		QuestionLoader: NewStaticQuestionLoader(sampleQuestions()),
	}
	repo := NewQuestionRepository(loader, time.Minute)

	if _, err := repo.Questions(context.Background()); err != nil {
		t.Fatalf("questions: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader once, got %d", loader.calls)
	}

	if _, err := repo.Questions(context.Background()); err != nil {
		t.Fatalf("questions 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.calls)
	}
}

func TestQuestionRepositoryAddAssignsSequentialIDs(t *testing.T) {
	repo := NewQuestionRepository(NewStaticQuestionLoader(sampleQuestions()), time.Minute)

	added, err := repo.AddQuestion(context.Background(), domain.QuestionDraft{
		Prompt:  "Largest planet?",
		Options: []string{"Earth", "Jupiter", "Mars", "Venus"},
		Correct: "Jupiter",
	})
	if err != nil {
		t.Fatalf("add question: %v", err)
	}
	if added.ID != 3 {
		t.Fatalf("expected id 3, got %d", added.ID)
	}

	bank, err := repo.Questions(context.Background())
	if err != nil {
		t.Fatalf("questions: %v", err)
	}
	if len(bank) != 3 || bank[2].Prompt != "Largest planet?" {
		t.Fatalf("expected appended question last, got %+v", bank)
	}
}

type countingLoader struct {
	QuestionLoader
	calls int
}

func (l *countingLoader) LoadQuestions(ctx context.Context) ([]domain.Question, error) {
	l.calls++
	return l.QuestionLoader.LoadQuestions(ctx)
}

func sampleQuestions() []domain.Question {
	return []domain.Question{
		{ID: 1, Prompt: "What is 2 + 2?", Options: []string{"3", "4", "5", "6"}, Correct: "4"},
		{ID: 2, Prompt: "Capital of France?", Options: []string{"Berlin", "Paris", "Madrid", "Rome"}, Correct: "Paris"},
	}
}
