package app_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"weekly-quiz-service/internal/app"
	"weekly-quiz-service/internal/domain"
	"weekly-quiz-service/internal/infra/memory"
)

const testPassphrase = "admin123"

func TestScore(t *testing.T) {
	questions := []domain.Question{
		{ID: 1, Prompt: "What is 2 + 2?", Options: []string{"3", "4", "5", "6"}, Correct: "4"},
		{ID: 2, Prompt: "Capital of France?", Options: []string{"Berlin", "Paris", "Madrid", "Rome"}, Correct: "Paris"},
	}

	if got := app.Score(questions, domain.AnswerSet{1: "4"}); got != 1 {
		t.Fatalf("expected score 1, got %d", got)
	}
	if got := app.Score(questions, domain.AnswerSet{}); got != 0 {
		t.Fatalf("expected empty answers to score 0, got %d", got)
	}
	if got := app.Score(questions, domain.AnswerSet{1: "4", 2: "Paris"}); got != len(questions) {
		t.Fatalf("expected full score %d, got %d", len(questions), got)
	}
	// Case-sensitive, no trimming.
	if got := app.Score(questions, domain.AnswerSet{2: "paris"}); got != 0 {
		t.Fatalf("expected case mismatch to score 0, got %d", got)
	}
}

func TestMergeRanksByScoreThenTime(t *testing.T) {
	t1 := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)

	merged := app.Merge(
		[]domain.SubmissionRecord{{Name: "Ann", Score: 3, SubmittedAt: t1}},
		domain.SubmissionRecord{Name: "Bo", Score: 5, SubmittedAt: t2},
	)
	if merged[0].Name != "Bo" || merged[1].Name != "Ann" {
		t.Fatalf("expected higher score first, got %+v", merged)
	}
}

func TestMergeEarlierSubmissionWinsTie(t *testing.T) {
	t1 := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Minute)

	merged := app.Merge(
		[]domain.SubmissionRecord{{Name: "Late", Score: 5, SubmittedAt: t2}},
		domain.SubmissionRecord{Name: "Early", Score: 5, SubmittedAt: t1},
	)
	if merged[0].Name != "Early" || merged[1].Name != "Late" {
		t.Fatalf("expected earlier submission to win the tie, got %+v", merged)
	}
}

func TestMergeOrderIndependent(t *testing.T) {
	t1 := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)
	r1 := domain.SubmissionRecord{Name: "Ann", Score: 3, SubmittedAt: t1}
	r2 := domain.SubmissionRecord{Name: "Bo", Score: 5, SubmittedAt: t1.Add(time.Hour)}

	a := app.Merge(app.Merge(nil, r1), r2)
	b := app.Merge(app.Merge(nil, r2), r1)
	if len(a) != len(b) {
		t.Fatalf("length mismatch: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Name != b[i].Name {
			t.Fatalf("final order depends on insertion order: %+v vs %+v", a, b)
		}
	}
}

func TestExportCSV(t *testing.T) {
	if _, err := app.ExportCSV(nil); !errors.Is(err, domain.ErrNoData) {
		t.Fatalf("expected ErrNoData for empty board, got %v", err)
	}

	at := time.Date(2026, 1, 5, 15, 4, 5, 0, time.UTC)
	data, err := app.ExportCSV([]domain.SubmissionRecord{
		{Name: "X", Twitter: "y", Score: 2, SubmittedAt: at},
	})
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	lines := strings.Split(string(data), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header plus one row, got %d lines", len(lines))
	}
	if lines[0] != "Rank,Name,Twitter,Score,Date" {
		t.Fatalf("unexpected header: %q", lines[0])
	}
	if lines[1] != "1,X,y,2,1/5/2026, 3:04:05 PM" {
		t.Fatalf("unexpected row: %q", lines[1])
	}
}

func TestSubmitFilesUnderCurrentWeek(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)
	service := newTestService(func() time.Time { return now })

	record, lb, err := service.Submit(ctx, "Ann", "ann", domain.AnswerSet{1: "4", 2: "Paris"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if record.Score != 2 {
		t.Fatalf("expected score 2, got %d", record.Score)
	}
	if lb.WeekKey != domain.WeekKey(now) {
		t.Fatalf("expected week key %s, got %s", domain.WeekKey(now), lb.WeekKey)
	}
	if len(lb.Entries) != 1 || lb.Entries[0].Name != "Ann" {
		t.Fatalf("expected Ann on the board, got %+v", lb.Entries)
	}

	board := service.Leaderboard(ctx)
	if len(board.Entries) != 1 || board.Entries[0].SubmittedAt != now {
		t.Fatalf("expected persisted record with clock timestamp, got %+v", board.Entries)
	}
}

func TestSubmitReRanksBoard(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)
	service := newTestService(func() time.Time {
		now = now.Add(time.Minute)
		return now
	})

	if _, _, err := service.Submit(ctx, "Ann", "ann", domain.AnswerSet{1: "4"}); err != nil {
		t.Fatalf("submit ann: %v", err)
	}
	_, lb, err := service.Submit(ctx, "Bo", "bo", domain.AnswerSet{1: "4", 2: "Paris"})
	if err != nil {
		t.Fatalf("submit bo: %v", err)
	}
	if lb.Entries[0].Name != "Bo" || lb.Entries[1].Name != "Ann" {
		t.Fatalf("expected Bo to lead, got %+v", lb.Entries)
	}
}

func TestAdminGate(t *testing.T) {
	ctx := context.Background()
	service := newTestService(time.Now)

	if err := service.Authenticate(testPassphrase); err != nil {
		t.Fatalf("expected passphrase to be accepted, got %v", err)
	}
	if err := service.Authenticate("wrong"); !errors.Is(err, domain.ErrInvalidAdminKey) {
		t.Fatalf("expected ErrInvalidAdminKey, got %v", err)
	}

	if _, err := service.AddQuestion(ctx, "wrong", domain.QuestionDraft{Prompt: "?"}); !errors.Is(err, domain.ErrInvalidAdminKey) {
		t.Fatalf("expected add to be gated, got %v", err)
	}
	if _, err := service.ResetLeaderboard(ctx, "wrong"); !errors.Is(err, domain.ErrInvalidAdminKey) {
		t.Fatalf("expected reset to be gated, got %v", err)
	}
}

func TestResetClearsCurrentWeek(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)
	service := newTestService(func() time.Time { return now })

	if _, _, err := service.Submit(ctx, "Ann", "ann", domain.AnswerSet{1: "4"}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	lb, err := service.ResetLeaderboard(ctx, testPassphrase)
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	if len(lb.Entries) != 0 {
		t.Fatalf("expected empty board after reset, got %+v", lb.Entries)
	}
	if board := service.Leaderboard(ctx); len(board.Entries) != 0 {
		t.Fatalf("expected reset to persist, got %+v", board.Entries)
	}
}

func TestExportNamesFileAfterWeek(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)
	service := newTestService(func() time.Time { return now })

	if _, _, err := service.Export(ctx); !errors.Is(err, domain.ErrNoData) {
		t.Fatalf("expected ErrNoData before any submission, got %v", err)
	}

	if _, _, err := service.Submit(ctx, "Ann", "ann", domain.AnswerSet{1: "4"}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	filename, data, err := service.Export(ctx)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if want := "leaderboard-" + domain.WeekKey(now) + ".csv"; filename != want {
		t.Fatalf("expected filename %s, got %s", want, filename)
	}
	if !strings.HasPrefix(string(data), "Rank,Name,Twitter,Score,Date\n") {
		t.Fatalf("unexpected csv: %q", data)
	}
}

func TestSubscribeReceivesUpdates(t *testing.T) {
	ctx := context.Background()
	service := newTestService(time.Now)

	ch, cancel := service.Subscribe(ctx)
	defer cancel()

	<-ch // initial snapshot

	if _, _, err := service.Submit(ctx, "Ann", "ann", domain.AnswerSet{1: "4"}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	update := <-ch
	if len(update.Entries) != 1 || update.Entries[0].Score != 1 {
		t.Fatalf("expected board update with score 1, got %+v", update.Entries)
	}
}

func newTestService(now func() time.Time) *app.QuizService {
	store := memory.NewLeaderboardStore()
	questions := memory.NewQuestionRepository(memory.NewStaticQuestionLoader([]domain.Question{
		{ID: 1, Prompt: "What is 2 + 2?", Options: []string{"3", "4", "5", "6"}, Correct: "4"},
		{ID: 2, Prompt: "Capital of France?", Options: []string{"Berlin", "Paris", "Madrid", "Rome"}, Correct: "Paris"},
	}), 5*time.Minute)
	return app.NewQuizServiceWithClock(store, questions, testPassphrase, now)
}
