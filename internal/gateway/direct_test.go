package gateway_test

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"sync/atomic"
	"testing"
	"time"

	"category-quiz-service/internal/domain"
	"category-quiz-service/internal/gateway"
	"category-quiz-service/internal/infra/memory"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var fixedNow = time.Date(2024, 11, 22, 10, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func ptr(s string) *string { return &s }

func newDirect(store gateway.DocumentStore, opts ...gateway.Option) *gateway.Direct {
	return gateway.NewDirect(store, append([]gateway.Option{gateway.WithClock(clock)}, opts...)...)
}

func TestDirectQuestionCRUD(t *testing.T) {
	ctx := context.Background()
	gw := newDirect(memory.NewDocumentStore())

	id, err := gw.AddQuestion(ctx, domain.CategoryWord, domain.QuestionInput{
		Question:      "Which tab holds Styles?",
		Options:       []string{"Home", "Insert", "Layout"},
		CorrectAnswer: "0",
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	questions, err := gw.GetQuestions(ctx, domain.CategoryWord)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(questions) != 1 || questions[0].ID != id {
		t.Fatalf("expected the added question, got %+v", questions)
	}
	if !questions[0].CreatedAt.Equal(fixedNow) || !questions[0].UpdatedAt.Equal(fixedNow) {
		t.Fatalf("expected timestamps from clock, got %+v", questions[0])
	}

	other, err := gw.GetQuestions(ctx, domain.CategoryExcel)
	if err != nil {
		t.Fatalf("get excel: %v", err)
	}
	if len(other) != 0 {
		t.Fatalf("categories must be isolated, got %+v", other)
	}

	if err := gw.UpdateQuestion(ctx, domain.CategoryWord, id, domain.QuestionPatch{CorrectAnswer: ptr("2")}); err != nil {
		t.Fatalf("update: %v", err)
	}
	questions, _ = gw.GetQuestions(ctx, domain.CategoryWord)
	if questions[0].CorrectAnswer != "2" || questions[0].Question != "Which tab holds Styles?" {
		t.Fatalf("expected partial update, got %+v", questions[0])
	}

	if err := gw.DeleteQuestion(ctx, domain.CategoryWord, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	questions, _ = gw.GetQuestions(ctx, domain.CategoryWord)
	if len(questions) != 0 {
		t.Fatalf("expected empty after delete, got %+v", questions)
	}
	if err := gw.DeleteQuestion(ctx, domain.CategoryWord, id); err != nil {
		t.Fatalf("delete of missing question should succeed: %v", err)
	}
}

func TestDirectValidatesBeforeStore(t *testing.T) {
	ctx := context.Background()
	store := memory.NewDocumentStore()
	gw := newDirect(store)

	_, err := gw.AddQuestion(ctx, domain.CategoryWord, domain.QuestionInput{Question: "Q?", CorrectAnswer: "0"})
	if !errors.Is(err, domain.ErrInvalidQuestion) {
		t.Fatalf("expected ErrInvalidQuestion, got %v", err)
	}
	docs, _ := store.List(ctx, domain.CategoryWord.Collection())
	if len(docs) != 0 {
		t.Fatalf("invalid question reached the store: %+v", docs)
	}
}

func TestDirectUpdateMissing(t *testing.T) {
	gw := newDirect(memory.NewDocumentStore())
	err := gw.UpdateQuestion(context.Background(), domain.CategoryWord, "nope", domain.QuestionPatch{Question: ptr("x")})
	if !errors.Is(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
}

func TestDirectUpdateChecksStoredPair(t *testing.T) {
	ctx := context.Background()
	gw := newDirect(memory.NewDocumentStore())
	id, err := gw.AddQuestion(ctx, domain.CategoryWord, domain.QuestionInput{
		Question:      "Shortcut for Bold?",
		Options:       []string{"Ctrl+I", "Ctrl+B"},
		CorrectAnswer: "1",
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	for _, patch := range []domain.QuestionPatch{
		{CorrectAnswer: ptr("5")},
		{Options: []string{"Ctrl+B"}},
	} {
		if err := gw.UpdateQuestion(ctx, domain.CategoryWord, id, patch); !errors.Is(err, domain.ErrInvalidQuestion) {
			t.Fatalf("patch %+v: expected ErrInvalidQuestion, got %v", patch, err)
		}
	}
	questions, _ := gw.GetQuestions(ctx, domain.CategoryWord)
	if questions[0].CorrectAnswer != "1" || len(questions[0].Options) != 2 {
		t.Fatalf("rejected patch reached the store: %+v", questions[0])
	}

	if err := gw.UpdateQuestion(ctx, domain.CategoryWord, id, domain.QuestionPatch{Options: []string{"Ctrl+I", "Ctrl+B", "Ctrl+U"}}); err != nil {
		t.Fatalf("growing options: %v", err)
	}
	if err := gw.UpdateQuestion(ctx, domain.CategoryWord, "nope", domain.QuestionPatch{CorrectAnswer: ptr("0")}); !errors.Is(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
}

func TestDirectSaveQuizResult(t *testing.T) {
	ctx := context.Background()
	gw := newDirect(memory.NewDocumentStore())
	results := []domain.QuizResult{
		{Question: "Q1", UserAnswer: "1", CorrectAnswer: "1", IsCorrect: true},
		{Question: "Q2", UserAnswer: domain.Unanswered, CorrectAnswer: "0"},
	}

	id, err := gw.SaveQuizResult(ctx, domain.CategoryExcel, results, 1, 2)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := gw.SaveQuizResult(ctx, domain.CategoryExcel, results, 1, 2); err != nil {
		t.Fatalf("second save: %v", err)
	}

	records, err := gw.GetQuizResults(ctx)
	if err != nil {
		t.Fatalf("results: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected append-only records, got %d", len(records))
	}
	rec := records[0]
	if rec.ID != id || rec.Score != 1 || rec.TotalQuestions != 2 || len(rec.Results) != 2 {
		t.Fatalf("unexpected record %+v", rec)
	}
	if rec.Category != domain.CategoryExcel {
		t.Fatalf("expected category on record, got %q", rec.Category)
	}
	if !regexp.MustCompile(`^session_\d+_[0-9a-z]{9}$`).MatchString(rec.SessionID) {
		t.Fatalf("unexpected session id %q", rec.SessionID)
	}
	if !rec.CompletedAt.Equal(fixedNow) || !rec.SubmittedAt.Equal(fixedNow) {
		t.Fatalf("unexpected timestamps %+v", rec)
	}
}

func TestDirectSaveSubmissionKeepsClientFields(t *testing.T) {
	ctx := context.Background()
	gw := newDirect(memory.NewDocumentStore())
	completed := fixedNow.Add(-time.Minute)

	_, err := gw.SaveSubmission(ctx, domain.QuizSessionRecord{
		SessionID:   "session_1_abcdefghi",
		Results:     []domain.QuizResult{},
		CompletedAt: completed,
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	records, _ := gw.GetQuizResults(ctx)
	if records[0].SessionID != "session_1_abcdefghi" || !records[0].CompletedAt.Equal(completed) {
		t.Fatalf("client fields overwritten: %+v", records[0])
	}

	if _, err := gw.SaveSubmission(ctx, domain.QuizSessionRecord{}); !errors.Is(err, domain.ErrInvalidSubmission) {
		t.Fatalf("expected ErrInvalidSubmission, got %v", err)
	}
}

func TestDirectStats(t *testing.T) {
	ctx := context.Background()
	gw := newDirect(memory.NewDocumentStore())
	add := func(c domain.Category) {
		t.Helper()
		if _, err := gw.AddQuestion(ctx, c, domain.QuestionInput{Question: "Q?", Options: []string{"A", "B"}, CorrectAnswer: "1"}); err != nil {
			t.Fatalf("add: %v", err)
		}
	}
	add(domain.CategoryWord)
	add(domain.CategoryWord)
	add(domain.CategoryExcel)

	stats, err := gw.Stats(ctx, "")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats != (domain.Stats{TotalQuestions: 3}) {
		t.Fatalf("unexpected empty-results stats %+v", stats)
	}

	for _, score := range []int{1, 2, 2} {
		if _, err := gw.SaveQuizResult(ctx, domain.CategoryWord, []domain.QuizResult{}, score, 3); err != nil {
			t.Fatalf("save: %v", err)
		}
	}
	stats, err = gw.Stats(ctx, domain.CategoryWord)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalQuestions != 2 || stats.TotalResults != 3 || stats.AverageScore != 1.67 {
		t.Fatalf("unexpected stats %+v", stats)
	}

	if _, err := gw.SaveQuizResult(ctx, domain.CategoryExcel, []domain.QuizResult{}, 3, 3); err != nil {
		t.Fatalf("save excel: %v", err)
	}
	stats, _ = gw.Stats(ctx, domain.CategoryWord)
	if stats.TotalResults != 3 || stats.AverageScore != 1.67 {
		t.Fatalf("excel result leaked into word stats %+v", stats)
	}
	stats, _ = gw.Stats(ctx, domain.CategoryExcel)
	if stats.TotalQuestions != 1 || stats.TotalResults != 1 || stats.AverageScore != 3 {
		t.Fatalf("unexpected excel stats %+v", stats)
	}
	stats, _ = gw.Stats(ctx, "")
	if stats.TotalQuestions != 3 || stats.TotalResults != 4 || stats.AverageScore != 2 {
		t.Fatalf("unexpected overall stats %+v", stats)
	}
}

type countingLoader struct {
	inner gateway.QuestionLoader
	calls atomic.Int32
}

func (l *countingLoader) LoadQuestions(ctx context.Context, category domain.Category) ([]domain.Question, error) {
	l.calls.Add(1)
	return l.inner.LoadQuestions(ctx, category)
}

func TestDirectCacheInvalidatedOnWrite(t *testing.T) {
	ctx := context.Background()
	store := memory.NewDocumentStore()
	loader := &countingLoader{inner: gateway.NewStoreLoader(store)}
	gw := newDirect(store, gateway.WithQuestionCache(memory.NewQuestionCache(loader, time.Hour)))

	if _, err := gw.GetQuestions(ctx, domain.CategoryWord); err != nil {
		t.Fatalf("get: %v", err)
	}
	if _, err := gw.GetQuestions(ctx, domain.CategoryWord); err != nil {
		t.Fatalf("get: %v", err)
	}
	if loader.calls.Load() != 1 {
		t.Fatalf("expected cached read, loader calls=%d", loader.calls.Load())
	}

	if _, err := gw.AddQuestion(ctx, domain.CategoryWord, domain.QuestionInput{Question: "Q?", Options: []string{"A"}, CorrectAnswer: "0"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	questions, err := gw.GetQuestions(ctx, domain.CategoryWord)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(questions) != 1 || loader.calls.Load() != 2 {
		t.Fatalf("expected reload after write, questions=%d calls=%d", len(questions), loader.calls.Load())
	}
}

type brokenCache struct {
	gateway.QuestionLoader
}

func (brokenCache) Invalidate(context.Context, domain.Category) error {
	return errors.New("redis down")
}

func TestDirectLogsFailedInvalidation(t *testing.T) {
	ctx := context.Background()
	store := memory.NewDocumentStore()
	core, logs := observer.New(zapcore.WarnLevel)
	gw := newDirect(store,
		gateway.WithQuestionCache(brokenCache{gateway.NewStoreLoader(store)}),
		gateway.WithLogger(zap.New(core)))

	if _, err := gw.AddQuestion(ctx, domain.CategoryExcel, domain.QuestionInput{Question: "Q?", Options: []string{"A"}, CorrectAnswer: "0"}); err != nil {
		t.Fatalf("write should not fail on cache errors: %v", err)
	}
	entries := logs.FilterMessage("question cache invalidation failed").All()
	if len(entries) != 1 || entries[0].ContextMap()["category"] != string(domain.CategoryExcel) {
		t.Fatalf("expected one invalidation warning, got %+v", logs.All())
	}
}

func TestStoredQuestionShape(t *testing.T) {
	ctx := context.Background()
	store := memory.NewDocumentStore()
	gw := newDirect(store)
	if _, err := gw.AddQuestion(ctx, domain.CategoryPowerPoint, domain.QuestionInput{Question: "Q?", Options: []string{"A"}, CorrectAnswer: "0"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	docs, _ := store.List(ctx, domain.CategoryPowerPoint.Collection())
	if len(docs) != 1 {
		t.Fatalf("expected document in category collection, got %+v", docs)
	}
	var body map[string]any
	if err := json.Unmarshal(docs[0].Data, &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, key := range []string{"question", "options", "correctAnswer", "createdAt", "updatedAt"} {
		if _, ok := body[key]; !ok {
			t.Fatalf("document missing %q: %s", key, docs[0].Data)
		}
	}
}
