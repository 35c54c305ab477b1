package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"category-quiz-service/internal/domain"
)

func TestQuestionCacheCaches(t *testing.T) {
	loader := &countingLoader{questions: sampleQuestions()}
	cache := NewQuestionCache(loader, time.Minute)

	if _, err := cache.LoadQuestions(context.Background(), domain.CategoryWord); err != nil {
		t.Fatalf("load: %v", err)
	}
	if loader.count() != 1 {
		t.Fatalf("expected loader once, got %d", loader.count())
	}

	questions, err := cache.LoadQuestions(context.Background(), domain.CategoryWord)
	if err != nil {
		t.Fatalf("load 2: %v", err)
	}
	if loader.count() != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.count())
	}
	if len(questions) != 1 || questions[0].ID != "q1" {
		t.Fatalf("unexpected questions %+v", questions)
	}
}

func TestQuestionCacheExpires(t *testing.T) {
	loader := &countingLoader{questions: sampleQuestions()}
	cache := NewQuestionCache(loader, time.Minute)
	now := time.Now()
	cache.clock = func() time.Time { return now }

	_, _ = cache.LoadQuestions(context.Background(), domain.CategoryWord)
	now = now.Add(2 * time.Minute)
	_, _ = cache.LoadQuestions(context.Background(), domain.CategoryWord)

	if loader.count() != 2 {
		t.Fatalf("expected reload after ttl, loader calls %d", loader.count())
	}
}

func TestQuestionCacheInvalidate(t *testing.T) {
	loader := &countingLoader{questions: sampleQuestions()}
	cache := NewQuestionCache(loader, time.Minute)

	_, _ = cache.LoadQuestions(context.Background(), domain.CategoryWord)
	_, _ = cache.LoadQuestions(context.Background(), domain.CategoryExcel)
	if err := cache.Invalidate(context.Background(), domain.CategoryWord); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	_, _ = cache.LoadQuestions(context.Background(), domain.CategoryWord)
	_, _ = cache.LoadQuestions(context.Background(), domain.CategoryExcel)

	if loader.count() != 3 {
		t.Fatalf("expected only the invalidated category reloaded, loader calls %d", loader.count())
	}
}

func TestQuestionCacheReturnsCopies(t *testing.T) {
	cache := NewQuestionCache(&countingLoader{questions: sampleQuestions()}, time.Minute)

	first, _ := cache.LoadQuestions(context.Background(), domain.CategoryWord)
	first[0].Question = "changed"
	second, _ := cache.LoadQuestions(context.Background(), domain.CategoryWord)
	if second[0].Question != "What is 2 + 2?" {
		t.Fatalf("cache entry was mutated through a returned slice: %q", second[0].Question)
	}
}

type countingLoader struct {
	mu        sync.Mutex
	calls     int
	questions []domain.Question
}

func (l *countingLoader) LoadQuestions(_ context.Context, _ domain.Category) ([]domain.Question, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls++
	return copyQuestions(l.questions), nil
}

func (l *countingLoader) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls
}

func sampleQuestions() []domain.Question {
	return []domain.Question{
		{
			ID:            "q1",
			Question:      "What is 2 + 2?",
			Options:       []string{"3", "4"},
			CorrectAnswer: "1",
		},
	}
}
