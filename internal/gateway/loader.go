package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"category-quiz-service/internal/domain"
)

// storedQuestion is the document body of a question; the id is the document key.
type storedQuestion struct {
	Question      string    `json:"question"`
	Options       []string  `json:"options"`
	CorrectAnswer string    `json:"correctAnswer"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// StoreLoader loads questions straight from a DocumentStore.
type StoreLoader struct {
	store DocumentStore
}

func NewStoreLoader(store DocumentStore) *StoreLoader {
	return &StoreLoader{store: store}
}

func (l *StoreLoader) LoadQuestions(ctx context.Context, category domain.Category) ([]domain.Question, error) {
	docs, err := l.store.List(ctx, category.Collection())
	if err != nil {
		return nil, fmt.Errorf("list %s questions: %w", category, err)
	}
	questions := make([]domain.Question, 0, len(docs))
	for _, doc := range docs {
		var sq storedQuestion
		if err := json.Unmarshal(doc.Data, &sq); err != nil {
			return nil, fmt.Errorf("decode question %s: %w", doc.ID, err)
		}
		questions = append(questions, domain.Question{
			ID:            doc.ID,
			Question:      sq.Question,
			Options:       sq.Options,
			CorrectAnswer: sq.CorrectAnswer,
			CreatedAt:     sq.CreatedAt,
			UpdatedAt:     sq.UpdatedAt,
		})
	}
	return questions, nil
}
