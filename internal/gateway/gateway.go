// Package gateway reads and writes question and quiz-result records, either
// directly against a document store or through the HTTP façade.
package gateway

import (
	"context"
	"encoding/json"

	"category-quiz-service/internal/domain"
)

// Gateway is the persistence contract shared by the direct and HTTP transports.
type Gateway interface {
	GetQuestions(ctx context.Context, category domain.Category) ([]domain.Question, error)
	AddQuestion(ctx context.Context, category domain.Category, input domain.QuestionInput) (string, error)
	UpdateQuestion(ctx context.Context, category domain.Category, id string, patch domain.QuestionPatch) error
	DeleteQuestion(ctx context.Context, category domain.Category, id string) error
	SaveQuizResult(ctx context.Context, category domain.Category, results []domain.QuizResult, score, total int) (string, error)
	GetQuizResults(ctx context.Context) ([]domain.QuizSessionRecord, error)
	// Stats covers a single category, or every category when category is empty.
	// Question counts and results are scoped the same way.
	Stats(ctx context.Context, category domain.Category) (domain.Stats, error)
}

// DocumentStore is a collection-scoped JSON document database.
type DocumentStore interface {
	List(ctx context.Context, collection string) ([]domain.Document, error)
	// Get returns ErrDocumentNotFound when the document does not exist.
	Get(ctx context.Context, collection, id string) (domain.Document, error)
	Create(ctx context.Context, collection string, data json.RawMessage) (string, error)
	// Update merges the top-level fields of patch into the document.
	Update(ctx context.Context, collection, id string, patch json.RawMessage) error
	// Delete succeeds when the document is already gone.
	Delete(ctx context.Context, collection, id string) error
}

// QuestionLoader reads a category's questions.
type QuestionLoader interface {
	LoadQuestions(ctx context.Context, category domain.Category) ([]domain.Question, error)
}

// QuestionCache is a QuestionLoader that must be told when a category changes.
type QuestionCache interface {
	QuestionLoader
	Invalidate(ctx context.Context, category domain.Category) error
}
