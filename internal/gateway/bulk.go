package gateway

import (
	"context"

	"category-quiz-service/internal/domain"
)

// QuestionWriter is the write side of Gateway used by bulk operations.
type QuestionWriter interface {
	AddQuestion(ctx context.Context, category domain.Category, input domain.QuestionInput) (string, error)
	DeleteQuestion(ctx context.Context, category domain.Category, id string) error
}

// BulkError records one failed item of a bulk operation.
type BulkError struct {
	Index int
	ID    string
	Err   error
}

// BulkSummary counts the outcome of a bulk operation. A failing item never
// stops the remaining ones.
type BulkSummary struct {
	Succeeded int
	Failed    int
	IDs       []string
	Errors    []BulkError
}

// ImportQuestions adds every input to category, one request at a time.
func ImportQuestions(ctx context.Context, w QuestionWriter, category domain.Category, inputs []domain.QuestionInput) BulkSummary {
	var summary BulkSummary
	for i, in := range inputs {
		id, err := w.AddQuestion(ctx, category, in)
		if err != nil {
			summary.Failed++
			summary.Errors = append(summary.Errors, BulkError{Index: i, Err: err})
			continue
		}
		summary.Succeeded++
		summary.IDs = append(summary.IDs, id)
	}
	return summary
}

// DeleteQuestions removes every id from category, one request at a time.
func DeleteQuestions(ctx context.Context, w QuestionWriter, category domain.Category, ids []string) BulkSummary {
	var summary BulkSummary
	for i, id := range ids {
		if err := w.DeleteQuestion(ctx, category, id); err != nil {
			summary.Failed++
			summary.Errors = append(summary.Errors, BulkError{Index: i, ID: id, Err: err})
			continue
		}
		summary.Succeeded++
		summary.IDs = append(summary.IDs, id)
	}
	return summary
}
