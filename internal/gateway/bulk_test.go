package gateway_test

import (
	"context"
	"errors"
	"testing"

	"category-quiz-service/internal/domain"
	"category-quiz-service/internal/gateway"
	"category-quiz-service/internal/infra/memory"
)

func TestImportQuestionsContinuesPastFailures(t *testing.T) {
	ctx := context.Background()
	gw := newDirect(memory.NewDocumentStore())
	inputs := []domain.QuestionInput{
		{Question: "One?", Options: []string{"A", "B"}, CorrectAnswer: "0"},
		{Question: "", Options: []string{"A"}, CorrectAnswer: "0"},
		{Question: "Three?", Options: []string{"A", "B"}, CorrectAnswer: "1"},
	}

	summary := gateway.ImportQuestions(ctx, gw, domain.CategoryExcel, inputs)
	if summary.Succeeded != 2 || summary.Failed != 1 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if len(summary.Errors) != 1 || summary.Errors[0].Index != 1 || !errors.Is(summary.Errors[0].Err, domain.ErrInvalidQuestion) {
		t.Fatalf("unexpected errors %+v", summary.Errors)
	}

	questions, err := gw.GetQuestions(ctx, domain.CategoryExcel)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(questions) != 2 || questions[0].Question != "One?" || questions[1].Question != "Three?" {
		t.Fatalf("unexpected stored questions %+v", questions)
	}
}

type failingDeleter struct {
	gateway.QuestionWriter
	fail string
}

func (f failingDeleter) DeleteQuestion(ctx context.Context, category domain.Category, id string) error {
	if id == f.fail {
		return errors.New("delete failed")
	}
	return f.QuestionWriter.DeleteQuestion(ctx, category, id)
}

func TestDeleteQuestions(t *testing.T) {
	ctx := context.Background()
	gw := newDirect(memory.NewDocumentStore())
	imported := gateway.ImportQuestions(ctx, gw, domain.CategoryWord, []domain.QuestionInput{
		{Question: "One?", Options: []string{"A"}, CorrectAnswer: "0"},
		{Question: "Two?", Options: []string{"A"}, CorrectAnswer: "0"},
		{Question: "Three?", Options: []string{"A"}, CorrectAnswer: "0"},
	})

	summary := gateway.DeleteQuestions(ctx, failingDeleter{QuestionWriter: gw, fail: imported.IDs[1]}, domain.CategoryWord, imported.IDs)
	if summary.Succeeded != 2 || summary.Failed != 1 || summary.Errors[0].ID != imported.IDs[1] {
		t.Fatalf("unexpected summary %+v", summary)
	}

	questions, _ := gw.GetQuestions(ctx, domain.CategoryWord)
	if len(questions) != 1 || questions[0].ID != imported.IDs[1] {
		t.Fatalf("expected only the failed id left, got %+v", questions)
	}
}
