package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"category-quiz-service/internal/domain"
	"category-quiz-service/internal/gateway"
	"category-quiz-service/internal/infra/memory"
	"go.uber.org/zap"
)

func TestParseQuestionFile(t *testing.T) {
	inputs, err := parseQuestionFile(strings.NewReader(`
questions:
  - question: Which tab holds Styles?
    options: [Home, Insert, Layout]
    correctAnswer: "0"
  - question: Shortcut for Bold?
    options: [Ctrl+I, Ctrl+B]
    correctAnswer: "1"
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(inputs) != 2 || inputs[1].CorrectAnswer != "1" || len(inputs[0].Options) != 3 {
		t.Fatalf("unexpected inputs %+v", inputs)
	}

	if _, err := parseQuestionFile(strings.NewReader("questions: {")); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestSampleQuestionFileIsValid(t *testing.T) {
	fh, err := os.Open(filepath.Join("..", "..", "config", "questions.sample.yaml"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer fh.Close()
	inputs, err := parseQuestionFile(fh)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	for i, in := range inputs {
		if err := gateway.ValidateQuestion(in); err != nil {
			t.Fatalf("sample question %d invalid: %v", i, err)
		}
	}
}

func TestSeedSampleQuestions(t *testing.T) {
	ctx := context.Background()
	direct := gateway.NewDirect(memory.NewDocumentStore())
	seedSampleQuestions(ctx, direct, zap.NewNop())

	for _, c := range domain.Categories() {
		questions, err := direct.GetQuestions(ctx, c)
		if err != nil {
			t.Fatalf("get %s: %v", c, err)
		}
		if len(questions) == 0 {
			t.Fatalf("expected seeded questions for %s", c)
		}
	}
}
