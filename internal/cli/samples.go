package cli

import (
	"context"

	"category-quiz-service/internal/domain"
	"category-quiz-service/internal/gateway"
	"go.uber.org/zap"
)

// sampleQuestions is demo content for the in-memory store; swap for Postgres in production.
func sampleQuestions() map[domain.Category][]domain.QuestionInput {
	return map[domain.Category][]domain.QuestionInput{
		domain.CategoryWord: {
			{Question: "Which shortcut makes selected text bold?", Options: []string{"Ctrl+I", "Ctrl+B", "Ctrl+U", "Ctrl+E"}, CorrectAnswer: "1"},
			{Question: "Which tab holds the Table of Contents command?", Options: []string{"Home", "Insert", "References", "Review"}, CorrectAnswer: "2"},
			{Question: "What does Track Changes record?", Options: []string{"Edits to the document", "Autosave times", "Printer jobs", "Macro runs"}, CorrectAnswer: "0"},
		},
		domain.CategoryExcel: {
			{Question: "Which function adds a range of cells?", Options: []string{"COUNT", "AVERAGE", "SUM", "MAX"}, CorrectAnswer: "2"},
			{Question: "What symbol starts every formula?", Options: []string{"#", "=", "@", "$"}, CorrectAnswer: "1"},
			{Question: "What does $A$1 denote?", Options: []string{"A relative reference", "A named range", "A currency value", "An absolute reference"}, CorrectAnswer: "3"},
		},
		domain.CategoryPowerPoint: {
			{Question: "Which key starts a slideshow from the beginning?", Options: []string{"F5", "F7", "F1", "F12"}, CorrectAnswer: "0"},
			{Question: "Where do you set a layout that all slides inherit?", Options: []string{"Normal view", "Slide Master", "Outline view", "Notes Page"}, CorrectAnswer: "1"},
		},
	}
}

func seedSampleQuestions(ctx context.Context, gw gateway.QuestionWriter, log *zap.Logger) {
	for category, inputs := range sampleQuestions() {
		summary := gateway.ImportQuestions(ctx, gw, category, inputs)
		log.Info("seeded sample questions",
			zap.String("category", string(category)),
			zap.Int("succeeded", summary.Succeeded),
			zap.Int("failed", summary.Failed),
		)
	}
}
