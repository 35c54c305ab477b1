package domain

import (
	"encoding/json"
	"time"
)

// Unanswered is reported as the user answer for questions with no submission.
const Unanswered = "Not answered"

// ResultsCollection holds persisted quiz session records.
const ResultsCollection = "quizResults"

// Question is a multiple-choice question. CorrectAnswer is the stringified
// zero-based index of the correct option and is compared verbatim.
type Question struct {
	ID            string    `json:"id"`
	Question      string    `json:"question"`
	Options       []string  `json:"options"`
	CorrectAnswer string    `json:"correctAnswer"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// QuestionInput carries the fields of a new question.
type QuestionInput struct {
	Question      string   `json:"question" yaml:"question"`
	Options       []string `json:"options" yaml:"options"`
	CorrectAnswer string   `json:"correctAnswer" yaml:"correctAnswer"`
}

// QuestionPatch is a partial update; nil fields are left untouched.
type QuestionPatch struct {
	Question      *string
	Options       []string
	CorrectAnswer *string
}

// Fields returns the patch as store field names.
func (p QuestionPatch) Fields() map[string]any {
	fields := make(map[string]any, 3)
	if p.Question != nil {
		fields["question"] = *p.Question
	}
	if p.Options != nil {
		fields["options"] = p.Options
	}
	if p.CorrectAnswer != nil {
		fields["correctAnswer"] = *p.CorrectAnswer
	}
	return fields
}

// QuizResult is the per-question outcome derived from session state.
type QuizResult struct {
	Question      string `json:"question"`
	UserAnswer    string `json:"userAnswer"`
	CorrectAnswer string `json:"correctAnswer"`
	IsCorrect     bool   `json:"isCorrect"`
}

// Score aggregates correct results over the loaded question count.
type Score struct {
	Score int `json:"score"`
	Total int `json:"total"`
}

// QuizSessionRecord is an append-only persisted quiz run.
type QuizSessionRecord struct {
	ID             string       `json:"id,omitempty"`
	SessionID      string       `json:"sessionId"`
	Category       Category     `json:"category,omitempty"`
	Results        []QuizResult `json:"results"`
	Score          int          `json:"score"`
	TotalQuestions int          `json:"totalQuestions"`
	CompletedAt    time.Time    `json:"completedAt"`
	SubmittedAt    time.Time    `json:"submittedAt"`
}

// Stats summarizes stored questions and results.
type Stats struct {
	TotalQuestions int     `json:"totalQuestions"`
	TotalResults   int     `json:"totalResults"`
	AverageScore   float64 `json:"averageScore"`
}

// Document is a raw record as held by a document store.
type Document struct {
	ID   string
	Data json.RawMessage
}

// SessionSnapshot is the serializable form of a live quiz session.
type SessionSnapshot struct {
	Category  Category          `json:"category"`
	Questions []Question        `json:"questions"`
	Index     int               `json:"index"`
	Answers   map[string]string `json:"answers"`
}
