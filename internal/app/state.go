package app

import "category-quiz-service/internal/domain"

// State is an immutable snapshot of quiz progression. Transitions return a
// new State and never modify the receiver.
type State struct {
	questions []domain.Question
	index     int
	answers   map[string]string
}

// NewState returns a state with no questions loaded.
func NewState() State {
	return State{answers: map[string]string{}}
}

// RestoreState rebuilds a State from a snapshot, clamping a stale index.
func RestoreState(snap domain.SessionSnapshot) State {
	st := NewState().WithQuestions(snap.Questions)
	if snap.Index > 0 && snap.Index < len(st.questions) {
		st.index = snap.Index
	}
	for id, answer := range snap.Answers {
		st.answers[id] = answer
	}
	return st
}

// WithQuestions replaces the question set, rewinds to the first question and
// clears every answer.
func (s State) WithQuestions(questions []domain.Question) State {
	copied := make([]domain.Question, len(questions))
	copy(copied, questions)
	return State{questions: copied, index: 0, answers: map[string]string{}}
}

// Questions returns a copy of the loaded question set.
func (s State) Questions() []domain.Question {
	out := make([]domain.Question, len(s.questions))
	copy(out, s.questions)
	return out
}

// Index is the zero-based position of the current question.
func (s State) Index() int {
	return s.index
}

// Total is the number of loaded questions.
func (s State) Total() int {
	return len(s.questions)
}

// CurrentQuestion returns the question at the current position; ok is false
// when nothing is loaded.
func (s State) CurrentQuestion() (domain.Question, bool) {
	if s.index < 0 || s.index >= len(s.questions) {
		return domain.Question{}, false
	}
	return s.questions[s.index], true
}

// Progress is the percentage of the quiz reached, 0 for an empty set.
func (s State) Progress() float64 {
	total := len(s.questions)
	if total == 0 {
		return 0
	}
	return float64(s.index+1) / float64(total) * 100
}

// IsLastQuestion reports whether the position is on the final question.
// An empty set is never on its last question.
func (s State) IsLastQuestion() bool {
	return s.index == len(s.questions)-1
}

// SubmitAnswer records answer for the current question, replacing any
// earlier answer.
func (s State) SubmitAnswer(answer string) State {
	q, ok := s.CurrentQuestion()
	if !ok {
		return s
	}
	next := s.cloneAnswers()
	next.answers[q.ID] = answer
	return next
}

// Answer returns the recorded answer for a question id.
func (s State) Answer(questionID string) (string, bool) {
	a, ok := s.answers[questionID]
	return a, ok
}

// NextQuestion advances one position, saturating on the last question.
func (s State) NextQuestion() State {
	if s.IsLastQuestion() || len(s.questions) == 0 {
		return s
	}
	next := s
	next.index++
	return next
}

// Results compares every loaded question's answer with its correct token.
func (s State) Results() []domain.QuizResult {
	results := make([]domain.QuizResult, 0, len(s.questions))
	for _, q := range s.questions {
		answer, ok := s.answers[q.ID]
		userAnswer := answer
		if !ok {
			userAnswer = domain.Unanswered
		}
		results = append(results, domain.QuizResult{
			Question:      q.Question,
			UserAnswer:    userAnswer,
			CorrectAnswer: q.CorrectAnswer,
			IsCorrect:     ok && answer == q.CorrectAnswer,
		})
	}
	return results
}

// Score counts correct results.
func (s State) Score() domain.Score {
	return scoreOf(s.Results())
}

// Reset rewinds to the first question and clears answers, keeping questions.
func (s State) Reset() State {
	return State{questions: s.questions, index: 0, answers: map[string]string{}}
}

// Snapshot exports the state for persistence.
func (s State) Snapshot(category domain.Category) domain.SessionSnapshot {
	answers := make(map[string]string, len(s.answers))
	for k, v := range s.answers {
		answers[k] = v
	}
	return domain.SessionSnapshot{
		Category:  category,
		Questions: s.Questions(),
		Index:     s.index,
		Answers:   answers,
	}
}

func (s State) cloneAnswers() State {
	answers := make(map[string]string, len(s.answers)+1)
	for k, v := range s.answers {
		answers[k] = v
	}
	return State{questions: s.questions, index: s.index, answers: answers}
}

func scoreOf(results []domain.QuizResult) domain.Score {
	score := domain.Score{Total: len(results)}
	for _, r := range results {
		if r.IsCorrect {
			score.Score++
		}
	}
	return score
}
