package app

import "category-quiz-service/internal/domain"

// Session is the owned, single-category quiz run behind one client. It is not
// safe for concurrent use; the goroutine serving the client owns it.
type Session struct {
	id       string
	category domain.Category
	state    State
	finished bool
}

// NewSession creates an empty session bound to category.
func NewSession(id string, category domain.Category) *Session {
	return &Session{id: id, category: category, state: NewState()}
}

func restoreSession(id string, snap domain.SessionSnapshot) *Session {
	return &Session{id: id, category: snap.Category, state: RestoreState(snap)}
}

// ID is the live session identifier used for checkpoints.
func (s *Session) ID() string { return s.id }

// Category is fixed for the lifetime of the session.
func (s *Session) Category() domain.Category { return s.category }

// State returns the current immutable state.
func (s *Session) State() State { return s.state }

// SetQuestions replaces the whole session with questions.
func (s *Session) SetQuestions(questions []domain.Question) {
	s.state = s.state.WithQuestions(questions)
}

// CurrentQuestion returns the question under the cursor.
func (s *Session) CurrentQuestion() (domain.Question, bool) {
	return s.state.CurrentQuestion()
}

func (s *Session) Progress() float64 { return s.state.Progress() }

func (s *Session) IsLastQuestion() bool { return s.state.IsLastQuestion() }

// SubmitAnswer records answer for the current question; no-op without one.
func (s *Session) SubmitAnswer(answer string) {
	s.state = s.state.SubmitAnswer(answer)
}

// NextQuestion advances unless already on the last question.
func (s *Session) NextQuestion() {
	s.state = s.state.NextQuestion()
}

func (s *Session) GetResults() []domain.QuizResult { return s.state.Results() }

func (s *Session) GetScore() domain.Score { return s.state.Score() }

// ResetQuiz restarts the run over the same questions.
func (s *Session) ResetQuiz() {
	s.state = s.state.Reset()
}

// Finished reports whether the session's results have been saved. A finished
// session still answers reads but is never saved again.
func (s *Session) Finished() bool { return s.finished }

func (s *Session) snapshot() domain.SessionSnapshot {
	return s.state.Snapshot(s.category)
}
