package app

import (
	"context"
	"fmt"

	"category-quiz-service/internal/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// QuestionGateway is the slice of the persistence gateway the quiz flow needs.
type QuestionGateway interface {
	GetQuestions(ctx context.Context, category domain.Category) ([]domain.Question, error)
	SaveQuizResult(ctx context.Context, category domain.Category, results []domain.QuizResult, score, total int) (string, error)
}

// SessionRepository checkpoints live sessions (in-memory, Redis, etc).
type SessionRepository interface {
	Save(ctx context.Context, id string, snap domain.SessionSnapshot) error
	Load(ctx context.Context, id string) (domain.SessionSnapshot, bool, error)
	Delete(ctx context.Context, id string) error
}

// Outcome is what a finished session reports back to its client.
type Outcome struct {
	RecordID string              `json:"id"`
	Results  []domain.QuizResult `json:"results"`
	Score    domain.Score        `json:"score"`
}

// QuizService contains the quiz use cases on top of the state machine.
type QuizService struct {
	gateway  QuestionGateway
	sessions SessionRepository
	newID    func() string
	log      *zap.Logger
}

// ServiceOption customizes a QuizService.
type ServiceOption func(*QuizService)

// WithServiceLogger reports checkpoint cleanup failures that do not fail a call.
func WithServiceLogger(log *zap.Logger) ServiceOption {
	return func(s *QuizService) {
		if log != nil {
			s.log = log
		}
	}
}

func NewQuizService(gateway QuestionGateway, sessions SessionRepository, opts ...ServiceOption) *QuizService {
	s := &QuizService{gateway: gateway, sessions: sessions, newID: uuid.NewString, log: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start loads the category's questions into a fresh session.
func (s *QuizService) Start(ctx context.Context, category domain.Category) (*Session, error) {
	questions, err := s.gateway.GetQuestions(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("load questions for %s: %w", category, err)
	}
	session := NewSession(s.newID(), category)
	session.SetQuestions(questions)
	if err := s.Checkpoint(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Resume restores a checkpointed session.
func (s *QuizService) Resume(ctx context.Context, id string) (*Session, error) {
	snap, ok, err := s.sessions.Load(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return restoreSession(id, snap), nil
}

// Checkpoint stores the session's current state. Finished sessions are
// rejected with ErrSessionFinished.
func (s *QuizService) Checkpoint(ctx context.Context, session *Session) error {
	if session.Finished() {
		return domain.ErrSessionFinished
	}
	if err := s.sessions.Save(ctx, session.ID(), session.snapshot()); err != nil {
		return fmt.Errorf("checkpoint session %s: %w", session.ID(), err)
	}
	return nil
}

// Finish persists the session's results once and drops its checkpoint. The
// returned results come from session state, not from the store. A second
// call returns ErrSessionFinished without saving.
func (s *QuizService) Finish(ctx context.Context, session *Session) (Outcome, error) {
	if session.Finished() {
		return Outcome{}, domain.ErrSessionFinished
	}
	results := session.GetResults()
	score := scoreOf(results)

	id, err := s.gateway.SaveQuizResult(ctx, session.Category(), results, score.Score, score.Total)
	if err != nil {
		return Outcome{}, fmt.Errorf("save quiz result: %w", err)
	}
	session.finished = true
	// Saved results stand even if the checkpoint outlives them until its TTL.
	if err := s.sessions.Delete(ctx, session.ID()); err != nil {
		s.log.Warn("drop checkpoint failed", zap.Error(err), zap.String("session", session.ID()))
	}
	return Outcome{RecordID: id, Results: results, Score: score}, nil
}

// Discard drops a session's checkpoint without saving results.
func (s *QuizService) Discard(ctx context.Context, session *Session) error {
	return s.sessions.Delete(ctx, session.ID())
}
