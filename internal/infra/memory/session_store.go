package memory

import (
	"context"
	"sync"

	"category-quiz-service/internal/domain"
)

// SessionStore is an in-memory implementation of app.SessionRepository.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]domain.SessionSnapshot
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]domain.SessionSnapshot),
	}
}

func (s *SessionStore) Save(_ context.Context, id string, snap domain.SessionSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = snap
	return nil
}

func (s *SessionStore) Load(_ context.Context, id string) (domain.SessionSnapshot, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.sessions[id]
	return snap, ok, nil
}

func (s *SessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// Len reports how many sessions are checkpointed.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
