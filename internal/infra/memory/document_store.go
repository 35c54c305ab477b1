package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"category-quiz-service/internal/domain"
	"github.com/google/uuid"
)

// DocumentStore is an in-memory gateway.DocumentStore. Lists return documents
// in insertion order.
type DocumentStore struct {
	mu          sync.RWMutex
	collections map[string]*collection
	newID       func() string
}

type collection struct {
	order []string
	docs  map[string]json.RawMessage
}

func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		collections: make(map[string]*collection),
		newID:       uuid.NewString,
	}
}

func (s *DocumentStore) List(_ context.Context, name string) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.collections[name]
	if !ok {
		return []domain.Document{}, nil
	}
	docs := make([]domain.Document, 0, len(c.order))
	for _, id := range c.order {
		docs = append(docs, domain.Document{ID: id, Data: cloneRaw(c.docs[id])})
	}
	return docs, nil
}

func (s *DocumentStore) Get(_ context.Context, name, id string) (domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.collections[name]
	if !ok {
		return domain.Document{}, domain.ErrDocumentNotFound
	}
	data, ok := c.docs[id]
	if !ok {
		return domain.Document{}, domain.ErrDocumentNotFound
	}
	return domain.Document{ID: id, Data: cloneRaw(data)}, nil
}

func (s *DocumentStore) Create(_ context.Context, name string, data json.RawMessage) (string, error) {
	if !json.Valid(data) {
		return "", fmt.Errorf("create in %s: invalid json document", name)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.collectionLocked(name)
	id := s.newID()
	c.order = append(c.order, id)
	c.docs[id] = cloneRaw(data)
	return id, nil
}

func (s *DocumentStore) Update(_ context.Context, name, id string, patch json.RawMessage) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(patch, &fields); err != nil {
		return fmt.Errorf("update %s/%s: %w", name, id, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.collections[name]
	if !ok {
		return domain.ErrDocumentNotFound
	}
	existing, ok := c.docs[id]
	if !ok {
		return domain.ErrDocumentNotFound
	}
	merged := map[string]json.RawMessage{}
	if err := json.Unmarshal(existing, &merged); err != nil {
		return fmt.Errorf("update %s/%s: %w", name, id, err)
	}
	for k, v := range fields {
		merged[k] = v
	}
	data, err := json.Marshal(merged)
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", name, id, err)
	}
	c.docs[id] = data
	return nil
}

func (s *DocumentStore) Delete(_ context.Context, name, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.collections[name]
	if !ok {
		return nil
	}
	if _, ok := c.docs[id]; !ok {
		return nil
	}
	delete(c.docs, id)
	for i, existing := range c.order {
		if existing == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *DocumentStore) collectionLocked(name string) *collection {
	c, ok := s.collections[name]
	if !ok {
		c = &collection{docs: make(map[string]json.RawMessage)}
		s.collections[name] = c
	}
	return c
}

func cloneRaw(raw json.RawMessage) json.RawMessage {
	out := make(json.RawMessage, len(raw))
	copy(out, raw)
	return out
}
