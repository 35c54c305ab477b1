package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"category-quiz-service/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// DocumentStore keeps JSONB documents in the documents table, keyed by
// (collection, id).
type DocumentStore struct {
	pool  *pgxpool.Pool
	newID func() string
}

func NewDocumentStore(pool *pgxpool.Pool) *DocumentStore {
	return &DocumentStore{pool: pool, newID: uuid.NewString}
}

func (s *DocumentStore) List(ctx context.Context, collection string) ([]domain.Document, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, data FROM documents WHERE collection=$1 ORDER BY created_at, id`, collection)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	defer rows.Close()

	docs := []domain.Document{}
	for rows.Next() {
		var (
			id  string
			raw []byte
		)
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("scan %s: %w", collection, err)
		}
		docs = append(docs, domain.Document{ID: id, Data: json.RawMessage(raw)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	return docs, nil
}

func (s *DocumentStore) Get(ctx context.Context, collection, id string) (domain.Document, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx,
		`SELECT data FROM documents WHERE collection=$1 AND id=$2`, collection, id).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Document{}, domain.ErrDocumentNotFound
	}
	if err != nil {
		return domain.Document{}, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	return domain.Document{ID: id, Data: json.RawMessage(raw)}, nil
}

func (s *DocumentStore) Create(ctx context.Context, collection string, data json.RawMessage) (string, error) {
	id := s.newID()
	_, err := s.pool.Exec(ctx,
		`INSERT INTO documents (collection, id, data) VALUES ($1, $2, $3::jsonb)`,
		collection, id, string(data))
	if err != nil {
		return "", fmt.Errorf("insert into %s: %w", collection, err)
	}
	return id, nil
}

func (s *DocumentStore) Update(ctx context.Context, collection, id string, patch json.RawMessage) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE documents SET data = data || $3::jsonb WHERE collection=$1 AND id=$2`,
		collection, id, string(patch))
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrDocumentNotFound
	}
	return nil
}

func (s *DocumentStore) Delete(ctx context.Context, collection, id string) error {
	if _, err := s.pool.Exec(ctx,
		`DELETE FROM documents WHERE collection=$1 AND id=$2`, collection, id); err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	return nil
}

// Ping checks database connectivity.
func (s *DocumentStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}
