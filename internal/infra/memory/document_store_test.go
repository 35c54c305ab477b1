package memory

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"category-quiz-service/internal/domain"
)

func TestDocumentStoreListsInInsertionOrder(t *testing.T) {
	ctx := context.Background()
	store := NewDocumentStore()

	docs, err := store.List(ctx, "empty")
	if err != nil || docs == nil || len(docs) != 0 {
		t.Fatalf("expected empty non-nil list, got %v %v", docs, err)
	}

	var ids []string
	for _, body := range []string{`{"n":1}`, `{"n":2}`, `{"n":3}`} {
		id, err := store.Create(ctx, "c", json.RawMessage(body))
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		ids = append(ids, id)
	}
	if err := store.Delete(ctx, "c", ids[1]); err != nil {
		t.Fatalf("delete: %v", err)
	}

	docs, _ = store.List(ctx, "c")
	if len(docs) != 2 || docs[0].ID != ids[0] || docs[1].ID != ids[2] {
		t.Fatalf("unexpected order %+v", docs)
	}
}

func TestDocumentStoreUpdateMerges(t *testing.T) {
	ctx := context.Background()
	store := NewDocumentStore()
	id, _ := store.Create(ctx, "c", json.RawMessage(`{"a":1,"b":"x"}`))

	if err := store.Update(ctx, "c", id, json.RawMessage(`{"b":"y","c":true}`)); err != nil {
		t.Fatalf("update: %v", err)
	}
	docs, _ := store.List(ctx, "c")
	var body map[string]any
	if err := json.Unmarshal(docs[0].Data, &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["a"] != float64(1) || body["b"] != "y" || body["c"] != true {
		t.Fatalf("unexpected merged document %v", body)
	}

	if err := store.Update(ctx, "c", "missing", json.RawMessage(`{}`)); !errors.Is(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
	if err := store.Update(ctx, "other", id, json.RawMessage(`{}`)); !errors.Is(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound for other collection, got %v", err)
	}
}

func TestDocumentStoreRejectsInvalidJSON(t *testing.T) {
	if _, err := NewDocumentStore().Create(context.Background(), "c", json.RawMessage(`{`)); err == nil {
		t.Fatalf("expected invalid json to be rejected")
	}
}

func TestDocumentStoreDeleteIsIdempotent(t *testing.T) {
	store := NewDocumentStore()
	if err := store.Delete(context.Background(), "c", "missing"); err != nil {
		t.Fatalf("delete missing: %v", err)
	}
}

func TestDocumentStoreGet(t *testing.T) {
	ctx := context.Background()
	store := NewDocumentStore()
	if _, err := store.Get(ctx, "c", "x"); !errors.Is(err, domain.ErrDocumentNotFound) {
		t.Fatalf("missing collection: expected ErrDocumentNotFound, got %v", err)
	}
	id, err := store.Create(ctx, "c", json.RawMessage(`{"n":1}`))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	doc, err := store.Get(ctx, "c", id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if doc.ID != id || string(doc.Data) != `{"n":1}` {
		t.Fatalf("unexpected doc %+v", doc)
	}
	doc.Data[2] = 'X'
	again, _ := store.Get(ctx, "c", id)
	if string(again.Data) != `{"n":1}` {
		t.Fatalf("get must return a copy, stored %s", again.Data)
	}
	if _, err := store.Get(ctx, "c", "x"); !errors.Is(err, domain.ErrDocumentNotFound) {
		t.Fatalf("missing doc: expected ErrDocumentNotFound, got %v", err)
	}
}
