package knowledge

import (
	"context"
	"testing"

	"github.com/wealthpilot/advisor/internal/models"
)

func TestMemoryStoreSearch(t *testing.T) {
	store, err := NewMemoryStore(3)
	if err != nil {
		t.Fatalf("NewMemoryStore failed: %v", err)
	}
	ctx := context.Background()
	if err := store.EnsureCollection(ctx, false); err != nil {
		t.Fatalf("EnsureCollection failed: %v", err)
	}

	docs := []models.KnowledgeDocument{
		{ID: "a", Title: "Stocks", Category: "Basics", Text: "stocks text"},
		{ID: "b", Title: "Bonds", Category: "Basics", Text: "bonds text"},
		{ID: "c", Title: "Funds", Category: "Basics", Text: "funds text"},
	}
	vectors := [][]float32{
		{1, 0, 0},
		{0, 1, 0},
		{0.7, 0.7, 0},
	}
	if err := store.UpsertBatch(ctx, docs, vectors); err != nil {
		t.Fatalf("UpsertBatch failed: %v", err)
	}

	snippets, err := store.Search(ctx, []float32{1, 0, 0}, 2, 0.3)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(snippets) != 2 {
		t.Fatalf("expected 2 snippets, got %d", len(snippets))
	}
	if snippets[0].DocumentID != "a" {
		t.Fatalf("expected best match a, got %s", snippets[0].DocumentID)
	}
	if snippets[1].DocumentID != "c" {
		t.Fatalf("expected second match c, got %s", snippets[1].DocumentID)
	}
	if snippets[0].Score < snippets[1].Score {
		t.Fatal("snippets not ordered by score")
	}
	if snippets[0].Metadata["title"] != "Stocks" {
		t.Fatalf("missing title metadata: %v", snippets[0].Metadata)
	}
}

func TestMemoryStoreThreshold(t *testing.T) {
	store, _ := NewMemoryStore(2)
	ctx := context.Background()
	store.EnsureCollection(ctx, false)
	store.UpsertBatch(ctx,
		[]models.KnowledgeDocument{{ID: "a", Text: "t"}},
		[][]float32{{0, 1}},
	)

	snippets, err := store.Search(ctx, []float32{1, 0}, 3, 0.3)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(snippets) != 0 {
		t.Fatalf("expected no snippets below threshold, got %d", len(snippets))
	}
}

func TestMemoryStoreSearchBeforeCreate(t *testing.T) {
	store, _ := NewMemoryStore(2)
	snippets, err := store.Search(context.Background(), []float32{1, 0}, 3, 0)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if snippets != nil {
		t.Fatal("expected nil result before collection exists")
	}
}

func TestMemoryStoreUpsertReplacesByID(t *testing.T) {
	store, _ := NewMemoryStore(2)
	ctx := context.Background()
	store.EnsureCollection(ctx, false)
	store.UpsertBatch(ctx, []models.KnowledgeDocument{{ID: "a", Text: "old"}}, [][]float32{{1, 0}})
	store.UpsertBatch(ctx, []models.KnowledgeDocument{{ID: "a", Text: "new"}}, [][]float32{{1, 0}})

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.Count != 1 {
		t.Fatalf("expected 1 document after replace, got %d", stats.Count)
	}
	snippets, _ := store.Search(ctx, []float32{1, 0}, 1, 0)
	if snippets[0].Text != "new" {
		t.Fatalf("expected replaced text, got %q", snippets[0].Text)
	}
}

func TestMemoryStoreRecreate(t *testing.T) {
	store, _ := NewMemoryStore(2)
	ctx := context.Background()
	store.EnsureCollection(ctx, false)
	store.UpsertBatch(ctx, []models.KnowledgeDocument{{ID: "a", Text: "t"}}, [][]float32{{1, 0}})

	if err := store.EnsureCollection(ctx, true); err != nil {
		t.Fatalf("EnsureCollection recreate failed: %v", err)
	}
	stats, _ := store.Stats(ctx)
	if stats.Count != 0 {
		t.Fatalf("expected empty store after recreate, got %d", stats.Count)
	}
	if !stats.Exists {
		t.Fatal("expected collection to exist after recreate")
	}
}

func TestMemoryStoreDimensionMismatch(t *testing.T) {
	store, _ := NewMemoryStore(3)
	ctx := context.Background()
	store.EnsureCollection(ctx, false)
	err := store.UpsertBatch(ctx, []models.KnowledgeDocument{{ID: "a"}}, [][]float32{{1, 0}})
	if err == nil {
		t.Fatal("expected dimension mismatch error")
	}
}
