// Package knowledge provides semantic storage and retrieval of financial
// knowledge documents backed by a vector database.
package knowledge

import (
	"context"

	"github.com/wealthpilot/advisor/internal/models"
)

// Store defines vector storage and similarity search over knowledge documents.
type Store interface {
	// EnsureCollection creates the backing collection if missing. With
	// recreate set, an existing collection is dropped first.
	EnsureCollection(ctx context.Context, recreate bool) error

	// UpsertBatch writes documents with their embeddings. Both slices must
	// have the same length.
	UpsertBatch(ctx context.Context, docs []models.KnowledgeDocument, vectors [][]float32) error

	// Search returns up to limit snippets scoring at or above threshold,
	// ordered by descending similarity. A missing collection yields an
	// empty result, not an error.
	Search(ctx context.Context, vector []float32, limit int, threshold float32) ([]models.RetrievedSnippet, error)

	// Stats reports collection existence and document count.
	Stats(ctx context.Context) (Stats, error)

	Close() error
}

// Stats describes the state of the knowledge collection.
type Stats struct {
	Exists bool   `json:"exists"`
	Count  uint64 `json:"document_count"`
}
