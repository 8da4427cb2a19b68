// Package embedding provides in-process text embedding. The model is loaded
// once per process; a load failure is a fatal configuration error.
package embedding

import "context"

// Embedder produces fixed-dimension vector embeddings for text. Embeddings
// are deterministic for identical input and model version, and normalized to
// unit length so inner product equals cosine similarity. Implementations are
// safe for concurrent use.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
	Close() error
}
