package knowledge

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/wealthpilot/advisor/internal/models"
)

// MemoryStore is an in-memory Store using brute-force cosine search over
// normalized vectors. Suitable for tests and small corpora when Qdrant is
// not available.
type MemoryStore struct {
	dimensions int
	created    bool
	docs       []models.KnowledgeDocument
	vectors    [][]float32
	mu         sync.RWMutex
}

// NewMemoryStore creates an in-memory store for vectors of the given
// dimension.
func NewMemoryStore(dimensions int) (*MemoryStore, error) {
	if dimensions <= 0 {
		return nil, fmt.Errorf("dimensions must be positive")
	}
	return &MemoryStore{dimensions: dimensions}, nil
}

// EnsureCollection marks the store ready, clearing contents when recreate
// is set.
func (m *MemoryStore) EnsureCollection(ctx context.Context, recreate bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if recreate {
		m.docs = nil
		m.vectors = nil
	}
	m.created = true
	return nil
}

// UpsertBatch adds or replaces documents by ID.
func (m *MemoryStore) UpsertBatch(ctx context.Context, docs []models.KnowledgeDocument, vectors [][]float32) error {
	if len(docs) != len(vectors) {
		return fmt.Errorf("docs and vectors length mismatch: %d vs %d", len(docs), len(vectors))
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, doc := range docs {
		if len(vectors[i]) != m.dimensions {
			return fmt.Errorf("vector dimension mismatch: got %d, expected %d", len(vectors[i]), m.dimensions)
		}
		vec := make([]float32, m.dimensions)
		copy(vec, vectors[i])
		if idx := m.indexOf(doc.ID); idx >= 0 {
			m.docs[idx] = doc
			m.vectors[idx] = vec
			continue
		}
		m.docs = append(m.docs, doc)
		m.vectors = append(m.vectors, vec)
	}
	return nil
}

// Search returns the top snippets by cosine similarity at or above threshold.
func (m *MemoryStore) Search(ctx context.Context, vector []float32, limit int, threshold float32) ([]models.RetrievedSnippet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.created || limit <= 0 || len(m.docs) == 0 {
		return nil, nil
	}
	if len(vector) != m.dimensions {
		return nil, fmt.Errorf("query dimension mismatch: got %d, expected %d", len(vector), m.dimensions)
	}
	type scored struct {
		idx   int
		score float32
	}
	scores := make([]scored, 0, len(m.docs))
	for i, vec := range m.vectors {
		var dot float64
		for j := 0; j < m.dimensions; j++ {
			dot += float64(vector[j] * vec[j])
		}
		if float32(dot) >= threshold {
			scores = append(scores, scored{idx: i, score: float32(dot)})
		}
	}
	sort.Slice(scores, func(i, j int) bool { return scores[i].score > scores[j].score })
	if limit > len(scores) {
		limit = len(scores)
	}
	snippets := make([]models.RetrievedSnippet, limit)
	for i := 0; i < limit; i++ {
		doc := m.docs[scores[i].idx]
		snippets[i] = models.RetrievedSnippet{
			DocumentID: doc.ID,
			Text:       doc.Text,
			Score:      scores[i].score,
			Metadata: map[string]string{
				"title":    doc.Title,
				"category": doc.Category,
			},
		}
	}
	return snippets, nil
}

// Stats reports existence and document count.
func (m *MemoryStore) Stats(ctx context.Context) (Stats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.created {
		return Stats{}, nil
	}
	return Stats{Exists: true, Count: uint64(len(m.docs))}, nil
}

// Close is a no-op for MemoryStore.
func (m *MemoryStore) Close() error {
	return nil
}

func (m *MemoryStore) indexOf(id string) int {
	for i, doc := range m.docs {
		if doc.ID == id {
			return i
		}
	}
	return -1
}
