package knowledge

import (
	"context"
	"fmt"
	"hash/fnv"

	"github.com/qdrant/go-client/qdrant"
	"go.uber.org/zap"

	"github.com/wealthpilot/advisor/internal/models"
)

// QdrantStore stores document embeddings in a Qdrant collection with cosine
// distance. Point IDs are derived from document IDs so re-indexing the same
// corpus overwrites instead of duplicating.
type QdrantStore struct {
	client     *qdrant.Client
	collection string
	dimensions int
	logger     *zap.Logger
}

// NewQdrantStore connects to Qdrant at host:port (gRPC).
func NewQdrantStore(host string, port int, collection string, dimensions int, logger *zap.Logger) (*QdrantStore, error) {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host: host,
		Port: port,
	})
	if err != nil {
		return nil, fmt.Errorf("connect qdrant: %w", err)
	}
	return &QdrantStore{
		client:     client,
		collection: collection,
		dimensions: dimensions,
		logger:     logger,
	}, nil
}

// EnsureCollection creates the collection if missing, dropping an existing
// one first when recreate is set.
func (s *QdrantStore) EnsureCollection(ctx context.Context, recreate bool) error {
	exists, err := s.client.CollectionExists(ctx, s.collection)
	if err != nil {
		return fmt.Errorf("check collection: %w", err)
	}
	if exists {
		if !recreate {
			return nil
		}
		if err := s.client.DeleteCollection(ctx, s.collection); err != nil {
			return fmt.Errorf("delete collection: %w", err)
		}
		s.logger.Info("dropped existing collection", zap.String("collection", s.collection))
	}
	err = s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: s.collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(s.dimensions),
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("create collection: %w", err)
	}
	s.logger.Info("created collection",
		zap.String("collection", s.collection),
		zap.Int("dimensions", s.dimensions))
	return nil
}

// UpsertBatch writes documents and their embeddings in one call.
func (s *QdrantStore) UpsertBatch(ctx context.Context, docs []models.KnowledgeDocument, vectors [][]float32) error {
	if len(docs) != len(vectors) {
		return fmt.Errorf("docs and vectors length mismatch: %d vs %d", len(docs), len(vectors))
	}
	points := make([]*qdrant.PointStruct, len(docs))
	for i, doc := range docs {
		points[i] = &qdrant.PointStruct{
			Id:      qdrant.NewIDNum(pointID(doc.ID)),
			Vectors: qdrant.NewVectors(vectors[i]...),
			Payload: qdrant.NewValueMap(map[string]any{
				"id":       doc.ID,
				"content":  doc.Text,
				"title":    doc.Title,
				"category": doc.Category,
			}),
		}
	}
	_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.collection,
		Wait:           qdrant.PtrOf(true),
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("upsert points: %w", err)
	}
	return nil
}

// Search returns the most similar snippets above threshold.
func (s *QdrantStore) Search(ctx context.Context, vector []float32, limit int, threshold float32) ([]models.RetrievedSnippet, error) {
	exists, err := s.client.CollectionExists(ctx, s.collection)
	if err != nil {
		return nil, fmt.Errorf("check collection: %w", err)
	}
	if !exists {
		return nil, nil
	}
	points, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.collection,
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(uint64(limit)),
		ScoreThreshold: qdrant.PtrOf(threshold),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("query points: %w", err)
	}
	snippets := make([]models.RetrievedSnippet, 0, len(points))
	for _, p := range points {
		snippet := models.RetrievedSnippet{
			Score:    p.GetScore(),
			Metadata: map[string]string{},
		}
		if v, ok := p.GetPayload()["id"]; ok {
			snippet.DocumentID = v.GetStringValue()
		}
		if v, ok := p.GetPayload()["content"]; ok {
			snippet.Text = v.GetStringValue()
		}
		if v, ok := p.GetPayload()["title"]; ok {
			snippet.Metadata["title"] = v.GetStringValue()
		}
		if v, ok := p.GetPayload()["category"]; ok {
			snippet.Metadata["category"] = v.GetStringValue()
		}
		snippets = append(snippets, snippet)
	}
	return snippets, nil
}

// Stats reports whether the collection exists and how many points it holds.
func (s *QdrantStore) Stats(ctx context.Context) (Stats, error) {
	exists, err := s.client.CollectionExists(ctx, s.collection)
	if err != nil {
		return Stats{}, fmt.Errorf("check collection: %w", err)
	}
	if !exists {
		return Stats{}, nil
	}
	count, err := s.client.Count(ctx, &qdrant.CountPoints{
		CollectionName: s.collection,
	})
	if err != nil {
		return Stats{}, fmt.Errorf("count points: %w", err)
	}
	return Stats{Exists: true, Count: count}, nil
}

// Close releases the gRPC connection.
func (s *QdrantStore) Close() error {
	return s.client.Close()
}

// pointID maps a document ID to a stable numeric point key.
func pointID(docID string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(docID))
	return h.Sum64()
}
