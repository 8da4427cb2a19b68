package models

// KnowledgeDocument is one authored snippet of the advisory knowledge base.
// Documents are immutable once authored; the whole corpus is re-embedded and
// re-inserted as a batch on (re)initialization.
type KnowledgeDocument struct {
	ID       string `json:"id" yaml:"id"`
	Title    string `json:"title" yaml:"title"`
	Category string `json:"category" yaml:"category"`
	Text     string `json:"text" yaml:"text"`
}

// RetrievedSnippet is a semantic search hit. Score is cosine similarity
// (higher is better). Transient, produced per query.
type RetrievedSnippet struct {
	DocumentID string            `json:"document_id"`
	Text       string            `json:"text"`
	Score      float32           `json:"score"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}
