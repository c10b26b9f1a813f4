package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// ProductCatalog is the read-only product dataset loaded at startup
type ProductCatalog interface {
	Products() []Product
	Find(id string) (Product, bool)
	Len() int
	Empty() bool
	Source() string
}

// TextGenerator produces free text from a prompt (marketing copy, summaries)
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Embedder converts text into vectors for semantic retrieval
type Embedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
}

// VectorIndex stores product vectors and answers nearest-neighbour queries
type VectorIndex interface {
	Upsert(ctx context.Context, records []VectorRecord) error
	Query(ctx context.Context, vector []float32, topK int) ([]VectorMatch, error)
	Stats(ctx context.Context) (*IndexStats, error)
}
