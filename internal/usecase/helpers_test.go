package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/furnishly/backend/internal/domain"
)

// fakeCatalog is an in-memory domain.ProductCatalog for tests
type fakeCatalog struct {
	products []domain.Product
}

func newFakeCatalog(products ...domain.Product) *fakeCatalog {
	return &fakeCatalog{products: products}
}

func (c *fakeCatalog) Products() []domain.Product { return c.products }
func (c *fakeCatalog) Len() int                   { return len(c.products) }
func (c *fakeCatalog) Empty() bool                { return len(c.products) == 0 }
func (c *fakeCatalog) Source() string             { return "test" }

func (c *fakeCatalog) Find(id string) (domain.Product, bool) {
	for _, p := range c.products {
		if p.ID() == id {
			return p, true
		}
	}
	return nil, false
}

// mockGenerator records prompts and replies with a canned answer
type mockGenerator struct {
	mu      sync.Mutex
	reply   string
	err     error
	prompts []string
}

func (g *mockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.prompts = append(g.prompts, prompt)
	return g.reply, g.err
}

func (g *mockGenerator) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.prompts)
}

// mockCache is a minimal domain.CacheRepository
type mockCache struct {
	mu   sync.Mutex
	data map[string]interface{}
}

func newMockCache() *mockCache {
	return &mockCache{data: make(map[string]interface{})}
}

func (c *mockCache) Get(ctx context.Context, key string) (interface{}, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	if !ok {
		return nil, domain.ErrCacheMiss
	}
	return v, nil
}

func (c *mockCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *mockCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *mockCache) Exists(ctx context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok, nil
}

// mockEmbedder maps every text to a fixed-size vector derived from keywords
type mockEmbedder struct {
	vectors map[string][]float32
	err     error
	batches int
	mu      sync.Mutex
}

func (e *mockEmbedder) vectorFor(text string) []float32 {
	if v, ok := e.vectors[text]; ok {
		return v
	}
	return []float32{0, 0, 1}
}

func (e *mockEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if e.err != nil {
		return nil, e.err
	}
	return e.vectorFor(text), nil
}

func (e *mockEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	if e.err != nil {
		return nil, e.err
	}
	e.mu.Lock()
	e.batches++
	e.mu.Unlock()
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = e.vectorFor(t)
	}
	return out, nil
}

// mockIndex captures upserts and returns canned matches
type mockIndex struct {
	mu       sync.Mutex
	upserted []domain.VectorRecord
	matches  []domain.VectorMatch
	err      error
	lastTopK int
}

func (m *mockIndex) Upsert(ctx context.Context, records []domain.VectorRecord) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upserted = append(m.upserted, records...)
	return nil
}

func (m *mockIndex) Query(ctx context.Context, vector []float32, topK int) ([]domain.VectorMatch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastTopK = topK
	if m.err != nil {
		return nil, m.err
	}
	return m.matches, nil
}

func (m *mockIndex) Stats(ctx context.Context) (*domain.IndexStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return &domain.IndexStats{Dimension: 3, VectorCount: len(m.upserted)}, nil
}

var errBackend = errors.New("backend unavailable")
