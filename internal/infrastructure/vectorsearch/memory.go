package vectorsearch

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/furnishly/backend/internal/domain"
)

// MemoryIndex is a brute-force cosine similarity index held in process.
// Upserting an existing id replaces its vector.
type MemoryIndex struct {
	mu        sync.RWMutex
	dimension int
	ids       []string
	vectors   [][]float32
	metadata  []map[string]string
	position  map[string]int
}

// NewMemoryIndex creates an empty index for vectors of the given dimension
func NewMemoryIndex(dimension int) *MemoryIndex {
	return &MemoryIndex{
		dimension: dimension,
		position:  make(map[string]int),
	}
}

// Upsert inserts or replaces records
func (m *MemoryIndex) Upsert(ctx context.Context, records []domain.VectorRecord) error {
	for _, r := range records {
		if len(r.Values) != m.dimension {
			return fmt.Errorf("%w: vector %q has dimension %d, index expects %d",
				domain.ErrVectorSearchFailure, r.ID, len(r.Values), m.dimension)
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, r := range records {
		vector := normalize(r.Values)
		if i, ok := m.position[r.ID]; ok {
			m.vectors[i] = vector
			m.metadata[i] = r.Metadata
			continue
		}
		m.position[r.ID] = len(m.ids)
		m.ids = append(m.ids, r.ID)
		m.vectors = append(m.vectors, vector)
		m.metadata = append(m.metadata, r.Metadata)
	}
	return nil
}

// Query returns the topK most similar vectors, best first. Equal scores keep
// insertion order.
func (m *MemoryIndex) Query(ctx context.Context, vector []float32, topK int) ([]domain.VectorMatch, error) {
	if len(vector) != m.dimension {
		return nil, fmt.Errorf("%w: query has dimension %d, index expects %d",
			domain.ErrVectorSearchFailure, len(vector), m.dimension)
	}
	if topK <= 0 {
		return []domain.VectorMatch{}, nil
	}

	query := normalize(vector)

	m.mu.RLock()
	defer m.mu.RUnlock()

	matches := make([]domain.VectorMatch, len(m.ids))
	for i := range m.ids {
		matches[i] = domain.VectorMatch{
			ID:       m.ids[i],
			Score:    dot(query, m.vectors[i]),
			Metadata: m.metadata[i],
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

// Stats reports the dimension and number of stored vectors
func (m *MemoryIndex) Stats(ctx context.Context) (*domain.IndexStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return &domain.IndexStats{Dimension: m.dimension, VectorCount: len(m.ids)}, nil
}

// normalize returns v scaled to unit length; the zero vector is returned as is
func normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	out := make([]float32, len(v))
	if sum == 0 {
		copy(out, v)
		return out
	}
	norm := math.Sqrt(sum)
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out
}

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
