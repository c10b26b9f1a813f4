package vectorsearch

import (
	"strconv"

	"github.com/furnishly/backend/internal/domain"
)

// Pinecone data-plane request and response bodies

type wireVector struct {
	ID       string            `json:"id"`
	Values   []float32         `json:"values"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

type upsertRequest struct {
	Vectors   []wireVector `json:"vectors"`
	Namespace string       `json:"namespace,omitempty"`
}

type upsertResponse struct {
	UpsertedCount int `json:"upsertedCount"`
}

type queryRequest struct {
	Vector          []float32 `json:"vector"`
	TopK            int       `json:"topK"`
	IncludeMetadata bool      `json:"includeMetadata"`
	Namespace       string    `json:"namespace,omitempty"`
}

type wireMatch struct {
	ID       string         `json:"id"`
	Score    float64        `json:"score"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

type queryResponse struct {
	Matches   []wireMatch `json:"matches"`
	Namespace string      `json:"namespace"`
}

type namespaceStats struct {
	VectorCount int `json:"vectorCount"`
}

type statsResponse struct {
	Dimension        int                       `json:"dimension"`
	TotalVectorCount int                       `json:"totalVectorCount"`
	Namespaces       map[string]namespaceStats `json:"namespaces"`
}

// toDomain reports the namespace's count when one is configured
func (r *statsResponse) toDomain(namespace string) *domain.IndexStats {
	count := r.TotalVectorCount
	if namespace != "" {
		count = r.Namespaces[namespace].VectorCount
	}
	return &domain.IndexStats{Dimension: r.Dimension, VectorCount: count}
}

func toWireVectors(records []domain.VectorRecord) []wireVector {
	out := make([]wireVector, len(records))
	for i, r := range records {
		out[i] = wireVector{ID: r.ID, Values: r.Values, Metadata: dropEmpty(r.Metadata)}
	}
	return out
}

func fromWireMatches(matches []wireMatch) []domain.VectorMatch {
	out := make([]domain.VectorMatch, len(matches))
	for i, m := range matches {
		out[i] = domain.VectorMatch{ID: m.ID, Score: m.Score, Metadata: stringifyMetadata(m.Metadata)}
	}
	return out
}

// dropEmpty removes blank values; Pinecone rejects null metadata and empty
// strings only bloat the index
func dropEmpty(metadata map[string]string) map[string]string {
	if len(metadata) == 0 {
		return nil
	}
	out := make(map[string]string, len(metadata))
	for k, v := range metadata {
		if v != "" {
			out[k] = v
		}
	}
	return out
}

// stringifyMetadata flattens scalar metadata values to strings. Lists and
// nested objects are skipped.
func stringifyMetadata(metadata map[string]any) map[string]string {
	if len(metadata) == 0 {
		return nil
	}
	out := make(map[string]string, len(metadata))
	for k, v := range metadata {
		switch val := v.(type) {
		case string:
			out[k] = val
		case float64:
			out[k] = strconv.FormatFloat(val, 'f', -1, 64)
		case bool:
			out[k] = strconv.FormatBool(val)
		}
	}
	return out
}
