package genai

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/tmc/langchaingo/embeddings"

	"github.com/furnishly/backend/internal/logging"
)

// embeddingBatchSize is how many documents go into one embeddings request
const embeddingBatchSize = 100

// Embedder implements domain.Embedder using langchaingo embeddings
type Embedder struct {
	embedder embeddings.Embedder
	logger   zerolog.Logger
}

// NewEmbedder creates an Embedder backed by the OpenAI embeddings API
func NewEmbedder(opts Options) (*Embedder, error) {
	client, err := newClient(opts)
	if err != nil {
		return nil, err
	}
	return NewEmbedderWithClient(client)
}

// NewEmbedderWithClient wraps any langchaingo embedder client
func NewEmbedderWithClient(client embeddings.EmbedderClient) (*Embedder, error) {
	embedder, err := embeddings.NewEmbedder(client,
		embeddings.WithStripNewLines(true),
		embeddings.WithBatchSize(embeddingBatchSize),
	)
	if err != nil {
		return nil, fmt.Errorf("genai: creating embedder: %w", err)
	}

	return &Embedder{
		embedder: embedder,
		logger:   logging.Component("genai"),
	}, nil
}

// EmbedQuery embeds a single search query
func (e *Embedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vector, err := e.embedder.EmbedQuery(ctx, text)
	if err != nil {
		e.logger.Error().Err(err).Msg("failed to embed query")
		return nil, err
	}
	return vector, nil
}

// EmbedDocuments embeds texts in order
func (e *Embedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	e.logger.Debug().Int("count", len(texts)).Msg("embedding documents")

	vectors, err := e.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		e.logger.Error().Err(err).Int("count", len(texts)).Msg("failed to embed documents")
		return nil, err
	}
	return vectors, nil
}
