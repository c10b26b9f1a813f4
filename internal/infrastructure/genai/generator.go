// Package genai adapts OpenAI-compatible chat and embedding APIs to the
// domain.TextGenerator and domain.Embedder capabilities.
package genai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/furnishly/backend/internal/domain"
	"github.com/furnishly/backend/internal/logging"
)

// Options configures the OpenAI-compatible client
type Options struct {
	APIKey         string
	BaseURL        string
	Model          string
	EmbeddingModel string
	Temperature    float64
}

// ErrMissingAPIKey is returned when a client is built without credentials
var ErrMissingAPIKey = errors.New("genai: api key is required")

// Generator implements domain.TextGenerator on top of a langchaingo model
type Generator struct {
	model       llms.Model
	temperature float64
	logger      zerolog.Logger
}

// NewGenerator creates a Generator backed by the OpenAI chat API
func NewGenerator(opts Options) (*Generator, error) {
	client, err := newClient(opts)
	if err != nil {
		return nil, err
	}
	return NewGeneratorWithModel(client, opts.Temperature), nil
}

// NewGeneratorWithModel wraps an existing langchaingo model
func NewGeneratorWithModel(model llms.Model, temperature float64) *Generator {
	return &Generator{
		model:       model,
		temperature: temperature,
		logger:      logging.Component("genai"),
	}
}

// Generate sends prompt as a single user message and returns the reply text
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	start := time.Now()

	text, err := llms.GenerateFromSinglePrompt(ctx, g.model, prompt, llms.WithTemperature(g.temperature))
	if err != nil {
		g.logger.Error().Err(err).Dur("elapsed", time.Since(start)).Msg("generation failed")
		return "", fmt.Errorf("%w: %w", domain.ErrGenerationFailure, err)
	}

	g.logger.Debug().
		Int("prompt_chars", len(prompt)).
		Int("reply_chars", len(text)).
		Dur("elapsed", time.Since(start)).
		Msg("generation complete")
	return text, nil
}

func newClient(opts Options) (*openai.LLM, error) {
	if opts.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	clientOpts := []openai.Option{openai.WithToken(opts.APIKey)}
	if opts.BaseURL != "" {
		clientOpts = append(clientOpts, openai.WithBaseURL(opts.BaseURL))
	}
	if opts.Model != "" {
		clientOpts = append(clientOpts, openai.WithModel(opts.Model))
	}
	if opts.EmbeddingModel != "" {
		clientOpts = append(clientOpts, openai.WithEmbeddingModel(opts.EmbeddingModel))
	}

	client, err := openai.New(clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("genai: creating client: %w", err)
	}
	return client, nil
}
