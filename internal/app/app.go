// Package app wires configuration into the catalog, backends and use cases
// shared by the API server and the operator CLI.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/furnishly/backend/config"
	"github.com/furnishly/backend/internal/domain"
	"github.com/furnishly/backend/internal/infrastructure/cache"
	"github.com/furnishly/backend/internal/infrastructure/dataset"
	"github.com/furnishly/backend/internal/infrastructure/genai"
	"github.com/furnishly/backend/internal/infrastructure/vectorsearch"
	"github.com/furnishly/backend/internal/logging"
	"github.com/furnishly/backend/internal/metrics"
	"github.com/furnishly/backend/internal/usecase"
)

// App is the assembled object graph
type App struct {
	Catalog      *dataset.Catalog
	Cache        domain.CacheRepository
	Recommend    *usecase.RecommendService
	Analytics    *usecase.AnalyticsService
	Products     *usecase.ProductService
	Descriptions *usecase.DescriptionService
	Semantic     *usecase.SemanticService
}

// New loads the catalog and builds every service. A missing dataset is not
// fatal: the catalog is empty and data endpoints report it. Backend
// construction errors are returned.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	log := logging.Component("app")

	catalog, err := dataset.Load(ctx, dataset.DefaultSources(cfg.Data.JSONPath, cfg.Data.UseEmbedded, cfg.Data.CSVPaths)...)
	if err != nil {
		if !errors.Is(err, domain.ErrDataUnavailable) {
			return nil, err
		}
		log.Error().Err(err).Msg("no product dataset loaded, serving empty catalog")
	}
	metrics.CatalogProducts.Set(float64(catalog.Len()))

	store := cache.New(cfg.Cache.Type)

	var generator domain.TextGenerator
	var embedder domain.Embedder
	if cfg.GenAI.Enabled {
		opts := genai.Options{
			APIKey:         cfg.GenAI.APIKey,
			BaseURL:        cfg.GenAI.BaseURL,
			Model:          cfg.GenAI.Model,
			EmbeddingModel: cfg.GenAI.EmbeddingModel,
			Temperature:    cfg.GenAI.Temperature,
		}
		gen, err := genai.NewGenerator(opts)
		if err != nil {
			return nil, fmt.Errorf("creating text generator: %w", err)
		}
		generator = gen

		if cfg.Vector.Provider != "none" {
			emb, err := genai.NewEmbedder(opts)
			if err != nil {
				return nil, fmt.Errorf("creating embedder: %w", err)
			}
			embedder = emb
		}
		log.Info().Str("model", cfg.GenAI.Model).Msg("generative copy enabled")
	}

	index := NewVectorIndex(cfg)
	if index != nil {
		log.Info().Str("provider", cfg.Vector.Provider).Msg("semantic search enabled")
	}

	return &App{
		Catalog: catalog,
		Cache:   store,
		Recommend: usecase.NewRecommendService(catalog, usecase.RecommendConfig{
			DefaultLimit:       cfg.Recommend.DefaultLimit,
			EnableDebugLogging: cfg.Recommend.Debug,
		}),
		Analytics: usecase.NewAnalyticsService(catalog),
		Products:  usecase.NewProductService(catalog),
		Descriptions: usecase.NewDescriptionService(generator, store, usecase.DescriptionConfig{
			CacheTTL: cfg.Cache.TTL,
		}),
		Semantic: usecase.NewSemanticService(catalog, embedder, index, usecase.NewTextPreprocessor(cfg.Recommend.Debug)),
	}, nil
}

// NewVectorIndex returns the configured index, or nil when the provider is "none"
func NewVectorIndex(cfg *config.Config) domain.VectorIndex {
	switch cfg.Vector.Provider {
	case "memory":
		return vectorsearch.NewMemoryIndex(cfg.Vector.Dimension)
	case "pinecone":
		client := vectorsearch.NewClient(vectorsearch.Options{
			Host:          cfg.Vector.Host,
			APIKey:        cfg.Vector.APIKey,
			Namespace:     cfg.Vector.Namespace,
			Timeout:       cfg.Vector.Timeout,
			RatePerSecond: cfg.RateLimit.Vector,
		})
		client.SetDebug(cfg.Server.Environment == "development")
		return client
	default:
		return nil
	}
}

// Close releases background resources
func (a *App) Close() {
	if c, ok := a.Cache.(*cache.MemoryCache); ok {
		c.Close()
	}
}
