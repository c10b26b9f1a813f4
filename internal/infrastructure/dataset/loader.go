package dataset

import (
	"context"
	"errors"
	"fmt"

	"github.com/furnishly/backend/internal/domain"
	"github.com/furnishly/backend/internal/logging"
)

// SourceNone is reported by an empty catalog
const SourceNone = "none"

// Source is one strategy for obtaining the product dataset
type Source interface {
	Name() string
	Load(ctx context.Context) ([]domain.Product, error)
}

// errEmptySource marks a source that loaded fine but produced no rows
var errEmptySource = errors.New("source yielded no products")

// Load tries each source in order and returns a catalog over the first
// non-empty result. When every source fails it returns an empty catalog
// together with domain.ErrDataUnavailable, so callers can still start up
// and report themselves unhealthy.
func Load(ctx context.Context, sources ...Source) (*Catalog, error) {
	logger := logging.Component("dataset")

	var attempts []error
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return NewCatalog(SourceNone, nil), err
		}

		products, err := src.Load(ctx)
		if err == nil && len(products) == 0 {
			err = errEmptySource
		}
		if err != nil {
			logger.Warn().Str("source", src.Name()).Err(err).Msg("dataset source unavailable")
			attempts = append(attempts, fmt.Errorf("%s: %w", src.Name(), err))
			continue
		}

		logger.Info().Str("source", src.Name()).Int("products", len(products)).Msg("dataset loaded")
		return NewCatalog(src.Name(), products), nil
	}

	logger.Error().Int("sources_tried", len(sources)).Msg("no dataset could be loaded")
	if len(attempts) == 0 {
		return NewCatalog(SourceNone, nil), domain.ErrDataUnavailable
	}
	return NewCatalog(SourceNone, nil), fmt.Errorf("%w: %w", domain.ErrDataUnavailable, errors.Join(attempts...))
}

// DefaultSources builds the source chain: an explicit JSON file when one is
// configured, then the embedded dataset, then the CSV candidates.
func DefaultSources(jsonPath string, useEmbedded bool, csvPaths []string) []Source {
	var sources []Source
	if jsonPath != "" {
		sources = append(sources, NewJSONFileSource(jsonPath))
	}
	if useEmbedded {
		sources = append(sources, NewEmbeddedSource())
	}
	if len(csvPaths) > 0 {
		sources = append(sources, NewCSVSource(csvPaths...))
	}
	return sources
}
