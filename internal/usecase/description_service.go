package usecase

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/furnishly/backend/internal/domain"
	"github.com/furnishly/backend/internal/logging"
	"github.com/furnishly/backend/internal/metrics"
)

// defaultDescription is served when neither the model nor the product has copy
const defaultDescription = "Quality furniture piece for your home."

// DescriptionConfig holds configuration for the description service
type DescriptionConfig struct {
	CacheTTL time.Duration
	PoolSize int
}

// DescriptionService writes marketing copy for products through a TextGenerator.
// Flow: check cache -> generate -> cache -> return
type DescriptionService struct {
	generator domain.TextGenerator
	cache     domain.CacheRepository
	cacheTTL  time.Duration
	poolSize  int
}

// NewDescriptionService creates a description service. generator may be nil,
// in which case every call reports ErrGenerationDisabled. cache may be nil.
func NewDescriptionService(
	generator domain.TextGenerator,
	cache domain.CacheRepository,
	config DescriptionConfig,
) *DescriptionService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 24 * time.Hour
	}

	poolSize := config.PoolSize
	if poolSize < 1 {
		poolSize = max(runtime.NumCPU()/2, 1)
	}

	return &DescriptionService{
		generator: generator,
		cache:     cache,
		cacheTTL:  cacheTTL,
		poolSize:  poolSize,
	}
}

// Enabled reports whether a generator is configured
func (s *DescriptionService) Enabled() bool {
	return s != nil && s.generator != nil
}

// Describe returns generated copy for product. When the model fails the
// product's own description (or a generic line) is returned instead and
// nothing is cached.
func (s *DescriptionService) Describe(ctx context.Context, product domain.Product) (string, error) {
	if !s.Enabled() {
		return "", domain.ErrGenerationDisabled
	}

	log := logging.Ctx(ctx).With().Str("component", "genai").Str("uniq_id", product.ID()).Logger()
	cacheKey := descriptionCacheKey(product)

	if cached, ok := s.getFromCache(ctx, cacheKey); ok {
		metrics.DescriptionsGenerated.WithLabelValues("cached").Inc()
		return cached, nil
	}

	prompt, err := BuildDescriptionPrompt(product)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrGenerationFailure, err)
	}

	text, err := s.generator.Generate(ctx, prompt)
	text = strings.TrimSpace(text)
	if err != nil || text == "" {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		log.Warn().Err(err).Msg("description generation failed, using fallback copy")
		metrics.DescriptionsGenerated.WithLabelValues("fallback").Inc()
		return fallbackDescription(product), nil
	}

	if cacheKey != "" && s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, text, s.cacheTTL); err != nil {
			log.Warn().Err(err).Msg("failed to cache generated description")
		}
	}

	metrics.DescriptionsGenerated.WithLabelValues("generated").Inc()
	return text, nil
}

// DescribeBatch describes every product concurrently. The result is aligned
// with products.
func (s *DescriptionService) DescribeBatch(ctx context.Context, products []domain.Product) ([]string, error) {
	if !s.Enabled() {
		return nil, domain.ErrGenerationDisabled
	}
	if len(products) == 0 {
		return []string{}, nil
	}

	pool, err := ants.NewPool(s.poolSize)
	if err != nil {
		return nil, err
	}
	defer pool.Release()

	results := make([]string, len(products))
	errs := make([]error, len(products))

	var wg sync.WaitGroup
	for i, p := range products {
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			results[i], errs[i] = s.Describe(ctx, p)
		})
		if submitErr != nil {
			wg.Done()
			errs[i] = submitErr
		}
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}

// Summarize writes a short introduction for a recommendation list
func (s *DescriptionService) Summarize(ctx context.Context, query string, products []domain.Product) (string, error) {
	if !s.Enabled() {
		return "", domain.ErrGenerationDisabled
	}

	fallback := fmt.Sprintf("Here are %d products that match '%s'", len(products), query)

	prompt, err := BuildSummaryPrompt(query, products)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrGenerationFailure, err)
	}

	text, err := s.generator.Generate(ctx, prompt)
	text = strings.TrimSpace(text)
	if err != nil || text == "" {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		logging.Ctx(ctx).Warn().Err(err).Str("component", "genai").Msg("summary generation failed, using fallback")
		return fallback, nil
	}
	return text, nil
}

// descriptionCacheKey is "description:{uniq_id}", or empty for products
// without an id (those are never cached)
func descriptionCacheKey(p domain.Product) string {
	id := p.ID()
	if id == "" {
		return ""
	}
	return "description:" + id
}

func (s *DescriptionService) getFromCache(ctx context.Context, key string) (string, bool) {
	if key == "" || s.cache == nil {
		return "", false
	}
	value, err := s.cache.Get(ctx, key)
	if err != nil {
		return "", false
	}
	text, ok := value.(string)
	return text, ok && text != ""
}

func fallbackDescription(p domain.Product) string {
	if desc := strings.TrimSpace(p.Field(domain.FieldDescription)); desc != "" {
		return desc
	}
	return defaultDescription
}
