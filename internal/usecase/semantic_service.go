package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/furnishly/backend/internal/domain"
	"github.com/furnishly/backend/internal/logging"
)

const (
	// DefaultTopK applies when a semantic search does not ask for a count
	DefaultTopK = 5

	// DefaultIndexBatchSize is how many products are embedded per request
	DefaultIndexBatchSize = 100

	indexWorkers = 4
)

// SemanticService answers free-text queries by vector similarity over the
// catalog and keeps the vector index populated
type SemanticService struct {
	catalog      domain.ProductCatalog
	embedder     domain.Embedder
	index        domain.VectorIndex
	preprocessor *TextPreprocessor
}

// NewSemanticService creates a semantic service. embedder and index may be
// nil, in which case Search and Index report ErrSemanticDisabled.
func NewSemanticService(
	catalog domain.ProductCatalog,
	embedder domain.Embedder,
	index domain.VectorIndex,
	preprocessor *TextPreprocessor,
) *SemanticService {
	if preprocessor == nil {
		preprocessor = NewTextPreprocessor(false)
	}
	return &SemanticService{
		catalog:      catalog,
		embedder:     embedder,
		index:        index,
		preprocessor: preprocessor,
	}
}

// Enabled reports whether both an embedder and an index are configured
func (s *SemanticService) Enabled() bool {
	return s != nil && s.embedder != nil && s.index != nil
}

// Search embeds query and returns up to topK catalog products ordered by
// similarity. Matches whose id is no longer in the catalog are skipped.
func (s *SemanticService) Search(ctx context.Context, query string, topK int) ([]domain.SemanticResult, error) {
	if !s.Enabled() {
		return nil, domain.ErrSemanticDisabled
	}
	if s.catalog == nil || s.catalog.Empty() {
		return nil, domain.ErrDataUnavailable
	}

	cleaned := s.preprocessor.PreprocessQuery(query)
	if cleaned == "" {
		return nil, domain.ErrInvalidRequest
	}
	if topK <= 0 {
		topK = DefaultTopK
	}

	vector, err := s.embedder.EmbedQuery(ctx, cleaned)
	if err != nil {
		return nil, fmt.Errorf("%w: embedding query: %w", domain.ErrVectorSearchFailure, err)
	}

	matches, err := s.index.Query(ctx, vector, topK)
	if err != nil {
		if errors.Is(err, domain.ErrCircuitOpen) || errors.Is(err, domain.ErrVectorSearchFailure) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrVectorSearchFailure, err)
	}

	results := make([]domain.SemanticResult, 0, len(matches))
	for _, m := range matches {
		product, ok := s.catalog.Find(m.ID)
		if !ok {
			logging.Ctx(ctx).Debug().Str("component", "vectorsearch").Str("uniq_id", m.ID).Msg("match not in catalog, skipped")
			continue
		}
		results = append(results, domain.SemanticResult{Score: m.Score, Product: product.Clone()})
	}
	return results, nil
}

// Index embeds every catalog product with an id and upserts it into the
// vector index in batches. Returns the number of vectors written.
func (s *SemanticService) Index(ctx context.Context, batchSize int) (int, error) {
	if !s.Enabled() {
		return 0, domain.ErrSemanticDisabled
	}
	if s.catalog == nil || s.catalog.Empty() {
		return 0, domain.ErrDataUnavailable
	}
	if batchSize <= 0 {
		batchSize = DefaultIndexBatchSize
	}

	log := logging.Component("vectorsearch")

	var products []domain.Product
	for _, p := range s.catalog.Products() {
		if p.ID() != "" {
			products = append(products, p)
		}
	}

	pool, err := ants.NewPool(indexWorkers)
	if err != nil {
		return 0, err
	}
	defer pool.Release()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		written  int
		firstErr error
	)
	recordErr := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
	}

	for start := 0; start < len(products); start += batchSize {
		batch := products[start:min(start+batchSize, len(products))]
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			n, err := s.indexBatch(ctx, batch)
			if err != nil {
				recordErr(err)
				return
			}
			mu.Lock()
			written += n
			mu.Unlock()
		})
		if submitErr != nil {
			wg.Done()
			recordErr(submitErr)
		}
	}
	wg.Wait()

	if firstErr != nil {
		return written, fmt.Errorf("%w: %w", domain.ErrVectorSearchFailure, firstErr)
	}

	log.Info().Int("vectors", written).Int("batch_size", batchSize).Msg("vector index populated")
	return written, nil
}

// Stats reports the index dimension and vector count
func (s *SemanticService) Stats(ctx context.Context) (*domain.IndexStats, error) {
	if !s.Enabled() {
		return nil, domain.ErrSemanticDisabled
	}
	return s.index.Stats(ctx)
}

func (s *SemanticService) indexBatch(ctx context.Context, batch []domain.Product) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	texts := make([]string, len(batch))
	for i, p := range batch {
		texts[i] = s.preprocessor.CombinedText(p)
	}

	vectors, err := s.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embedding documents: %w", err)
	}
	if len(vectors) != len(batch) {
		return 0, fmt.Errorf("embedder returned %d vectors for %d documents", len(vectors), len(batch))
	}

	records := make([]domain.VectorRecord, len(batch))
	for i, p := range batch {
		records[i] = domain.VectorRecord{
			ID:       p.ID(),
			Values:   vectors[i],
			Metadata: vectorMetadata(p),
		}
	}

	if err := s.index.Upsert(ctx, records); err != nil {
		return 0, err
	}
	return len(records), nil
}

// vectorMetadata is the subset of product fields stored alongside a vector
func vectorMetadata(p domain.Product) map[string]string {
	return map[string]string{
		domain.FieldID:    p.ID(),
		domain.FieldTitle: p.Field(domain.FieldTitle),
		domain.FieldBrand: p.Field(domain.FieldBrand),
		domain.FieldPrice: p.Field(domain.FieldPrice),
		"category":        MainCategory(p.Field(domain.FieldCategories)),
	}
}
