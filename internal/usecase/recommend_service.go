package usecase

import (
	"context"
	"sort"
	"strings"

	"github.com/furnishly/backend/internal/domain"
	"github.com/furnishly/backend/internal/logging"
)

// Field weights for keyword scoring
const (
	weightTitle       = 3
	weightCategories  = 2
	weightDescription = 2
	weightBrand       = 1
	weightMaterial    = 1
	weightColor       = 1
)

// DefaultRecommendationLimit applies when a request does not ask for a count
const DefaultRecommendationLimit = 5

// scoredFields lists every text field that contributes to a product's score
var scoredFields = []struct {
	name   string
	weight int
}{
	{domain.FieldTitle, weightTitle},
	{domain.FieldDescription, weightDescription},
	{domain.FieldBrand, weightBrand},
	{domain.FieldCategories, weightCategories},
	{domain.FieldMaterial, weightMaterial},
	{domain.FieldColor, weightColor},
}

// RecommendConfig holds configuration for the recommend service
type RecommendConfig struct {
	DefaultLimit       int
	EnableDebugLogging bool
}

// RecommendService ranks catalog products against a free-text query
type RecommendService struct {
	catalog            domain.ProductCatalog
	defaultLimit       int
	enableDebugLogging bool
}

// NewRecommendService creates a new recommend service over catalog
func NewRecommendService(catalog domain.ProductCatalog, config RecommendConfig) *RecommendService {
	limit := config.DefaultLimit
	if limit <= 0 {
		limit = DefaultRecommendationLimit
	}

	return &RecommendService{
		catalog:            catalog,
		defaultLimit:       limit,
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// Recommend returns the top matches for request.Query. An absent
// NumRecommendations uses the default limit; the limit is otherwise taken as is.
func (s *RecommendService) Recommend(ctx context.Context, request *domain.RecommendRequest) ([]domain.Product, error) {
	if request == nil {
		return nil, domain.ErrInvalidRequest
	}
	if s.catalog == nil || s.catalog.Empty() {
		return nil, domain.ErrDataUnavailable
	}

	limit := s.defaultLimit
	if request.NumRecommendations != nil {
		limit = *request.NumRecommendations
	}

	results, err := score(ctx, request.Query, s.catalog.Products(), limit)
	if err != nil {
		return nil, err
	}

	if s.enableDebugLogging {
		logging.Ctx(ctx).Debug().
			Str("query", request.Query).
			Int("limit", limit).
			Int("returned", len(results)).
			Msg("recommendations ranked")
	}

	return results, nil
}

// Score ranks products against query and returns at most limit of them,
// best first. Products that match nothing are left out; ties keep catalog order.
func Score(query string, products []domain.Product, limit int) []domain.Product {
	results, _ := score(context.Background(), query, products, limit)
	return results
}

type scoredProduct struct {
	product domain.Product
	score   int
}

func score(ctx context.Context, query string, products []domain.Product, limit int) ([]domain.Product, error) {
	tokens := Tokenize(query)
	if len(tokens) == 0 || limit <= 0 {
		return []domain.Product{}, nil
	}

	var scored []scoredProduct
	for i, p := range products {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		if s := ScoreProduct(tokens, p); s > 0 {
			scored = append(scored, scoredProduct{product: p, score: s})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	if len(scored) > limit {
		scored = scored[:limit]
	}

	results := make([]domain.Product, len(scored))
	for i, sp := range scored {
		results[i] = sp.product.Clone()
	}
	return results, nil
}

// Tokenize lower-cases query and splits it on whitespace
func Tokenize(query string) []string {
	return strings.Fields(strings.ToLower(query))
}

// ScoreProduct adds a field's weight once when any token is a substring of
// that field, case-insensitively. Absent fields contribute nothing.
func ScoreProduct(tokens []string, p domain.Product) int {
	total := 0
	for _, f := range scoredFields {
		value := p.Field(f.name)
		if value == "" {
			continue
		}
		if containsAny(strings.ToLower(value), tokens) {
			total += f.weight
		}
	}
	return total
}

func containsAny(haystack string, tokens []string) bool {
	for _, t := range tokens {
		if strings.Contains(haystack, t) {
			return true
		}
	}
	return false
}
