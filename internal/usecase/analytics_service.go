package usecase

import (
	"context"
	"sort"
	"strings"

	"github.com/furnishly/backend/internal/domain"
	"github.com/furnishly/backend/internal/logging"
)

// topN is the size of every frequency table in the analytics response
const topN = 10

// AnalyticsService aggregates dashboard statistics over the catalog
type AnalyticsService struct {
	catalog domain.ProductCatalog
}

// NewAnalyticsService creates an analytics service over catalog
func NewAnalyticsService(catalog domain.ProductCatalog) *AnalyticsService {
	return &AnalyticsService{catalog: catalog}
}

// Analytics recomputes the full aggregate on every call
func (s *AnalyticsService) Analytics(ctx context.Context) (*domain.Analytics, error) {
	if s.catalog == nil || s.catalog.Empty() {
		return nil, domain.ErrDataUnavailable
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	analytics := Analyze(s.catalog.Products())

	logging.Ctx(ctx).Debug().
		Int("products", analytics.TotalProducts).
		Int("with_price", analytics.PriceRange.ProductsWithPrice).
		Float64("min_price", analytics.PriceRange.Min).
		Float64("max_price", analytics.PriceRange.Max).
		Msg("analytics computed")

	return analytics, nil
}

// Analyze is a single pass over products producing category, brand, price
// and dimension statistics. Malformed fields are skipped, never reported.
func Analyze(products []domain.Product) *domain.Analytics {
	categories := newCounter()
	mainCategories := newCounter()
	brands := newCounter()
	var prices []float64
	var dimSum domain.DimensionStats
	var depthN, widthN, heightN int

	for _, p := range products {
		cats := ParseCategories(p.Field(domain.FieldCategories))
		for _, cat := range cats {
			categories.add(cat)
		}
		if len(cats) > 0 {
			mainCategories.add(cats[0])
		}

		brand := strings.TrimSpace(p.Field(domain.FieldBrand))
		if !missingSentinels[brand] {
			brands.add(brand)
		}

		if price, ok := ParsePrice(p.Field(domain.FieldPrice)); ok {
			prices = append(prices, price)
		}

		dims := ParseDimensions(p.Field(domain.FieldPackageDimensions))
		if dims.Empty() {
			continue
		}
		dimSum.ProductsWithDimensions++
		if dims.Depth != nil {
			dimSum.AverageDepth += *dims.Depth
			depthN++
		}
		if dims.Width != nil {
			dimSum.AverageWidth += *dims.Width
			widthN++
		}
		if dims.Height != nil {
			dimSum.AverageHeight += *dims.Height
			heightN++
		}
	}

	return &domain.Analytics{
		TotalProducts:          len(products),
		CategoriesDistribution: categories.top(topN),
		TopBrands:              brands.top(topN),
		PriceRange:             PriceSummary(prices),
		MainCategories:         mainCategories.top(topN),
		Dimensions: domain.DimensionStats{
			AverageDepth:           average(dimSum.AverageDepth, depthN),
			AverageWidth:           average(dimSum.AverageWidth, widthN),
			AverageHeight:          average(dimSum.AverageHeight, heightN),
			ProductsWithDimensions: dimSum.ProductsWithDimensions,
		},
	}
}

// PriceSummary reports min, max, mean and median rounded to two decimals.
// The median is sorted[n/2]: for even n that is the upper-middle element,
// not the mean of the two middle elements.
func PriceSummary(prices []float64) domain.PriceStats {
	if len(prices) == 0 {
		return domain.PriceStats{}
	}

	sorted := make([]float64, len(prices))
	copy(sorted, prices)
	sort.Float64s(sorted)

	var sum float64
	for _, p := range sorted {
		sum += p
	}

	return domain.PriceStats{
		Min:               round2(sorted[0]),
		Max:               round2(sorted[len(sorted)-1]),
		Average:           round2(sum / float64(len(sorted))),
		Median:            round2(sorted[len(sorted)/2]),
		ProductsWithPrice: len(sorted),
	}
}

func average(sum float64, n int) float64 {
	if n == 0 {
		return 0
	}
	return round2(sum / float64(n))
}

// counter counts occurrences and remembers first-seen order for tie breaking
type counter struct {
	counts map[string]int
	order  []string
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) add(name string) {
	if _, seen := c.counts[name]; !seen {
		c.order = append(c.order, name)
	}
	c.counts[name]++
}

// top returns the n highest counts, descending; ties keep first-seen order
func (c *counter) top(n int) domain.RankedCounts {
	ranked := make(domain.RankedCounts, 0, len(c.order))
	for _, name := range c.order {
		ranked = append(ranked, domain.NamedCount{Name: name, Count: c.counts[name]})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
