package domain

import (
	"bytes"
	"strconv"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Analytics is the dashboard aggregate returned by GET /api/analytics
type Analytics struct {
	TotalProducts          int            `json:"total_products" yaml:"total_products"`
	CategoriesDistribution RankedCounts   `json:"categories_distribution" yaml:"categories_distribution"`
	TopBrands              RankedCounts   `json:"top_brands" yaml:"top_brands"`
	PriceRange             PriceStats     `json:"price_range" yaml:"price_range"`
	MainCategories         RankedCounts   `json:"main_categories" yaml:"main_categories"`
	Dimensions             DimensionStats `json:"dimensions" yaml:"dimensions"`
}

// PriceStats summarizes the valid prices in the catalog. All values are
// rounded to two decimals and are zero when no product has a usable price.
type PriceStats struct {
	Min               float64 `json:"min" yaml:"min"`
	Max               float64 `json:"max" yaml:"max"`
	Average           float64 `json:"average" yaml:"average"`
	Median            float64 `json:"median" yaml:"median"`
	ProductsWithPrice int     `json:"products_with_price" yaml:"products_with_price"`
}

// DimensionStats holds average package dimensions in inches
type DimensionStats struct {
	AverageDepth           float64 `json:"average_depth" yaml:"average_depth"`
	AverageWidth           float64 `json:"average_width" yaml:"average_width"`
	AverageHeight          float64 `json:"average_height" yaml:"average_height"`
	ProductsWithDimensions int     `json:"products_with_dimensions" yaml:"products_with_dimensions"`
}

// Dimensions is a parsed package_dimensions value. A nil field means that
// dimension was not present in the source string.
type Dimensions struct {
	Depth  *float64 `json:"depth,omitempty" yaml:"depth,omitempty"`
	Width  *float64 `json:"width,omitempty" yaml:"width,omitempty"`
	Height *float64 `json:"height,omitempty" yaml:"height,omitempty"`
}

// Empty reports whether no dimension could be parsed
func (d Dimensions) Empty() bool {
	return d.Depth == nil && d.Width == nil && d.Height == nil
}

// NamedCount is one entry of a frequency table
type NamedCount struct {
	Name  string `json:"name" yaml:"name"`
	Count int    `json:"count" yaml:"count"`
}

// RankedCounts is a frequency table ordered by descending count. It encodes
// as a JSON object whose keys keep that order.
type RankedCounts []NamedCount

// MarshalJSON writes {"name": count, ...} preserving rank order
func (r RankedCounts) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, entry := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(entry.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(strconv.Itoa(entry.Count))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML writes a mapping node preserving rank order
func (r RankedCounts) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, entry := range r {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: entry.Name},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(entry.Count)},
		)
	}
	return node, nil
}

// Map returns the table as a plain map, losing order
func (r RankedCounts) Map() map[string]int {
	out := make(map[string]int, len(r))
	for _, entry := range r {
		out[entry.Name] = entry.Count
	}
	return out
}
