package domain

import "strings"

// Product field names as they appear in the source dataset header
const (
	FieldID                = "uniq_id"
	FieldTitle             = "title"
	FieldBrand             = "brand"
	FieldDescription       = "description"
	FieldCategories        = "categories"
	FieldMaterial          = "material"
	FieldColor             = "color"
	FieldPrice             = "price"
	FieldImages            = "images"
	FieldPackageDimensions = "package_dimensions"
)

// Product is one row of the furniture dataset. Any field may be absent, empty or
// malformed; consumers must tolerate all three.
type Product map[string]string

// Field returns the named field, or "" when it is absent
func (p Product) Field(name string) string {
	return p[name]
}

// ID returns the product's uniq_id
func (p Product) ID() string {
	return strings.TrimSpace(p[FieldID])
}

// Clone returns a shallow copy safe to hand to callers
func (p Product) Clone() Product {
	out := make(Product, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// RecommendRequest is the body of POST /api/recommend.
// NumRecommendations is a pointer so an explicit 0 can be told apart from "absent".
type RecommendRequest struct {
	Query              string `json:"query"`
	NumRecommendations *int   `json:"num_recommendations,omitempty"`
}

// SemanticSearchRequest is the body of POST /api/search/semantic
type SemanticSearchRequest struct {
	Query string `json:"query" binding:"required,notblank"`
	TopK  int    `json:"top_k,omitempty" binding:"omitempty,min=1,max=100"`
}

// SemanticResult pairs a catalog product with its vector similarity
type SemanticResult struct {
	Score   float64 `json:"score"`
	Product Product `json:"product"`
}

// VectorRecord is one embedded product ready to be written to a vector index
type VectorRecord struct {
	ID       string            `json:"id"`
	Values   []float32         `json:"values"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// VectorMatch is a single hit returned by a vector index query
type VectorMatch struct {
	ID       string            `json:"id"`
	Score    float64           `json:"score"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// IndexStats summarizes the contents of a vector index
type IndexStats struct {
	Dimension   int `json:"dimension"`
	VectorCount int `json:"vectorCount"`
}
