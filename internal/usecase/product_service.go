package usecase

import (
	"context"
	"strings"

	"github.com/furnishly/backend/internal/domain"
)

// ProductService answers single-product lookups
type ProductService struct {
	catalog domain.ProductCatalog
}

// NewProductService creates a product service over catalog
func NewProductService(catalog domain.ProductCatalog) *ProductService {
	return &ProductService{catalog: catalog}
}

// GetProduct returns the product with the given uniq_id
func (s *ProductService) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	if s.catalog == nil || s.catalog.Empty() {
		return nil, domain.ErrDataUnavailable
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.ErrInvalidRequest
	}

	p, ok := s.catalog.Find(id)
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return p.Clone(), nil
}
