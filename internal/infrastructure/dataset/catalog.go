package dataset

import (
	"github.com/furnishly/backend/internal/domain"
)

// Catalog is the immutable product dataset held for the process lifetime.
// It is built once by Load and handed to every consumer; nothing mutates it.
type Catalog struct {
	products []domain.Product
	byID     map[string]int
	source   string
}

// NewCatalog builds a catalog over products. The slice is copied.
func NewCatalog(source string, products []domain.Product) *Catalog {
	c := &Catalog{
		products: make([]domain.Product, len(products)),
		byID:     make(map[string]int, len(products)),
		source:   source,
	}
	copy(c.products, products)

	for i, p := range c.products {
		id := p.ID()
		if id == "" {
			continue
		}
		// First occurrence wins for duplicate ids
		if _, exists := c.byID[id]; !exists {
			c.byID[id] = i
		}
	}

	return c
}

// Products returns the loaded products in source order. Callers must not modify them.
func (c *Catalog) Products() []domain.Product {
	return c.products
}

// Find looks a product up by uniq_id
func (c *Catalog) Find(id string) (domain.Product, bool) {
	idx, ok := c.byID[id]
	if !ok {
		return nil, false
	}
	return c.products[idx], true
}

// Len returns the number of products
func (c *Catalog) Len() int {
	return len(c.products)
}

// Empty reports whether no dataset could be loaded
func (c *Catalog) Empty() bool {
	return len(c.products) == 0
}

// Source names the source the products came from, or "none"
func (c *Catalog) Source() string {
	return c.source
}
