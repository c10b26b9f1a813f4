package usecase

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/furnishly/backend/internal/domain"
)

func TestSemanticService_Search(t *testing.T) {
	ctx := context.Background()
	catalog := newFakeCatalog(sampleProducts()...)

	t.Run("maps matches to catalog products", func(t *testing.T) {
		index := &mockIndex{matches: []domain.VectorMatch{
			{ID: "b", Score: 0.91},
			{ID: "gone", Score: 0.80},
			{ID: "a", Score: 0.75},
		}}
		svc := NewSemanticService(catalog, &mockEmbedder{}, index, nil)

		results, err := svc.Search(ctx, "wooden table", 3)
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, "b", results[0].Product.ID())
		assert.Equal(t, 0.91, results[0].Score)
		assert.Equal(t, "a", results[1].Product.ID())
		assert.Equal(t, 3, index.lastTopK)
	})

	t.Run("defaults top k", func(t *testing.T) {
		index := &mockIndex{}
		svc := NewSemanticService(catalog, &mockEmbedder{}, index, nil)

		_, err := svc.Search(ctx, "sofa", 0)
		require.NoError(t, err)
		assert.Equal(t, DefaultTopK, index.lastTopK)
	})

	t.Run("index failure is a vector search failure", func(t *testing.T) {
		svc := NewSemanticService(catalog, &mockEmbedder{}, &mockIndex{err: errBackend}, nil)

		_, err := svc.Search(ctx, "sofa", 5)
		assert.ErrorIs(t, err, domain.ErrVectorSearchFailure)
		assert.ErrorIs(t, err, errBackend)
	})

	t.Run("embedding failure is a vector search failure", func(t *testing.T) {
		svc := NewSemanticService(catalog, &mockEmbedder{err: errBackend}, &mockIndex{}, nil)

		_, err := svc.Search(ctx, "sofa", 5)
		assert.ErrorIs(t, err, domain.ErrVectorSearchFailure)
	})

	t.Run("open circuit passes through", func(t *testing.T) {
		svc := NewSemanticService(catalog, &mockEmbedder{}, &mockIndex{err: domain.ErrCircuitOpen}, nil)

		_, err := svc.Search(ctx, "sofa", 5)
		assert.ErrorIs(t, err, domain.ErrCircuitOpen)
	})

	t.Run("disabled without embedder", func(t *testing.T) {
		svc := NewSemanticService(catalog, nil, &mockIndex{}, nil)

		_, err := svc.Search(ctx, "sofa", 5)
		assert.ErrorIs(t, err, domain.ErrSemanticDisabled)
	})

	t.Run("empty catalog", func(t *testing.T) {
		svc := NewSemanticService(newFakeCatalog(), &mockEmbedder{}, &mockIndex{}, nil)

		_, err := svc.Search(ctx, "sofa", 5)
		assert.ErrorIs(t, err, domain.ErrDataUnavailable)
	})
}

func TestSemanticService_Index(t *testing.T) {
	var products []domain.Product
	for i := 0; i < 7; i++ {
		products = append(products, domain.Product{
			"uniq_id":    fmt.Sprintf("p%d", i),
			"title":      "Chair",
			"brand":      "Acme",
			"price":      "$10",
			"categories": "['Seating', 'Chairs']",
		})
	}
	products = append(products, domain.Product{"title": "No id"})

	embedder := &mockEmbedder{}
	index := &mockIndex{}
	svc := NewSemanticService(newFakeCatalog(products...), embedder, index, nil)

	written, err := svc.Index(context.Background(), 3)
	require.NoError(t, err)

	assert.Equal(t, 7, written)
	assert.Len(t, index.upserted, 7)
	assert.Equal(t, 3, embedder.batches)

	record := index.upserted[0]
	assert.Equal(t, "Seating", record.Metadata["category"])
	assert.Equal(t, "Acme", record.Metadata["brand"])
	assert.Equal(t, "$10", record.Metadata["price"])
	assert.Equal(t, record.ID, record.Metadata["uniq_id"])

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, stats.VectorCount)
}

func TestSemanticService_IndexFailure(t *testing.T) {
	svc := NewSemanticService(newFakeCatalog(sampleProducts()...), &mockEmbedder{}, &mockIndex{err: errBackend}, nil)

	_, err := svc.Index(context.Background(), 2)
	assert.ErrorIs(t, err, domain.ErrVectorSearchFailure)
	assert.ErrorIs(t, err, errBackend)
}
