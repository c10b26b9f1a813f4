package domain

import "errors"

var (
	// ErrDataUnavailable is returned when no product dataset could be loaded
	ErrDataUnavailable = errors.New("products data not loaded")

	// ErrProductNotFound is returned when a product id has no match in the catalog
	ErrProductNotFound = errors.New("product not found")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrGenerationDisabled is returned when no text generator is configured
	ErrGenerationDisabled = errors.New("description generation is not configured")

	// ErrGenerationFailure is returned when the text generation backend fails
	ErrGenerationFailure = errors.New("description generation failed")

	// ErrSemanticDisabled is returned when no embedder or vector index is configured
	ErrSemanticDisabled = errors.New("semantic search is not configured")

	// ErrVectorSearchFailure is returned when a vector index request fails
	ErrVectorSearchFailure = errors.New("vector search request failed")

	// ErrCircuitOpen is returned while the vector index circuit breaker is open
	ErrCircuitOpen = errors.New("vector search circuit open")
)
