package http

import (
	"context"
	"errors"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/furnishly/backend/internal/domain"
	"github.com/furnishly/backend/internal/logging"
	"github.com/furnishly/backend/internal/metrics"
	"github.com/furnishly/backend/internal/usecase"
)

// Version is reported by the root and health endpoints
const Version = "1.0.0"

// Services bundles the use cases the handlers call. Descriptions and
// Semantic may be disabled services; their endpoints then answer 503.
type Services struct {
	Recommend    *usecase.RecommendService
	Analytics    *usecase.AnalyticsService
	Products     *usecase.ProductService
	Descriptions *usecase.DescriptionService
	Semantic     *usecase.SemanticService
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	catalog  domain.ProductCatalog
	services Services
}

// NewHandler creates a new HTTP handler
func NewHandler(catalog domain.ProductCatalog, services Services) *Handler {
	return &Handler{catalog: catalog, services: services}
}

// Root returns a banner listing the available endpoints
func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Furniture Recommendation API",
		"status":  "running",
		"version": Version,
		"endpoints": gin.H{
			"health":          "GET /api/health",
			"recommend":       "POST /api/recommend",
			"analytics":       "GET /api/analytics",
			"product":         "GET /api/products/:id",
			"description":     "POST /api/products/:id/description",
			"semantic_search": "POST /api/search/semantic",
			"metrics":         "GET /metrics",
		},
	})
}

// HealthCheck reports whether the catalog loaded and where it came from.
// It always answers 200 so load balancers can read the diagnostics.
func (h *Handler) HealthCheck(c *gin.Context) {
	loaded := 0
	source := "none"
	if h.catalog != nil {
		loaded = h.catalog.Len()
		source = h.catalog.Source()
	}

	status := "healthy"
	if loaded == 0 {
		status = "unhealthy"
	}

	cwd, err := os.Getwd()
	if err != nil {
		cwd = ""
	}

	body := gin.H{
		"status":          status,
		"version":         Version,
		"products_loaded": loaded,
		"data_source":     source,
		"current_dir":     cwd,
		"genai_enabled":   h.services.Descriptions.Enabled(),
		"semantic_search": h.services.Semantic.Enabled(),
	}
	if loaded > 0 {
		body["sample_product"] = sampleProduct(h.catalog.Products()[0])
	}

	c.JSON(http.StatusOK, body)
}

// sampleProduct is the health summary of one record: title and brand only
func sampleProduct(p domain.Product) gin.H {
	return gin.H{
		"title": fieldOrNA(p, domain.FieldTitle),
		"brand": fieldOrNA(p, domain.FieldBrand),
	}
}

func fieldOrNA(p domain.Product, name string) string {
	if v := p.Field(name); v != "" {
		return v
	}
	return "N/A"
}

// Recommend handles POST /api/recommend. A negative num_recommendations
// yields an empty list rather than dropping matches from the tail.
func (h *Handler) Recommend(c *gin.Context) {
	var req domain.RecommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	products, err := h.services.Recommend.Recommend(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	metrics.RecommendationResults.Observe(float64(len(products)))
	c.JSON(http.StatusOK, products)
}

// Analytics handles GET /api/analytics
func (h *Handler) Analytics(c *gin.Context) {
	analytics, err := h.services.Analytics.Analytics(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, analytics)
}

// GetProduct handles GET /api/products/:id
func (h *Handler) GetProduct(c *gin.Context) {
	product, err := h.services.Products.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// GenerateDescription handles POST /api/products/:id/description
func (h *Handler) GenerateDescription(c *gin.Context) {
	if !h.services.Descriptions.Enabled() {
		respondError(c, domain.ErrGenerationDisabled)
		return
	}

	ctx := c.Request.Context()
	product, err := h.services.Products.GetProduct(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	text, err := h.services.Descriptions.Describe(ctx, product)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"uniq_id":               product.ID(),
		"generated_description": text,
	})
}

// SemanticSearch handles POST /api/search/semantic
func (h *Handler) SemanticSearch(c *gin.Context) {
	if !h.services.Semantic.Enabled() {
		respondError(c, domain.ErrSemanticDisabled)
		return
	}

	var req domain.SemanticSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	results, err := h.services.Semantic.Search(c.Request.Context(), req.Query, req.TopK)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"query":   req.Query,
		"results": results,
	})
}

// respondBindError answers 400 for bodies that are not valid JSON or fail validation
func respondBindError(c *gin.Context, err error) {
	logging.Ctx(c.Request.Context()).Debug().Err(err).Msg("rejected request body")
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
}

// respondError maps domain errors to HTTP status codes
func respondError(c *gin.Context, err error) {
	status := statusFor(err)

	message := err.Error()
	if status == http.StatusInternalServerError && !errors.Is(err, domain.ErrDataUnavailable) {
		message = "internal server error"
	}

	event := logging.Ctx(c.Request.Context()).Warn()
	if status >= http.StatusInternalServerError {
		event = logging.Ctx(c.Request.Context()).Error()
	}
	event.Err(err).Int("status", status).Str("path", c.Request.URL.Path).Msg("request failed")

	c.JSON(status, gin.H{"error": message})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrProductNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrGenerationDisabled),
		errors.Is(err, domain.ErrSemanticDisabled),
		errors.Is(err, domain.ErrCircuitOpen):
		return http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrVectorSearchFailure),
		errors.Is(err, domain.ErrGenerationFailure):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
