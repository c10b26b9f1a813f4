package http

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/furnishly/backend/config"
	"github.com/furnishly/backend/internal/logging"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	registerValidators()

	router := gin.New()

	// Global middleware, outermost first
	router.Use(RecoveryMiddleware())
	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))
	router.Use(RateLimitMiddleware(cfg.RateLimit.PerIP))

	router.GET("/", handler.Root)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		api.GET("/health", handler.HealthCheck)
		api.POST("/recommend", handler.Recommend)
		api.GET("/analytics", handler.Analytics)

		products := api.Group("/products")
		{
			products.GET("/:id", handler.GetProduct)
			products.POST("/:id/description", handler.GenerateDescription)
		}

		api.POST("/search/semantic", handler.SemanticSearch)
	}

	return router
}

// registerValidators adds the custom binding rules used by request structs
func registerValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	if err := v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	}); err != nil {
		logging.Warn().Err(err).Msg("failed to register notblank validator")
	}
}
