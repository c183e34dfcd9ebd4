package http

import (
	"github.com/gin-gonic/gin"

	"github.com/pricelens/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))
	router.Use(RateLimitMiddleware(cfg.RateLimit.PerIP, cfg.RateLimit.Burst))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes - the five output tables consumed by the dashboard
	v1 := router.Group("/api/v1")
	{
		v1.GET("/products", handler.GetProducts)
		v1.GET("/matches", handler.GetMatches)
		v1.GET("/comparison", handler.GetComparison)

		summary := v1.Group("/summary")
		{
			summary.GET("/platforms", handler.GetPlatformSummary)
			summary.GET("/brands", handler.GetBrandSummary)
		}

		v1.POST("/refresh", handler.Refresh)
	}

	return router
}
