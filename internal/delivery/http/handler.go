package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pricelens/backend/internal/domain"
	"github.com/pricelens/backend/internal/usecase"
)

// resultCacheKey holds the latest pipeline result in the cache.
const resultCacheKey = "pipeline:result"

// Handler holds dependencies for HTTP handlers
type Handler struct {
	pipeline *usecase.Pipeline
	source   domain.RecordSource
	cache    domain.CacheRepository
	cacheTTL time.Duration
}

// NewHandler creates a new HTTP handler
func NewHandler(
	pipeline *usecase.Pipeline,
	source domain.RecordSource,
	cache domain.CacheRepository,
	cacheTTL time.Duration,
) *Handler {
	return &Handler{
		pipeline: pipeline,
		source:   source,
		cache:    cache,
		cacheTTL: cacheTTL,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "pricelens-backend",
		"version": "1.0.0",
	})
}

// Refresh re-runs the batch over the configured record source and replaces
// the cached result. Returns run counts for observability.
func (h *Handler) Refresh(c *gin.Context) {
	result, err := h.recompute(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"raw_count":   result.RawCount,
		"products":    len(result.Products),
		"matches":     len(result.Matches),
		"comparisons": len(result.Comparisons),
		"dropped":     result.Dropped,
	})
}

// GetProducts returns the normalized product table
func (h *Handler) GetProducts(c *gin.Context) {
	h.serveTable(c, func(r *domain.Result) interface{} { return r.Products })
}

// GetMatches returns the matched-pairs table
func (h *Handler) GetMatches(c *gin.Context) {
	h.serveTable(c, func(r *domain.Result) interface{} { return r.Matches })
}

// GetComparison returns the price-comparison table, sorted by savings
func (h *Handler) GetComparison(c *gin.Context) {
	h.serveTable(c, func(r *domain.Result) interface{} { return r.Comparisons })
}

// GetPlatformSummary returns per-platform aggregate statistics
func (h *Handler) GetPlatformSummary(c *gin.Context) {
	h.serveTable(c, func(r *domain.Result) interface{} { return r.Platforms })
}

// GetBrandSummary returns per-brand aggregate statistics
func (h *Handler) GetBrandSummary(c *gin.Context) {
	h.serveTable(c, func(r *domain.Result) interface{} { return r.Brands })
}

// serveTable responds with one of the five output tables, recomputing the
// pipeline on cache miss.
func (h *Handler) serveTable(c *gin.Context, selectTable func(*domain.Result) interface{}) {
	result, err := h.getResult(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, selectTable(result))
}

// getResult returns the cached pipeline result, running the batch on miss.
func (h *Handler) getResult(c *gin.Context) (*domain.Result, error) {
	cached, err := h.cache.Get(c.Request.Context(), resultCacheKey)
	if err == nil {
		if result, ok := cached.(*domain.Result); ok {
			return result, nil
		}
	} else if !errors.Is(err, domain.ErrCacheMiss) {
		return nil, err
	}

	return h.recompute(c)
}

// recompute fetches raw records, runs the pipeline and caches the result.
func (h *Handler) recompute(c *gin.Context) (*domain.Result, error) {
	ctx := c.Request.Context()

	records, err := h.source.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	result, err := h.pipeline.Run(ctx, records)
	if err != nil {
		return nil, err
	}

	if err := h.cache.Set(ctx, resultCacheKey, result, h.cacheTTL); err != nil {
		// Serve the result even if caching fails
		zap.L().Warn("failed to cache pipeline result", zap.Error(err))
	}

	return result, nil
}
