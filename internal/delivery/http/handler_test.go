package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pricelens/backend/config"
	"github.com/pricelens/backend/internal/domain"
	"github.com/pricelens/backend/internal/infrastructure/cache"
	"github.com/pricelens/backend/internal/usecase"
)

// stubSource serves a fixed set of raw records, or an error.
type stubSource struct {
	records []domain.RawRecord
	err     error
	fetches int
}

func (s *stubSource) Fetch(ctx context.Context) ([]domain.RawRecord, error) {
	s.fetches++
	if s.err != nil {
		return nil, s.err
	}
	return s.records, nil
}

func sampleRecords() []domain.RawRecord {
	return []domain.RawRecord{
		{Platform: "blinkit", ProductName: "Acme Brown Bread", Brand: "acme", Price: "45", PackDisplay: "400g"},
		{Platform: "zepto", ProductName: "Acme Brown Bread Loaf", Brand: "acme", Price: "40", PackDisplay: "400g"},
	}
}

func newTestRouter(t *testing.T, source domain.RecordSource) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	pipeline, err := usecase.NewPipeline(usecase.PipelineConfig{})
	require.NoError(t, err)

	handler := NewHandler(pipeline, source, cache.NewMemoryCache(), time.Minute)
	cfg := &config.Config{
		Server:    config.ServerConfig{Environment: "test", AllowedOrigins: []string{"*"}},
		RateLimit: config.RateLimitConfig{PerIP: 1000, Burst: 1000},
	}
	return SetupRouter(cfg, handler)
}

func doRequest(router *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	router.ServeHTTP(w, req)
	return w
}

func TestHealthCheck(t *testing.T) {
	router := newTestRouter(t, &stubSource{})

	w := doRequest(router, http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "pricelens-backend", body["service"])
}

func TestGetProducts(t *testing.T) {
	router := newTestRouter(t, &stubSource{records: sampleRecords()})

	w := doRequest(router, http.MethodGet, "/api/v1/products")
	require.Equal(t, http.StatusOK, w.Code)

	var products []domain.NormalizedProduct
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &products))
	require.Len(t, products, 2)
	assert.Equal(t, "acme brown bread", products[0].ProductNameClean)
	require.NotNil(t, products[0].PricePer100g)
	assert.Equal(t, 11.25, *products[0].PricePer100g)
}

func TestGetComparison(t *testing.T) {
	router := newTestRouter(t, &stubSource{records: sampleRecords()})

	w := doRequest(router, http.MethodGet, "/api/v1/comparison")
	require.Equal(t, http.StatusOK, w.Code)

	var rows []domain.ComparisonRow
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "zepto", rows[0].CheaperPlatform)
	assert.Equal(t, 5.0, rows[0].Savings)
}

func TestGetSummaries(t *testing.T) {
	router := newTestRouter(t, &stubSource{records: sampleRecords()})

	w := doRequest(router, http.MethodGet, "/api/v1/summary/platforms")
	require.Equal(t, http.StatusOK, w.Code)
	var platforms []domain.PlatformSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &platforms))
	assert.Len(t, platforms, 2)

	w = doRequest(router, http.MethodGet, "/api/v1/summary/brands")
	require.Equal(t, http.StatusOK, w.Code)
	var brands []domain.BrandSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &brands))
	require.Len(t, brands, 1)
	assert.Equal(t, "Acme", brands[0].BrandClean)
}

func TestEmptySourceServesEmptyTables(t *testing.T) {
	router := newTestRouter(t, &stubSource{})

	for _, path := range []string{
		"/api/v1/products", "/api/v1/matches", "/api/v1/comparison",
		"/api/v1/summary/platforms", "/api/v1/summary/brands",
	} {
		w := doRequest(router, http.MethodGet, path)
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.Equal(t, "[]", w.Body.String(), path)
	}
}

func TestResultIsCachedAcrossRequests(t *testing.T) {
	source := &stubSource{records: sampleRecords()}
	router := newTestRouter(t, source)

	doRequest(router, http.MethodGet, "/api/v1/products")
	doRequest(router, http.MethodGet, "/api/v1/comparison")
	doRequest(router, http.MethodGet, "/api/v1/matches")

	assert.Equal(t, 1, source.fetches, "batch should run once and be served from cache")
}

func TestRefresh(t *testing.T) {
	source := &stubSource{records: sampleRecords()}
	router := newTestRouter(t, source)

	doRequest(router, http.MethodGet, "/api/v1/products")

	w := doRequest(router, http.MethodPost, "/api/v1/refresh")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(2), body["raw_count"])
	assert.Equal(t, float64(1), body["comparisons"])

	assert.Equal(t, 2, source.fetches, "refresh must re-run the batch")
}

func TestSourceErrorReturns500(t *testing.T) {
	router := newTestRouter(t, &stubSource{err: errors.New("scrape feed unreachable")})

	w := doRequest(router, http.MethodGet, "/api/v1/products")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "scrape feed unreachable")
}
