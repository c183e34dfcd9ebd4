package main

import (
	"fmt"
	"log"

	"go.uber.org/zap"

	"github.com/pricelens/backend/config"
	httpDelivery "github.com/pricelens/backend/internal/delivery/http"
	"github.com/pricelens/backend/internal/infrastructure/cache"
	"github.com/pricelens/backend/internal/infrastructure/dataset"
	"github.com/pricelens/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := config.InitLogger(cfg.Log); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zap.L().Sync()

	zap.L().Info("starting PriceLens backend",
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
		zap.String("input_csv", cfg.Pipeline.InputCSV),
	)

	// Pipeline construction fails fast on invalid matcher settings
	pipeline, err := usecase.NewPipeline(usecase.PipelineConfig{
		Matching: usecase.MatchConfig{
			Threshold:         cfg.Matching.SimilarityThreshold,
			RequireBrandMatch: cfg.Matching.RequireBrandMatch,
			WeightTolerance:   cfg.Matching.WeightTolerance,
		},
	})
	if err != nil {
		zap.L().Fatal("invalid pipeline configuration", zap.Error(err))
	}

	zap.L().Info("matching configured",
		zap.Float64("threshold", cfg.Matching.SimilarityThreshold),
		zap.Bool("require_brand_match", cfg.Matching.RequireBrandMatch),
		zap.Float64("weight_tolerance", cfg.Matching.WeightTolerance),
	)

	// Infrastructure dependencies
	source := dataset.NewCSVSource(cfg.Pipeline.InputCSV)
	memoryCache := cache.NewMemoryCache()

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(pipeline, source, memoryCache, cfg.Cache.TTL)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	zap.L().Info("server listening", zap.String("addr", addr))

	if err := router.Run(addr); err != nil {
		zap.L().Fatal("server failed", zap.Error(err))
	}
}
