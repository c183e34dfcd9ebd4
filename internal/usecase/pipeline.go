package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/pricelens/backend/internal/domain"
)

// PipelineConfig holds configuration for the full pipeline.
type PipelineConfig struct {
	Matching MatchConfig
}

// Pipeline runs the full batch: normalize, derive unit prices, match across
// platforms, compare prices, aggregate summaries. Each stage takes the prior
// stage's table and returns a new one; no state is shared across stages, so a
// run is a pure function of its input rows.
type Pipeline struct {
	normalizer *Normalizer
	matcher    *MatcherService
}

// NewPipeline creates a pipeline, failing fast on invalid matcher
// configuration.
func NewPipeline(config PipelineConfig) (*Pipeline, error) {
	matcher, err := NewMatcherService(config.Matching)
	if err != nil {
		return nil, err
	}
	return &Pipeline{
		normalizer: NewNormalizer(),
		matcher:    matcher,
	}, nil
}

// Run executes the batch over the complete input set and returns the five
// output tables. Empty input produces empty, well-formed tables.
func (p *Pipeline) Run(ctx context.Context, records []domain.RawRecord) (*domain.Result, error) {
	log := zap.L().With(zap.String("component", "pipeline"))

	products, dropped := p.normalizer.Normalize(records)
	log.Info("normalized records",
		zap.Int("raw", len(records)),
		zap.Int("retained", len(products)),
		zap.String("dropped", formatDropStats(dropped)))

	products = ApplyUnitPrices(products)

	matches, err := p.matcher.Match(ctx, products)
	if err != nil {
		return nil, err
	}
	log.Info("matched products across platforms", zap.Int("pairs", len(matches)))

	comparisons := ComparePrices(matches)

	result := &domain.Result{
		Products:    products,
		Matches:     matches,
		Comparisons: comparisons,
		Platforms:   PlatformSummaries(products),
		Brands:      BrandSummaries(products),
		RawCount:    len(records),
		Dropped:     dropped,
	}
	log.Info("pipeline complete",
		zap.Int("products", len(result.Products)),
		zap.Int("comparisons", len(result.Comparisons)),
		zap.Int("platforms", len(result.Platforms)),
		zap.Int("brands", len(result.Brands)))

	return result, nil
}
