package domain

import (
	"context"
	"time"
)

// RecordSource delivers raw scraped listings. The browser-automation scraper
// lives behind this boundary; the pipeline only ever sees its rows.
type RecordSource interface {
	Fetch(ctx context.Context) ([]RawRecord, error)
}

// ResultStore persists the output tables of a pipeline run.
type ResultStore interface {
	SaveResult(ctx context.Context, result *Result) (runID string, err error)
	Close() error
}

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}
