// Package store persists pipeline runs so the dashboard can query historical
// output without re-running the batch.
package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/pricelens/backend/internal/domain"
)

// SQLiteStore implements domain.ResultStore using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS runs (
	id                 TEXT PRIMARY KEY,
	raw_count          INTEGER NOT NULL,
	product_count      INTEGER NOT NULL,
	match_count        INTEGER NOT NULL,
	comparison_count   INTEGER NOT NULL,
	dropped_duplicates INTEGER NOT NULL,
	dropped_price      INTEGER NOT NULL,
	dropped_name       INTEGER NOT NULL,
	created_at         DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS products (
	run_id             TEXT NOT NULL REFERENCES runs(id),
	platform           TEXT NOT NULL,
	product_name       TEXT NOT NULL,
	product_name_clean TEXT NOT NULL,
	brand              TEXT NOT NULL,
	brand_clean        TEXT NOT NULL,
	price_rupees       REAL NOT NULL,
	weight_grams       REAL,
	price_per_100g     REAL,
	url                TEXT
);

CREATE TABLE IF NOT EXISTS matched_pairs (
	run_id           TEXT NOT NULL REFERENCES runs(id),
	product_name     TEXT NOT NULL,
	brand            TEXT NOT NULL,
	weight_grams     REAL,
	platform_1       TEXT NOT NULL,
	price_1          REAL NOT NULL,
	price_per_100g_1 REAL,
	url_1            TEXT,
	platform_2       TEXT NOT NULL,
	price_2          REAL NOT NULL,
	price_per_100g_2 REAL,
	url_2            TEXT,
	similarity_score REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS price_comparison (
	run_id              TEXT NOT NULL REFERENCES runs(id),
	product_name        TEXT NOT NULL,
	brand               TEXT NOT NULL,
	platform_1          TEXT NOT NULL,
	price_1             REAL NOT NULL,
	platform_2          TEXT NOT NULL,
	price_2             REAL NOT NULL,
	price_diff          REAL NOT NULL,
	price_diff_pct      REAL NOT NULL,
	unit_price_diff     REAL,
	unit_price_diff_pct REAL,
	cheaper_platform    TEXT NOT NULL,
	best_price          REAL NOT NULL,
	savings             REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS platform_summary (
	run_id                TEXT NOT NULL REFERENCES runs(id),
	platform              TEXT NOT NULL,
	total_products        INTEGER NOT NULL,
	avg_price             REAL NOT NULL,
	median_price          REAL NOT NULL,
	min_price             REAL NOT NULL,
	max_price             REAL NOT NULL,
	avg_price_per_100g    REAL,
	median_price_per_100g REAL
);

CREATE TABLE IF NOT EXISTS brand_summary (
	run_id              TEXT NOT NULL REFERENCES runs(id),
	brand_clean         TEXT NOT NULL,
	product_count       INTEGER NOT NULL,
	platforms_available INTEGER NOT NULL,
	avg_price           REAL NOT NULL,
	avg_price_per_100g  REAL
);

CREATE INDEX IF NOT EXISTS idx_products_run_id ON products(run_id);
CREATE INDEX IF NOT EXISTS idx_matched_pairs_run_id ON matched_pairs(run_id);
CREATE INDEX IF NOT EXISTS idx_price_comparison_run_id ON price_comparison(run_id);
`

// Migrate creates the schema if it does not exist.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveResult persists one pipeline run and all five output tables in a single
// transaction. Returns the generated run ID.
func (s *SQLiteStore) SaveResult(ctx context.Context, result *domain.Result) (string, error) {
	runID := uuid.New().String()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", eris.Wrap(err, "sqlite: begin")
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, raw_count, product_count, match_count, comparison_count,
			dropped_duplicates, dropped_price, dropped_name, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, result.RawCount, len(result.Products), len(result.Matches), len(result.Comparisons),
		result.Dropped.Duplicates, result.Dropped.InvalidPrice, result.Dropped.EmptyName,
		time.Now().UTC(),
	)
	if err != nil {
		return "", eris.Wrap(err, "sqlite: insert run")
	}

	for _, p := range result.Products {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO products (run_id, platform, product_name, product_name_clean,
				brand, brand_clean, price_rupees, weight_grams, price_per_100g, url)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, p.Platform, p.ProductName, p.ProductNameClean,
			p.Brand, p.BrandClean, p.Price, nullable(p.WeightGrams), nullable(p.PricePer100g), p.URL,
		)
		if err != nil {
			return "", eris.Wrap(err, "sqlite: insert product")
		}
	}

	for _, m := range result.Matches {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO matched_pairs (run_id, product_name, brand, weight_grams,
				platform_1, price_1, price_per_100g_1, url_1,
				platform_2, price_2, price_per_100g_2, url_2, similarity_score)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, m.ProductName, m.Brand, nullable(m.WeightGrams),
			m.Platform1, m.Price1, nullable(m.PricePer100g1), m.URL1,
			m.Platform2, m.Price2, nullable(m.PricePer100g2), m.URL2, m.SimilarityScore,
		)
		if err != nil {
			return "", eris.Wrap(err, "sqlite: insert matched pair")
		}
	}

	for _, c := range result.Comparisons {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO price_comparison (run_id, product_name, brand,
				platform_1, price_1, platform_2, price_2,
				price_diff, price_diff_pct, unit_price_diff, unit_price_diff_pct,
				cheaper_platform, best_price, savings)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, c.ProductName, c.Brand,
			c.Platform1, c.Price1, c.Platform2, c.Price2,
			c.PriceDiff, c.PriceDiffPct, nullable(c.UnitPriceDiff), nullable(c.UnitPriceDiffPct),
			c.CheaperPlatform, c.BestPrice, c.Savings,
		)
		if err != nil {
			return "", eris.Wrap(err, "sqlite: insert comparison")
		}
	}

	for _, ps := range result.Platforms {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO platform_summary (run_id, platform, total_products,
				avg_price, median_price, min_price, max_price,
				avg_price_per_100g, median_price_per_100g)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, ps.Platform, ps.TotalProducts,
			ps.AvgPrice, ps.MedianPrice, ps.MinPrice, ps.MaxPrice,
			nullable(ps.AvgPricePer100g), nullable(ps.MedianPricePer100g),
		)
		if err != nil {
			return "", eris.Wrap(err, "sqlite: insert platform summary")
		}
	}

	for _, bs := range result.Brands {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO brand_summary (run_id, brand_clean, product_count,
				platforms_available, avg_price, avg_price_per_100g)
			VALUES (?, ?, ?, ?, ?, ?)`,
			runID, bs.BrandClean, bs.ProductCount,
			bs.PlatformsAvailable, bs.AvgPrice, nullable(bs.AvgPricePer100g),
		)
		if err != nil {
			return "", eris.Wrap(err, "sqlite: insert brand summary")
		}
	}

	if err := tx.Commit(); err != nil {
		return "", eris.Wrap(err, "sqlite: commit")
	}
	return runID, nil
}

// nullable maps absent values to SQL NULL.
func nullable(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
