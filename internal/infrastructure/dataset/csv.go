// Package dataset reads raw scraped listings from CSV and exports the five
// pipeline output tables for the dashboard.
package dataset

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/pricelens/backend/internal/domain"
)

// Input columns. Platform, name and price are required; the rest are treated
// as absent per row when the column is missing.
const (
	colPlatform    = "platform"
	colProductName = "product_name"
	colBrand       = "brand"
	colPrice       = "price_rupees"
	colPackDisplay = "pack_display"
	colWeightGrams = "weight_grams"
	colURL         = "url"
)

// CSVSource reads raw listings from a CSV file produced by the scraper.
type CSVSource struct {
	path string
}

// NewCSVSource creates a record source backed by a CSV file.
func NewCSVSource(path string) *CSVSource {
	return &CSVSource{path: path}
}

// Fetch implements domain.RecordSource.
func (s *CSVSource) Fetch(ctx context.Context) ([]domain.RawRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "csv: context cancelled")
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, eris.Wrapf(err, "csv: open %s", s.path)
	}
	defer f.Close()

	return ReadRecords(f)
}

// ReadRecords parses raw listing rows from CSV. The first row must be a
// header; columns are matched by name, case-insensitively. Rows shorter than
// the header are tolerated (missing cells read as empty).
func ReadRecords(r io.Reader) ([]domain.RawRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // allow variable fields

	header, err := reader.Read()
	if err == io.EOF {
		return []domain.RawRecord{}, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "csv: read header")
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{colPlatform, colProductName, colPrice} {
		if _, ok := cols[required]; !ok {
			return nil, eris.Wrapf(domain.ErrMissingColumn, "csv: %s", required)
		}
	}

	var records []domain.RawRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "csv: read row")
		}

		cell := func(name string) string {
			idx, ok := cols[name]
			if !ok || idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}

		records = append(records, domain.RawRecord{
			Platform:    cell(colPlatform),
			ProductName: cell(colProductName),
			Brand:       cell(colBrand),
			Price:       cell(colPrice),
			PackDisplay: cell(colPackDisplay),
			WeightGrams: parseOptionalFloat(cell(colWeightGrams)),
			URL:         cell(colURL),
		})
	}

	return records, nil
}

// parseOptionalFloat returns nil for empty or unparseable cells.
func parseOptionalFloat(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

// ExportResult writes the five output tables as CSV files named
// <prefix>_products.csv, <prefix>_matched.csv, <prefix>_price_comparison.csv,
// <prefix>_platform_summary.csv and <prefix>_brand_summary.csv. Returns the
// paths written. Empty tables still produce files with headers.
func ExportResult(dir, prefix string, result *domain.Result) ([]string, error) {
	exports := []struct {
		name    string
		headers []string
		rows    [][]string
	}{
		{"products", productHeaders, productRows(result.Products)},
		{"matched", matchedHeaders, matchedRows(result.Matches)},
		{"price_comparison", comparisonHeaders, comparisonRows(result.Comparisons)},
		{"platform_summary", platformHeaders, platformRows(result.Platforms)},
		{"brand_summary", brandHeaders, brandRows(result.Brands)},
	}

	paths := make([]string, 0, len(exports))
	for _, e := range exports {
		path := filepath.Join(dir, prefix+"_"+e.name+".csv")
		if err := writeCSV(path, e.headers, e.rows); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeCSV(path string, headers []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "csv: create %s", path)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(headers); err != nil {
		return eris.Wrapf(err, "csv: write header %s", path)
	}
	if err := w.WriteAll(rows); err != nil {
		return eris.Wrapf(err, "csv: write rows %s", path)
	}
	w.Flush()
	return eris.Wrapf(w.Error(), "csv: flush %s", path)
}

var productHeaders = []string{
	"platform", "product_name", "product_name_clean", "brand", "brand_clean",
	"price_rupees", "weight_grams", "price_per_100g", "url",
}

func productRows(products []domain.NormalizedProduct) [][]string {
	rows := make([][]string, 0, len(products))
	for _, p := range products {
		rows = append(rows, []string{
			p.Platform, p.ProductName, p.ProductNameClean, p.Brand, p.BrandClean,
			formatFloat(p.Price), formatOptional(p.WeightGrams), formatOptional(p.PricePer100g), p.URL,
		})
	}
	return rows
}

var matchedHeaders = []string{
	"product_name", "brand", "weight_grams",
	"platform_1", "price_1", "price_per_100g_1", "url_1",
	"platform_2", "price_2", "price_per_100g_2", "url_2",
	"similarity_score",
}

func matchedRows(matches []domain.MatchedPair) [][]string {
	rows := make([][]string, 0, len(matches))
	for _, m := range matches {
		rows = append(rows, matchedCells(m))
	}
	return rows
}

func matchedCells(m domain.MatchedPair) []string {
	return []string{
		m.ProductName, m.Brand, formatOptional(m.WeightGrams),
		m.Platform1, formatFloat(m.Price1), formatOptional(m.PricePer100g1), m.URL1,
		m.Platform2, formatFloat(m.Price2), formatOptional(m.PricePer100g2), m.URL2,
		formatFloat(m.SimilarityScore),
	}
}

var comparisonHeaders = append(append([]string{}, matchedHeaders...),
	"price_diff", "price_diff_pct", "unit_price_diff", "unit_price_diff_pct",
	"cheaper_platform", "best_price", "savings",
)

func comparisonRows(comparisons []domain.ComparisonRow) [][]string {
	rows := make([][]string, 0, len(comparisons))
	for _, c := range comparisons {
		row := append(matchedCells(c.MatchedPair),
			formatFloat(c.PriceDiff), formatFloat(c.PriceDiffPct),
			formatOptional(c.UnitPriceDiff), formatOptional(c.UnitPriceDiffPct),
			c.CheaperPlatform, formatFloat(c.BestPrice), formatFloat(c.Savings),
		)
		rows = append(rows, row)
	}
	return rows
}

var platformHeaders = []string{
	"platform", "total_products", "avg_price", "median_price", "min_price",
	"max_price", "avg_price_per_100g", "median_price_per_100g",
}

func platformRows(summaries []domain.PlatformSummary) [][]string {
	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []string{
			s.Platform, strconv.Itoa(s.TotalProducts),
			formatFloat(s.AvgPrice), formatFloat(s.MedianPrice),
			formatFloat(s.MinPrice), formatFloat(s.MaxPrice),
			formatOptional(s.AvgPricePer100g), formatOptional(s.MedianPricePer100g),
		})
	}
	return rows
}

var brandHeaders = []string{
	"brand_clean", "product_count", "platforms_available", "avg_price", "avg_price_per_100g",
}

func brandRows(summaries []domain.BrandSummary) [][]string {
	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []string{
			s.BrandClean, strconv.Itoa(s.ProductCount), strconv.Itoa(s.PlatformsAvailable),
			formatFloat(s.AvgPrice), formatOptional(s.AvgPricePer100g),
		})
	}
	return rows
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// formatOptional renders absent values as empty cells, never "0".
func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}
