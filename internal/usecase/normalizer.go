package usecase

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/pricelens/backend/internal/domain"
)

// Package-level compiled regex patterns for performance
var (
	nonAlphanumericRegex = regexp.MustCompile(`[^a-z0-9\s]`)
	multipleSpacesRegex  = regexp.MustCompile(`\s+`)

	// Matches "400g", "1.5 kg", "500 ml", "1l" inside free-text pack
	// descriptions. kg and l are converted to grams/ml below.
	weightPatternRegex = regexp.MustCompile(`(?i)(\d+\.?\d*)\s*(g|kg|ml|l)\b`)
)

// unknownBrand is the sentinel for listings scraped without a brand field.
const unknownBrand = "unknown"

// Normalizer cleans raw scraped listings into the normalized product table.
// Rows with an unparseable or non-positive price, or a name that cleans down
// to nothing, are excluded entirely and counted in DropStats.
type Normalizer struct{}

// NewNormalizer creates a new field normalizer
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Normalize produces the normalized product table from raw scraped rows.
// Exact duplicate rows are removed first, then price is validated before any
// further derivation so that invalid rows never reach weight extraction.
func (n *Normalizer) Normalize(records []domain.RawRecord) ([]domain.NormalizedProduct, domain.DropStats) {
	var stats domain.DropStats
	products := make([]domain.NormalizedProduct, 0, len(records))

	seen := make(map[string]bool, len(records))
	for _, rec := range records {
		key := dedupeKey(rec)
		if seen[key] {
			stats.Duplicates++
			continue
		}
		seen[key] = true

		price, ok := parsePrice(rec.Price)
		if !ok || price <= 0 {
			stats.InvalidPrice++
			continue
		}

		nameClean := CleanProductName(rec.ProductName)
		if nameClean == "" {
			stats.EmptyName++
			continue
		}

		brand := strings.ToLower(strings.TrimSpace(rec.Brand))
		if brand == "" {
			brand = unknownBrand
		}

		products = append(products, domain.NormalizedProduct{
			Platform:         rec.Platform,
			ProductName:      rec.ProductName,
			ProductNameClean: nameClean,
			Brand:            brand,
			BrandClean:       titleCase(brand),
			Price:            price,
			WeightGrams:      resolveWeight(rec),
			URL:              rec.URL,
		})
	}

	return products, stats
}

// dedupeKey builds a comparable key covering every raw column.
func dedupeKey(rec domain.RawRecord) string {
	weight := ""
	if rec.WeightGrams != nil {
		weight = strconv.FormatFloat(*rec.WeightGrams, 'f', -1, 64)
	}
	return strings.Join([]string{
		rec.Platform, rec.ProductName, rec.Brand, rec.Price, rec.PackDisplay, weight, rec.URL,
	}, "\x1f")
}

// parsePrice parses the scraped price text as a positive real number.
func parsePrice(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// resolveWeight returns the listing weight in grams. A numeric weight on the
// raw row wins when nonzero; otherwise the pack description is parsed. Returns
// nil when no weight can be determined - never zero, which would corrupt the
// unit price division downstream.
func resolveWeight(rec domain.RawRecord) *float64 {
	if rec.WeightGrams != nil && *rec.WeightGrams != 0 {
		w := *rec.WeightGrams
		return &w
	}
	return ExtractWeightGrams(rec.PackDisplay)
}

// ExtractWeightGrams parses a weight from free-text pack descriptions like
// "400g", "2 x 1.5 kg", "500 ml bottle". kg and l are normalized to
// grams/milliliters; returns nil when no pattern matches.
func ExtractWeightGrams(packDisplay string) *float64 {
	m := weightPatternRegex.FindStringSubmatch(packDisplay)
	if m == nil {
		return nil
	}

	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return nil
	}

	switch strings.ToLower(m[2]) {
	case "kg", "l":
		value *= 1000
	}
	return &value
}

// CleanProductName lowercases a product name and replaces every character
// outside [a-z0-9 whitespace] with a single space. Replacement rather than
// deletion keeps hyphenated words apart ("whole-wheat" becomes "whole wheat",
// not "wholewheat"). Runs of whitespace collapse to one space.
func CleanProductName(name string) string {
	result := strings.ToLower(name)
	result = nonAlphanumericRegex.ReplaceAllString(result, " ")
	result = multipleSpacesRegex.ReplaceAllString(result, " ")
	return strings.TrimSpace(result)
}

// titleCase uppercases the first letter of each space-separated word.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// formatDropStats renders drop counts for log lines.
func formatDropStats(stats domain.DropStats) string {
	return fmt.Sprintf("duplicates=%d invalid_price=%d empty_name=%d",
		stats.Duplicates, stats.InvalidPrice, stats.EmptyName)
}
