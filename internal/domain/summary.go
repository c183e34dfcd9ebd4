package domain

// PlatformSummary aggregates the normalized table per platform. Unit price
// fields are nil when the platform has no rows with a known weight.
type PlatformSummary struct {
	Platform           string   `json:"platform"`
	TotalProducts      int      `json:"total_products"`
	AvgPrice           float64  `json:"avg_price"`
	MedianPrice        float64  `json:"median_price"`
	MinPrice           float64  `json:"min_price"`
	MaxPrice           float64  `json:"max_price"`
	AvgPricePer100g    *float64 `json:"avg_price_per_100g,omitempty"`
	MedianPricePer100g *float64 `json:"median_price_per_100g,omitempty"`
}

// BrandSummary aggregates the normalized table per canonical brand.
type BrandSummary struct {
	BrandClean         string   `json:"brand_clean"`
	ProductCount       int      `json:"product_count"`
	PlatformsAvailable int      `json:"platforms_available"`
	AvgPrice           float64  `json:"avg_price"`
	AvgPricePer100g    *float64 `json:"avg_price_per_100g,omitempty"`
}

// DropStats counts rows removed during normalization, by reason. Dropped rows
// are silent data loss by design; these counts are the only visibility.
type DropStats struct {
	Duplicates   int `json:"duplicates"`
	InvalidPrice int `json:"invalid_price"`
	EmptyName    int `json:"empty_name"`
}

// Total returns the number of raw rows removed across all reasons.
func (d DropStats) Total() int {
	return d.Duplicates + d.InvalidPrice + d.EmptyName
}

// Result holds the five output tables of one pipeline run. These tables are
// the sole contract with the dashboard.
type Result struct {
	Products    []NormalizedProduct `json:"products"`
	Matches     []MatchedPair       `json:"matches"`
	Comparisons []ComparisonRow     `json:"comparisons"`
	Platforms   []PlatformSummary   `json:"platform_summary"`
	Brands      []BrandSummary      `json:"brand_summary"`
	RawCount    int                 `json:"raw_count"`
	Dropped     DropStats           `json:"dropped"`
}
