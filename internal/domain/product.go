package domain

// RawRecord is one scraped listing as delivered by the scraper. Price arrives
// as free text because scraped values are frequently malformed ("₹45", "abc").
type RawRecord struct {
	Platform    string   `json:"platform"`
	ProductName string   `json:"product_name"`
	Brand       string   `json:"brand,omitempty"`
	Price       string   `json:"price_rupees"`
	PackDisplay string   `json:"pack_display,omitempty"`
	WeightGrams *float64 `json:"weight_grams,omitempty"`
	URL         string   `json:"url,omitempty"`
}

// NormalizedProduct is the cleaned form of a RawRecord. Records that fail
// normalization (unparseable price, empty name) never become one.
// WeightGrams and PricePer100g are nil when the weight could not be
// determined; they are never coerced to zero.
type NormalizedProduct struct {
	Platform         string   `json:"platform"`
	ProductName      string   `json:"product_name"`
	ProductNameClean string   `json:"product_name_clean"`
	Brand            string   `json:"brand"`
	BrandClean       string   `json:"brand_clean"`
	Price            float64  `json:"price_rupees"`
	WeightGrams      *float64 `json:"weight_grams,omitempty"`
	PricePer100g     *float64 `json:"price_per_100g,omitempty"`
	URL              string   `json:"url,omitempty"`
}

// MatchedPair is an unordered pair of listings from two different platforms
// believed to be the same physical product.
type MatchedPair struct {
	ProductName     string   `json:"product_name"`
	Brand           string   `json:"brand"`
	WeightGrams     *float64 `json:"weight_grams,omitempty"`
	Platform1       string   `json:"platform_1"`
	Price1          float64  `json:"price_1"`
	PricePer100g1   *float64 `json:"price_per_100g_1,omitempty"`
	URL1            string   `json:"url_1,omitempty"`
	Platform2       string   `json:"platform_2"`
	Price2          float64  `json:"price_2"`
	PricePer100g2   *float64 `json:"price_per_100g_2,omitempty"`
	URL2            string   `json:"url_2,omitempty"`
	SimilarityScore float64  `json:"similarity_score"`
}

// ComparisonRow enriches a MatchedPair with price deltas and the fields used
// for savings ranking. Unit price deltas are nil when either side lacks a
// unit price.
type ComparisonRow struct {
	MatchedPair
	PriceDiff        float64  `json:"price_diff"`
	PriceDiffPct     float64  `json:"price_diff_pct"`
	UnitPriceDiff    *float64 `json:"unit_price_diff,omitempty"`
	UnitPriceDiffPct *float64 `json:"unit_price_diff_pct,omitempty"`
	CheaperPlatform  string   `json:"cheaper_platform"`
	BestPrice        float64  `json:"best_price"`
	Savings          float64  `json:"savings"`
}
