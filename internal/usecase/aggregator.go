package usecase

import (
	"math"
	"sort"

	"github.com/pricelens/backend/internal/domain"
)

// PlatformSummaries reduces the normalized table to per-platform statistics,
// sorted by platform name. Platforms with no unit-priced rows get nil unit
// price fields rather than zeros.
func PlatformSummaries(products []domain.NormalizedProduct) []domain.PlatformSummary {
	groups := make(map[string][]domain.NormalizedProduct)
	for _, p := range products {
		groups[p.Platform] = append(groups[p.Platform], p)
	}

	platforms := make([]string, 0, len(groups))
	for platform := range groups {
		platforms = append(platforms, platform)
	}
	sort.Strings(platforms)

	summaries := make([]domain.PlatformSummary, 0, len(platforms))
	for _, platform := range platforms {
		group := groups[platform]

		prices := make([]float64, 0, len(group))
		var unitPrices []float64
		names := make(map[string]bool)
		for _, p := range group {
			prices = append(prices, p.Price)
			names[p.ProductName] = true
			if p.PricePer100g != nil {
				unitPrices = append(unitPrices, *p.PricePer100g)
			}
		}

		summary := domain.PlatformSummary{
			Platform:      platform,
			TotalProducts: len(names),
			AvgPrice:      round2(mean(prices)),
			MedianPrice:   round2(median(prices)),
			MinPrice:      round2(minOf(prices)),
			MaxPrice:      round2(maxOf(prices)),
		}
		if len(unitPrices) > 0 {
			avg := round2(mean(unitPrices))
			med := round2(median(unitPrices))
			summary.AvgPricePer100g = &avg
			summary.MedianPricePer100g = &med
		}
		summaries = append(summaries, summary)
	}

	return summaries
}

// BrandSummaries reduces the normalized table to per-brand statistics, sorted
// by distinct product count descending.
func BrandSummaries(products []domain.NormalizedProduct) []domain.BrandSummary {
	groups := make(map[string][]domain.NormalizedProduct)
	var order []string
	for _, p := range products {
		if _, ok := groups[p.BrandClean]; !ok {
			order = append(order, p.BrandClean)
		}
		groups[p.BrandClean] = append(groups[p.BrandClean], p)
	}

	summaries := make([]domain.BrandSummary, 0, len(order))
	for _, brand := range order {
		group := groups[brand]

		prices := make([]float64, 0, len(group))
		var unitPrices []float64
		names := make(map[string]bool)
		platforms := make(map[string]bool)
		for _, p := range group {
			prices = append(prices, p.Price)
			names[p.ProductName] = true
			platforms[p.Platform] = true
			if p.PricePer100g != nil {
				unitPrices = append(unitPrices, *p.PricePer100g)
			}
		}

		summary := domain.BrandSummary{
			BrandClean:         brand,
			ProductCount:       len(names),
			PlatformsAvailable: len(platforms),
			AvgPrice:           round2(mean(prices)),
		}
		if len(unitPrices) > 0 {
			avg := round2(mean(unitPrices))
			summary.AvgPricePer100g = &avg
		}
		summaries = append(summaries, summary)
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].ProductCount > summaries[j].ProductCount
	})

	return summaries
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// median averages the two middle values for even-length input.
func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

func minOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func maxOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
