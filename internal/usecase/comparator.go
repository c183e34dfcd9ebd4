package usecase

import (
	"math"
	"sort"

	"github.com/pricelens/backend/internal/domain"
)

// ComparePrices computes price deltas for every matched pair and ranks the
// result by savings, largest first. Empty input yields an empty table.
func ComparePrices(pairs []domain.MatchedPair) []domain.ComparisonRow {
	rows := make([]domain.ComparisonRow, 0, len(pairs))

	for _, pair := range pairs {
		row := domain.ComparisonRow{MatchedPair: pair}

		row.PriceDiff = pair.Price2 - pair.Price1
		row.PriceDiffPct = row.PriceDiff / math.Min(pair.Price1, pair.Price2) * 100

		// Unit price deltas propagate as "no value" when either side lacks a
		// unit price - never zero.
		if pair.PricePer100g1 != nil && pair.PricePer100g2 != nil {
			diff := *pair.PricePer100g2 - *pair.PricePer100g1
			pct := diff / math.Min(*pair.PricePer100g1, *pair.PricePer100g2) * 100
			row.UnitPriceDiff = &diff
			row.UnitPriceDiffPct = &pct
		}

		// Exact price ties resolve to platform 2.
		if pair.Price1 < pair.Price2 {
			row.CheaperPlatform = pair.Platform1
		} else {
			row.CheaperPlatform = pair.Platform2
		}

		row.BestPrice = math.Min(pair.Price1, pair.Price2)
		row.Savings = math.Abs(row.PriceDiff)

		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Savings > rows[j].Savings
	})

	return rows
}
