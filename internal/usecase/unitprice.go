package usecase

import "github.com/pricelens/backend/internal/domain"

// UnitPrice derives the per-100-gram price. Defined only when the weight is
// known and positive; otherwise nil, never zero and never an error.
func UnitPrice(price float64, weightGrams *float64) *float64 {
	if weightGrams == nil || *weightGrams <= 0 {
		return nil
	}
	v := price / *weightGrams * 100
	return &v
}

// ApplyUnitPrices returns a new table with PricePer100g populated for every
// row with a known weight. The input table is not mutated.
func ApplyUnitPrices(products []domain.NormalizedProduct) []domain.NormalizedProduct {
	out := make([]domain.NormalizedProduct, len(products))
	for i, p := range products {
		p.PricePer100g = UnitPrice(p.Price, p.WeightGrams)
		out[i] = p
	}
	return out
}
