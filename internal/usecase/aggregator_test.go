package usecase

import (
	"testing"

	"github.com/pricelens/backend/internal/domain"
)

func TestPlatformSummaries(t *testing.T) {
	t.Run("aggregates per platform with rounding", func(t *testing.T) {
		products := []domain.NormalizedProduct{
			{Platform: "blinkit", ProductName: "Bread A", Price: 40, PricePer100g: floatPtr(10)},
			{Platform: "blinkit", ProductName: "Bread B", Price: 45, PricePer100g: floatPtr(11.255)},
			{Platform: "blinkit", ProductName: "Bread C", Price: 50},
			{Platform: "zepto", ProductName: "Bread A", Price: 38},
		}

		summaries := PlatformSummaries(products)
		if len(summaries) != 2 {
			t.Fatalf("got %d summaries, want 2", len(summaries))
		}

		// Sorted by platform name
		blinkit := summaries[0]
		if blinkit.Platform != "blinkit" {
			t.Fatalf("first summary platform = %q, want blinkit", blinkit.Platform)
		}
		if blinkit.TotalProducts != 3 {
			t.Errorf("TotalProducts = %d, want 3", blinkit.TotalProducts)
		}
		if blinkit.AvgPrice != 45 {
			t.Errorf("AvgPrice = %v, want 45", blinkit.AvgPrice)
		}
		if blinkit.MedianPrice != 45 {
			t.Errorf("MedianPrice = %v, want 45", blinkit.MedianPrice)
		}
		if blinkit.MinPrice != 40 || blinkit.MaxPrice != 50 {
			t.Errorf("min/max = %v/%v, want 40/50", blinkit.MinPrice, blinkit.MaxPrice)
		}
		// Mean of 10 and 11.255 rounded to 2 decimals
		if blinkit.AvgPricePer100g == nil || *blinkit.AvgPricePer100g != 10.63 {
			t.Errorf("AvgPricePer100g = %v, want 10.63", blinkit.AvgPricePer100g)
		}
	})

	t.Run("platform without unit prices reports absent, not zero", func(t *testing.T) {
		summaries := PlatformSummaries([]domain.NormalizedProduct{
			{Platform: "zepto", ProductName: "Bread", Price: 38},
		})
		if summaries[0].AvgPricePer100g != nil {
			t.Errorf("AvgPricePer100g = %v, want nil", *summaries[0].AvgPricePer100g)
		}
		if summaries[0].MedianPricePer100g != nil {
			t.Errorf("MedianPricePer100g = %v, want nil", *summaries[0].MedianPricePer100g)
		}
	})

	t.Run("duplicate product names count once", func(t *testing.T) {
		summaries := PlatformSummaries([]domain.NormalizedProduct{
			{Platform: "zepto", ProductName: "Bread", Price: 38},
			{Platform: "zepto", ProductName: "Bread", Price: 40},
		})
		if summaries[0].TotalProducts != 1 {
			t.Errorf("TotalProducts = %d, want 1", summaries[0].TotalProducts)
		}
	})

	t.Run("median averages the middle pair for even counts", func(t *testing.T) {
		summaries := PlatformSummaries([]domain.NormalizedProduct{
			{Platform: "zepto", ProductName: "A", Price: 10},
			{Platform: "zepto", ProductName: "B", Price: 20},
			{Platform: "zepto", ProductName: "C", Price: 30},
			{Platform: "zepto", ProductName: "D", Price: 100},
		})
		if summaries[0].MedianPrice != 25 {
			t.Errorf("MedianPrice = %v, want 25", summaries[0].MedianPrice)
		}
	})

	t.Run("empty input yields empty summary", func(t *testing.T) {
		summaries := PlatformSummaries(nil)
		if summaries == nil {
			t.Error("summaries is nil, want empty slice")
		}
		if len(summaries) != 0 {
			t.Errorf("got %d summaries, want 0", len(summaries))
		}
	})
}

func TestBrandSummaries(t *testing.T) {
	t.Run("aggregates per brand sorted by product count", func(t *testing.T) {
		products := []domain.NormalizedProduct{
			{Platform: "blinkit", ProductName: "Solo Jam", BrandClean: "Solo", Price: 80},
			{Platform: "blinkit", ProductName: "Acme Bread", BrandClean: "Acme", Price: 40, PricePer100g: floatPtr(10)},
			{Platform: "zepto", ProductName: "Acme Bread", BrandClean: "Acme", Price: 42},
			{Platform: "zepto", ProductName: "Acme Butter", BrandClean: "Acme", Price: 55},
		}

		summaries := BrandSummaries(products)
		if len(summaries) != 2 {
			t.Fatalf("got %d summaries, want 2", len(summaries))
		}

		acme := summaries[0]
		if acme.BrandClean != "Acme" {
			t.Fatalf("first brand = %q, want Acme (highest product count)", acme.BrandClean)
		}
		if acme.ProductCount != 2 {
			t.Errorf("ProductCount = %d, want 2 distinct names", acme.ProductCount)
		}
		if acme.PlatformsAvailable != 2 {
			t.Errorf("PlatformsAvailable = %d, want 2", acme.PlatformsAvailable)
		}
		// Mean of 40, 42, 55 rounded
		if acme.AvgPrice != 45.67 {
			t.Errorf("AvgPrice = %v, want 45.67", acme.AvgPrice)
		}
		if acme.AvgPricePer100g == nil || *acme.AvgPricePer100g != 10 {
			t.Errorf("AvgPricePer100g = %v, want 10", acme.AvgPricePer100g)
		}

		if summaries[1].AvgPricePer100g != nil {
			t.Errorf("Solo AvgPricePer100g = %v, want nil", *summaries[1].AvgPricePer100g)
		}
	})

	t.Run("empty input yields empty summary", func(t *testing.T) {
		summaries := BrandSummaries(nil)
		if summaries == nil {
			t.Error("summaries is nil, want empty slice")
		}
		if len(summaries) != 0 {
			t.Errorf("got %d summaries, want 0", len(summaries))
		}
	})
}
