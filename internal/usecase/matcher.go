package usecase

import (
	"context"
	"math"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/pricelens/backend/internal/domain"
)

// Score weighting: character-level similarity dominates, keyword overlap
// corrects for word reordering ("brown bread acme" vs "acme brown bread").
const (
	stringSimilarityWeight = 0.6
	keywordOverlapWeight   = 0.4

	defaultThreshold       = 0.7
	defaultWeightTolerance = 0.1
)

// stopWords are excluded from keyword overlap. Words this common carry no
// signal about product identity.
var stopWords = map[string]bool{
	"the": true, "and": true, "or": true, "of": true, "in": true,
	"on": true, "for": true, "with": true, "a": true, "an": true,
	"to": true, "but": true, "by": true, "from": true,
}

// MatchConfig holds configuration for the matcher service
type MatchConfig struct {
	// Threshold is the minimum combined similarity score in [0,1].
	// Zero means "use the default".
	Threshold float64
	// RequireBrandMatch skips pairs whose canonical brands differ.
	RequireBrandMatch bool
	// WeightTolerance is the maximum relative weight difference for two
	// listings with known weights. Zero means "use the default".
	WeightTolerance float64
}

// MatcherService pairs normalized listings across platforms that represent
// the same physical product.
type MatcherService struct {
	threshold         float64
	requireBrandMatch bool
	weightTolerance   float64
}

// NewMatcherService creates a matcher, validating configuration up front.
// An out-of-range threshold invalidates every match decision, so it fails
// here rather than mid-run.
func NewMatcherService(config MatchConfig) (*MatcherService, error) {
	threshold := config.Threshold
	if threshold == 0 {
		threshold = defaultThreshold
	}
	if threshold < 0 || threshold > 1 {
		return nil, domain.ErrInvalidThreshold
	}

	tolerance := config.WeightTolerance
	if tolerance == 0 {
		tolerance = defaultWeightTolerance
	}
	if tolerance < 0 || tolerance > 1 {
		return nil, domain.ErrInvalidTolerance
	}

	return &MatcherService{
		threshold:         threshold,
		requireBrandMatch: config.RequireBrandMatch,
		weightTolerance:   tolerance,
	}, nil
}

// Match produces the set of cross-platform matched pairs. Records are
// partitioned by canonical brand; brands listed on fewer than two distinct
// platforms are skipped. Partitions are evaluated concurrently but results
// are assembled in first-seen brand order, so output is deterministic for a
// given input ordering.
func (s *MatcherService) Match(ctx context.Context, products []domain.NormalizedProduct) ([]domain.MatchedPair, error) {
	partitions, brandOrder := partitionByBrand(products)

	active := brandOrder[:0:0]
	for _, brand := range brandOrder {
		if countPlatforms(partitions[brand]) >= 2 {
			active = append(active, brand)
		}
	}

	results := make([][]domain.MatchedPair, len(active))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, brand := range active {
		records := partitions[brand]
		g.Go(func() error {
			pairs, err := s.matchPartition(gctx, records)
			if err != nil {
				return err
			}
			results[i] = pairs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	matches := make([]domain.MatchedPair, 0)
	for _, pairs := range results {
		matches = append(matches, pairs...)
	}
	return matches, nil
}

// matchPartition enumerates every unordered cross-platform pair within one
// brand partition, in source order.
func (s *MatcherService) matchPartition(ctx context.Context, records []domain.NormalizedProduct) ([]domain.MatchedPair, error) {
	var pairs []domain.MatchedPair

	for i := 0; i < len(records); i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		for j := i + 1; j < len(records); j++ {
			r1, r2 := records[i], records[j]

			if r1.Platform == r2.Platform {
				continue
			}
			if s.requireBrandMatch && r1.BrandClean != r2.BrandClean {
				continue
			}

			score := s.combinedScore(r1.ProductNameClean, r2.ProductNameClean)

			weightMatch := false
			if r1.WeightGrams != nil && r2.WeightGrams != nil {
				diff := math.Abs(*r1.WeightGrams - *r2.WeightGrams)
				weightMatch = diff/math.Max(*r1.WeightGrams, *r2.WeightGrams) < s.weightTolerance
			}

			// The weight gate is bypassed only when the FIRST record of the
			// pair lacks a weight; a missing weight on the second side alone
			// still disqualifies. Deliberately asymmetric - see DESIGN.md.
			if score >= s.threshold && (weightMatch || r1.WeightGrams == nil) {
				pairs = append(pairs, domain.MatchedPair{
					ProductName:     r1.ProductName,
					Brand:           r1.BrandClean,
					WeightGrams:     r1.WeightGrams,
					Platform1:       r1.Platform,
					Price1:          r1.Price,
					PricePer100g1:   r1.PricePer100g,
					URL1:            r1.URL,
					Platform2:       r2.Platform,
					Price2:          r2.Price,
					PricePer100g2:   r2.PricePer100g,
					URL2:            r2.URL,
					SimilarityScore: score,
				})
			}
		}
	}

	return pairs, nil
}

// combinedScore blends character-level similarity with keyword overlap into
// a single score in [0,1].
func (s *MatcherService) combinedScore(name1, name2 string) float64 {
	sim := stringSimilarity(name1, name2)

	kw1 := extractKeywords(name1)
	kw2 := extractKeywords(name2)
	overlap := float64(countShared(kw1, kw2)) / math.Max(math.Max(float64(len(kw1)), float64(len(kw2))), 1)

	return stringSimilarityWeight*sim + keywordOverlapWeight*overlap
}

// stringSimilarity is a normalized edit-distance ratio in [0,1].
func stringSimilarity(s1, s2 string) float64 {
	maxLen := len(s1)
	if len(s2) > maxLen {
		maxLen = len(s2)
	}
	if maxLen == 0 {
		return 1
	}
	return 1 - float64(levenshteinDistance(s1, s2))/float64(maxLen)
}

// levenshteinDistance calculates the edit distance between two strings
func levenshteinDistance(s1, s2 string) int {
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	r1 := []rune(s1)
	r2 := []rune(s2)
	m := len(r1)
	n := len(r2)

	// Two rows instead of the full matrix for space efficiency
	prev := make([]int, n+1)
	curr := make([]int, n+1)

	for j := 0; j <= n; j++ {
		prev[j] = j
	}

	for i := 1; i <= m; i++ {
		curr[0] = i
		for j := 1; j <= n; j++ {
			cost := 0
			if r1[i-1] != r2[j-1] {
				cost = 1
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[n]
}

// extractKeywords returns the significant words of a cleaned product name:
// longer than two characters and not a stop word.
func extractKeywords(name string) map[string]bool {
	keywords := make(map[string]bool)
	for _, word := range strings.Fields(name) {
		if len(word) > 2 && !stopWords[word] {
			keywords[word] = true
		}
	}
	return keywords
}

// countShared returns the number of keywords present in both sets.
func countShared(kw1, kw2 map[string]bool) int {
	shared := 0
	for w := range kw1 {
		if kw2[w] {
			shared++
		}
	}
	return shared
}

// partitionByBrand groups records by canonical brand, preserving first-seen
// brand order and source order within each partition.
func partitionByBrand(products []domain.NormalizedProduct) (map[string][]domain.NormalizedProduct, []string) {
	partitions := make(map[string][]domain.NormalizedProduct)
	var order []string
	for _, p := range products {
		if _, ok := partitions[p.BrandClean]; !ok {
			order = append(order, p.BrandClean)
		}
		partitions[p.BrandClean] = append(partitions[p.BrandClean], p)
	}
	return partitions, order
}

// countPlatforms returns the number of distinct platforms in a partition.
func countPlatforms(records []domain.NormalizedProduct) int {
	platforms := make(map[string]bool)
	for _, r := range records {
		platforms[r.Platform] = true
	}
	return len(platforms)
}
