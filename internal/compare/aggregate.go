package compare

import (
	"cmp"
	"slices"

	"github.com/nkhattar/comparekart/internal/source"
	domain "github.com/nkhattar/comparekart/pkg/types"
)

// Stats holds item-level aggregates over a set of offers.
type Stats struct {
	// BestPrice and FastestTime are 0 for an empty offer set; callers
	// must treat that as "no data", not a free or instant offer.
	BestPrice   float64
	FastestTime float64
	Savings     float64
}

// Aggregate annotates offers with cheapest/fastest tags and computes item
// stats. It returns a fresh slice sorted ascending by FinalPrice (stable
// for ties) and never mutates its input.
//
// Tagging is tie-inclusive: every offer at the minimum price is cheapest,
// and every offer whose numeric delivery time equals the minimum is
// fastest. Offers with non-numeric delivery estimates are mapped to the
// slowest sentinel, so they only win "fastest" when no numeric estimate
// exists at all - and then only by matching the sentinel itself.
func Aggregate(offers []domain.PlatformOffer) ([]domain.PlatformOffer, Stats) {
	if len(offers) == 0 {
		return []domain.PlatformOffer{}, Stats{}
	}

	out := slices.Clone(offers)

	minPrice := out[0].FinalPrice
	maxPrice := out[0].FinalPrice
	minTime := out[0].Delivery.MinutesOr(SlowestSentinelMinutes)
	for _, o := range out[1:] {
		minPrice = min(minPrice, o.FinalPrice)
		maxPrice = max(maxPrice, o.FinalPrice)
		minTime = min(minTime, o.Delivery.MinutesOr(SlowestSentinelMinutes))
	}

	for i := range out {
		out[i].IsCheapest = out[i].FinalPrice == minPrice
		out[i].IsFastest = out[i].Delivery.MinutesOr(SlowestSentinelMinutes) == minTime
	}

	slices.SortStableFunc(out, func(a, b domain.PlatformOffer) int {
		return cmp.Compare(a.FinalPrice, b.FinalPrice)
	})

	return out, Stats{
		BestPrice:   minPrice,
		FastestTime: minTime,
		Savings:     maxPrice - minPrice,
	}
}

// BuildItem normalizes and aggregates one raw item into a ComparisonItem.
func BuildItem(raw source.RawItem, cat domain.Category) domain.ComparisonItem {
	offers := make([]domain.PlatformOffer, 0, len(raw.Platforms))
	for _, p := range raw.Platforms {
		offers = append(offers, Normalize(p))
	}

	annotated, stats := Aggregate(offers)

	return domain.ComparisonItem{
		ID:          raw.ID,
		Term:        raw.Term,
		Name:        raw.Name,
		Image:       raw.Image,
		Category:    cat,
		Offers:      annotated,
		BestPrice:   stats.BestPrice,
		FastestTime: stats.FastestTime,
		Savings:     stats.Savings,
	}
}

// BuildItems converts a full raw response, preserving provider order. That
// order is the upstream relevance order the best-match sort relies on.
func BuildItems(raws []source.RawItem, cat domain.Category) []domain.ComparisonItem {
	items := make([]domain.ComparisonItem, 0, len(raws))
	for _, raw := range raws {
		items = append(items, BuildItem(raw, cat))
	}
	return items
}
