package compare

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"

	domain "github.com/nkhattar/comparekart/pkg/types"
)

// SortMode selects the display ordering of a result set.
type SortMode string

// Sort mode constants.
const (
	// SortBestMatch preserves the order handed down by the query cycle,
	// which is the upstream relevance order.
	SortBestMatch SortMode = "best_match"
	SortCheapest  SortMode = "cheapest"
	SortFastest   SortMode = "fastest"
)

// ParseSortMode validates a raw sort mode string. Empty input means
// best-match.
func ParseSortMode(s string) (SortMode, error) {
	switch SortMode(s) {
	case "":
		return SortBestMatch, nil
	case SortBestMatch, SortCheapest, SortFastest:
		return SortMode(s), nil
	default:
		return "", fmt.Errorf("unknown sort mode %q", s)
	}
}

// Filters constrains a result set before sorting.
type Filters struct {
	// MinPrice and MaxPrice bound the item's BestPrice, inclusive.
	// A nil bound is open.
	MinPrice *float64
	MaxPrice *float64

	// Stores keeps items with at least one offer from any named platform
	// (inclusive OR, case-insensitive). Empty means no store filter.
	Stores []string
}

// Rank filters items and sorts them by mode, returning a fresh slice. All
// sorts are stable, so output order is fully deterministic for a given
// input and settings.
//
// For the cheapest and fastest modes, items with no offers order last:
// their zero-valued stats are no-data sentinels, not real prices or times.
// Under fastest, items whose every delivery estimate is non-numeric carry
// the slowest sentinel and therefore also order after any item with a real
// numeric estimate.
func Rank(items []domain.ComparisonItem, mode SortMode, f Filters) []domain.ComparisonItem {
	out := make([]domain.ComparisonItem, 0, len(items))
	for _, item := range items {
		if f.matches(&item) {
			out = append(out, item)
		}
	}

	switch mode {
	case SortCheapest:
		slices.SortStableFunc(out, func(a, b domain.ComparisonItem) int {
			return cmp.Compare(priceKey(&a), priceKey(&b))
		})
	case SortFastest:
		slices.SortStableFunc(out, func(a, b domain.ComparisonItem) int {
			return cmp.Compare(timeKey(&a), timeKey(&b))
		})
	default:
		// Best match: upstream order as-is.
	}

	return out
}

func priceKey(item *domain.ComparisonItem) float64 {
	if len(item.Offers) == 0 {
		return math.Inf(1)
	}
	return item.BestPrice
}

func timeKey(item *domain.ComparisonItem) float64 {
	if len(item.Offers) == 0 {
		return math.Inf(1)
	}
	return item.FastestTime
}

func (f *Filters) matches(item *domain.ComparisonItem) bool {
	if f.MinPrice != nil && item.BestPrice < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && item.BestPrice > *f.MaxPrice {
		return false
	}
	return f.matchesStores(item)
}

func (f *Filters) matchesStores(item *domain.ComparisonItem) bool {
	if len(f.Stores) == 0 {
		return true
	}
	for _, offer := range item.Offers {
		for _, store := range f.Stores {
			if strings.EqualFold(offer.Platform, store) {
				return true
			}
		}
	}
	return false
}
