// Package compare implements the comparison core: normalizing untrusted
// raw offers into canonical PlatformOffers, aggregating per-item price and
// delivery statistics, and ranking/filtering result sets.
package compare

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/nkhattar/comparekart/internal/metrics"
	"github.com/nkhattar/comparekart/internal/source"
	domain "github.com/nkhattar/comparekart/pkg/types"
)

// SlowestSentinelMinutes stands in for non-numeric delivery estimates so
// they sort as slowest without special-casing every comparison.
const SlowestSentinelMinutes = 999

// Normalize converts one untrusted raw offer into a canonical
// PlatformOffer. It is a pure function with no error channel: malformed
// numeric fields degrade to zero instead of aborting the item.
//
// FinalPrice is clamped at zero. A discount larger than the offer total is
// provider noise; surfacing a negative price would be worse than showing
// free.
func Normalize(raw source.RawOffer) domain.PlatformOffer {
	price := coerceFloat(raw.Price)
	fee := coerceFloat(raw.DeliveryFee)
	taxes := coerceFloat(raw.Taxes)
	discount := coerceFloat(raw.DiscountAmount)

	final := price + fee + taxes - discount
	if final < 0 {
		final = 0
	}

	metrics.OffersNormalized.Inc()

	return domain.PlatformOffer{
		Platform:       raw.Name,
		Price:          price,
		DeliveryFee:    fee,
		Taxes:          taxes,
		DiscountAmount: discount,
		Rating:         coerceFloat(raw.Rating),
		Delivery:       parseDelivery(raw.DeliveryTime),
		DiscountCode:   raw.DiscountCode,
		Link:           raw.Link,
		FinalPrice:     final,
	}
}

// coerceFloat converts a loose provider value to a float64, returning 0
// for anything absent, non-numeric, or non-finite.
func coerceFloat(v any) float64 {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// parseDelivery preserves the raw duality: numeric values (including
// numeric strings like "25") become minute estimates, everything else
// stays an opaque label. An absent value becomes an empty label, which
// downstream treats as slowest.
func parseDelivery(v any) domain.DeliveryEstimate {
	switch n := v.(type) {
	case float64:
		return domain.MinutesEstimate(n)
	case float32:
		return domain.MinutesEstimate(float64(n))
	case int:
		return domain.MinutesEstimate(float64(n))
	case int64:
		return domain.MinutesEstimate(float64(n))
	case json.Number:
		if parsed, err := n.Float64(); err == nil {
			return domain.MinutesEstimate(parsed)
		}
		return domain.LabelEstimate(n.String())
	case string:
		trimmed := strings.TrimSpace(n)
		if parsed, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return domain.MinutesEstimate(parsed)
		}
		return domain.LabelEstimate(trimmed)
	default:
		return domain.LabelEstimate("")
	}
}
