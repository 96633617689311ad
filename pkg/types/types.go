// Package domain defines the core business types for comparekart.
package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Category identifies one of the supported search verticals.
type Category string

// Category constants. The set is closed: every dispatch path maps a
// category to a provider explicitly, so an unrecognized value is rejected
// at parse time instead of silently matching nothing.
const (
	CategoryFood Category = "food"
	CategoryShop Category = "shop"
	CategoryRide Category = "ride"
)

// Categories returns all supported categories in display order.
func Categories() []Category {
	return []Category{CategoryFood, CategoryShop, CategoryRide}
}

// ParseCategory validates a raw category string.
func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case CategoryFood, CategoryShop, CategoryRide:
		return Category(s), nil
	default:
		return "", fmt.Errorf("unknown category %q", s)
	}
}

// SourceKind records which offer source produced a result set.
type SourceKind string

// Source kind constants.
const (
	SourceRemote    SourceKind = "remote"
	SourceSynthetic SourceKind = "synthetic"
)

// DeliveryEstimate holds a platform's delivery estimate, which arrives
// either as a duration in minutes or as an opaque label such as "Tomorrow".
// The two forms are kept distinct: coercing a label to a number would
// corrupt fastest-time ranking.
type DeliveryEstimate struct {
	Minutes float64
	Label   string
	Numeric bool
}

// MinutesEstimate returns a numeric delivery estimate.
func MinutesEstimate(m float64) DeliveryEstimate {
	return DeliveryEstimate{Minutes: m, Numeric: true}
}

// LabelEstimate returns an opaque, non-numeric delivery estimate.
func LabelEstimate(label string) DeliveryEstimate {
	return DeliveryEstimate{Label: label}
}

// MinutesOr returns the numeric minutes, or sentinel for non-numeric
// estimates so that labels sort as slowest without per-call special cases.
func (d DeliveryEstimate) MinutesOr(sentinel float64) float64 {
	if d.Numeric {
		return d.Minutes
	}
	return sentinel
}

// String renders the estimate for display.
func (d DeliveryEstimate) String() string {
	if d.Numeric {
		return strconv.FormatFloat(d.Minutes, 'f', -1, 64) + " min"
	}
	return d.Label
}

// MarshalJSON emits the wire duality: a JSON number for numeric estimates,
// a JSON string for labels.
func (d DeliveryEstimate) MarshalJSON() ([]byte, error) {
	if d.Numeric {
		return json.Marshal(d.Minutes)
	}
	return json.Marshal(d.Label)
}

// UnmarshalJSON accepts either a JSON number or a string.
func (d *DeliveryEstimate) UnmarshalJSON(data []byte) error {
	var m float64
	if err := json.Unmarshal(data, &m); err == nil {
		*d = MinutesEstimate(m)
		return nil
	}
	var label string
	if err := json.Unmarshal(data, &label); err != nil {
		return fmt.Errorf("delivery estimate must be number or string: %w", err)
	}
	*d = LabelEstimate(label)
	return nil
}

// PlatformOffer is one platform's priced proposal for an item, with all
// numeric fields coerced to definite values. Offers are created fresh each
// query cycle and are immutable once the aggregator has annotated them.
type PlatformOffer struct {
	Platform       string           `json:"name"`
	Price          float64          `json:"price"`
	DeliveryFee    float64          `json:"delivery_fee"`
	Taxes          float64          `json:"taxes"`
	DiscountAmount float64          `json:"discount_amount"`
	Rating         float64          `json:"rating"`
	Delivery       DeliveryEstimate `json:"delivery_time"`
	DiscountCode   string           `json:"discount_code,omitempty"`
	Link           string           `json:"link,omitempty"`

	// FinalPrice = Price + DeliveryFee + Taxes - DiscountAmount,
	// clamped at zero.
	FinalPrice float64 `json:"final_price"`

	// Set by the aggregator. Ties are inclusive: every offer at the
	// minimum is tagged, not just the first.
	IsCheapest bool `json:"is_cheapest"`
	IsFastest  bool `json:"is_fastest"`
}

// ComparisonItem is a single searchable entity aggregating offers from
// different platforms. Offers are sorted ascending by FinalPrice (stable
// for ties); downstream consumers rely on that ordering.
type ComparisonItem struct {
	ID       string          `json:"id"`
	Term     string          `json:"term"`
	Name     string          `json:"name"`
	Image    string          `json:"image,omitempty"`
	Category Category        `json:"category"`
	Offers   []PlatformOffer `json:"platforms"`

	// BestPrice and FastestTime are 0 when the item has no offers; that
	// is a no-data sentinel, not an actual free or instant offer.
	BestPrice   float64 `json:"best_price"`
	FastestTime float64 `json:"fastest_time"`
	Savings     float64 `json:"savings"`
}

// ResultSet is the published output of one query cycle. It replaces the
// previous result set wholesale; there is no partial update.
type ResultSet struct {
	Query    string           `json:"query"`
	Category Category         `json:"category"`
	Items    []ComparisonItem `json:"items"`
	Source   SourceKind       `json:"source,omitempty"`
	Loading  bool             `json:"loading"`
}
