// Package source defines the raw offer boundary: the untrusted record
// shapes returned by search providers, the Source interface the engine
// consumes, a remote HTTP provider client, and a deterministic synthetic
// catalog used as fallback.
package source

import (
	"context"

	domain "github.com/nkhattar/comparekart/pkg/types"
)

// Query is a single search request against a provider.
type Query struct {
	Term     string
	Category domain.Category
}

// RawOffer is one platform's record as it arrives from a provider.
// Numeric fields are deliberately typed `any`: providers send numbers,
// string-encoded numbers, or nothing at all. Nothing downstream of the
// normalizer touches these loose values.
type RawOffer struct {
	Name           string `json:"name"`
	Price          any    `json:"price"`
	DeliveryFee    any    `json:"deliveryFee"`
	Taxes          any    `json:"taxes"`
	DiscountAmount any    `json:"discountAmount"`
	DeliveryTime   any    `json:"deliveryTime"`
	Rating         any    `json:"rating"`
	DiscountCode   string `json:"discountCode,omitempty"`
	Link           string `json:"link,omitempty"`
	Color          string `json:"color,omitempty"`
}

// RawItem is one searchable entity as it arrives from a provider.
type RawItem struct {
	ID        string     `json:"id"`
	Term      string     `json:"term"`
	Name      string     `json:"name"`
	Image     string     `json:"image"`
	Platforms []RawOffer `json:"platforms"`
}

// Source supplies raw items for a query.
type Source interface {
	Search(ctx context.Context, q Query) ([]RawItem, error)
}

// Provider is a Source whose availability varies per category. The engine
// consults Configured before attempting a remote fetch; an unconfigured
// category falls back immediately.
type Provider interface {
	Source
	Configured(c domain.Category) bool
}
