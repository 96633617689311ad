package client

import (
	"context"

	domain "github.com/nkhattar/comparekart/pkg/types"
)

// CompareRequest mirrors the compare endpoint's request body.
type CompareRequest struct {
	Query    string   `json:"query"`
	Category string   `json:"category"`
	Sort     string   `json:"sort,omitempty"`
	MinPrice *float64 `json:"min_price,omitempty"`
	MaxPrice *float64 `json:"max_price,omitempty"`
	Stores   []string `json:"stores,omitempty"`
}

// CompareResponse mirrors the compare endpoint's response body.
type CompareResponse struct {
	Items  []domain.ComparisonItem `json:"items"`
	Count  int                     `json:"count"`
	Source domain.SourceKind       `json:"source"`
}

// Compare runs a one-shot comparison query.
func (c *Client) Compare(ctx context.Context, req CompareRequest) (*CompareResponse, error) {
	var resp CompareResponse
	if err := c.post(ctx, "/api/v1/compare", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
