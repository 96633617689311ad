// Package handlers implements HTTP handlers for the comparekart API.
package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/nkhattar/comparekart/internal/compare"
	domain "github.com/nkhattar/comparekart/pkg/types"
)

// Comparer runs one comparison query cycle.
type Comparer interface {
	Compare(ctx context.Context, term string, cat domain.Category) ([]domain.ComparisonItem, domain.SourceKind, error)
}

// CompareHandler handles one-shot comparison requests.
type CompareHandler struct {
	engine Comparer
}

// NewCompareHandler creates a new CompareHandler.
func NewCompareHandler(engine Comparer) *CompareHandler {
	return &CompareHandler{engine: engine}
}

// CompareInput is the request body for the compare endpoint.
type CompareInput struct {
	Body struct {
		Query    string   `json:"query" minLength:"1" doc:"Free-text search term" example:"paneer pizza"`
		Category string   `json:"category" enum:"food,shop,ride" doc:"Search vertical"`
		Sort     string   `json:"sort,omitempty" enum:"best_match,cheapest,fastest" doc:"Sort mode (default best_match)"`
		MinPrice *float64 `json:"min_price,omitempty" doc:"Inclusive lower bound on item best price"`
		MaxPrice *float64 `json:"max_price,omitempty" doc:"Inclusive upper bound on item best price"`
		Stores   []string `json:"stores,omitempty" doc:"Platform names to keep; empty keeps all"`
	}
}

// CompareOutput is the response body for the compare endpoint.
type CompareOutput struct {
	Body struct {
		Items  []domain.ComparisonItem `json:"items" doc:"Ranked comparison items"`
		Count  int                     `json:"count" doc:"Number of items after filtering"`
		Source domain.SourceKind       `json:"source" doc:"Which offer source served this cycle"`
	}
}

// Compare runs a full query cycle and ranks the result.
func (h *CompareHandler) Compare(ctx context.Context, input *CompareInput) (*CompareOutput, error) {
	cat, err := domain.ParseCategory(input.Body.Category)
	if err != nil {
		return nil, huma.Error422UnprocessableEntity(err.Error())
	}
	mode, err := compare.ParseSortMode(input.Body.Sort)
	if err != nil {
		return nil, huma.Error422UnprocessableEntity(err.Error())
	}

	items, kind, err := h.engine.Compare(ctx, input.Body.Query, cat)
	if err != nil {
		return nil, huma.Error500InternalServerError("comparison cycle failed: " + err.Error())
	}

	ranked := compare.Rank(items, mode, compare.Filters{
		MinPrice: input.Body.MinPrice,
		MaxPrice: input.Body.MaxPrice,
		Stores:   input.Body.Stores,
	})

	out := &CompareOutput{}
	out.Body.Items = ranked
	out.Body.Count = len(ranked)
	out.Body.Source = kind
	return out, nil
}

// RegisterCompareRoutes registers the compare endpoint with the Huma API.
func RegisterCompareRoutes(api huma.API, h *CompareHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "compare",
		Method:      http.MethodPost,
		Path:        "/api/v1/compare",
		Summary:     "Compare offers across platforms",
		Description: "Runs one fetch-normalize-aggregate cycle for the query and returns ranked, filtered comparison items.",
		Tags:        []string{"compare"},
		Errors:      []int{http.StatusUnprocessableEntity, http.StatusInternalServerError},
	}, h.Compare)
}
