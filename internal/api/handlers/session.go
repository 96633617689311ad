package handlers

import (
	"context"
	"net/http"
	"sync"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/nkhattar/comparekart/internal/compare"
	"github.com/nkhattar/comparekart/internal/engine"
	domain "github.com/nkhattar/comparekart/pkg/types"
)

// SessionHandler exposes the debounced query lifecycle over HTTP. Each
// session owns its published result set; clients set the query and poll
// the snapshot, mirroring the loading/settled states of an interactive
// search box.
type SessionHandler struct {
	engine *engine.Engine
	opts   []engine.SessionOption

	mu       sync.Mutex
	sessions map[string]*engine.Session
}

// NewSessionHandler creates a SessionHandler. opts apply to every session
// it creates (debounce tuning, loggers).
func NewSessionHandler(eng *engine.Engine, opts ...engine.SessionOption) *SessionHandler {
	return &SessionHandler{
		engine:   eng,
		opts:     opts,
		sessions: make(map[string]*engine.Session),
	}
}

func (h *SessionHandler) lookup(id string) *engine.Session {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.sessions[id]
}

// CreateSessionOutput is the response for session creation.
type CreateSessionOutput struct {
	Body struct {
		ID string `json:"id" doc:"Session identifier"`
	}
}

// CreateSession opens a new idle session.
func (h *SessionHandler) CreateSession(_ context.Context, _ *struct{}) (*CreateSessionOutput, error) {
	id := uuid.NewString()

	h.mu.Lock()
	h.sessions[id] = engine.NewSession(h.engine, h.opts...)
	h.mu.Unlock()

	out := &CreateSessionOutput{}
	out.Body.ID = id
	return out, nil
}

// SetQueryInput is the request for changing a session's query. An empty
// query transitions the session to idle and clears results synchronously.
type SetQueryInput struct {
	ID   string `path:"id" doc:"Session identifier"`
	Body struct {
		Query    string `json:"query" doc:"Free-text search term; empty clears the session"`
		Category string `json:"category" enum:"food,shop,ride" doc:"Search vertical"`
	}
}

// SetQuery updates the session's active query.
func (h *SessionHandler) SetQuery(_ context.Context, input *SetQueryInput) (*struct{}, error) {
	s := h.lookup(input.ID)
	if s == nil {
		return nil, huma.Error404NotFound("no such session")
	}
	cat, err := domain.ParseCategory(input.Body.Category)
	if err != nil {
		return nil, huma.Error422UnprocessableEntity(err.Error())
	}

	s.SetQuery(input.Body.Query, cat)
	return nil, nil
}

// ResultsInput selects and orders a session's published snapshot.
type ResultsInput struct {
	ID       string   `path:"id" doc:"Session identifier"`
	Sort     string   `query:"sort" enum:"best_match,cheapest,fastest" required:"false" doc:"Sort mode (default best_match)"`
	MinPrice *float64 `query:"min_price" required:"false" doc:"Inclusive lower bound on item best price"`
	MaxPrice *float64 `query:"max_price" required:"false" doc:"Inclusive upper bound on item best price"`
	Stores   []string `query:"stores" required:"false" doc:"Platform names to keep; empty keeps all"`
}

// ResultsOutput is the session snapshot response.
type ResultsOutput struct {
	Body domain.ResultSet
}

// Results returns the session's published result set, ranked and filtered.
// The loading flag reflects whether a cycle is pending or in flight.
func (h *SessionHandler) Results(_ context.Context, input *ResultsInput) (*ResultsOutput, error) {
	s := h.lookup(input.ID)
	if s == nil {
		return nil, huma.Error404NotFound("no such session")
	}
	mode, err := compare.ParseSortMode(input.Sort)
	if err != nil {
		return nil, huma.Error422UnprocessableEntity(err.Error())
	}

	snap := s.Snapshot()
	snap.Items = compare.Rank(snap.Items, mode, compare.Filters{
		MinPrice: input.MinPrice,
		MaxPrice: input.MaxPrice,
		Stores:   input.Stores,
	})

	return &ResultsOutput{Body: snap}, nil
}

// RefreshActive re-runs every open session's active query. Implements
// engine.RefreshTarget so a Refresher can keep long-lived sessions fresh.
func (h *SessionHandler) RefreshActive() int {
	h.mu.Lock()
	open := make([]*engine.Session, 0, len(h.sessions))
	for _, s := range h.sessions {
		open = append(open, s)
	}
	h.mu.Unlock()

	var n int
	for _, s := range open {
		n += s.RefreshActive()
	}
	return n
}

// DeleteSessionInput identifies the session to close.
type DeleteSessionInput struct {
	ID string `path:"id" doc:"Session identifier"`
}

// DeleteSession closes and removes a session.
func (h *SessionHandler) DeleteSession(_ context.Context, input *DeleteSessionInput) (*struct{}, error) {
	h.mu.Lock()
	s, ok := h.sessions[input.ID]
	delete(h.sessions, input.ID)
	h.mu.Unlock()

	if !ok {
		return nil, huma.Error404NotFound("no such session")
	}
	s.Close()
	return nil, nil
}

// RegisterSessionRoutes registers session endpoints with the Huma API.
func RegisterSessionRoutes(api huma.API, h *SessionHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "create-session",
		Method:      http.MethodPost,
		Path:        "/api/v1/sessions",
		Summary:     "Open a search session",
		Tags:        []string{"sessions"},
	}, h.CreateSession)

	huma.Register(api, huma.Operation{
		OperationID: "set-session-query",
		Method:      http.MethodPut,
		Path:        "/api/v1/sessions/{id}/query",
		Summary:     "Set the session's active query",
		Description: "Debounced: rapid changes collapse into one cycle. An empty query clears results immediately.",
		Tags:        []string{"sessions"},
		Errors:      []int{http.StatusNotFound, http.StatusUnprocessableEntity},
	}, h.SetQuery)

	huma.Register(api, huma.Operation{
		OperationID: "session-results",
		Method:      http.MethodGet,
		Path:        "/api/v1/sessions/{id}/results",
		Summary:     "Read the session's published result set",
		Tags:        []string{"sessions"},
		Errors:      []int{http.StatusNotFound, http.StatusUnprocessableEntity},
	}, h.Results)

	huma.Register(api, huma.Operation{
		OperationID: "delete-session",
		Method:      http.MethodDelete,
		Path:        "/api/v1/sessions/{id}",
		Summary:     "Close a search session",
		Tags:        []string{"sessions"},
		Errors:      []int{http.StatusNotFound},
	}, h.DeleteSession)
}
