package engine

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/nkhattar/comparekart/internal/metrics"
	domain "github.com/nkhattar/comparekart/pkg/types"
)

const defaultDebounce = 700 * time.Millisecond

// Session owns the published result set for one logical search session.
// Query changes are debounced, each dispatch carries a monotonically
// increasing generation, and only the newest generation may publish:
// a slower, earlier cycle can never overwrite a later one regardless of
// completion order. Superseded cycles get their context canceled as an
// optimization, but correctness rests on the generation check at publish
// time.
type Session struct {
	eng      *Engine
	log      *slog.Logger
	debounce time.Duration

	mu        sync.Mutex
	gen       uint64
	term      string
	category  domain.Category
	timer     *time.Timer
	cancel    context.CancelFunc
	published domain.ResultSet
	closed    bool
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithDebounce sets the quiet period collapsing rapid query changes into
// a single dispatch. Zero dispatches immediately.
func WithDebounce(d time.Duration) SessionOption {
	return func(s *Session) {
		s.debounce = d
	}
}

// WithSessionLogger sets a custom logger.
func WithSessionLogger(l *slog.Logger) SessionOption {
	return func(s *Session) {
		s.log = l
	}
}

// NewSession creates an idle session on eng.
func NewSession(eng *Engine, opts ...SessionOption) *Session {
	s := &Session{
		eng:      eng,
		log:      eng.log,
		debounce: defaultDebounce,
		published: domain.ResultSet{
			Items: []domain.ComparisonItem{},
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetQuery changes the session's active (term, category) pair. Any pending
// or in-flight cycle is superseded. An empty term clears the published
// result set synchronously with no fetch; a non-empty term marks the
// session loading and schedules a cycle after the debounce period.
func (s *Session) SetQuery(term string, cat domain.Category) {
	term = strings.TrimSpace(term)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	s.supersedeLocked()
	s.gen++
	s.term = term
	s.category = cat

	if term == "" {
		s.published = domain.ResultSet{
			Category: cat,
			Items:    []domain.ComparisonItem{},
		}
		return
	}

	s.published.Loading = true
	s.scheduleLocked(s.gen, term, cat, s.debounce)
}

// Refresh re-runs the current query immediately, bypassing the debounce.
// It is a no-op for an idle or closed session.
func (s *Session) Refresh() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.term == "" {
		return
	}

	s.supersedeLocked()
	s.gen++
	s.published.Loading = true
	s.scheduleLocked(s.gen, s.term, s.category, 0)
}

// Snapshot returns the current published state. The items slice is shared;
// consumers are read-only by contract.
func (s *Session) Snapshot() domain.ResultSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.published
}

// Close supersedes any in-flight cycle and makes further SetQuery calls
// no-ops.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.supersedeLocked()
	s.gen++
	s.closed = true
}

func (s *Session) scheduleLocked(gen uint64, term string, cat domain.Category, after time.Duration) {
	if after <= 0 {
		go s.dispatch(gen, term, cat)
		return
	}
	s.timer = time.AfterFunc(after, func() {
		s.dispatch(gen, term, cat)
	})
}

// supersedeLocked stops the pending debounce timer and cancels the
// in-flight cycle, if any. Callers must hold s.mu.
func (s *Session) supersedeLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *Session) dispatch(gen uint64, term string, cat domain.Category) {
	ctx, cancel := context.WithCancel(context.Background())

	s.mu.Lock()
	if gen != s.gen || s.closed {
		s.mu.Unlock()
		cancel()
		return
	}
	s.timer = nil
	s.cancel = cancel
	s.mu.Unlock()

	items, kind, err := s.eng.Compare(ctx, term, cat)
	cancel()

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen || s.closed {
		metrics.SupersededTotal.Inc()
		s.log.Debug("discarding superseded cycle", "query", term, "generation", gen)
		return
	}
	s.cancel = nil

	if err != nil {
		// Canceled mid-cycle without being superseded (session base
		// context semantics make this rare); publish an empty settled
		// set rather than stale loading state.
		items = []domain.ComparisonItem{}
		kind = ""
	}

	s.published = domain.ResultSet{
		Query:    term,
		Category: cat,
		Items:    items,
		Source:   kind,
		Loading:  false,
	}
}
