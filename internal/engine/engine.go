// Package engine owns the query lifecycle: source selection with synthetic
// fallback, the fetch-normalize-aggregate cycle, and debounced sessions
// that publish result sets with last-writer-wins supersession.
package engine

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/nkhattar/comparekart/internal/compare"
	"github.com/nkhattar/comparekart/internal/metrics"
	"github.com/nkhattar/comparekart/internal/source"
	domain "github.com/nkhattar/comparekart/pkg/types"
)

// Engine runs comparison query cycles. It holds no per-query state, so a
// single Engine serves any number of concurrent sessions and handlers.
type Engine struct {
	remote   source.Provider
	fallback source.Source
	log      *slog.Logger
}

// Option configures the Engine.
type Option func(*Engine)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.log = l
	}
}

// WithRemote sets the remote provider. Without one, every cycle uses the
// fallback source directly.
func WithRemote(p source.Provider) Option {
	return func(e *Engine) {
		e.remote = p
	}
}

// New creates an Engine backed by the given fallback source.
func New(fallback source.Source, opts ...Option) *Engine {
	e := &Engine{
		fallback: fallback,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Compare runs one full query cycle: select a source, fetch raw items,
// normalize and aggregate them. An empty or whitespace term returns an
// empty result immediately with no source activity.
//
// Remote failures never surface: any error, empty, or malformed response
// falls back to the synthetic source for this cycle only, with no retry
// against the remote. The returned error is non-nil only when the context
// is canceled before the cycle can finish.
func (e *Engine) Compare(ctx context.Context, term string, cat domain.Category) ([]domain.ComparisonItem, domain.SourceKind, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return []domain.ComparisonItem{}, "", nil
	}

	start := time.Now()
	defer func() {
		metrics.CycleDuration.Observe(time.Since(start).Seconds())
	}()

	raws, kind, err := e.fetch(ctx, source.Query{Term: term, Category: cat})
	if err != nil {
		return nil, "", err
	}

	items := compare.BuildItems(raws, cat)

	metrics.CyclesTotal.WithLabelValues(string(kind)).Inc()
	e.log.Debug("cycle settled",
		"query", term,
		"category", cat,
		"items", len(items),
		"source", kind,
	)

	return items, kind, nil
}

// fetch picks the source for this cycle. The remote provider is attempted
// at most once, and only when it is configured for the category.
func (e *Engine) fetch(ctx context.Context, q source.Query) ([]source.RawItem, domain.SourceKind, error) {
	if e.remote != nil && e.remote.Configured(q.Category) {
		raws, err := e.remote.Search(ctx, q)
		switch {
		case err == nil && len(raws) > 0:
			return raws, domain.SourceRemote, nil
		case err != nil:
			e.log.Warn("remote provider failed, falling back",
				"category", q.Category,
				"error", err,
			)
		default:
			e.log.Debug("remote provider returned no items, falling back",
				"category", q.Category,
			)
		}
		metrics.FallbacksTotal.Inc()

		if ctx.Err() != nil {
			return nil, "", ctx.Err()
		}
	}

	raws, err := e.fallback.Search(ctx, q)
	if err != nil {
		return nil, "", err
	}
	return raws, domain.SourceSynthetic, nil
}
