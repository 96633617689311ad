package engine_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkhattar/comparekart/internal/engine"
	"github.com/nkhattar/comparekart/internal/source"
	"github.com/nkhattar/comparekart/pkg/logger"
	domain "github.com/nkhattar/comparekart/pkg/types"
)

// fakeSource is a scriptable source.Source that records its calls.
type fakeSource struct {
	mu    sync.Mutex
	items []source.RawItem
	err   error
	calls []source.Query

	// gate, when set, blocks Search until closed or the context ends.
	gate chan struct{}
}

func (f *fakeSource) Search(ctx context.Context, q source.Query) ([]source.RawItem, error) {
	f.mu.Lock()
	f.calls = append(f.calls, q)
	gate := f.gate
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	return f.items, f.err
}

func (f *fakeSource) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// fakeProvider is a fakeSource restricted to a set of categories.
type fakeProvider struct {
	fakeSource
	categories map[domain.Category]bool
}

func (f *fakeProvider) Configured(cat domain.Category) bool {
	return f.categories[cat]
}

func rawItems(ids ...string) []source.RawItem {
	out := make([]source.RawItem, 0, len(ids))
	for _, id := range ids {
		out = append(out, source.RawItem{
			ID:   id,
			Name: id,
			Platforms: []source.RawOffer{
				{Name: "Zomato", Price: 300.0, DeliveryTime: 25.0},
			},
		})
	}
	return out
}

func TestEngine_EmptyTermSkipsFetch(t *testing.T) {
	t.Parallel()

	fallback := &fakeSource{items: rawItems("food-1")}
	eng := engine.New(fallback, engine.WithLogger(logger.Nop()))

	for _, term := range []string{"", "   ", "\t"} {
		items, kind, err := eng.Compare(context.Background(), term, domain.CategoryFood)
		require.NoError(t, err)
		assert.NotNil(t, items)
		assert.Empty(t, items)
		assert.Empty(t, kind)
	}
	assert.Zero(t, fallback.callCount())
}

func TestEngine_SyntheticWithoutRemote(t *testing.T) {
	t.Parallel()

	fallback := &fakeSource{items: rawItems("food-1", "food-2")}
	eng := engine.New(fallback, engine.WithLogger(logger.Nop()))

	items, kind, err := eng.Compare(context.Background(), "pizza", domain.CategoryFood)
	require.NoError(t, err)

	assert.Equal(t, domain.SourceSynthetic, kind)
	require.Len(t, items, 2)
	assert.Equal(t, "food-1", items[0].ID)
	assert.Equal(t, 300.0, items[0].BestPrice)
}

func TestEngine_RemoteSuccess(t *testing.T) {
	t.Parallel()

	remote := &fakeProvider{
		fakeSource: fakeSource{items: rawItems("remote-1")},
		categories: map[domain.Category]bool{domain.CategoryFood: true},
	}
	fallback := &fakeSource{items: rawItems("synthetic-1")}
	eng := engine.New(fallback,
		engine.WithRemote(remote),
		engine.WithLogger(logger.Nop()),
	)

	items, kind, err := eng.Compare(context.Background(), "pizza", domain.CategoryFood)
	require.NoError(t, err)

	assert.Equal(t, domain.SourceRemote, kind)
	require.Len(t, items, 1)
	assert.Equal(t, "remote-1", items[0].ID)
	assert.Zero(t, fallback.callCount())
}

func TestEngine_FallsBackOnRemoteError(t *testing.T) {
	t.Parallel()

	remote := &fakeProvider{
		fakeSource: fakeSource{err: errors.New("upstream 503")},
		categories: map[domain.Category]bool{domain.CategoryFood: true},
	}
	fallback := &fakeSource{items: rawItems("synthetic-1")}
	eng := engine.New(fallback,
		engine.WithRemote(remote),
		engine.WithLogger(logger.Nop()),
	)

	items, kind, err := eng.Compare(context.Background(), "pizza", domain.CategoryFood)
	require.NoError(t, err)

	assert.Equal(t, domain.SourceSynthetic, kind)
	require.Len(t, items, 1)
	assert.Equal(t, "synthetic-1", items[0].ID)

	// One remote attempt per cycle, never more.
	assert.Equal(t, 1, remote.callCount())
}

func TestEngine_FallsBackOnEmptyRemoteResponse(t *testing.T) {
	t.Parallel()

	remote := &fakeProvider{
		fakeSource: fakeSource{items: []source.RawItem{}},
		categories: map[domain.Category]bool{domain.CategoryFood: true},
	}
	fallback := &fakeSource{items: rawItems("synthetic-1")}
	eng := engine.New(fallback,
		engine.WithRemote(remote),
		engine.WithLogger(logger.Nop()),
	)

	items, kind, err := eng.Compare(context.Background(), "pizza", domain.CategoryFood)
	require.NoError(t, err)

	assert.Equal(t, domain.SourceSynthetic, kind)
	require.Len(t, items, 1)
}

func TestEngine_UnconfiguredCategorySkipsRemote(t *testing.T) {
	t.Parallel()

	remote := &fakeProvider{
		fakeSource: fakeSource{items: rawItems("remote-1")},
		categories: map[domain.Category]bool{domain.CategoryFood: true},
	}
	fallback := &fakeSource{items: rawItems("synthetic-1")}
	eng := engine.New(fallback,
		engine.WithRemote(remote),
		engine.WithLogger(logger.Nop()),
	)

	_, kind, err := eng.Compare(context.Background(), "airport", domain.CategoryRide)
	require.NoError(t, err)

	assert.Equal(t, domain.SourceSynthetic, kind)
	assert.Zero(t, remote.callCount())
}

func TestEngine_FallbackErrorSurfaces(t *testing.T) {
	t.Parallel()

	fallback := &fakeSource{err: context.Canceled}
	eng := engine.New(fallback, engine.WithLogger(logger.Nop()))

	_, _, err := eng.Compare(context.Background(), "pizza", domain.CategoryFood)
	require.Error(t, err)
}
