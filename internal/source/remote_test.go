package source_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkhattar/comparekart/internal/source"
	domain "github.com/nkhattar/comparekart/pkg/types"
)

func TestRemoteClient_Search(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "paneer pizza", req["query"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id": "food-1", "term": "pizza", "name": "Paneer Pizza",
			 "platforms": [{"name": "Zomato", "price": "450", "deliveryFee": 30, "deliveryTime": 25}]}
		]`))
	}))
	defer srv.Close()

	c := source.NewRemoteClient(
		map[domain.Category]string{domain.CategoryFood: srv.URL},
		source.WithAPIKey("test-key"),
	)

	items, err := c.Search(context.Background(), source.Query{
		Term:     "paneer pizza",
		Category: domain.CategoryFood,
	})
	require.NoError(t, err)

	require.Len(t, items, 1)
	assert.Equal(t, "food-1", items[0].ID)
	require.Len(t, items[0].Platforms, 1)
	assert.Equal(t, "Zomato", items[0].Platforms[0].Name)
	assert.Equal(t, "450", items[0].Platforms[0].Price)
	assert.Equal(t, 30.0, items[0].Platforms[0].DeliveryFee)
}

func TestRemoteClient_Configured(t *testing.T) {
	t.Parallel()

	c := source.NewRemoteClient(map[domain.Category]string{
		domain.CategoryFood: "https://provider.example/food",
	})

	assert.True(t, c.Configured(domain.CategoryFood))
	assert.False(t, c.Configured(domain.CategoryShop))
	assert.False(t, c.Configured(domain.CategoryRide))
}

func TestRemoteClient_NotConfigured(t *testing.T) {
	t.Parallel()

	c := source.NewRemoteClient(map[domain.Category]string{})

	_, err := c.Search(context.Background(), source.Query{
		Term:     "pizza",
		Category: domain.CategoryFood,
	})
	require.ErrorIs(t, err, source.ErrNotConfigured)
}

func TestRemoteClient_Non200(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := source.NewRemoteClient(map[domain.Category]string{domain.CategoryFood: srv.URL})

	_, err := c.Search(context.Background(), source.Query{Term: "pizza", Category: domain.CategoryFood})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 429")
}

func TestRemoteClient_MalformedBody(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"not": "an array"}`))
	}))
	defer srv.Close()

	c := source.NewRemoteClient(map[domain.Category]string{domain.CategoryFood: srv.URL})

	_, err := c.Search(context.Background(), source.Query{Term: "pizza", Category: domain.CategoryFood})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding provider response")
}

func TestRemoteClient_QuotaExhausted(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := source.NewRemoteClient(
		map[domain.Category]string{domain.CategoryFood: srv.URL},
		source.WithRateLimiter(source.NewRateLimiter(100, 100, 1)),
	)

	q := source.Query{Term: "pizza", Category: domain.CategoryFood}

	_, err := c.Search(context.Background(), q)
	require.NoError(t, err)

	_, err = c.Search(context.Background(), q)
	require.ErrorIs(t, err, source.ErrQuotaExhausted)
}
