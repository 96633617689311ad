package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkhattar/comparekart/pkg/logger"
)

func fixtures() []fixtureItem {
	return []fixtureItem{
		{ID: "food-1", Term: "pizza", Name: "Paneer Pizza Supreme"},
		{ID: "food-2", Term: "biryani", Name: "Hyderabadi Biryani Special"},
	}
}

func TestFilterItems(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{name: "single token", query: "pizza", want: []string{"food-1"}},
		{name: "case insensitive", query: "PIZZA", want: []string{"food-1"}},
		{name: "all tokens required", query: "paneer biryani", want: []string{}},
		{name: "token from term field", query: "biryani", want: []string{"food-2"}},
		{name: "empty query matches nothing", query: "", want: []string{}},
		{name: "no match", query: "sushi", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := filterItems(fixtures(), tt.query)
			ids := make([]string, 0, len(got))
			for _, item := range got {
				ids = append(ids, item.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestSearchHandler(t *testing.T) {
	t.Parallel()

	h := searchHandler(logger.Nop(), "food", fixtures())

	t.Run("requires bearer token", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodPost, "/food", strings.NewReader(`{"query":"pizza"}`))
		rec := httptest.NewRecorder()
		h(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("rejects malformed body", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodPost, "/food", strings.NewReader(`nope`))
		req.Header.Set("Authorization", "Bearer test")
		rec := httptest.NewRecorder()
		h(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("returns matched items", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodPost, "/food", strings.NewReader(`{"query":"pizza"}`))
		req.Header.Set("Authorization", "Bearer test")
		rec := httptest.NewRecorder()
		h(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var got []fixtureItem
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		require.Len(t, got, 1)
		assert.Equal(t, "food-1", got[0].ID)
	})
}

func TestLoadFixture(t *testing.T) {
	t.Parallel()

	items, err := loadFixture("testdata", "food")
	require.NoError(t, err)
	require.NotEmpty(t, items)
	assert.Equal(t, "food-1", items[0].ID)

	_, err = loadFixture("testdata", "missing")
	require.Error(t, err)
}
