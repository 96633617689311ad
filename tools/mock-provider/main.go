// Package main implements a mock search provider for local development.
// It serves canned offers from JSON fixtures behind the same wire format as
// the hosted per-category search functions, so the server can be pointed at
// it without real provider credentials.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"
)

type fixtureItem struct {
	ID        string            `json:"id"`
	Term      string            `json:"term"`
	Name      string            `json:"name"`
	Image     string            `json:"image,omitempty"`
	Platforms []json.RawMessage `json:"platforms"`
}

type searchRequest struct {
	Query string `json:"query"`
}

func main() {
	port := flag.Int("port", 8089, "port to listen on")
	fixtureDir := flag.String("fixtures", "tools/mock-provider/testdata", "directory with <category>.json fixture files")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	mux := http.NewServeMux()
	for _, category := range []string{"food", "shop", "ride"} {
		items, err := loadFixture(*fixtureDir, category)
		if err != nil {
			logger.Error("failed to load fixture", "category", category, "error", err)
			os.Exit(1)
		}
		logger.Info("loaded fixture", "category", category, "items", len(items))
		mux.HandleFunc("POST /"+category, searchHandler(logger, category, items))
	}

	addr := fmt.Sprintf(":%d", *port)
	logger.Info("starting mock provider", "addr", addr)

	srv := &http.Server{
		Addr:         addr,
		Handler:      requestLogger(logger, mux),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func loadFixture(dir, category string) ([]fixtureItem, error) {
	path := dir + "/" + category + ".json"
	data, err := os.ReadFile(path) //nolint:gosec // fixture path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading fixture: %w", err)
	}
	var items []fixtureItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parsing fixture: %w", err)
	}
	return items, nil
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("request", "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

func searchHandler(logger *slog.Logger, category string, items []fixtureItem) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// A bearer token must be present; its value is not verified.
		if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
			logger.Warn("search request missing bearer token", "category", category)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
			json.NewEncoder(w).Encode(map[string]string{"error": "missing bearer token"})
			return
		}

		var req searchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
			json.NewEncoder(w).Encode(map[string]string{"error": "invalid request body"})
			return
		}

		matched := filterItems(items, req.Query)
		logger.Info("search", "category", category, "query", req.Query, "matched", len(matched))

		w.Header().Set("Content-Type", "application/json")
		//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
		json.NewEncoder(w).Encode(matched)
	}
}

// filterItems keeps items whose name or term contains every token of the
// query, mirroring the hosted provider's matching.
func filterItems(items []fixtureItem, query string) []fixtureItem {
	tokens := strings.Fields(strings.ToLower(query))
	if len(tokens) == 0 {
		return []fixtureItem{}
	}

	matched := []fixtureItem{}
	for _, item := range items {
		haystack := strings.ToLower(item.Name + " " + item.Term)
		all := true
		for _, tok := range tokens {
			if !strings.Contains(haystack, tok) {
				all = false
				break
			}
		}
		if all {
			matched = append(matched, item)
		}
	}
	return matched
}
