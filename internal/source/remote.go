package source

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/nkhattar/comparekart/internal/metrics"
	domain "github.com/nkhattar/comparekart/pkg/types"
)

// ErrNotConfigured is returned when no endpoint exists for a category.
var ErrNotConfigured = errors.New("no remote endpoint configured for category")

const defaultRemoteTimeout = 10 * time.Second

// RemoteClient implements Provider against per-category search endpoints.
// Each category maps to its own function URL; a category without an entry
// is simply not configured and callers fall back to the synthetic catalog.
type RemoteClient struct {
	endpoints map[domain.Category]string
	apiKey    string
	client    *http.Client
	limiter   *RateLimiter
}

// RemoteOption configures the RemoteClient.
type RemoteOption func(*RemoteClient)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(hc *http.Client) RemoteOption {
	return func(c *RemoteClient) {
		c.client = hc
	}
}

// WithAPIKey sets the bearer token sent with every request.
func WithAPIKey(key string) RemoteOption {
	return func(c *RemoteClient) {
		c.apiKey = key
	}
}

// WithRateLimiter injects a limiter covering per-second rate and daily
// quota. When set, every Search call goes through Wait first.
func WithRateLimiter(r *RateLimiter) RemoteOption {
	return func(c *RemoteClient) {
		c.limiter = r
	}
}

// NewRemoteClient creates a client for the given category endpoint map.
func NewRemoteClient(endpoints map[domain.Category]string, opts ...RemoteOption) *RemoteClient {
	c := &RemoteClient{
		endpoints: endpoints,
		client:    &http.Client{Timeout: defaultRemoteTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configured reports whether the category has a remote endpoint.
func (c *RemoteClient) Configured(cat domain.Category) bool {
	return c.endpoints[cat] != ""
}

type remoteRequest struct {
	Query string `json:"query"`
}

// Search posts the query to the category's endpoint and decodes the raw
// item payload. Any transport error, non-2xx status, or undecodable body
// is returned as an error; the caller treats all of them as
// fallback-triggering failures.
func (c *RemoteClient) Search(ctx context.Context, q Query) ([]RawItem, error) {
	endpoint := c.endpoints[q.Category]
	if endpoint == "" {
		return nil, fmt.Errorf("%w: %s", ErrNotConfigured, q.Category)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			if errors.Is(err, ErrQuotaExhausted) {
				metrics.ProviderQuotaHits.Inc()
			}
			return nil, fmt.Errorf("rate limit: %w", err)
		}
		metrics.ProviderCallsTotal.Inc()
		metrics.ProviderDailyUsage.Set(float64(c.limiter.Used()))
	}

	body, err := json.Marshal(remoteRequest{Query: q.Term})
	if err != nil {
		return nil, fmt.Errorf("marshaling search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		metrics.ProviderErrorsTotal.Inc()
		return nil, fmt.Errorf("calling provider: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.ProviderErrorsTotal.Inc()
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("provider returned HTTP %d: %s", resp.StatusCode, snippet)
	}

	var items []RawItem
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		metrics.ProviderErrorsTotal.Inc()
		return nil, fmt.Errorf("decoding provider response: %w", err)
	}

	return items, nil
}
