package ebay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"cardhound/internal/config"
	"cardhound/internal/services"
)

// Searcher is the search operation the lookup engine depends on.
type Searcher interface {
	Search(ctx context.Context, query string) (*SearchResponse, error)
}

// Client provides access to the eBay Browse API for item searches.
type Client struct {
	browseURL     string
	marketplaceID string
	categoryID    string
	limit         int
	tokens        *TokenManager
	httpClient    HTTPDoer
}

var _ Searcher = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client HTTPDoer) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// New creates a Browse API client.
func New(cfg config.Ebay, tokens *TokenManager, opts ...Option) (*Client, error) {
	if tokens == nil {
		return nil, errors.New("token manager required")
	}
	browseURL := strings.TrimRight(strings.TrimSpace(cfg.BrowseURL), "/")
	if browseURL == "" {
		return nil, errors.New("browse url required")
	}
	client := &Client{
		browseURL:     browseURL,
		marketplaceID: cfg.MarketplaceID,
		categoryID:    cfg.CategoryID,
		limit:         cfg.SearchLimit,
		tokens:        tokens,
		httpClient:    &http.Client{Timeout: cfg.Timeout()},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Search performs an item summary search for the supplied query string.
func (c *Client) Search(ctx context.Context, query string) (*SearchResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, services.Wrap(services.ErrValidation, "ebay", "search", "query must not be empty", nil)
	}

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	endpoint, err := url.Parse(c.browseURL + "/item_summary/search")
	if err != nil {
		return nil, fmt.Errorf("parse browse url: %w", err)
	}
	params := url.Values{}
	params.Set("q", query)
	params.Set("category_ids", c.categoryID)
	params.Set("limit", strconv.Itoa(c.limit))
	params.Set("filter", "buyingOptions:{FIXED_PRICE},itemLocationCountry:US")
	params.Set("sort", "price")
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-EBAY-C-MARKETPLACE-ID", c.marketplaceID)

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		if isTimeout(err) {
			return nil, services.Wrap(services.ErrTimeout, "ebay", "search",
				fmt.Sprintf("browse request timed out (latency=%v)", latency), err)
		}
		return nil, services.Wrap(services.ErrNetwork, "ebay", "search",
			fmt.Sprintf("browse request failed (latency=%v)", latency), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, services.Wrap(services.ErrRateLimited, "ebay", "search", "browse endpoint returned 429", nil)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, services.Wrap(services.ErrNetwork, "ebay", "search",
			fmt.Sprintf("browse search returned %d (latency=%v)", resp.StatusCode, latency), nil)
	}

	var payload SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, services.Wrap(services.ErrNetwork, "ebay", "search", "decode browse response", err)
	}
	return &payload, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var timeoutErr interface{ Timeout() bool }
	if errors.As(err, &timeoutErr) {
		return timeoutErr.Timeout()
	}
	return false
}
