// Package spotify fills in missing preview links for catalog songs using the
// Spotify Web API search endpoint.
package spotify

import (
	"context"
	"time"

	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	// DefaultMaxLookups caps the number of searches per enrichment run.
	DefaultMaxLookups = 50

	// Default concurrency for batch lookups.
	DefaultConcurrency = 4
)

// Searcher is the subset of the Spotify API used for enrichment.
type Searcher interface {
	Search(ctx context.Context, query string, t spotify.SearchType, opts ...spotify.RequestOption) (*spotify.SearchResult, error)
}

// Client wraps the Spotify API client with enrichment helpers.
type Client struct {
	api         Searcher
	market      string
	maxLookups  int
	concurrency int
	cache       *previewCache
}

// Option configures a Client.
type Option func(*Client)

// WithMarket restricts searches to an ISO 3166-1 alpha-2 market.
func WithMarket(code string) Option {
	return func(c *Client) {
		c.market = code
	}
}

// WithMaxLookups sets the search cap per run.
func WithMaxLookups(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxLookups = n
		}
	}
}

// WithConcurrency sets the number of concurrent searches.
func WithConcurrency(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// WithCacheTTL sets how long lookup results are reused.
func WithCacheTTL(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.cache.ttl = d
		}
	}
}

// New creates a Client around an already authenticated searcher.
func New(api Searcher, opts ...Option) *Client {
	c := &Client{
		api:         api,
		maxLookups:  DefaultMaxLookups,
		concurrency: DefaultConcurrency,
		cache:       newPreviewCache(DefaultCacheTTL),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewWithCredentials creates a Client using the client credentials flow.
// No user login is involved; tokens are fetched lazily on first search.
func NewWithCredentials(ctx context.Context, clientID, clientSecret string, opts ...Option) *Client {
	cfg := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     spotifyauth.TokenURL,
	}
	return New(spotify.New(cfg.Client(ctx)), opts...)
}
