package api

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/rickgao/stream-leaderboard/internal/common/clock"
)

// Client fetches snapshots from a single resource URL.
type Client struct {
	resourceURL string
	httpClient  *http.Client
	clock       clock.Clock
	logger      *slog.Logger

	stampMu   sync.Mutex
	lastStamp int64
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// NewClient creates a new snapshot client.
func NewClient(resourceURL string, opts ...ClientOption) *Client {
	c := &Client{
		resourceURL: resourceURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		clock:  clock.New(),
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithClock sets the clock used for cache-busting timestamps.
func WithClock(clk clock.Clock) ClientOption {
	return func(c *Client) {
		c.clock = clk
	}
}

// ResourceURL returns the configured snapshot URL without the cache buster.
func (c *Client) ResourceURL() string {
	return c.resourceURL
}
