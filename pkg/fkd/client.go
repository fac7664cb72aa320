package fkd

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/daikumatan/shippai-knowledge-etl/pkg/cache"
	"github.com/daikumatan/shippai-knowledge-etl/pkg/errors"
	"github.com/daikumatan/shippai-knowledge-etl/pkg/httputil"
)

// BaseURL is the root of the public archive.
const BaseURL = "https://www.shippai.org/fkd/"

const httpTimeout = 30 * time.Second

// Client fetches archive pages with persistent caching and retry.
// Server errors and transport failures are retried with exponential
// backoff; a 404 maps to a NOT_FOUND coded error since case IDs come
// from user input and index pages that may be stale.
type Client struct {
	http       *http.Client
	cache      cache.Cache
	keyer      cache.Keyer
	baseURL    string
	headers    map[string]string
	refresh    bool
	retryDelay time.Duration
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL points the client at a mirror instead of shippai.org.
func WithBaseURL(url string) ClientOption {
	return func(c *Client) { c.baseURL = url }
}

// WithHTTPClient replaces the underlying HTTP client, mainly for tests.
func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) { c.http = h }
}

// WithKeyer replaces the cache key scheme, e.g. with a scoped keyer
// when several mirrors share one cache.
func WithKeyer(k cache.Keyer) ClientOption {
	return func(c *Client) { c.keyer = k }
}

// WithRefresh bypasses the cache on reads; fetched pages are still
// written back.
func WithRefresh(refresh bool) ClientOption {
	return func(c *Client) { c.refresh = refresh }
}

// WithHeaders sets default request headers.
func WithHeaders(headers map[string]string) ClientOption {
	return func(c *Client) { c.headers = headers }
}

// WithRetryDelay sets the initial backoff delay between retries.
func WithRetryDelay(d time.Duration) ClientOption {
	return func(c *Client) { c.retryDelay = d }
}

// NewClient creates a Client over the given cache. Pass a NullCache to
// disable caching.
func NewClient(store cache.Cache, opts ...ClientOption) *Client {
	c := &Client{
		http:       &http.Client{Timeout: httpTimeout},
		cache:      store,
		keyer:      cache.NewDefaultKeyer(),
		baseURL:    BaseURL,
		retryDelay: time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the archive root this client fetches from.
func (c *Client) BaseURL() string { return c.baseURL }

// GetPage fetches url and returns the response body. kind names the
// page family for cache keying and TTL ("case", "scenario", "list",
// "image").
func (c *Client) GetPage(ctx context.Context, kind, url string) ([]byte, error) {
	key := c.keyer.PageKey(kind, url)
	if !c.refresh {
		if data, hit, _ := c.cache.Get(ctx, key); hit {
			return data, nil
		}
	}

	var body []byte
	fetch := func() error {
		var err error
		body, err = c.doRequest(ctx, url)
		return err
	}
	if err := httputil.Retry(ctx, 3, c.retryDelay, fetch); err != nil {
		return nil, err
	}
	_ = c.cache.Set(ctx, key, body, cache.PageTTL)
	return body, nil
}

func (c *Client) doRequest(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidURL, err, "bad request URL %q", url)
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &httputil.RetryableError{
			Err: errors.Wrap(errors.ErrCodeNetwork, err, "request failed"),
		}
	}
	defer resp.Body.Close()

	if err := checkStatus(resp.StatusCode, url); err != nil {
		return nil, err
	}
	return io.ReadAll(resp.Body)
}

func checkStatus(code int, url string) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return errors.New(errors.ErrCodeNotFound, "%s not found", url)
	case code >= 500:
		return &httputil.RetryableError{
			Err: errors.New(errors.ErrCodeNetwork, "server error %d from %s", code, url),
		}
	default:
		return errors.New(errors.ErrCodeNetwork, "unexpected status %d from %s", code, url)
	}
}
