package httpclient

import (
	"context"
	"io"
	"net/http"
	"time"
)

// ClientType represents the type of HTTP client configuration
type ClientType string

const (
	// BrowserClient uses browser-like headers to avoid 406 (Not Acceptable) errors
	// Used when fetching article pages for full-text extraction
	BrowserClient ClientType = "browser"

	// FeedClient asks for RSS/Atom XML with a plain User-Agent
	// Used for feed endpoints that reject browser-like User-Agents
	FeedClient ClientType = "feed"

	// APIClient talks JSON to the news server and summarization endpoints
	APIClient ClientType = "api"
)

// UserAgent identifies non-browser requests
const UserAgent = "live-news/1.0"

const (
	defaultTimeout = 30 * time.Second
	maxRedirects   = 10
)

// HTTPClient wraps an http.Client with configuration
type HTTPClient struct {
	client     *http.Client
	clientType ClientType
}

// NewClient creates a new HTTP client with the specified type and the default timeout
func NewClient(clientType ClientType) *HTTPClient {
	return NewClientWithTimeout(clientType, defaultTimeout)
}

// NewClientWithTimeout creates a new HTTP client with the specified type.
// A zero timeout means no client-side timeout (used for long-lived streams).
func NewClientWithTimeout(clientType ClientType, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout:       timeout,
			CheckRedirect: limitRedirects,
		},
		clientType: clientType,
	}
}

// limitRedirects stops after maxRedirects hops and returns the last response
func limitRedirects(req *http.Request, via []*http.Request) error {
	if len(via) >= maxRedirects {
		return http.ErrUseLastResponse
	}
	return nil
}

// Type returns the header profile of the client
func (c *HTTPClient) Type() ClientType {
	return c.clientType
}

// Do executes an HTTP request with the appropriate headers for the client type
func (c *HTTPClient) Do(req *http.Request) (*http.Response, error) {
	c.setHeaders(req)
	return c.client.Do(req)
}

// Get is a convenience method for GET requests
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	return c.Do(req)
}

// Post is a convenience method for POST requests
func (c *HTTPClient) Post(ctx context.Context, url, contentType string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	return c.Do(req)
}

// browserHeaders avoid 406 (Not Acceptable) answers from news sites
var browserHeaders = map[string]string{
	"User-Agent":                "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36",
	"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
	"Accept-Language":           "en-US,en;q=0.9",
	"Upgrade-Insecure-Requests": "1",
}

var feedHeaders = map[string]string{
	"User-Agent": UserAgent,
	"Accept":     "application/rss+xml, application/atom+xml, application/xml;q=0.9, */*;q=0.8",
}

// setHeaders applies the profile of the client type. API requests keep an
// Accept header set by the caller (event streams).
func (c *HTTPClient) setHeaders(req *http.Request) {
	switch c.clientType {
	case BrowserClient:
		applyHeaders(req, browserHeaders)
	case FeedClient:
		applyHeaders(req, feedHeaders)
	case APIClient:
		req.Header.Set("User-Agent", UserAgent)
		if req.Header.Get("Accept") == "" {
			req.Header.Set("Accept", "application/json")
		}
	}
}

func applyHeaders(req *http.Request, headers map[string]string) {
	for k, v := range headers {
		req.Header.Set(k, v)
	}
}
