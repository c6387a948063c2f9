package newsclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"live-news/pkg/domain"
	"live-news/pkg/httpclient"
)

// maxBodyBytes bounds a /news response
const maxBodyBytes = 8 << 20

// APIError is a non-200 answer from the news server
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("news server returned %d", e.Status)
	}
	return fmt.Sprintf("news server returned %d: %s", e.Status, e.Message)
}

// Client reads article lists from the news server
type Client struct {
	baseURL string
	client  *httpclient.HTTPClient
}

// New creates a client for the server at baseURL (e.g. "http://127.0.0.1:5000")
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  httpclient.NewClientWithTimeout(httpclient.APIClient, timeout),
	}
}

// BaseURL returns the server base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// EventsURL returns the push endpoint of the server
func (c *Client) EventsURL() string {
	return c.baseURL + "/events"
}

// FetchArticles issues GET /news/{category} and returns the articles in server order
func (c *Client) FetchArticles(ctx context.Context, category domain.Category) ([]domain.Article, error) {
	endpoint := c.baseURL + "/news/" + url.PathEscape(category.String())

	resp, err := c.client.Get(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s news: %w", category, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{Status: resp.StatusCode}
		var payload struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &payload) == nil {
			apiErr.Message = payload.Error
		}
		return nil, apiErr
	}

	var articles []domain.Article
	if err := json.Unmarshal(body, &articles); err != nil {
		return nil, fmt.Errorf("malformed %s news response: %w", category, err)
	}
	if articles == nil {
		articles = []domain.Article{}
	}
	return articles, nil
}
