package parser

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"live-news/pkg/httpclient"

	"github.com/mmcdole/gofeed"
	"golang.org/x/time/rate"
)

// RSSParser handles RSS/Atom feed parsing operations
type RSSParser struct {
	feedParser *gofeed.Parser
	client     *httpclient.HTTPClient
	maxItems   int

	hostInterval time.Duration
	mu           sync.Mutex
	limiters     map[string]*rate.Limiter
}

// NewRSSParser creates a new RSS parser.
// maxItems caps the entries returned per feed (<=0 means no limit).
// hostInterval spaces consecutive requests to the same host (0 disables limiting).
func NewRSSParser(maxItems int, hostInterval time.Duration) *RSSParser {
	return &RSSParser{
		feedParser:   gofeed.NewParser(),
		client:       httpclient.NewClient(httpclient.FeedClient),
		maxItems:     maxItems,
		hostInterval: hostInterval,
		limiters:     make(map[string]*rate.Limiter),
	}
}

// ParseFromURL fetches and parses an RSS/Atom feed from the given URL
func (p *RSSParser) ParseFromURL(ctx context.Context, feedURL string) ([]Item, error) {
	if err := p.waitForHost(ctx, feedURL); err != nil {
		return nil, fmt.Errorf("rate limit wait failed: %w", err)
	}

	resp, err := p.client.Get(ctx, feedURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch RSS feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	feed, err := p.feedParser.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse RSS feed: %w", err)
	}

	items := make([]Item, 0, len(feed.Items))
	for _, entry := range feed.Items {
		if p.maxItems > 0 && len(items) >= p.maxItems {
			break
		}
		if entry.Link == "" {
			continue
		}
		description := entry.Description
		if description == "" {
			description = entry.Content
		}
		items = append(items, Item{
			Title:       strings.TrimSpace(entry.Title),
			Link:        entry.Link,
			Description: description,
			Image:       ExtractImageURL(entry),
		})
	}

	return items, nil
}

// waitForHost blocks until the per-host limiter admits a request
func (p *RSSParser) waitForHost(ctx context.Context, feedURL string) error {
	if p.hostInterval <= 0 {
		return nil
	}
	parsed, err := url.Parse(feedURL)
	if err != nil {
		return err
	}

	p.mu.Lock()
	limiter, ok := p.limiters[parsed.Host]
	if !ok {
		limiter = rate.NewLimiter(rate.Every(p.hostInterval), 1)
		p.limiters[parsed.Host] = limiter
	}
	p.mu.Unlock()

	return limiter.Wait(ctx)
}

// ExtractImageURL returns the best image URL of a feed entry.
// Priority: item image, media:thumbnail, media:content (medium=image), image enclosure.
// Only http/https URLs are accepted.
func ExtractImageURL(item *gofeed.Item) string {
	if item.Image != nil && isHTTPURL(item.Image.URL) {
		return item.Image.URL
	}

	if media, ok := item.Extensions["media"]; ok {
		for _, thumb := range media["thumbnail"] {
			if u := thumb.Attrs["url"]; isHTTPURL(u) {
				return u
			}
		}
		for _, content := range media["content"] {
			if content.Attrs["medium"] != "image" {
				continue
			}
			if u := content.Attrs["url"]; isHTTPURL(u) {
				return u
			}
		}
	}

	for _, enc := range item.Enclosures {
		if strings.HasPrefix(enc.Type, "image/") && isHTTPURL(enc.URL) {
			return enc.URL
		}
	}

	return ""
}

func isHTTPURL(raw string) bool {
	if raw == "" {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}
