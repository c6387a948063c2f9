package parser

import "context"

// Item represents a single entry from an RSS/Atom feed
type Item struct {
	Title       string // Title of the entry
	Link        string // URL of the article
	Description string // Raw description/summary HTML (may be empty)
	Image       string // Image URL found in the feed metadata (optional)
}

// FeedParser defines the interface for feed parsers
type FeedParser interface {
	ParseFromURL(ctx context.Context, url string) ([]Item, error)
}
