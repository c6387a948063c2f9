package filter

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"live-news/pkg/parser"
)

// Filter defines the interface for feed item link filtering
type Filter interface {
	ShouldKeep(ctx context.Context, link string) (bool, error)
}

// FilterItems applies all filters to the items' links, keeping feed order
func FilterItems(ctx context.Context, items []parser.Item, filters ...Filter) ([]parser.Item, error) {
	filtered := make([]parser.Item, 0, len(items))

	for _, item := range items {
		keep := true
		for _, f := range filters {
			shouldKeep, err := f.ShouldKeep(ctx, item.Link)
			if err != nil {
				return nil, fmt.Errorf("filter error for URL %s: %w", item.Link, err)
			}
			if !shouldKeep {
				keep = false
				break
			}
		}
		if keep {
			filtered = append(filtered, item)
		}
	}

	return filtered, nil
}

// BaseURLFilter filters out base/root URLs
type BaseURLFilter struct{}

// NewBaseURLFilter creates a new base URL filter
func NewBaseURLFilter() *BaseURLFilter {
	return &BaseURLFilter{}
}

// ShouldKeep returns false if URL is a base/root URL
func (f *BaseURLFilter) ShouldKeep(ctx context.Context, urlStr string) (bool, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		// If we can't parse it, don't filter it out (let it fail later if needed)
		return true, nil
	}

	// Check if path is empty or just "/"
	path := strings.Trim(parsed.Path, "/")
	return path != "" || parsed.RawQuery != "", nil
}

// DuplicateFilter drops links it has already seen.
// One instance covers one feed run; use a fresh filter per category.
type DuplicateFilter struct {
	mu   sync.Mutex
	seen map[string]bool
}

// NewDuplicateFilter creates a new duplicate filter
func NewDuplicateFilter() *DuplicateFilter {
	return &DuplicateFilter{
		seen: make(map[string]bool),
	}
}

// ShouldKeep returns false the second time a link is offered
func (f *DuplicateFilter) ShouldKeep(ctx context.Context, urlStr string) (bool, error) {
	key := strings.TrimSuffix(strings.TrimSpace(urlStr), "/")

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.seen[key] {
		return false, nil
	}
	f.seen[key] = true
	return true, nil
}
