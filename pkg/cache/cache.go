package cache

import (
	"sync"
	"time"

	"live-news/pkg/domain"
)

// NewsCache holds the latest article lists per category.
// It is replaced wholesale on every refresh.
type NewsCache struct {
	mu        sync.RWMutex
	news      domain.NewsUpdate
	updatedAt time.Time
}

// NewNewsCache creates an empty cache
func NewNewsCache() *NewsCache {
	return &NewsCache{news: make(domain.NewsUpdate)}
}

// Replace drops every category and stores update in their place
func (c *NewsCache) Replace(update domain.NewsUpdate) {
	fresh := update.Clone()
	if fresh == nil {
		fresh = make(domain.NewsUpdate)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.news = fresh
	c.updatedAt = time.Now()
}

// Get returns a copy of the articles of category
func (c *NewsCache) Get(category domain.Category) ([]domain.Article, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	articles, ok := c.news.Lookup(category)
	if !ok {
		return nil, false
	}
	return domain.CloneArticles(articles), true
}

// Snapshot returns a deep copy of the whole cache
func (c *NewsCache) Snapshot() domain.NewsUpdate {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.news.Clone()
}

// Categories returns the cached categories, sorted
func (c *NewsCache) Categories() []domain.Category {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.news.Categories()
}

// UpdatedAt returns the time of the last Replace, zero if never replaced
func (c *NewsCache) UpdatedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.updatedAt
}
