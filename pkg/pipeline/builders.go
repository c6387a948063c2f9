package pipeline

import (
	"sort"
	"time"

	"live-news/pkg/content"
	"live-news/pkg/domain"
	"live-news/pkg/filter"
	"live-news/pkg/parser"
	"live-news/pkg/summarizer"
)

// Options describes an RSS news pipeline
type Options struct {
	Feeds          map[string]string // category -> feed URL
	MaxItems       int               // Entries kept per feed
	HostInterval   time.Duration     // Minimum gap between requests to one feed host
	ContentWorkers int
	FeedWorkers    int
	Enrich         bool // Fetch article pages for short descriptions
	MinTextChars   int
}

// RSSPipelineBuilder builds a pipeline for RSS feeds
// Pipeline: Feed URL → [RSS Parser] → [Root/Duplicate filters] → [Summary workers]
func RSSPipelineBuilder(opts Options, s summarizer.Summarizer) *Pipeline {
	fetcher := parser.NewRSSParser(opts.MaxItems, opts.HostInterval)

	var processor ContentProcessor
	if opts.Enrich {
		processor = NewEnrichingSummaryProcessor(s, content.NewPageFetcher(), opts.MinTextChars)
	} else {
		processor = NewSummaryProcessor(s)
	}

	return NewPipeline(SourcesFromFeeds(opts.Feeds), fetcher, processor, Config{
		ContentWorkers: opts.ContentWorkers,
		FeedWorkers:    opts.FeedWorkers,
		Filters:        DefaultFilters,
	})
}

// DefaultFilters drops root links and duplicates
func DefaultFilters() []filter.Filter {
	return []filter.Filter{
		filter.NewBaseURLFilter(),
		filter.NewDuplicateFilter(),
	}
}

// SourcesFromFeeds turns a category -> URL map into sources, sorted by category.
// Empty URLs are skipped.
func SourcesFromFeeds(feeds map[string]string) []Source {
	sources := make([]Source, 0, len(feeds))
	for category, feedURL := range feeds {
		if feedURL == "" {
			continue
		}
		sources = append(sources, Source{Category: domain.Category(category), FeedURL: feedURL})
	}
	sort.Slice(sources, func(i, j int) bool { return sources[i].Category < sources[j].Category })
	return sources
}
