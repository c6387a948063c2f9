package pipeline

import (
	"context"
	"fmt"
	"log"
	"sync"

	"live-news/pkg/domain"
	"live-news/pkg/filter"
	"live-news/pkg/metrics"
	"live-news/pkg/parser"
	"live-news/pkg/worker"

	"golang.org/x/sync/errgroup"
)

// ContentProcessor turns a feed item into a summarized Article
type ContentProcessor interface {
	ProcessContent(ctx context.Context, item parser.Item) (*domain.Article, error)
}

// Source binds a category to its feed
type Source struct {
	Category domain.Category
	FeedURL  string
}

// FilterFactory returns fresh filters for one category run
type FilterFactory func() []filter.Filter

// Config holds tuning knobs for the pipeline
type Config struct {
	ContentWorkers int // Items summarized in parallel per category
	FeedWorkers    int // Categories collected in parallel (<=0 means all at once)
	Filters        FilterFactory
}

// Pipeline collects one article list per category:
// Feed → [Filters] → [Content Processor workers] → Articles
type Pipeline struct {
	sources   []Source
	fetcher   parser.FeedParser
	processor ContentProcessor
	config    Config
}

// NewPipeline creates a new pipeline for the given sources
func NewPipeline(sources []Source, fetcher parser.FeedParser, processor ContentProcessor, config Config) *Pipeline {
	if config.ContentWorkers <= 0 {
		config.ContentWorkers = 1
	}
	return &Pipeline{
		sources:   sources,
		fetcher:   fetcher,
		processor: processor,
		config:    config,
	}
}

// Sources returns the configured sources
func (p *Pipeline) Sources() []Source {
	return p.sources
}

// Run collects every category. A category whose feed fails is left out of the
// update; items that fail to process are skipped. Run returns an error only
// when there is nothing to collect or every feed failed.
func (p *Pipeline) Run(ctx context.Context) (domain.NewsUpdate, error) {
	if len(p.sources) == 0 {
		return nil, fmt.Errorf("pipeline has no sources")
	}

	update := make(domain.NewsUpdate, len(p.sources))
	var mu sync.Mutex
	var failed int

	g, gctx := errgroup.WithContext(ctx)
	if p.config.FeedWorkers > 0 {
		g.SetLimit(p.config.FeedWorkers)
	}

	for _, source := range p.sources {
		source := source
		g.Go(func() error {
			articles, err := p.collect(gctx, source)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.Printf("Pipeline [%s]: ERROR collecting feed %s: %v", source.Category, source.FeedURL, err)
				metrics.RecordFeedError(source.Category.String())
				failed++
				return nil
			}
			update[source.Category] = articles
			return nil
		})
	}
	// Per-category errors are recorded above, so Wait only reports nil
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if failed == len(p.sources) {
		return nil, fmt.Errorf("all %d feeds failed", failed)
	}

	return update, nil
}

// collect fetches, filters and processes a single category
func (p *Pipeline) collect(ctx context.Context, source Source) ([]domain.Article, error) {
	log.Printf("Pipeline [%s]: Fetching feed %s", source.Category, source.FeedURL)
	items, err := p.fetcher.ParseFromURL(ctx, source.FeedURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}

	if p.config.Filters != nil {
		items, err = filter.FilterItems(ctx, items, p.config.Filters()...)
		if err != nil {
			return nil, fmt.Errorf("failed to filter items: %w", err)
		}
	}

	log.Printf("Pipeline [%s]: Processing %d items", source.Category, len(items))
	mgr := worker.NewManager(fmt.Sprintf("Pipeline [%s]", source.Category), p.config.ContentWorkers, p.processor.ProcessContent)
	results := mgr.Process(ctx, items)

	articles := make([]domain.Article, 0, len(results))
	for _, res := range results {
		if res.Err != nil {
			log.Printf("Pipeline [%s]: Error summarizing article %s: %v", source.Category, items[res.Index].Link, res.Err)
			continue
		}
		if res.Value != nil {
			articles = append(articles, *res.Value)
		}
	}

	return articles, nil
}
