package refresh

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"live-news/pkg/domain"
	"live-news/pkg/metrics"
	"live-news/pkg/push"
)

// DefaultInterval matches the feed refresh cadence of the news server
const DefaultInterval = 5 * time.Minute

// Collector produces a fresh per-category news mapping
type Collector interface {
	Run(ctx context.Context) (domain.NewsUpdate, error)
}

// Store receives each collected mapping
type Store interface {
	Replace(update domain.NewsUpdate)
	Snapshot() domain.NewsUpdate
}

// Publisher broadcasts events to connected viewers
type Publisher interface {
	Publish(ev push.Event) int
}

// Service collects news on a schedule, replaces the cache and pushes the result
type Service struct {
	collector Collector
	store     Store
	publisher Publisher
	interval  time.Duration
}

// Config holds configuration for the service
type Config struct {
	Collector Collector
	Store     Store
	Publisher Publisher
	Interval  time.Duration
}

// NewService creates a new refresh service
func NewService(config Config) *Service {
	interval := config.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Service{
		collector: config.Collector,
		store:     config.Store,
		publisher: config.Publisher,
		interval:  interval,
	}
}

// Interval returns the time between refreshes
func (s *Service) Interval() time.Duration {
	return s.interval
}

// RefreshOnce collects, replaces the cache and publishes the new snapshot.
// When collection fails entirely the cache keeps its previous content.
func (s *Service) RefreshOnce(ctx context.Context) error {
	start := time.Now()
	log.Printf("Refresher: collecting news")

	update, err := s.collector.Run(ctx)
	if err != nil {
		metrics.RecordRefresh("error", time.Since(start).Seconds())
		return fmt.Errorf("failed to collect news: %w", err)
	}

	s.store.Replace(update)
	snapshot := s.store.Snapshot()

	counts := make(map[string]int, len(snapshot))
	for category, articles := range snapshot {
		counts[category.String()] = len(articles)
	}
	metrics.SetCategoryArticles(counts)

	ev, err := push.NewNewsUpdateEvent(snapshot)
	if err != nil {
		metrics.RecordRefresh("error", time.Since(start).Seconds())
		return fmt.Errorf("failed to encode news update: %w", err)
	}

	delivered := 0
	if s.publisher != nil {
		delivered = s.publisher.Publish(ev)
	}
	metrics.RecordPush(delivered)
	metrics.RecordRefresh("success", time.Since(start).Seconds())

	log.Printf("Refresher: updated %d categories, sent to %d clients (%s)",
		len(snapshot), delivered, time.Since(start).Round(time.Millisecond))
	return nil
}

// Run refreshes immediately and then every interval until ctx is cancelled.
// Failed refreshes are logged and retried on the next tick.
func (s *Service) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		if err := s.RefreshOnce(ctx); err != nil {
			if errors.Is(err, context.Canceled) && ctx.Err() != nil {
				return nil
			}
			log.Printf("Refresher: %v", err)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
