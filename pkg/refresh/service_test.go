package refresh

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"live-news/pkg/cache"
	"live-news/pkg/domain"
	"live-news/pkg/push"
)

// mockCollector returns queued results in order, then repeats the last one
type mockCollector struct {
	mu      sync.Mutex
	results []mockResult
	calls   int
}

type mockResult struct {
	update domain.NewsUpdate
	err    error
}

func (m *mockCollector) Run(ctx context.Context) (domain.NewsUpdate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.calls
	if i >= len(m.results) {
		i = len(m.results) - 1
	}
	m.calls++
	return m.results[i].update, m.results[i].err
}

func (m *mockCollector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func TestRefreshOnce_ReplacesCacheAndPublishes(t *testing.T) {
	// Test Case 1: a successful collection replaces everything and reaches subscribers
	// Input: cache holding "business", collector returning "technology" only
	// Expected Output: cache holds only "technology", subscriber gets a news_update event
	store := cache.NewNewsCache()
	store.Replace(domain.NewsUpdate{domain.Business: {{Title: "old"}}})

	hub := push.NewHub(1)
	events, cancel := hub.Subscribe()
	defer cancel()

	collector := &mockCollector{results: []mockResult{
		{update: domain.NewsUpdate{domain.Technology: {{Title: "new", URL: "https://n"}}}},
	}}
	service := NewService(Config{Collector: collector, Store: store, Publisher: hub})

	if err := service.RefreshOnce(context.Background()); err != nil {
		t.Fatalf("RefreshOnce failed: %v", err)
	}

	if _, ok := store.Get(domain.Business); ok {
		t.Errorf("Expected business to be dropped from cache")
	}
	articles, ok := store.Get(domain.Technology)
	if !ok || len(articles) != 1 || articles[0].Title != "new" {
		t.Errorf("Expected technology to hold the new article, got %v", articles)
	}

	select {
	case ev := <-events:
		if ev.Name != push.EventNewsUpdate {
			t.Errorf("Expected event %q, got %q", push.EventNewsUpdate, ev.Name)
		}
		update, err := push.DecodeNewsUpdate(ev.Data)
		if err != nil {
			t.Fatalf("Failed to decode pushed update: %v", err)
		}
		if got, _ := update.Lookup(domain.Technology); len(got) != 1 {
			t.Errorf("Expected pushed technology list of 1, got %v", got)
		}
	default:
		t.Errorf("Expected a published event")
	}
}

func TestRefreshOnce_FailureKeepsCache(t *testing.T) {
	// Test Case 2: when every feed fails the previous cache stays and nothing is pushed
	store := cache.NewNewsCache()
	store.Replace(domain.NewsUpdate{domain.Sports: {{Title: "kept"}}})

	hub := push.NewHub(1)
	events, cancel := hub.Subscribe()
	defer cancel()

	collector := &mockCollector{results: []mockResult{{err: errors.New("all 4 feeds failed")}}}
	service := NewService(Config{Collector: collector, Store: store, Publisher: hub})

	if err := service.RefreshOnce(context.Background()); err == nil {
		t.Fatalf("Expected error, got nil")
	}

	if articles, ok := store.Get(domain.Sports); !ok || articles[0].Title != "kept" {
		t.Errorf("Expected sports to be kept, got %v", articles)
	}
	select {
	case ev := <-events:
		t.Errorf("Expected no event, got %q", ev.Name)
	default:
	}
}

func TestRun_RefreshesOnStartAndOnTick(t *testing.T) {
	// Test Case 3: Run refreshes immediately, keeps going after a failure, stops on cancel
	store := cache.NewNewsCache()
	collector := &mockCollector{results: []mockResult{
		{err: errors.New("feed down")},
		{update: domain.NewsUpdate{domain.Technology: {}}},
	}}
	service := NewService(Config{Collector: collector, Store: store, Interval: 10 * time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- service.Run(ctx) }()

	deadline := time.After(2 * time.Second)
	for collector.Calls() < 3 {
		select {
		case <-deadline:
			t.Fatalf("Expected at least 3 refreshes, got %d", collector.Calls())
		case <-time.After(5 * time.Millisecond):
		}
	}

	if _, ok := store.Get(domain.Technology); !ok {
		t.Errorf("Expected technology in cache after a successful refresh")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Expected nil on cancel, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("Run did not stop after cancel")
	}
}

func TestNewService_DefaultInterval(t *testing.T) {
	service := NewService(Config{})
	if service.Interval() != DefaultInterval {
		t.Errorf("Expected %v, got %v", DefaultInterval, service.Interval())
	}
}
