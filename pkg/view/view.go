// Package view keeps the displayed article list in sync with the selected
// category. Category changes trigger a read of /news/{category}; pushed
// news_update events replace the list only when they carry the selected
// category.
package view

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"live-news/pkg/domain"
	"live-news/pkg/push"
)

var (
	// ErrUnknownCategory is returned when selecting a category outside the configured set
	ErrUnknownCategory = errors.New("unknown category")
	// ErrClosed is returned by operations on a closed synchronizer
	ErrClosed = errors.New("view closed")
)

const defaultRequestTimeout = 10 * time.Second

// Fetcher reads the article list of one category
type Fetcher interface {
	FetchArticles(ctx context.Context, category domain.Category) ([]domain.Article, error)
}

// UpdateSource delivers pushed news updates to registered handlers.
// On returns a func that deregisters the handler.
type UpdateSource interface {
	On(handler push.Handler) func()
}

// State is a snapshot of what the view displays
type State struct {
	Category domain.Category
	Articles []domain.Article
	Loading  bool
	// Loaded reports whether any list has been shown for Category
	Loaded bool
	// Err holds the last fetch failure, cleared by the next success
	Err error
}

// Option configures a Synchronizer
type Option func(*Synchronizer)

// WithCategories restricts the selectable categories
func WithCategories(categories ...domain.Category) Option {
	return func(s *Synchronizer) {
		if len(categories) > 0 {
			s.categories = append([]domain.Category(nil), categories...)
		}
	}
}

// WithInitialCategory sets the category fetched by Start
func WithInitialCategory(c domain.Category) Option {
	return func(s *Synchronizer) {
		s.state.Category = c
	}
}

// WithOnChange registers a callback run after every state change.
// Callbacks are serialized and always receive the latest state.
// fn must not call Select, Refresh or Close.
func WithOnChange(fn func(State)) Option {
	return func(s *Synchronizer) {
		s.onChange = fn
	}
}

// WithRequestTimeout bounds each read request
func WithRequestTimeout(d time.Duration) Option {
	return func(s *Synchronizer) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// Synchronizer binds a category selection to its article list
type Synchronizer struct {
	fetcher    Fetcher
	source     UpdateSource
	categories []domain.Category
	timeout    time.Duration
	onChange   func(State)

	mu         sync.Mutex
	state      State
	generation uint64
	cancel     context.CancelFunc
	off        func()
	started    bool
	closed     bool

	notifyMu sync.Mutex
}

// New creates a synchronizer. Nothing is fetched or subscribed until Start.
// source may be nil when no push channel is available.
func New(fetcher Fetcher, source UpdateSource, opts ...Option) (*Synchronizer, error) {
	s := &Synchronizer{
		fetcher:    fetcher,
		source:     source,
		categories: append([]domain.Category(nil), domain.Categories...),
		timeout:    defaultRequestTimeout,
		state:      State{Category: domain.DefaultCategory},
	}
	for _, opt := range opts {
		opt(s)
	}

	if !domain.Contains(s.categories, s.state.Category) {
		return nil, fmt.Errorf("initial category %q: %w", s.state.Category, ErrUnknownCategory)
	}
	return s, nil
}

// Categories returns the selectable categories in display order
func (s *Synchronizer) Categories() []domain.Category {
	return append([]domain.Category(nil), s.categories...)
}

// Start registers the push listener and loads the initial category.
// Calling Start again is a no-op.
func (s *Synchronizer) Start() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if s.started {
		s.mu.Unlock()
		return nil
	}
	s.started = true
	s.mu.Unlock()

	if s.source != nil {
		off := s.source.On(func(update domain.NewsUpdate) {
			s.ApplyUpdate(update)
		})

		s.mu.Lock()
		if s.closed {
			// Closed while registering
			s.mu.Unlock()
			off()
			return ErrClosed
		}
		s.off = off
		s.mu.Unlock()
	}

	s.mu.Lock()
	s.load()
	s.mu.Unlock()
	s.notify()
	return nil
}

// Select switches to category and loads its articles. Selecting the
// current category again does nothing once it has loaded or is loading.
func (s *Synchronizer) Select(category domain.Category) error {
	if !domain.Contains(s.categories, category) {
		return fmt.Errorf("select %q: %w", category, ErrUnknownCategory)
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if category == s.state.Category && (s.state.Loaded || s.state.Loading) {
		s.mu.Unlock()
		return nil
	}
	if category != s.state.Category {
		s.state.Category = category
		s.state.Loaded = false
	}
	s.load()
	s.mu.Unlock()

	s.notify()
	return nil
}

// Refresh reloads the current category
func (s *Synchronizer) Refresh() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.load()
	s.mu.Unlock()

	s.notify()
	return nil
}

// ApplyUpdate replaces the list with the update's entry for the current
// category. Updates without that entry are ignored. It reports whether
// the state changed.
func (s *Synchronizer) ApplyUpdate(update domain.NewsUpdate) bool {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}
	articles, ok := update.Lookup(s.state.Category)
	if !ok {
		s.mu.Unlock()
		return false
	}
	s.state.Articles = domain.CloneArticles(articles)
	s.state.Loaded = true
	s.mu.Unlock()

	s.notify()
	return true
}

// State returns a copy of the current state
func (s *Synchronizer) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Close deregisters the push listener and cancels any in-flight request.
// It waits for a running callback, so none happens after Close returns.
// Safe to call twice.
func (s *Synchronizer) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	off := s.off
	s.off = nil
	s.mu.Unlock()

	if off != nil {
		off()
	}

	s.notifyMu.Lock()
	s.notifyMu.Unlock()
}

// load issues a read for the current category. Must hold s.mu.
func (s *Synchronizer) load() {
	if s.cancel != nil {
		s.cancel()
	}
	s.generation++
	generation := s.generation
	category := s.state.Category

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	s.cancel = cancel
	s.state.Loading = true

	go func() {
		defer cancel()
		articles, err := s.fetcher.FetchArticles(ctx, category)
		s.complete(generation, category, articles, err)
	}()
}

func (s *Synchronizer) complete(generation uint64, category domain.Category, articles []domain.Article, err error) {
	s.mu.Lock()
	if s.closed || generation != s.generation {
		s.mu.Unlock()
		return
	}
	s.cancel = nil
	s.state.Loading = false
	if err != nil {
		log.Printf("View: fetch %s failed: %v", category, err)
		s.state.Err = err
	} else {
		if articles == nil {
			articles = []domain.Article{}
		}
		s.state.Articles = domain.CloneArticles(articles)
		s.state.Loaded = true
		s.state.Err = nil
	}
	s.mu.Unlock()

	s.notify()
}

// snapshot must hold s.mu
func (s *Synchronizer) snapshot() State {
	st := s.state
	st.Articles = domain.CloneArticles(s.state.Articles)
	return st
}

func (s *Synchronizer) notify() {
	if s.onChange == nil {
		return
	}

	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	st := s.snapshot()
	s.mu.Unlock()

	s.onChange(st)
}
