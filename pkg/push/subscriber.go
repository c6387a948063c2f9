package push

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"live-news/pkg/domain"
	"live-news/pkg/httpclient"
)

// Handler receives decoded news updates
type Handler func(update domain.NewsUpdate)

type listener struct {
	id      uint64
	handler Handler
}

// Subscriber keeps a stream open to a push endpoint and dispatches
// news_update events to registered handlers
type Subscriber struct {
	url            string
	client         *httpclient.HTTPClient
	reconnectDelay time.Duration

	mu        sync.RWMutex
	listeners []listener
	nextID    uint64

	connected atomic.Bool
}

// NewSubscriber creates a subscriber for eventsURL.
// reconnectDelay <= 0 uses one second.
func NewSubscriber(eventsURL string, reconnectDelay time.Duration) *Subscriber {
	if reconnectDelay <= 0 {
		reconnectDelay = time.Second
	}
	return &Subscriber{
		url: eventsURL,
		// Streams stay open indefinitely, so no client timeout
		client:         httpclient.NewClientWithTimeout(httpclient.APIClient, 0),
		reconnectDelay: reconnectDelay,
	}
}

// On registers handler and returns a func that deregisters it.
// Handlers run sequentially, in registration order, on the reader goroutine.
func (s *Subscriber) On(handler Handler) func() {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, listener{id: id, handler: handler})
	s.mu.Unlock()

	return func() { s.off(id) }
}

func (s *Subscriber) off(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, l := range s.listeners {
		if l.id == id {
			s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
			return
		}
	}
}

// Listeners returns the number of registered handlers
func (s *Subscriber) Listeners() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.listeners)
}

// Connected reports whether a stream is currently open
func (s *Subscriber) Connected() bool {
	return s.connected.Load()
}

// Run streams events until ctx ends, reconnecting after failures
func (s *Subscriber) Run(ctx context.Context) error {
	for {
		err := s.stream(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Printf("Subscriber: stream to %s ended: %v (reconnecting in %s)", s.url, err, s.reconnectDelay)

		timer := time.NewTimer(s.reconnectDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// stream opens one connection and reads it to the end
func (s *Subscriber) stream(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	s.connected.Store(true)
	defer s.connected.Store(false)
	log.Printf("Subscriber: connected to %s", s.url)

	decoder := NewDecoder(resp.Body)
	for {
		ev, err := decoder.Decode()
		if errors.Is(err, io.EOF) {
			return errors.New("stream closed by server")
		}
		if err != nil {
			return fmt.Errorf("failed to read stream: %w", err)
		}
		s.Dispatch(ev)
	}
}

// Dispatch decodes a news_update event and hands it to every handler.
// Other events are ignored; malformed payloads are logged and dropped.
func (s *Subscriber) Dispatch(ev Event) {
	if ev.Name != EventNewsUpdate {
		return
	}

	update, err := DecodeNewsUpdate(ev.Data)
	if err != nil {
		log.Printf("Subscriber: ignoring %s event: %v", ev.Name, err)
		return
	}

	s.mu.RLock()
	listeners := make([]listener, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.RUnlock()

	for _, l := range listeners {
		l.handler(update)
	}
}
