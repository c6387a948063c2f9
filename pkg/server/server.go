package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"live-news/pkg/domain"
	"live-news/pkg/push"
	"live-news/pkg/summarizer"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const defaultHeartbeat = 15 * time.Second

// NewsStore is the read side of the news cache
type NewsStore interface {
	Get(category domain.Category) ([]domain.Article, bool)
	Categories() []domain.Category
}

// Config holds server settings
type Config struct {
	Addr string
	// Heartbeat is the interval of keep-alive comments on /events
	Heartbeat time.Duration
}

// Server exposes the news cache over HTTP and streams updates over SSE
type Server struct {
	echo       *echo.Echo
	store      NewsStore
	hub        *push.Hub
	summarizer summarizer.Summarizer
	config     Config

	// shutdown is closed when Run stops, ending open event streams
	shutdown     chan struct{}
	shutdownOnce sync.Once
}

// New creates a server with all routes registered
func New(store NewsStore, hub *push.Hub, s summarizer.Summarizer, config Config) *Server {
	if config.Heartbeat <= 0 {
		config.Heartbeat = defaultHeartbeat
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	srv := &Server{
		echo:       e,
		store:      store,
		hub:        hub,
		summarizer: s,
		config:     config,
		shutdown:   make(chan struct{}),
	}

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		Skipper: func(c echo.Context) bool {
			// Streams would only be logged once they end
			return c.Path() == "/events" || c.Path() == "/metrics"
		},
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error != nil {
				log.Printf("Server: %s %s -> %d (%v): %v", v.Method, v.URI, v.Status, v.Latency, v.Error)
				return nil
			}
			log.Printf("Server: %s %s -> %d (%v)", v.Method, v.URI, v.Status, v.Latency)
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.GET("/", srv.handleHome)
	e.GET("/health", srv.handleHealth)
	e.GET("/news/:category", srv.handleNews)
	e.POST("/summarize", srv.handleSummarize)
	e.GET("/events", srv.handleEvents)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return srv
}

// Handler returns the HTTP handler, for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server: listening on %s", s.config.Addr)
		if err := s.echo.Start(s.config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	log.Printf("Server: shutting down")
	s.closeStreams()
	return s.echo.Shutdown(shutdownCtx)
}

func (s *Server) closeStreams() {
	s.shutdownOnce.Do(func() { close(s.shutdown) })
}
