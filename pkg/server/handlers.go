package server

import (
	"log"
	"net/http"
	"strings"
	"time"

	"live-news/pkg/domain"
	"live-news/pkg/metrics"
	"live-news/pkg/push"

	"github.com/labstack/echo/v4"
)

type summarizeRequest struct {
	Text string `json:"text"`
}

func errorBody(msg string) map[string]string {
	return map[string]string{"error": msg}
}

func (s *Server) handleHome(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"message": "Live Summarized News API is running!"})
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":      "ok",
		"subscribers": s.hub.Count(),
		"categories":  len(s.store.Categories()),
	})
}

func (s *Server) handleNews(c echo.Context) error {
	category := domain.Category(c.Param("category"))

	articles, ok := s.store.Get(category)
	if !ok {
		return c.JSON(http.StatusNotFound, errorBody("Category not found"))
	}
	if articles == nil {
		articles = []domain.Article{}
	}
	return c.JSON(http.StatusOK, articles)
}

func (s *Server) handleSummarize(c echo.Context) error {
	var req summarizeRequest
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Text) == "" {
		return c.JSON(http.StatusBadRequest, errorBody("No text provided"))
	}

	summary, err := s.summarizer.Summarize(c.Request().Context(), req.Text)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorBody(err.Error()))
	}
	return c.JSON(http.StatusOK, map[string]string{"summary": summary})
}

func (s *Server) handleEvents(c echo.Context) error {
	w := c.Response()
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	events, unsubscribe := s.hub.Subscribe()
	defer unsubscribe()

	metrics.StreamOpened()
	defer metrics.StreamClosed()

	log.Printf("Server: client connected (%d subscribers)", s.hub.Count())
	defer log.Printf("Server: client disconnected")

	enc := push.NewEncoder(w)
	// Flush headers so the client sees the stream open
	if err := enc.Comment("connected"); err != nil {
		return nil
	}
	w.Flush()

	heartbeat := time.NewTicker(s.config.Heartbeat)
	defer heartbeat.Stop()

	ctx := c.Request().Context()
	for {
		select {
		case <-ctx.Done():
			return nil

		case <-s.shutdown:
			return nil

		case <-heartbeat.C:
			if err := enc.Comment("heartbeat"); err != nil {
				return nil
			}
			w.Flush()

		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if err := enc.Encode(ev); err != nil {
				return nil
			}
			w.Flush()
		}
	}
}
