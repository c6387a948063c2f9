package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"live-news/pkg/cache"
	"live-news/pkg/domain"
	"live-news/pkg/newsclient"
	"live-news/pkg/push"
	"live-news/pkg/view"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSummarizer struct {
	summary string
	err     error
}

func (s *stubSummarizer) Summarize(ctx context.Context, text string) (string, error) {
	return s.summary, s.err
}

func newTestServer(t *testing.T, s *stubSummarizer) (*Server, *cache.NewsCache, *push.Hub) {
	t.Helper()
	store := cache.NewNewsCache()
	hub := push.NewHub(4)
	if s == nil {
		s = &stubSummarizer{summary: "short"}
	}
	return New(store, hub, s, Config{Heartbeat: 20 * time.Millisecond}), store, hub
}

func serve(srv *Server, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeMap(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestServer_Home(t *testing.T) {
	srv, _, _ := newTestServer(t, nil)

	rec := serve(srv, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Live Summarized News API is running!", decodeMap(t, rec)["message"])
}

func TestServer_News(t *testing.T) {
	srv, store, _ := newTestServer(t, nil)
	store.Replace(domain.NewsUpdate{
		domain.Technology: {
			{Title: "First", Summary: "one", URL: "https://a"},
			{Title: "Second", Summary: "two", URL: "https://b", Image: "https://img"},
		},
		domain.Sports: {},
	})

	t.Run("known category", func(t *testing.T) {
		rec := serve(srv, http.MethodGet, "/news/technology", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var articles []domain.Article
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &articles))
		require.Len(t, articles, 2)
		assert.Equal(t, "First", articles[0].Title)
		assert.Equal(t, "https://img", articles[1].Image)
	})

	t.Run("empty category is an empty array", func(t *testing.T) {
		rec := serve(srv, http.MethodGet, "/news/sports", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[]`, rec.Body.String())
	})

	t.Run("missing category", func(t *testing.T) {
		rec := serve(srv, http.MethodGet, "/news/business", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"error": "Category not found"}`, rec.Body.String())
	})
}

func TestServer_Summarize(t *testing.T) {
	t.Run("summary", func(t *testing.T) {
		srv, _, _ := newTestServer(t, &stubSummarizer{summary: "tl;dr"})
		rec := serve(srv, http.MethodPost, "/summarize", `{"text": "a long story"}`)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"summary": "tl;dr"}`, rec.Body.String())
	})

	t.Run("no text", func(t *testing.T) {
		srv, _, _ := newTestServer(t, nil)
		for _, body := range []string{`{}`, `{"text": ""}`, `{"text": "   "}`, `not json`} {
			rec := serve(srv, http.MethodPost, "/summarize", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, body)
			assert.JSONEq(t, `{"error": "No text provided"}`, rec.Body.String(), body)
		}
	})

	t.Run("summarizer failure", func(t *testing.T) {
		srv, _, _ := newTestServer(t, &stubSummarizer{err: errors.New("model unavailable")})
		rec := serve(srv, http.MethodPost, "/summarize", `{"text": "story"}`)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"error": "model unavailable"}`, rec.Body.String())
	})
}

func TestServer_HealthAndCORS(t *testing.T) {
	srv, store, _ := newTestServer(t, nil)
	store.Replace(domain.NewsUpdate{domain.Technology: {}, domain.Business: {}})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	body := decodeMap(t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, float64(0), body["subscribers"])
	assert.Equal(t, float64(2), body["categories"])
}

func TestServer_Metrics(t *testing.T) {
	srv, _, _ := newTestServer(t, nil)

	rec := serve(srv, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "livenews_stream_subscribers")
}

func startHTTP(t *testing.T, srv *Server) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		ts.CloseClientConnections()
		ts.Close()
	})
	return ts
}

func TestServer_EventsStream(t *testing.T) {
	srv, _, hub := newTestServer(t, nil)
	ts := startHTTP(t, srv)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	sub := push.NewSubscriber(ts.URL+"/events", 10*time.Millisecond)
	received := make(chan domain.NewsUpdate, 4)
	sub.On(func(u domain.NewsUpdate) { received <- u })
	go sub.Run(ctx)

	require.Eventually(t, func() bool { return hub.Count() == 1 }, time.Second, 5*time.Millisecond)

	ev, err := push.NewNewsUpdateEvent(domain.NewsUpdate{
		domain.Business: {{Title: "Pushed", Summary: "s", URL: "https://p"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, hub.Publish(ev))

	select {
	case u := <-received:
		articles, ok := u.Lookup(domain.Business)
		require.True(t, ok)
		assert.Equal(t, "Pushed", articles[0].Title)
	case <-time.After(2 * time.Second):
		t.Fatal("expected a pushed update")
	}

	cancel()
	assert.Eventually(t, func() bool { return hub.Count() == 0 }, time.Second, 5*time.Millisecond)
}

func TestServer_EventsHeartbeat(t *testing.T) {
	srv, _, _ := newTestServer(t, nil)
	ts := startHTTP(t, srv)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	buf := make([]byte, 0, 256)
	chunk := make([]byte, 64)
	for !strings.Contains(string(buf), ": heartbeat") {
		n, err := resp.Body.Read(chunk)
		require.NoError(t, err)
		buf = append(buf, chunk[:n]...)
	}
	assert.True(t, strings.HasPrefix(string(buf), ": connected\n\n"))
}

func TestServer_RunShutsDownWithOpenStream(t *testing.T) {
	srv, _, hub := newTestServer(t, nil)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	srv.echo.Listener = ln
	srv.config.Addr = ln.Addr().String()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	runErr := make(chan error, 1)
	go func() { runErr <- srv.Run(ctx) }()

	reqCtx, reqCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer reqCancel()
	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, "http://"+ln.Addr().String()+"/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Eventually(t, func() bool { return hub.Count() == 1 }, time.Second, 5*time.Millisecond)

	start := time.Now()
	cancel()
	select {
	case err := <-runErr:
		assert.NoError(t, err)
		assert.Less(t, time.Since(start), 2*time.Second)
	case <-time.After(4 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.Equal(t, 0, hub.Count())
}

// End to end: a view backed by the HTTP API and the push stream
func TestServer_ViewSynchronizesWithServer(t *testing.T) {
	srv, store, hub := newTestServer(t, nil)
	store.Replace(domain.NewsUpdate{
		domain.Technology: {{Title: "Tech 1", URL: "https://t1"}},
		domain.Sports:     {{Title: "Sports 1", URL: "https://s1"}},
	})
	ts := startHTTP(t, srv)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	client := newsclient.New(ts.URL, time.Second)
	sub := push.NewSubscriber(client.EventsURL(), 10*time.Millisecond)
	go sub.Run(ctx)

	v, err := view.New(client, sub)
	require.NoError(t, err)
	require.NoError(t, v.Start())
	defer v.Close()

	require.Eventually(t, func() bool {
		st := v.State()
		return st.Loaded && len(st.Articles) == 1 && st.Articles[0].Title == "Tech 1"
	}, 2*time.Second, 5*time.Millisecond)

	require.Eventually(t, func() bool { return hub.Count() == 1 }, time.Second, 5*time.Millisecond)

	// An update for another category leaves the list alone
	ev, err := push.NewNewsUpdateEvent(domain.NewsUpdate{domain.Sports: {{Title: "Sports 2"}}})
	require.NoError(t, err)
	hub.Publish(ev)

	ev, err = push.NewNewsUpdateEvent(domain.NewsUpdate{
		domain.Technology: {{Title: "Tech 2"}, {Title: "Tech 3"}},
	})
	require.NoError(t, err)
	hub.Publish(ev)

	require.Eventually(t, func() bool {
		st := v.State()
		return len(st.Articles) == 2 && st.Articles[0].Title == "Tech 2"
	}, 2*time.Second, 5*time.Millisecond)

	require.NoError(t, v.Select(domain.Business))
	require.Eventually(t, func() bool {
		st := v.State()
		return !st.Loading && st.Err != nil
	}, 2*time.Second, 5*time.Millisecond)

	st := v.State()
	assert.Equal(t, domain.Business, st.Category)
	assert.Equal(t, "Tech 2", st.Articles[0].Title)
	var apiErr *newsclient.APIError
	require.ErrorAs(t, st.Err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)

	v.Close()
	assert.Equal(t, 0, sub.Listeners())
}
