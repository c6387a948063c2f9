package newsclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"live-news/pkg/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_FetchArticles(t *testing.T) {
	t.Run("returns articles in order", func(t *testing.T) {
		var gotPath, gotAccept string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotAccept = r.Header.Get("Accept")
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`[
				{"title": "Second first", "image": "", "summary": "s1", "url": "https://a"},
				{"title": "Then this", "image": "https://img/b.jpg", "summary": "s2", "url": "https://b"}
			]`))
		}))
		defer server.Close()

		articles, err := New(server.URL+"/", time.Second).FetchArticles(context.Background(), domain.Sports)
		require.NoError(t, err)

		assert.Equal(t, "/news/sports", gotPath)
		assert.Equal(t, "application/json", gotAccept)
		assert.Equal(t, []domain.Article{
			{Title: "Second first", Summary: "s1", URL: "https://a"},
			{Title: "Then this", Image: "https://img/b.jpg", Summary: "s2", URL: "https://b"},
		}, articles)
	})

	t.Run("null body becomes empty list", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`null`))
		}))
		defer server.Close()

		articles, err := New(server.URL, time.Second).FetchArticles(context.Background(), domain.Business)
		require.NoError(t, err)
		assert.NotNil(t, articles)
		assert.Empty(t, articles)
	})

	t.Run("404 carries server message", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error": "Category not found"}`))
		}))
		defer server.Close()

		_, err := New(server.URL, time.Second).FetchArticles(context.Background(), domain.Entertainment)
		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusNotFound, apiErr.Status)
		assert.Equal(t, "Category not found", apiErr.Message)
		assert.Equal(t, "news server returned 404: Category not found", err.Error())
	})

	t.Run("malformed body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"not": "a list"}`))
		}))
		defer server.Close()

		_, err := New(server.URL, time.Second).FetchArticles(context.Background(), domain.Technology)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "malformed technology news response")
	})

	t.Run("unreachable server", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		url := server.URL
		server.Close()

		_, err := New(url, time.Second).FetchArticles(context.Background(), domain.Technology)
		assert.Error(t, err)
	})
}

func TestClient_EventsURL(t *testing.T) {
	assert.Equal(t, "http://127.0.0.1:5000/events", New("http://127.0.0.1:5000/", 0).EventsURL())
}
