package summarizer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemote_Summarize(t *testing.T) {
	t.Run("returns summary", func(t *testing.T) {
		var got remoteRequest
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"summary": " Short version. "}`))
		}))
		defer server.Close()

		summary, err := NewRemote(server.URL, time.Second).Summarize(context.Background(), "Long article text")
		require.NoError(t, err)
		assert.Equal(t, "Short version.", summary)
		assert.Equal(t, "Long article text", got.Text)
	})

	t.Run("surfaces server error message", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error": "model not loaded"}`))
		}))
		defer server.Close()

		_, err := NewRemote(server.URL, time.Second).Summarize(context.Background(), "text")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "model not loaded")
	})

	t.Run("malformed response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`not json`))
		}))
		defer server.Close()

		_, err := NewRemote(server.URL, time.Second).Summarize(context.Background(), "text")
		assert.Error(t, err)
	})

	t.Run("empty text skips the call", func(t *testing.T) {
		_, err := NewRemote("http://127.0.0.1:1", time.Second).Summarize(context.Background(), " ")
		assert.ErrorIs(t, err, ErrEmptyText)
	})
}
