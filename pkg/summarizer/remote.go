package summarizer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"live-news/pkg/httpclient"
)

// maxInputChars bounds the text sent to the model endpoint
const maxInputChars = 4000

type remoteRequest struct {
	Text string `json:"text"`
}

type remoteResponse struct {
	Summary string `json:"summary"`
	Error   string `json:"error"`
}

// Remote calls a summarization model over HTTP.
// The endpoint accepts {"text": ...} and answers {"summary": ...} or {"error": ...}.
type Remote struct {
	endpoint string
	client   *httpclient.HTTPClient
}

// NewRemote creates a remote summarizer for endpoint
func NewRemote(endpoint string, timeout time.Duration) *Remote {
	return &Remote{
		endpoint: endpoint,
		client:   httpclient.NewClientWithTimeout(httpclient.APIClient, timeout),
	}
}

// Summarize implements Summarizer
func (r *Remote) Summarize(ctx context.Context, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyText
	}
	if runes := []rune(text); len(runes) > maxInputChars {
		text = string(runes[:maxInputChars])
	}

	payload, err := json.Marshal(remoteRequest{Text: text})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := r.client.Post(ctx, r.endpoint, "application/json", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to call summarizer: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	var decoded remoteResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", fmt.Errorf("failed to decode summarizer response (status %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode != http.StatusOK {
		if decoded.Error != "" {
			return "", fmt.Errorf("summarizer returned %d: %s", resp.StatusCode, decoded.Error)
		}
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return strings.TrimSpace(decoded.Summary), nil
}
