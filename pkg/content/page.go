package content

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"live-news/pkg/httpclient"
)

// maxPageBytes caps how much of an article page is read
const maxPageBytes = 4 << 20

// PageFetcher downloads article pages and extracts their readable parts
type PageFetcher struct {
	client    *httpclient.HTTPClient
	extractor Extractor
}

// NewPageFetcher creates a page fetcher using browser-like headers and readability
func NewPageFetcher() *PageFetcher {
	return &PageFetcher{
		client:    httpclient.NewClient(httpclient.BrowserClient),
		extractor: NewReadabilityExtractor(),
	}
}

// NewPageFetcherWithExtractor creates a page fetcher with a custom extractor
func NewPageFetcherWithExtractor(extractor Extractor) *PageFetcher {
	f := NewPageFetcher()
	f.extractor = extractor
	return f
}

// FetchPage fetches the page at pageURL and extracts it
func (f *PageFetcher) FetchPage(ctx context.Context, pageURL string) (Page, error) {
	htmlContent, err := f.fetchHTML(ctx, pageURL)
	if err != nil {
		return Page{}, fmt.Errorf("failed to fetch HTML: %w", err)
	}

	page, err := f.extractor.Extract(htmlContent)
	if err != nil {
		return Page{}, fmt.Errorf("failed to extract %s: %w", pageURL, err)
	}
	return page, nil
}

// FetchText returns only the readable text of the page at pageURL
func (f *PageFetcher) FetchText(ctx context.Context, pageURL string) (string, error) {
	page, err := f.FetchPage(ctx, pageURL)
	if err != nil {
		return "", err
	}
	return page.Text, nil
}

// fetchHTML fetches HTML content from a URL
func (f *PageFetcher) fetchHTML(ctx context.Context, pageURL string) (string, error) {
	resp, err := f.client.Get(ctx, pageURL)
	if err != nil {
		return "", fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if len(strings.TrimSpace(string(body))) == 0 {
		return "", fmt.Errorf("empty page body")
	}
	return string(body), nil
}
