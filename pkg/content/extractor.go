package content

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
)

// ErrNoText is returned when a page has no readable body
var ErrNoText = errors.New("no readable text found in HTML")

// Page is what an article page yields
type Page struct {
	Title string
	Text  string
	Image string // og:image, may be empty
}

// Extractor pulls the readable parts out of an article page
type Extractor interface {
	Extract(htmlContent string) (Page, error)
}

// ReadabilityExtractor extracts pages with go-readability and falls back to
// plain selectors for the title
type ReadabilityExtractor struct{}

// NewReadabilityExtractor creates a readability-based extractor
func NewReadabilityExtractor() *ReadabilityExtractor {
	return &ReadabilityExtractor{}
}

// Extract implements Extractor. The text is whitespace-collapsed; a page
// without body text fails with ErrNoText.
func (e *ReadabilityExtractor) Extract(htmlContent string) (Page, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return Page{}, fmt.Errorf("failed to parse HTML: %w", err)
	}

	page := Page{Image: metaContent(doc, "og:image")}

	article, err := readability.FromReader(strings.NewReader(htmlContent), nil)
	if err == nil {
		page.Title = strings.TrimSpace(article.Title)
		page.Text = collapseSpaces(article.TextContent)
	}
	if page.Title == "" {
		page.Title = selectorTitle(doc)
	}

	if page.Text == "" {
		return page, ErrNoText
	}
	return page, nil
}

// selectorTitle tries <title>, the first <h1>, then og:title
func selectorTitle(doc *goquery.Document) string {
	for _, sel := range []string{"title", "h1"} {
		if title := strings.TrimSpace(doc.Find(sel).First().Text()); title != "" {
			return title
		}
	}
	return metaContent(doc, "og:title")
}

func metaContent(doc *goquery.Document, property string) string {
	value, _ := doc.Find("meta[property='" + property + "']").Attr("content")
	return strings.TrimSpace(value)
}
