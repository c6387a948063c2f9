package pipeline

import (
	"context"
	"fmt"
	"log"
	"strings"

	"live-news/pkg/content"
	"live-news/pkg/domain"
	"live-news/pkg/parser"
	"live-news/pkg/summarizer"
)

// TextFetcher fetches the readable text of an article page
type TextFetcher interface {
	FetchText(ctx context.Context, pageURL string) (string, error)
}

// SummaryProcessor implements ContentProcessor: it cleans the feed
// description, optionally enriches it from the article page, and summarizes it
type SummaryProcessor struct {
	summarizer   summarizer.Summarizer
	pages        TextFetcher // nil disables enrichment
	minTextChars int
}

// NewSummaryProcessor creates a processor that summarizes feed descriptions only
func NewSummaryProcessor(s summarizer.Summarizer) *SummaryProcessor {
	return &SummaryProcessor{summarizer: s}
}

// NewEnrichingSummaryProcessor creates a processor that fetches the article page
// when the description is shorter than minTextChars
func NewEnrichingSummaryProcessor(s summarizer.Summarizer, pages TextFetcher, minTextChars int) *SummaryProcessor {
	return &SummaryProcessor{
		summarizer:   s,
		pages:        pages,
		minTextChars: minTextChars,
	}
}

// ProcessContent builds the Article for a feed item
func (p *SummaryProcessor) ProcessContent(ctx context.Context, item parser.Item) (*domain.Article, error) {
	text := p.sourceText(ctx, item)
	if text == "" {
		return nil, fmt.Errorf("item has neither description nor title")
	}

	summary, err := p.summarizer.Summarize(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize: %w", err)
	}
	if strings.TrimSpace(summary) == "" {
		summary = summarizer.NoSummary
	}

	image := item.Image
	if image == "" {
		image = content.FirstImage(item.Description)
	}

	return &domain.Article{
		Title:   item.Title,
		Image:   image,
		Summary: summary,
		URL:     item.Link,
	}, nil
}

// sourceText picks the text to summarize: the page text when enrichment applies,
// otherwise the cleaned description, falling back to the title
func (p *SummaryProcessor) sourceText(ctx context.Context, item parser.Item) string {
	text := content.PlainText(item.Description)

	if p.pages != nil && len([]rune(text)) < p.minTextChars {
		pageText, err := p.pages.FetchText(ctx, item.Link)
		if err != nil {
			log.Printf("SummaryProcessor: enrichment failed for %s: %v", item.Link, err)
		} else if len(pageText) > len(text) {
			text = pageText
		}
	}

	if text == "" {
		text = item.Title
	}
	return text
}
