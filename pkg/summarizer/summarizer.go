package summarizer

import (
	"context"
	"errors"
	"strings"
	"unicode"
)

// NoSummary replaces an empty summary in served articles
const NoSummary = "No summary available."

// ErrEmptyText is returned when there is nothing to summarize
var ErrEmptyText = errors.New("no text provided")

// Summarizer condenses article text into a short summary
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

// Lead is an extractive summarizer: it keeps the leading sentences of the text
type Lead struct {
	MaxSentences int // Sentences kept (<=0 means 2)
	MaxChars     int // Hard cap on summary length in runes (<=0 means 320)
}

// NewLead creates a lead summarizer
func NewLead(maxSentences, maxChars int) *Lead {
	return &Lead{MaxSentences: maxSentences, MaxChars: maxChars}
}

// Summarize returns the first sentences of text, cut on a word boundary at MaxChars
func (l *Lead) Summarize(ctx context.Context, text string) (string, error) {
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return "", ErrEmptyText
	}

	maxSentences := l.MaxSentences
	if maxSentences <= 0 {
		maxSentences = 2
	}
	maxChars := l.MaxChars
	if maxChars <= 0 {
		maxChars = 320
	}

	sentences := splitSentences(text)
	if len(sentences) > maxSentences {
		sentences = sentences[:maxSentences]
	}
	return truncate(strings.Join(sentences, " "), maxChars), nil
}

// splitSentences splits on '.', '!' or '?' followed by a space and an upper-case letter or digit
func splitSentences(text string) []string {
	runes := []rune(text)
	var sentences []string
	start := 0
	for i := 0; i < len(runes); i++ {
		if runes[i] != '.' && runes[i] != '!' && runes[i] != '?' {
			continue
		}
		if i+2 >= len(runes) || runes[i+1] != ' ' {
			continue
		}
		next := runes[i+2]
		if !unicode.IsUpper(next) && !unicode.IsDigit(next) && next != '"' {
			continue
		}
		sentences = append(sentences, strings.TrimSpace(string(runes[start:i+1])))
		start = i + 2
	}
	if tail := strings.TrimSpace(string(runes[start:])); tail != "" {
		sentences = append(sentences, tail)
	}
	return sentences
}

// truncate cuts s to at most max runes, preferring the last word boundary, and adds an ellipsis
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	cut := string(runes[:max])
	if i := strings.LastIndex(cut, " "); i > max/2 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,;:") + "…"
}

// Fallback tries Primary and falls back to Secondary when it fails or returns nothing
type Fallback struct {
	Primary   Summarizer
	Secondary Summarizer
}

// Summarize implements Summarizer
func (f *Fallback) Summarize(ctx context.Context, text string) (string, error) {
	summary, err := f.Primary.Summarize(ctx, text)
	if err == nil && strings.TrimSpace(summary) != "" {
		return summary, nil
	}
	if errors.Is(err, ErrEmptyText) {
		return "", err
	}
	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	return f.Secondary.Summarize(ctx, text)
}
