package content

import (
	"html"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
)

// strictPolicy strips every tag; it is safe for concurrent use once built
var strictPolicy = bluemonday.StrictPolicy()

// PlainText turns a feed description (often an HTML fragment) into plain text
func PlainText(description string) string {
	if strings.TrimSpace(description) == "" {
		return ""
	}
	// Block-level tags become word boundaries before stripping
	spaced := strings.NewReplacer("<", " <", ">", "> ").Replace(description)
	stripped := strictPolicy.Sanitize(spaced)
	return collapseSpaces(html.UnescapeString(stripped))
}

// FirstImage returns the first http(s) <img src> found in an HTML fragment
func FirstImage(fragment string) string {
	if !strings.Contains(fragment, "<img") {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return ""
	}

	var found string
	doc.Find("img[src]").EachWithBreak(func(i int, s *goquery.Selection) bool {
		src, _ := s.Attr("src")
		u, err := url.Parse(strings.TrimSpace(src))
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			return true
		}
		found = u.String()
		return false
	})
	return found
}

// collapseSpaces trims s and folds every whitespace run into one space
func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
