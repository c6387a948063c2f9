package domain

import (
	"fmt"
	"strings"
)

// Category is a news topic label used to filter and query articles
type Category string

const (
	General       Category = "general"
	Technology    Category = "technology"
	Business      Category = "business"
	Sports        Category = "sports"
	Entertainment Category = "entertainment"
)

// DefaultCategory is selected when a viewer opens
const DefaultCategory = Technology

// Categories is the fixed set offered to viewers, in display order
var Categories = []Category{Technology, Business, Sports, Entertainment}

// String returns the raw label
func (c Category) String() string {
	return string(c)
}

// Label returns the capitalized label used on buttons ("technology" -> "Technology")
func (c Category) Label() string {
	if c == "" {
		return ""
	}
	s := string(c)
	return strings.ToUpper(s[:1]) + s[1:]
}

// ParseCategory normalizes raw and checks it against the allowed set.
// If allowed is empty, Categories is used.
func ParseCategory(raw string, allowed ...Category) (Category, error) {
	if len(allowed) == 0 {
		allowed = Categories
	}
	c := Category(strings.ToLower(strings.TrimSpace(raw)))
	for _, a := range allowed {
		if c == a {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", raw)
}

// Contains reports whether c is one of set
func Contains(set []Category, c Category) bool {
	for _, s := range set {
		if s == c {
			return true
		}
	}
	return false
}
