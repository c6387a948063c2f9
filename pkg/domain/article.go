package domain

// Article represents a single summarized news item as served to viewers
type Article struct {
	Title   string `json:"title"`
	Image   string `json:"image"` // Image URL, empty when the feed has none
	Summary string `json:"summary"`
	URL     string `json:"url"`
}

// HasImage reports whether the article carries an image URL
func (a Article) HasImage() bool {
	return a.Image != ""
}

// CloneArticles returns a copy of the list so callers can't mutate shared state.
// A nil list stays nil.
func CloneArticles(articles []Article) []Article {
	if articles == nil {
		return nil
	}
	out := make([]Article, len(articles))
	copy(out, articles)
	return out
}
