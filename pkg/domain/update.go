package domain

import "sort"

// NewsUpdate maps a category to its ordered article list.
// It is the payload of the news_update push event.
type NewsUpdate map[Category][]Article

// Lookup returns the articles for c. A missing key or a JSON null value is
// reported as absent; an empty list is present.
func (u NewsUpdate) Lookup(c Category) ([]Article, bool) {
	articles, ok := u[c]
	if !ok || articles == nil {
		return nil, false
	}
	return articles, true
}

// Categories returns the categories present in the update, sorted
func (u NewsUpdate) Categories() []Category {
	out := make([]Category, 0, len(u))
	for c := range u {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Clone deep-copies the update
func (u NewsUpdate) Clone() NewsUpdate {
	if u == nil {
		return nil
	}
	out := make(NewsUpdate, len(u))
	for c, articles := range u {
		out[c] = CloneArticles(articles)
	}
	return out
}
