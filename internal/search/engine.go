package search

import (
	"slices"

	"company-news/internal/domain/news"
)

// Query is one ordered, paginated read. Limit <= 0 means unbounded.
type Query struct {
	Filter Filter
	Order  Order
	Limit  int
	Offset int
}

// Apply runs q over an in-memory article set and returns the requested page
// together with the pre-pagination match count. The input is not modified.
func Apply(articles []news.Article, q Query) ([]news.Article, int) {
	matched := make([]news.Article, 0, len(articles))
	for _, a := range articles {
		if q.Filter.Matches(a) {
			matched = append(matched, a)
		}
	}

	slices.SortStableFunc(matched, Comparator(q.Order, q.Filter.Query))

	total := len(matched)
	start := q.Offset
	if start < 0 {
		start = 0
	}
	if start > total {
		start = total
	}
	end := total
	if q.Limit > 0 && q.Limit < end-start {
		end = start + q.Limit
	}
	return matched[start:end], total
}
