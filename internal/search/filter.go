package search

import (
	"strings"
	"time"

	"company-news/internal/domain/news"
)

// Filter is a conjunction of optional predicates over active articles. Zero
// values mean "not supplied".
type Filter struct {
	Query         string
	CompanyID     string
	Sentiment     news.Sentiment
	CategorySlug  string
	PublishedFrom *time.Time
	PublishedTo   *time.Time
}

func (f Filter) Empty() bool {
	return f.Query == "" && f.CompanyID == "" && f.Sentiment == "" &&
		f.CategorySlug == "" && f.PublishedFrom == nil && f.PublishedTo == nil
}

// Matches applies every supplied predicate. Inactive articles never match.
func (f Filter) Matches(a news.Article) bool {
	if !a.IsActive {
		return false
	}
	if f.Query != "" && !MatchesText(a, f.Query) {
		return false
	}
	if f.CompanyID != "" && a.CompanyID != f.CompanyID {
		return false
	}
	if f.Sentiment != "" && a.Sentiment != f.Sentiment {
		return false
	}
	if f.CategorySlug != "" && (a.Category == nil || a.Category.Slug != f.CategorySlug) {
		return false
	}
	if f.PublishedFrom != nil && a.PublishedAt.Before(*f.PublishedFrom) {
		return false
	}
	if f.PublishedTo != nil && a.PublishedAt.After(*f.PublishedTo) {
		return false
	}
	return true
}

// MatchesText is a case-insensitive substring test against the search text,
// title, summary or company name.
func MatchesText(a news.Article, query string) bool {
	q := strings.ToLower(query)
	if q == "" {
		return true
	}
	return strings.Contains(a.SearchText(), q) ||
		strings.Contains(strings.ToLower(a.Title), q) ||
		strings.Contains(strings.ToLower(a.Summary), q) ||
		strings.Contains(strings.ToLower(a.CompanyName), q)
}
