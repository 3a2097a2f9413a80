package usecase

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"company-news/internal/search"
)

const (
	searchCachePrefix  = "news:search:"
	searchCachePattern = searchCachePrefix + "*"
)

type searchCacheKeyInput struct {
	Query     string `json:"query"`
	CompanyID string `json:"company_id"`
	Sentiment string `json:"sentiment"`
	Category  string `json:"category"`
	From      string `json:"from"`
	To        string `json:"to"`
	Order     string `json:"order"`
	Limit     int    `json:"limit"`
	Offset    int    `json:"offset"`
}

// Text matching is case-insensitive substring, so case folds but inner
// whitespace does not.
func normalizeSearchValue(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func formatBound(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

// SearchCacheKey is stable for equivalent queries. Company id and category
// are exact-match filters and keep their case.
func SearchCacheKey(q search.Query) string {
	in := searchCacheKeyInput{
		Query:     normalizeSearchValue(q.Filter.Query),
		CompanyID: strings.TrimSpace(q.Filter.CompanyID),
		Sentiment: string(q.Filter.Sentiment),
		Category:  strings.TrimSpace(q.Filter.CategorySlug),
		From:      formatBound(q.Filter.PublishedFrom),
		To:        formatBound(q.Filter.PublishedTo),
		Order:     string(q.Order),
		Limit:     q.Limit,
		Offset:    q.Offset,
	}

	b, _ := json.Marshal(in)
	sum := sha256.Sum256(b)
	return searchCachePrefix + hex.EncodeToString(sum[:])
}
