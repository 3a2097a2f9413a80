package search

import (
	"cmp"
	"strings"
	"unicode"

	"company-news/internal/domain/news"
)

const (
	titleWeight   = 3.0
	summaryWeight = 1.0
	companyWeight = 1.0
	maxRelevance  = 10.0
)

// NormalizeQuery lowercases, drops punctuation and collapses whitespace.
func NormalizeQuery(input string) string {
	input = strings.TrimSpace(input)
	if input == "" {
		return ""
	}
	input = strings.ToLower(input)

	b := strings.Builder{}
	b.Grow(len(input))
	for _, r := range input {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Terms returns the scoring terms for a query: the lowercased phrase the text
// filter matches on first, then each distinct normalized word of a
// multi-word phrase.
func Terms(query string) []string {
	phrase := strings.ToLower(strings.TrimSpace(query))
	if phrase == "" {
		return nil
	}

	out := []string{phrase}
	if len(strings.Fields(phrase)) < 2 {
		return out
	}
	seen := map[string]struct{}{phrase: {}}
	for _, w := range strings.Fields(NormalizeQuery(phrase)) {
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}

// Relevance scores how well the article text matches the query terms:
// a title hit weighs 3, summary and company name 1 each, capped at 10.
func Relevance(a news.Article, terms []string) float64 {
	if len(terms) == 0 {
		return 0
	}

	title := strings.ToLower(a.Title)
	summary := strings.ToLower(a.Summary)
	company := strings.ToLower(a.CompanyName)

	score := 0.0
	for _, t := range terms {
		if t == "" {
			continue
		}
		if title != "" && strings.Contains(title, t) {
			score += titleWeight
		}
		if summary != "" && strings.Contains(summary, t) {
			score += summaryWeight
		}
		if company != "" && strings.Contains(company, t) {
			score += companyWeight
		}
		if score >= maxRelevance {
			return maxRelevance
		}
	}
	return score
}

// Comparator returns a total order for o. Every order ends on id ascending
// so equal-scored articles come back in a stable sequence.
func Comparator(o Order, query string) func(a, b news.Article) int {
	byLatest := func(a, b news.Article) int {
		if c := b.PublishedAt.Compare(a.PublishedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	}
	byPopularity := func(a, b news.Article) int {
		if c := cmp.Compare(b.PopularityScore, a.PopularityScore); c != 0 {
			return c
		}
		return byLatest(a, b)
	}

	switch o {
	case OrderPopularity:
		return byPopularity
	case OrderRelevance:
		terms := Terms(query)
		return func(a, b news.Article) int {
			if c := cmp.Compare(Relevance(b, terms), Relevance(a, terms)); c != 0 {
				return c
			}
			return byPopularity(a, b)
		}
	default:
		return byLatest
	}
}
