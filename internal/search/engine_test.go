package search

import (
	"fmt"
	"testing"
	"time"

	"company-news/internal/domain/news"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func tech() *news.Category {
	return &news.Category{ID: 1, Name: "Tech", Slug: "tech"}
}

// fixture mirrors the three-article set used across the API tests: scores
// 8.5, 7.2, 5.0 published newest to oldest.
func fixture() []news.Article {
	return []news.Article{
		{
			ID: "test_001", Title: "Samsung unveils new product", Summary: "Samsung announced a new product",
			CompanyID: "samsung_001", CompanyName: "Samsung Electronics", Source: "Tech Daily",
			Sentiment: news.SentimentPositive, Category: tech(), PopularityScore: 8.5,
			PublishedAt: base.Add(-1 * time.Hour), IsActive: true,
		},
		{
			ID: "test_002", Title: "LG earnings beat", Summary: "LG posted strong results",
			CompanyID: "lg_001", CompanyName: "LG Electronics", Source: "Economy Times",
			Sentiment: news.SentimentPositive, Category: tech(), PopularityScore: 7.2,
			PublishedAt: base.Add(-2 * time.Hour), IsActive: true,
		},
		{
			ID: "test_003", Title: "Hyundai recall", Summary: "Hyundai faces an issue",
			CompanyID: "hyundai_001", CompanyName: "Hyundai Motor", Source: "Auto News",
			Sentiment: news.SentimentNegative, PopularityScore: 5.0,
			PublishedAt: base.Add(-3 * time.Hour), IsActive: true,
		},
	}
}

func ids(as []news.Article) []string {
	out := make([]string, 0, len(as))
	for _, a := range as {
		out = append(out, a.ID)
	}
	return out
}

func TestApply_PopularityAndLatestAgree(t *testing.T) {
	got, total := Apply(fixture(), Query{Order: OrderPopularity})
	assert.Equal(t, 3, total)
	assert.Equal(t, []string{"test_001", "test_002", "test_003"}, ids(got))

	got, _ = Apply(fixture(), Query{Order: OrderLatest})
	assert.Equal(t, []string{"test_001", "test_002", "test_003"}, ids(got))
}

func TestApply_PopularityAndLatestDiverge(t *testing.T) {
	arts := fixture()
	arts[2].PopularityScore = 9.9

	got, _ := Apply(arts, Query{Order: OrderPopularity})
	assert.Equal(t, []string{"test_003", "test_001", "test_002"}, ids(got))

	got, _ = Apply(arts, Query{Order: OrderLatest})
	assert.Equal(t, []string{"test_001", "test_002", "test_003"}, ids(got))
}

func TestApply_PopularityTiesBreakByRecency(t *testing.T) {
	arts := fixture()
	for i := range arts {
		arts[i].PopularityScore = 4
	}
	arts[0].PublishedAt = base.Add(-10 * time.Hour)

	got, _ := Apply(arts, Query{Order: OrderPopularity})
	assert.Equal(t, []string{"test_002", "test_003", "test_001"}, ids(got))
}

func TestApply_OffsetPagination(t *testing.T) {
	got, total := Apply(fixture(), Query{Order: OrderLatest, Limit: 2, Offset: 1})
	assert.Equal(t, 3, total)
	assert.Equal(t, []string{"test_002", "test_003"}, ids(got))
	assert.False(t, HasMoreByOffset(1, 2, total))

	got, total = Apply(fixture(), Query{Order: OrderLatest, Limit: 2, Offset: 5})
	assert.Empty(t, got)
	assert.Equal(t, 3, total)
}

func TestApply_SkipsInactive(t *testing.T) {
	arts := fixture()
	arts[0].IsActive = false

	got, total := Apply(arts, Query{Order: OrderLatest})
	assert.Equal(t, 2, total)
	assert.NotContains(t, ids(got), "test_001")
}

func TestApply_NoMatchesIsEmpty(t *testing.T) {
	got, total := Apply(fixture(), Query{Filter: Filter{Query: "no such thing"}})
	assert.Empty(t, got)
	assert.Zero(t, total)
}

func TestFilter_TextMatchIsCaseInsensitiveAcrossFields(t *testing.T) {
	cases := map[string][]string{
		"SAMSUNG":       {"test_001"},
		"strong":        {"test_002"},
		"hyundai motor": {"test_003"},
		"auto news":     {"test_003"},
		"electronics":   {"test_001", "test_002"},
	}
	for q, want := range cases {
		got, _ := Apply(fixture(), Query{Filter: Filter{Query: q}, Order: OrderLatest})
		assert.Equal(t, want, ids(got), q)
	}
}

func TestFilter_Conjunction(t *testing.T) {
	from := base.Add(-150 * time.Minute)
	to := base

	filters := []Filter{
		{Sentiment: news.SentimentPositive},
		{Sentiment: news.SentimentPositive, CategorySlug: "tech"},
		{CompanyID: "lg_001", Sentiment: news.SentimentPositive},
		{CompanyID: "lg_001", Sentiment: news.SentimentNegative},
		{PublishedFrom: &from},
		{PublishedFrom: &from, PublishedTo: &to, Query: "lg"},
		{CategorySlug: "tech", Query: "electronics", PublishedTo: &to},
	}

	for i, f := range filters {
		t.Run(fmt.Sprintf("filter_%d", i), func(t *testing.T) {
			got, total := Apply(fixture(), Query{Filter: f, Order: OrderLatest})
			assert.Equal(t, len(got), total)
			for _, a := range got {
				assert.True(t, f.Matches(a))
				if f.Sentiment != "" {
					assert.Equal(t, f.Sentiment, a.Sentiment)
				}
				if f.CompanyID != "" {
					assert.Equal(t, f.CompanyID, a.CompanyID)
				}
				if f.CategorySlug != "" {
					require.NotNil(t, a.Category)
					assert.Equal(t, f.CategorySlug, a.Category.Slug)
				}
				if f.PublishedFrom != nil {
					assert.False(t, a.PublishedAt.Before(*f.PublishedFrom))
				}
				if f.PublishedTo != nil {
					assert.False(t, a.PublishedAt.After(*f.PublishedTo))
				}
				if f.Query != "" {
					assert.True(t, MatchesText(a, f.Query))
				}
			}
		})
	}
}

func TestFilter_DateBoundsAreInclusive(t *testing.T) {
	exact := base.Add(-2 * time.Hour)
	got, _ := Apply(fixture(), Query{Filter: Filter{PublishedFrom: &exact, PublishedTo: &exact}})
	assert.Equal(t, []string{"test_002"}, ids(got))
}

func TestApply_OrdersAreMonotonic(t *testing.T) {
	arts := make([]news.Article, 0, 40)
	for i := 0; i < 40; i++ {
		arts = append(arts, news.Article{
			ID:              fmt.Sprintf("a%02d", i),
			Title:           "story",
			PublishedAt:     base.Add(time.Duration((i*7)%13) * time.Hour),
			PopularityScore: float64((i * 5) % 9),
			IsActive:        true,
		})
	}

	latest, _ := Apply(arts, Query{Order: OrderLatest})
	for i := 1; i < len(latest); i++ {
		assert.False(t, latest[i].PublishedAt.After(latest[i-1].PublishedAt))
	}

	pop, _ := Apply(arts, Query{Order: OrderPopularity})
	for i := 1; i < len(pop); i++ {
		prev, cur := pop[i-1], pop[i]
		require.LessOrEqual(t, cur.PopularityScore, prev.PopularityScore)
		if cur.PopularityScore == prev.PopularityScore {
			assert.False(t, cur.PublishedAt.After(prev.PublishedAt))
		}
	}
}

func TestApply_RelevanceScoring(t *testing.T) {
	arts := fixture()
	arts = append(arts, news.Article{
		ID: "test_004", Title: "Market wrap", Summary: "Samsung and others moved",
		CompanyName: "Various", PopularityScore: 9.9, PublishedAt: base, IsActive: true,
	})

	got, _ := Apply(arts, Query{Filter: Filter{Query: "samsung"}, Order: OrderRelevance})
	assert.Equal(t, []string{"test_001", "test_004"}, ids(got))

	got, _ = Apply(arts, Query{Filter: Filter{Query: "samsung"}, Order: OrderPopularity})
	assert.Equal(t, []string{"test_004", "test_001"}, ids(got))
}

func TestApply_RelevanceScoresTheFilteredPhrase(t *testing.T) {
	arts := []news.Article{
		{
			ID: "cpp_001", Title: "Cloud costs fall", Summary: "c++ builds got cheaper",
			CompanyName: "Acme", PopularityScore: 9.0, PublishedAt: base, IsActive: true,
		},
		{
			ID: "cpp_002", Title: "C++26 draft approved", Summary: "committee vote",
			CompanyName: "ISO", PopularityScore: 1.0, PublishedAt: base, IsActive: true,
		},
		{
			ID: "cpp_003", Title: "C compiler update", Summary: "a plain c release",
			CompanyName: "Acme", PopularityScore: 5.0, PublishedAt: base, IsActive: true,
		},
	}

	got, total := Apply(arts, Query{Filter: Filter{Query: "c++"}, Order: OrderRelevance})
	require.Equal(t, 2, total)
	assert.Equal(t, []string{"cpp_002", "cpp_001"}, ids(got))
}
