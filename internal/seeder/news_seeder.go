// Package seeder fills a fresh datastore with sample taxonomy and articles.
package seeder

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"company-news/internal/domain/news"
	"company-news/internal/repository"

	"go.uber.org/zap"
)

const DefaultCount = 20

type sampleArticle struct {
	Title       string
	Summary     string
	CompanyID   string
	CompanyName string
	Source      string
	Sentiment   news.Sentiment
	Category    string
	Tags        []string
}

var sampleCategories = []news.Category{
	{Name: "Technology", Slug: "tech", Description: "Technology news"},
	{Name: "Finance", Slug: "finance", Description: "Finance and economy news"},
	{Name: "Business", Slug: "business", Description: "Business news"},
	{Name: "Market", Slug: "market", Description: "Stock and market trends"},
}

var sampleTags = []news.Tag{
	{Name: "AI", Slug: "ai"},
	{Name: "Semiconductor", Slug: "semiconductor"},
	{Name: "EV", Slug: "ev"},
	{Name: "Samsung", Slug: "samsung"},
	{Name: "LG", Slug: "lg"},
	{Name: "SK", Slug: "sk"},
	{Name: "Earnings", Slug: "earnings"},
	{Name: "Investment", Slug: "investment"},
}

var sampleArticles = []sampleArticle{
	{
		Title:       "Samsung Electronics shares rise on new AI chip",
		Summary:     "Samsung Electronics unveiled its next-generation AI semiconductor, drawing investor attention.",
		CompanyID:   "samsung_001",
		CompanyName: "Samsung Electronics",
		Source:      "Korea Economic Daily",
		Sentiment:   news.SentimentPositive,
		Category:    "tech",
		Tags:        []string{"ai", "samsung", "semiconductor"},
	},
	{
		Title:       "LG Electronics posts 15% year-on-year growth in Q3",
		Summary:     "LG Electronics third-quarter results grew 15% compared with the same period last year.",
		CompanyID:   "lg_001",
		CompanyName: "LG Electronics",
		Source:      "Maeil Business",
		Sentiment:   news.SentimentPositive,
		Category:    "finance",
		Tags:        []string{"lg", "earnings"},
	},
	{
		Title:       "SK Hynix expands output as memory demand surges",
		Summary:     "SK Hynix said it will sharply raise production to meet growing memory chip demand.",
		CompanyID:   "sk_hynix_001",
		CompanyName: "SK Hynix",
		Source:      "Electronic Times",
		Sentiment:   news.SentimentPositive,
		Category:    "tech",
		Tags:        []string{"sk", "semiconductor"},
	},
	{
		Title:       "Hyundai delays production over EV battery supply",
		Summary:     "Hyundai Motor said battery supply disruptions are delaying production of some EV models.",
		CompanyID:   "hyundai_001",
		CompanyName: "Hyundai Motor",
		Source:      "Chosun Ilbo",
		Sentiment:   news.SentimentNegative,
		Category:    "business",
		Tags:        []string{"ev", "investment"},
	},
	{
		Title:       "Naver plans large investment in AI search",
		Summary:     "Naver announced a 100 billion won investment in AI-based search technology.",
		CompanyID:   "naver_001",
		CompanyName: "Naver",
		Source:      "IT Chosun",
		Sentiment:   news.SentimentPositive,
		Category:    "tech",
		Tags:        []string{"ai", "investment"},
	},
}

type Result struct {
	Categories int
	Tags       int
	Articles   int
}

// NewsSeeder creates missing sample categories and tags, then Count articles
// cycling through the samples. Existing ids are skipped, so reruns on the
// same day are idempotent.
type NewsSeeder struct {
	Articles repository.ArticleRepository
	Taxonomy repository.TaxonomyRepository
	Count    int
	Logger   *zap.Logger

	Now  func() time.Time
	Rand *rand.Rand
}

func (NewsSeeder) Name() string { return "news" }

func (s NewsSeeder) Run(ctx context.Context) (Result, error) {
	log := s.Logger
	if log == nil {
		log = zap.NewNop()
	}
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	rng := s.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
	}
	count := s.Count
	if count <= 0 {
		count = DefaultCount
	}

	var res Result

	categories := make(map[string]news.Category, len(sampleCategories))
	for _, c := range sampleCategories {
		got, created, err := s.ensureCategory(ctx, c)
		if err != nil {
			return res, err
		}
		if created {
			res.Categories++
			log.Info("created category", zap.String("slug", got.Slug))
		}
		categories[got.Slug] = got
	}

	tags := make(map[string]news.Tag, len(sampleTags))
	for _, t := range sampleTags {
		got, created, err := s.ensureTag(ctx, t)
		if err != nil {
			return res, err
		}
		if created {
			res.Tags++
			log.Info("created tag", zap.String("slug", got.Slug))
		}
		tags[got.Slug] = got
	}

	ts := now().UTC()
	for i := 0; i < count; i++ {
		base := sampleArticles[i%len(sampleArticles)]
		id := fmt.Sprintf("news_%s_%04d", ts.Format("20060102"), i)

		a := news.Article{
			ID:          id,
			Title:       fmt.Sprintf("%s (%d)", base.Title, i+1),
			Summary:     base.Summary,
			URL:         "https://news.example.com/article/" + id,
			Source:      base.Source,
			CompanyID:   base.CompanyID,
			CompanyName: base.CompanyName,
			Sentiment:   base.Sentiment,
			PublishedAt: ts.Add(-time.Duration(rng.IntN(30))*24*time.Hour -
				time.Duration(rng.IntN(24))*time.Hour -
				time.Duration(rng.IntN(60))*time.Minute),
			PopularityScore: 0.1 + rng.Float64()*9.9,
			ViewCount:       int64(rng.IntN(1001)),
		}
		if c, ok := categories[base.Category]; ok {
			a.Category = &c
		}
		for _, slug := range base.Tags {
			if t, ok := tags[slug]; ok {
				a.Tags = append(a.Tags, t)
			}
		}

		if _, err := s.Articles.Create(ctx, a); err != nil {
			if errors.Is(err, news.ErrAlreadyExists) {
				continue
			}
			return res, fmt.Errorf("seed article %s: %w", id, err)
		}
		res.Articles++
	}

	log.Info("seeded sample news",
		zap.Int("categories", res.Categories),
		zap.Int("tags", res.Tags),
		zap.Int("articles", res.Articles),
	)
	return res, nil
}

func (s NewsSeeder) ensureCategory(ctx context.Context, c news.Category) (news.Category, bool, error) {
	got, err := s.Taxonomy.GetCategoryBySlug(ctx, c.Slug)
	if err == nil {
		return got, false, nil
	}
	if !errors.Is(err, news.ErrCategoryNotFound) {
		return news.Category{}, false, err
	}
	got, err = s.Taxonomy.CreateCategory(ctx, c)
	if err != nil {
		return news.Category{}, false, fmt.Errorf("seed category %s: %w", c.Slug, err)
	}
	return got, true, nil
}

func (s NewsSeeder) ensureTag(ctx context.Context, t news.Tag) (news.Tag, bool, error) {
	got, err := s.Taxonomy.GetTagsBySlugs(ctx, []string{t.Slug})
	if err == nil && len(got) == 1 {
		return got[0], false, nil
	}
	if err != nil && !errors.Is(err, news.ErrTagNotFound) {
		return news.Tag{}, false, err
	}
	created, err := s.Taxonomy.CreateTag(ctx, t)
	if err != nil {
		return news.Tag{}, false, fmt.Errorf("seed tag %s: %w", t.Slug, err)
	}
	return created, true, nil
}
