package dto

import (
	"time"

	"company-news/internal/domain/news"
	"company-news/internal/usecase"
)

type CategoryResponse struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

type TagResponse struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type ArticleResponse struct {
	ID              string            `json:"id"`
	Title           string            `json:"title"`
	Summary         string            `json:"summary"`
	URL             string            `json:"url"`
	PublishedAt     time.Time         `json:"published_at"`
	Source          string            `json:"source"`
	CompanyID       *string           `json:"company_id"`
	CompanyName     string            `json:"company_name"`
	Sentiment       string            `json:"sentiment"`
	Category        *CategoryResponse `json:"category"`
	Tags            []TagResponse     `json:"tags"`
	ViewCount       int64             `json:"view_count"`
	PopularityScore float64           `json:"popularity_score"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// ArticleDetailResponse adds the long-form fields returned by the detail and
// write routes.
type ArticleDetailResponse struct {
	ArticleResponse
	Content string `json:"content"`
	Author  string `json:"author"`
}

type ArticleListResponse struct {
	Articles    []ArticleResponse `json:"articles"`
	Total       int               `json:"total"`
	HasNextPage bool              `json:"hasNextPage"`
	Page        int               `json:"page,omitempty"`
}

// ArticleRequest is the create/update body. Pointers distinguish absent
// fields from empty ones for PATCH.
type ArticleRequest struct {
	ID          *string   `json:"id"`
	Title       *string   `json:"title"`
	Summary     *string   `json:"summary"`
	Content     *string   `json:"content"`
	URL         *string   `json:"url"`
	PublishedAt *string   `json:"published_at"`
	Source      *string   `json:"source"`
	Author      *string   `json:"author"`
	CompanyID   *string   `json:"company_id"`
	CompanyName *string   `json:"company_name"`
	Sentiment   *string   `json:"sentiment"`
	Category    *string   `json:"category"`
	Tags        *[]string `json:"tags"`
}

func (r ArticleRequest) ToInput() usecase.ArticleInput {
	return usecase.ArticleInput{
		ID:          r.ID,
		Title:       r.Title,
		Summary:     r.Summary,
		Content:     r.Content,
		URL:         r.URL,
		PublishedAt: r.PublishedAt,
		Source:      r.Source,
		Author:      r.Author,
		CompanyID:   r.CompanyID,
		CompanyName: r.CompanyName,
		Sentiment:   r.Sentiment,
		Category:    r.Category,
		Tags:        r.Tags,
	}
}

func NewCategoryResponse(c news.Category) CategoryResponse {
	return CategoryResponse{Name: c.Name, Slug: c.Slug, Description: c.Description}
}

func NewTagResponse(t news.Tag) TagResponse {
	return TagResponse{Name: t.Name, Slug: t.Slug}
}

func NewArticleResponse(a news.Article) ArticleResponse {
	out := ArticleResponse{
		ID:              a.ID,
		Title:           a.Title,
		Summary:         a.Summary,
		URL:             a.URL,
		PublishedAt:     a.PublishedAt.UTC(),
		Source:          a.Source,
		CompanyName:     a.CompanyName,
		Sentiment:       string(a.Sentiment),
		Tags:            make([]TagResponse, 0, len(a.Tags)),
		ViewCount:       a.ViewCount,
		PopularityScore: a.PopularityScore,
		CreatedAt:       a.CreatedAt.UTC(),
		UpdatedAt:       a.UpdatedAt.UTC(),
	}
	if a.CompanyID != "" {
		id := a.CompanyID
		out.CompanyID = &id
	}
	if a.Category != nil {
		c := NewCategoryResponse(*a.Category)
		out.Category = &c
	}
	for _, t := range a.Tags {
		out.Tags = append(out.Tags, NewTagResponse(t))
	}
	return out
}

func NewArticleDetailResponse(a news.Article) ArticleDetailResponse {
	return ArticleDetailResponse{
		ArticleResponse: NewArticleResponse(a),
		Content:         a.Content,
		Author:          a.Author,
	}
}

func NewArticleListResponse(l usecase.ArticleList) ArticleListResponse {
	out := ArticleListResponse{
		Articles:    make([]ArticleResponse, 0, len(l.Articles)),
		Total:       l.Total,
		HasNextPage: l.HasNextPage,
		Page:        l.Page,
	}
	for _, a := range l.Articles {
		out.Articles = append(out.Articles, NewArticleResponse(a))
	}
	return out
}
