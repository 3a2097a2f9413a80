package dto

import (
	"time"

	"company-news/internal/domain/crawl"
)

type CrawlCreateRequest struct {
	CompanyID   string  `json:"company_id"`
	CompanyName *string `json:"company_name"`
}

type CrawlCreatedResponse struct {
	Message string `json:"message"`
	JobID   string `json:"jobId"`
}

type CrawlStatusResponse struct {
	JobID    string `json:"jobId"`
	Status   string `json:"status"`
	Progress int    `json:"progress"`
	Message  string `json:"message"`
}

// CrawlReportRequest is sent by the crawl worker.
type CrawlReportRequest struct {
	Status        string  `json:"status"`
	Progress      *int    `json:"progress"`
	Message       *string `json:"message"`
	ArticlesFound *int    `json:"articles_found"`
	ArticlesSaved *int    `json:"articles_saved"`
}

type CrawlJobResponse struct {
	JobID         string     `json:"job_id"`
	CompanyID     string     `json:"company_id"`
	CompanyName   string     `json:"company_name"`
	Status        string     `json:"status"`
	Progress      int        `json:"progress"`
	Message       string     `json:"message"`
	ArticlesFound int        `json:"articles_found"`
	ArticlesSaved int        `json:"articles_saved"`
	CreatedAt     time.Time  `json:"created_at"`
	StartedAt     *time.Time `json:"started_at"`
	CompletedAt   *time.Time `json:"completed_at"`
}

func NewCrawlStatusResponse(j crawl.Job) CrawlStatusResponse {
	return CrawlStatusResponse{
		JobID:    j.JobID,
		Status:   string(j.Status),
		Progress: j.Progress,
		Message:  j.Message,
	}
}

func NewCrawlJobResponse(j crawl.Job) CrawlJobResponse {
	return CrawlJobResponse{
		JobID:         j.JobID,
		CompanyID:     j.CompanyID,
		CompanyName:   j.CompanyName,
		Status:        string(j.Status),
		Progress:      j.Progress,
		Message:       j.Message,
		ArticlesFound: j.ArticlesFound,
		ArticlesSaved: j.ArticlesSaved,
		CreatedAt:     j.CreatedAt.UTC(),
		StartedAt:     j.StartedAt,
		CompletedAt:   j.CompletedAt,
	}
}
