package handler

import (
	"company-news/internal/delivery/http/dto"
	"company-news/internal/pkg/response"
	"company-news/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

const msgCrawlJobNotFound = "Crawl job not found"

type CrawlHandler struct {
	uc usecase.CrawlUsecase
}

func NewCrawlHandler(uc usecase.CrawlUsecase) *CrawlHandler {
	return &CrawlHandler{uc: uc}
}

// RegisterRoutes must run before the /news/:id routes.
func (h *CrawlHandler) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	if r == nil {
		return
	}

	r.Post("/news/crawl", auth, h.Create)
	r.Get("/news/crawl/status/:jobId", auth, h.Status)
}

func (h *CrawlHandler) Create(c fiber.Ctx) error {
	var req dto.CrawlCreateRequest
	if err := c.Bind().Body(&req); err != nil {
		return badBody(err)
	}

	job, err := h.uc.Create(c.Context(), req.CompanyID, req.CompanyName)
	if err != nil {
		return mapUsecaseError(err, msgCrawlJobNotFound)
	}
	return response.Success(c, fiber.StatusCreated, dto.CrawlCreatedResponse{
		Message: usecase.CrawlStartedMessage,
		JobID:   job.JobID,
	})
}

func (h *CrawlHandler) Status(c fiber.Ctx) error {
	job, err := h.uc.Status(c.Context(), c.Params("jobId"))
	if err != nil {
		return mapUsecaseError(err, msgCrawlJobNotFound)
	}
	return response.Success(c, fiber.StatusOK, dto.NewCrawlStatusResponse(job))
}
