package handler

import (
	"company-news/internal/delivery/http/dto"
	"company-news/internal/delivery/http/middleware"
	"company-news/internal/pkg/response"
	"company-news/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

// CrawlReportHandler receives progress callbacks from the crawl worker.
type CrawlReportHandler struct {
	uc            usecase.CrawlUsecase
	internalToken string
	logger        *zap.Logger
}

func NewCrawlReportHandler(uc usecase.CrawlUsecase, internalToken string, logger *zap.Logger) *CrawlReportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CrawlReportHandler{uc: uc, internalToken: internalToken, logger: logger}
}

func (h *CrawlReportHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Put("/internal/crawl/:jobId", middleware.InternalToken(h.internalToken), h.Report)
}

func (h *CrawlReportHandler) Report(c fiber.Ctx) error {
	var req dto.CrawlReportRequest
	if err := c.Bind().Body(&req); err != nil {
		h.logger.Warn("crawl report rejected", zap.String("job_id", c.Params("jobId")), zap.Error(err))
		return badBody(err)
	}

	job, err := h.uc.Report(c.Context(), c.Params("jobId"), usecase.CrawlReportInput{
		Status:        req.Status,
		Progress:      req.Progress,
		Message:       req.Message,
		ArticlesFound: req.ArticlesFound,
		ArticlesSaved: req.ArticlesSaved,
	})
	if err != nil {
		return mapUsecaseError(err, msgCrawlJobNotFound)
	}
	return response.Success(c, fiber.StatusOK, dto.NewCrawlJobResponse(job))
}
