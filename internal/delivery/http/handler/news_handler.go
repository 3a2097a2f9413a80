package handler

import (
	"company-news/internal/delivery/http/dto"
	"company-news/internal/pkg/response"
	"company-news/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

const msgArticleNotFound = "News article not found"

type NewsHandler struct {
	uc usecase.NewsUsecase
}

func NewNewsHandler(uc usecase.NewsUsecase) *NewsHandler {
	return &NewsHandler{uc: uc}
}

// RegisterRoutes mounts the read routes on r and the write routes behind
// auth. Static paths go before /news/:id.
func (h *NewsHandler) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	if r == nil {
		return
	}

	r.Get("/news/latest", h.Latest)
	r.Get("/news/search", h.Search)
	r.Get("/news/company/:companyId", h.ByCompany)
	r.Get("/news/trending", h.Trending)
	r.Get("/news/sentiment", h.BySentiment)

	r.Get("/news", h.List)
	r.Post("/news", auth, h.Create)
	r.Get("/news/:id", h.Get)
	r.Put("/news/:id", auth, h.Update)
	r.Patch("/news/:id", auth, h.Patch)
	r.Delete("/news/:id", auth, h.Delete)
}

func (h *NewsHandler) Latest(c fiber.Ctx) error {
	out, err := h.uc.Latest(c.Context(), c.Query("limit"))
	if err != nil {
		return mapUsecaseError(err, msgArticleNotFound)
	}
	return response.Success(c, fiber.StatusOK, dto.NewArticleListResponse(out))
}

func (h *NewsHandler) ByCompany(c fiber.Ctx) error {
	out, err := h.uc.ByCompany(c.Context(), c.Params("companyId"), c.Query("limit"))
	if err != nil {
		return mapUsecaseError(err, msgArticleNotFound)
	}
	return response.Success(c, fiber.StatusOK, dto.NewArticleListResponse(out))
}

func (h *NewsHandler) Trending(c fiber.Ctx) error {
	out, err := h.uc.Trending(c.Context(), c.Query("limit"))
	if err != nil {
		return mapUsecaseError(err, msgArticleNotFound)
	}
	return response.Success(c, fiber.StatusOK, dto.NewArticleListResponse(out))
}

func (h *NewsHandler) BySentiment(c fiber.Ctx) error {
	out, err := h.uc.BySentiment(c.Context(), c.Query("sentiment"), c.Query("companyId"), c.Query("limit"))
	if err != nil {
		return mapUsecaseError(err, msgArticleNotFound)
	}
	return response.Success(c, fiber.StatusOK, dto.NewArticleListResponse(out))
}

func (h *NewsHandler) Search(c fiber.Ctx) error {
	out, err := h.uc.Search(c.Context(), usecase.SearchParams{
		Query:     c.Query("query"),
		CompanyID: c.Query("company_id"),
		Sentiment: c.Query("sentiment"),
		Category:  c.Query("category"),
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
		SortBy:    c.Query("sort_by"),
		Limit:     c.Query("limit"),
		Offset:    c.Query("offset"),
	})
	if err != nil {
		return mapUsecaseError(err, msgArticleNotFound)
	}
	return response.Success(c, fiber.StatusOK, dto.NewArticleListResponse(out))
}

func (h *NewsHandler) List(c fiber.Ctx) error {
	out, err := h.uc.List(c.Context(), usecase.ListParams{
		CompanyID: c.Query("company_id"),
		Sentiment: c.Query("sentiment"),
		Category:  c.Query("category"),
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
		SortBy:    c.Query("sort_by"),
		Page:      c.Query("page"),
		Limit:     c.Query("limit"),
	})
	if err != nil {
		return mapUsecaseError(err, "Invalid page")
	}
	return response.Success(c, fiber.StatusOK, dto.NewArticleListResponse(out))
}

func (h *NewsHandler) Get(c fiber.Ctx) error {
	a, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return mapUsecaseError(err, msgArticleNotFound)
	}
	return response.Success(c, fiber.StatusOK, dto.NewArticleDetailResponse(a))
}

func (h *NewsHandler) Create(c fiber.Ctx) error {
	var req dto.ArticleRequest
	if err := c.Bind().Body(&req); err != nil {
		return badBody(err)
	}

	a, err := h.uc.Create(c.Context(), req.ToInput())
	if err != nil {
		return mapUsecaseError(err, msgArticleNotFound)
	}
	return response.Success(c, fiber.StatusCreated, dto.NewArticleDetailResponse(a))
}

func (h *NewsHandler) Update(c fiber.Ctx) error {
	var req dto.ArticleRequest
	if err := c.Bind().Body(&req); err != nil {
		return badBody(err)
	}

	a, err := h.uc.Update(c.Context(), c.Params("id"), req.ToInput())
	if err != nil {
		return mapUsecaseError(err, msgArticleNotFound)
	}
	return response.Success(c, fiber.StatusOK, dto.NewArticleDetailResponse(a))
}

func (h *NewsHandler) Patch(c fiber.Ctx) error {
	var req dto.ArticleRequest
	if err := c.Bind().Body(&req); err != nil {
		return badBody(err)
	}

	a, err := h.uc.Patch(c.Context(), c.Params("id"), req.ToInput())
	if err != nil {
		return mapUsecaseError(err, msgArticleNotFound)
	}
	return response.Success(c, fiber.StatusOK, dto.NewArticleDetailResponse(a))
}

func (h *NewsHandler) Delete(c fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id")); err != nil {
		return mapUsecaseError(err, msgArticleNotFound)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
