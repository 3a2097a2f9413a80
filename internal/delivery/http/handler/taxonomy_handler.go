package handler

import (
	"company-news/internal/delivery/http/dto"
	"company-news/internal/pkg/response"
	"company-news/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type TaxonomyHandler struct {
	uc usecase.TaxonomyUsecase
}

func NewTaxonomyHandler(uc usecase.TaxonomyUsecase) *TaxonomyHandler {
	return &TaxonomyHandler{uc: uc}
}

func (h *TaxonomyHandler) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	if r == nil {
		return
	}

	r.Get("/categories", h.ListCategories)
	r.Post("/categories", auth, h.CreateCategory)
	r.Delete("/categories/:slug", auth, h.DeleteCategory)

	r.Get("/tags", h.ListTags)
	r.Post("/tags", auth, h.CreateTag)
}

func (h *TaxonomyHandler) ListCategories(c fiber.Ctx) error {
	cats, err := h.uc.Categories(c.Context())
	if err != nil {
		return mapUsecaseError(err, "")
	}
	out := make([]dto.CategoryResponse, 0, len(cats))
	for _, cat := range cats {
		out = append(out, dto.NewCategoryResponse(cat))
	}
	return response.Success(c, fiber.StatusOK, out)
}

func (h *TaxonomyHandler) CreateCategory(c fiber.Ctx) error {
	var req dto.CategoryRequest
	if err := c.Bind().Body(&req); err != nil {
		return badBody(err)
	}

	cat, err := h.uc.CreateCategory(c.Context(), req.Name, req.Slug, req.Description)
	if err != nil {
		return mapUsecaseError(err, "")
	}
	return response.Success(c, fiber.StatusCreated, dto.NewCategoryResponse(cat))
}

func (h *TaxonomyHandler) DeleteCategory(c fiber.Ctx) error {
	if err := h.uc.DeleteCategory(c.Context(), c.Params("slug")); err != nil {
		return mapUsecaseError(err, "Category not found")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *TaxonomyHandler) ListTags(c fiber.Ctx) error {
	tags, err := h.uc.Tags(c.Context())
	if err != nil {
		return mapUsecaseError(err, "")
	}
	out := make([]dto.TagResponse, 0, len(tags))
	for _, t := range tags {
		out = append(out, dto.NewTagResponse(t))
	}
	return response.Success(c, fiber.StatusOK, out)
}

func (h *TaxonomyHandler) CreateTag(c fiber.Ctx) error {
	var req dto.TagRequest
	if err := c.Bind().Body(&req); err != nil {
		return badBody(err)
	}

	t, err := h.uc.CreateTag(c.Context(), req.Name, req.Slug)
	if err != nil {
		return mapUsecaseError(err, "")
	}
	return response.Success(c, fiber.StatusCreated, dto.NewTagResponse(t))
}
