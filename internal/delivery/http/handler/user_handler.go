package handler

import (
	"company-news/internal/delivery/http/dto"
	"company-news/internal/delivery/http/middleware"
	"company-news/internal/pkg/response"
	"company-news/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type UserHandler struct {
	uc usecase.AuthUsecase
}

func NewUserHandler(uc usecase.AuthUsecase) *UserHandler {
	return &UserHandler{uc: uc}
}

// RegisterRoutes expects r to already carry the auth middleware.
func (h *UserHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/me", h.GetMe)
}

func (h *UserHandler) GetMe(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, response.MessageUnauthorized, nil, nil)
	}

	usr, err := h.uc.Me(c.Context(), userID)
	if err != nil {
		return mapUsecaseError(err, "User not found")
	}
	return response.Success(c, fiber.StatusOK, dto.NewUserResponse(usr))
}
