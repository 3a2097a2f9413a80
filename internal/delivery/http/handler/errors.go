package handler

import (
	"errors"

	"company-news/internal/delivery/http/middleware"
	"company-news/internal/pkg/response"
	"company-news/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

const msgConflict = "Resource already exists"

// mapUsecaseError turns a usecase sentinel into an AppError. notFound is the
// message for ErrNotFound on this route.
func mapUsecaseError(err error, notFound string) error {
	if err == nil {
		return nil
	}

	var (
		v *usecase.ValidationError
		c *usecase.ConflictError
	)
	switch {
	case errors.As(err, &v):
		return middleware.NewAppError(fiber.StatusBadRequest, v.Message, v.Fields, err)
	case errors.As(err, &c):
		return middleware.NewAppError(fiber.StatusConflict, c.Message, nil, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, response.MessageBadRequest, nil, err)
	case errors.Is(err, usecase.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, notFound, nil, err)
	case errors.Is(err, usecase.ErrConflict):
		return middleware.NewAppError(fiber.StatusConflict, msgConflict, nil, err)
	case errors.Is(err, usecase.ErrUnauthorized):
		return middleware.NewAppError(fiber.StatusUnauthorized, response.MessageUnauthorized, nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}

func badBody(err error) error {
	return middleware.NewAppError(fiber.StatusBadRequest, "Malformed request body", nil, err)
}
