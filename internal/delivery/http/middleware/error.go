package middleware

import (
	"errors"

	"company-news/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

// AppError is what handlers return; ErrorMiddleware renders it.
type AppError struct {
	StatusCode int
	Code       string
	Message    string
	Details    any
	Cause      error
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// NewAppError derives Code from statusCode.
func NewAppError(statusCode int, message string, details any, cause error) *AppError {
	return &AppError{
		StatusCode: statusCode,
		Code:       response.CodeForStatus(statusCode),
		Message:    message,
		Details:    details,
		Cause:      cause,
	}
}

type ErrorMiddleware struct {
	logger *zap.Logger
}

func NewErrorMiddleware(logger *zap.Logger) *ErrorMiddleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ErrorMiddleware{logger: logger}
}

func (m *ErrorMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				m.logger.Error("panic recovered",
					zap.String("method", c.Method()),
					zap.String("path", c.Path()),
					zap.Any("panic", r),
					zap.Stack("stack"),
				)
				err = response.Error(c, fiber.StatusInternalServerError, "", "", nil)
			}
		}()

		err = c.Next()
		if err == nil {
			return nil
		}
		return m.Render(c, err)
	}
}

// Render writes err as an error envelope. 5xx causes are logged, never sent.
func (m *ErrorMiddleware) Render(c fiber.Ctx, err error) error {
	status, code, msg, details := normalizeError(err)
	if status >= fiber.StatusInternalServerError {
		m.logger.Error("request failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Error(err),
		)
	}
	return response.Error(c, status, code, msg, details)
}

func normalizeError(err error) (int, string, string, any) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		status := appErr.StatusCode
		if status <= 0 || status >= fiber.StatusInternalServerError {
			return fiber.StatusInternalServerError, response.CodeInternal, response.MessageInternalServerError, nil
		}
		msg := appErr.Message
		if msg == "" {
			msg = response.MessageForStatus(status)
		}
		return status, appErr.Code, msg, appErr.Details
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		status := fiberErr.Code
		if status <= 0 || status >= fiber.StatusInternalServerError {
			return fiber.StatusInternalServerError, response.CodeInternal, response.MessageInternalServerError, nil
		}
		return status, response.CodeForStatus(status), fiberErr.Message, nil
	}

	return fiber.StatusInternalServerError, response.CodeInternal, response.MessageInternalServerError, nil
}
