package handler

import (
	"context"
	"time"

	"company-news/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

// Pinger is anything the health check can ping.
type Pinger interface {
	Ping(ctx context.Context) error
}

type QueueDepther interface {
	Depth(ctx context.Context) (int64, error)
}

type HealthHandler struct {
	db    Pinger
	cache Pinger
	queue QueueDepther
}

// NewHealthHandler accepts nil dependencies; a nil db means the memory driver.
func NewHealthHandler(db, cache Pinger, queue QueueDepther) *HealthHandler {
	return &HealthHandler{db: db, cache: cache, queue: queue}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/health", h.Health)
}

func (h *HealthHandler) Health(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	status := fiber.StatusOK
	data := fiber.Map{"status": "ok"}

	if h.db != nil {
		if err := h.db.Ping(ctx); err != nil {
			status = fiber.StatusServiceUnavailable
			data["status"] = "degraded"
			data["database"] = "unavailable"
		} else {
			data["database"] = "ok"
		}
	} else {
		data["database"] = "memory"
	}

	if h.cache != nil {
		if err := h.cache.Ping(ctx); err != nil {
			data["cache"] = "unavailable"
		} else {
			data["cache"] = "ok"
		}
	}

	if h.queue != nil {
		if n, err := h.queue.Depth(ctx); err == nil {
			data["crawlQueueDepth"] = n
		}
	}

	if status != fiber.StatusOK {
		return response.Error(c, status, response.CodeInternal, "Service degraded", data)
	}
	return response.Success(c, status, data)
}
