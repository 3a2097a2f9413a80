package routes

import (
	"company-news/internal/delivery/http/handler"

	"github.com/gofiber/fiber/v3"
)

type Handlers struct {
	News        *handler.NewsHandler
	Crawl       *handler.CrawlHandler
	CrawlReport *handler.CrawlReportHandler
	Taxonomy    *handler.TaxonomyHandler
	Auth        *handler.AuthHandler
	User        *handler.UserHandler
	Health      *handler.HealthHandler
}

type Registry struct {
	h    Handlers
	auth fiber.Handler
}

// NewRegistry takes the access-token middleware guarding write routes.
func NewRegistry(h Handlers, auth fiber.Handler) *Registry {
	return &Registry{h: h, auth: auth}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.registerHealth(app)
	r.registerAPI(app)
}

func (r *Registry) registerHealth(app *fiber.App) {
	if r.h.Health != nil {
		r.h.Health.RegisterRoutes(app)
	}
}

func (r *Registry) registerAPI(app *fiber.App) {
	api := app.Group("/api")

	if r.h.Auth != nil {
		r.h.Auth.RegisterRoutes(api.Group("/auth"))
	}
	if r.h.User != nil {
		r.h.User.RegisterRoutes(api.Group("/users", r.auth))
	}
	// Crawl routes go first so /news/crawl is never taken for an article id.
	if r.h.Crawl != nil {
		r.h.Crawl.RegisterRoutes(api, r.auth)
	}
	if r.h.News != nil {
		r.h.News.RegisterRoutes(api, r.auth)
	}
	if r.h.Taxonomy != nil {
		r.h.Taxonomy.RegisterRoutes(api, r.auth)
	}
	if r.h.CrawlReport != nil {
		r.h.CrawlReport.RegisterRoutes(api)
	}
}
