package app

import (
	"fmt"
	"strings"

	"company-news/internal/config"
	"company-news/internal/delivery/http/handler"
	"company-news/internal/delivery/http/middleware"
	"company-news/internal/delivery/http/routes"
	"company-news/internal/usecase"
	ucauth "company-news/internal/usecase/auth"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

// New wires usecases and handlers on top of an existing container.
func New(c *Container) *App {
	cfg := c.Config
	errMw := middleware.NewErrorMiddleware(c.Logger)

	f := fiber.New(fiber.Config{
		AppName:       cfg.App.AppName,
		StrictRouting: false,
		ErrorHandler:  errMw.Render,
	})

	registerGlobalMiddleware(f, c, errMw)

	newsUC := usecase.NewNewsUsecase(c.Articles, c.Taxonomy, c.Cache, usecase.NewsOptions{
		RelevanceScoring: cfg.Search.RelevanceScoring,
		CacheTTL:         cfg.Search.CacheTTL,
	}, c.Logger)
	crawlUC := usecase.NewCrawlUsecase(c.CrawlJobs, c.Queue, c.Cache, c.Logger)
	taxonomyUC := usecase.NewTaxonomyUsecase(c.Taxonomy, c.Cache, c.Logger)
	authUC := usecase.NewAuthUsecase(ucauth.NewService(c.Users), c.Users, c.JWT)

	var dbProbe handler.Pinger
	if c.DB != nil {
		dbProbe = c.DB
	}

	authMw := middleware.NewAuthMiddleware(c.JWT)
	routes.NewRegistry(routes.Handlers{
		News:        handler.NewNewsHandler(newsUC),
		Crawl:       handler.NewCrawlHandler(crawlUC),
		CrawlReport: handler.NewCrawlReportHandler(crawlUC, cfg.InternalToken, c.Logger),
		Taxonomy:    handler.NewTaxonomyHandler(taxonomyUC),
		Auth:        handler.NewAuthHandler(authUC),
		User:        handler.NewUserHandler(authUC),
		Health:      handler.NewHealthHandler(dbProbe, c.Cache, c.Queue),
	}, authMw.Middleware()).Register(f)

	return &App{Fiber: f, Container: c}
}

// Bootstrap builds the container and the HTTP app. The returned cleanup
// closes the datastore and Redis connections.
func Bootstrap(cfg config.Config, logger *zap.Logger) (*App, func() error, error) {
	c, err := NewContainer(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return New(c), c.Close, nil
}

func registerGlobalMiddleware(app *fiber.App, c *Container, errMw *middleware.ErrorMiddleware) {
	if app == nil {
		return
	}

	app.Use(middleware.NewAccessLogMiddleware(c.Logger).Middleware())
	app.Use(errMw.Middleware())
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
