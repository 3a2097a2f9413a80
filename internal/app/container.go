package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"company-news/internal/config"
	"company-news/internal/database"
	"company-news/internal/database/migration"
	dbpostgres "company-news/internal/database/postgres"
	"company-news/internal/domain/user"
	"company-news/internal/infrastructure/cache"
	"company-news/internal/infrastructure/queue"
	"company-news/internal/pkg/jwt"
	"company-news/internal/repository"
	"company-news/internal/repository/memory"
	"company-news/migrations"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Container owns every long-lived dependency. DB is nil under the memory
// driver.
type Container struct {
	Config config.Config
	Logger *zap.Logger

	DB    database.DB
	Redis *redis.Client

	Articles  repository.ArticleRepository
	Taxonomy  repository.TaxonomyRepository
	CrawlJobs repository.CrawlJobRepository
	Users     user.Repository

	Cache *cache.Redis
	Queue *queue.RedisQueue
	JWT   *jwt.HMACService

	closers []func() error
}

func NewContainer(cfg config.Config, logger *zap.Logger) (*Container, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	c := &Container{Config: cfg, Logger: logger, JWT: jwt.NewHMACService(cfg.JWT)}

	switch cfg.App.StorageDriver {
	case config.StorageDriverMemory:
		store := memory.NewStore()
		c.Articles = memory.NewArticleRepository(store)
		c.Taxonomy = memory.NewTaxonomyRepository(store)
		c.CrawlJobs = memory.NewCrawlJobRepository(store)
		c.Users = memory.NewUserRepository(store)
		logger.Info("using in-memory storage")
	default:
		if err := c.openPostgres(ctx); err != nil {
			_ = c.Close()
			return nil, err
		}
	}

	c.Redis = cache.Dial(ctx, cfg.Redis, logger)
	if c.Redis != nil {
		c.closers = append(c.closers, c.Redis.Close)
	}
	c.Cache = cache.NewRedis(c.Redis, cfg.Search.CacheTTL, logger)
	c.Queue = queue.NewRedisQueue(c.Redis, queue.CrawlKey)

	return c, nil
}

func (c *Container) openPostgres(ctx context.Context) error {
	db, err := dbpostgres.Connect(ctx, c.Config.Database)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	c.DB = db
	c.closers = append(c.closers, db.Close)

	users, err := repository.NewPostgresUserRepository(ctx, db)
	if err != nil {
		return fmt.Errorf("prepare user statements: %w", err)
	}
	c.closers = append(c.closers, users.Close)

	c.Articles = repository.NewPostgresArticleRepository(db)
	c.Taxonomy = repository.NewPostgresTaxonomyRepository(db)
	c.CrawlJobs = repository.NewPostgresCrawlJobRepository(db)
	c.Users = users
	return nil
}

// Migrate applies the embedded schema. It is a no-op for the memory driver.
func (c *Container) Migrate(ctx context.Context) error {
	if c.DB == nil {
		return nil
	}
	r := migration.Runner{FS: migrations.FS, Logger: c.Logger}
	return r.Run(ctx, c.DB.SQLDB())
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}

	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}
