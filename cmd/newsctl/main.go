package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"company-news/internal/app"
	"company-news/internal/config"
	"company-news/internal/pkg/logger"
	"company-news/internal/seeder"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	lg        *zap.Logger
	seedCount int
)

var rootCmd = &cobra.Command{
	Use:           "newsctl",
	Short:         "newsctl - maintenance commands for the company news API",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openContainer()
		if err != nil {
			return err
		}
		defer func() { _ = c.Close() }()

		if c.DB == nil {
			lg.Info("memory storage has no schema, nothing to migrate")
			return nil
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
		defer cancel()
		if err := c.Migrate(ctx); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		lg.Info("migrations applied")
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create sample categories, tags and news articles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if seedCount <= 0 {
			return fmt.Errorf("--count must be positive")
		}

		c, err := openContainer()
		if err != nil {
			return err
		}
		defer func() { _ = c.Close() }()

		ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
		defer cancel()

		s := seeder.NewsSeeder{
			Articles: c.Articles,
			Taxonomy: c.Taxonomy,
			Count:    seedCount,
			Logger:   lg,
		}
		res, err := s.Run(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Successfully created %d sample news articles\n", res.Articles)
		return nil
	},
}

func openContainer() (*app.Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return app.NewContainer(cfg, lg)
}

func main() {
	var err error
	lg, err = logger.New("newsctl", os.Getenv("APP_ENV"))
	if err != nil {
		panic(err)
	}
	defer func() { _ = lg.Sync() }()

	seedCmd.Flags().IntVar(&seedCount, "count", seeder.DefaultCount, "Number of sample articles to create")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)

	if err := rootCmd.Execute(); err != nil {
		lg.Error("command failed", zap.Error(err))
		os.Exit(1)
	}
}
