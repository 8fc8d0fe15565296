package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"star_crawler/internal/config"
	"star_crawler/internal/source/github"
)

// loadConfig reads --config and returns the config with a logger built from
// its log level, or from --log-level when set.
func loadConfig(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	path, _ := cmd.Flags().GetString("config")

	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}

	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.LogLevel = level
	}
	return cfg, setupLogger(cfg.LogLevel), nil
}

func connectDB(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	logger.Info("connected to database", "host", cfg.Host, "dbname", cfg.DBName)
	return db, nil
}

func newGitHubSource(cfg config.GitHubConfig, logger *slog.Logger) (*github.Source, error) {
	return github.New(github.Config{
		Token:               cfg.Token,
		GraphQLURL:          cfg.GraphQLURL,
		RESTURL:             cfg.RESTURL,
		Timeout:             cfg.Timeout,
		SecondaryLimitSleep: cfg.SecondaryLimitSleep,
	}, logger)
}
