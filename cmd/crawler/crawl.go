package main

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"star_crawler/internal/clock"
	"star_crawler/internal/config"
	"star_crawler/internal/domain"
	"star_crawler/internal/fetcher"
	"star_crawler/internal/metrics"
	"star_crawler/internal/publisher"
	"star_crawler/internal/ratelimit"
	"star_crawler/internal/retry"
	"star_crawler/internal/scheduler"
	"star_crawler/internal/service"
	"star_crawler/internal/storage/postgres"
)

func newCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl",
		Short: "Crawl repositories and store their star counts",
		Long: `crawl pages through the repository search for --query until the search is
exhausted or --target repositories have been processed. By default it resumes
the last checkpoint; --fresh starts over. With --every the crawl repeats on
that interval until the process is stopped.`,
		RunE: runCrawl,
	}

	cmd.Flags().Int64("target", 0, "stop after this many repositories (overrides crawl.target_count)")
	cmd.Flags().String("query", "", "search query (overrides crawl.query)")
	cmd.Flags().Bool("fresh", false, "ignore the active checkpoint and start a new crawl")
	cmd.Flags().Int("page-size", 0, "repositories per page, at most 100 (overrides github.page_size)")
	cmd.Flags().Duration("every", 0, "repeat the crawl on this interval (overrides crawl.interval)")
	cmd.Flags().Duration("run-timeout", 0, "upper bound for one scheduled run, 0 for none")
	return cmd
}

func applyCrawlFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("target") {
		cfg.Crawl.TargetCount, _ = flags.GetInt64("target")
	}
	if flags.Changed("query") {
		cfg.Crawl.Query, _ = flags.GetString("query")
	}
	if fresh, _ := flags.GetBool("fresh"); fresh {
		resume := false
		cfg.Crawl.Resume = &resume
	}
	if flags.Changed("page-size") {
		size, _ := flags.GetInt("page-size")
		if size > 0 && size <= fetcher.MaxPageSize {
			cfg.GitHub.PageSize = size
		}
	}
	if flags.Changed("every") {
		cfg.Crawl.Interval, _ = flags.GetDuration("every")
	}
}

func runCrawl(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	applyCrawlFlags(cmd, cfg)

	if cfg.Metrics.Addr != "" {
		reg := prometheus.NewRegistry()
		if err := metrics.Register(reg); err != nil {
			logger.Error("failed to register metrics", "error", err)
			return err
		}
		go func() {
			if err := metrics.Serve(ctx, cfg.Metrics.Addr, reg, logger); err != nil {
				logger.Error("metrics server error", "error", err)
			}
		}()
	}

	db, err := connectDB(ctx, cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		return err
	}
	defer db.Close()

	var pub service.Publisher
	if cfg.RabbitMQ.Enabled {
		rabbitMQ, err := publisher.NewRabbitMQ(publisher.Config{
			URL:        cfg.RabbitMQ.URL,
			Exchange:   cfg.RabbitMQ.Exchange,
			RoutingKey: cfg.RabbitMQ.RoutingKey,
			QueueName:  cfg.RabbitMQ.QueueName,
		}, logger)
		if err != nil {
			logger.Error("failed to connect to rabbitmq", "error", err)
			return err
		}
		defer rabbitMQ.Close()
		pub = rabbitMQ
	}

	source, err := newGitHubSource(cfg.GitHub, logger)
	if err != nil {
		logger.Error("failed to create github source", "error", err)
		return err
	}

	clk := clock.New()
	executor := retry.NewExecutor(retry.Config{
		MaxRetries:  cfg.Retry.MaxRetries,
		BaseDelay:   cfg.Retry.BaseDelay,
		MaxDelay:    cfg.Retry.MaxDelay,
		Multiplier:  cfg.Retry.Multiplier,
		QuotaBuffer: cfg.Retry.QuotaBuffer,
	}, clk, logger)
	governor := ratelimit.NewGovernor(ratelimit.Config{
		LowWatermark:   cfg.RateLimit.LowWatermark,
		PacingInterval: cfg.RateLimit.PacingInterval,
		PacingPause:    cfg.RateLimit.PacingPause,
		Window:         cfg.RateLimit.Window,
		ResetBuffer:    cfg.RateLimit.ResetBuffer,
	}, clk, logger)
	pageFetcher := fetcher.New(source, executor, governor, cfg.GitHub.PageSize, logger)

	txManager := postgres.NewTransactionManager(db)
	crawlService := service.NewCrawlService(
		pageFetcher,
		source,
		postgres.NewRepositoryStore(db),
		postgres.NewCrawlStateStore(db, txManager),
		txManager,
		pub,
		clk,
		logger,
		cfg.Crawl,
	)

	if cfg.Crawl.Interval > 0 {
		timeout, _ := cmd.Flags().GetDuration("run-timeout")
		sched := scheduler.NewScheduler(crawlService, cfg.Crawl.Interval, timeout, logger)
		if err := sched.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("scheduler error", "error", err)
			return err
		}
		return nil
	}

	start := time.Now()
	_, err = crawlService.Crawl(ctx)

	quota := governor.Snapshot()
	logger.Info("quota after crawl", "remaining", quota.Remaining, "reset_at", quota.ResetAt)

	if errors.Is(err, domain.ErrInterrupted) {
		logger.Info("crawl stopped, rerun to resume", "elapsed", time.Since(start))
	}
	return err
}
