package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"star_crawler/internal/clock"
	"star_crawler/internal/config"
	"star_crawler/internal/domain"
	"star_crawler/internal/metrics"
)

// CrawlService drives one logical crawl: load or start a checkpoint, fetch
// pages in cursor order, commit each page with its checkpoint and stop on
// the first terminal condition.
type CrawlService struct {
	fetcher      PageFetcher
	rateStatus   RateStatusReader
	repositories RepositoryStore
	checkpoints  CheckpointStore
	txManager    TransactionManager
	publisher    Publisher
	clock        clock.Clock
	logger       *slog.Logger
	config       config.CrawlConfig
	newRunID     func() string
}

// NewCrawlService wires the orchestrator. rateStatus and publisher may be nil.
func NewCrawlService(
	fetcher PageFetcher,
	rateStatus RateStatusReader,
	repositories RepositoryStore,
	checkpoints CheckpointStore,
	txManager TransactionManager,
	publisher Publisher,
	clk clock.Clock,
	logger *slog.Logger,
	cfg config.CrawlConfig,
) *CrawlService {
	return &CrawlService{
		fetcher:      fetcher,
		rateStatus:   rateStatus,
		repositories: repositories,
		checkpoints:  checkpoints,
		txManager:    txManager,
		publisher:    publisher,
		clock:        clk,
		logger:       logger.With("component", "crawler"),
		config:       cfg,
		newRunID:     uuid.NewString,
	}
}

// Crawl runs a crawl, resuming the active checkpoint when configured to.
//
// The returned stats are never nil once a state was established. On
// cancellation the error wraps domain.ErrInterrupted; every other failure
// is returned as the outcome FAILED. In both cases the last committed
// state has been saved before returning.
func (s *CrawlService) Crawl(ctx context.Context) (*domain.CrawlStats, error) {
	return s.crawl(ctx, s.config.ShouldResume())
}

// Refresh runs a crawl that ignores any active checkpoint.
func (s *CrawlService) Refresh(ctx context.Context) (*domain.CrawlStats, error) {
	return s.crawl(ctx, false)
}

func (s *CrawlService) crawl(ctx context.Context, resume bool) (*domain.CrawlStats, error) {
	start := s.clock.Now()

	state, resumed, err := s.initState(ctx, resume)
	if err != nil {
		metrics.IncCrawls(string(domain.OutcomeFailed))
		return nil, err
	}

	logger := s.logger.With("run_id", state.RunID)
	logger.Info("starting crawl",
		"query", s.config.Query,
		"target_count", s.config.TargetCount,
		"resumed", resumed,
		"repositories_processed", state.RepositoriesProcessed,
		"has_cursor", state.Cursor != nil,
	)

	stats := &domain.CrawlStats{
		RunID:   state.RunID,
		Resumed: resumed,
	}

	err = s.run(ctx, state, stats, logger)

	stats.RepositoriesProcessed = state.RepositoriesProcessed
	stats.Duration = s.clock.Now().Sub(start)
	switch {
	case err == nil:
		stats.Outcome = domain.OutcomeCompleted
	case errors.Is(err, domain.ErrInterrupted):
		stats.Outcome = domain.OutcomeInterrupted
	default:
		stats.Outcome = domain.OutcomeFailed
	}
	metrics.IncCrawls(string(stats.Outcome))

	if s.publisher != nil {
		if pubErr := s.publisher.PublishFinished(context.WithoutCancel(ctx), stats); pubErr != nil {
			logger.Warn("failed to publish crawl result", "error", pubErr)
		}
	}

	logAttrs := []any{
		"outcome", stats.Outcome,
		"pages", stats.Pages,
		"fetched", stats.Fetched,
		"repositories_processed", stats.RepositoriesProcessed,
		"checkpoints", stats.Checkpoints,
		"duration", stats.Duration,
	}
	switch stats.Outcome {
	case domain.OutcomeCompleted:
		logger.Info("crawl completed", logAttrs...)
	case domain.OutcomeInterrupted:
		logger.Warn("crawl interrupted", logAttrs...)
	default:
		logger.Error("crawl failed", append(logAttrs, "error", err)...)
	}

	return stats, err
}

func (s *CrawlService) initState(ctx context.Context, resume bool) (*domain.CrawlState, bool, error) {
	if resume {
		state, err := s.checkpoints.LoadActive(ctx)
		if err != nil {
			return nil, false, &domain.PersistenceError{Op: "load checkpoint", Err: err}
		}
		if state != nil {
			return state, true, nil
		}
		s.logger.Info("no checkpoint to resume, starting fresh")
	}
	return domain.NewCrawlState(s.newRunID(), s.clock.Now()), false, nil
}

func (s *CrawlService) run(ctx context.Context, state *domain.CrawlState, stats *domain.CrawlStats, logger *slog.Logger) error {
	if s.finished(state) {
		logger.Info("nothing left to crawl", "exhausted", state.Exhausted)
		return s.saveOnExit(ctx, state, stats, nil, logger)
	}

	s.logMatchCount(ctx, logger)

	if err := s.primeQuota(ctx, logger); err != nil {
		return s.saveOnExit(ctx, state, stats, s.interruptOr(ctx, err), logger)
	}

	for {
		if err := ctx.Err(); err != nil {
			return s.saveOnExit(ctx, state, stats, fmt.Errorf("%w: %w", domain.ErrInterrupted, err), logger)
		}

		page, err := s.fetcher.Fetch(ctx, s.config.Query, state.Cursor)
		if err != nil {
			return s.saveOnExit(ctx, state, stats, s.interruptOr(ctx, fmt.Errorf("fetch page: %w", err)), logger)
		}
		if err := page.Validate(); err != nil {
			return s.saveOnExit(ctx, state, stats, fmt.Errorf("fetch page: %w", err), logger)
		}
		stats.Pages++
		stats.Fetched += len(page.Repositories)

		next := *state
		next.Advance(page, s.clock.Now())

		// The page is already fetched; commit it even if cancellation
		// arrives now, so the checkpoint never trails durable data.
		if err := s.commit(context.WithoutCancel(ctx), page, &next); err != nil {
			return s.saveOnExit(ctx, state, stats, err, logger)
		}
		*state = next
		stats.Checkpoints++

		logger.Info("page committed",
			"count", len(page.Repositories),
			"repositories_processed", state.RepositoriesProcessed,
			"has_next_page", page.HasNextPage,
			"remaining", state.RateLimitRemaining,
		)

		if s.publisher != nil {
			if err := s.publisher.PublishProgress(ctx, state); err != nil {
				logger.Warn("failed to publish progress", "error", err)
			}
		}

		if s.finished(state) {
			return nil
		}
	}
}

// commit upserts the page's repositories and saves next as the active
// checkpoint in one transaction.
func (s *CrawlService) commit(ctx context.Context, page *domain.Page, next *domain.CrawlState) error {
	var upserted int

	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if len(page.Repositories) > 0 {
			n, err := s.repositories.UpsertBatch(txCtx, page.Repositories)
			if err != nil {
				return &domain.PersistenceError{Op: "upsert repositories", Err: err}
			}
			upserted = n
		}

		if err := s.checkpoints.Save(txCtx, next); err != nil {
			return &domain.PersistenceError{Op: "save checkpoint", Err: err}
		}
		return nil
	})
	if err != nil {
		var perr *domain.PersistenceError
		if !errors.As(err, &perr) {
			err = &domain.PersistenceError{Op: "commit page", Err: err}
		}
		return err
	}

	metrics.AddRepositoriesUpserted(upserted)
	metrics.IncCheckpointsSaved()
	return nil
}

// saveOnExit persists the last committed state and returns cause, joined
// with the save failure if there was one.
func (s *CrawlService) saveOnExit(ctx context.Context, state *domain.CrawlState, stats *domain.CrawlStats, cause error, logger *slog.Logger) error {
	if err := s.checkpoints.Save(context.WithoutCancel(ctx), state); err != nil {
		logger.Error("failed to save checkpoint on exit", "error", err)
		saveErr := &domain.PersistenceError{Op: "save checkpoint", Err: err}
		if cause == nil {
			return saveErr
		}
		return errors.Join(cause, saveErr)
	}

	stats.Checkpoints++
	metrics.IncCheckpointsSaved()
	return cause
}

func (s *CrawlService) finished(state *domain.CrawlState) bool {
	return state.Exhausted || state.RepositoriesProcessed >= s.config.TargetCount
}

func (s *CrawlService) interruptOr(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%w: %w", domain.ErrInterrupted, ctxErr)
	}
	return err
}

func (s *CrawlService) logMatchCount(ctx context.Context, logger *slog.Logger) {
	total, err := s.fetcher.Count(ctx, s.config.Query)
	if err != nil {
		logger.Warn("could not count matching repositories", "error", err)
		return
	}
	logger.Info("matching repositories", "total", total)
}

func (s *CrawlService) primeQuota(ctx context.Context, logger *slog.Logger) error {
	if s.rateStatus == nil {
		return nil
	}

	sig, err := s.rateStatus.RateStatus(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		logger.Warn("could not read rate limit status", "error", err)
		return nil
	}
	return s.fetcher.Prime(ctx, sig)
}
