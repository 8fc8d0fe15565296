// Package fetcher issues one paginated upstream fetch at a time through the
// backoff executor and the rate governor.
package fetcher

import (
	"context"
	"log/slog"

	"star_crawler/internal/domain"
	"star_crawler/internal/metrics"
	"star_crawler/internal/ratelimit"
	"star_crawler/internal/retry"
)

// MaxPageSize is the upstream's page size ceiling.
const MaxPageSize = 100

// Upstream is a paginated repository search.
type Upstream interface {
	SearchRepositories(ctx context.Context, query string, cursor *string, pageSize int) (*domain.Page, error)
	CountRepositories(ctx context.Context, query string) (int, error)
}

type Fetcher struct {
	upstream Upstream
	executor *retry.Executor
	governor *ratelimit.Governor
	pageSize int
	logger   *slog.Logger
}

func New(upstream Upstream, executor *retry.Executor, governor *ratelimit.Governor, pageSize int, logger *slog.Logger) *Fetcher {
	if pageSize <= 0 || pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return &Fetcher{
		upstream: upstream,
		executor: executor,
		governor: governor,
		pageSize: pageSize,
		logger:   logger.With("component", "fetcher"),
	}
}

// PageSize returns the effective page size.
func (f *Fetcher) PageSize() int {
	return f.pageSize
}

// Fetch returns the page after cursor. Quota errors are absorbed by the
// executor; the returned error is the final upstream failure or a context
// error. The page's own rate signal decides whether to wait before the next
// request.
func (f *Fetcher) Fetch(ctx context.Context, query string, cursor *string) (*domain.Page, error) {
	f.logger.Info("fetching repositories", "cursor", shortCursor(cursor), "page_size", f.pageSize)

	page, err := retry.Do(ctx, f.executor, "search", func(ctx context.Context) (*domain.Page, error) {
		if err := f.governor.RecordRequest(ctx); err != nil {
			return nil, err
		}
		page, err := f.upstream.SearchRepositories(ctx, query, cursor, f.pageSize)
		if err != nil {
			return nil, err
		}
		if err := page.Validate(); err != nil {
			return nil, err
		}
		return page, nil
	})
	if err != nil {
		return nil, err
	}
	metrics.IncPagesFetched()

	f.logger.Info("fetched repositories",
		"count", len(page.Repositories),
		"has_next_page", page.HasNextPage,
		"remaining", page.Rate.Remaining,
		"reset_at", page.Rate.ResetAt,
	)

	f.governor.UpdateFromSignal(page.Rate)
	if err := f.governor.WaitIfNeeded(ctx, page.Rate.Remaining); err != nil {
		return nil, err
	}

	return page, nil
}

// Count returns the number of repositories matching query.
func (f *Fetcher) Count(ctx context.Context, query string) (int, error) {
	return retry.Do(ctx, f.executor, "count", func(ctx context.Context) (int, error) {
		if err := f.governor.RecordRequest(ctx); err != nil {
			return 0, err
		}
		return f.upstream.CountRepositories(ctx, query)
	})
}

// Prime seeds the governor with a quota reading taken before the first
// request, waiting if that reading is already below the low watermark.
func (f *Fetcher) Prime(ctx context.Context, sig domain.RateSignal) error {
	f.governor.UpdateFromSignal(sig)
	return f.governor.WaitIfNeeded(ctx, sig.Remaining)
}

func shortCursor(cursor *string) string {
	if cursor == nil {
		return "none"
	}
	if len(*cursor) > 20 {
		return (*cursor)[:20] + "..."
	}
	return *cursor
}
