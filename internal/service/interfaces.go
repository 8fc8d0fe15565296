package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"star_crawler/internal/domain"
)

type RepositoryStore interface {
	UpsertBatch(ctx context.Context, repos []domain.Repository) (int, error)
	Count(ctx context.Context) (int64, error)
	TopByStars(ctx context.Context, limit int) ([]domain.Repository, error)
	Each(ctx context.Context, fn func(domain.Repository) error) error
}

type CheckpointStore interface {
	LoadActive(ctx context.Context) (*domain.CrawlState, error)
	Save(ctx context.Context, state *domain.CrawlState) error
}

type PageFetcher interface {
	Fetch(ctx context.Context, query string, cursor *string) (*domain.Page, error)
	Count(ctx context.Context, query string) (int, error)
	Prime(ctx context.Context, sig domain.RateSignal) error
}

type RateStatusReader interface {
	RateStatus(ctx context.Context) (domain.RateSignal, error)
}

type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type Publisher interface {
	PublishProgress(ctx context.Context, state *domain.CrawlState) error
	PublishFinished(ctx context.Context, stats *domain.CrawlStats) error
	Close() error
}
