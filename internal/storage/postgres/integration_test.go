//go:build integration

package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"star_crawler/internal/domain"
)

type PostgresIntegrationSuite struct {
	suite.Suite
	ctx       context.Context
	container *postgres.PostgresContainer
	db        *sqlx.DB
}

func (s *PostgresIntegrationSuite) SetupSuite() {
	s.ctx = context.Background()

	container, err := postgres.Run(s.ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("test_db"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	s.Require().NoError(err)
	s.container = container

	connStr, err := container.ConnectionString(s.ctx, "sslmode=disable")
	s.Require().NoError(err)

	db, err := sqlx.Connect("postgres", connStr)
	s.Require().NoError(err)
	s.db = db

	_, err = Migrate(s.ctx, s.db)
	s.Require().NoError(err)
}

func (s *PostgresIntegrationSuite) TearDownSuite() {
	if s.db != nil {
		s.db.Close()
	}
	if s.container != nil {
		_ = s.container.Terminate(s.ctx)
	}
}

func (s *PostgresIntegrationSuite) SetupTest() {
	_, _ = s.db.ExecContext(s.ctx, "DELETE FROM repositories")
	_, _ = s.db.ExecContext(s.ctx, "DELETE FROM crawl_state")
}

func TestPostgresIntegrationSuite(t *testing.T) {
	suite.Run(t, new(PostgresIntegrationSuite))
}

func (s *PostgresIntegrationSuite) repo(id int64, stars int) domain.Repository {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return domain.Repository{RepoID: id, Name: "repo", Owner: "owner", Stars: stars, LastUpdated: &now}
}

func (s *PostgresIntegrationSuite) TestMigrate_Idempotent() {
	version, err := Migrate(s.ctx, s.db)
	s.NoError(err)
	s.Equal(uint(2), version)

	s.NoError(s.db.PingContext(s.ctx), "migrating must leave the shared pool open")
}

func (s *PostgresIntegrationSuite) TestMigrateDown_ThenUp() {
	version, err := MigrateDown(s.ctx, s.db, 1)
	s.Require().NoError(err)
	s.Equal(uint(1), version)

	var exists bool
	err = s.db.GetContext(s.ctx, &exists, "SELECT to_regclass('public.crawl_state') IS NOT NULL")
	s.NoError(err)
	s.False(exists)

	version, err = Migrate(s.ctx, s.db)
	s.Require().NoError(err)
	s.Equal(uint(2), version)

	err = s.db.GetContext(s.ctx, &exists, "SELECT to_regclass('public.crawl_state') IS NOT NULL")
	s.NoError(err)
	s.True(exists)
}

func (s *PostgresIntegrationSuite) TestRepositoryStore_UpsertBatch_Insert() {
	store := NewRepositoryStore(s.db)

	n, err := store.UpsertBatch(s.ctx, []domain.Repository{s.repo(1, 10), s.repo(2, 20)})
	s.NoError(err)
	s.Equal(2, n)

	count, err := store.Count(s.ctx)
	s.NoError(err)
	s.Equal(int64(2), count)
}

func (s *PostgresIntegrationSuite) TestRepositoryStore_UpsertBatch_Idempotent() {
	store := NewRepositoryStore(s.db)
	batch := []domain.Repository{s.repo(1, 10), s.repo(2, 20)}

	_, err := store.UpsertBatch(s.ctx, batch)
	s.NoError(err)
	_, err = store.UpsertBatch(s.ctx, batch)
	s.NoError(err)

	count, err := store.Count(s.ctx)
	s.NoError(err)
	s.Equal(int64(2), count)
}

func (s *PostgresIntegrationSuite) TestRepositoryStore_UpsertBatch_FullOverwrite() {
	store := NewRepositoryStore(s.db)
	forks := 7

	first := s.repo(1, 100)
	first.Forks = &forks
	_, err := store.UpsertBatch(s.ctx, []domain.Repository{first})
	s.NoError(err)

	second := s.repo(1, 50)
	second.Name = "renamed"
	_, err = store.UpsertBatch(s.ctx, []domain.Repository{second})
	s.NoError(err)

	top, err := store.TopByStars(s.ctx, 10)
	s.NoError(err)
	s.Require().Len(top, 1)
	s.Equal("renamed", top[0].Name)
	s.Equal(50, top[0].Stars)
	s.Nil(top[0].Forks)
}

func (s *PostgresIntegrationSuite) TestRepositoryStore_UpsertBatch_DuplicateInBatch() {
	store := NewRepositoryStore(s.db)

	_, err := store.UpsertBatch(s.ctx, []domain.Repository{s.repo(1, 10), s.repo(1, 99)})
	s.NoError(err)

	var stars int
	err = s.db.GetContext(s.ctx, &stars, "SELECT stars FROM repositories WHERE repo_id = $1", 1)
	s.NoError(err)
	s.Equal(99, stars)
}

func (s *PostgresIntegrationSuite) TestRepositoryStore_TopByStars_Order() {
	store := NewRepositoryStore(s.db)

	_, err := store.UpsertBatch(s.ctx, []domain.Repository{s.repo(1, 10), s.repo(2, 30), s.repo(3, 20)})
	s.NoError(err)

	top, err := store.TopByStars(s.ctx, 2)
	s.NoError(err)
	s.Require().Len(top, 2)
	s.Equal(int64(2), top[0].RepoID)
	s.Equal(int64(3), top[1].RepoID)
}

func (s *PostgresIntegrationSuite) TestCrawlStateStore_LoadActive_Empty() {
	store := NewCrawlStateStore(s.db, NewTransactionManager(s.db))

	state, err := store.LoadActive(s.ctx)
	s.NoError(err)
	s.Nil(state)
}

func (s *PostgresIntegrationSuite) TestCrawlStateStore_SaveKeepsSingleActive() {
	store := NewCrawlStateStore(s.db, NewTransactionManager(s.db))
	cursor := "Y3Vyc29yOjEw"
	reset := time.Now().UTC().Add(time.Hour).Truncate(time.Microsecond)

	started := time.Now().UTC().Truncate(time.Microsecond)

	first := domain.NewCrawlState("run-1", started)
	s.NoError(store.Save(s.ctx, first))

	second := domain.NewCrawlState("run-1", started.Add(time.Second))
	second.Cursor = &cursor
	second.RepositoriesProcessed = 10
	second.RateLimitRemaining = 4990
	second.RateLimitResetAt = &reset
	s.NoError(store.Save(s.ctx, second))
	s.Greater(second.ID, first.ID)

	var active int
	err := s.db.GetContext(s.ctx, &active, "SELECT COUNT(*) FROM crawl_state WHERE is_active")
	s.NoError(err)
	s.Equal(1, active)

	loaded, err := store.LoadActive(s.ctx)
	s.NoError(err)
	s.Require().NotNil(loaded)
	s.Equal(second.ID, loaded.ID)
	s.Require().NotNil(loaded.Cursor)
	s.Equal(cursor, *loaded.Cursor)
	s.Equal(int64(10), loaded.RepositoriesProcessed)
	s.Equal(4990, loaded.RateLimitRemaining)
	s.Require().NotNil(loaded.RateLimitResetAt)
	s.WithinDuration(reset, *loaded.RateLimitResetAt, time.Millisecond)
	s.WithinDuration(second.LastUpdate, loaded.LastUpdate, time.Millisecond)
}

func (s *PostgresIntegrationSuite) TestTransaction_Commit() {
	tm := NewTransactionManager(s.db)
	store := NewRepositoryStore(s.db)

	err := tm.WithTransaction(s.ctx, func(ctx context.Context) error {
		_, err := store.UpsertBatch(ctx, []domain.Repository{s.repo(999, 1)})
		return err
	})
	s.NoError(err)

	count, err := store.Count(s.ctx)
	s.NoError(err)
	s.Equal(int64(1), count)
}

func (s *PostgresIntegrationSuite) TestTransaction_Rollback() {
	tm := NewTransactionManager(s.db)
	store := NewRepositoryStore(s.db)

	_, err := store.UpsertBatch(s.ctx, []domain.Repository{s.repo(888, 1)})
	s.NoError(err)

	err = tm.WithTransaction(s.ctx, func(ctx context.Context) error {
		if _, err := store.UpsertBatch(ctx, []domain.Repository{s.repo(777, 1)}); err != nil {
			return err
		}
		return errors.New("abort")
	})
	s.Error(err)

	var count int
	err = s.db.GetContext(s.ctx, &count, "SELECT COUNT(*) FROM repositories WHERE repo_id = $1", 777)
	s.NoError(err)
	s.Equal(0, count)

	err = s.db.GetContext(s.ctx, &count, "SELECT COUNT(*) FROM repositories WHERE repo_id = $1", 888)
	s.NoError(err)
	s.Equal(1, count)
}
