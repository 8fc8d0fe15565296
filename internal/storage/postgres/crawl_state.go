package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"star_crawler/internal/domain"
)

// CrawlStateStore is the checkpoint store. Every Save appends a row and
// deactivates the previous ones; only the single active row is authoritative.
type CrawlStateStore struct {
	db *sqlx.DB
	tx *TransactionManager
}

func NewCrawlStateStore(db *sqlx.DB, tx *TransactionManager) *CrawlStateStore {
	return &CrawlStateStore{db: db, tx: tx}
}

// LoadActive returns the most recently updated active state, or nil when no
// crawl has run.
func (s *CrawlStateStore) LoadActive(ctx context.Context) (*domain.CrawlState, error) {
	query := `
		SELECT id, run_id, cursor, repositories_processed, last_update,
		       rate_limit_remaining, rate_limit_reset_at, exhausted
		FROM crawl_state
		WHERE is_active = TRUE
		ORDER BY last_update DESC, id DESC
		LIMIT 1`

	var state domain.CrawlState
	err := s.db.GetContext(ctx, &state, query)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load crawl state: %w", err)
	}
	return &state, nil
}

// Save deactivates all prior states and inserts state as the active one in
// a single transaction. state.ID is set to the new row id. LastUpdate is
// written as given; the caller's clock owns it.
func (s *CrawlStateStore) Save(ctx context.Context, state *domain.CrawlState) error {
	return s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		exec := GetExecutor(ctx, s.db)

		if _, err := exec.ExecContext(ctx, "UPDATE crawl_state SET is_active = FALSE WHERE is_active = TRUE"); err != nil {
			return fmt.Errorf("deactivate crawl states: %w", err)
		}

		query := `
			INSERT INTO crawl_state (
				run_id, cursor, repositories_processed, last_update,
				rate_limit_remaining, rate_limit_reset_at, exhausted, is_active
			) VALUES ($1, $2, $3, $4, $5, $6, $7, TRUE)
			RETURNING id`

		var id int64
		err := exec.QueryRowxContext(ctx, query,
			state.RunID,
			state.Cursor,
			state.RepositoriesProcessed,
			state.LastUpdate,
			state.RateLimitRemaining,
			state.RateLimitResetAt,
			state.Exhausted,
		).Scan(&id)
		if err != nil {
			return fmt.Errorf("insert crawl state: %w", err)
		}

		state.ID = id
		return nil
	})
}
