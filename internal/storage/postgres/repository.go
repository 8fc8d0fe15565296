package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"star_crawler/internal/domain"
)

const repositoryColumns = "repo_id, name, owner, stars, forks, open_issues, last_updated"

type RepositoryStore struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewRepositoryStore(db *sqlx.DB) *RepositoryStore {
	return &RepositoryStore{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// UpsertBatch inserts repositories or fully overwrites existing rows with the
// same repo_id. Within one batch the last occurrence of a repo_id wins. The
// whole batch is rejected if any repository is invalid.
func (s *RepositoryStore) UpsertBatch(ctx context.Context, repos []domain.Repository) (int, error) {
	if len(repos) == 0 {
		return 0, nil
	}

	for _, r := range repos {
		if err := r.Validate(); err != nil {
			return 0, err
		}
	}
	repos = dedupeLastWins(repos)

	var sb strings.Builder
	sb.WriteString("INSERT INTO repositories (")
	sb.WriteString(repositoryColumns)
	sb.WriteString(") VALUES ")
	args := make([]interface{}, 0, len(repos)*7)

	for i, r := range repos {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("(")
		for j := 0; j < 7; j++ {
			if j > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "$%d", i*7+j+1)
		}
		sb.WriteString(")")

		lastUpdated := s.now()
		if r.LastUpdated != nil {
			lastUpdated = *r.LastUpdated
		}
		args = append(args, r.RepoID, r.Name, r.Owner, r.Stars, r.Forks, r.OpenIssues, lastUpdated)
	}
	sb.WriteString(`
		ON CONFLICT (repo_id) DO UPDATE SET
			name = EXCLUDED.name,
			owner = EXCLUDED.owner,
			stars = EXCLUDED.stars,
			forks = EXCLUDED.forks,
			open_issues = EXCLUDED.open_issues,
			last_updated = EXCLUDED.last_updated`)

	if _, err := GetExecutor(ctx, s.db).ExecContext(ctx, sb.String(), args...); err != nil {
		return 0, fmt.Errorf("upsert repositories: %w", err)
	}
	return len(repos), nil
}

func (s *RepositoryStore) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM repositories"); err != nil {
		return 0, fmt.Errorf("count repositories: %w", err)
	}
	return count, nil
}

// TopByStars returns up to limit repositories ordered by stars descending.
func (s *RepositoryStore) TopByStars(ctx context.Context, limit int) ([]domain.Repository, error) {
	query := `SELECT ` + repositoryColumns + ` FROM repositories ORDER BY stars DESC, repo_id ASC LIMIT $1`

	var repos []domain.Repository
	if err := s.db.SelectContext(ctx, &repos, query, limit); err != nil {
		return nil, fmt.Errorf("select top repositories: %w", err)
	}
	return repos, nil
}

// Each streams every stored repository, ordered by stars descending, to fn.
func (s *RepositoryStore) Each(ctx context.Context, fn func(domain.Repository) error) error {
	query := `SELECT ` + repositoryColumns + ` FROM repositories ORDER BY stars DESC, repo_id ASC`

	rows, err := s.db.QueryxContext(ctx, query)
	if err != nil {
		return fmt.Errorf("query repositories: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var r domain.Repository
		if err := rows.StructScan(&r); err != nil {
			return fmt.Errorf("scan repository: %w", err)
		}
		if err := fn(r); err != nil {
			return err
		}
	}
	return rows.Err()
}

func dedupeLastWins(repos []domain.Repository) []domain.Repository {
	index := make(map[int64]int, len(repos))
	out := make([]domain.Repository, 0, len(repos))
	for _, r := range repos {
		if i, ok := index[r.RepoID]; ok {
			out[i] = r
			continue
		}
		index[r.RepoID] = len(out)
		out = append(out, r)
	}
	return out
}
