package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"star_crawler/internal/domain"
)

var exportHeader = []string{"repo_id", "name", "owner", "stars", "forks", "open_issues", "last_updated"}

type ExportService struct {
	repositories RepositoryStore
}

func NewExportService(repositories RepositoryStore) *ExportService {
	return &ExportService{repositories: repositories}
}

// WriteCSV writes every stored repository to w, ordered by stars
// descending, and returns the number of rows written.
func (s *ExportService) WriteCSV(ctx context.Context, w io.Writer) (int, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return 0, fmt.Errorf("write header: %w", err)
	}

	rows := 0
	err := s.repositories.Each(ctx, func(r domain.Repository) error {
		if err := cw.Write(csvRecord(r)); err != nil {
			return err
		}
		rows++
		return nil
	})
	if err != nil {
		return rows, fmt.Errorf("export repositories: %w", err)
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return rows, fmt.Errorf("flush csv: %w", err)
	}
	return rows, nil
}

func csvRecord(r domain.Repository) []string {
	lastUpdated := ""
	if r.LastUpdated != nil {
		lastUpdated = r.LastUpdated.UTC().Format(time.RFC3339)
	}
	return []string{
		strconv.FormatInt(r.RepoID, 10),
		r.Name,
		r.Owner,
		strconv.Itoa(r.Stars),
		optionalInt(r.Forks),
		optionalInt(r.OpenIssues),
		lastUpdated,
	}
}

func optionalInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
