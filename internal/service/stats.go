package service

import (
	"context"
	"fmt"

	"github.com/montanaflynn/stats"

	"star_crawler/internal/domain"
)

const DefaultTopN = 10

type StatsService struct {
	repositories RepositoryStore
}

func NewStatsService(repositories RepositoryStore) *StatsService {
	return &StatsService{repositories: repositories}
}

// Summary returns the stored total and the topN repositories by stars, with
// the mean and median stars of that top set.
func (s *StatsService) Summary(ctx context.Context, topN int) (*domain.RepositoryStatistics, error) {
	if topN <= 0 {
		topN = DefaultTopN
	}

	total, err := s.repositories.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count repositories: %w", err)
	}

	top, err := s.repositories.TopByStars(ctx, topN)
	if err != nil {
		return nil, fmt.Errorf("top repositories: %w", err)
	}

	summary := &domain.RepositoryStatistics{
		TotalRepositories: total,
		Top:               make([]domain.RepositoryStat, 0, len(top)),
	}

	stars := make([]int, 0, len(top))
	for _, r := range top {
		summary.Top = append(summary.Top, domain.RepositoryStat{
			Name:       r.FullName(),
			Stars:      r.Stars,
			Forks:      r.Forks,
			OpenIssues: r.OpenIssues,
		})
		stars = append(stars, r.Stars)
	}

	if len(stars) == 0 {
		return summary, nil
	}

	data := stats.LoadRawData(stars)
	if summary.MeanStars, err = stats.Mean(data); err != nil {
		return nil, fmt.Errorf("mean stars: %w", err)
	}
	if summary.MedianStars, err = stats.Median(data); err != nil {
		return nil, fmt.Errorf("median stars: %w", err)
	}

	return summary, nil
}
