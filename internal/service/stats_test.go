package service

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"star_crawler/internal/domain"
	"star_crawler/internal/service/mocks"
)

func intPtr(v int) *int {
	return &v
}

func TestStatsService_Summary(t *testing.T) {
	ctrl := gomock.NewController(t)
	repos := mocks.NewMockRepositoryStore(ctrl)

	repos.EXPECT().Count(gomock.Any()).Return(int64(1200), nil)
	repos.EXPECT().TopByStars(gomock.Any(), 3).Return([]domain.Repository{
		{RepoID: 1, Name: "a", Owner: "x", Stars: 300, Forks: intPtr(10)},
		{RepoID: 2, Name: "b", Owner: "y", Stars: 200},
		{RepoID: 3, Name: "c", Owner: "z", Stars: 100},
	}, nil)

	summary, err := NewStatsService(repos).Summary(context.Background(), 3)
	require.NoError(t, err)

	assert.Equal(t, int64(1200), summary.TotalRepositories)
	require.Len(t, summary.Top, 3)
	assert.Equal(t, "x/a", summary.Top[0].Name)
	assert.Equal(t, 10, *summary.Top[0].Forks)
	assert.InDelta(t, 200.0, summary.MeanStars, 0.001)
	assert.InDelta(t, 200.0, summary.MedianStars, 0.001)
}

func TestStatsService_Summary_Empty(t *testing.T) {
	ctrl := gomock.NewController(t)
	repos := mocks.NewMockRepositoryStore(ctrl)

	repos.EXPECT().Count(gomock.Any()).Return(int64(0), nil)
	repos.EXPECT().TopByStars(gomock.Any(), DefaultTopN).Return(nil, nil)

	summary, err := NewStatsService(repos).Summary(context.Background(), 0)
	require.NoError(t, err)
	assert.Zero(t, summary.TotalRepositories)
	assert.Empty(t, summary.Top)
	assert.Zero(t, summary.MeanStars)
}

func TestStatsService_Summary_CountError(t *testing.T) {
	ctrl := gomock.NewController(t)
	repos := mocks.NewMockRepositoryStore(ctrl)

	repos.EXPECT().Count(gomock.Any()).Return(int64(0), errors.New("db down"))

	_, err := NewStatsService(repos).Summary(context.Background(), 5)
	assert.ErrorContains(t, err, "count repositories")
}

func TestExportService_WriteCSV(t *testing.T) {
	ctrl := gomock.NewController(t)
	repos := mocks.NewMockRepositoryStore(ctrl)
	ts := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	repos.EXPECT().Each(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, fn func(domain.Repository) error) error {
			if err := fn(domain.Repository{RepoID: 1, Name: "linux", Owner: "torvalds", Stars: 180000, Forks: intPtr(55000), OpenIssues: intPtr(0), LastUpdated: &ts}); err != nil {
				return err
			}
			return fn(domain.Repository{RepoID: 2, Name: "a,b", Owner: "o", Stars: 5})
		},
	)

	var buf bytes.Buffer
	n, err := NewExportService(repos).WriteCSV(context.Background(), &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	expected := "repo_id,name,owner,stars,forks,open_issues,last_updated\n" +
		"1,linux,torvalds,180000,55000,0,2026-03-01T10:00:00Z\n" +
		"2,\"a,b\",o,5,,,\n"
	assert.Equal(t, expected, buf.String())
}

func TestExportService_WriteCSV_StoreError(t *testing.T) {
	ctrl := gomock.NewController(t)
	repos := mocks.NewMockRepositoryStore(ctrl)

	repos.EXPECT().Each(gomock.Any(), gomock.Any()).Return(errors.New("cursor closed"))

	var buf bytes.Buffer
	_, err := NewExportService(repos).WriteCSV(context.Background(), &buf)
	assert.ErrorContains(t, err, "export repositories")
}
