// Package github is the upstream source: repository search over the GitHub
// GraphQL API and the REST rate-limit endpoint.
package github

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gofri/go-github-ratelimit/github_ratelimit"
	gogithub "github.com/google/go-github/v62/github"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"

	"star_crawler/internal/domain"
)

const (
	SourceID = "github"

	// MaxPageSize is the largest `first:` GitHub accepts on search.
	MaxPageSize = 100

	DefaultGraphQLURL = "https://api.github.com/graphql"

	// defaultResetWait is assumed when a rate-limit error carries no reset time.
	defaultResetWait = time.Hour
)

// Config holds GitHub source configuration.
type Config struct {
	Token               string
	GraphQLURL          string
	RESTURL             string
	Timeout             time.Duration
	SecondaryLimitSleep time.Duration
}

// Source searches repositories on GitHub.
type Source struct {
	graphql *githubv4.Client
	rest    *gogithub.Client
	logger  *slog.Logger
	now     func() time.Time
}

// New creates a GitHub source authenticated with cfg.Token. Secondary rate
// limits are absorbed by the transport; primary quota is reported to the
// caller as *domain.QuotaExceededError.
func New(cfg Config, logger *slog.Logger) (*Source, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("github token is required")
	}

	waiter, err := github_ratelimit.NewRateLimitWaiter(nil,
		github_ratelimit.WithSingleSleepLimit(cfg.SecondaryLimitSleep, nil),
	)
	if err != nil {
		return nil, fmt.Errorf("create rate limit waiter: %w", err)
	}

	httpClient := &http.Client{
		Timeout: cfg.Timeout,
		Transport: &oauth2.Transport{
			Base:   waiter,
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token}),
		},
	}

	var graphql *githubv4.Client
	if cfg.GraphQLURL == "" || cfg.GraphQLURL == DefaultGraphQLURL {
		graphql = githubv4.NewClient(httpClient)
	} else {
		graphql = githubv4.NewEnterpriseClient(cfg.GraphQLURL, httpClient)
	}

	rest := gogithub.NewClient(httpClient)
	if cfg.RESTURL != "" {
		baseURL, err := url.Parse(strings.TrimSuffix(cfg.RESTURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("parse rest url: %w", err)
		}
		rest.BaseURL = baseURL
	}

	return &Source{
		graphql: graphql,
		rest:    rest,
		logger:  logger.With("source", SourceID),
		now:     func() time.Time { return time.Now().UTC() },
	}, nil
}

// ID returns the source identifier.
func (s *Source) ID() string {
	return SourceID
}

// SearchRepositories fetches one page of search results after cursor.
// Nodes without a databaseId (deleted or inaccessible repositories) and
// nodes that fail validation are skipped.
func (s *Source) SearchRepositories(ctx context.Context, query string, cursor *string, pageSize int) (*domain.Page, error) {
	if pageSize <= 0 || pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	variables := map[string]interface{}{
		"query":   githubv4.String(query),
		"perPage": githubv4.Int(pageSize),
		"cursor":  (*githubv4.String)(nil),
	}
	if cursor != nil {
		variables["cursor"] = githubv4.NewString(githubv4.String(*cursor))
	}

	var q searchRepositoriesQuery
	if err := s.graphql.Query(ctx, &q, variables); err != nil {
		return nil, s.classify("search", err, q.RateLimit)
	}

	now := s.now()
	repos := make([]domain.Repository, 0, len(q.Search.Edges))
	for _, edge := range q.Search.Edges {
		node := edge.Node.Repository
		if node.DatabaseID == nil || *node.DatabaseID == 0 {
			continue
		}

		forks := node.ForkCount
		openIssues := node.Issues.TotalCount
		observedAt := now
		repo, err := domain.NewRepository(
			*node.DatabaseID,
			node.Name,
			node.Owner.Login,
			node.StargazerCount,
			&forks,
			&openIssues,
			&observedAt,
		)
		if err != nil {
			s.logger.Warn("skipping invalid repository",
				"repo_id", *node.DatabaseID,
				"error", err,
			)
			continue
		}
		repos = append(repos, repo)
	}

	page := &domain.Page{
		Repositories: repos,
		HasNextPage:  q.Search.PageInfo.HasNextPage,
		Rate:         toSignal(q.RateLimit),
	}
	if q.Search.PageInfo.EndCursor != "" {
		endCursor := string(q.Search.PageInfo.EndCursor)
		page.EndCursor = &endCursor
	}

	s.logger.Debug("fetched search page",
		"repositories", len(repos),
		"edges", len(q.Search.Edges),
		"has_next_page", page.HasNextPage,
		"remaining", page.Rate.Remaining,
	)

	return page, nil
}

// CountRepositories returns the number of repositories matching query.
func (s *Source) CountRepositories(ctx context.Context, query string) (int, error) {
	var q countRepositoriesQuery
	variables := map[string]interface{}{
		"query": githubv4.String(query),
	}
	if err := s.graphql.Query(ctx, &q, variables); err != nil {
		return 0, s.classify("count", err, q.RateLimit)
	}
	return q.Search.RepositoryCount, nil
}

// RateStatus reads the GraphQL quota bucket from the REST rate-limit
// endpoint. The call itself does not consume quota.
func (s *Source) RateStatus(ctx context.Context) (domain.RateSignal, error) {
	limits, _, err := s.rest.RateLimit.Get(ctx)
	if err != nil {
		return domain.RateSignal{}, &domain.UpstreamError{Op: "rate_limit", Err: err}
	}
	if limits == nil || limits.GraphQL == nil {
		return domain.RateSignal{}, &domain.UpstreamError{Op: "rate_limit", Err: fmt.Errorf("graphql bucket missing from response")}
	}

	resetAt := limits.GraphQL.Reset.Time.UTC()
	return domain.RateSignal{
		Remaining: limits.GraphQL.Remaining,
		ResetAt:   &resetAt,
	}, nil
}

// classify maps a GraphQL client error onto the crawl error taxonomy.
func (s *Source) classify(op string, err error, rl rateLimit) error {
	msg := strings.ToLower(err.Error())

	if strings.Contains(msg, "rate limit") {
		resetAt := rl.ResetAt.Time
		if resetAt.IsZero() {
			resetAt = s.now().Add(defaultResetWait)
		}
		return &domain.QuotaExceededError{ResetAt: resetAt.UTC()}
	}

	upstream := &domain.UpstreamError{Op: op, Err: err}
	if strings.Contains(msg, "401 unauthorized") || strings.Contains(msg, "bad credentials") {
		return backoff.Permanent(upstream)
	}
	return upstream
}

func toSignal(rl rateLimit) domain.RateSignal {
	sig := domain.RateSignal{Remaining: rl.Remaining}
	if !rl.ResetAt.IsZero() {
		resetAt := rl.ResetAt.Time.UTC()
		sig.ResetAt = &resetAt
	}
	return sig
}
