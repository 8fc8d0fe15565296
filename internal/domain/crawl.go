package domain

import (
	"errors"
	"time"
)

// DefaultRateLimitRemaining is the GraphQL hourly point budget assumed
// before the first response reports the real value.
const DefaultRateLimitRemaining = 5000

// CrawlState is the resumable checkpoint of one logical crawl.
type CrawlState struct {
	ID                    int64      `db:"id"`
	RunID                 string     `db:"run_id"`
	Cursor                *string    `db:"cursor"`
	RepositoriesProcessed int64      `db:"repositories_processed"`
	LastUpdate            time.Time  `db:"last_update"`
	RateLimitRemaining    int        `db:"rate_limit_remaining"`
	RateLimitResetAt      *time.Time `db:"rate_limit_reset_at"`
	Exhausted             bool       `db:"exhausted"`
}

// NewCrawlState returns the state of a crawl that has not fetched anything,
// stamped with the time it was started.
func NewCrawlState(runID string, now time.Time) *CrawlState {
	return &CrawlState{
		RunID:              runID,
		LastUpdate:         now,
		RateLimitRemaining: DefaultRateLimitRemaining,
	}
}

// Advance applies a committed page to the state. A page that claims more
// results without an end cursor leaves the cursor where it was; callers
// reject such pages with Page.Validate before committing them.
func (s *CrawlState) Advance(page *Page, now time.Time) {
	s.RepositoriesProcessed += int64(len(page.Repositories))
	if page.EndCursor != nil || !page.HasNextPage {
		s.Cursor = page.EndCursor
	}
	s.LastUpdate = now
	s.RateLimitRemaining = page.Rate.Remaining
	s.RateLimitResetAt = page.Rate.ResetAt
	s.Exhausted = !page.HasNextPage
}

// Page is one upstream fetch result. It is consumed by the crawl loop and
// never persisted directly.
type Page struct {
	Repositories []Repository
	EndCursor    *string
	HasNextPage  bool
	Rate         RateSignal
}

// ErrMissingEndCursor marks a page that reports more results but no cursor
// to continue from.
var ErrMissingEndCursor = errors.New("page has more results but no end cursor")

// Validate rejects pages the crawl cannot continue from.
func (p *Page) Validate() error {
	if p.HasNextPage && p.EndCursor == nil {
		return &UpstreamError{Op: "search", Err: ErrMissingEndCursor}
	}
	return nil
}

// RateSignal is the quota state reported by an upstream response.
type RateSignal struct {
	Remaining int
	ResetAt   *time.Time
}

// Outcome is the terminal state of a crawl run.
type Outcome string

const (
	OutcomeCompleted   Outcome = "completed"
	OutcomeFailed      Outcome = "failed"
	OutcomeInterrupted Outcome = "interrupted"
)

// CrawlStats holds statistics about a crawl run.
type CrawlStats struct {
	RunID                 string
	Outcome               Outcome
	Resumed               bool
	Pages                 int
	Fetched               int
	RepositoriesProcessed int64
	Checkpoints           int
	Duration              time.Duration
}

// RepositoryStatistics is the read-side summary of stored repositories.
type RepositoryStatistics struct {
	TotalRepositories int64            `json:"total_repositories"`
	Top               []RepositoryStat `json:"top_by_stars"`
	MeanStars         float64          `json:"mean_stars_top"`
	MedianStars       float64          `json:"median_stars_top"`
}

type RepositoryStat struct {
	Name       string `json:"name"`
	Stars      int    `json:"stars"`
	Forks      *int   `json:"forks"`
	OpenIssues *int   `json:"open_issues"`
}
