package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrInterrupted is returned when a crawl stops because its context was
// cancelled. The checkpoint has been saved before it is returned.
var ErrInterrupted = errors.New("crawl interrupted")

// ValidationError reports a malformed Repository. It is never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid repository: %s %s", e.Field, e.Reason)
}

// UpstreamError is a fetch failure unrelated to quota.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream %s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// QuotaExceededError signals that the upstream rejected a request because
// the quota is exhausted until ResetAt.
type QuotaExceededError struct {
	ResetAt time.Time
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("rate limit exceeded, resets at %s", e.ResetAt.Format(time.RFC3339))
}

// PersistenceError is a failure writing records or checkpoints.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
