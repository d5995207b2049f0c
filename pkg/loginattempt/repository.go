package loginattempt

import (
	"context"
	"errors"
	"time"
)

// Common errors
var (
	ErrAttemptNotFound = errors.New("login attempt record not found")
)

// Attempt is the per-username count of consecutive failed logins since
// the last reset. Rows are created lazily on first failure and kept at 0
// after a reset, never deleted.
type Attempt struct {
	Username  string
	Count     int64
	Timestamp time.Time
}

// AttemptRepository persists failed-attempt counters. Increment and Reset
// must be atomic per username: concurrent failed logins for the same
// username must not lose updates.
type AttemptRepository interface {
	// Increment creates the counter at 1 or adds 1 to it, refreshing the
	// timestamp.
	Increment(ctx context.Context, username string) error

	// Reset sets the counter to exactly 0 with a fresh timestamp,
	// creating the row if absent.
	Reset(ctx context.Context, username string) error

	// Get returns the counter for the username.
	// Returns ErrAttemptNotFound when the username has never failed.
	Get(ctx context.Context, username string) (Attempt, error)
}
