package loginattempt

import (
	"context"
)

// AttemptCounter tracks consecutive failed logins per username. Counters
// are keyed by the raw input string so that nonexistent usernames behave
// the same as real ones.
type AttemptCounter struct {
	repository AttemptRepository
}

// NewAttemptCounter creates a new AttemptCounter
func NewAttemptCounter(repository AttemptRepository) *AttemptCounter {
	return &AttemptCounter{repository: repository}
}

// Increment adds one failed attempt for the username.
func (c *AttemptCounter) Increment(ctx context.Context, username string) error {
	return c.repository.Increment(ctx, username)
}

// Reset sets the username's counter back to 0.
func (c *AttemptCounter) Reset(ctx context.Context, username string) error {
	return c.repository.Reset(ctx, username)
}

// Get returns the current count. The second return value is false when
// the username has never failed a login, which is distinct from a count
// of 0 after a reset.
func (c *AttemptCounter) Get(ctx context.Context, username string) (int64, bool, error) {
	attempt, err := c.repository.Get(ctx, username)
	if err == ErrAttemptNotFound {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return attempt.Count, true, nil
}
