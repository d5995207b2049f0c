package loginattempt

import (
	"context"
	"sync"
	"time"
)

// InMemoryAttemptRepository implements AttemptRepository using in-memory
// storage. A single mutex serializes the read-modify-write of Increment.
type InMemoryAttemptRepository struct {
	mu       sync.Mutex
	attempts map[string]Attempt
}

// NewInMemoryAttemptRepository creates a new in-memory attempt repository
func NewInMemoryAttemptRepository() *InMemoryAttemptRepository {
	return &InMemoryAttemptRepository{
		attempts: make(map[string]Attempt),
	}
}

// Increment creates the counter at 1 or adds 1 to it
func (r *InMemoryAttemptRepository) Increment(ctx context.Context, username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	attempt := r.attempts[username]
	attempt.Username = username
	attempt.Count++
	attempt.Timestamp = time.Now()
	r.attempts[username] = attempt
	return nil
}

// Reset sets the counter to exactly 0 with a fresh timestamp
func (r *InMemoryAttemptRepository) Reset(ctx context.Context, username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.attempts[username] = Attempt{
		Username:  username,
		Count:     0,
		Timestamp: time.Now(),
	}
	return nil
}

// Get returns the counter for the username
func (r *InMemoryAttemptRepository) Get(ctx context.Context, username string) (Attempt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	attempt, ok := r.attempts[username]
	if !ok {
		return Attempt{}, ErrAttemptNotFound
	}
	return attempt, nil
}
