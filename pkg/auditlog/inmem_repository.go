package auditlog

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryLoginEventRepository implements LoginEventRepository using
// in-memory storage
type InMemoryLoginEventRepository struct {
	mu     sync.RWMutex
	events []LoginEvent
}

// NewInMemoryLoginEventRepository creates a new in-memory login event repository
func NewInMemoryLoginEventRepository() *InMemoryLoginEventRepository {
	return &InMemoryLoginEventRepository{}
}

// CreateEvent appends one event
func (r *InMemoryLoginEventRepository) CreateEvent(ctx context.Context, event LoginEvent) (LoginEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	event.ID = uuid.New()
	event.Timestamp = time.Now()
	r.events = append(r.events, event)
	return event, nil
}

// CountByKind returns the number of events of the given kind
func (r *InMemoryLoginEventRepository) CountByKind(ctx context.Context, kind Kind) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, e := range r.events {
		if e.Kind == kind {
			count++
		}
	}
	return count, nil
}

// LatestByKind returns the newest event of the given kind
func (r *InMemoryLoginEventRepository) LatestByKind(ctx context.Context, kind Kind) (LoginEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].Kind == kind {
			return r.events[i], nil
		}
	}
	return LoginEvent{}, ErrEventNotFound
}
