package deactivation

import (
	"context"
	"sync"
	"time"
)

// InMemoryRecordRepository implements RecordRepository using in-memory storage
type InMemoryRecordRepository struct {
	mu      sync.RWMutex
	records map[string]Record
}

// NewInMemoryRecordRepository creates a new in-memory record repository
func NewInMemoryRecordRepository() *InMemoryRecordRepository {
	return &InMemoryRecordRepository{
		records: make(map[string]Record),
	}
}

// Replace deletes any existing record for the username and inserts the new one
func (r *InMemoryRecordRepository) Replace(ctx context.Context, record Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	record.Timestamp = time.Now()
	r.records[record.Username] = record
	return nil
}

// Delete removes the record for the username
func (r *InMemoryRecordRepository) Delete(ctx context.Context, username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.records, username)
	return nil
}

// Get returns the live record for the username
func (r *InMemoryRecordRepository) Get(ctx context.Context, username string) (Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.records[username]
	if !ok {
		return Record{}, ErrRecordNotFound
	}
	return record, nil
}
