package deactivation

import (
	"context"
)

// Recorder keeps the bookkeeping of why an identity was deactivated.
type Recorder struct {
	repository RecordRepository
}

// NewRecorder creates a new Recorder
func NewRecorder(repository RecordRepository) *Recorder {
	return &Recorder{repository: repository}
}

// RecordReason stores the reason an identity was deactivated, replacing
// any earlier reason. Recording is idempotent in effect: exactly one
// record remains, carrying the newest reason and timestamp.
func (r *Recorder) RecordReason(ctx context.Context, username string, reason Reason) error {
	return r.repository.Replace(ctx, Record{
		Username: username,
		Reason:   reason,
	})
}

// Clear removes the deactivation record for a reactivated identity.
func (r *Recorder) Clear(ctx context.Context, username string) error {
	return r.repository.Delete(ctx, username)
}

// Get returns the live record for the username. The second return value
// is false when no record exists.
func (r *Recorder) Get(ctx context.Context, username string) (Record, bool, error) {
	record, err := r.repository.Get(ctx, username)
	if err == ErrRecordNotFound {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, err
	}
	return record, true, nil
}
