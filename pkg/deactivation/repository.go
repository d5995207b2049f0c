package deactivation

import (
	"context"
	"errors"
)

// Common errors
var (
	ErrRecordNotFound = errors.New("deactivation record not found")
)

// RecordRepository persists deactivation reasons with replace semantics:
// writing a record first removes any existing record for the username.
type RecordRepository interface {
	// Replace deletes any existing record for the username and inserts
	// the new one.
	Replace(ctx context.Context, record Record) error

	// Delete removes the record for the username, if any.
	Delete(ctx context.Context, username string) error

	// Get returns the live record for the username.
	// Returns ErrRecordNotFound when none exists.
	Get(ctx context.Context, username string) (Record, error)
}
