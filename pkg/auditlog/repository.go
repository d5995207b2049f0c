package auditlog

import (
	"context"
	"errors"
)

// Common errors
var (
	ErrEventNotFound = errors.New("login event not found")
)

// LoginEventRepository persists the append-only login event log.
type LoginEventRepository interface {
	// CreateEvent appends one event. The returned event carries the
	// generated ID and timestamp.
	CreateEvent(ctx context.Context, event LoginEvent) (LoginEvent, error)

	// CountByKind returns the number of events of the given kind.
	CountByKind(ctx context.Context, kind Kind) (int64, error)

	// LatestByKind returns the newest event of the given kind.
	// Returns ErrEventNotFound when no event of that kind exists.
	LatestByKind(ctx context.Context, kind Kind) (LoginEvent, error)
}
