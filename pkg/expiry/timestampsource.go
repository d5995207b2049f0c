package expiry

import (
	"context"
	"log/slog"
	"time"

	"github.com/veritaslabs/useraudit/pkg/identity"
)

// TimestampSource resolves the password-changed-at timestamp for an
// identity. It is the capability form of the configurable attribute
// path: the path string is compiled to a source at startup instead of
// being traversed at runtime.
type TimestampSource interface {
	Resolve(ctx context.Context, id identity.Identity) (*time.Time, error)
}

// TimestampSourceFunc adapts a function to the TimestampSource interface
type TimestampSourceFunc func(ctx context.Context, id identity.Identity) (*time.Time, error)

func (f TimestampSourceFunc) Resolve(ctx context.Context, id identity.Identity) (*time.Time, error) {
	return f(ctx, id)
}

// StorePasswordChangedAt returns a TimestampSource backed by the identity
// store's own password-changed-at getter.
func StorePasswordChangedAt(store identity.Store) TimestampSource {
	return TimestampSourceFunc(func(ctx context.Context, id identity.Identity) (*time.Time, error) {
		return store.PasswordChangedAt(ctx, id.Username)
	})
}

// CompilePasswordChangedAtPath builds a TimestampSource from a configured
// attribute path. Known paths map onto the identity store's surface; an
// unknown path is a misconfiguration, which disables the check for every
// call (with a warning) rather than failing logins.
func CompilePasswordChangedAtPath(path string, store identity.Store) TimestampSource {
	switch path {
	case "", "password_change_date", "password_changed_at":
		return StorePasswordChangedAt(store)
	}
	return TimestampSourceFunc(func(ctx context.Context, id identity.Identity) (*time.Time, error) {
		slog.Warn("Identity store does not expose the configured password change date attribute",
			"path", path, "username", id.Username)
		return nil, nil
	})
}
