package identity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrIdentityNotFound   = errors.New("identity not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Identity represents an account in the external user store. The natural
// key is the username; the policy packages never assume anything else
// about how the store models its users.
type Identity struct {
	ID                uuid.UUID
	Username          string
	Email             string
	Active            bool
	LastLoginAt       *time.Time
	PasswordChangedAt *time.Time
}

// Store is the user-store collaborator consumed by the decision chain and
// the batch sweep. Implementations adapt whatever backs the application's
// users (LDAP, a users table, an IdP) to this surface.
type Store interface {
	// FindByUsername resolves an identity by its natural key.
	// Returns ErrIdentityNotFound when no such identity exists.
	FindByUsername(ctx context.Context, username string) (Identity, error)

	// VerifyCredentials checks the secret for the given username.
	// Returns ErrIdentityNotFound or ErrInvalidCredentials on failure.
	VerifyCredentials(ctx context.Context, username, password string) (Identity, error)

	// SetActive flips the identity's active flag and persists it.
	SetActive(ctx context.Context, username string, active bool) error

	// SetLastLoginAt records a successful login time.
	SetLastLoginAt(ctx context.Context, username string, at time.Time) error

	// ClearLastLogin resets the last-login timestamp so a reactivated
	// identity gets a fresh account-expiry grace period.
	ClearLastLogin(ctx context.Context, username string) error

	// PasswordChangedAt returns the time the identity's password was last
	// changed, or nil when the store has no record of it.
	PasswordChangedAt(ctx context.Context, username string) (*time.Time, error)

	// ListExpiredActive returns all active identities whose last login is
	// before the cutoff. Identities that have never logged in are not
	// returned.
	ListExpiredActive(ctx context.Context, cutoff time.Time) ([]Identity, error)
}
