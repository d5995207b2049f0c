package identity

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// InMemoryStore implements Store using in-memory storage with bcrypt
// password hashes. It is used by tests and the demo wiring, and serves as
// the reference for adapters over real user stores.
type InMemoryStore struct {
	mu         sync.RWMutex
	identities map[string]Identity
	passwords  map[string][]byte
}

// NewInMemoryStore creates a new in-memory identity store
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		identities: make(map[string]Identity),
		passwords:  make(map[string][]byte),
	}
}

// AddIdentity registers an identity with the given password. The
// password-changed-at timestamp is set to now, matching a user store that
// stamps it on creation.
func (s *InMemoryStore) AddIdentity(username, email, password string) (Identity, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Identity{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	id := Identity{
		ID:                uuid.New(),
		Username:          username,
		Email:             email,
		Active:            true,
		PasswordChangedAt: &now,
	}
	s.identities[username] = id
	s.passwords[username] = hash
	return id, nil
}

// SeedIdentity adds an identity directly, bypassing password hashing
// (for testing/initialization)
func (s *InMemoryStore) SeedIdentity(id Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identities[id.Username] = id
}

func (s *InMemoryStore) FindByUsername(ctx context.Context, username string) (Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.identities[username]
	if !ok {
		return Identity{}, ErrIdentityNotFound
	}
	return id, nil
}

func (s *InMemoryStore) VerifyCredentials(ctx context.Context, username, password string) (Identity, error) {
	s.mu.RLock()
	id, ok := s.identities[username]
	hash := s.passwords[username]
	s.mu.RUnlock()

	if !ok {
		return Identity{}, ErrIdentityNotFound
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		return Identity{}, ErrInvalidCredentials
	}
	return id, nil
}

func (s *InMemoryStore) SetActive(ctx context.Context, username string, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.identities[username]
	if !ok {
		return ErrIdentityNotFound
	}
	id.Active = active
	s.identities[username] = id
	return nil
}

func (s *InMemoryStore) SetLastLoginAt(ctx context.Context, username string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.identities[username]
	if !ok {
		return ErrIdentityNotFound
	}
	id.LastLoginAt = &at
	s.identities[username] = id
	return nil
}

func (s *InMemoryStore) ClearLastLogin(ctx context.Context, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.identities[username]
	if !ok {
		return ErrIdentityNotFound
	}
	id.LastLoginAt = nil
	s.identities[username] = id
	return nil
}

func (s *InMemoryStore) PasswordChangedAt(ctx context.Context, username string) (*time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.identities[username]
	if !ok {
		return nil, ErrIdentityNotFound
	}
	return id.PasswordChangedAt, nil
}

func (s *InMemoryStore) ListExpiredActive(ctx context.Context, cutoff time.Time) ([]Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var expired []Identity
	for _, id := range s.identities {
		if !id.Active || id.LastLoginAt == nil {
			continue
		}
		if id.LastLoginAt.Before(cutoff) {
			expired = append(expired, id)
		}
	}
	return expired, nil
}

// ChangePassword updates the stored password hash and refreshes the
// password-changed-at timestamp. The policy packages only observe the
// timestamp; credential management itself stays in the user store.
func (s *InMemoryStore) ChangePassword(ctx context.Context, username, newPassword string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.identities[username]
	if !ok {
		return ErrIdentityNotFound
	}
	now := time.Now()
	id.PasswordChangedAt = &now
	s.identities[username] = id
	s.passwords[username] = hash
	return nil
}
