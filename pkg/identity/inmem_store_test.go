package identity

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyCredentials(t *testing.T) {
	store := NewInMemoryStore()
	_, err := store.AddIdentity("alice", "alice@example.com", "secret")
	require.NoError(t, err)
	ctx := context.Background()

	id, err := store.VerifyCredentials(ctx, "alice", "secret")
	require.NoError(t, err)
	assert.Equal(t, "alice", id.Username)
	assert.NotNil(t, id.PasswordChangedAt)

	_, err = store.VerifyCredentials(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = store.VerifyCredentials(ctx, "nobody", "secret")
	assert.ErrorIs(t, err, ErrIdentityNotFound)
}

func TestChangePasswordRefreshesTimestamp(t *testing.T) {
	store := NewInMemoryStore()
	_, err := store.AddIdentity("alice", "alice@example.com", "old-secret")
	require.NoError(t, err)
	ctx := context.Background()

	old := time.Now().AddDate(0, 0, -100)
	store.SeedIdentity(Identity{
		Username:          "alice",
		Email:             "alice@example.com",
		Active:            true,
		PasswordChangedAt: &old,
	})

	require.NoError(t, store.ChangePassword(ctx, "alice", "new-secret"))

	changedAt, err := store.PasswordChangedAt(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, changedAt)
	assert.WithinDuration(t, time.Now(), *changedAt, time.Minute)

	_, err = store.VerifyCredentials(ctx, "alice", "new-secret")
	assert.NoError(t, err)
	_, err = store.VerifyCredentials(ctx, "alice", "old-secret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLastLoginLifecycle(t *testing.T) {
	store := NewInMemoryStore()
	_, err := store.AddIdentity("bob", "bob@example.com", "secret")
	require.NoError(t, err)
	ctx := context.Background()

	at := time.Now().AddDate(0, 0, -5)
	require.NoError(t, store.SetLastLoginAt(ctx, "bob", at))

	id, err := store.FindByUsername(ctx, "bob")
	require.NoError(t, err)
	require.NotNil(t, id.LastLoginAt)

	require.NoError(t, store.ClearLastLogin(ctx, "bob"))
	id, err = store.FindByUsername(ctx, "bob")
	require.NoError(t, err)
	assert.Nil(t, id.LastLoginAt)

	assert.ErrorIs(t, store.SetLastLoginAt(ctx, "nobody", at), ErrIdentityNotFound)
}

func TestListExpiredActive(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	seed := func(username string, active bool, daysAgo int) {
		id := Identity{Username: username, Active: active}
		if daysAgo >= 0 {
			at := time.Now().AddDate(0, 0, -daysAgo)
			id.LastLoginAt = &at
		}
		store.SeedIdentity(id)
	}
	seed("stale", true, 200)
	seed("recent", true, 5)
	seed("never", true, -1)
	seed("inactive", false, 200)

	expired, err := store.ListExpiredActive(ctx, time.Now().AddDate(0, 0, -100))
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, "stale", expired[0].Username)
}
