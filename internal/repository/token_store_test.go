package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenStoreRevocation(t *testing.T) {
	store := NewTokenStore(nil)
	ctx := context.Background()

	revoked, err := store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, store.Revoke(ctx, "jti-1", time.Minute))

	revoked, err = store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestTokenStoreRevocationExpires(t *testing.T) {
	store := NewTokenStore(nil)
	ctx := context.Background()

	require.NoError(t, store.Revoke(ctx, "jti-1", time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	revoked, err := store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked, "expired entries read as not revoked")
}

func TestResetTokenIsOneShot(t *testing.T) {
	store := NewTokenStore(nil)
	ctx := context.Background()

	require.NoError(t, store.StoreResetToken(ctx, "tok", "user-1", time.Minute))

	userID, err := store.ConsumeResetToken(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)

	userID, err = store.ConsumeResetToken(ctx, "tok")
	require.NoError(t, err)
	assert.Empty(t, userID, "a reset token is consumed on first use")
}

func TestResetTokenExpires(t *testing.T) {
	store := NewTokenStore(nil)
	ctx := context.Background()

	require.NoError(t, store.StoreResetToken(ctx, "tok", "user-1", time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	userID, err := store.ConsumeResetToken(ctx, "tok")
	require.NoError(t, err)
	assert.Empty(t, userID)
}
