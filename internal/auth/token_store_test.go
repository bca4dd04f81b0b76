package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assetverse/internal/cache"
	apperrors "assetverse/internal/errors"
)

func TestTokenStore_WithoutRedis(t *testing.T) {
	store := NewTokenStore(nil)
	ctx := context.Background()

	assert.ErrorIs(t, store.Revoke(ctx, "jti-1", time.Hour), apperrors.ErrFeatureDisabled)
	assert.NoError(t, store.Revoke(ctx, "", time.Hour))
	assert.NoError(t, store.Revoke(ctx, "jti-1", 0))

	revoked, err := store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestTokenStore_UnreachableRedis(t *testing.T) {
	// Nothing listens on port 1.
	store := NewTokenStore(cache.New("127.0.0.1:1", "", 0))
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := store.Revoke(ctx, "jti-1", time.Hour)
	require.Error(t, err)
	assert.NotErrorIs(t, err, apperrors.ErrFeatureDisabled)

	revoked, err := store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}
