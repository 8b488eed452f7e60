package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefreshTokenLifecycle(t *testing.T) {
	repo := NewTokenRepo(newTestDB(t))
	ctx := context.Background()

	exp := time.Now().UTC().Add(24 * time.Hour)
	require.NoError(t, repo.StoreRefresh(ctx, 7, "hash-1", exp))

	userID, err := repo.ValidateRefresh(ctx, "hash-1")
	require.NoError(t, err)
	assert.Equal(t, uint64(7), userID)

	require.NoError(t, repo.RevokeByHash(ctx, "hash-1"))
	_, err = repo.ValidateRefresh(ctx, "hash-1")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestValidateRefreshExpired(t *testing.T) {
	repo := NewTokenRepo(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.StoreRefresh(ctx, 7, "hash-old", time.Now().UTC().Add(-time.Minute)))
	_, err := repo.ValidateRefresh(ctx, "hash-old")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestRevokeAllForUser(t *testing.T) {
	repo := NewTokenRepo(newTestDB(t))
	ctx := context.Background()

	exp := time.Now().UTC().Add(24 * time.Hour)
	require.NoError(t, repo.StoreRefresh(ctx, 7, "hash-a", exp))
	require.NoError(t, repo.StoreRefresh(ctx, 7, "hash-b", exp))
	require.NoError(t, repo.StoreRefresh(ctx, 8, "hash-c", exp))

	require.NoError(t, repo.RevokeAllForUser(ctx, 7))

	_, err := repo.ValidateRefresh(ctx, "hash-a")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	_, err = repo.ValidateRefresh(ctx, "hash-b")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	userID, err := repo.ValidateRefresh(ctx, "hash-c")
	require.NoError(t, err)
	assert.Equal(t, uint64(8), userID)
}
