package repository

import (
	"context"
	"testing"
	"time"

	"cavea/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestTokenGetByHash(t *testing.T) {
	db := newTestDB(t)
	repo := NewTokenRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "alice@example.com")
	token := &models.AccessToken{UserID: user.ID, Name: "api-token", TokenHash: "hash-a"}
	require.NoError(t, repo.Create(ctx, token))

	got, err := repo.GetByHash(ctx, "hash-a")
	require.NoError(t, err)
	assert.Equal(t, token.ID, got.ID)

	_, err = repo.GetByHash(ctx, "no-such-hash")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestTokenDeleteByUserRevokesAllSessions(t *testing.T) {
	db := newTestDB(t)
	repo := NewTokenRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice@example.com")
	bob := createTestUser(t, db, "bob@example.com")

	require.NoError(t, repo.Create(ctx, &models.AccessToken{UserID: alice.ID, Name: "api-token", TokenHash: "a1"}))
	require.NoError(t, repo.Create(ctx, &models.AccessToken{UserID: alice.ID, Name: "api-token", TokenHash: "a2"}))
	require.NoError(t, repo.Create(ctx, &models.AccessToken{UserID: bob.ID, Name: "api-token", TokenHash: "b1"}))

	require.NoError(t, repo.DeleteByUser(ctx, alice.ID))

	_, err := repo.GetByHash(ctx, "a1")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	_, err = repo.GetByHash(ctx, "a2")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	_, err = repo.GetByHash(ctx, "b1")
	assert.NoError(t, err)
}

func TestTokenDeleteIdleSince(t *testing.T) {
	db := newTestDB(t)
	repo := NewTokenRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "alice@example.com")

	stale := &models.AccessToken{UserID: user.ID, Name: "api-token", TokenHash: "stale"}
	fresh := &models.AccessToken{UserID: user.ID, Name: "api-token", TokenHash: "fresh"}
	neverUsed := &models.AccessToken{UserID: user.ID, Name: "api-token", TokenHash: "never-used"}
	require.NoError(t, repo.Create(ctx, stale))
	require.NoError(t, repo.Create(ctx, fresh))
	require.NoError(t, repo.Create(ctx, neverUsed))

	now := time.Now().UTC()
	require.NoError(t, repo.TouchLastUsed(ctx, stale.ID, now.Add(-48*time.Hour)))
	require.NoError(t, repo.TouchLastUsed(ctx, fresh.ID, now))
	// neverUsed keeps a NULL last_used_at and is judged by creation time,
	// which is recent here.

	pruned, err := repo.DeleteIdleSince(ctx, now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 1, pruned)

	_, err = repo.GetByHash(ctx, "stale")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	_, err = repo.GetByHash(ctx, "fresh")
	assert.NoError(t, err)
	_, err = repo.GetByHash(ctx, "never-used")
	assert.NoError(t, err)
}
