package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	"github.com/ChasLui/dokploy/internal/db/bunx"
	"github.com/ChasLui/dokploy/internal/db/models"
)

// setupTestDB creates an in-memory SQLite database with the auth tables
func setupTestDB(t *testing.T) *bun.DB {
	t.Helper()

	db, err := bunx.NewDB(":memory:", 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = bunx.Close(db) })

	ctx := context.Background()
	for _, model := range []interface{}{
		(*models.User)(nil),
		(*models.Session)(nil),
		(*models.APIToken)(nil),
		(*models.Registry)(nil),
	} {
		_, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx)
		require.NoError(t, err)
	}

	return db
}

func createTestUser(t *testing.T, db *bun.DB) *models.User {
	t.Helper()

	user := &models.User{
		ID:           uuid.NewString(),
		Email:        uuid.NewString() + "@example.com",
		Name:         "Test User",
		PasswordHash: "$2a$10$irrelevant",
		Role:         models.RoleAdmin,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	require.NoError(t, NewBunUserRepository(db).Create(context.Background(), user))
	return user
}

func TestBunSessionRepository_CreateAndGetByTokenHash(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBunSessionRepository(db)
	ctx := context.Background()
	user := createTestUser(t, db)

	session := &models.Session{
		ID:         uuid.NewString(),
		UserID:     user.ID,
		TokenHash:  "hash-abc",
		ExpiresAt:  time.Now().Add(time.Hour),
		CreatedAt:  time.Now(),
		LastUsedAt: time.Now(),
	}
	require.NoError(t, repo.Create(ctx, session))

	got, err := repo.GetByTokenHash(ctx, "hash-abc")
	require.NoError(t, err)
	assert.Equal(t, session.ID, got.ID)
	assert.Equal(t, user.ID, got.UserID)
	assert.False(t, got.Revoked)
}

func TestBunSessionRepository_GetByTokenHashNotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBunSessionRepository(db)

	_, err := repo.GetByTokenHash(context.Background(), "no-such-hash")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session not found")
}

func TestBunSessionRepository_GetByTokenHashIsReadOnly(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBunSessionRepository(db)
	ctx := context.Background()
	user := createTestUser(t, db)

	lastUsed := time.Now().Add(-time.Hour).Truncate(time.Second)
	session := &models.Session{
		ID:         uuid.NewString(),
		UserID:     user.ID,
		TokenHash:  "hash-idempotent",
		ExpiresAt:  time.Now().Add(time.Hour),
		CreatedAt:  time.Now(),
		LastUsedAt: lastUsed,
	}
	require.NoError(t, repo.Create(ctx, session))

	// Repeated lookups within one request must not mutate session state.
	first, err := repo.GetByTokenHash(ctx, "hash-idempotent")
	require.NoError(t, err)
	second, err := repo.GetByTokenHash(ctx, "hash-idempotent")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.LastUsedAt.Unix(), second.LastUsedAt.Unix())
	assert.Equal(t, lastUsed.Unix(), second.LastUsedAt.Unix())
}

func TestBunSessionRepository_RevokeAndRevokeByUserID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBunSessionRepository(db)
	ctx := context.Background()
	user := createTestUser(t, db)

	for _, hash := range []string{"hash-1", "hash-2"} {
		require.NoError(t, repo.Create(ctx, &models.Session{
			ID:         uuid.NewString(),
			UserID:     user.ID,
			TokenHash:  hash,
			ExpiresAt:  time.Now().Add(time.Hour),
			CreatedAt:  time.Now(),
			LastUsedAt: time.Now(),
		}))
	}

	require.NoError(t, repo.RevokeByUserID(ctx, user.ID))

	got, err := repo.GetByTokenHash(ctx, "hash-1")
	require.NoError(t, err)
	assert.True(t, got.Revoked)
	got, err = repo.GetByTokenHash(ctx, "hash-2")
	require.NoError(t, err)
	assert.True(t, got.Revoked)
}

func TestBunSessionRepository_DeleteExpired(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBunSessionRepository(db)
	ctx := context.Background()
	user := createTestUser(t, db)

	require.NoError(t, repo.Create(ctx, &models.Session{
		ID:         uuid.NewString(),
		UserID:     user.ID,
		TokenHash:  "hash-expired",
		ExpiresAt:  time.Now().Add(-time.Hour),
		CreatedAt:  time.Now().Add(-2 * time.Hour),
		LastUsedAt: time.Now().Add(-2 * time.Hour),
	}))
	require.NoError(t, repo.Create(ctx, &models.Session{
		ID:         uuid.NewString(),
		UserID:     user.ID,
		TokenHash:  "hash-live",
		ExpiresAt:  time.Now().Add(time.Hour),
		CreatedAt:  time.Now(),
		LastUsedAt: time.Now(),
	}))

	require.NoError(t, repo.DeleteExpired(ctx))

	_, err := repo.GetByTokenHash(ctx, "hash-expired")
	require.Error(t, err)
	_, err = repo.GetByTokenHash(ctx, "hash-live")
	require.NoError(t, err)
}

func TestBunAPITokenRepository_RoundTrip(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBunAPITokenRepository(db)
	ctx := context.Background()
	user := createTestUser(t, db)

	token := &models.APIToken{
		ID:          uuid.NewString(),
		UserID:      user.ID,
		Name:        "ci-pipeline",
		TokenHash:   "tok-hash",
		Fingerprint: "3QJmnh",
		CreatedAt:   time.Now(),
	}
	require.NoError(t, repo.Create(ctx, token))

	got, err := repo.GetByTokenHash(ctx, "tok-hash")
	require.NoError(t, err)
	assert.Equal(t, "ci-pipeline", got.Name)
	assert.Nil(t, got.ExpiresAt)
	assert.False(t, got.Revoked)

	require.NoError(t, repo.Revoke(ctx, token.ID))
	got, err = repo.GetByTokenHash(ctx, "tok-hash")
	require.NoError(t, err)
	assert.True(t, got.Revoked)

	list, err := repo.ListByUserID(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
}
