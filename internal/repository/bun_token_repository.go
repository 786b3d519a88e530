package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/ChasLui/dokploy/internal/db/models"
)

// BunAPITokenRepository implements APITokenRepository using Bun ORM
type BunAPITokenRepository struct {
	db *bun.DB
}

// NewBunAPITokenRepository creates a new Bun-based API token repository
func NewBunAPITokenRepository(db *bun.DB) *BunAPITokenRepository {
	return &BunAPITokenRepository{db: db}
}

// Create inserts a new API token record
func (r *BunAPITokenRepository) Create(ctx context.Context, token *models.APIToken) error {
	_, err := r.db.NewInsert().
		Model(token).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("create api token: %w", err)
	}
	return nil
}

// GetByID retrieves an API token by ID
func (r *BunAPITokenRepository) GetByID(ctx context.Context, id string) (*models.APIToken, error) {
	token := new(models.APIToken)
	err := r.db.NewSelect().
		Model(token).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("api token %w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("get api token: %w", err)
	}
	return token, nil
}

// GetByTokenHash retrieves an API token by its hash.
// This is the primary lookup for bearer authentication and performs no writes.
func (r *BunAPITokenRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*models.APIToken, error) {
	token := new(models.APIToken)
	err := r.db.NewSelect().
		Model(token).
		Where("token_hash = ?", tokenHash).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("api token %w", ErrNotFound)
		}
		return nil, fmt.Errorf("get api token by hash: %w", err)
	}
	return token, nil
}

// ListByUserID retrieves all API tokens owned by a user
func (r *BunAPITokenRepository) ListByUserID(ctx context.Context, userID string) ([]models.APIToken, error) {
	var tokens []models.APIToken
	err := r.db.NewSelect().
		Model(&tokens).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list user api tokens: %w", err)
	}
	return tokens, nil
}

// UpdateLastUsed updates the last_used_at timestamp for a token
func (r *BunAPITokenRepository) UpdateLastUsed(ctx context.Context, id string) error {
	_, err := r.db.NewUpdate().
		Model((*models.APIToken)(nil)).
		Set("last_used_at = ?", time.Now()).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("update token last used: %w", err)
	}
	return nil
}

// Revoke marks a token as revoked. Revocation is permanent; issue a new
// token instead of un-revoking.
func (r *BunAPITokenRepository) Revoke(ctx context.Context, id string) error {
	_, err := r.db.NewUpdate().
		Model((*models.APIToken)(nil)).
		Set("revoked = ?", true).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("revoke api token: %w", err)
	}
	return nil
}

// List retrieves all API tokens (admin operation)
func (r *BunAPITokenRepository) List(ctx context.Context) ([]models.APIToken, error) {
	var tokens []models.APIToken
	err := r.db.NewSelect().
		Model(&tokens).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list api tokens: %w", err)
	}
	return tokens, nil
}
