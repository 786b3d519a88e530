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

// BunRegistryRepository implements RegistryRepository using Bun ORM
type BunRegistryRepository struct {
	db *bun.DB
}

// NewBunRegistryRepository creates a new Bun-based registry repository
func NewBunRegistryRepository(db *bun.DB) *BunRegistryRepository {
	return &BunRegistryRepository{db: db}
}

// Create inserts a new registry
func (r *BunRegistryRepository) Create(ctx context.Context, registry *models.Registry) error {
	_, err := r.db.NewInsert().
		Model(registry).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("create registry: %w", err)
	}
	return nil
}

// GetByID retrieves a registry by ID
func (r *BunRegistryRepository) GetByID(ctx context.Context, id string) (*models.Registry, error) {
	registry := new(models.Registry)
	err := r.db.NewSelect().
		Model(registry).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("registry %w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("get registry: %w", err)
	}
	return registry, nil
}

// Update persists changes to an existing registry
func (r *BunRegistryRepository) Update(ctx context.Context, registry *models.Registry) error {
	registry.UpdatedAt = time.Now()
	_, err := r.db.NewUpdate().
		Model(registry).
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("update registry: %w", err)
	}
	return nil
}

// Delete removes a registry
func (r *BunRegistryRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.NewDelete().
		Model((*models.Registry)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete registry: %w", err)
	}
	return nil
}

// List retrieves all registries
func (r *BunRegistryRepository) List(ctx context.Context) ([]models.Registry, error) {
	var registries []models.Registry
	err := r.db.NewSelect().
		Model(&registries).
		Order("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list registries: %w", err)
	}
	return registries, nil
}
