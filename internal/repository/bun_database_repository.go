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

// BunDatabaseRepository implements DatabaseRepository using Bun ORM
type BunDatabaseRepository struct {
	db *bun.DB
}

// NewBunDatabaseRepository creates a new Bun-based database instance repository
func NewBunDatabaseRepository(db *bun.DB) *BunDatabaseRepository {
	return &BunDatabaseRepository{db: db}
}

// Create inserts a new database instance record
func (r *BunDatabaseRepository) Create(ctx context.Context, instance *models.DatabaseInstance) error {
	_, err := r.db.NewInsert().
		Model(instance).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("create database instance: %w", err)
	}
	return nil
}

// GetByID retrieves a database instance by ID
func (r *BunDatabaseRepository) GetByID(ctx context.Context, id string) (*models.DatabaseInstance, error) {
	instance := new(models.DatabaseInstance)
	err := r.db.NewSelect().
		Model(instance).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("database instance %w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("get database instance: %w", err)
	}
	return instance, nil
}

// GetByAppName retrieves a database instance by its unique application name
func (r *BunDatabaseRepository) GetByAppName(ctx context.Context, appName string) (*models.DatabaseInstance, error) {
	instance := new(models.DatabaseInstance)
	err := r.db.NewSelect().
		Model(instance).
		Where("app_name = ?", appName).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("database instance %w: %s", ErrNotFound, appName)
		}
		return nil, fmt.Errorf("get database instance by app name: %w", err)
	}
	return instance, nil
}

// Update persists changes to an existing database instance
func (r *BunDatabaseRepository) Update(ctx context.Context, instance *models.DatabaseInstance) error {
	instance.UpdatedAt = time.Now()
	_, err := r.db.NewUpdate().
		Model(instance).
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("update database instance: %w", err)
	}
	return nil
}

// Delete removes a database instance record
func (r *BunDatabaseRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.NewDelete().
		Model((*models.DatabaseInstance)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete database instance: %w", err)
	}
	return nil
}

// List retrieves all database instances
func (r *BunDatabaseRepository) List(ctx context.Context) ([]models.DatabaseInstance, error) {
	var instances []models.DatabaseInstance
	err := r.db.NewSelect().
		Model(&instances).
		Order("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list database instances: %w", err)
	}
	return instances, nil
}
