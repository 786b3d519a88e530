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

// BunNodeRepository implements NodeRepository using Bun ORM
type BunNodeRepository struct {
	db *bun.DB
}

// NewBunNodeRepository creates a new Bun-based cluster node repository
func NewBunNodeRepository(db *bun.DB) *BunNodeRepository {
	return &BunNodeRepository{db: db}
}

// Upsert inserts or refreshes a node record. The node sync job calls this
// for every member reported by the orchestrator.
func (r *BunNodeRepository) Upsert(ctx context.Context, node *models.ClusterNode) error {
	node.UpdatedAt = time.Now()
	_, err := r.db.NewInsert().
		Model(node).
		On("CONFLICT (id) DO UPDATE").
		Set("hostname = EXCLUDED.hostname").
		Set("role = EXCLUDED.role").
		Set("status = EXCLUDED.status").
		Set("availability = EXCLUDED.availability").
		Set("engine_version = EXCLUDED.engine_version").
		Set("address = EXCLUDED.address").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("upsert cluster node: %w", err)
	}
	return nil
}

// GetByID retrieves a node by its orchestrator ID
func (r *BunNodeRepository) GetByID(ctx context.Context, id string) (*models.ClusterNode, error) {
	node := new(models.ClusterNode)
	err := r.db.NewSelect().
		Model(node).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("cluster node %w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("get cluster node: %w", err)
	}
	return node, nil
}

// Delete removes a node record after the worker leaves the cluster
func (r *BunNodeRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.NewDelete().
		Model((*models.ClusterNode)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete cluster node: %w", err)
	}
	return nil
}

// List retrieves all known cluster nodes
func (r *BunNodeRepository) List(ctx context.Context) ([]models.ClusterNode, error) {
	var nodes []models.ClusterNode
	err := r.db.NewSelect().
		Model(&nodes).
		Order("joined_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list cluster nodes: %w", err)
	}
	return nodes, nil
}
