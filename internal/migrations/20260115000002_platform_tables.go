package migrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/ChasLui/dokploy/internal/db/models"
)

func init() {
	Migrations.MustRegister(up_20260115000002, down_20260115000002)
}

// up_20260115000002 creates the platform tables: registries, cluster_nodes, database_instances
func up_20260115000002(ctx context.Context, db *bun.DB) error {
	fmt.Print(" [up] creating registries table...")
	_, err := db.NewCreateTable().
		Model((*models.Registry)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create registries table: %w", err)
	}
	fmt.Println(" OK")

	fmt.Print(" [up] creating cluster_nodes table...")
	_, err = db.NewCreateTable().
		Model((*models.ClusterNode)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create cluster_nodes table: %w", err)
	}
	fmt.Println(" OK")

	fmt.Print(" [up] creating database_instances table...")
	_, err = db.NewCreateTable().
		Model((*models.DatabaseInstance)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create database_instances table: %w", err)
	}

	_, err = db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_database_instances_app_name ON database_instances(app_name)`)
	if err != nil {
		return fmt.Errorf("failed to create database_instances app name index: %w", err)
	}
	fmt.Println(" OK")

	return nil
}

// down_20260115000002 drops the platform tables
func down_20260115000002(ctx context.Context, db *bun.DB) error {
	for _, table := range []string{"database_instances", "cluster_nodes", "registries"} {
		if _, err := db.Exec(fmt.Sprintf(`DROP TABLE IF EXISTS %s`, table)); err != nil {
			return fmt.Errorf("failed to drop %s table: %w", table, err)
		}
	}
	return nil
}
