package migrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/ChasLui/dokploy/internal/db/models"
)

func init() {
	Migrations.MustRegister(up_20260115000001, down_20260115000001)
}

// up_20260115000001 creates the authentication tables: users, sessions, api_tokens
func up_20260115000001(ctx context.Context, db *bun.DB) error {
	fmt.Print(" [up] creating users table...")
	_, err := db.NewCreateTable().
		Model((*models.User)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create users table: %w", err)
	}

	_, err = db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(email)`)
	if err != nil {
		return fmt.Errorf("failed to create users email index: %w", err)
	}
	fmt.Println(" OK")

	fmt.Print(" [up] creating sessions table...")
	_, err = db.NewCreateTable().
		Model((*models.Session)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create sessions table: %w", err)
	}

	// Token-hash lookup is the authentication hot path
	_, err = db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_sessions_token_hash ON sessions(token_hash)`)
	if err != nil {
		return fmt.Errorf("failed to create sessions token hash index: %w", err)
	}
	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_sessions_user_id ON sessions(user_id)`)
	if err != nil {
		return fmt.Errorf("failed to create sessions user index: %w", err)
	}
	fmt.Println(" OK")

	fmt.Print(" [up] creating api_tokens table...")
	_, err = db.NewCreateTable().
		Model((*models.APIToken)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create api_tokens table: %w", err)
	}

	_, err = db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_api_tokens_token_hash ON api_tokens(token_hash)`)
	if err != nil {
		return fmt.Errorf("failed to create api_tokens token hash index: %w", err)
	}
	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_api_tokens_user_id ON api_tokens(user_id)`)
	if err != nil {
		return fmt.Errorf("failed to create api_tokens user index: %w", err)
	}
	fmt.Println(" OK")

	return nil
}

// down_20260115000001 drops the authentication tables
func down_20260115000001(ctx context.Context, db *bun.DB) error {
	for _, table := range []string{"api_tokens", "sessions", "users"} {
		if _, err := db.Exec(fmt.Sprintf(`DROP TABLE IF EXISTS %s`, table)); err != nil {
			return fmt.Errorf("failed to drop %s table: %w", table, err)
		}
	}
	return nil
}
