package tokens

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ChasLui/dokploy/internal/config"
	"github.com/ChasLui/dokploy/internal/db/bunx"
	"github.com/ChasLui/dokploy/internal/repository"
)

var idFlag string

var revokeCmd = &cobra.Command{
	Use:   "revoke",
	Short: "Revoke an API token",
	Long:  `Revokes a token immediately. In-flight requests already authenticated are unaffected; the next request fails.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if idFlag == "" {
			return fmt.Errorf("--id flag is required")
		}

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		db, err := bunx.NewDB(cfg.DatabaseURL, cfg.MaxDBConnections)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer bunx.Close(db)

		ctx := context.Background()
		tokenRepo := repository.NewBunAPITokenRepository(db)

		token, err := tokenRepo.GetByID(ctx, idFlag)
		if err != nil {
			return fmt.Errorf("failed to look up token: %w", err)
		}
		if err := tokenRepo.Revoke(ctx, token.ID); err != nil {
			return fmt.Errorf("failed to revoke token: %w", err)
		}

		fmt.Printf("Revoked token %s (%s)\n", token.Name, token.Fingerprint)
		return nil
	},
}

func init() {
	revokeCmd.Flags().StringVar(&idFlag, "id", "", "Token ID to revoke (required)")
}
