package tokens

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ChasLui/dokploy/internal/auth"
	"github.com/ChasLui/dokploy/internal/config"
	"github.com/ChasLui/dokploy/internal/db/bunx"
	"github.com/ChasLui/dokploy/internal/db/models"
	"github.com/ChasLui/dokploy/internal/repository"
)

var (
	emailFlag   string
	nameFlag    string
	expiresFlag time.Duration
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Issue a new API token",
	Long: `Issues a bearer token for programmatic API access. The token value is
printed exactly once; only its hash is stored.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if emailFlag == "" {
			return fmt.Errorf("--email flag is required")
		}
		if nameFlag == "" {
			return fmt.Errorf("--name flag is required")
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
		user, err := repository.NewBunUserRepository(db).GetByEmail(ctx, emailFlag)
		if err != nil {
			return fmt.Errorf("failed to look up user: %w", err)
		}

		token, tokenHash, err := auth.GenerateToken()
		if err != nil {
			return fmt.Errorf("failed to generate token: %w", err)
		}

		var expiresAt *time.Time
		if expiresFlag > 0 {
			t := time.Now().Add(expiresFlag)
			expiresAt = &t
		}

		record := &models.APIToken{
			ID:          uuid.NewString(),
			UserID:      user.ID,
			Name:        nameFlag,
			TokenHash:   tokenHash,
			Fingerprint: auth.Fingerprint(tokenHash),
			ExpiresAt:   expiresAt,
			CreatedAt:   time.Now(),
		}
		if err := repository.NewBunAPITokenRepository(db).Create(ctx, record); err != nil {
			return fmt.Errorf("failed to store token: %w", err)
		}

		fmt.Printf("Token ID:    %s\n", record.ID)
		fmt.Printf("Fingerprint: %s\n", record.Fingerprint)
		if expiresAt != nil {
			fmt.Printf("Expires:     %s\n", expiresAt.Format(time.RFC3339))
		} else {
			fmt.Printf("Expires:     never\n")
		}
		fmt.Printf("\n%s\n\nStore this token now; it cannot be shown again.\n", token)
		return nil
	},
}

func init() {
	createCmd.Flags().StringVar(&emailFlag, "email", "", "Owner's email address (required)")
	createCmd.Flags().StringVar(&nameFlag, "name", "", "Token name, e.g. ci-pipeline (required)")
	createCmd.Flags().DurationVar(&expiresFlag, "expires", 0, "Token lifetime, e.g. 720h (0 = never)")
}
