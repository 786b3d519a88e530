package users

import (
	"bufio"
	"context"
	"fmt"
	"net/mail"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/ChasLui/dokploy/internal/config"
	"github.com/ChasLui/dokploy/internal/db/bunx"
	"github.com/ChasLui/dokploy/internal/db/models"
	"github.com/ChasLui/dokploy/internal/repository"
)

var (
	emailFlag    string
	nameFlag     string
	passwordFlag string
	roleFlag     string
	stdinFlag    bool
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new dashboard user",
	RunE: func(cmd *cobra.Command, args []string) error {
		if emailFlag == "" {
			return fmt.Errorf("--email flag is required")
		}
		if nameFlag == "" {
			return fmt.Errorf("--name flag is required")
		}

		role := models.Role(roleFlag)
		if role != models.RoleAdmin && role != models.RoleUser {
			return fmt.Errorf("--role must be %q or %q", models.RoleAdmin, models.RoleUser)
		}

		password := passwordFlag
		if stdinFlag {
			scanner := bufio.NewScanner(os.Stdin)
			fmt.Print("Enter password: ")
			if scanner.Scan() {
				password = scanner.Text()
			}
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}
		}
		if password == "" {
			return fmt.Errorf("password is required (use --password or --stdin)")
		}

		if _, err := mail.ParseAddress(emailFlag); err != nil {
			return fmt.Errorf("invalid email format: %w", err)
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

		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}

		now := time.Now()
		user := &models.User{
			ID:           uuid.NewString(),
			Email:        emailFlag,
			Name:         nameFlag,
			PasswordHash: string(hash),
			Role:         role,
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		userRepo := repository.NewBunUserRepository(db)
		if err := userRepo.Create(context.Background(), user); err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}

		fmt.Printf("Created user %s (%s) with role %s\n", user.Email, user.ID, user.Role)
		return nil
	},
}

func init() {
	createCmd.Flags().StringVar(&emailFlag, "email", "", "User email address (required)")
	createCmd.Flags().StringVar(&nameFlag, "name", "", "Display name (required)")
	createCmd.Flags().StringVar(&passwordFlag, "password", "", "Password (prefer --stdin)")
	createCmd.Flags().StringVar(&roleFlag, "role", string(models.RoleUser), "Role: admin or user")
	createCmd.Flags().BoolVar(&stdinFlag, "stdin", false, "Read password from stdin")
}
