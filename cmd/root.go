package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ChasLui/dokploy/cmd/tokens"
	"github.com/ChasLui/dokploy/cmd/users"
	"github.com/ChasLui/dokploy/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "dokploy",
	Short: "Dokploy deployment platform server",
	Long: `Dokploy serves the deployment platform dashboard and API.
All API traffic passes through an authentication gateway that accepts
bearer tokens or session cookies.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		return nil
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().String("db-url", "", "Database connection URL (env: DATABASE_URL)")
	rootCmd.PersistentFlags().String("server-addr", "", "Server bind address (env: SERVER_ADDR)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging (env: DEBUG)")

	// Add subcommands
	rootCmd.AddCommand(users.UsersCmd)
	rootCmd.AddCommand(tokens.TokensCmd)
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
