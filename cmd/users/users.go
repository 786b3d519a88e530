package users

import "github.com/spf13/cobra"

// UsersCmd groups user management subcommands.
var UsersCmd = &cobra.Command{
	Use:   "users",
	Short: "User management commands",
}

func init() {
	UsersCmd.AddCommand(createCmd)
}
