package tokens

import "github.com/spf13/cobra"

// TokensCmd groups API token management subcommands.
var TokensCmd = &cobra.Command{
	Use:   "tokens",
	Short: "API token management commands",
}

func init() {
	TokensCmd.AddCommand(createCmd)
	TokensCmd.AddCommand(revokeCmd)
}
