package cmd

import (
	"github.com/spf13/cobra"
)

// authCmd groups the credential lifecycle commands.
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the QuickBooks credential",
	Long: `Manage the stored QuickBooks Online credential.

The MCP server authorizes automatically on first use, but these commands
let you pre-seed, inspect, or remove the credential outside of a client
session.`,
}

func init() {
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authStatusCmd)
	authCmd.AddCommand(authLogoutCmd)
	rootCmd.AddCommand(authCmd)
}
