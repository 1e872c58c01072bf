package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"qbo-mcp/internal/credential"
)

// authLogoutCmd represents the auth logout command.
var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored credential",
	Long: `Delete the stored QuickBooks credential.

The next tool call or 'auth login' will run the browser authorization
flow again. This does not revoke the connection on Intuit's side.`,
	RunE: runAuthLogout,
}

func runAuthLogout(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store := credential.NewStore(cfg.CredentialFile)
	if err := store.Delete(); err != nil {
		return err
	}

	fmt.Println("Credential removed.")
	return nil
}
