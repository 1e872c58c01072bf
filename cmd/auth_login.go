package cmd

import (
	"fmt"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
)

// authLoginCmd represents the auth login command.
var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authorize with QuickBooks Online",
	Long: `Run the interactive browser authorization flow and store the
resulting credential.

A browser window opens on the Intuit consent page; after you approve
access, the credential is saved and the MCP server can run without
further interaction until the refresh token expires.`,
	RunE: runAuthLogin,
}

func runAuthLogin(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	gate, err := buildGate(cfg)
	if err != nil {
		return err
	}

	_, rec, err := gate.State()
	if err != nil {
		return err
	}
	if rec.Usable(time.Now()) {
		fmt.Printf("Already authorized for company %s (%s), token valid until %s.\n",
			rec.CompanyID, rec.Environment, rec.Expiry.Local().Format(time.RFC1123))
		return nil
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " Waiting for browser authorization..."
	s.Start()

	rec, err = gate.Ensure(cmd.Context())
	s.Stop()
	if err != nil {
		return err
	}

	fmt.Printf("Authorized company %s (%s), token valid until %s.\n",
		rec.CompanyID, rec.Environment, rec.Expiry.Local().Format(time.RFC1123))
	return nil
}
