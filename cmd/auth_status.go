package cmd

import (
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"qbo-mcp/internal/credential"
)

// authStatusCmd represents the auth status command.
var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show credential status",
	Long: `Show the state of the stored QuickBooks credential: which company
and environment it belongs to and when the access token expires.

Exit codes: 0 when a usable credential exists, 2 when authorization is
required.`,
	RunE: runAuthStatus,
}

func runAuthStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	gate, err := buildGate(cfg)
	if err != nil {
		return err
	}

	state, rec, err := gate.State()
	if err != nil {
		return err
	}

	fmt.Println("QuickBooks Online")
	fmt.Printf("  Environment: %s\n", cfg.Environment)

	switch state {
	case credential.StateValid:
		fmt.Printf("  Status:      %s\n", text.FgGreen.Sprint("Authorized"))
		fmt.Printf("  Company:     %s\n", rec.CompanyID)
		fmt.Printf("  Expires:     %s\n", rec.Expiry.Local().Format(time.RFC1123))
		return nil

	case credential.StateExpired:
		fmt.Printf("  Status:      %s\n", text.FgYellow.Sprint("Expired (will refresh on next use)"))
		fmt.Printf("  Company:     %s\n", rec.CompanyID)
		fmt.Printf("  Expired:     %s\n", rec.Expiry.Local().Format(time.RFC1123))
		return nil

	default:
		fmt.Printf("  Status:      %s\n", text.FgRed.Sprint("Not authorized"))
		fmt.Println()
		fmt.Println("Run 'qbo-mcp auth login' to authorize.")
		return &authRequiredError{message: "no credential stored"}
	}
}
