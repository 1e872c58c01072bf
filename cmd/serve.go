package cmd

import (
	"github.com/spf13/cobra"

	"qbo-mcp/internal/quickbooks"
	"qbo-mcp/internal/report"
	"qbo-mcp/internal/server"
)

// newServeCmd creates the serve command, the server's main mode of
// operation.
func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server on stdio",
		Long: `Start the QuickBooks Online MCP server.

The server speaks the Model Context Protocol over stdin/stdout and is
meant to be launched by an MCP client (Claude Desktop, Cursor, etc.).
All diagnostics go to stderr. If no credential exists when the first
tool is called, a browser window opens for QuickBooks authorization.`,
		RunE: runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	gate, err := buildGate(cfg)
	if err != nil {
		return err
	}

	client, err := quickbooks.NewClient(cfg.Environment, &quickbooks.Options{
		MinorVersion: cfg.MinorVersion,
		SentryDSN:    cfg.SentryDSN,
	})
	if err != nil {
		return err
	}

	dispatcher := report.NewDispatcher(client, cfg.Environment)

	srv := server.New(cfg, gate, dispatcher, client, GetVersion())
	return srv.Start(cmd.Context())
}
