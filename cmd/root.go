package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"qbo-mcp/internal/config"
	"qbo-mcp/internal/credential"
	"qbo-mcp/pkg/logging"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (command failed, invalid arguments).
	ExitCodeError = 1
	// ExitCodeAuthRequired indicates a credential is required but not available.
	ExitCodeAuthRequired = 2
	// ExitCodeAuthFailed indicates the OAuth flow or token refresh failed.
	ExitCodeAuthFailed = 3
)

// Global flags
var (
	configDir string
	debugMode bool
)

// rootCmd represents the base command for the qbo-mcp application.
var rootCmd = &cobra.Command{
	Use:   "qbo-mcp",
	Short: "QuickBooks Online MCP server",
	Long: `qbo-mcp exposes QuickBooks Online financial reports and resources
to AI assistants over the Model Context Protocol, handling the OAuth
credential lifecycle (browser authorization, silent refresh, token
rotation) transparently.`,
	// SilenceUsage prevents Cobra from printing the usage message on
	// errors that are handled by the application.
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := logging.LevelInfo
		if debugMode {
			level = logging.LevelDebug
		}
		// Stdout carries the MCP protocol; all logging goes to stderr.
		logging.Init(level, os.Stderr)
	},
}

// SetVersion sets the version for the root command. Called from the main
// package to inject the build version.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute is the main entry point for the CLI application.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "qbo-mcp version %s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(getExitCode(err))
	}
}

// authRequiredError signals that a command needs a credential that does
// not exist yet.
type authRequiredError struct {
	message string
}

func (e *authRequiredError) Error() string {
	return e.message
}

// getExitCode determines the exit code based on the error type.
func getExitCode(err error) int {
	var authRequired *authRequiredError
	if errors.As(err, &authRequired) {
		return ExitCodeAuthRequired
	}

	var authFailed *credential.AuthorizationError
	if errors.As(err, &authFailed) {
		return ExitCodeAuthFailed
	}

	var refreshFailed *credential.TokenRefreshError
	if errors.As(err, &refreshFailed) {
		return ExitCodeAuthFailed
	}

	return ExitCodeError
}

// loadConfig loads and validates the configuration from the config
// directory and environment.
func loadConfig() (*config.Config, error) {
	dir := configDir
	if dir == "" {
		var err error
		dir, err = config.DefaultConfigDir()
		if err != nil {
			return nil, err
		}
	}

	cfg, err := config.Load(dir)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "Configuration directory (default $HOME/.config/qbo-mcp)")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newVersionCmd())
}
