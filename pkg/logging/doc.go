// Package logging provides a structured logging system built on Go's
// standard slog package.
//
// All log entries carry a subsystem identifier for categorization
// (Config, CredentialStore, AuthGate, Authorizer, QBOClient, Dispatcher,
// Server) plus the usual level, timestamp, and message.
//
// Because the MCP server communicates over stdio, log output is always
// directed to stderr; writing anything else to stdout would corrupt the
// JSON-RPC framing.
//
// Usage:
//
//	logging.Init(logging.LevelInfo, os.Stderr)
//	logging.Info("Server", "Starting MCP server")
//	logging.Error("AuthGate", err, "Token refresh failed")
package logging
