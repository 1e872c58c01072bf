package server

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"qbo-mcp/internal/config"
	"qbo-mcp/internal/credential"
	"qbo-mcp/internal/quickbooks"
	"qbo-mcp/internal/report"
	"qbo-mcp/pkg/logging"
)

// AuthGate is the credential lifecycle surface the server depends on.
type AuthGate interface {
	Ensure(ctx context.Context) (*credential.Record, error)
	Invalidate()
}

// Dispatcher generates processed report envelopes.
type Dispatcher interface {
	Dispatch(ctx context.Context, auth quickbooks.Auth, req report.Request) (*report.Envelope, error)
}

// Querier is the query-endpoint slice of the QuickBooks client.
type Querier interface {
	Query(ctx context.Context, auth quickbooks.Auth, query string) (*quickbooks.QueryResponse, error)
	Company(ctx context.Context, auth quickbooks.Auth) (*quickbooks.CompanyInfo, error)
}

// Server exposes QuickBooks reports and resources as MCP tools over
// stdio. Every handler passes through the auth gate before touching the
// API; nothing else in the process manages credentials.
type Server struct {
	cfg        *config.Config
	gate       AuthGate
	dispatcher Dispatcher
	querier    Querier
	mcpServer  *server.MCPServer

	// now is swapped out in tests.
	now func() time.Time
}

// New creates the MCP server and registers all tools and prompts.
func New(cfg *config.Config, gate AuthGate, dispatcher Dispatcher, querier Querier, version string) *Server {
	mcpServer := server.NewMCPServer(
		"qbo-mcp",
		version,
		server.WithToolCapabilities(false),
		server.WithPromptCapabilities(false),
	)

	s := &Server{
		cfg:        cfg,
		gate:       gate,
		dispatcher: dispatcher,
		querier:    querier,
		mcpServer:  mcpServer,
		now:        time.Now,
	}

	s.registerTools()
	s.registerPrompts()

	return s
}

// Start serves MCP over stdio. It blocks until the client closes the
// connection or the context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	logging.Info("Server", "Starting MCP server on stdio (environment=%s)", s.cfg.Environment)
	return server.ServeStdio(s.mcpServer)
}

// withAuth runs fn with a valid credential. If the API rejects the
// credential mid-call, the gate is invalidated and fn retried once with
// a fresh credential; a second rejection is returned as-is.
func (s *Server) withAuth(ctx context.Context, fn func(auth quickbooks.Auth) (interface{}, error)) (interface{}, error) {
	rec, err := s.gate.Ensure(ctx)
	if err != nil {
		return nil, err
	}

	out, err := fn(quickbooks.Auth{AccessToken: rec.AccessToken, CompanyID: rec.CompanyID})
	if err == nil || !quickbooks.IsAuthError(err) {
		return out, err
	}

	logging.Warn("Server", "Credential rejected by API, re-entering auth gate")
	s.gate.Invalidate()

	rec, err = s.gate.Ensure(ctx)
	if err != nil {
		return nil, err
	}
	return fn(quickbooks.Auth{AccessToken: rec.AccessToken, CompanyID: rec.CompanyID})
}
