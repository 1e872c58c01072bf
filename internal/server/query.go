package server

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"qbo-mcp/internal/quickbooks"
)

const defaultInvoiceLimit = 10

// maxQueryResults caps query-endpoint result sets; the API itself tops
// out at 1000 rows per request.
const maxQueryResults = 1000

func (s *Server) handleListAccounts(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	out, err := s.withAuth(ctx, func(auth quickbooks.Auth) (interface{}, error) {
		resp, err := s.querier.Query(ctx, auth, "SELECT * FROM Account WHERE Active = true ORDERBY Name")
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{
			"count":    len(resp.Account),
			"accounts": resp.Account,
		}, nil
	})
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(out)
}

func (s *Server) handleListCustomers(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	out, err := s.withAuth(ctx, func(auth quickbooks.Auth) (interface{}, error) {
		resp, err := s.querier.Query(ctx, auth, "SELECT * FROM Customer WHERE Active = true ORDERBY DisplayName")
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{
			"count":     len(resp.Customer),
			"customers": resp.Customer,
		}, nil
	})
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(out)
}

func (s *Server) handleListRecentInvoices(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := request.GetInt("limit", defaultInvoiceLimit)
	if limit < 1 || limit > maxQueryResults {
		return mcp.NewToolResultError(fmt.Sprintf("limit must be between 1 and %d", maxQueryResults)), nil
	}

	out, err := s.withAuth(ctx, func(auth quickbooks.Auth) (interface{}, error) {
		query := fmt.Sprintf("SELECT * FROM Invoice ORDERBY TxnDate DESC MAXRESULTS %d", limit)
		resp, err := s.querier.Query(ctx, auth, query)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{
			"count":    len(resp.Invoice),
			"invoices": resp.Invoice,
		}, nil
	})
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(out)
}
