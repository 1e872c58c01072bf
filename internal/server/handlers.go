package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"qbo-mcp/internal/credential"
	"qbo-mcp/internal/quickbooks"
	"qbo-mcp/internal/report"
)

// periodKinds maps period-based report tools to their kinds.
var periodKinds = map[string]report.Kind{
	"generate_profit_loss_report":        report.ProfitAndLoss,
	"generate_cash_flow_report":          report.CashFlow,
	"generate_sales_by_customer_report":  report.SalesByCustomer,
	"generate_expenses_by_vendor_report": report.ExpensesByVendor,
}

// asOfKinds maps as-of-date report tools to their kinds.
var asOfKinds = map[string]report.Kind{
	"generate_balance_sheet_report": report.BalanceSheet,
	"generate_ar_aging_report":      report.ARAging,
	"generate_ap_aging_report":      report.APAging,
}

// periodReportHandler builds the handler for a period-based report tool.
// Missing dates default to the current month to date.
func (s *Server) periodReportHandler(toolName string) server.ToolHandlerFunc {
	kind := periodKinds[toolName]
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		startDate := request.GetString("start_date", "")
		endDate := request.GetString("end_date", "")

		var period report.Period
		switch {
		case startDate == "" && endDate == "":
			period = report.CurrentMonth(s.now())
		case startDate != "" && endDate != "":
			var err error
			period, err = report.ParsePeriod(startDate, endDate)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
		default:
			return mcp.NewToolResultError("start_date and end_date must be given together"), nil
		}

		return s.dispatchResult(ctx, report.Request{
			Kind:        kind,
			Period:      period,
			SummarizeBy: request.GetString("summarize_by", ""),
		})
	}
}

// asOfReportHandler builds the handler for an as-of-date report tool.
// A missing date defaults to today.
func (s *Server) asOfReportHandler(toolName string) server.ToolHandlerFunc {
	kind := asOfKinds[toolName]
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		req := report.Request{
			Kind:        kind,
			SummarizeBy: request.GetString("summarize_by", ""),
		}

		if raw := request.GetString("as_of_date", ""); raw != "" {
			asOf, err := report.ParseDate(raw)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			req.AsOfDate = asOf
		}

		return s.dispatchResult(ctx, req)
	}
}

// shortcutPLHandler builds the handler for the fixed-period P&L tools.
func (s *Server) shortcutPLHandler(window string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var period report.Period
		switch window {
		case "current_month":
			period = report.CurrentMonth(s.now())
		case "current_quarter":
			period = report.CurrentQuarter(s.now())
		case "current_year":
			period = report.CurrentYear(s.now())
		case "last_month":
			period = report.LastMonth(s.now())
		default:
			return mcp.NewToolResultError(fmt.Sprintf("unknown reporting window %q", window)), nil
		}

		return s.dispatchResult(ctx, report.Request{
			Kind:   report.ProfitAndLoss,
			Period: period,
		})
	}
}

// dispatchResult runs one report request through the gate and dispatcher
// and renders the envelope.
func (s *Server) dispatchResult(ctx context.Context, req report.Request) (*mcp.CallToolResult, error) {
	out, err := s.withAuth(ctx, func(auth quickbooks.Auth) (interface{}, error) {
		return s.dispatcher.Dispatch(ctx, auth, req)
	})
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(out)
}

// financialSummary is the aggregate body of get_company_financial_summary.
type financialSummary struct {
	SummaryType string                      `json:"summary_type"`
	GeneratedAt time.Time                   `json:"generated_at"`
	CompanyInfo *quickbooks.CompanyInfo     `json:"company_info,omitempty"`
	Reports     map[string]*report.Envelope `json:"reports"`
}

// handleFinancialSummary composes the current-month P&L, balance sheet,
// and both aging reports into one response. The gate is entered once;
// the reports reuse the same credential.
func (s *Server) handleFinancialSummary(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	out, err := s.withAuth(ctx, func(auth quickbooks.Auth) (interface{}, error) {
		summary := &financialSummary{
			SummaryType: "Comprehensive Financial Summary",
			GeneratedAt: s.now(),
			Reports:     map[string]*report.Envelope{},
		}

		info, err := s.querier.Company(ctx, auth)
		if err != nil {
			return nil, err
		}
		summary.CompanyInfo = info

		sections := []struct {
			key string
			req report.Request
		}{
			{"current_month_profit_loss", report.Request{Kind: report.ProfitAndLoss, Period: report.CurrentMonth(s.now())}},
			{"balance_sheet", report.Request{Kind: report.BalanceSheet}},
			{"ar_aging", report.Request{Kind: report.ARAging}},
			{"ap_aging", report.Request{Kind: report.APAging}},
		}
		for _, section := range sections {
			envelope, err := s.dispatcher.Dispatch(ctx, auth, section.req)
			if err != nil {
				return nil, err
			}
			summary.Reports[section.key] = envelope
		}

		return summary, nil
	})
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(out)
}

// jsonResult marshals a tool response body.
func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// errorResult renders a handler failure as a tool error, classifying
// credential problems so the caller knows re-authorization is needed.
func errorResult(err error) *mcp.CallToolResult {
	var authErr *credential.AuthorizationError
	var refreshErr *credential.TokenRefreshError
	switch {
	case errors.As(err, &authErr):
		return mcp.NewToolResultError(fmt.Sprintf("QuickBooks authorization failed: %v", err))
	case errors.As(err, &refreshErr):
		return mcp.NewToolResultError(fmt.Sprintf("QuickBooks token refresh failed: %v", err))
	case quickbooks.IsRetryable(err):
		return mcp.NewToolResultError(fmt.Sprintf("QuickBooks is temporarily unavailable, try again: %v", err))
	default:
		return mcp.NewToolResultError(err.Error())
	}
}
