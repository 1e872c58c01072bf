package server

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"qbo-mcp/internal/report"
)

// registerPrompts registers the guided-analysis prompts.
func (s *Server) registerPrompts() {
	s.mcpServer.AddPrompt(mcp.NewPrompt("analyze_cash_flow",
		mcp.WithPromptDescription("Guide for analyzing the company's cash flow situation"),
	), s.handleAnalyzeCashFlowPrompt)

	s.mcpServer.AddPrompt(mcp.NewPrompt("monthly_review",
		mcp.WithPromptDescription("Guide for reviewing last month's financial results"),
	), s.handleMonthlyReviewPrompt)

	s.mcpServer.AddPrompt(mcp.NewPrompt("accounts_receivable_analysis",
		mcp.WithPromptDescription("Guide for analyzing accounts receivable and collections"),
	), s.handleARAnalysisPrompt)
}

func (s *Server) handleAnalyzeCashFlowPrompt(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	text := `I'll help you analyze the company's cash flow situation. I'll:

1. Review the current balance sheet to assess cash position and working capital
2. Check aged receivables to understand collection status
3. Identify any concerning trends or potential cash flow issues
4. Provide specific recommendations for improving cash flow

Would you like me to proceed with this analysis?`

	return promptResult("Cash flow analysis", text), nil
}

func (s *Server) handleMonthlyReviewPrompt(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	period := report.LastMonth(s.now())
	startStr := period.Start.Format("January 2, 2006")
	endStr := period.End.Format("January 2, 2006")

	text := fmt.Sprintf(`I'll help you review the financial results for last month (%s - %s). I'll:

1. Analyze the P&L statement from %s to %s
2. Review the balance sheet as of %s
3. Highlight key metrics and significant changes
4. Identify areas that need attention
5. Suggest specific actions for improvement

Would you like me to proceed with this review?`, startStr, endStr, startStr, endStr, endStr)

	return promptResult("Monthly financial review", text), nil
}

func (s *Server) handleARAnalysisPrompt(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	text := `I'll help you analyze the accounts receivable situation. I'll:

1. Review the aged receivables report
2. Identify overdue accounts and aging patterns
3. Calculate key collection metrics
4. Recommend specific strategies for improving collections

Would you like me to proceed with this analysis?`

	return promptResult("Accounts receivable analysis", text), nil
}

func promptResult(description, text string) *mcp.GetPromptResult {
	return mcp.NewGetPromptResult(description, []mcp.PromptMessage{
		mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(text)),
	})
}
