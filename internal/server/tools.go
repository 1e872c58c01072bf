package server

import "github.com/mark3labs/mcp-go/mcp"

// registerTools registers the report and resource tools.
func (s *Server) registerTools() {
	// Period-based reports
	profitLossTool := mcp.NewTool("generate_profit_loss_report",
		mcp.WithDescription("Generate a Profit and Loss report. Defaults to the current month when no dates are given."),
		mcp.WithString("start_date",
			mcp.Description("Period start date (YYYY-MM-DD)"),
		),
		mcp.WithString("end_date",
			mcp.Description("Period end date (YYYY-MM-DD)"),
		),
		mcp.WithString("summarize_by",
			mcp.Description("Column summarization: Month, Quarter, or Year"),
		),
	)
	s.mcpServer.AddTool(profitLossTool, s.periodReportHandler("generate_profit_loss_report"))

	cashFlowTool := mcp.NewTool("generate_cash_flow_report",
		mcp.WithDescription("Generate a Cash Flow statement. Defaults to the current month when no dates are given."),
		mcp.WithString("start_date",
			mcp.Description("Period start date (YYYY-MM-DD)"),
		),
		mcp.WithString("end_date",
			mcp.Description("Period end date (YYYY-MM-DD)"),
		),
	)
	s.mcpServer.AddTool(cashFlowTool, s.periodReportHandler("generate_cash_flow_report"))

	salesTool := mcp.NewTool("generate_sales_by_customer_report",
		mcp.WithDescription("Generate a Sales by Customer report. Defaults to the current month when no dates are given."),
		mcp.WithString("start_date",
			mcp.Description("Period start date (YYYY-MM-DD)"),
		),
		mcp.WithString("end_date",
			mcp.Description("Period end date (YYYY-MM-DD)"),
		),
	)
	s.mcpServer.AddTool(salesTool, s.periodReportHandler("generate_sales_by_customer_report"))

	expensesTool := mcp.NewTool("generate_expenses_by_vendor_report",
		mcp.WithDescription("Generate an Expenses by Vendor report. Defaults to the current month when no dates are given."),
		mcp.WithString("start_date",
			mcp.Description("Period start date (YYYY-MM-DD)"),
		),
		mcp.WithString("end_date",
			mcp.Description("Period end date (YYYY-MM-DD)"),
		),
	)
	s.mcpServer.AddTool(expensesTool, s.periodReportHandler("generate_expenses_by_vendor_report"))

	// As-of-date reports
	balanceSheetTool := mcp.NewTool("generate_balance_sheet_report",
		mcp.WithDescription("Generate a Balance Sheet. Defaults to today when no date is given."),
		mcp.WithString("as_of_date",
			mcp.Description("Report date (YYYY-MM-DD)"),
		),
		mcp.WithString("summarize_by",
			mcp.Description("Column summarization: Month, Quarter, or Year"),
		),
	)
	s.mcpServer.AddTool(balanceSheetTool, s.asOfReportHandler("generate_balance_sheet_report"))

	arAgingTool := mcp.NewTool("generate_ar_aging_report",
		mcp.WithDescription("Generate an Accounts Receivable Aging report. Defaults to today when no date is given."),
		mcp.WithString("as_of_date",
			mcp.Description("Report date (YYYY-MM-DD)"),
		),
	)
	s.mcpServer.AddTool(arAgingTool, s.asOfReportHandler("generate_ar_aging_report"))

	apAgingTool := mcp.NewTool("generate_ap_aging_report",
		mcp.WithDescription("Generate an Accounts Payable Aging report. Defaults to today when no date is given."),
		mcp.WithString("as_of_date",
			mcp.Description("Report date (YYYY-MM-DD)"),
		),
	)
	s.mcpServer.AddTool(apAgingTool, s.asOfReportHandler("generate_ap_aging_report"))

	// Convenience P&L shortcuts
	s.mcpServer.AddTool(mcp.NewTool("get_current_month_pl",
		mcp.WithDescription("Profit and Loss for the current month to date"),
	), s.shortcutPLHandler("current_month"))

	s.mcpServer.AddTool(mcp.NewTool("get_current_quarter_pl",
		mcp.WithDescription("Profit and Loss for the current quarter to date"),
	), s.shortcutPLHandler("current_quarter"))

	s.mcpServer.AddTool(mcp.NewTool("get_current_year_pl",
		mcp.WithDescription("Profit and Loss for the current year to date"),
	), s.shortcutPLHandler("current_year"))

	s.mcpServer.AddTool(mcp.NewTool("get_last_month_pl",
		mcp.WithDescription("Profit and Loss for the previous full month"),
	), s.shortcutPLHandler("last_month"))

	// Aggregate summary
	s.mcpServer.AddTool(mcp.NewTool("get_company_financial_summary",
		mcp.WithDescription("Comprehensive financial summary: company info, current-month P&L, balance sheet, and both aging reports"),
	), s.handleFinancialSummary)

	// Query-endpoint resources
	s.mcpServer.AddTool(mcp.NewTool("list_accounts",
		mcp.WithDescription("List active accounts from the chart of accounts"),
	), s.handleListAccounts)

	s.mcpServer.AddTool(mcp.NewTool("list_customers",
		mcp.WithDescription("List active customers with balances"),
	), s.handleListCustomers)

	s.mcpServer.AddTool(mcp.NewTool("list_recent_invoices",
		mcp.WithDescription("List the most recent invoices"),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of invoices to return (default 10)"),
		),
	), s.handleListRecentInvoices)
}
