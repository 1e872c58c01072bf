package report

// Kind identifies a report this server can generate.
type Kind int

const (
	ProfitAndLoss Kind = iota
	BalanceSheet
	CashFlow
	ARAging
	APAging
	SalesByCustomer
	ExpensesByVendor
)

// kindInfo maps a kind to its QuickBooks report name and display title.
var kindInfo = map[Kind]struct {
	apiName string
	title   string
}{
	ProfitAndLoss:    {"ProfitAndLoss", "Profit and Loss"},
	BalanceSheet:     {"BalanceSheet", "Balance Sheet"},
	CashFlow:         {"CashFlow", "Cash Flow"},
	ARAging:          {"AgedReceivables", "Accounts Receivable Aging"},
	APAging:          {"AgedPayables", "Accounts Payable Aging"},
	SalesByCustomer:  {"CustomerSales", "Sales by Customer"},
	ExpensesByVendor: {"VendorExpenses", "Expenses by Vendor"},
}

// APIName returns the report name the QuickBooks reports endpoint
// expects.
func (k Kind) APIName() string {
	return kindInfo[k].apiName
}

// Title returns the human-readable report title.
func (k Kind) Title() string {
	return kindInfo[k].title
}

// String implements fmt.Stringer.
func (k Kind) String() string {
	if info, ok := kindInfo[k]; ok {
		return info.apiName
	}
	return "Unknown"
}

// Valid reports whether k names a known report.
func (k Kind) Valid() bool {
	_, ok := kindInfo[k]
	return ok
}

// aged reports whether k is an aging report, which takes a single as-of
// date instead of a period and reshapes into aging buckets.
func (k Kind) aged() bool {
	return k == ARAging || k == APAging
}
