package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qbo-mcp/internal/quickbooks"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
	}{
		{"1200.00", 1200},
		{"$1,234.56", 1234.56},
		{"(500.00)", -500},
		{"($1,000.00)", -1000},
		{"-42.50", -42.5},
		{"-", 0},
		{"", 0},
		{"  ", 0},
		{"garbage", 0},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.expected, parseAmount(tc.input), "input=%q", tc.input)
	}
}

func sectionRow(name string, items ...quickbooks.Row) quickbooks.Row {
	return quickbooks.Row{
		Type:   "Section",
		Header: &quickbooks.RowRef{ColData: []quickbooks.Col{{Value: name}, {Value: ""}}},
		Rows:   &quickbooks.Rows{Row: items},
	}
}

func dataRow(account, amount string) quickbooks.Row {
	return quickbooks.Row{
		Type:    "Data",
		ColData: []quickbooks.Col{{Value: account}, {Value: amount}},
	}
}

func TestProcessSectioned(t *testing.T) {
	raw := &quickbooks.Report{
		Header: quickbooks.ReportHeader{
			ReportName:  "ProfitAndLoss",
			StartPeriod: "2026-01-01",
			EndPeriod:   "2026-01-31",
			Currency:    "USD",
		},
		Rows: quickbooks.Rows{Row: []quickbooks.Row{
			sectionRow("Income",
				dataRow("Sales", "1200.00"),
				dataRow("Services", "$2,300.50"),
			),
			sectionRow("Expenses",
				dataRow("Rent", "800.00"),
				dataRow("Refunds", "(150.00)"),
			),
		}},
	}

	processed := processSectioned(raw, "Profit and Loss")

	assert.Equal(t, "ProfitAndLoss", processed.ReportName)
	assert.Equal(t, "USD", processed.Currency)
	require.Len(t, processed.Sections, 2)

	income := processed.Sections[0]
	assert.Equal(t, "Income", income.Name)
	require.Len(t, income.Items, 2)
	assert.InDelta(t, 3500.50, income.Subtotal, 0.001)

	expenses := processed.Sections[1]
	assert.Equal(t, "Expenses", expenses.Name)
	assert.InDelta(t, 650.00, expenses.Subtotal, 0.001)
}

func TestProcessSectionedNested(t *testing.T) {
	raw := &quickbooks.Report{
		Rows: quickbooks.Rows{Row: []quickbooks.Row{
			sectionRow("Expenses",
				dataRow("Rent", "800.00"),
				sectionRow("Utilities",
					dataRow("Electric", "120.00"),
					dataRow("Water", "30.00"),
				),
			),
		}},
	}

	processed := processSectioned(raw, "Profit and Loss")

	// Fallbacks apply when the header is empty.
	assert.Equal(t, "Profit and Loss", processed.ReportName)
	assert.Equal(t, "USD", processed.Currency)

	require.Len(t, processed.Sections, 1)
	section := processed.Sections[0]
	require.Len(t, section.Items, 3)
	assert.InDelta(t, 950.00, section.Subtotal, 0.001)
}

func TestProcessAging(t *testing.T) {
	agingRow := func(name string, cells ...string) quickbooks.Row {
		cols := []quickbooks.Col{{Value: name}}
		for _, c := range cells {
			cols = append(cols, quickbooks.Col{Value: c})
		}
		return quickbooks.Row{Type: "Data", ColData: cols}
	}

	raw := &quickbooks.Report{
		Header: quickbooks.ReportHeader{
			ReportName: "AgedReceivables",
			EndPeriod:  "2026-03-15",
			Currency:   "USD",
		},
		Rows: quickbooks.Rows{Row: []quickbooks.Row{
			agingRow("Acme Corp", "100.00", "50.00", "0.00", "0.00", "25.00", "175.00"),
			agingRow("Globex", "0.00", "0.00", "200.00", "", "-", "200.00"),
			// Grand-total line with no entity name is skipped.
			agingRow("", "100.00", "50.00", "200.00", "0.00", "25.00", "375.00"),
		}},
	}

	processed := processAging(raw, "Accounts Receivable Aging")

	assert.Equal(t, "AgedReceivables", processed.ReportName)
	assert.Equal(t, "2026-03-15", processed.AsOfDate)
	require.Len(t, processed.Entities, 2)

	acme := processed.Entities[0]
	assert.InDelta(t, 100.00, acme.Current, 0.001)
	assert.InDelta(t, 25.00, acme.Over90, 0.001)
	assert.InDelta(t, 175.00, acme.Total, 0.001)

	globex := processed.Entities[1]
	assert.InDelta(t, 200.00, globex.Days31to60, 0.001)
	assert.InDelta(t, 200.00, globex.Total, 0.001)

	assert.InDelta(t, 375.00, processed.Totals.Total, 0.001)
	assert.InDelta(t, 100.00, processed.Totals.Current, 0.001)
}
