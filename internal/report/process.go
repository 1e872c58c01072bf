package report

import (
	"strconv"
	"strings"

	"qbo-mcp/internal/quickbooks"
)

// SectionedReport is the processed form of the sectioned reports (P&L,
// balance sheet, cash flow, sales, expenses): named sections of line
// items with computed subtotals.
type SectionedReport struct {
	ReportName  string    `json:"report_name"`
	StartPeriod string    `json:"start_period,omitempty"`
	EndPeriod   string    `json:"end_period,omitempty"`
	Currency    string    `json:"currency"`
	Sections    []Section `json:"sections"`
}

// Section is one report section, e.g. Income or Expenses.
type Section struct {
	Name     string     `json:"name"`
	Items    []LineItem `json:"items"`
	Subtotal float64    `json:"subtotal"`
}

// LineItem is one account line within a section.
type LineItem struct {
	Account string  `json:"account"`
	Amount  float64 `json:"amount"`
}

// AgingReport is the processed form of the A/R and A/P aging reports:
// per-entity balances broken into standard aging buckets.
type AgingReport struct {
	ReportName string        `json:"report_name"`
	AsOfDate   string        `json:"as_of_date,omitempty"`
	Currency   string        `json:"currency"`
	Entities   []AgingEntity `json:"entities"`
	Totals     AgingBuckets  `json:"totals"`
}

// AgingEntity is one customer's or vendor's aged balance.
type AgingEntity struct {
	Name string `json:"name"`
	AgingBuckets
}

// AgingBuckets holds the standard aging columns.
type AgingBuckets struct {
	Current    float64 `json:"current"`
	Days1to30  float64 `json:"1_30_days"`
	Days31to60 float64 `json:"31_60_days"`
	Days61to90 float64 `json:"61_90_days"`
	Over90     float64 `json:"over_90_days"`
	Total      float64 `json:"total"`
}

func (b *AgingBuckets) add(other AgingBuckets) {
	b.Current += other.Current
	b.Days1to30 += other.Days1to30
	b.Days31to60 += other.Days31to60
	b.Days61to90 += other.Days61to90
	b.Over90 += other.Over90
	b.Total += other.Total
}

// processSectioned reshapes a raw sectioned report. Sections nest in the
// API response; nesting is flattened with child items folded into their
// top-level section, and subtotals computed from the folded items.
func processSectioned(raw *quickbooks.Report, fallbackName string) *SectionedReport {
	out := &SectionedReport{
		ReportName:  raw.Header.ReportName,
		StartPeriod: raw.Header.StartPeriod,
		EndPeriod:   raw.Header.EndPeriod,
		Currency:    raw.Header.Currency,
		Sections:    []Section{},
	}
	if out.ReportName == "" {
		out.ReportName = fallbackName
	}
	if out.Currency == "" {
		out.Currency = "USD"
	}

	for _, row := range raw.Rows.Row {
		section := Section{Items: []LineItem{}}
		section.Name = sectionName(&row)
		collectItems(&row, &section.Items)
		for _, item := range section.Items {
			section.Subtotal += item.Amount
		}
		if section.Name == "" && len(section.Items) == 0 {
			continue
		}
		out.Sections = append(out.Sections, section)
	}

	return out
}

// sectionName resolves the display name of a top-level row.
func sectionName(row *quickbooks.Row) string {
	if row.Header != nil && len(row.Header.ColData) > 0 && row.Header.ColData[0].Value != "" {
		return row.Header.ColData[0].Value
	}
	if row.Group != "" {
		return row.Group
	}
	if len(row.ColData) > 0 {
		return row.ColData[0].Value
	}
	return ""
}

// collectItems gathers the data lines under a row, recursing through
// nested sections. The amount is the last cell of the line.
func collectItems(row *quickbooks.Row, items *[]LineItem) {
	if row.Rows == nil {
		if len(row.ColData) >= 2 && row.Type != "Section" {
			*items = append(*items, LineItem{
				Account: row.ColData[0].Value,
				Amount:  parseAmount(row.ColData[len(row.ColData)-1].Value),
			})
		}
		return
	}
	for i := range row.Rows.Row {
		collectItems(&row.Rows.Row[i], items)
	}
}

// processAging reshapes a raw aging report. The standard layout is one
// data row per entity with columns: name, current, 1-30, 31-60, 61-90,
// 91 and over, total.
func processAging(raw *quickbooks.Report, fallbackName string) *AgingReport {
	out := &AgingReport{
		ReportName: raw.Header.ReportName,
		AsOfDate:   raw.Header.EndPeriod,
		Currency:   raw.Header.Currency,
		Entities:   []AgingEntity{},
	}
	if out.ReportName == "" {
		out.ReportName = fallbackName
	}
	if out.Currency == "" {
		out.Currency = "USD"
	}

	collectAgingRows(raw.Rows.Row, out)
	return out
}

func collectAgingRows(rows []quickbooks.Row, out *AgingReport) {
	for _, row := range rows {
		if row.Rows != nil {
			collectAgingRows(row.Rows.Row, out)
			continue
		}
		// The grand-total line repeats the buckets without an entity
		// name; totals are recomputed from the entity lines instead.
		if row.Type != "Data" || len(row.ColData) < 6 || row.ColData[0].Value == "" {
			continue
		}

		entity := AgingEntity{Name: row.ColData[0].Value}
		entity.Current = parseAmount(row.ColData[1].Value)
		entity.Days1to30 = parseAmount(row.ColData[2].Value)
		entity.Days31to60 = parseAmount(row.ColData[3].Value)
		entity.Days61to90 = parseAmount(row.ColData[4].Value)
		entity.Over90 = parseAmount(row.ColData[5].Value)
		entity.Total = entity.Current + entity.Days1to30 + entity.Days31to60 + entity.Days61to90 + entity.Over90

		out.Entities = append(out.Entities, entity)
		out.Totals.add(entity.AgingBuckets)
	}
}

// parseAmount converts a report cell to a number. Cells may carry
// currency symbols, thousands separators, parenthesized negatives, or a
// bare dash for zero; anything unparseable reads as zero.
func parseAmount(value string) float64 {
	value = strings.TrimSpace(value)
	if value == "" || value == "-" {
		return 0
	}

	replacer := strings.NewReplacer("$", "", ",", "", "(", "-", ")", "")
	cleaned := replacer.Replace(value)

	amount, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return amount
}
