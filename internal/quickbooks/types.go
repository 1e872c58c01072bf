package quickbooks

// Report is the generic QuickBooks report envelope. Every report kind
// shares the same header/columns/rows shape; rows nest recursively for
// sectioned reports.
type Report struct {
	Header  ReportHeader `json:"Header"`
	Columns Columns      `json:"Columns"`
	Rows    Rows         `json:"Rows"`
}

// ReportHeader describes the report and the period it covers.
type ReportHeader struct {
	Time        string         `json:"Time,omitempty"`
	ReportName  string         `json:"ReportName,omitempty"`
	StartPeriod string         `json:"StartPeriod,omitempty"`
	EndPeriod   string         `json:"EndPeriod,omitempty"`
	Currency    string         `json:"Currency,omitempty"`
	Options     []ReportOption `json:"Option,omitempty"`
}

// ReportOption is a name/value pair on the report header.
type ReportOption struct {
	Name  string `json:"Name"`
	Value string `json:"Value"`
}

// Columns wraps the column list.
type Columns struct {
	Column []Column `json:"Column,omitempty"`
}

// Column describes one report column.
type Column struct {
	ColTitle string `json:"ColTitle,omitempty"`
	ColType  string `json:"ColType,omitempty"`
}

// Rows wraps the row list.
type Rows struct {
	Row []Row `json:"Row,omitempty"`
}

// Row is one report row. Data rows carry ColData directly; section rows
// carry a Header, nested Rows, and a Summary line.
type Row struct {
	Type    string  `json:"type,omitempty"`
	Group   string  `json:"group,omitempty"`
	ColData []Col   `json:"ColData,omitempty"`
	Header  *RowRef `json:"Header,omitempty"`
	Rows    *Rows   `json:"Rows,omitempty"`
	Summary *RowRef `json:"Summary,omitempty"`
}

// RowRef is the header or summary line of a section row.
type RowRef struct {
	ColData []Col `json:"ColData,omitempty"`
}

// Col is one cell.
type Col struct {
	Value string `json:"value"`
	ID    string `json:"id,omitempty"`
}

// Fault is the QuickBooks error envelope.
type Fault struct {
	Fault struct {
		Error []FaultError `json:"Error"`
		Type  string       `json:"type"`
	} `json:"Fault"`
}

// FaultError is one coded error inside a fault.
type FaultError struct {
	Message string `json:"Message"`
	Detail  string `json:"Detail"`
	Code    string `json:"code"`
	Element string `json:"element,omitempty"`
}

// Ref is a reference to another entity.
type Ref struct {
	Value string `json:"value"`
	Name  string `json:"name,omitempty"`
}

// Account is a chart-of-accounts entry.
type Account struct {
	ID                     string  `json:"Id"`
	Name                   string  `json:"Name"`
	FullyQualifiedName     string  `json:"FullyQualifiedName,omitempty"`
	AccountType            string  `json:"AccountType,omitempty"`
	AccountSubType         string  `json:"AccountSubType,omitempty"`
	Classification         string  `json:"Classification,omitempty"`
	CurrentBalance         float64 `json:"CurrentBalance,omitempty"`
	Active                 bool    `json:"Active,omitempty"`
	CurrencyRef            *Ref    `json:"CurrencyRef,omitempty"`
	SubAccount             bool    `json:"SubAccount,omitempty"`
	ParentRef              *Ref    `json:"ParentRef,omitempty"`
	CurrentBalanceWithSubs float64 `json:"CurrentBalanceWithSubAccounts,omitempty"`
}

// Customer is a customer record.
type Customer struct {
	ID               string  `json:"Id"`
	DisplayName      string  `json:"DisplayName"`
	CompanyName      string  `json:"CompanyName,omitempty"`
	Active           bool    `json:"Active,omitempty"`
	Balance          float64 `json:"Balance,omitempty"`
	PrimaryEmailAddr *struct {
		Address string `json:"Address"`
	} `json:"PrimaryEmailAddr,omitempty"`
	PrimaryPhone *struct {
		FreeFormNumber string `json:"FreeFormNumber"`
	} `json:"PrimaryPhone,omitempty"`
}

// Invoice is an invoice record.
type Invoice struct {
	ID           string  `json:"Id"`
	DocNumber    string  `json:"DocNumber,omitempty"`
	TxnDate      string  `json:"TxnDate,omitempty"`
	DueDate      string  `json:"DueDate,omitempty"`
	TotalAmt     float64 `json:"TotalAmt,omitempty"`
	Balance      float64 `json:"Balance,omitempty"`
	CustomerRef  *Ref    `json:"CustomerRef,omitempty"`
	CurrencyRef  *Ref    `json:"CurrencyRef,omitempty"`
	PrivateNote  string  `json:"PrivateNote,omitempty"`
	EmailStatus  string  `json:"EmailStatus,omitempty"`
	PrintStatus  string  `json:"PrintStatus,omitempty"`
}

// QueryResponse is the envelope of a /query request. Only the entity
// named by the query is populated.
type QueryResponse struct {
	Account       []Account  `json:"Account,omitempty"`
	Customer      []Customer `json:"Customer,omitempty"`
	Invoice       []Invoice  `json:"Invoice,omitempty"`
	StartPosition int        `json:"startPosition,omitempty"`
	MaxResults    int        `json:"maxResults,omitempty"`
	TotalCount    int        `json:"totalCount,omitempty"`
}

type queryEnvelope struct {
	QueryResponse QueryResponse `json:"QueryResponse"`
	Time          string        `json:"time"`
}

// CompanyInfo describes the connected company.
type CompanyInfo struct {
	ID                   string `json:"Id"`
	CompanyName          string `json:"CompanyName"`
	LegalName            string `json:"LegalName,omitempty"`
	Country              string `json:"Country,omitempty"`
	FiscalYearStartMonth string `json:"FiscalYearStartMonth,omitempty"`
	CompanyStartDate     string `json:"CompanyStartDate,omitempty"`
}

type companyInfoEnvelope struct {
	CompanyInfo CompanyInfo `json:"CompanyInfo"`
	Time        string      `json:"time"`
}
