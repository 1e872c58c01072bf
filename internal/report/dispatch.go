package report

import (
	"context"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"qbo-mcp/internal/quickbooks"
	"qbo-mcp/pkg/logging"
)

// DefaultSummarizeBy is the column summarization applied when the caller
// does not pick one.
const DefaultSummarizeBy = "Month"

// Fetcher is the slice of the QuickBooks client the dispatcher needs.
type Fetcher interface {
	Report(ctx context.Context, auth quickbooks.Auth, name string, params url.Values) (*quickbooks.Report, error)
}

// Request describes one report to generate. Period applies to the
// period-based kinds; AsOfDate applies to the balance sheet and the
// aging reports. SummarizeBy is optional.
type Request struct {
	Kind        Kind
	Period      Period
	AsOfDate    time.Time
	SummarizeBy string
}

// Envelope wraps a processed report with provenance: which company and
// environment produced it, when, and under which request id.
type Envelope struct {
	RequestID   string      `json:"request_id"`
	ReportType  string      `json:"report_type"`
	CompanyID   string      `json:"company_id"`
	Environment string      `json:"environment"`
	StartDate   string      `json:"start_date,omitempty"`
	EndDate     string      `json:"end_date,omitempty"`
	AsOfDate    string      `json:"as_of_date,omitempty"`
	GeneratedAt time.Time   `json:"generated_at"`
	Data        interface{} `json:"data"`
}

// Dispatcher turns report requests into QuickBooks API calls and
// processed report envelopes.
type Dispatcher struct {
	fetcher     Fetcher
	environment string

	// now is swapped out in tests.
	now func() time.Time
}

// NewDispatcher creates a dispatcher using the given client.
func NewDispatcher(fetcher Fetcher, environment string) *Dispatcher {
	return &Dispatcher{
		fetcher:     fetcher,
		environment: environment,
		now:         time.Now,
	}
}

// Dispatch fetches and processes one report. Exactly one API call is
// made per invocation.
func (d *Dispatcher) Dispatch(ctx context.Context, auth quickbooks.Auth, req Request) (*Envelope, error) {
	if !req.Kind.Valid() {
		return nil, errors.Errorf("unknown report kind %d", req.Kind)
	}

	params, err := d.params(req)
	if err != nil {
		return nil, err
	}

	logging.Debug("ReportDispatcher", "Dispatching %s for company=%s", req.Kind, auth.CompanyID)

	raw, err := d.fetcher.Report(ctx, auth, req.Kind.APIName(), params)
	if err != nil {
		return nil, err
	}

	envelope := &Envelope{
		RequestID:   uuid.New().String(),
		ReportType:  req.Kind.APIName(),
		CompanyID:   auth.CompanyID,
		Environment: d.environment,
		GeneratedAt: d.now(),
	}

	if req.Kind.aged() {
		envelope.AsOfDate = params.Get("end_date")
		envelope.Data = processAging(raw, req.Kind.Title())
	} else if req.Kind == BalanceSheet {
		envelope.AsOfDate = params.Get("end_date")
		envelope.Data = processSectioned(raw, req.Kind.Title())
	} else {
		envelope.StartDate = req.Period.StartDate()
		envelope.EndDate = req.Period.EndDate()
		envelope.Data = processSectioned(raw, req.Kind.Title())
	}

	logging.Info("ReportDispatcher", "Generated %s report for company=%s", req.Kind, auth.CompanyID)
	return envelope, nil
}

// params builds the query parameters for a request. Period kinds take a
// date range; as-of kinds take only an end date.
func (d *Dispatcher) params(req Request) (url.Values, error) {
	params := url.Values{}

	switch {
	case req.Kind.aged() || req.Kind == BalanceSheet:
		asOf := req.AsOfDate
		if asOf.IsZero() {
			asOf = d.now()
		}
		params.Set("end_date", asOf.Format(dateLayout))

	default:
		if req.Period.Start.IsZero() || req.Period.End.IsZero() {
			return nil, errors.Errorf("%s requires a reporting period", req.Kind)
		}
		if req.Period.End.Before(req.Period.Start) {
			return nil, errors.Errorf("period end %s precedes start %s", req.Period.EndDate(), req.Period.StartDate())
		}
		params.Set("start_date", req.Period.StartDate())
		params.Set("end_date", req.Period.EndDate())
	}

	switch req.Kind {
	case ProfitAndLoss, BalanceSheet:
		summarizeBy := req.SummarizeBy
		if summarizeBy == "" {
			summarizeBy = DefaultSummarizeBy
		}
		params.Set("summarize_column_by", summarizeBy)
	}

	return params, nil
}
