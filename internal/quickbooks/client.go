package quickbooks

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/pkg/errors"

	"qbo-mcp/pkg/logging"
)

const (
	// SandboxBaseURL is the API base for sandbox companies.
	SandboxBaseURL = "https://sandbox-quickbooks.api.intuit.com"

	// ProductionBaseURL is the API base for production companies.
	ProductionBaseURL = "https://quickbooks.api.intuit.com"

	// DefaultTimeout is the default HTTP client timeout.
	DefaultTimeout = 30 * time.Second

	// UserAgent identifies this client to the API.
	UserAgent = "qbo-mcp/1.0"

	defaultRetryMax     = 3
	defaultRetryWaitMin = 500 * time.Millisecond
	defaultRetryWaitMax = 10 * time.Second
)

// Auth carries the per-request credential: the bearer token and the
// company (realm) the request targets.
type Auth struct {
	AccessToken string
	CompanyID   string
}

// Options configures the client.
type Options struct {
	// BaseURL overrides the environment-derived API base URL.
	BaseURL string

	// HTTPClient replaces the default transport, mainly for tests.
	HTTPClient *http.Client

	// Timeout sets the HTTP client timeout.
	Timeout time.Duration

	// MinorVersion is the API minorversion query parameter.
	MinorVersion string

	// RetryMax bounds automatic retries of throttled or failed requests.
	RetryMax int

	// SentryDSN enables error tracking when set.
	SentryDSN string
}

// Client is a minimal QuickBooks Online API client covering the report
// and query endpoints.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	minorVersion string
	sentryOn     bool
}

// NewClient creates a client for the given environment ("sandbox" or
// "production").
func NewClient(environment string, opts *Options) (*Client, error) {
	if opts == nil {
		opts = &Options{}
	}

	baseURL := opts.BaseURL
	if baseURL == "" {
		switch environment {
		case "sandbox":
			baseURL = SandboxBaseURL
		case "production":
			baseURL = ProductionBaseURL
		default:
			return nil, errors.Errorf("unknown environment %q", environment)
		}
	}

	sentryOn := false
	if opts.SentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:         opts.SentryDSN,
			Environment: environment,
		})
		if err != nil {
			return nil, errors.Wrap(err, "failed to initialize sentry")
		}
		sentryOn = true
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout == 0 {
			timeout = DefaultTimeout
		}
		retryMax := opts.RetryMax
		if retryMax == 0 {
			retryMax = defaultRetryMax
		}

		retryClient := retryablehttp.NewClient()
		retryClient.RetryMax = retryMax
		retryClient.RetryWaitMin = defaultRetryWaitMin
		retryClient.RetryWaitMax = defaultRetryWaitMax
		retryClient.HTTPClient.Timeout = timeout
		retryClient.Logger = retryLogger{}

		httpClient = retryClient.StandardClient()
	}

	return &Client{
		baseURL:      baseURL,
		httpClient:   httpClient,
		minorVersion: opts.MinorVersion,
		sentryOn:     sentryOn,
	}, nil
}

// retryLogger routes retryablehttp's logging through the shared logger
// at debug level so retries never pollute the stdio transport.
type retryLogger struct{}

func (retryLogger) Printf(format string, args ...interface{}) {
	logging.Debug("QuickBooks", format, args...)
}

// Report fetches the named report with the given query parameters.
func (c *Client) Report(ctx context.Context, auth Auth, name string, params url.Values) (*Report, error) {
	endpoint := fmt.Sprintf("/v3/company/%s/reports/%s", url.PathEscape(auth.CompanyID), url.PathEscape(name))

	var report Report
	if err := c.get(ctx, auth, endpoint, params, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// Query executes a QuickBooks query-language statement.
func (c *Client) Query(ctx context.Context, auth Auth, query string) (*QueryResponse, error) {
	endpoint := fmt.Sprintf("/v3/company/%s/query", url.PathEscape(auth.CompanyID))
	params := url.Values{"query": {query}}

	var envelope queryEnvelope
	if err := c.get(ctx, auth, endpoint, params, &envelope); err != nil {
		return nil, err
	}
	return &envelope.QueryResponse, nil
}

// Company fetches the connected company's profile.
func (c *Client) Company(ctx context.Context, auth Auth) (*CompanyInfo, error) {
	endpoint := fmt.Sprintf("/v3/company/%s/companyinfo/%s", url.PathEscape(auth.CompanyID), url.PathEscape(auth.CompanyID))

	var envelope companyInfoEnvelope
	if err := c.get(ctx, auth, endpoint, nil, &envelope); err != nil {
		return nil, err
	}
	return &envelope.CompanyInfo, nil
}

func (c *Client) get(ctx context.Context, auth Auth, endpoint string, params url.Values, out interface{}) error {
	if auth.AccessToken == "" || auth.CompanyID == "" {
		return &APIError{StatusCode: 401, Message: "missing credential", Err: ErrAuthRejected}
	}

	if params == nil {
		params = url.Values{}
	}
	if c.minorVersion != "" {
		params.Set("minorversion", c.minorVersion)
	}

	reqURL := c.baseURL + endpoint
	if encoded := params.Encode(); encoded != "" {
		reqURL += "?" + encoded
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return errors.Wrap(err, "failed to build request")
	}
	req.Header.Set("Authorization", "Bearer "+auth.AccessToken)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", UserAgent)

	logging.Debug("QuickBooks", "GET %s", endpoint)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "failed to read response")
	}

	if resp.StatusCode != http.StatusOK {
		return c.apiError(resp.StatusCode, body, endpoint)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return errors.Wrapf(err, "failed to decode %s response", endpoint)
	}
	return nil
}

// apiError builds an APIError from a non-200 response, pulling the code
// and detail out of the Fault envelope when present.
func (c *Client) apiError(status int, body []byte, endpoint string) error {
	apiErr := &APIError{
		StatusCode: status,
		Message:    strings.TrimSpace(http.StatusText(status)),
		Err:        classify(status),
	}

	var fault Fault
	if err := json.Unmarshal(body, &fault); err == nil && len(fault.Fault.Error) > 0 {
		first := fault.Fault.Error[0]
		apiErr.Code = first.Code
		if first.Message != "" {
			apiErr.Message = first.Message
		}
		apiErr.Detail = first.Detail
		// The Fault type is more reliable than the status code for
		// spotting credential problems.
		if strings.EqualFold(fault.Fault.Type, "AUTHENTICATION") {
			apiErr.Err = ErrAuthRejected
		}
	}

	logging.Warn("QuickBooks", "GET %s failed: %v", endpoint, apiErr)
	if c.sentryOn && errors.Is(apiErr, ErrServerError) {
		sentry.CaptureException(apiErr)
	}
	return apiErr
}
