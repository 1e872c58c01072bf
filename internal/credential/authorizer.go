package credential

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"qbo-mcp/pkg/logging"
)

// Intuit OAuth2 endpoints. They are identical for sandbox and production;
// the environment only selects the API base URL.
const (
	intuitAuthURL  = "https://appcenter.intuit.com/connect/oauth2"
	intuitTokenURL = "https://oauth.platform.intuit.com/oauth2/v1/tokens/bearer"

	// accountingScope grants read access to company accounting data.
	accountingScope = "com.intuit.quickbooks.accounting"

	// stateBytes is the number of random bytes in the anti-replay state
	// parameter. 32 bytes encodes to 43 base64url characters.
	stateBytes = 32
)

// Endpoint returns the Intuit OAuth2 endpoint for use with oauth2.Config.
func Endpoint() oauth2.Endpoint {
	return oauth2.Endpoint{
		AuthURL:   intuitAuthURL,
		TokenURL:  intuitTokenURL,
		AuthStyle: oauth2.AuthStyleInHeader,
	}
}

// OAuthConfig builds the provider client configuration for an Intuit app
// with the accounting scope.
func OAuthConfig(clientID, clientSecret, redirectURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Scopes:       []string{accountingScope},
		Endpoint:     Endpoint(),
	}
}

// generateState generates the random anti-replay state parameter linking
// the authorization response back to this flow.
func generateState() (string, error) {
	buf := make([]byte, stateBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate state: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// AuthorizerConfig configures the interactive authorizer.
type AuthorizerConfig struct {
	// OAuth is the provider client configuration, including the redirect
	// URI registered with the Intuit app.
	OAuth *oauth2.Config

	// CallbackPort is the loopback port named by the redirect URI.
	CallbackPort int

	// CallbackPath is the path component of the redirect URI.
	CallbackPath string

	// Timeout bounds the wait for the browser callback.
	Timeout time.Duration

	// Environment is recorded on the resulting credential.
	Environment string

	// CompanyID, when set, overrides the realmId from the callback.
	CompanyID string
}

// Authorizer drives the one-shot browser flow that obtains a brand-new
// credential: start a loopback listener, open the provider authorization
// URL in the user's browser, wait for the redirect, and exchange the
// authorization code for tokens.
type Authorizer struct {
	cfg AuthorizerConfig

	// openURL is swapped out in tests; it defaults to launching the
	// system browser.
	openURL func(string) error
}

// NewAuthorizer creates an interactive authorizer.
func NewAuthorizer(cfg AuthorizerConfig) *Authorizer {
	return &Authorizer{
		cfg:     cfg,
		openURL: openBrowser,
	}
}

// browserFlowMu serializes interactive flows process-wide. Only one
// loopback listener can own the callback port at a time, so a second
// flow waits for the first to finish instead of failing to bind.
var browserFlowMu sync.Mutex

// Authorize runs the flow to completion and returns the new record. It
// blocks until the user finishes in the browser, the provider reports an
// error, or the configured timeout elapses. The listener is released on
// every exit path.
func (a *Authorizer) Authorize(ctx context.Context) (*Record, error) {
	state, err := generateState()
	if err != nil {
		return nil, &AuthorizationError{Reason: "could not generate state parameter", Err: err}
	}

	// The unlock is registered before the server's deferred stop so the
	// listener is fully torn down before the next flow may bind.
	browserFlowMu.Lock()
	defer browserFlowMu.Unlock()

	waitCtx, cancel := context.WithTimeout(ctx, a.cfg.Timeout)
	defer cancel()

	srv := newCallbackServer(a.cfg.CallbackPort, a.cfg.CallbackPath)
	if err := srv.start(waitCtx); err != nil {
		return nil, &AuthorizationError{Reason: "could not bind callback listener", Err: err}
	}
	defer srv.stop()

	authURL := a.cfg.OAuth.AuthCodeURL(state)
	logging.Info("Authorizer", "Opening browser for QuickBooks authorization")
	if err := a.openURL(authURL); err != nil {
		// Not fatal: the user can follow the URL by hand.
		logging.Warn("Authorizer", "Could not open browser: %v", err)
		fmt.Fprintf(os.Stderr, "Open this URL to authorize QuickBooks access:\n%s\n", authURL)
	}

	result, err := srv.wait(waitCtx)
	if err != nil {
		if waitCtx.Err() == context.DeadlineExceeded {
			return nil, &AuthorizationError{Reason: "authorization timed out"}
		}
		return nil, &AuthorizationError{Reason: "callback listener failed", Err: err}
	}

	if result.isError() {
		reason := result.Error
		if result.ErrorDescription != "" {
			reason = fmt.Sprintf("%s (%s)", result.Error, result.ErrorDescription)
		}
		return nil, &AuthorizationError{Reason: fmt.Sprintf("provider denied authorization: %s", reason)}
	}

	if result.State != state {
		return nil, &AuthorizationError{Reason: "state mismatch in callback, possible replay"}
	}

	if result.Code == "" {
		return nil, &AuthorizationError{Reason: "callback carried no authorization code"}
	}

	companyID := a.cfg.CompanyID
	if companyID == "" {
		companyID = result.RealmID
	}
	if companyID == "" {
		return nil, &AuthorizationError{Reason: "callback carried no realmId and QBO_COMPANY_ID is not set"}
	}

	token, err := a.cfg.OAuth.Exchange(ctx, result.Code)
	if err != nil {
		return nil, &AuthorizationError{Reason: "token exchange failed", Err: err}
	}

	now := time.Now()
	rec := &Record{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		Expiry:       token.Expiry,
		Environment:  a.cfg.Environment,
		CompanyID:    companyID,
		CreatedAt:    now,
	}

	logging.Info("Authorizer", "Authorized company=%s environment=%s", companyID, a.cfg.Environment)
	return rec, nil
}
