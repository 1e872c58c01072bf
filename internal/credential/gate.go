package credential

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"

	"qbo-mcp/pkg/logging"
)

// InteractiveAuthorizer obtains a brand-new credential through user
// interaction. Implemented by *Authorizer; faked in tests.
type InteractiveAuthorizer interface {
	Authorize(ctx context.Context) (*Record, error)
}

// GateConfig configures an auth gate.
type GateConfig struct {
	// Store persists the credential record.
	Store *Store

	// OAuth is the provider client configuration used for silent
	// refresh.
	OAuth *oauth2.Config

	// Authorizer runs the interactive flow when no usable credential
	// exists.
	Authorizer InteractiveAuthorizer

	// Environment and CompanyID identify the credential this gate owns.
	Environment string
	CompanyID   string
}

// Gate decides, for every inbound tool call, whether the request can
// proceed on the cached credential, needs a silent refresh, or needs a
// full interactive authorization. Concurrent callers sharing the same
// credential identity serialize on a single in-flight refresh or
// authorization and reuse its result.
type Gate struct {
	cfg   GateConfig
	group singleflight.Group

	// forceMu guards forceExpired, set when a downstream call was
	// rejected with an authorization failure despite a locally-valid
	// expiry (clock skew, server-side revocation).
	forceMu      sync.Mutex
	forceExpired bool

	// now is swapped out in tests.
	now func() time.Time
}

// NewGate creates an auth gate.
func NewGate(cfg GateConfig) *Gate {
	return &Gate{
		cfg: cfg,
		now: time.Now,
	}
}

// identity keys the singleflight group. One gate owns one
// company/environment pair, but the key keeps multiple gates in one
// process (tests, future multi-company) from colliding.
func (g *Gate) identity() string {
	return g.cfg.Environment + "/" + g.cfg.CompanyID
}

// Ensure runs the gate to completion and returns a credential that is
// valid at return time. At most one refresh or interactive authorization
// is in flight per credential identity; concurrent callers wait for and
// share its result.
func (g *Gate) Ensure(ctx context.Context) (*Record, error) {
	v, err, _ := g.group.Do(g.identity(), func() (interface{}, error) {
		return g.ensure(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Record), nil
}

func (g *Gate) ensure(ctx context.Context) (*Record, error) {
	rec, err := g.cfg.Store.Load()
	if err != nil {
		return nil, err
	}

	state := StateOf(rec, g.now())

	g.forceMu.Lock()
	if g.forceExpired && state == StateValid {
		// A provider call was rejected with this token; the local expiry
		// check is not to be trusted.
		if rec.RefreshToken != "" {
			state = StateExpired
		} else {
			state = StateNoCredential
		}
	}
	g.forceExpired = false
	g.forceMu.Unlock()

	switch state {
	case StateValid:
		return rec, nil

	case StateExpired:
		logging.Debug("AuthGate", "Access token expired for company=%s, refreshing", rec.CompanyID)
		refreshed, err := g.refresh(ctx, rec)
		if err == nil {
			return refreshed, nil
		}
		if !isRefreshRejected(err) {
			return nil, &TokenRefreshError{Err: err}
		}
		// Refresh token revoked or expired: demote to no-credential and
		// escalate to the interactive flow.
		logging.Warn("AuthGate", "Refresh token rejected for company=%s, interactive authorization required", rec.CompanyID)
		fallthrough

	default: // StateNoCredential
		return g.interactive(ctx)
	}
}

// refresh exchanges the stored refresh token for a fresh access token and
// persists the result. Intuit rotates the refresh token on every call, so
// the save must succeed before the credential is handed out; losing the
// rotated token strands the user at the next refresh.
func (g *Gate) refresh(ctx context.Context, rec *Record) (*Record, error) {
	src := g.cfg.OAuth.TokenSource(ctx, &oauth2.Token{RefreshToken: rec.RefreshToken})
	token, err := src.Token()
	if err != nil {
		return nil, err
	}

	refreshed := &Record{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		Expiry:       token.Expiry,
		Environment:  rec.Environment,
		CompanyID:    rec.CompanyID,
		CreatedAt:    rec.CreatedAt,
	}
	if refreshed.RefreshToken == "" {
		refreshed.RefreshToken = rec.RefreshToken
	}

	if err := g.cfg.Store.Save(refreshed); err != nil {
		return nil, err
	}

	logging.Info("AuthGate", "Refreshed credential for company=%s environment=%s", rec.CompanyID, rec.Environment)
	return refreshed, nil
}

// interactive runs the browser flow and persists the resulting record.
func (g *Gate) interactive(ctx context.Context) (*Record, error) {
	rec, err := g.cfg.Authorizer.Authorize(ctx)
	if err != nil {
		return nil, err
	}

	if err := g.cfg.Store.Save(rec); err != nil {
		return nil, err
	}

	return rec, nil
}

// Invalidate marks the credential as expired regardless of its stored
// expiry. Called after a provider request is rejected as unauthorized;
// the next Ensure attempts a refresh instead of reusing the token.
func (g *Gate) Invalidate() {
	g.forceMu.Lock()
	g.forceExpired = true
	g.forceMu.Unlock()
}

// State reports the gate's current view of the stored credential without
// performing any network calls.
func (g *Gate) State() (State, *Record, error) {
	rec, err := g.cfg.Store.Load()
	if err != nil {
		return StateNoCredential, nil, err
	}
	return StateOf(rec, g.now()), rec, nil
}

// isRefreshRejected reports whether a token endpoint error means the
// refresh token itself is no longer usable, as opposed to a transient
// failure reaching the endpoint.
func isRefreshRejected(err error) bool {
	var retrieveErr *oauth2.RetrieveError
	if !errors.As(err, &retrieveErr) {
		return false
	}
	switch retrieveErr.ErrorCode {
	case "invalid_grant", "invalid_token", "unauthorized_client":
		return true
	}
	// Some providers return a bare 400/401 without an RFC 6749 error
	// code for revoked tokens.
	if retrieveErr.ErrorCode == "" && retrieveErr.Response != nil {
		return retrieveErr.Response.StatusCode == 400 || retrieveErr.Response.StatusCode == 401
	}
	return false
}
