package credential

import (
	"time"
)

// expiryMargin is the buffer applied when checking access token expiry.
// It accounts for clock skew between this host and the provider, and for
// the time a report call itself takes.
const expiryMargin = 60 * time.Second

// Record is the persisted OAuth credential for one company/environment
// pair. It is the sole source of truth for whether a request can proceed
// without interactive authorization.
type Record struct {
	// AccessToken is the short-lived bearer token for API calls.
	AccessToken string `json:"access_token"`

	// RefreshToken is the long-lived token used for silent refresh.
	// Intuit rotates it on every refresh; the rotated value must be
	// persisted immediately or the credential is lost.
	RefreshToken string `json:"refresh_token"`

	// Expiry is when the access token expires.
	Expiry time.Time `json:"expiry"`

	// Environment is the issuing environment, sandbox or production.
	Environment string `json:"environment"`

	// CompanyID is the QuickBooks company (realmId) this credential
	// belongs to.
	CompanyID string `json:"company_id"`

	// CreatedAt is when the record was first obtained.
	CreatedAt time.Time `json:"created_at"`
}

// State describes the gate's view of a record.
type State int

const (
	// StateNoCredential means no usable record exists; interactive
	// authorization is required.
	StateNoCredential State = iota

	// StateValid means the access token can be used as-is.
	StateValid

	// StateExpired means the access token has expired but a refresh
	// token is available for silent refresh.
	StateExpired
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateNoCredential:
		return "no_credential"
	case StateValid:
		return "valid"
	case StateExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// StateOf classifies a record at the given instant.
func StateOf(r *Record, now time.Time) State {
	if r == nil || r.AccessToken == "" || r.CompanyID == "" {
		return StateNoCredential
	}
	if now.Add(expiryMargin).Before(r.Expiry) {
		return StateValid
	}
	if r.RefreshToken != "" {
		return StateExpired
	}
	return StateNoCredential
}

// Usable reports whether the access token can still be presented to the
// provider without a refresh.
func (r *Record) Usable(now time.Time) bool {
	return StateOf(r, now) == StateValid
}
