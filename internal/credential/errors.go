package credential

import (
	"fmt"
)

// AuthorizationError reports a failed, denied, or timed-out interactive
// authorization flow. The gate stays in the no-credential state; the next
// call starts a fresh flow.
type AuthorizationError struct {
	Reason string
	Err    error
}

// Error implements the error interface.
func (e *AuthorizationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("authorization failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("authorization failed: %s", e.Reason)
}

// Unwrap returns the underlying error.
func (e *AuthorizationError) Unwrap() error {
	return e.Err
}

// TokenRefreshError reports a silent refresh that failed for a reason
// other than a revoked refresh token, e.g. the token endpoint was
// unreachable. The stored credential is left as-is; the call fails.
type TokenRefreshError struct {
	Err error
}

// Error implements the error interface.
func (e *TokenRefreshError) Error() string {
	return fmt.Sprintf("token refresh failed: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *TokenRefreshError) Unwrap() error {
	return e.Err
}
