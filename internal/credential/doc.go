// Package credential manages the QuickBooks Online OAuth2 credential
// lifecycle: persistent token storage, silent refresh with rotation, and
// the interactive browser authorization flow with a local callback
// listener.
//
// The central type is Gate, which every provider call passes through. It
// classifies the stored credential (valid, expired, absent), refreshes or
// re-authorizes as needed, and guarantees at most one refresh or
// authorization is in flight at a time; concurrent callers share the
// result.
package credential
