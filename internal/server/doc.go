// Package server exposes QuickBooks Online reports and resources as MCP
// tools over stdio. Every tool handler is the same composition: enter
// the auth gate, call the API, and if the credential is rejected
// mid-call, invalidate and retry exactly once with a fresh one. Tool
// failures are reported as structured tool errors, never as protocol
// errors.
package server
