// Package report maps report requests onto the QuickBooks reports API
// and reshapes the raw row/column payloads into structured bodies:
// sectioned statements with computed subtotals, and aging reports with
// per-entity buckets. Every result is wrapped in a provenance envelope.
package report
