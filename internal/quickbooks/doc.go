// Package quickbooks is a thin QuickBooks Online API client covering the
// endpoints this server needs: reports, the query language, and company
// info. Credentials are passed per request; token lifecycle is handled
// elsewhere.
package quickbooks
