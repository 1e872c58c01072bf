package credential

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

type fakeAuthorizer struct {
	calls  int32
	record *Record
	err    error
}

func (f *fakeAuthorizer) Authorize(ctx context.Context) (*Record, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.err != nil {
		return nil, f.err
	}
	return f.record, nil
}

// fakeTokenEndpoint returns a token endpoint that responds with the given
// handler and counts requests.
func fakeTokenEndpoint(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *int32) {
	t.Helper()
	var count int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&count, 1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv, &count
}

func tokenResponse(accessToken, refreshToken string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"` + accessToken + `","refresh_token":"` + refreshToken + `","token_type":"bearer","expires_in":3600}`))
	}
}

func newTestGate(t *testing.T, tokenURL string, auth InteractiveAuthorizer) (*Gate, *Store) {
	t.Helper()
	store := NewStore(filepath.Join(t.TempDir(), "credential.json"))
	gate := NewGate(GateConfig{
		Store: store,
		OAuth: &oauth2.Config{
			ClientID:     "client-id",
			ClientSecret: "client-secret",
			Endpoint:     oauth2.Endpoint{TokenURL: tokenURL, AuthStyle: oauth2.AuthStyleInHeader},
		},
		Authorizer:  auth,
		Environment: "sandbox",
		CompanyID:   "123",
	})
	return gate, store
}

func TestGateValidCredentialPassesThrough(t *testing.T) {
	srv, count := fakeTokenEndpoint(t, tokenResponse("new-access", "new-refresh"))
	auth := &fakeAuthorizer{}
	gate, store := newTestGate(t, srv.URL, auth)

	valid := &Record{
		AccessToken:  "cached-access",
		RefreshToken: "cached-refresh",
		Expiry:       time.Now().Add(time.Hour),
		Environment:  "sandbox",
		CompanyID:    "123",
	}
	if err := store.Save(valid); err != nil {
		t.Fatal(err)
	}

	rec, err := gate.Ensure(context.Background())
	if err != nil {
		t.Fatalf("Ensure failed: %v", err)
	}
	if rec.AccessToken != "cached-access" {
		t.Errorf("Expected cached token, got %q", rec.AccessToken)
	}
	if n := atomic.LoadInt32(count); n != 0 {
		t.Errorf("Expected zero token endpoint calls, got %d", n)
	}
	if n := atomic.LoadInt32(&auth.calls); n != 0 {
		t.Errorf("Expected zero interactive authorizations, got %d", n)
	}
}

func TestGateRefreshPersistsRotatedToken(t *testing.T) {
	srv, count := fakeTokenEndpoint(t, tokenResponse("new-access", "rotated-refresh"))
	gate, store := newTestGate(t, srv.URL, &fakeAuthorizer{})

	expired := &Record{
		AccessToken:  "old-access",
		RefreshToken: "old-refresh",
		Expiry:       time.Now().Add(-time.Hour),
		Environment:  "sandbox",
		CompanyID:    "123",
	}
	if err := store.Save(expired); err != nil {
		t.Fatal(err)
	}

	rec, err := gate.Ensure(context.Background())
	if err != nil {
		t.Fatalf("Ensure failed: %v", err)
	}
	if rec.AccessToken != "new-access" {
		t.Errorf("Expected refreshed token, got %q", rec.AccessToken)
	}
	if n := atomic.LoadInt32(count); n != 1 {
		t.Errorf("Expected one token endpoint call, got %d", n)
	}

	// The rotated refresh token must be on disk before Ensure returns.
	persisted, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}
	if persisted.RefreshToken != "rotated-refresh" {
		t.Errorf("Expected rotated refresh token persisted, got %q", persisted.RefreshToken)
	}
	if persisted.CompanyID != "123" {
		t.Errorf("Expected company preserved across refresh, got %q", persisted.CompanyID)
	}
}

func TestGateRefreshRejectedEscalatesToInteractive(t *testing.T) {
	srv, _ := fakeTokenEndpoint(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"invalid_grant"}`))
	})
	auth := &fakeAuthorizer{
		record: &Record{
			AccessToken:  "fresh-access",
			RefreshToken: "fresh-refresh",
			Expiry:       time.Now().Add(time.Hour),
			Environment:  "sandbox",
			CompanyID:    "123",
		},
	}
	gate, store := newTestGate(t, srv.URL, auth)

	expired := &Record{
		AccessToken:  "old-access",
		RefreshToken: "revoked-refresh",
		Expiry:       time.Now().Add(-time.Hour),
		Environment:  "sandbox",
		CompanyID:    "123",
	}
	if err := store.Save(expired); err != nil {
		t.Fatal(err)
	}

	rec, err := gate.Ensure(context.Background())
	if err != nil {
		t.Fatalf("Ensure failed: %v", err)
	}
	if rec.AccessToken != "fresh-access" {
		t.Errorf("Expected interactively obtained token, got %q", rec.AccessToken)
	}
	if n := atomic.LoadInt32(&auth.calls); n != 1 {
		t.Errorf("Expected one interactive authorization, got %d", n)
	}

	persisted, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}
	if persisted.AccessToken != "fresh-access" {
		t.Error("Expected interactively obtained record to be persisted")
	}
}

func TestGateTransientRefreshFailure(t *testing.T) {
	srv, _ := fakeTokenEndpoint(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	auth := &fakeAuthorizer{}
	gate, store := newTestGate(t, srv.URL, auth)

	expired := &Record{
		AccessToken:  "old-access",
		RefreshToken: "old-refresh",
		Expiry:       time.Now().Add(-time.Hour),
		Environment:  "sandbox",
		CompanyID:    "123",
	}
	if err := store.Save(expired); err != nil {
		t.Fatal(err)
	}

	_, err := gate.Ensure(context.Background())
	var refreshErr *TokenRefreshError
	if !errors.As(err, &refreshErr) {
		t.Fatalf("Expected TokenRefreshError, got %v", err)
	}
	if n := atomic.LoadInt32(&auth.calls); n != 0 {
		t.Errorf("Transient failure must not trigger interactive auth, got %d calls", n)
	}
}

func TestGateNoCredentialRunsInteractive(t *testing.T) {
	srv, count := fakeTokenEndpoint(t, tokenResponse("x", "y"))
	auth := &fakeAuthorizer{
		record: &Record{
			AccessToken:  "fresh-access",
			RefreshToken: "fresh-refresh",
			Expiry:       time.Now().Add(time.Hour),
			Environment:  "sandbox",
			CompanyID:    "123",
		},
	}
	gate, _ := newTestGate(t, srv.URL, auth)

	rec, err := gate.Ensure(context.Background())
	if err != nil {
		t.Fatalf("Ensure failed: %v", err)
	}
	if rec.AccessToken != "fresh-access" {
		t.Errorf("Expected interactively obtained token, got %q", rec.AccessToken)
	}
	if n := atomic.LoadInt32(count); n != 0 {
		t.Errorf("Expected zero token endpoint calls, got %d", n)
	}
}

func TestGateConcurrentCallersShareOneRefresh(t *testing.T) {
	release := make(chan struct{})
	srv, count := fakeTokenEndpoint(t, func(w http.ResponseWriter, r *http.Request) {
		<-release
		tokenResponse("new-access", "rotated-refresh")(w, r)
	})
	gate, store := newTestGate(t, srv.URL, &fakeAuthorizer{})

	expired := &Record{
		AccessToken:  "old-access",
		RefreshToken: "old-refresh",
		Expiry:       time.Now().Add(-time.Hour),
		Environment:  "sandbox",
		CompanyID:    "123",
	}
	if err := store.Save(expired); err != nil {
		t.Fatal(err)
	}

	const callers = 8
	var wg sync.WaitGroup
	results := make([]*Record, callers)
	errs := make([]error, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = gate.Ensure(context.Background())
		}(i)
	}

	// Let all callers pile up on the in-flight refresh before it
	// completes.
	time.Sleep(100 * time.Millisecond)
	close(release)
	wg.Wait()

	for i := 0; i < callers; i++ {
		if errs[i] != nil {
			t.Fatalf("Caller %d failed: %v", i, errs[i])
		}
		if results[i].AccessToken != "new-access" {
			t.Errorf("Caller %d got token %q", i, results[i].AccessToken)
		}
	}
	if n := atomic.LoadInt32(count); n != 1 {
		t.Errorf("Expected exactly one token endpoint call, got %d", n)
	}
}

func TestGateInvalidateForcesRefresh(t *testing.T) {
	srv, count := fakeTokenEndpoint(t, tokenResponse("new-access", "rotated-refresh"))
	gate, store := newTestGate(t, srv.URL, &fakeAuthorizer{})

	valid := &Record{
		AccessToken:  "rejected-by-provider",
		RefreshToken: "cached-refresh",
		Expiry:       time.Now().Add(time.Hour),
		Environment:  "sandbox",
		CompanyID:    "123",
	}
	if err := store.Save(valid); err != nil {
		t.Fatal(err)
	}

	gate.Invalidate()

	rec, err := gate.Ensure(context.Background())
	if err != nil {
		t.Fatalf("Ensure failed: %v", err)
	}
	if rec.AccessToken != "new-access" {
		t.Errorf("Expected refreshed token after Invalidate, got %q", rec.AccessToken)
	}
	if n := atomic.LoadInt32(count); n != 1 {
		t.Errorf("Expected one token endpoint call, got %d", n)
	}

	// The invalidation is consumed; the next Ensure trusts the stored
	// expiry again.
	rec, err = gate.Ensure(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if n := atomic.LoadInt32(count); n != 1 {
		t.Errorf("Expected no further token endpoint calls, got %d", n)
	}
	if rec.AccessToken != "new-access" {
		t.Errorf("Expected persisted refreshed token, got %q", rec.AccessToken)
	}
}
