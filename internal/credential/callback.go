package credential

import (
	"context"
	_ "embed"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"sync"
	"time"
)

//go:embed templates/callback_success.html
var callbackSuccessHTML string

//go:embed templates/callback_error.html
var callbackErrorHTML string

// callbackResult carries the query parameters Intuit appends to the
// redirect URI: the authorization code and realmId on success, or an
// error code on denial.
type callbackResult struct {
	Code             string
	State            string
	RealmID          string
	Error            string
	ErrorDescription string
}

// isError returns true if the callback represents a provider-side denial.
func (r *callbackResult) isError() bool {
	return r.Error != ""
}

// callbackServer is a short-lived loopback HTTP server that receives a
// single OAuth callback and then shuts down. Only one may be bound at a
// time process-wide; the authorizer serializes flows.
type callbackServer struct {
	port     int
	path     string
	server   *http.Server
	listener net.Listener
	resultCh chan *callbackResult
	errorCh  chan error
	once     sync.Once
}

func newCallbackServer(port int, path string) *callbackServer {
	return &callbackServer{
		port:     port,
		path:     path,
		resultCh: make(chan *callbackResult, 1),
		errorCh:  make(chan error, 1),
	}
}

// start binds the listener and begins serving. The server stops when the
// context is cancelled, when a callback arrives, or when stop is called.
func (s *callbackServer) start(ctx context.Context) error {
	addr := fmt.Sprintf("127.0.0.1:%d", s.port)

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to start callback listener on %s: %w", addr, err)
	}
	s.listener = listener

	mux := http.NewServeMux()
	mux.HandleFunc(s.path, s.handleCallback)

	s.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := s.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			select {
			case s.errorCh <- err:
			default:
			}
		}
	}()

	go func() {
		<-ctx.Done()
		s.stop()
	}()

	return nil
}

// wait blocks until the callback arrives, the server fails, or the
// context expires.
func (s *callbackServer) wait(ctx context.Context) (*callbackResult, error) {
	select {
	case result := <-s.resultCh:
		return result, nil
	case err := <-s.errorCh:
		return nil, err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// handleCallback processes the redirect request. Only the first request
// is honored; the browser sometimes re-requests the page.
func (s *callbackServer) handleCallback(w http.ResponseWriter, r *http.Request) {
	var handled bool
	s.once.Do(func() {
		handled = true
		s.processCallback(w, r)
	})

	if !handled {
		http.Error(w, "Callback already processed", http.StatusBadRequest)
	}
}

func (s *callbackServer) processCallback(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("X-Frame-Options", "DENY")
	w.Header().Set("Cache-Control", "no-store")

	query := r.URL.Query()
	result := &callbackResult{
		Code:             query.Get("code"),
		State:            query.Get("state"),
		RealmID:          query.Get("realmId"),
		Error:            query.Get("error"),
		ErrorDescription: query.Get("error_description"),
	}

	var tmpl *template.Template
	var data interface{}

	if result.isError() {
		tmpl = template.Must(template.New("error").Parse(callbackErrorHTML))
		data = map[string]string{
			"Error":       result.Error,
			"Description": result.ErrorDescription,
		}
	} else {
		tmpl = template.Must(template.New("success").Parse(callbackSuccessHTML))
		data = map[string]string{}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.Execute(w, data); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}

	select {
	case s.resultCh <- result:
	default:
	}

	// Let the response flush before tearing the listener down.
	go func() {
		time.Sleep(1 * time.Second)
		s.stop()
	}()
}

// stop shuts the server down and releases the port. Safe to call on
// every exit path, repeatedly.
func (s *callbackServer) stop() {
	if s.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(ctx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
	}
}
