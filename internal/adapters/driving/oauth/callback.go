// Package oauth receives the identity provider's redirect during sign-in.
package oauth

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net"
	"net/http"
	"os/exec"
	"runtime"
	"sync"
	"time"
)

// ErrStateMismatch is returned when the callback state does not match the request.
var ErrStateMismatch = errors.New("state mismatch")

// CallbackServer listens on the loopback interface for the authorization
// code redirect. It accepts exactly one result, code or error.
type CallbackServer struct {
	mu            sync.Mutex
	port          int
	expectedState string
	result        chan callbackResult
	server        *http.Server
}

type callbackResult struct {
	code string
	err  error
}

// NewCallbackServer creates a callback server. Port 0 picks a free port.
func NewCallbackServer(port int, expectedState string) *CallbackServer {
	return &CallbackServer{
		port:          port,
		expectedState: expectedState,
		result:        make(chan callbackResult, 1),
	}
}

// Start begins listening. Port reports the bound port afterwards.
func (s *CallbackServer) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	addr := fmt.Sprintf("127.0.0.1:%d", s.port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	if tcpAddr, ok := listener.Addr().(*net.TCPAddr); ok {
		s.port = tcpAddr.Port
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", s.handleCallback)
	s.server = &http.Server{
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.deliver(callbackResult{err: err})
		}
	}()
	return nil
}

func (s *CallbackServer) handleCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if errParam := q.Get("error"); errParam != "" {
		desc := q.Get("error_description")
		s.deliver(callbackResult{err: fmt.Errorf("sign-in refused: %s %s", errParam, desc)})
		_, _ = fmt.Fprint(w, resultPage("Sign-in failed", desc))
		return
	}
	s.mu.Lock()
	expected := s.expectedState
	s.mu.Unlock()
	if expected == "" || q.Get("state") != expected {
		s.deliver(callbackResult{err: ErrStateMismatch})
		w.WriteHeader(http.StatusBadRequest)
		_, _ = fmt.Fprint(w, resultPage("Sign-in failed", "The request could not be verified."))
		return
	}
	code := q.Get("code")
	if code == "" {
		s.deliver(callbackResult{err: errors.New("no authorization code received")})
		w.WriteHeader(http.StatusBadRequest)
		_, _ = fmt.Fprint(w, resultPage("Sign-in failed", "No authorization code was received."))
		return
	}

	s.deliver(callbackResult{code: code})
	_, _ = fmt.Fprint(w, resultPage("Signed in to DocGPT", "You can close this window and return to the terminal."))
}

// Expect sets the state the redirect must carry. The flow state is usually
// generated after Start, once the bound port is known.
func (s *CallbackServer) Expect(state string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expectedState = state
}

// deliver keeps the first result and drops the rest.
func (s *CallbackServer) deliver(r callbackResult) {
	select {
	case s.result <- r:
	default:
	}
}

// Wait blocks until a code arrives, the provider reports an error, or ctx is done.
func (s *CallbackServer) Wait(ctx context.Context) (string, error) {
	select {
	case r := <-s.result:
		return r.code, r.err
	case <-ctx.Done():
		return "", fmt.Errorf("waiting for sign-in callback: %w", ctx.Err())
	}
}

// Stop shuts the server down. It is safe to call more than once.
func (s *CallbackServer) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := s.server.Shutdown(ctx)
	s.server = nil
	return err
}

// Port returns the listening port.
func (s *CallbackServer) Port() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.port
}

//nolint:misspell // CSS uses American spelling
func resultPage(title, message string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <title>DocGPT</title>
    <style>
        body { font-family: -apple-system, 'Segoe UI', Roboto, sans-serif; display: flex;
               justify-content: center; align-items: center; height: 100vh; margin: 0; background: #0f172a; }
        .card { text-align: center; background: #1e293b; color: #e2e8f0; padding: 48px 64px; border-radius: 16px; }
        h1 { margin: 0 0 8px 0; font-size: 24px; }
        p { color: #94a3b8; margin: 0; }
    </style>
</head>
<body>
    <div class="card">
        <h1>%s</h1>
        <p>%s</p>
    </div>
</body>
</html>`, html.EscapeString(title), html.EscapeString(message))
}

// OpenBrowser opens url in the default browser.
func OpenBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
	return cmd.Start()
}
