package services

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/custodia-labs/docgpt-cli/internal/core/domain"
	"github.com/custodia-labs/docgpt-cli/internal/core/ports/driven"
)

// mockDocumentService implements driven.DocumentService, driven.QueryService
// and driven.DocumentCatalog.
type mockDocumentService struct {
	mu sync.Mutex

	uploadResp *domain.UploadResponse
	uploadErr  error
	transfer   []int
	status     *domain.StatusResponse
	statusErr  error
	resetErr   error
	healthErr  error
	answer     *domain.Answer
	askErr     error
	entries    []domain.CatalogEntry
	listErr    error
	deleteErr  error

	// askFunc overrides answer/askErr when set.
	askFunc func(ctx context.Context, question string, history []domain.Message) (*domain.Answer, error)

	submitCalls int
	statusCalls int
	resetCalls  int
	askCalls    int
	deleted     []string
	lastHistory []domain.Message
	lastUpload  []byte
}

var (
	_ driven.DocumentService = (*mockDocumentService)(nil)
	_ driven.QueryService    = (*mockDocumentService)(nil)
	_ driven.DocumentCatalog = (*mockDocumentService)(nil)
)

func (m *mockDocumentService) Submit(
	_ context.Context,
	_ domain.FileInfo,
	content io.Reader,
	onTransfer driven.TransferFunc,
) (*domain.UploadResponse, error) {
	m.mu.Lock()
	m.submitCalls++
	m.mu.Unlock()

	data, _ := io.ReadAll(content)
	m.mu.Lock()
	m.lastUpload = data
	m.mu.Unlock()

	for _, p := range m.transfer {
		if onTransfer != nil {
			onTransfer(p)
		}
	}
	if m.uploadErr != nil {
		return nil, m.uploadErr
	}
	return m.uploadResp, nil
}

func (m *mockDocumentService) Status(_ context.Context) (*domain.StatusResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statusCalls++
	return m.status, m.statusErr
}

func (m *mockDocumentService) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetCalls++
	return m.resetErr
}

func (m *mockDocumentService) Health(_ context.Context) error {
	return m.healthErr
}

func (m *mockDocumentService) Ask(ctx context.Context, question string, history []domain.Message) (*domain.Answer, error) {
	m.mu.Lock()
	m.askCalls++
	m.lastHistory = append([]domain.Message(nil), history...)
	fn := m.askFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, question, history)
	}
	return m.answer, m.askErr
}

func (m *mockDocumentService) List(_ context.Context) ([]domain.CatalogEntry, error) {
	return m.entries, m.listErr
}

func (m *mockDocumentService) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, id)
	return m.deleteErr
}

// mockInspector reports every file with a fixed MIME type.
type mockInspector struct {
	mimeType string
	name     string
	err      error
	calls    int
}

func (m *mockInspector) Inspect(path string) (*domain.FileInfo, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	name := m.name
	if name == "" {
		name = "spec.pdf"
	}
	return &domain.FileInfo{
		Path:     path,
		Name:     name,
		Size:     4,
		MIMEType: m.mimeType,
	}, nil
}

// mockSleeper records requested pauses without waiting.
type mockSleeper struct {
	mu     sync.Mutex
	pauses []time.Duration
	// sleepFunc overrides the default when set.
	sleepFunc func(ctx context.Context, d time.Duration) error
}

func (m *mockSleeper) Sleep(ctx context.Context, d time.Duration) error {
	m.mu.Lock()
	m.pauses = append(m.pauses, d)
	fn := m.sleepFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, d)
	}
	return ctx.Err()
}

// mockGate is a switchable sign-in gate.
type mockGate struct {
	signedIn bool
}

func (m *mockGate) SignedIn(context.Context) bool { return m.signedIn }

// mockIdentity implements driven.IdentityProvider.
type mockIdentity struct {
	tokens      *domain.OAuthToken
	exchangeErr error
	refreshed   *domain.OAuthToken
	refreshErr  error

	lastChallenge string
	lastVerifier  string
	lastRedirect  string
	refreshCalls  int
}

func (m *mockIdentity) AuthCodeURL(state, codeChallenge, redirectURI string) string {
	m.lastChallenge = codeChallenge
	m.lastRedirect = redirectURI
	return "https://id.example.com/authorize?state=" + state
}

func (m *mockIdentity) Exchange(_ context.Context, _, codeVerifier, _ string) (*domain.OAuthToken, error) {
	m.lastVerifier = codeVerifier
	return m.tokens, m.exchangeErr
}

func (m *mockIdentity) Refresh(_ context.Context, _ domain.OAuthToken) (*domain.OAuthToken, error) {
	m.refreshCalls++
	if m.refreshErr != nil {
		return nil, m.refreshErr
	}
	c := *m.refreshed
	return &c, nil
}

// mockWatcher delivers change events from a test-owned channel.
type mockWatcher struct {
	events chan struct{}
	err    error
}

func (m *mockWatcher) Watch(_ context.Context, _ string) (<-chan struct{}, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.events, nil
}

// progressRecorder collects listener callbacks.
type progressRecorder struct {
	mu     sync.Mutex
	events []domain.UploadProgress
}

func (r *progressRecorder) listen(p domain.UploadProgress) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, p)
}

func (r *progressRecorder) percents() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]int, len(r.events))
	for i, e := range r.events {
		out[i] = e.Percent
	}
	return out
}

func (r *progressRecorder) last() domain.UploadProgress {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.events) == 0 {
		return domain.UploadProgress{}
	}
	return r.events[len(r.events)-1]
}
