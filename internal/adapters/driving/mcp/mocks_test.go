package mcp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docgpt-cli/internal/core/domain"
)

// mockSessionService is a mock implementation of driving.SessionService.
type mockSessionService struct {
	state       domain.IndexState
	transcript  []domain.Message
	resetErr    error
	resetCalls  int
	initialized int
}

func (m *mockSessionService) Initialize(_ context.Context) domain.IndexState {
	m.initialized++
	return m.state
}

func (m *mockSessionService) CompleteUpload(resp domain.UploadResponse) domain.IndexState {
	m.state = domain.IndexState{Indexed: true, DocumentName: resp.DocumentName, TotalChunks: resp.ChunksCreated}
	return m.state
}

func (m *mockSessionService) Reset(_ context.Context) error {
	m.resetCalls++
	if m.resetErr == nil {
		m.state = domain.IndexState{}
		m.transcript = nil
	}
	return m.resetErr
}

func (m *mockSessionService) State() domain.IndexState {
	return m.state
}

func (m *mockSessionService) Transcript() []domain.Message {
	return m.transcript
}

func (m *mockSessionService) Subscribe(_ func(domain.IndexState)) func() {
	return func() {}
}

// mockExchangeService is a mock implementation of driving.ExchangeService.
type mockExchangeService struct {
	reply    *domain.Message
	err      error
	question string
}

func (m *mockExchangeService) Ask(_ context.Context, question string) (*domain.Message, error) {
	m.question = question
	return m.reply, m.err
}

func (m *mockExchangeService) InFlight() bool {
	return false
}

// mockUploadService is a mock implementation of driving.UploadService.
type mockUploadService struct {
	state domain.IndexState
	err   error
	path  string
}

func (m *mockUploadService) Submit(
	_ context.Context,
	path string,
	_ domain.ProgressListener,
) (*domain.UploadResponse, error) {
	m.path = path
	if m.err != nil {
		return nil, m.err
	}
	return &domain.UploadResponse{DocumentName: m.state.DocumentName, ChunksCreated: m.state.TotalChunks}, nil
}

func (m *mockUploadService) UploadAndActivate(
	_ context.Context,
	path string,
	_ domain.ProgressListener,
) (domain.IndexState, error) {
	m.path = path
	if m.err != nil {
		return domain.IndexState{}, m.err
	}
	return m.state, nil
}

func (m *mockUploadService) Progress() domain.UploadProgress {
	return domain.UploadProgress{}
}

// mockCatalogService is a mock implementation of driving.CatalogService.
type mockCatalogService struct {
	entries []domain.CatalogEntry
	err     error
	filter  string
}

func (m *mockCatalogService) List(_ context.Context, filter string) ([]domain.CatalogEntry, error) {
	m.filter = filter
	return m.entries, m.err
}

func (m *mockCatalogService) Delete(_ context.Context, _ string) error {
	return m.err
}

func (m *mockCatalogService) History(_ context.Context, _ int) ([]domain.UploadRecord, error) {
	return nil, m.err
}

func (m *mockCatalogService) Health(_ context.Context) error {
	return m.err
}

func newTestServer(t *testing.T, ports *Ports) *Server {
	t.Helper()
	server, err := NewServer(ports)
	require.NoError(t, err)
	return server
}
