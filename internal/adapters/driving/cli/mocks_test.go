package cli

import (
	"context"

	"github.com/custodia-labs/docgpt-cli/internal/core/domain"
	"github.com/custodia-labs/docgpt-cli/internal/core/ports/driving"
)

// MockSessionService is a mock implementation of driving.SessionService.
type MockSessionService struct {
	InitializeFunc func(ctx context.Context) domain.IndexState
	ResetFunc      func(ctx context.Context) error
	StateValue     domain.IndexState
	TranscriptLog  []domain.Message
}

func (m *MockSessionService) Initialize(ctx context.Context) domain.IndexState {
	if m.InitializeFunc != nil {
		return m.InitializeFunc(ctx)
	}
	return m.StateValue
}

func (m *MockSessionService) CompleteUpload(resp domain.UploadResponse) domain.IndexState {
	m.StateValue = domain.IndexState{Indexed: true, DocumentName: resp.DocumentName, TotalChunks: resp.ChunksCreated}
	return m.StateValue
}

func (m *MockSessionService) Reset(ctx context.Context) error {
	if m.ResetFunc != nil {
		return m.ResetFunc(ctx)
	}
	return nil
}

func (m *MockSessionService) State() domain.IndexState {
	return m.StateValue
}

func (m *MockSessionService) Transcript() []domain.Message {
	return m.TranscriptLog
}

func (m *MockSessionService) Subscribe(_ func(domain.IndexState)) func() {
	return func() {}
}

// MockUploadService is a mock implementation of driving.UploadService.
type MockUploadService struct {
	UploadAndActivateFunc func(ctx context.Context, path string, listener domain.ProgressListener) (domain.IndexState, error)
}

func (m *MockUploadService) Submit(
	_ context.Context,
	_ string,
	_ domain.ProgressListener,
) (*domain.UploadResponse, error) {
	return &domain.UploadResponse{}, nil
}

func (m *MockUploadService) UploadAndActivate(
	ctx context.Context,
	path string,
	listener domain.ProgressListener,
) (domain.IndexState, error) {
	if m.UploadAndActivateFunc != nil {
		return m.UploadAndActivateFunc(ctx, path, listener)
	}
	return domain.IndexState{}, nil
}

func (m *MockUploadService) Progress() domain.UploadProgress {
	return domain.UploadProgress{}
}

// MockExchangeService is a mock implementation of driving.ExchangeService.
type MockExchangeService struct {
	AskFunc   func(ctx context.Context, question string) (*domain.Message, error)
	Questions []string
}

func (m *MockExchangeService) Ask(ctx context.Context, question string) (*domain.Message, error) {
	m.Questions = append(m.Questions, question)
	if m.AskFunc != nil {
		return m.AskFunc(ctx, question)
	}
	return &domain.Message{Role: domain.RoleAssistant, Content: "ok"}, nil
}

func (m *MockExchangeService) InFlight() bool {
	return false
}

// MockCatalogService is a mock implementation of driving.CatalogService.
type MockCatalogService struct {
	ListFunc    func(ctx context.Context, filter string) ([]domain.CatalogEntry, error)
	DeleteFunc  func(ctx context.Context, id string) error
	HistoryFunc func(ctx context.Context, limit int) ([]domain.UploadRecord, error)
	HealthFunc  func(ctx context.Context) error
}

func (m *MockCatalogService) List(ctx context.Context, filter string) ([]domain.CatalogEntry, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return nil, nil
}

func (m *MockCatalogService) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockCatalogService) History(ctx context.Context, limit int) ([]domain.UploadRecord, error) {
	if m.HistoryFunc != nil {
		return m.HistoryFunc(ctx, limit)
	}
	return nil, nil
}

func (m *MockCatalogService) Health(ctx context.Context) error {
	if m.HealthFunc != nil {
		return m.HealthFunc(ctx)
	}
	return nil
}

// MockAuthService is a mock implementation of driving.AuthService.
type MockAuthService struct {
	StatusValue         driving.AuthStatus
	SignInWithTokenFunc func(ctx context.Context, token string) (*domain.Credentials, error)
	StartSignInFunc     func(ctx context.Context, port int) (*driving.OAuthFlowState, error)
	SignOutFunc         func(ctx context.Context) error
}

func (m *MockAuthService) SignedIn(_ context.Context) bool {
	return m.StatusValue.SignedIn
}

func (m *MockAuthService) Status(_ context.Context) driving.AuthStatus {
	return m.StatusValue
}

func (m *MockAuthService) StartSignIn(ctx context.Context, port int) (*driving.OAuthFlowState, error) {
	if m.StartSignInFunc != nil {
		return m.StartSignInFunc(ctx, port)
	}
	return nil, domain.ErrIdentityNotConfigured
}

func (m *MockAuthService) CompleteSignIn(
	_ context.Context,
	_ *driving.OAuthFlowState,
	_ string,
) (*domain.Credentials, error) {
	return &domain.Credentials{}, nil
}

func (m *MockAuthService) SignInWithToken(ctx context.Context, token string) (*domain.Credentials, error) {
	if m.SignInWithTokenFunc != nil {
		return m.SignInWithTokenFunc(ctx, token)
	}
	return &domain.Credentials{}, nil
}

func (m *MockAuthService) SignOut(ctx context.Context) error {
	if m.SignOutFunc != nil {
		return m.SignOutFunc(ctx)
	}
	return nil
}

// MockSettingsService is a mock implementation of driving.SettingsService.
type MockSettingsService struct {
	Settings *domain.AppSettings
	GetErr   error
	SetFunc  func(key, value string) error
	SetCalls map[string]string
}

func (m *MockSettingsService) Get() (*domain.AppSettings, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	if m.Settings == nil {
		s := domain.DefaultAppSettings()
		return &s, nil
	}
	return m.Settings, nil
}

func (m *MockSettingsService) Save(settings *domain.AppSettings) error {
	m.Settings = settings
	return nil
}

func (m *MockSettingsService) Set(key, value string) error {
	if m.SetCalls == nil {
		m.SetCalls = make(map[string]string)
	}
	if m.SetFunc != nil {
		if err := m.SetFunc(key, value); err != nil {
			return err
		}
	}
	m.SetCalls[key] = value
	return nil
}

func (m *MockSettingsService) Keys() []string {
	return []string{"service.base_url", "service.timeout", "upload.stage_delay"}
}

func (m *MockSettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// MockWatchService is a mock implementation of driving.WatchService.
type MockWatchService struct {
	WatchFunc func(ctx context.Context, path string, listener domain.ProgressListener,
		onResult func(domain.IndexState, error)) error
}

func (m *MockWatchService) Watch(ctx context.Context, path string, listener domain.ProgressListener,
	onResult func(domain.IndexState, error)) error {
	if m.WatchFunc != nil {
		return m.WatchFunc(ctx, path, listener, onResult)
	}
	return nil
}
