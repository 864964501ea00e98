package services

import (
	"fmt"
	"net/url"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/docgpt-cli/internal/core/domain"
	"github.com/custodia-labs/docgpt-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docgpt-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// EnvServiceURL overrides the configured service URL when set.
const EnvServiceURL = "DOCGPT_API_URL"

// Config keys for settings storage.
const (
	keyServiceURL       = "service.base_url"
	keyServiceTimeout   = "service.timeout"
	keyServiceRate      = "service.requests_per_second"
	keyStageDelay       = "upload.stage_delay"
	keyIdentityClient   = "identity.client_id"
	keyIdentityAuth     = "identity.auth_url"
	keyIdentityToken    = "identity.token_url"
	keyIdentityScopes   = "identity.scopes"
	keyIdentityRedirect = "identity.redirect_port"
)

var settingKeys = []string{
	keyServiceURL,
	keyServiceTimeout,
	keyServiceRate,
	keyStageDelay,
	keyIdentityClient,
	keyIdentityAuth,
	keyIdentityToken,
	keyIdentityScopes,
	keyIdentityRedirect,
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	lookupEnv   func(string) (string, bool)
	baseURL     string
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		lookupEnv:   os.LookupEnv,
	}
}

// WithEnv overrides the environment lookup (for testing).
func (s *SettingsService) WithEnv(lookup func(string) (string, bool)) *SettingsService {
	s.lookupEnv = lookup
	return s
}

// OverrideBaseURL forces the service URL for this process only.
// It takes precedence over the environment and the config file.
func (s *SettingsService) OverrideBaseURL(baseURL string) {
	s.baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Service: domain.ServiceSettings{
			BaseURL:           s.serviceURL(defaults.Service.BaseURL),
			Timeout:           s.getDuration(keyServiceTimeout, defaults.Service.Timeout),
			RequestsPerSecond: s.getFloat(keyServiceRate, defaults.Service.RequestsPerSecond),
		},
		Upload: domain.UploadSettings{
			StageDelay: s.getDuration(keyStageDelay, defaults.Upload.StageDelay),
		},
		Identity: domain.IdentitySettings{
			ClientID:     s.configStore.GetString(keyIdentityClient),
			AuthURL:      s.configStore.GetString(keyIdentityAuth),
			TokenURL:     s.configStore.GetString(keyIdentityToken),
			Scopes:       s.getStrings(keyIdentityScopes, defaults.Identity.Scopes),
			RedirectPort: s.configStore.GetInt(keyIdentityRedirect),
		},
	}

	if !settings.Service.IsConfigured() {
		return nil, fmt.Errorf("%w: invalid service URL %q", domain.ErrInvalidInput, settings.Service.BaseURL)
	}
	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if settings == nil {
		return domain.ErrInvalidInput
	}
	if !settings.Service.IsConfigured() {
		return &domain.ValidationError{Field: keyServiceURL, Reason: "must be an absolute URL"}
	}

	if err := s.configStore.Set(keyServiceURL, settings.Service.BaseURL); err != nil {
		return fmt.Errorf("save service url: %w", err)
	}
	if err := s.configStore.Set(keyServiceTimeout, settings.Service.Timeout.String()); err != nil {
		return fmt.Errorf("save service timeout: %w", err)
	}
	if err := s.configStore.Set(keyServiceRate, settings.Service.RequestsPerSecond); err != nil {
		return fmt.Errorf("save request rate: %w", err)
	}
	if err := s.configStore.Set(keyStageDelay, settings.Upload.StageDelay.String()); err != nil {
		return fmt.Errorf("save stage delay: %w", err)
	}

	// Identity settings are optional; only write what is set.
	identity := map[string]string{
		keyIdentityClient: settings.Identity.ClientID,
		keyIdentityAuth:   settings.Identity.AuthURL,
		keyIdentityToken:  settings.Identity.TokenURL,
	}
	for _, key := range []string{keyIdentityClient, keyIdentityAuth, keyIdentityToken} {
		if identity[key] == "" {
			continue
		}
		if err := s.configStore.Set(key, identity[key]); err != nil {
			return fmt.Errorf("save %s: %w", key, err)
		}
	}
	if len(settings.Identity.Scopes) > 0 {
		if err := s.configStore.Set(keyIdentityScopes, settings.Identity.Scopes); err != nil {
			return fmt.Errorf("save identity scopes: %w", err)
		}
	}
	if settings.Identity.RedirectPort > 0 {
		if err := s.configStore.Set(keyIdentityRedirect, settings.Identity.RedirectPort); err != nil {
			return fmt.Errorf("save redirect port: %w", err)
		}
	}

	return nil
}

// Set parses value for key and stores it.
func (s *SettingsService) Set(key, value string) error {
	value = strings.TrimSpace(value)
	if !slices.Contains(settingKeys, key) {
		return &domain.ValidationError{Field: key, Reason: "unknown setting"}
	}

	var stored any
	switch key {
	case keyServiceURL:
		u, err := url.Parse(value)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return &domain.ValidationError{Field: key, Reason: "must be an absolute URL"}
		}
		stored = strings.TrimRight(value, "/")
	case keyServiceTimeout, keyStageDelay:
		d, err := time.ParseDuration(value)
		if err != nil || d < 0 {
			return &domain.ValidationError{Field: key, Reason: "must be a duration such as 600ms or 5m"}
		}
		stored = d.String()
	case keyServiceRate:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f < 0 {
			return &domain.ValidationError{Field: key, Reason: "must be a non-negative number"}
		}
		stored = f
	case keyIdentityRedirect:
		port, err := strconv.Atoi(value)
		if err != nil || port < 0 || port > 65535 {
			return &domain.ValidationError{Field: key, Reason: "must be a port number"}
		}
		stored = port
	case keyIdentityScopes:
		stored = strings.Fields(strings.ReplaceAll(value, ",", " "))
	default:
		stored = value
	}

	if err := s.configStore.Set(key, stored); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Keys returns all settable keys in display order.
func (s *SettingsService) Keys() []string {
	return slices.Clone(settingKeys)
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// serviceURL applies the flag, then the environment, then the config file.
func (s *SettingsService) serviceURL(defaultVal string) string {
	if s.baseURL != "" {
		return s.baseURL
	}
	if s.lookupEnv != nil {
		if v, ok := s.lookupEnv(EnvServiceURL); ok && strings.TrimSpace(v) != "" {
			return strings.TrimRight(strings.TrimSpace(v), "/")
		}
	}
	return strings.TrimRight(s.getString(keyServiceURL, defaultVal), "/")
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getDuration(key string, defaultVal time.Duration) time.Duration {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil || d < 0 {
		return defaultVal
	}
	return d
}

func (s *SettingsService) getStrings(key string, defaultVal []string) []string {
	val := s.configStore.GetStringSlice(key)
	if len(val) == 0 {
		return slices.Clone(defaultVal)
	}
	return val
}
