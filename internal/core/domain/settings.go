package domain

import (
	"net/url"
	"time"
)

// DefaultServiceURL is where the retrieval service listens by default.
const DefaultServiceURL = "http://localhost:8000"

// ServiceSettings holds retrieval service connection configuration.
type ServiceSettings struct {
	// BaseURL is the API endpoint.
	BaseURL string

	// Timeout bounds a single request. Uploads include indexing time.
	Timeout time.Duration

	// RequestsPerSecond throttles outgoing requests. Zero disables throttling.
	RequestsPerSecond float64
}

// IsConfigured returns true if the base URL parses as an absolute URL.
func (s ServiceSettings) IsConfigured() bool {
	if s.BaseURL == "" {
		return false
	}
	u, err := url.Parse(s.BaseURL)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}

// UploadSettings holds upload pacing configuration.
type UploadSettings struct {
	// StageDelay is the pause between post-transmission stages.
	StageDelay time.Duration
}

// IdentitySettings holds identity provider configuration.
// An empty ClientID means the sign-in gate is open.
type IdentitySettings struct {
	// ClientID is the public OAuth client identifier.
	ClientID string

	// AuthURL is the authorization endpoint.
	AuthURL string

	// TokenURL is the token endpoint.
	TokenURL string

	// Scopes requested at sign-in.
	Scopes []string

	// RedirectPort is the local callback port. Zero picks a free port.
	RedirectPort int
}

// IsConfigured returns true if an identity provider is set up.
func (i IdentitySettings) IsConfigured() bool {
	return i.ClientID != "" && i.AuthURL != "" && i.TokenURL != ""
}

// AppSettings holds all application settings.
type AppSettings struct {
	Service  ServiceSettings
	Upload   UploadSettings
	Identity IdentitySettings
}

// DefaultAppSettings returns sensible defaults.
// The identity provider is left unconfigured, leaving the gate open.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Service: ServiceSettings{
			BaseURL:           DefaultServiceURL,
			Timeout:           5 * time.Minute,
			RequestsPerSecond: 2,
		},
		Upload: UploadSettings{
			StageDelay: 600 * time.Millisecond,
		},
		Identity: IdentitySettings{
			Scopes: []string{"openid", "profile", "email", "offline_access"},
		},
	}
}
