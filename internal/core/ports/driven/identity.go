package driven

import (
	"context"

	"github.com/custodia-labs/docgpt-cli/internal/core/domain"
)

// IdentityProvider talks to the external identity provider.
type IdentityProvider interface {
	// AuthCodeURL builds the browser URL for an authorization-code flow
	// with an S256 PKCE challenge.
	AuthCodeURL(state, codeChallenge, redirectURI string) string

	// Exchange trades an authorization code for tokens.
	Exchange(ctx context.Context, code, codeVerifier, redirectURI string) (*domain.OAuthToken, error)

	// Refresh obtains a new access token using the refresh token.
	Refresh(ctx context.Context, creds domain.OAuthToken) (*domain.OAuthToken, error)
}
