package driving

import (
	"context"

	"github.com/custodia-labs/docgpt-cli/internal/core/domain"
)

// OAuthFlowState holds the state for a sign-in flow in progress.
// Used by driving adapters (TUI/CLI) to track the OAuth authorization flow.
type OAuthFlowState struct {
	// AuthURL is the URL to open in the browser for user authorization.
	AuthURL string

	// CodeVerifier is the PKCE code verifier for token exchange.
	CodeVerifier string

	// State is the OAuth state parameter for CSRF protection.
	State string

	// RedirectURI is the local callback URL for the OAuth flow.
	RedirectURI string

	// RedirectPort is the port the callback server is listening on.
	RedirectPort int
}

// AuthStatus summarises the identity gate.
type AuthStatus struct {
	// Configured is false when no identity provider is set up.
	Configured bool

	// SignedIn is true when operations are allowed.
	SignedIn bool

	// Method is "oauth", "token" or "none".
	Method string

	// Account is the signed-in account identifier, if known.
	Account string
}

// AuthService is the identity gate in front of every session operation.
type AuthService interface {
	// SignedIn reports whether session operations are allowed.
	// Always true when no identity provider is configured.
	SignedIn(ctx context.Context) bool

	// Status returns a summary for display.
	Status(ctx context.Context) AuthStatus

	// StartSignIn prepares an authorization-code flow with PKCE.
	// redirectPort is the port of the local callback listener.
	StartSignIn(ctx context.Context, redirectPort int) (*OAuthFlowState, error)

	// CompleteSignIn exchanges the authorization code and stores the tokens.
	CompleteSignIn(ctx context.Context, flow *OAuthFlowState, code string) (*domain.Credentials, error)

	// SignInWithToken stores a static access token.
	SignInWithToken(ctx context.Context, token string) (*domain.Credentials, error)

	// SignOut removes stored credentials.
	SignOut(ctx context.Context) error
}
