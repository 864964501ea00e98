// Package identity signs users in against an OAuth2 identity provider.
package identity

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"

	"github.com/custodia-labs/docgpt-cli/internal/core/domain"
	"github.com/custodia-labs/docgpt-cli/internal/core/ports/driven"
)

// Ensure Provider implements the interface.
var _ driven.IdentityProvider = (*Provider)(nil)

// Provider runs the authorization-code flow with PKCE using x/oauth2.
// The client is public, so no secret is sent.
type Provider struct {
	settings domain.IdentitySettings
}

// NewProvider creates a provider, or returns nil if settings are incomplete.
func NewProvider(settings domain.IdentitySettings) *Provider {
	if !settings.IsConfigured() {
		return nil
	}
	return &Provider{settings: settings}
}

func (p *Provider) config(redirectURI string) *oauth2.Config {
	return &oauth2.Config{
		ClientID: p.settings.ClientID,
		Endpoint: oauth2.Endpoint{
			AuthURL:   p.settings.AuthURL,
			TokenURL:  p.settings.TokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
		RedirectURL: redirectURI,
		Scopes:      p.settings.Scopes,
	}
}

// AuthCodeURL returns the URL the user opens to sign in.
func (p *Provider) AuthCodeURL(state, codeChallenge, redirectURI string) string {
	return p.config(redirectURI).AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("code_challenge", codeChallenge),
		oauth2.SetAuthURLParam("code_challenge_method", "S256"),
	)
}

// Exchange trades an authorization code for tokens.
func (p *Provider) Exchange(
	ctx context.Context,
	code, codeVerifier, redirectURI string,
) (*domain.OAuthToken, error) {
	tok, err := p.config(redirectURI).Exchange(ctx, code, oauth2.VerifierOption(codeVerifier))
	if err != nil {
		return nil, fmt.Errorf("token exchange: %w", err)
	}
	return fromToken(tok), nil
}

// Refresh obtains a new access token with the refresh token.
func (p *Provider) Refresh(ctx context.Context, creds domain.OAuthToken) (*domain.OAuthToken, error) {
	if creds.RefreshToken == "" {
		return nil, domain.ErrAuthExpired
	}
	// Without an access token the source always refreshes.
	src := p.config("").TokenSource(ctx, &oauth2.Token{
		RefreshToken: creds.RefreshToken,
		TokenType:    creds.TokenType,
	})
	tok, err := src.Token()
	if err != nil {
		return nil, fmt.Errorf("refresh token: %w", err)
	}
	return fromToken(tok), nil
}

func fromToken(tok *oauth2.Token) *domain.OAuthToken {
	tokenType := tok.TokenType
	if tokenType == "" {
		tokenType = "Bearer"
	}
	return &domain.OAuthToken{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		TokenType:    tokenType,
		Expiry:       tok.Expiry,
	}
}
