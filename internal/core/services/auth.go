package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/docgpt-cli/internal/core/domain"
	"github.com/custodia-labs/docgpt-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docgpt-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docgpt-cli/internal/logger"
)

// Ensure AuthService implements the interfaces.
var (
	_ driving.AuthService  = (*AuthService)(nil)
	_ driven.TokenProvider = (*AuthService)(nil)
	_ Gate                 = (*AuthService)(nil)
)

// PKCE code verifier length (RFC 7636 recommends 43-128 characters).
const codeVerifierLength = 64

// AuthService is the identity gate. Without an identity provider the gate
// is open, though a static token may still be stored and sent.
type AuthService struct {
	identity driven.IdentityProvider
	store    driven.CredentialsStore

	mu sync.Mutex
}

// NewAuthService creates a new auth service. identity may be nil.
func NewAuthService(identity driven.IdentityProvider, store driven.CredentialsStore) *AuthService {
	return &AuthService{
		identity: identity,
		store:    store,
	}
}

// SignedIn reports whether session operations are allowed.
func (s *AuthService) SignedIn(ctx context.Context) bool {
	if s.identity == nil {
		return true
	}
	creds := s.current(ctx)
	return creds != nil && creds.Usable()
}

// Status returns a summary for display.
func (s *AuthService) Status(ctx context.Context) driving.AuthStatus {
	status := driving.AuthStatus{
		Configured: s.identity != nil,
		SignedIn:   s.SignedIn(ctx),
		Method:     "none",
	}
	creds := s.current(ctx)
	if creds == nil {
		return status
	}
	switch {
	case creds.OAuth != nil:
		status.Method = "oauth"
	case creds.Static != nil:
		status.Method = "token"
	}
	status.Account = creds.AccountIdentifier
	return status
}

// GetToken returns a valid access token, refreshing OAuth tokens on demand.
// An empty token with a nil error means the request goes out unauthenticated.
func (s *AuthService) GetToken(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	creds := s.current(ctx)
	if creds == nil {
		if s.identity != nil {
			return "", domain.ErrAuthRequired
		}
		return "", nil
	}
	if !creds.NeedsRefresh() {
		return creds.BearerToken(), nil
	}
	if s.identity == nil {
		return "", domain.ErrAuthExpired
	}

	logger.Debug("auth: refreshing access token")
	refreshed, err := s.identity.Refresh(ctx, *creds.OAuth)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrAuthExpired, err)
	}
	if refreshed.RefreshToken == "" {
		refreshed.RefreshToken = creds.OAuth.RefreshToken
	}
	creds.OAuth = refreshed
	creds.UpdatedAt = time.Now()
	if err := s.store.Save(ctx, *creds); err != nil {
		logger.Warn("auth: saving refreshed token: %v", err)
	}
	return refreshed.AccessToken, nil
}

// StartSignIn prepares an authorization-code flow with PKCE.
func (s *AuthService) StartSignIn(_ context.Context, redirectPort int) (*driving.OAuthFlowState, error) {
	if s.identity == nil {
		return nil, domain.ErrIdentityNotConfigured
	}

	state, err := randomToken(32)
	if err != nil {
		return nil, fmt.Errorf("generate state: %w", err)
	}
	verifier, err := randomToken(codeVerifierLength)
	if err != nil {
		return nil, fmt.Errorf("generate code verifier: %w", err)
	}
	hash := sha256.Sum256([]byte(verifier))
	challenge := base64.RawURLEncoding.EncodeToString(hash[:])

	redirectURI := fmt.Sprintf("http://127.0.0.1:%d/callback", redirectPort)
	return &driving.OAuthFlowState{
		AuthURL:      s.identity.AuthCodeURL(state, challenge, redirectURI),
		CodeVerifier: verifier,
		State:        state,
		RedirectURI:  redirectURI,
		RedirectPort: redirectPort,
	}, nil
}

// CompleteSignIn exchanges the authorization code and stores the tokens.
func (s *AuthService) CompleteSignIn(
	ctx context.Context,
	flow *driving.OAuthFlowState,
	code string,
) (*domain.Credentials, error) {
	if s.identity == nil {
		return nil, domain.ErrIdentityNotConfigured
	}
	if flow == nil || code == "" {
		return nil, domain.ErrInvalidInput
	}

	tokens, err := s.identity.Exchange(ctx, code, flow.CodeVerifier, flow.RedirectURI)
	if err != nil {
		return nil, fmt.Errorf("exchange code: %w", err)
	}
	return s.save(ctx, domain.Credentials{OAuth: tokens})
}

// SignInWithToken stores a static access token.
func (s *AuthService) SignInWithToken(ctx context.Context, token string) (*domain.Credentials, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, domain.ErrInvalidInput
	}
	return s.save(ctx, domain.Credentials{Static: &domain.StaticToken{Token: token}})
}

// SignOut removes stored credentials.
func (s *AuthService) SignOut(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	if err := s.store.Delete(ctx); err != nil {
		return fmt.Errorf("delete credentials: %w", err)
	}
	return nil
}

func (s *AuthService) save(ctx context.Context, creds domain.Credentials) (*domain.Credentials, error) {
	if s.store == nil {
		return nil, fmt.Errorf("save credentials: %w", domain.ErrServiceUnavailable)
	}
	now := time.Now()
	creds.ID = newMessageID()
	creds.CreatedAt = now
	creds.UpdatedAt = now
	if err := s.store.Save(ctx, creds); err != nil {
		return nil, fmt.Errorf("save credentials: %w", err)
	}
	return &creds, nil
}

// current returns stored credentials or nil.
func (s *AuthService) current(ctx context.Context) *domain.Credentials {
	if s.store == nil {
		return nil
	}
	creds, err := s.store.Current(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logger.Warn("auth: reading credentials: %v", err)
		}
		return nil
	}
	return creds
}

// randomToken returns n random bytes, base64url encoded without padding.
func randomToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
