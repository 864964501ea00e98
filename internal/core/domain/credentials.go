package domain

import "time"

// expirySkew treats a token as expired slightly early so a request
// started just before expiry does not reach the service with a dead token.
const expirySkew = 30 * time.Second

// Credentials is the identity attached to requests to the retrieval
// service. The client holds at most one set at a time: either a token
// from an identity-provider sign-in or a static token pasted by the user.
type Credentials struct {
	ID                string `json:"id"`
	AccountIdentifier string `json:"account_identifier,omitempty"`

	OAuth  *OAuthToken  `json:"oauth,omitempty"`
	Static *StaticToken `json:"static,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OAuthToken is the result of an authorization-code exchange or refresh.
type OAuthToken struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	TokenType    string    `json:"token_type"`
	Expiry       time.Time `json:"expiry,omitempty"`
}

// StaticToken is a bearer token supplied directly by the user.
type StaticToken struct {
	Token string `json:"token"`
}

// IsExpired reports whether the access token is past (or about to pass)
// its expiry. Tokens without an expiry never expire.
func (t *OAuthToken) IsExpired() bool {
	if t.Expiry.IsZero() {
		return false
	}
	return time.Now().Add(expirySkew).After(t.Expiry)
}

// Usable reports whether the credentials can authenticate a request now
// or after a refresh.
func (c *Credentials) Usable() bool {
	switch {
	case c.OAuth != nil && c.OAuth.AccessToken != "":
		return !c.OAuth.IsExpired() || c.OAuth.RefreshToken != ""
	case c.Static != nil:
		return c.Static.Token != ""
	}
	return false
}

// NeedsRefresh reports whether the OAuth token has expired and can be renewed.
func (c *Credentials) NeedsRefresh() bool {
	return c.OAuth != nil && c.OAuth.IsExpired() && c.OAuth.RefreshToken != ""
}

// BearerToken returns the token to send in the Authorization header.
func (c *Credentials) BearerToken() string {
	switch {
	case c.OAuth != nil:
		return c.OAuth.AccessToken
	case c.Static != nil:
		return c.Static.Token
	}
	return ""
}
