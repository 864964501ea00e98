package driven

import (
	"context"

	"github.com/custodia-labs/docgpt-cli/internal/core/domain"
)

// CredentialsStore persists the signed-in user's credentials.
// The client keeps a single active set; saving replaces it.
type CredentialsStore interface {
	// Save stores credentials, replacing any existing set.
	Save(ctx context.Context, creds domain.Credentials) error

	// Current returns the active credentials.
	// Returns domain.ErrNotFound if nobody is signed in.
	Current(ctx context.Context) (*domain.Credentials, error)

	// Delete removes the active credentials. Deleting nothing is not an error.
	Delete(ctx context.Context) error
}
