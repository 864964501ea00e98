package driving

import (
	"context"

	"github.com/custodia-labs/docgpt-cli/internal/core/domain"
)

// CatalogService manages the service's document history.
// It does not interact with the session's index state.
type CatalogService interface {
	// List returns documents whose name contains filter (case-insensitive).
	// An empty filter returns everything.
	List(ctx context.Context, filter string) ([]domain.CatalogEntry, error)

	// Delete removes a document from the history.
	Delete(ctx context.Context, id string) error

	// History returns locally recorded uploads, newest first.
	History(ctx context.Context, limit int) ([]domain.UploadRecord, error)

	// Health returns nil when the service answers.
	Health(ctx context.Context) error
}
