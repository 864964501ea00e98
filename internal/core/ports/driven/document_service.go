package driven

import (
	"context"
	"io"

	"github.com/custodia-labs/docgpt-cli/internal/core/domain"
)

// TransferFunc receives raw transfer progress in percent (0-100 of bytes sent).
type TransferFunc func(percent int)

// DocumentService is the remote indexing service.
// Implementations return *domain.ServiceError for non-2xx replies and
// *domain.TransportError for connectivity failures.
type DocumentService interface {
	// Submit uploads a document and blocks until the service has indexed it.
	// onTransfer may be nil.
	Submit(ctx context.Context, file domain.FileInfo, content io.Reader, onTransfer TransferFunc) (*domain.UploadResponse, error)

	// Status returns whether a document is currently indexed.
	Status(ctx context.Context) (*domain.StatusResponse, error)

	// Reset drops the current index.
	Reset(ctx context.Context) error

	// Health returns nil when the service answers.
	Health(ctx context.Context) error
}

// QueryService answers questions against the indexed document.
type QueryService interface {
	// Ask sends question together with the full transcript, oldest first.
	Ask(ctx context.Context, question string, history []domain.Message) (*domain.Answer, error)
}

// DocumentCatalog is the service's document history.
type DocumentCatalog interface {
	// List returns all documents the service remembers.
	List(ctx context.Context) ([]domain.CatalogEntry, error)

	// Delete removes a document from the history.
	Delete(ctx context.Context, id string) error
}
