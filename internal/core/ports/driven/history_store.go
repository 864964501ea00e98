package driven

import (
	"context"

	"github.com/custodia-labs/docgpt-cli/internal/core/domain"
)

// UploadHistoryStore records successful uploads on the local machine.
type UploadHistoryStore interface {
	// Record stores a completed upload.
	Record(ctx context.Context, rec domain.UploadRecord) error

	// List returns the most recent uploads, newest first.
	// A limit of zero or less returns everything.
	List(ctx context.Context, limit int) ([]domain.UploadRecord, error)

	// Clear removes all records.
	Clear(ctx context.Context) error
}
