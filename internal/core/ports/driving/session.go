package driving

import (
	"context"

	"github.com/custodia-labs/docgpt-cli/internal/core/domain"
)

// SessionService is the single source of truth for whether an indexed
// document exists, and owns the transcript for that document.
type SessionService interface {
	// Initialize queries the service for the current index status.
	// Failures resolve to the no-document state; it never blocks on errors.
	Initialize(ctx context.Context) domain.IndexState

	// CompleteUpload activates a freshly indexed document and clears the transcript.
	CompleteUpload(resp domain.UploadResponse) domain.IndexState

	// Reset drops the remote index. Local state changes only on success.
	Reset(ctx context.Context) error

	// State returns the current index state.
	State() domain.IndexState

	// Transcript returns a copy of the conversation, oldest first.
	Transcript() []domain.Message

	// Subscribe registers fn to be called after every state transition.
	// The returned function unregisters it.
	Subscribe(fn func(domain.IndexState)) (unsubscribe func())
}

// UploadService drives a file through submission and the staged
// progress sequence.
type UploadService interface {
	// Submit validates and uploads the file at path, reporting progress to
	// listener (which may be nil). It returns the service reply unchanged.
	Submit(ctx context.Context, path string, listener domain.ProgressListener) (*domain.UploadResponse, error)

	// UploadAndActivate submits the file and hands the reply to the session.
	UploadAndActivate(ctx context.Context, path string, listener domain.ProgressListener) (domain.IndexState, error)

	// Progress returns the latest progress snapshot.
	Progress() domain.UploadProgress
}

// ExchangeService runs one question/answer cycle at a time.
type ExchangeService interface {
	// Ask appends the question, sends it with the transcript, and appends
	// exactly one assistant reply. The reply is returned even when err is
	// non-nil; in that case it carries the failure text.
	Ask(ctx context.Context, question string) (*domain.Message, error)

	// InFlight reports whether a question is awaiting its answer.
	InFlight() bool
}

// NavigationGuard keeps the visible view consistent with session state.
type NavigationGuard interface {
	// Resolve returns where the user should be given state and the
	// requested location. Resolve(s, Resolve(s, l)) == Resolve(s, l).
	Resolve(state domain.GuardState, loc domain.Location) domain.Location
}

// WatchService re-uploads a document whenever it changes on disk.
type WatchService interface {
	// Watch blocks until ctx is done. onResult is called after each attempt.
	Watch(ctx context.Context, path string, listener domain.ProgressListener,
		onResult func(domain.IndexState, error)) error
}
