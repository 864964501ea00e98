// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/docgpt-cli/internal/core/domain"
	"github.com/custodia-labs/docgpt-cli/internal/core/ports/driving"
)

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewLanding is the entry view.
	ViewLanding ViewType = iota
	// ViewUpload is the document upload view.
	ViewUpload
	// ViewChat is the conversation view.
	ViewChat
	// ViewDocuments is the document history view.
	ViewDocuments
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewLanding:
		return "landing"
	case ViewUpload:
		return "upload"
	case ViewChat:
		return "chat"
	case ViewDocuments:
		return "documents"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ViewForLocation maps a navigation location onto the view that renders it.
func ViewForLocation(loc domain.Location) ViewType {
	switch loc {
	case domain.LocationUpload:
		return ViewUpload
	case domain.LocationChat:
		return ViewChat
	case domain.LocationDocuments:
		return ViewDocuments
	default:
		return ViewLanding
	}
}

// Navigate asks the app to move to a location. The navigation guard
// decides where the user actually lands.
type Navigate struct {
	To domain.Location
}

// SessionInitialized carries the index state found at start-up.
type SessionInitialized struct {
	State domain.IndexState
	Auth  driving.AuthStatus
}

// UploadProgressed carries a progress snapshot from a running upload.
type UploadProgressed struct {
	Progress domain.UploadProgress
	// Attempt identifies the submit that produced the snapshot.
	Attempt int
}

// UploadFinished signals an upload attempt ended.
type UploadFinished struct {
	State domain.IndexState
	Err   error
}

// QuestionSubmitted signals a question was handed to the exchange engine.
type QuestionSubmitted struct {
	Question string
}

// AnswerReceived carries the assistant reply appended for a question.
type AnswerReceived struct {
	Reply *domain.Message
	Err   error
}

// ResetCompleted signals the index reset finished.
type ResetCompleted struct {
	Err error
}

// CatalogLoaded carries the document history.
type CatalogLoaded struct {
	Entries []domain.CatalogEntry
	Err     error
}

// DocumentDeleted signals a document was removed from the history.
type DocumentDeleted struct {
	ID  string
	Err error
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
