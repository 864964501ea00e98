package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUploadInProgress indicates an upload is already running for the session.
	ErrUploadInProgress = errors.New("upload in progress")

	// ErrAskInFlight indicates a question is already awaiting its answer.
	// Only one outstanding question is allowed per session.
	ErrAskInFlight = errors.New("a question is already being answered")

	// ErrEmptyQuestion indicates the question was blank after trimming.
	ErrEmptyQuestion = errors.New("question is empty")

	// ErrServiceUnavailable indicates the retrieval service is not configured.
	ErrServiceUnavailable = errors.New("document service unavailable")

	// Authentication Errors.

	// ErrAuthRequired indicates the user must sign in first.
	ErrAuthRequired = errors.New("authentication required")

	// ErrAuthExpired indicates the authentication has expired and refresh failed.
	ErrAuthExpired = errors.New("authentication expired")

	// ErrIdentityNotConfigured indicates no identity provider is configured.
	ErrIdentityNotConfigured = errors.New("identity provider not configured")
)

// Generic user-facing fallbacks used when the service gives no detail.
const (
	UploadFailedMessage = "Analysis failed. Please check your document and try again."
	AskFailedMessage    = "An unexpected error occurred. Please try again."
)

// ValidationError reports a file rejected before any network call.
type ValidationError struct {
	// Field names what was rejected (e.g. "file").
	Field string
	// Reason is the user-facing message.
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// Is lets errors.Is match ErrInvalidInput.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// TransportError reports a connectivity failure talking to the service.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ServiceError reports a non-2xx response from the service.
type ServiceError struct {
	// StatusCode is the HTTP status returned.
	StatusCode int
	// Detail is the service-provided message, may be empty.
	Detail string
}

func (e *ServiceError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("service error (status %d)", e.StatusCode)
	}
	return e.Detail
}

// Is maps well-known statuses onto domain sentinels.
func (e *ServiceError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.StatusCode == 404
	case ErrAuthRequired:
		return e.StatusCode == 401 || e.StatusCode == 403
	}
	return false
}

// UserMessage returns the text to show a user for err.
// Validation errors and service details surface verbatim; anything else
// (transport failures included) falls back to fallback.
func UserMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Reason
	}
	var serr *ServiceError
	if errors.As(err, &serr) && serr.Detail != "" {
		return serr.Detail
	}
	return fallback
}
