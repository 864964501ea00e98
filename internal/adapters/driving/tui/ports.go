// Package tui provides an interactive terminal user interface for docgpt.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/docgpt-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Session owns the index state and the transcript.
	Session driving.SessionService

	// Upload drives file submission and progress.
	Upload driving.UploadService

	// Exchange runs question/answer cycles.
	Exchange driving.ExchangeService

	// Guard decides which view the user may see.
	Guard driving.NavigationGuard

	// Catalog lists and deletes previously uploaded documents.
	Catalog driving.CatalogService

	// Auth reports the sign-in state. Nil means always signed in.
	Auth driving.AuthService
}

// NewPorts creates a new Ports aggregate with the required services.
func NewPorts(
	session driving.SessionService,
	upload driving.UploadService,
	exchange driving.ExchangeService,
	guard driving.NavigationGuard,
) *Ports {
	return &Ports{
		Session:  session,
		Upload:   upload,
		Exchange: exchange,
		Guard:    guard,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Session == nil {
		return ErrMissingSessionService
	}
	if p.Upload == nil {
		return ErrMissingUploadService
	}
	if p.Exchange == nil {
		return ErrMissingExchangeService
	}
	if p.Guard == nil {
		return ErrMissingNavigationGuard
	}
	return nil
}
