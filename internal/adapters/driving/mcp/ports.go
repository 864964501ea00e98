package mcp

import (
	"github.com/custodia-labs/docgpt-cli/internal/core/ports/driving"
)

// Ports aggregates the driving ports exposed over MCP.
type Ports struct {
	// Session owns the index state and transcript.
	Session driving.SessionService

	// Exchange answers questions.
	Exchange driving.ExchangeService

	// Upload submits documents. Optional; the upload tool reports
	// ErrToolUnavailable without it.
	Upload driving.UploadService

	// Catalog lists the document history. Optional.
	Catalog driving.CatalogService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Session == nil {
		return ErrMissingSessionService
	}
	if p.Exchange == nil {
		return ErrMissingExchangeService
	}
	return nil
}
