// Package mcp provides an MCP (Model Context Protocol) server adapter for DocGPT.
// It lets AI assistants ask questions about the indexed document and manage uploads.
package mcp

import "errors"

var (
	// ErrMissingSessionService is returned when the session service is not provided.
	ErrMissingSessionService = errors.New("mcp: session service is required")

	// ErrMissingExchangeService is returned when the exchange service is not provided.
	ErrMissingExchangeService = errors.New("mcp: exchange service is required")

	// ErrToolUnavailable is returned when a tool's backing service was not wired.
	ErrToolUnavailable = errors.New("mcp: tool unavailable")
)
