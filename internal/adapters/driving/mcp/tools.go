package mcp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/docgpt-cli/internal/core/domain"
)

// StatusInput takes no arguments.
type StatusInput struct{}

// StatusOutput describes the indexed document.
type StatusOutput struct {
	Indexed          bool     `json:"indexed"`
	DocumentName     string   `json:"document_name,omitempty"`
	IndexedAt        string   `json:"indexed_at,omitempty"`
	TotalChunks      int      `json:"total_chunks,omitempty"`
	SuggestedPrompts []string `json:"suggested_prompts,omitempty"`
}

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the question to ask about the indexed document"`
}

// AskOutput is the assistant reply.
type AskOutput struct {
	Answer     string         `json:"answer"`
	Grounded   bool           `json:"grounded"`
	Confidence *float64       `json:"confidence,omitempty"`
	Sources    []SourceOutput `json:"sources,omitempty"`
}

// SourceOutput is one citation backing an answer.
type SourceOutput struct {
	Page *int   `json:"page,omitempty"`
	Text string `json:"text"`
}

// UploadInput is the input schema for the upload tool.
type UploadInput struct {
	Path string `json:"path" jsonschema:"absolute path of a local PDF to index"`
}

// ResetInput takes no arguments.
type ResetInput struct{}

// ResetOutput confirms the index was cleared.
type ResetOutput struct {
	Cleared bool `json:"cleared"`
}

// DocumentsInput is the input schema for the documents tool.
type DocumentsInput struct {
	Filter string `json:"filter,omitempty" jsonschema:"only return documents whose name contains this text"`
}

// DocumentsOutput lists the document history.
type DocumentsOutput struct {
	Documents []DocumentOutput `json:"documents"`
	Count     int              `json:"count"`
}

// DocumentOutput is one catalog entry.
type DocumentOutput struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	UploadDate string `json:"upload_date,omitempty"`
	PageCount  *int   `json:"page_count,omitempty"`
	ChunkCount int    `json:"chunk_count"`
	Active     bool   `json:"active"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "status",
		Description: "Report whether a document is indexed and which one",
	}, s.handleStatus)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Ask a question about the indexed document; earlier questions are sent as history",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "upload",
		Description: "Upload and index a local PDF, replacing the current document",
	}, s.handleUpload)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "reset",
		Description: "Clear the index and the conversation",
	}, s.handleReset)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "documents",
		Description: "List documents the service has indexed before",
	}, s.handleDocuments)
}

func (s *Server) handleStatus(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ StatusInput,
) (*mcp.CallToolResult, StatusOutput, error) {
	return nil, statusOutput(s.ports.Session.State()), nil
}

func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	if !s.ports.Session.State().Indexed {
		return nil, AskOutput{}, errors.New("no document is indexed; call upload first")
	}

	reply, err := s.ports.Exchange.Ask(ctx, input.Question)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyQuestion) {
			return nil, AskOutput{}, errors.New("question must not be empty")
		}
		return nil, AskOutput{}, errors.New(domain.UserMessage(err, domain.AskFailedMessage))
	}

	out := AskOutput{
		Answer:   reply.Content,
		Grounded: reply.HasGroundedAnswer,
	}
	if reply.ShowCitations() {
		out.Confidence = reply.Confidence
		out.Sources = make([]SourceOutput, len(reply.Sources))
		for i, src := range reply.Sources {
			out.Sources[i] = SourceOutput{Page: src.Page, Text: src.Text}
		}
	}
	return nil, out, nil
}

func (s *Server) handleUpload(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input UploadInput,
) (*mcp.CallToolResult, StatusOutput, error) {
	if s.ports.Upload == nil {
		return nil, StatusOutput{}, fmt.Errorf("upload: %w", ErrToolUnavailable)
	}

	state, err := s.ports.Upload.UploadAndActivate(ctx, input.Path, nil)
	if err != nil {
		return nil, StatusOutput{}, errors.New(domain.UserMessage(err, domain.UploadFailedMessage))
	}
	return nil, statusOutput(state), nil
}

func (s *Server) handleReset(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ResetInput,
) (*mcp.CallToolResult, ResetOutput, error) {
	if err := s.ports.Session.Reset(ctx); err != nil {
		return nil, ResetOutput{}, fmt.Errorf("resetting index: %w", err)
	}
	return nil, ResetOutput{Cleared: true}, nil
}

func (s *Server) handleDocuments(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DocumentsInput,
) (*mcp.CallToolResult, DocumentsOutput, error) {
	if s.ports.Catalog == nil {
		return nil, DocumentsOutput{}, fmt.Errorf("documents: %w", ErrToolUnavailable)
	}

	entries, err := s.ports.Catalog.List(ctx, input.Filter)
	if err != nil {
		return nil, DocumentsOutput{}, fmt.Errorf("listing documents: %w", err)
	}

	out := DocumentsOutput{
		Documents: make([]DocumentOutput, len(entries)),
		Count:     len(entries),
	}
	for i, e := range entries {
		out.Documents[i] = documentOutput(e)
	}
	return nil, out, nil
}

func statusOutput(state domain.IndexState) StatusOutput {
	if !state.Indexed {
		return StatusOutput{}
	}
	out := StatusOutput{
		Indexed:          true,
		DocumentName:     state.DocumentName,
		TotalChunks:      state.TotalChunks,
		SuggestedPrompts: state.SuggestedPrompts,
	}
	if !state.IndexedAt.IsZero() {
		out.IndexedAt = state.IndexedAt.Format(time.RFC3339)
	}
	return out
}

func documentOutput(e domain.CatalogEntry) DocumentOutput {
	out := DocumentOutput{
		ID:         e.ID,
		Name:       e.Name,
		PageCount:  e.PageCount,
		ChunkCount: e.ChunkCount,
		Active:     e.IsActive(),
	}
	if !e.UploadDate.IsZero() {
		out.UploadDate = e.UploadDate.Format(time.RFC3339)
	}
	return out
}
