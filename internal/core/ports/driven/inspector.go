package driven

import "github.com/custodia-labs/docgpt-cli/internal/core/domain"

// FileInspector examines a local file before it is uploaded.
type FileInspector interface {
	// Inspect returns the file's metadata including its sniffed MIME type.
	// PageCount is zero when the file does not parse as a PDF.
	Inspect(path string) (*domain.FileInfo, error)
}
