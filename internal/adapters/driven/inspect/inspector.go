// Package inspect examines local files before they are uploaded.
package inspect

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/docgpt-cli/internal/core/domain"
	"github.com/custodia-labs/docgpt-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docgpt-cli/internal/logger"
)

// Ensure Inspector implements the interface.
var _ driven.FileInspector = (*Inspector)(nil)

// Inspector detects a file's type from its content and, for PDFs, counts
// its pages.
type Inspector struct{}

// NewInspector creates a new file inspector.
func NewInspector() *Inspector {
	return &Inspector{}
}

// Inspect stats path and sniffs its content type. A file named .pdf that
// does not start with a PDF header is reported with its real type.
func (i *Inspector) Inspect(path string) (*domain.FileInfo, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}
	stat, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}
	if stat.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	mtype, err := mimetype.DetectFile(abs)
	if err != nil {
		return nil, fmt.Errorf("detect type: %w", err)
	}

	info := &domain.FileInfo{
		Path:       abs,
		Name:       stat.Name(),
		Size:       stat.Size(),
		MIMEType:   mtype.String(),
		ModifiedAt: stat.ModTime(),
	}
	if mtype.Is(domain.AcceptedMIMEType) {
		info.MIMEType = domain.AcceptedMIMEType
		info.PageCount = countPages(abs)
	}
	return info, nil
}

// countPages returns 0 when the document cannot be parsed; the service
// makes the final call on whether it is readable.
func countPages(path string) (pages int) {
	defer func() {
		if r := recover(); r != nil {
			logger.Debug("inspect: pdf parser panicked on %s: %v", path, r)
			pages = 0
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		logger.Debug("inspect: cannot parse %s: %v", path, err)
		return 0
	}
	defer f.Close()
	return r.NumPage()
}
