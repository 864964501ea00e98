package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/custodia-labs/docgpt-cli/internal/core/domain"
	"github.com/custodia-labs/docgpt-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docgpt-cli/internal/core/ports/driving"
)

// Ensure CatalogService implements the interface.
var _ driving.CatalogService = (*CatalogService)(nil)

// CatalogService manages the service's document history.
type CatalogService struct {
	catalog    driven.DocumentCatalog
	history    driven.UploadHistoryStore
	docService driven.DocumentService
}

// NewCatalogService creates a new catalog service. Any argument may be nil.
func NewCatalogService(
	catalog driven.DocumentCatalog,
	history driven.UploadHistoryStore,
	docService driven.DocumentService,
) *CatalogService {
	return &CatalogService{
		catalog:    catalog,
		history:    history,
		docService: docService,
	}
}

// List returns documents whose name contains filter, newest first.
func (s *CatalogService) List(ctx context.Context, filter string) ([]domain.CatalogEntry, error) {
	if s.catalog == nil {
		return nil, domain.ErrServiceUnavailable
	}
	entries, err := s.catalog.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	filter = strings.ToLower(strings.TrimSpace(filter))
	result := make([]domain.CatalogEntry, 0, len(entries))
	for i := range entries {
		if filter == "" || strings.Contains(strings.ToLower(entries[i].Name), filter) {
			result = append(result, entries[i])
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].UploadDate.After(result[j].UploadDate)
	})
	return result, nil
}

// Delete removes a document from the history.
func (s *CatalogService) Delete(ctx context.Context, id string) error {
	if s.catalog == nil {
		return domain.ErrServiceUnavailable
	}
	if strings.TrimSpace(id) == "" {
		return domain.ErrInvalidInput
	}
	if err := s.catalog.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete document %s: %w", id, err)
	}
	return nil
}

// History returns locally recorded uploads, newest first.
func (s *CatalogService) History(ctx context.Context, limit int) ([]domain.UploadRecord, error) {
	if s.history == nil {
		return []domain.UploadRecord{}, nil
	}
	return s.history.List(ctx, limit)
}

// Health returns nil when the service answers.
func (s *CatalogService) Health(ctx context.Context) error {
	if s.docService == nil {
		return domain.ErrServiceUnavailable
	}
	return s.docService.Health(ctx)
}
