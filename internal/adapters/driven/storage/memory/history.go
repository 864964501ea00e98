package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/docgpt-cli/internal/core/domain"
	"github.com/custodia-labs/docgpt-cli/internal/core/ports/driven"
)

// Ensure HistoryStore implements the interface.
var _ driven.UploadHistoryStore = (*HistoryStore)(nil)

// HistoryStore is an in-memory implementation of driven.UploadHistoryStore.
type HistoryStore struct {
	mu      sync.RWMutex
	records []domain.UploadRecord
}

// NewHistoryStore creates an empty history store.
func NewHistoryStore() *HistoryStore {
	return &HistoryStore{}
}

// Record appends an upload.
func (s *HistoryStore) Record(_ context.Context, rec domain.UploadRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
	return nil
}

// List returns up to limit records, newest first. A limit <= 0 returns all.
func (s *HistoryStore) List(_ context.Context, limit int) ([]domain.UploadRecord, error) {
	s.mu.RLock()
	out := make([]domain.UploadRecord, len(s.records))
	copy(out, s.records)
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UploadedAt.After(out[j].UploadedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Clear removes all records.
func (s *HistoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = nil
	return nil
}
