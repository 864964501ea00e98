package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/docgpt-cli/internal/core/domain"
	"github.com/custodia-labs/docgpt-cli/internal/core/ports/driven"
)

// Ensure CredentialsStore implements the interface.
var _ driven.CredentialsStore = (*CredentialsStore)(nil)

// CredentialsStore holds the signed-in identity in memory.
type CredentialsStore struct {
	mu    sync.RWMutex
	creds *domain.Credentials
}

// NewCredentialsStore creates an empty credentials store.
func NewCredentialsStore() *CredentialsStore {
	return &CredentialsStore{}
}

// Save replaces the stored credentials.
func (s *CredentialsStore) Save(_ context.Context, creds domain.Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := creds
	s.creds = &c
	return nil
}

// Current returns the stored credentials or domain.ErrNotFound.
func (s *CredentialsStore) Current(_ context.Context) (*domain.Credentials, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.creds == nil {
		return nil, domain.ErrNotFound
	}
	c := *s.creds
	return &c, nil
}

// Delete forgets the stored credentials.
func (s *CredentialsStore) Delete(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = nil
	return nil
}
