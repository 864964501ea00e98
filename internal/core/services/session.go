package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/docgpt-cli/internal/core/domain"
	"github.com/custodia-labs/docgpt-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docgpt-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docgpt-cli/internal/logger"
)

// Ensure Session implements the interface.
var _ driving.SessionService = (*Session)(nil)

// Gate reports whether the user is allowed to use the session.
type Gate interface {
	SignedIn(ctx context.Context) bool
}

// openGate is used when no identity provider is wired.
type openGate struct{}

func (openGate) SignedIn(context.Context) bool { return true }

// Session coordinates the indexed-document state and owns the transcript.
// It has two phases, NoDocument and DocumentReady; indexing progress is
// owned by UploadService.
type Session struct {
	docService driven.DocumentService
	gate       Gate
	now        func() time.Time

	mu         sync.RWMutex
	state      domain.IndexState
	transcript []domain.Message
	// generation changes whenever the transcript is cleared.
	generation int

	obsMu     sync.Mutex
	observers map[int]func(domain.IndexState)
	nextObs   int
}

// NewSession creates a session coordinator.
// gate may be nil, in which case every operation is allowed.
func NewSession(docService driven.DocumentService, gate Gate) *Session {
	if gate == nil {
		gate = openGate{}
	}
	return &Session{
		docService: docService,
		gate:       gate,
		now:        time.Now,
		observers:  make(map[int]func(domain.IndexState)),
	}
}

// WithClock overrides the time source (for testing).
func (s *Session) WithClock(now func() time.Time) *Session {
	s.now = now
	return s
}

// Initialize queries the service for the current index status.
// A signed-out user or any query failure resolves to NoDocument.
func (s *Session) Initialize(ctx context.Context) domain.IndexState {
	if !s.gate.SignedIn(ctx) {
		logger.Debug("session: signed out, skipping status query")
		return s.setState(domain.IndexState{}, false)
	}
	if s.docService == nil {
		logger.Warn("session: %v", domain.ErrServiceUnavailable)
		return s.setState(domain.IndexState{}, false)
	}

	status, err := s.docService.Status(ctx)
	if err != nil {
		logger.Warn("session: status query failed, falling back to upload: %v", err)
		return s.setState(domain.IndexState{}, false)
	}
	if status == nil || !status.IsIndexed {
		return s.setState(domain.IndexState{}, false)
	}

	indexedAt := s.now()
	if status.IndexedAt != "" {
		if t, err := time.Parse(time.RFC3339Nano, status.IndexedAt); err == nil {
			indexedAt = t
		} else if t, err := time.Parse("2006-01-02T15:04:05.999999", status.IndexedAt); err == nil {
			indexedAt = t
		}
	}

	logger.Info("session: %s already indexed (%d chunks)", status.DocumentName, status.TotalChunks)
	return s.setState(domain.IndexState{
		Indexed:          true,
		DocumentName:     status.DocumentName,
		IndexedAt:        indexedAt,
		TotalChunks:      max(status.TotalChunks, 0),
		SuggestedPrompts: promptsOrEmpty(status.SuggestedPrompts),
	}, false)
}

// CompleteUpload activates a freshly indexed document.
// A new document always starts a new conversation.
func (s *Session) CompleteUpload(resp domain.UploadResponse) domain.IndexState {
	logger.Info("session: %s indexed (%d chunks)", resp.DocumentName, resp.ChunksCreated)
	return s.setState(domain.IndexState{
		Indexed:          true,
		DocumentName:     resp.DocumentName,
		IndexedAt:        s.now(),
		TotalChunks:      max(resp.ChunksCreated, 0),
		SuggestedPrompts: promptsOrEmpty(resp.SuggestedPrompts),
	}, true)
}

// Reset drops the remote index, then the local state and transcript.
// On remote failure nothing changes locally.
func (s *Session) Reset(ctx context.Context) error {
	if !s.gate.SignedIn(ctx) {
		return domain.ErrAuthRequired
	}
	if s.docService == nil {
		return domain.ErrServiceUnavailable
	}
	if err := s.docService.Reset(ctx); err != nil {
		return fmt.Errorf("reset index: %w", err)
	}
	s.setState(domain.IndexState{}, true)
	return nil
}

// State returns the current index state.
func (s *Session) State() domain.IndexState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Transcript returns a copy of the conversation, oldest first.
func (s *Session) Transcript() []domain.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.CloneMessages(s.transcript)
}

// Subscribe registers fn to be called after every state transition.
func (s *Session) Subscribe(fn func(domain.IndexState)) func() {
	s.obsMu.Lock()
	defer s.obsMu.Unlock()
	id := s.nextObs
	s.nextObs++
	s.observers[id] = fn
	return func() {
		s.obsMu.Lock()
		defer s.obsMu.Unlock()
		delete(s.observers, id)
	}
}

// signedIn exposes the gate to the exchange engine.
func (s *Session) signedIn(ctx context.Context) bool {
	return s.gate.SignedIn(ctx)
}

// appendMessage adds a message to the transcript and returns a snapshot
// including it, plus the transcript generation. It is the only way the
// transcript grows. A non-negative gen that no longer matches means the
// transcript was cleared meanwhile and the message is dropped.
func (s *Session) appendMessage(msg domain.Message, gen int) ([]domain.Message, int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen >= 0 && gen != s.generation {
		return nil, s.generation, false
	}
	if msg.ID == "" {
		msg.ID = newMessageID()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = s.now()
	}
	s.transcript = append(s.transcript, msg.Clone())
	return domain.CloneMessages(s.transcript), s.generation, true
}

// setState replaces the index state, optionally clearing the transcript,
// and notifies observers.
func (s *Session) setState(state domain.IndexState, clearTranscript bool) domain.IndexState {
	s.mu.Lock()
	s.state = state.Clone()
	if clearTranscript {
		s.transcript = nil
		s.generation++
	}
	snapshot := s.state.Clone()
	s.mu.Unlock()

	s.obsMu.Lock()
	fns := make([]func(domain.IndexState), 0, len(s.observers))
	for _, fn := range s.observers {
		fns = append(fns, fn)
	}
	s.obsMu.Unlock()

	for _, fn := range fns {
		fn(snapshot.Clone())
	}
	return snapshot
}

// promptsOrEmpty never returns nil so callers can range without checks.
func promptsOrEmpty(prompts []string) []string {
	if prompts == nil {
		return []string{}
	}
	return append([]string{}, prompts...)
}

// newMessageID returns a time-ordered identifier.
func newMessageID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
