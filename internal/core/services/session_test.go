package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docgpt-cli/internal/core/domain"
)

var fixedNow = time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

func newTestSession(docs *mockDocumentService) *Session {
	return NewSession(docs, nil).WithClock(func() time.Time { return fixedNow })
}

func TestSession_Initialize_Indexed(t *testing.T) {
	docs := &mockDocumentService{status: &domain.StatusResponse{
		IsIndexed:        true,
		DocumentName:     "report.pdf",
		IndexedAt:        "2025-03-01T10:00:00Z",
		TotalChunks:      17,
		SuggestedPrompts: []string{"Summarise section 2"},
	}}
	session := newTestSession(docs)

	state := session.Initialize(context.Background())

	assert.True(t, state.Indexed)
	assert.Equal(t, domain.PhaseDocumentReady, state.Phase())
	assert.Equal(t, "report.pdf", state.DocumentName)
	assert.Equal(t, 17, state.TotalChunks)
	assert.Equal(t, time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC), state.IndexedAt)
	assert.Equal(t, []string{"Summarise section 2"}, state.SuggestedPrompts)
	assert.Equal(t, state, session.State())
}

func TestSession_Initialize_NaiveTimestamp(t *testing.T) {
	docs := &mockDocumentService{status: &domain.StatusResponse{
		IsIndexed:    true,
		DocumentName: "a.pdf",
		IndexedAt:    "2025-03-01T10:00:00.123456",
	}}

	state := newTestSession(docs).Initialize(context.Background())

	assert.Equal(t, 2025, state.IndexedAt.Year())
	assert.Equal(t, 123456000, state.IndexedAt.Nanosecond())
}

func TestSession_Initialize_MissingTimestampUsesNow(t *testing.T) {
	docs := &mockDocumentService{status: &domain.StatusResponse{IsIndexed: true, DocumentName: "a.pdf"}}

	state := newTestSession(docs).Initialize(context.Background())

	assert.Equal(t, fixedNow, state.IndexedAt)
	assert.NotNil(t, state.SuggestedPrompts)
	assert.Empty(t, state.SuggestedPrompts)
}

func TestSession_Initialize_NotIndexed(t *testing.T) {
	docs := &mockDocumentService{status: &domain.StatusResponse{IsIndexed: false}}

	state := newTestSession(docs).Initialize(context.Background())

	assert.False(t, state.Indexed)
	assert.Equal(t, domain.IndexState{}, state)
}

func TestSession_Initialize_FailsOpen(t *testing.T) {
	docs := &mockDocumentService{statusErr: &domain.TransportError{Op: "status", Err: errors.New("connection refused")}}
	session := newTestSession(docs)

	state := session.Initialize(context.Background())

	assert.Equal(t, domain.PhaseNoDocument, state.Phase())
	assert.Equal(t, 1, docs.statusCalls)
}

func TestSession_Initialize_SignedOutSkipsQuery(t *testing.T) {
	docs := &mockDocumentService{status: &domain.StatusResponse{IsIndexed: true, DocumentName: "a.pdf"}}
	session := NewSession(docs, &mockGate{signedIn: false})

	state := session.Initialize(context.Background())

	assert.False(t, state.Indexed)
	assert.Zero(t, docs.statusCalls)
}

func TestSession_CompleteUpload_ClearsTranscript(t *testing.T) {
	session := newTestSession(&mockDocumentService{})
	session.appendMessage(domain.Message{Role: domain.RoleUser, Content: "old"}, -1)

	state := session.CompleteUpload(domain.UploadResponse{DocumentName: "spec.pdf", ChunksCreated: 42})

	assert.True(t, state.Indexed)
	assert.Equal(t, "spec.pdf", state.DocumentName)
	assert.Equal(t, 42, state.TotalChunks)
	assert.Equal(t, fixedNow, state.IndexedAt)
	assert.Empty(t, state.SuggestedPrompts)
	assert.Empty(t, session.Transcript())
}

func TestSession_CompleteUpload_KeepsSuggestions(t *testing.T) {
	session := newTestSession(&mockDocumentService{})

	state := session.CompleteUpload(domain.UploadResponse{
		DocumentName:     "spec.pdf",
		SuggestedPrompts: []string{"What is in scope?"},
	})

	assert.Equal(t, []string{"What is in scope?"}, state.SuggestedPrompts)
}

func TestSession_Reset_Success(t *testing.T) {
	docs := &mockDocumentService{}
	session := newTestSession(docs)
	session.CompleteUpload(domain.UploadResponse{DocumentName: "spec.pdf", ChunksCreated: 3})
	session.appendMessage(domain.Message{Role: domain.RoleUser, Content: "q"}, -1)

	err := session.Reset(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, docs.resetCalls)
	assert.Equal(t, domain.IndexState{}, session.State())
	assert.Empty(t, session.Transcript())
}

func TestSession_Reset_FailureLeavesStateUntouched(t *testing.T) {
	docs := &mockDocumentService{resetErr: &domain.ServiceError{StatusCode: 500, Detail: "boom"}}
	session := newTestSession(docs)
	before := session.CompleteUpload(domain.UploadResponse{DocumentName: "spec.pdf", ChunksCreated: 3})
	session.appendMessage(domain.Message{Role: domain.RoleUser, Content: "q"}, -1)

	err := session.Reset(context.Background())

	require.Error(t, err)
	var serr *domain.ServiceError
	assert.ErrorAs(t, err, &serr)
	assert.Equal(t, before, session.State())
	assert.Len(t, session.Transcript(), 1)
}

func TestSession_Reset_SignedOut(t *testing.T) {
	docs := &mockDocumentService{}
	session := NewSession(docs, &mockGate{signedIn: false})

	err := session.Reset(context.Background())

	assert.ErrorIs(t, err, domain.ErrAuthRequired)
	assert.Zero(t, docs.resetCalls)
}

func TestSession_NotIndexedStateIsVoid(t *testing.T) {
	session := newTestSession(&mockDocumentService{})

	state := session.State()

	assert.False(t, state.Indexed)
	assert.Empty(t, state.DocumentName)
	assert.Zero(t, state.TotalChunks)
	assert.True(t, state.IndexedAt.IsZero())
	assert.Nil(t, state.SuggestedPrompts)
}

func TestSession_Subscribe(t *testing.T) {
	session := newTestSession(&mockDocumentService{})
	var got []domain.IndexState
	unsubscribe := session.Subscribe(func(s domain.IndexState) { got = append(got, s) })

	session.CompleteUpload(domain.UploadResponse{DocumentName: "a.pdf", ChunksCreated: 1})
	require.NoError(t, session.Reset(context.Background()))
	unsubscribe()
	session.CompleteUpload(domain.UploadResponse{DocumentName: "b.pdf"})

	require.Len(t, got, 2)
	assert.True(t, got[0].Indexed)
	assert.False(t, got[1].Indexed)
}

func TestSession_TranscriptIsCopy(t *testing.T) {
	session := newTestSession(&mockDocumentService{})
	session.appendMessage(domain.Message{Role: domain.RoleUser, Content: "original"}, -1)

	transcript := session.Transcript()
	transcript[0].Content = "changed"

	assert.Equal(t, "original", session.Transcript()[0].Content)
}

func TestSession_TranscriptSourcesAreCopied(t *testing.T) {
	session := newTestSession(&mockDocumentService{})
	page := 2
	conf := 0.9
	session.appendMessage(domain.Message{
		Role:              domain.RoleAssistant,
		Content:           "answer",
		Sources:           []domain.SourceFragment{{Page: &page, Text: "original"}},
		Confidence:        &conf,
		HasGroundedAnswer: true,
	}, -1)

	transcript := session.Transcript()
	transcript[0].Sources[0].Text = "changed"
	*transcript[0].Sources[0].Page = 7
	*transcript[0].Confidence = 0.1
	page = 5

	got := session.Transcript()[0]
	assert.Equal(t, "original", got.Sources[0].Text)
	assert.Equal(t, 2, *got.Sources[0].Page)
	assert.InDelta(t, 0.9, *got.Confidence, 1e-9)
}

func TestSession_AppendMessage_StaleGenerationDropped(t *testing.T) {
	session := newTestSession(&mockDocumentService{})
	_, gen, ok := session.appendMessage(domain.Message{Role: domain.RoleUser, Content: "q"}, -1)
	require.True(t, ok)

	session.CompleteUpload(domain.UploadResponse{DocumentName: "new.pdf"})
	_, _, ok = session.appendMessage(domain.Message{Role: domain.RoleAssistant, Content: "late"}, gen)

	assert.False(t, ok)
	assert.Empty(t, session.Transcript())
}

func TestSession_MessageIDsAreOrdered(t *testing.T) {
	session := NewSession(&mockDocumentService{}, nil)
	for range 5 {
		session.appendMessage(domain.Message{Role: domain.RoleUser, Content: "q"}, -1)
	}

	transcript := session.Transcript()
	for i := 1; i < len(transcript); i++ {
		assert.Less(t, transcript[i-1].ID, transcript[i].ID)
	}
}

func TestSession_ConcurrentAccess(t *testing.T) {
	docs := &mockDocumentService{status: &domain.StatusResponse{IsIndexed: true, DocumentName: "a.pdf"}}
	session := newTestSession(docs)
	var wg sync.WaitGroup

	for i := range 10 {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			if n%2 == 0 {
				session.Initialize(context.Background())
			} else {
				session.appendMessage(domain.Message{Role: domain.RoleUser, Content: "q"}, -1)
			}
			_ = session.State()
			_ = session.Transcript()
		}(i)
	}
	wg.Wait()

	assert.True(t, session.State().Indexed)
}
