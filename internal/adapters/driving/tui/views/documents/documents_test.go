package documents

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docgpt-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docgpt-cli/internal/core/domain"
)

// MockCatalogService implements driving.CatalogService for testing.
type MockCatalogService struct {
	entries   []domain.CatalogEntry
	listErr   error
	deleteErr error
	filters   []string
	deleted   []string
}

func (m *MockCatalogService) List(_ context.Context, filter string) ([]domain.CatalogEntry, error) {
	m.filters = append(m.filters, filter)
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.entries, nil
}

func (m *MockCatalogService) Delete(_ context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	return m.deleteErr
}

func (m *MockCatalogService) History(context.Context, int) ([]domain.UploadRecord, error) {
	return nil, nil
}

func (m *MockCatalogService) Health(context.Context) error { return nil }

func intPtr(i int) *int { return &i }

func sampleEntries() []domain.CatalogEntry {
	return []domain.CatalogEntry{
		{
			ID:         "1",
			Name:       "handbook.pdf",
			UploadDate: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
			PageCount:  intPtr(12),
			ChunkCount: 40,
			Status:     domain.CatalogStatusActive,
		},
		{ID: "2", Name: "resume.pdf", ChunkCount: 5, Status: domain.CatalogStatusIndexed},
	}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func loaded(t *testing.T, catalog *MockCatalogService) *View {
	t.Helper()
	v := NewView(nil, nil, catalog)
	v.SetDimensions(120, 40)
	cmd := v.Init()
	require.NotNil(t, cmd)
	v, _ = v.Update(cmd())
	return v
}

func TestView_Init_LoadsCatalog(t *testing.T) {
	catalog := &MockCatalogService{entries: sampleEntries()}
	v := loaded(t, catalog)

	assert.False(t, v.Loading())
	assert.Len(t, v.Entries(), 2)
	assert.Equal(t, []string{""}, catalog.filters)
}

func TestView_View_RendersRows(t *testing.T) {
	v := loaded(t, &MockCatalogService{entries: sampleEntries()})

	out := v.View()
	assert.Contains(t, out, "Documents (2)")
	assert.Contains(t, out, "handbook.pdf")
	assert.Contains(t, out, "2026-03-01")
	assert.Contains(t, out, "12 pages")
	assert.Contains(t, out, "● active")
	assert.Contains(t, out, "resume.pdf  unknown  ? pages  5 chunks")
}

func TestView_View_Empty(t *testing.T) {
	v := loaded(t, &MockCatalogService{})
	assert.Contains(t, v.View(), "No documents yet.")
}

func TestView_LoadError(t *testing.T) {
	v := loaded(t, &MockCatalogService{listErr: errors.New("boom")})

	require.Error(t, v.Err())
	assert.Contains(t, v.View(), "Could not load documents.")
}

func TestView_NilCatalog(t *testing.T) {
	v := NewView(nil, nil, nil)
	assert.Nil(t, v.Init())
	assert.Error(t, v.Err())
}

func TestView_Navigation(t *testing.T) {
	v := loaded(t, &MockCatalogService{entries: sampleEntries()})

	v, _ = v.Update(runes("j"))
	assert.Equal(t, 1, v.Selected())
	v, _ = v.Update(runes("j"))
	assert.Equal(t, 1, v.Selected())
	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, v.Selected())
}

func TestView_Esc_NavigatesToChat(t *testing.T) {
	v := loaded(t, &MockCatalogService{})

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, messages.Navigate{To: domain.LocationChat}, cmd())
}

func TestView_Delete_Confirmed(t *testing.T) {
	catalog := &MockCatalogService{entries: sampleEntries()}
	v := loaded(t, catalog)

	v, _ = v.Update(runes("j"))
	v, cmd := v.Update(runes("d"))
	assert.Nil(t, cmd)
	assert.Contains(t, v.View(), "Delete resume.pdf?")

	v, cmd = v.Update(runes("y"))
	require.NotNil(t, cmd)
	msg := cmd()
	assert.Equal(t, messages.DocumentDeleted{ID: "2"}, msg)
	assert.Equal(t, []string{"2"}, catalog.deleted)

	// a successful delete reloads the list
	catalog.entries = catalog.entries[:1]
	v, cmd = v.Update(msg)
	require.NotNil(t, cmd)
	v, _ = v.Update(cmd())
	assert.Len(t, v.Entries(), 1)
	assert.Equal(t, 0, v.Selected())
}

func TestView_Delete_Cancelled(t *testing.T) {
	catalog := &MockCatalogService{entries: sampleEntries()}
	v := loaded(t, catalog)

	v, _ = v.Update(runes("d"))
	_, cmd := v.Update(runes("n"))
	assert.Nil(t, cmd)
	assert.Empty(t, catalog.deleted)
}

func TestView_Delete_Error(t *testing.T) {
	v := loaded(t, &MockCatalogService{entries: sampleEntries()})

	v, cmd := v.Update(messages.DocumentDeleted{ID: "1", Err: errors.New("nope")})
	assert.Nil(t, cmd)
	assert.Error(t, v.Err())
	assert.Len(t, v.Entries(), 2)
}

func TestView_Delete_EmptyList(t *testing.T) {
	catalog := &MockCatalogService{}
	v := loaded(t, catalog)

	v, _ = v.Update(runes("d"))
	_, cmd := v.Update(runes("y"))
	assert.Nil(t, cmd)
	assert.Empty(t, catalog.deleted)
}

func TestView_Filter(t *testing.T) {
	catalog := &MockCatalogService{entries: sampleEntries()}
	v := loaded(t, catalog)

	v, _ = v.Update(runes("/"))
	require.True(t, v.Filtering())

	v, _ = v.Update(runes("hand"))
	v, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.False(t, v.Filtering())
	v, _ = v.Update(cmd())
	assert.Equal(t, []string{"", "hand"}, catalog.filters)

	// esc while filtering clears the filter and reloads everything
	v, _ = v.Update(runes("/"))
	v, cmd = v.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	cmd()
	assert.Equal(t, []string{"", "hand", ""}, catalog.filters)
	assert.False(t, v.Filtering())
}

func TestView_Refresh(t *testing.T) {
	catalog := &MockCatalogService{entries: sampleEntries()}
	v := loaded(t, catalog)

	v, cmd := v.Update(runes("r"))
	require.NotNil(t, cmd)
	assert.True(t, v.Loading())
	cmd()
	assert.Len(t, catalog.filters, 2)
}
