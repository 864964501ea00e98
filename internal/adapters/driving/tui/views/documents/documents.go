// Package documents provides the document history view for the TUI.
package documents

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/docgpt-cli/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/docgpt-cli/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/docgpt-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/docgpt-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docgpt-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docgpt-cli/internal/core/domain"
	"github.com/custodia-labs/docgpt-cli/internal/core/ports/driving"
)

// View lists the documents known to the service.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	filter    *input.Field
	statusbar *status.Bar
	catalog   driving.CatalogService
	ctx       context.Context

	entries      []domain.CatalogEntry
	selected     int
	scrollOffset int
	loading      bool
	filtering    bool
	// deleting holds the id awaiting confirmation.
	deleting string
	err      error

	width  int
	height int
}

// NewView creates a new documents view.
func NewView(s *styles.Styles, km *keymap.KeyMap, catalog driving.CatalogService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &View{
		styles:    s,
		keymap:    km,
		filter:    input.NewField(s, "Filter:", "document name", 200),
		statusbar: status.NewBar(s, km.DocumentsHelp()),
		catalog:   catalog,
		ctx:       context.Background(),
		width:     80,
		height:    24,
	}
}

// WithContext sets the context catalog calls run under.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init loads the catalog.
func (v *View) Init() tea.Cmd {
	return v.load()
}

// load returns a command listing documents matching the current filter.
func (v *View) load() tea.Cmd {
	if v.catalog == nil {
		v.err = fmt.Errorf("document history not available")
		return nil
	}
	v.loading = true
	v.statusbar.SetState(status.StateLoading)

	ctx := v.ctx
	catalog := v.catalog
	filter := strings.TrimSpace(v.filter.Value())
	return func() tea.Msg {
		entries, err := catalog.List(ctx, filter)
		return messages.CatalogLoaded{Entries: entries, Err: err}
	}
}

func (v *View) remove(id string) tea.Cmd {
	ctx := v.ctx
	catalog := v.catalog
	return func() tea.Msg {
		return messages.DocumentDeleted{ID: id, Err: catalog.Delete(ctx, id)}
	}
}

// Update handles messages for the documents view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if v.filtering {
			return v.handleFilterKey(msg)
		}
		return v.handleKeyMsg(msg)

	case messages.CatalogLoaded:
		v.loading = false
		v.statusbar.Clear()
		if msg.Err != nil {
			v.err = msg.Err
			v.statusbar.SetState(status.StateError)
			return v, nil
		}
		v.err = nil
		v.entries = msg.Entries
		if v.selected >= len(v.entries) {
			v.selected = max(len(v.entries)-1, 0)
		}
		v.adjustScroll()
		return v, nil

	case messages.DocumentDeleted:
		if msg.Err != nil {
			v.err = msg.Err
			v.statusbar.SetState(status.StateError)
			v.statusbar.SetMessage(domain.UserMessage(msg.Err, "Could not delete the document."))
			return v, nil
		}
		return v, v.load()
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if v.deleting != "" {
		id := v.deleting
		v.deleting = ""
		v.statusbar.Clear()
		if keymap.Matches(msg.String(), v.keymap.Confirm) {
			return v, v.remove(id)
		}
		return v, nil
	}

	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
			v.adjustScroll()
		}
	case "down", "j":
		if v.selected < len(v.entries)-1 {
			v.selected++
			v.adjustScroll()
		}
	case "esc":
		return v, func() tea.Msg { return messages.Navigate{To: domain.LocationChat} }
	case "/":
		v.filtering = true
		return v, v.filter.Focus()
	case "r":
		return v, v.load()
	case "d":
		if v.loading || len(v.entries) == 0 {
			return v, nil
		}
		entry := v.entries[v.selected]
		v.deleting = entry.ID
		v.statusbar.SetMessage(fmt.Sprintf("Delete %s? Press y to confirm.", entry.Name))
	}

	return v, nil
}

// handleFilterKey edits the filter; enter applies it, esc clears it.
func (v *View) handleFilterKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		v.filtering = false
		v.filter.Blur()
		v.selected = 0
		v.scrollOffset = 0
		return v, v.load()
	case tea.KeyEsc:
		v.filtering = false
		v.filter.Blur()
		if v.filter.Value() == "" {
			return v, nil
		}
		v.filter.Reset()
		v.selected = 0
		v.scrollOffset = 0
		return v, v.load()
	}

	var cmd tea.Cmd
	v.filter, cmd = v.filter.Update(msg)
	return v, cmd
}

func (v *View) adjustScroll() {
	visible := v.visibleItemCount()
	if v.selected < v.scrollOffset {
		v.scrollOffset = v.selected
	} else if v.selected >= v.scrollOffset+visible {
		v.scrollOffset = v.selected - visible + 1
	}
}

func (v *View) visibleItemCount() int {
	return max(v.height-10, 1)
}

// View renders the documents view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render(fmt.Sprintf("Documents (%d)", len(v.entries))))
	b.WriteString("\n\n")

	if v.filtering || v.filter.Value() != "" {
		b.WriteString(v.filter.View())
		b.WriteString("\n\n")
	}

	switch {
	case v.loading && len(v.entries) == 0:
		b.WriteString(v.styles.Muted.Render("Loading documents..."))
	case v.err != nil && len(v.entries) == 0:
		b.WriteString(v.styles.Error.Render(domain.UserMessage(v.err, "Could not load documents.")))
	case len(v.entries) == 0:
		b.WriteString(v.styles.Muted.Render("No documents yet."))
	default:
		b.WriteString(v.renderList())
	}
	b.WriteString("\n\n")
	b.WriteString(v.statusbar.View())

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

func (v *View) renderList() string {
	var b strings.Builder
	end := min(v.scrollOffset+v.visibleItemCount(), len(v.entries))
	for i := v.scrollOffset; i < end; i++ {
		line := row(v.entries[i])
		if i == v.selected {
			b.WriteString(v.styles.Selected.Render("> " + line))
		} else {
			b.WriteString(v.styles.Normal.Render("  " + line))
		}
		b.WriteString("\n")
	}
	if len(v.entries) > end {
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  ... %d more", len(v.entries)-end)))
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// row formats one catalog entry.
func row(e domain.CatalogEntry) string {
	pages := "?"
	if e.PageCount != nil {
		pages = fmt.Sprintf("%d", *e.PageCount)
	}
	date := "unknown"
	if !e.UploadDate.IsZero() {
		date = e.UploadDate.Format("2006-01-02")
	}
	line := fmt.Sprintf("%s  %s  %s pages  %d chunks", e.Name, date, pages, e.ChunkCount)
	if e.IsActive() {
		line += "  ● active"
	}
	return line
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.filter.SetWidth(width)
	v.statusbar.SetWidth(width)
	v.adjustScroll()
}

// Entries returns the documents currently listed.
func (v *View) Entries() []domain.CatalogEntry {
	return v.entries
}

// Selected returns the highlighted entry index.
func (v *View) Selected() int {
	return v.selected
}

// Filtering reports whether the filter input has focus.
func (v *View) Filtering() bool {
	return v.filtering
}

// Loading reports whether a catalog request is running.
func (v *View) Loading() bool {
	return v.loading
}

// Err returns the last catalog error.
func (v *View) Err() error {
	return v.err
}
