// Package landing provides the entry view of the TUI.
package landing

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/docgpt-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docgpt-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docgpt-cli/internal/core/domain"
	"github.com/custodia-labs/docgpt-cli/internal/core/ports/driving"
)

// Item represents a single menu option.
type Item struct {
	Label string
	To    domain.Location
	Quit  bool
}

// View is the landing screen: a short introduction and a menu.
type View struct {
	styles   *styles.Styles
	items    []Item
	selected int
	auth     driving.AuthStatus
	state    domain.IndexState
	loading  bool
	width    int
	height   int
}

// NewView creates a new landing view.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles: s,
		items: []Item{
			{Label: "Chat with a document", To: domain.LocationChat},
			{Label: "Document history", To: domain.LocationDocuments},
			{Label: "Quit", Quit: true},
		},
		loading: true,
		width:   80,
		height:  24,
	}
}

// SetSession records what the app found at start-up.
func (v *View) SetSession(state domain.IndexState, auth driving.AuthStatus) {
	v.state = state
	v.auth = auth
	v.loading = false
}

// Update handles messages for the landing view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return v, nil
	}

	switch key.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
	case "down", "j":
		if v.selected < len(v.items)-1 {
			v.selected++
		}
	case "q":
		return v, func() tea.Msg { return messages.Quit{} }
	case "enter":
		if v.loading {
			return v, nil
		}
		item := v.items[v.selected]
		if item.Quit {
			return v, func() tea.Msg { return messages.Quit{} }
		}
		return v, func() tea.Msg { return messages.Navigate{To: item.To} }
	}
	return v, nil
}

// View renders the landing screen.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("DocGPT"))
	b.WriteString("\n")
	b.WriteString(v.styles.Muted.Render("Upload a PDF, then ask questions grounded in its content."))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Checking the document service..."))
	case v.auth.Configured && !v.auth.SignedIn:
		b.WriteString(v.styles.Warning.Render("You are signed out. Run `docgpt auth login` to continue."))
	case v.state.Indexed:
		b.WriteString(v.styles.Success.Render(fmt.Sprintf("Ready: %s (%d chunks)", v.state.DocumentName, v.state.TotalChunks)))
	default:
		b.WriteString(v.styles.Normal.Render("No document indexed yet."))
	}
	b.WriteString("\n\n")

	for i, item := range v.items {
		if i == v.selected {
			b.WriteString(v.styles.Selected.Render("> " + item.Label))
		} else {
			b.WriteString(v.styles.Normal.Render("  " + item.Label))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("↑/↓ select | enter open | q quit"))

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}

// Selected returns the highlighted item index.
func (v *View) Selected() int {
	return v.selected
}
