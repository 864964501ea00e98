package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/docgpt-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/docgpt-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docgpt-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docgpt-cli/internal/adapters/driving/tui/views/chat"
	"github.com/custodia-labs/docgpt-cli/internal/adapters/driving/tui/views/documents"
	"github.com/custodia-labs/docgpt-cli/internal/adapters/driving/tui/views/landing"
	"github.com/custodia-labs/docgpt-cli/internal/adapters/driving/tui/views/upload"
	"github.com/custodia-labs/docgpt-cli/internal/core/domain"
	"github.com/custodia-labs/docgpt-cli/internal/core/ports/driving"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	styles *styles.Styles
	keymap *keymap.KeyMap
	help   help.Model

	landingView   *landing.View
	uploadView    *upload.View
	chatView      *chat.View
	documentsView *documents.View

	// state and auth mirror the session as last reported.
	state domain.IndexState
	auth  driving.AuthStatus

	// location is where the guard last placed the user.
	location domain.Location

	// currentView tracks which view is active.
	currentView messages.ViewType

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has received its first window size.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:         ports,
		ctx:           context.Background(),
		styles:        s,
		keymap:        km,
		help:          help.New(),
		landingView:   landing.NewView(s),
		uploadView:    upload.NewView(s, km, ports.Upload),
		chatView:      chat.NewView(s, km, ports.Session, ports.Exchange),
		documentsView: documents.NewView(s, km, ports.Catalog),
		location:      domain.LocationLanding,
		currentView:   messages.ViewLanding,
	}, nil
}

// WithContext sets the context for the app and its views.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.uploadView.WithContext(ctx)
	a.chatView.WithContext(ctx)
	a.documentsView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
// It sets the window title and queries the session.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("DocGPT"),
		a.initialize(),
	)
}

// initialize asks the service what is already indexed.
func (a *App) initialize() tea.Cmd {
	ctx := a.ctx
	session := a.ports.Session
	auth := a.ports.Auth
	return func() tea.Msg {
		status := driving.AuthStatus{SignedIn: true, Method: "none"}
		if auth != nil {
			status = auth.Status(ctx)
		}
		state := session.Initialize(ctx)
		return messages.SessionInitialized{State: state, Auth: status}
	}
}

// Update implements tea.Model.
// It handles messages and updates the model state.
//
//nolint:gocyclo // central message handler requires complexity
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case messages.SessionInitialized:
		a.auth = msg.Auth
		a.setState(msg.State)
		return a, a.navigate(a.location)

	case messages.Navigate:
		return a, a.navigate(msg.To)

	case messages.UploadProgressed:
		a.uploadView, cmd = a.uploadView.Update(msg)
		return a, cmd

	case messages.UploadFinished:
		a.uploadView, cmd = a.uploadView.Update(msg)
		if msg.Err != nil {
			a.err = msg.Err
			return a, cmd
		}
		a.setState(msg.State)
		return a, tea.Batch(cmd, a.navigate(a.location))

	case messages.AnswerReceived:
		a.chatView, cmd = a.chatView.Update(msg)
		return a, cmd

	case messages.ResetCompleted:
		a.chatView, cmd = a.chatView.Update(msg)
		if msg.Err != nil {
			a.err = msg.Err
			return a, cmd
		}
		a.setState(a.ports.Session.State())
		return a, tea.Batch(cmd, a.navigate(a.location))

	case messages.CatalogLoaded, messages.DocumentDeleted:
		a.documentsView, cmd = a.documentsView.Update(msg)
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
		return a, nil

	case messages.Quit:
		return a, tea.Quit
	}

	return a, a.forward(msg)
}

func (a *App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case keymap.Matches(msg.String(), a.keymap.Quit):
		return a, tea.Quit
	case keymap.Matches(msg.String(), a.keymap.Help):
		if a.currentView == messages.ViewHelp {
			a.currentView = messages.ViewForLocation(a.location)
		} else {
			a.currentView = messages.ViewHelp
		}
		return a, nil
	case a.currentView == messages.ViewHelp:
		if msg.Type == tea.KeyEsc {
			a.currentView = messages.ViewForLocation(a.location)
		}
		return a, nil
	}
	return a, a.forward(msg)
}

// forward hands msg to the active view.
func (a *App) forward(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.currentView {
	case messages.ViewLanding:
		a.landingView, cmd = a.landingView.Update(msg)
	case messages.ViewUpload:
		a.uploadView, cmd = a.uploadView.Update(msg)
	case messages.ViewChat:
		a.chatView, cmd = a.chatView.Update(msg)
	case messages.ViewDocuments:
		a.documentsView, cmd = a.documentsView.Update(msg)
	case messages.ViewHelp:
	}
	return cmd
}

// navigate moves to wherever the guard allows for loc and initialises the
// destination view when it changes.
func (a *App) navigate(loc domain.Location) tea.Cmd {
	target := a.ports.Guard.Resolve(domain.GuardState{
		SignedIn: a.auth.SignedIn,
		Indexed:  a.state.Indexed,
	}, loc)

	view := messages.ViewForLocation(target)
	changed := view != a.currentView
	a.location = target
	a.currentView = view
	if !changed && view != messages.ViewDocuments {
		return nil
	}

	switch view {
	case messages.ViewUpload:
		return a.uploadView.Init()
	case messages.ViewChat:
		return a.chatView.Init()
	case messages.ViewDocuments:
		return a.documentsView.Init()
	case messages.ViewLanding, messages.ViewHelp:
	}
	return nil
}

func (a *App) setState(state domain.IndexState) {
	a.state = state
	a.landingView.SetSession(state, a.auth)
	a.chatView.SetState(state)
}

// View implements tea.Model.
// It renders the current view as a string.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewUpload:
		return a.uploadView.View()
	case messages.ViewChat:
		return a.chatView.View()
	case messages.ViewDocuments:
		return a.documentsView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	case messages.ViewLanding:
	}
	return a.landingView.View()
}

// viewHelp renders the keybinding reference.
func (a *App) viewHelp() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Help"))
	b.WriteString("\n\n")
	b.WriteString(a.help.FullHelpView(a.keymap.FullHelp()))
	b.WriteString("\n\n")
	b.WriteString(a.styles.Help.Render("[esc] back"))
	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Location returns where the guard last placed the user.
func (a *App) Location() domain.Location {
	return a.location
}

// State returns the index state the app is showing.
func (a *App) State() domain.IndexState {
	return a.state
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions on the app and every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.help.Width = width
	a.landingView.SetDimensions(width, height)
	a.uploadView.SetDimensions(width, height)
	a.chatView.SetDimensions(width, height)
	a.documentsView.SetDimensions(width, height)
}
