// Package upload provides the document upload view for the TUI.
package upload

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
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

// View asks for a PDF path and shows the staged progress of its upload.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	path      *input.Field
	bar       progress.Model
	statusbar *status.Bar

	uploadService driving.UploadService
	ctx           context.Context

	progress domain.UploadProgress
	running  bool
	attempt  int
	errMsg   string
	updates  chan domain.UploadProgress

	width  int
	height int
}

// NewView creates a new upload view.
func NewView(s *styles.Styles, km *keymap.KeyMap, uploadService driving.UploadService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &View{
		styles:        s,
		keymap:        km,
		path:          input.NewField(s, "File:", "/path/to/document.pdf", 4096),
		bar:           progress.New(progress.WithDefaultGradient()),
		statusbar:     status.NewBar(s, km.ShortHelp()),
		uploadService: uploadService,
		ctx:           context.Background(),
		width:         80,
		height:        24,
	}
}

// WithContext sets the context uploads run under.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init focuses the path input.
func (v *View) Init() tea.Cmd {
	return tea.Batch(v.path.Focus(), v.path.Init())
}

// Update handles messages for the upload view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.UploadProgressed:
		// The pump can lag behind the upload; late snapshots are stale.
		if !v.running || msg.Attempt != v.attempt {
			return v, nil
		}
		v.progress = msg.Progress
		v.statusbar.SetMessage(msg.Progress.Label)
		if v.running {
			return v, v.waitForProgress()
		}
		return v, nil

	case messages.UploadFinished:
		v.running = false
		v.updates = nil
		if msg.Err != nil {
			v.progress = domain.UploadProgress{}
			v.errMsg = domain.UserMessage(msg.Err, domain.UploadFailedMessage)
			v.statusbar.SetState(status.StateError)
			v.statusbar.SetMessage(v.errMsg)
			return v, v.path.Focus()
		}
		v.progress = domain.UploadProgress{Percent: 100, Stage: domain.StageFinalizing}
		v.statusbar.Clear()
		v.statusbar.SetDocument(msg.State.DocumentName)
		v.path.Reset()
		return v, nil
	}

	var cmd tea.Cmd
	v.path, cmd = v.path.Update(msg)
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if v.running {
		// Pacing stages run to completion; keys are ignored meanwhile.
		return v, nil
	}
	if msg.Type == tea.KeyEsc {
		return v, func() tea.Msg { return messages.Navigate{To: domain.LocationLanding} }
	}
	if keymap.Matches(msg.String(), v.keymap.Documents) {
		return v, func() tea.Msg { return messages.Navigate{To: domain.LocationDocuments} }
	}
	if msg.Type == tea.KeyEnter {
		return v, v.submit()
	}

	var cmd tea.Cmd
	v.path, cmd = v.path.Update(msg)
	return v, cmd
}

// submit starts the upload and a progress pump.
func (v *View) submit() tea.Cmd {
	path := expandHome(strings.TrimSpace(v.path.Value()))
	if path == "" {
		v.errMsg = "Please choose a PDF document to upload."
		return nil
	}
	if v.uploadService == nil {
		v.errMsg = domain.UploadFailedMessage
		return nil
	}

	v.running = true
	v.attempt++
	v.errMsg = ""
	v.progress = domain.UploadProgress{Active: true, Stage: domain.StageTransmitting, Label: domain.TransmittingLabel}
	v.statusbar.SetState(status.StateUploading)
	v.statusbar.SetMessage(domain.TransmittingLabel)
	v.path.Blur()

	// Stages report a handful of snapshots; the buffer holds them all.
	updates := make(chan domain.UploadProgress, 32)
	v.updates = updates
	ctx := v.ctx
	svc := v.uploadService

	run := func() tea.Msg {
		defer close(updates)
		state, err := svc.UploadAndActivate(ctx, path, func(p domain.UploadProgress) {
			select {
			case updates <- p:
			default:
			}
		})
		return messages.UploadFinished{State: state, Err: err}
	}
	return tea.Batch(run, v.waitForProgress())
}

// waitForProgress delivers the next snapshot, or nothing once the upload ends.
func (v *View) waitForProgress() tea.Cmd {
	updates, attempt := v.updates, v.attempt
	if updates == nil {
		return nil
	}
	return func() tea.Msg {
		p, ok := <-updates
		if !ok {
			return nil
		}
		return messages.UploadProgressed{Progress: p, Attempt: attempt}
	}
}

// View renders the upload view.
func (v *View) View() string {
	sections := []string{
		v.styles.Title.Render("Upload a document"),
		v.styles.Muted.Render("PDF only. Indexing replaces the current document."),
		"",
		v.path.View(),
		"",
	}

	if v.running || v.progress.Percent > 0 {
		sections = append(sections,
			v.bar.ViewAs(float64(v.progress.Percent)/100),
			v.styles.Normal.Render(fmt.Sprintf("%3d%%  %s", v.progress.Percent, v.progress.Label)),
			"",
		)
	}
	if v.errMsg != "" {
		sections = append(sections, v.styles.Error.Render(v.errMsg), "")
	}

	sections = append(sections, v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.path.SetWidth(width)
	v.bar.Width = max(width-4, 10)
	v.statusbar.SetWidth(width)
}

// Running reports whether an upload is in progress.
func (v *View) Running() bool {
	return v.running
}

// Progress returns the last progress snapshot shown.
func (v *View) Progress() domain.UploadProgress {
	return v.progress
}

// Err returns the message from the last failed attempt.
func (v *View) Err() string {
	return v.errMsg
}

// SetPath fills the path input (for testing).
func (v *View) SetPath(path string) {
	v.path.SetValue(path)
}
