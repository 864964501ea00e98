// Package chat provides the conversation view for the TUI.
package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
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

// reserved is the number of lines taken by everything except the transcript.
const reserved = 9

// View renders the transcript and accepts questions.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.Field
	viewport  viewport.Model
	statusbar *status.Bar

	session  driving.SessionService
	exchange driving.ExchangeService
	ctx      context.Context

	state      domain.IndexState
	transcript []domain.Message
	// pending is the question awaiting its reply, shown before the
	// exchange engine has returned.
	pending    string
	confirming bool

	width  int
	height int
}

// NewView creates a new chat view.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	session driving.SessionService,
	exchange driving.ExchangeService,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	v := &View{
		styles:    s,
		keymap:    km,
		input:     input.NewField(s, "Ask:", "Ask a question about the document...", 2000),
		viewport:  viewport.New(80, 24-reserved),
		statusbar: status.NewBar(s, km.ChatHelp()),
		session:   session,
		exchange:  exchange,
		ctx:       context.Background(),
		width:     80,
		height:    24,
	}
	return v
}

// WithContext sets the context questions are asked under.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init focuses the question input.
func (v *View) Init() tea.Cmd {
	return tea.Batch(v.input.Focus(), v.input.Init())
}

// SetState shows the indexed document and reloads the transcript.
func (v *View) SetState(state domain.IndexState) {
	v.state = state
	v.statusbar.SetDocument(state.DocumentName)
	v.refresh()
}

// Update handles messages for the chat view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.AnswerReceived:
		v.pending = ""
		v.statusbar.Clear()
		if msg.Err != nil && msg.Reply == nil {
			v.statusbar.SetState(status.StateError)
			v.statusbar.SetMessage(domain.UserMessage(msg.Err, domain.AskFailedMessage))
		}
		v.refresh()
		return v, nil

	case messages.ResetCompleted:
		v.statusbar.Clear()
		if msg.Err != nil {
			v.statusbar.SetState(status.StateError)
			v.statusbar.SetMessage(domain.UserMessage(msg.Err, "Reset failed. Please try again."))
			return v, nil
		}
		v.pending = ""
		v.refresh()
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if v.confirming {
		v.confirming = false
		v.statusbar.Clear()
		if keymap.Matches(msg.String(), v.keymap.Confirm) {
			return v, v.reset()
		}
		return v, nil
	}

	switch {
	case msg.Type == tea.KeyEsc:
		return v, func() tea.Msg { return messages.Navigate{To: domain.LocationLanding} }
	case keymap.Matches(msg.String(), v.keymap.Documents):
		return v, func() tea.Msg { return messages.Navigate{To: domain.LocationDocuments} }
	case keymap.Matches(msg.String(), v.keymap.Reset):
		if v.busy() {
			return v, nil
		}
		v.confirming = true
		v.statusbar.SetMessage("Start over with a new document? Press y to confirm.")
		return v, nil
	case keymap.Matches(msg.String(), v.keymap.Up), keymap.Matches(msg.String(), v.keymap.Down):
		var cmd tea.Cmd
		v.viewport, cmd = v.viewport.Update(msg)
		return v, cmd
	case msg.Type == tea.KeyEnter:
		return v, v.ask(v.input.Value())
	}

	// A digit on an empty conversation picks a suggested prompt.
	if prompt, ok := v.promptForKey(msg.String()); ok {
		return v, v.ask(prompt)
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) busy() bool {
	return v.pending != "" || (v.exchange != nil && v.exchange.InFlight())
}

// ask hands question to the exchange engine. Blank questions do nothing.
func (v *View) ask(question string) tea.Cmd {
	question = strings.TrimSpace(question)
	if question == "" || v.exchange == nil {
		return nil
	}
	if v.busy() {
		v.statusbar.SetMessage("Still answering the previous question...")
		return nil
	}

	v.pending = question
	v.input.Reset()
	v.statusbar.SetState(status.StateThinking)
	v.render()

	ctx := v.ctx
	exchange := v.exchange
	return func() tea.Msg {
		reply, err := exchange.Ask(ctx, question)
		return messages.AnswerReceived{Reply: reply, Err: err}
	}
}

func (v *View) reset() tea.Cmd {
	if v.session == nil {
		return nil
	}
	v.statusbar.SetState(status.StateLoading)
	ctx := v.ctx
	session := v.session
	return func() tea.Msg {
		return messages.ResetCompleted{Err: session.Reset(ctx)}
	}
}

// Prompts returns the suggested questions offered for the document.
func (v *View) Prompts() []string {
	if len(v.state.SuggestedPrompts) > 0 {
		return v.state.SuggestedPrompts
	}
	return domain.DefaultSuggestedPrompts()
}

func (v *View) promptForKey(k string) (string, bool) {
	if len(v.transcript) > 0 || v.pending != "" || v.input.Value() != "" || len(k) != 1 {
		return "", false
	}
	n := int(k[0] - '0')
	prompts := v.Prompts()
	if n < 1 || n > len(prompts) || n > 9 {
		return "", false
	}
	return prompts[n-1], true
}

// refresh reloads the transcript from the session and re-renders it.
func (v *View) refresh() {
	if v.session != nil {
		v.transcript = v.session.Transcript()
	}
	v.render()
}

func (v *View) render() {
	v.viewport.SetContent(v.renderTranscript())
	v.viewport.GotoBottom()
}

func (v *View) renderTranscript() string {
	wrap := lipgloss.NewStyle().Width(max(v.width-4, 20))
	var b strings.Builder

	if len(v.transcript) == 0 && v.pending == "" {
		b.WriteString(v.styles.Muted.Render("Try one of these:"))
		b.WriteString("\n")
		for i, p := range v.Prompts() {
			b.WriteString(v.styles.Prompt.Render(fmt.Sprintf("  %d. %s", i+1, p)))
			b.WriteString("\n")
		}
		return b.String()
	}

	for i := range v.transcript {
		b.WriteString(v.renderMessage(&v.transcript[i], wrap))
		b.WriteString("\n")
	}
	if v.pending != "" {
		b.WriteString(v.styles.UserLabel.Render("You"))
		b.WriteString("\n")
		b.WriteString(wrap.Render(v.pending))
		b.WriteString("\n\n")
		b.WriteString(v.styles.AssistantLabel.Render("DocGPT"))
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.Render("Thinking..."))
		b.WriteString("\n")
	}
	return b.String()
}

func (v *View) renderMessage(m *domain.Message, wrap lipgloss.Style) string {
	var b strings.Builder
	if m.Role == domain.RoleUser {
		b.WriteString(v.styles.UserLabel.Render("You"))
	} else {
		b.WriteString(v.styles.AssistantLabel.Render("DocGPT"))
	}
	b.WriteString("\n")
	b.WriteString(wrap.Render(m.Content))
	b.WriteString("\n")

	if !m.ShowCitations() {
		return b.String()
	}
	if m.Confidence != nil {
		b.WriteString(v.styles.Confidence(*m.Confidence).Render(fmt.Sprintf("Confidence: %.0f%%", *m.Confidence*100)))
		b.WriteString("\n")
	}
	for _, src := range m.Sources {
		b.WriteString(v.styles.Citation.Render(citation(src)))
		b.WriteString("\n")
	}
	return b.String()
}

// citation formats a source fragment for display.
func citation(src domain.SourceFragment) string {
	excerpt := src.Excerpt(domain.ExcerptLength)
	if src.Page != nil {
		return fmt.Sprintf("p. %d: %s", *src.Page, excerpt)
	}
	return excerpt
}

// View renders the chat view.
func (v *View) View() string {
	header := v.styles.Title.Render("DocGPT")
	if v.state.Indexed {
		header += v.styles.Muted.Render(fmt.Sprintf("  %s · %d chunks", v.state.DocumentName, v.state.TotalChunks))
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		v.viewport.View(),
		"",
		v.input.View(),
		"",
		v.statusbar.View(),
	)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.viewport.Width = width
	v.viewport.Height = max(height-reserved, 3)
	v.input.SetWidth(width)
	v.statusbar.SetWidth(width)
	v.render()
}

// Pending returns the question awaiting its answer, if any.
func (v *View) Pending() string {
	return v.pending
}

// Transcript returns the messages currently shown.
func (v *View) Transcript() []domain.Message {
	return v.transcript
}

// SetInput fills the question input (for testing).
func (v *View) SetInput(s string) {
	v.input.SetValue(s)
}
