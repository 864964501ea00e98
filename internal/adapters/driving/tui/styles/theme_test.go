package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTheme(t *testing.T) {
	theme := DefaultTheme()

	require.NotNil(t, theme)
	for _, c := range []lipgloss.Color{
		theme.Primary, theme.Secondary, theme.Foreground, theme.Muted,
		theme.Success, theme.Warning, theme.Error, theme.Border, theme.Bar,
	} {
		assert.NotEmpty(t, string(c))
	}
}

func TestDefaultTheme_AccentsAreDistinct(t *testing.T) {
	theme := DefaultTheme()

	seen := make(map[lipgloss.Color]bool)
	for _, c := range []lipgloss.Color{theme.Primary, theme.Secondary, theme.Success, theme.Warning, theme.Error} {
		assert.False(t, seen[c], "duplicate accent %s", c)
		seen[c] = true
	}
}

func TestNewStyles_WithTheme(t *testing.T) {
	theme := DefaultTheme()
	s := NewStyles(theme)

	require.NotNil(t, s)
	assert.Equal(t, theme, s.Theme())
}

func TestNewStyles_NilTheme(t *testing.T) {
	s := NewStyles(nil)

	require.NotNil(t, s)
	assert.NotNil(t, s.Theme())
}

func TestStyles_RenderText(t *testing.T) {
	s := DefaultStyles()

	assert.Contains(t, s.UserLabel.Render("You"), "You")
	assert.Contains(t, s.AssistantLabel.Render("DocGPT"), "DocGPT")
	assert.Contains(t, s.Citation.Render("p. 3"), "p. 3")
	assert.Contains(t, s.Prompt.Render("What are the key takeaways?"), "key takeaways")
}

func TestStyles_Confidence(t *testing.T) {
	s := DefaultStyles()

	assert.Equal(t, s.Success, s.Confidence(0.92))
	assert.Equal(t, s.Success, s.Confidence(0.7))
	assert.Equal(t, s.Warning, s.Confidence(0.5))
	assert.Equal(t, s.Error, s.Confidence(0.1))
}
