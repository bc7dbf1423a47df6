package styles

import (
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
)

// NewURLInput creates the address bar input.
func NewURLInput(theme *Theme) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "Enter URL..."
	ti.PlaceholderStyle = lipgloss.NewStyle().Foreground(theme.Muted)
	ti.TextStyle = lipgloss.NewStyle().Foreground(theme.Text)
	ti.Cursor.Style = lipgloss.NewStyle().Foreground(theme.Accent)
	ti.PromptStyle = lipgloss.NewStyle().Foreground(theme.Accent)
	ti.Prompt = IconGlobe + " "
	ti.CharLimit = 2048
	return ti
}
