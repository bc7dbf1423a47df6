// Package model provides Bubble Tea models for CLI commands.
package model

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/berkelium-go/internal/cli/styles"
	urlutil "github.com/bnema/berkelium-go/internal/domain/url"
	"github.com/bnema/berkelium-go/internal/host"
	"github.com/bnema/berkelium-go/internal/logging"
)

const maxLogLines = 500

// Controller drives the engine window from the TUI goroutine.
type Controller interface {
	Navigate(url string)
	Back()
	Forward()
	Reload()
	Stop()
	Zoom(in bool)
}

// EventMsg carries a session event into the shell.
type EventMsg host.Event

// PumpDoneMsg is sent when the engine pump stopped.
type PumpDoneMsg struct {
	Err error
}

// ShellModel is the Bubble Tea model of the interactive shell.
type ShellModel struct {
	// UI components
	address textinput.Model
	help    help.Model
	keys    styles.ShellKeyMap

	// State
	editing  bool
	showHelp bool
	url      string
	title    string
	loading  bool
	events   []host.Event
	width    int
	height   int
	err      error

	// Dependencies
	ctx   context.Context
	ctrl  Controller
	theme *styles.Theme
}

// NewShellModel creates a shell. A non-empty startURL is loaded when the
// program starts.
func NewShellModel(ctx context.Context, theme *styles.Theme, ctrl Controller, startURL string) ShellModel {
	log := logging.FromContext(ctx)
	log.Debug().Str("url", startURL).Msg("creating shell model")

	address := styles.NewURLInput(theme)
	address.SetValue(startURL)

	return ShellModel{
		address: address,
		help:    styles.NewStyledHelp(theme),
		keys:    styles.DefaultShellKeyMap(),
		url:     startURL,
		ctx:     ctx,
		ctrl:    ctrl,
		theme:   theme,
		width:   80,
		height:  24,
	}
}

// Init implements tea.Model.
func (m ShellModel) Init() tea.Cmd {
	if m.url == "" {
		return nil
	}
	url := m.url
	return func() tea.Msg {
		m.ctrl.Navigate(url)
		return nil
	}
}

// Update implements tea.Model.
func (m ShellModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.address.Width = max(msg.Width-8, 10)
		return m, nil
	case tea.KeyMsg:
		if m.editing {
			return m.handleAddressKey(msg)
		}
		return m.handleNormalKey(msg)
	case EventMsg:
		m.applyEvent(host.Event(msg))
		return m, nil
	case PumpDoneMsg:
		m.err = msg.Err
		return m, tea.Quit
	}
	return m, nil
}

func (m *ShellModel) applyEvent(e host.Event) {
	switch e.Kind {
	case host.EventAddress:
		m.url = e.Text
		if !m.editing {
			m.address.SetValue(e.Text)
		}
	case host.EventTitle:
		m.title = e.Text
	case host.EventLoading:
		m.loading = true
	case host.EventLoaded, host.EventLoadError:
		m.loading = false
	}
	m.events = append(m.events, e)
	if len(m.events) > maxLogLines {
		m.events = m.events[len(m.events)-maxLogLines:]
	}
}

func (m ShellModel) handleAddressKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Go):
		m.editing = false
		m.address.Blur()
		url := urlutil.Normalize(m.address.Value())
		if url == "" {
			return m, nil
		}
		m.url = url
		m.address.SetValue(url)
		m.ctrl.Navigate(url)
		return m, nil
	case key.Matches(msg, m.keys.Cancel):
		m.editing = false
		m.address.Blur()
		m.address.SetValue(m.url)
		return m, nil
	}
	var cmd tea.Cmd
	m.address, cmd = m.address.Update(msg)
	return m, cmd
}

func (m ShellModel) handleNormalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Address):
		m.editing = true
		m.address.CursorEnd()
		return m, m.address.Focus()
	case key.Matches(msg, m.keys.Back):
		m.ctrl.Back()
	case key.Matches(msg, m.keys.Forward):
		m.ctrl.Forward()
	case key.Matches(msg, m.keys.Reload):
		m.ctrl.Reload()
	case key.Matches(msg, m.keys.Stop):
		m.ctrl.Stop()
	case key.Matches(msg, m.keys.ZoomIn):
		m.ctrl.Zoom(true)
	case key.Matches(msg, m.keys.ZoomOut):
		m.ctrl.Zoom(false)
	case key.Matches(msg, m.keys.Clear):
		m.events = nil
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
	}
	return m, nil
}

// View implements tea.Model.
func (m ShellModel) View() string {
	title := m.title
	if title == "" {
		title = "berkelium"
	}
	status := m.theme.BadgeMuted.Render("idle")
	if m.loading {
		status = m.theme.Badge.Render("loading")
	}
	header := lipgloss.JoinHorizontal(lipgloss.Center,
		m.theme.Title.Render(styles.Truncate(title, max(m.width-12, 10))), " ", status)

	address := m.theme.InputBox(m.address.View(), m.editing)
	helpView := m.help.View(m.keys)

	used := lipgloss.Height(header) + lipgloss.Height(address) + lipgloss.Height(helpView) + 1
	logView := m.renderLog(max(m.height-used, 1))

	parts := []string{header, address, logView, helpView}
	if m.err != nil {
		parts = append(parts, m.theme.ErrorStyle.Render(m.err.Error()))
	}
	return strings.Join(parts, "\n")
}

// renderLog renders the newest events that fit in lines rows.
func (m ShellModel) renderLog(lines int) string {
	events := m.events
	if len(events) > lines {
		events = events[len(events)-lines:]
	}
	rows := make([]string, 0, lines)
	for _, e := range events {
		row := styles.Truncate(e.String(), max(m.width, 20))
		switch e.Kind {
		case host.EventLoadError, host.EventCrash, host.EventFatal:
			row = m.theme.ErrorStyle.Render(row)
		case host.EventDialog, host.EventPopup:
			row = m.theme.WarningStyle.Render(row)
		case host.EventLoaded:
			row = m.theme.SuccessStyle.Render(row)
		default:
			row = m.theme.Subtle.Render(row)
		}
		rows = append(rows, row)
	}
	for len(rows) < lines {
		rows = append(rows, "")
	}
	return strings.Join(rows, "\n")
}

// Err returns the error the pump stopped with, if any.
func (m ShellModel) Err() error {
	return m.err
}

// Events returns the logged events, oldest first.
func (m ShellModel) Events() []host.Event {
	return m.events
}
