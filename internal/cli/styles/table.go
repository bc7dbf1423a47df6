package styles

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/bnema/berkelium-go/internal/domain/entity"
)

const (
	historyTitleWidth = 36
	historyURLWidth   = 48
)

// HistoryRenderer renders recorded visits as a table.
type HistoryRenderer struct {
	theme *Theme
	now   func() time.Time
}

// NewHistoryRenderer creates a new history renderer with the given theme.
func NewHistoryRenderer(theme *Theme) *HistoryRenderer {
	return &HistoryRenderer{theme: theme, now: time.Now}
}

// Render renders entries followed by the totals line.
func (r *HistoryRenderer) Render(entries []*entity.HistoryEntry, stats *entity.HistoryStats) string {
	if len(entries) == 0 {
		return fmt.Sprintf("\n  %s %s\n",
			lipgloss.NewStyle().Foreground(r.theme.Accent).Render(IconInfo),
			r.theme.Subtle.Render("No history recorded yet"))
	}

	header := lipgloss.NewStyle().Foreground(r.theme.Accent).Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Foreground(r.theme.Text).Padding(0, 1)
	muted := lipgloss.NewStyle().Foreground(r.theme.Muted).Padding(0, 1)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(r.theme.Border)).
		Headers("TITLE", "URL", "VISITS", "LAST VISIT").
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return header
			case col == 1 || col == 3:
				return muted
			default:
				return cell
			}
		})
	for _, e := range entries {
		t.Row(
			Truncate(e.DisplayTitle(), historyTitleWidth),
			Truncate(e.URL, historyURLWidth),
			fmt.Sprintf("%d", e.VisitCount),
			RelativeTime(e.LastVisited, r.now()),
		)
	}

	out := t.Render()
	if stats != nil {
		out += fmt.Sprintf("\n  %s %s entries, %s visits\n",
			lipgloss.NewStyle().Foreground(r.theme.Accent).Render(IconDatabase),
			r.theme.Highlight.Render(fmt.Sprintf("%d", stats.TotalEntries)),
			r.theme.Highlight.Render(fmt.Sprintf("%d", stats.TotalVisits)))
	}
	return out
}

// Truncate shortens s to width runes, marking the cut with an ellipsis.
func Truncate(s string, width int) string {
	runes := []rune(s)
	if width <= 0 || len(runes) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(runes[:width-1]) + "…"
}

// RelativeTime formats t relative to now.
func RelativeTime(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	default:
		return t.Format("2006-01-02")
	}
}
