package styles

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/berkelium-go/pkg/berkelium/deploy"
)

// DeployRenderer renders deployment reports and verification results.
type DeployRenderer struct {
	theme *Theme
}

// NewDeployRenderer creates a new deploy renderer with the given theme.
func NewDeployRenderer(theme *Theme) *DeployRenderer {
	return &DeployRenderer{theme: theme}
}

// RenderReport renders what a deployment did with each resource.
func (r *DeployRenderer) RenderReport(report deploy.Report) string {
	iconStyle := lipgloss.NewStyle().Foreground(r.theme.Accent)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("\n  %s %s\n",
		iconStyle.Render(IconFolder),
		r.theme.Subtle.Render(report.Dir)))

	if len(report.Entries) == 0 {
		sb.WriteString(fmt.Sprintf("  %s %s\n",
			iconStyle.Render(IconInfo),
			r.theme.Subtle.Render("no bundled engine files in this build")))
		return sb.String()
	}

	for _, e := range report.Entries {
		badge := r.theme.BadgeMuted.Render(string(e.Action))
		if e.Action == deploy.ActionExtracted {
			badge = r.theme.Badge.Render(string(e.Action))
		}
		sb.WriteString(fmt.Sprintf("    %s %s %s\n", badge, r.theme.Normal.Render(e.Name), r.theme.Subtle.Render(formatBytes(e.Size))))
	}
	sb.WriteString(fmt.Sprintf("\n  %s %d of %d files extracted\n",
		lipgloss.NewStyle().Foreground(r.theme.Success).Render(IconCheck),
		report.Extracted(), len(report.Entries)))
	return sb.String()
}

// RenderChecks renders digest comparisons. It returns the number of
// mismatching resources alongside the text.
func (r *DeployRenderer) RenderChecks(checks []deploy.Check) (string, int) {
	okStyle := lipgloss.NewStyle().Foreground(r.theme.Success)
	badStyle := lipgloss.NewStyle().Foreground(r.theme.Error)

	var sb strings.Builder
	failed := 0
	sb.WriteString("\n")
	for _, c := range checks {
		switch {
		case c.OK():
			sb.WriteString(fmt.Sprintf("    %s %s %s\n", okStyle.Render(IconCheck), r.theme.Normal.Render(c.Name), r.theme.Subtle.Render(shortDigest(c.Deployed))))
		case c.Missing:
			failed++
			sb.WriteString(fmt.Sprintf("    %s %s %s\n", badStyle.Render(IconX), r.theme.Normal.Render(c.Name), r.theme.ErrorStyle.Render("missing")))
		default:
			failed++
			sb.WriteString(fmt.Sprintf("    %s %s %s\n", badStyle.Render(IconX), r.theme.Normal.Render(c.Name),
				r.theme.ErrorStyle.Render(fmt.Sprintf("digest %s, bundled %s", shortDigest(c.Deployed), shortDigest(c.Bundled)))))
		}
	}
	if failed == 0 {
		sb.WriteString(fmt.Sprintf("\n  %s %d files verified\n", okStyle.Render(IconCheck), len(checks)))
	} else {
		sb.WriteString(fmt.Sprintf("\n  %s %d of %d files differ\n", badStyle.Render(IconWarning), failed, len(checks)))
	}
	return sb.String(), failed
}

func shortDigest(d string) string {
	const n = 12
	if len(d) > n {
		return d[:n]
	}
	return d
}

// formatBytes formats a size for display.
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
