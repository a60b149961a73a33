package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/presspause/slidecast/internal/assemble"
)

// renderAssemblyView renders the main pipeline view
func renderAssemblyView(m Model) string {
	var b strings.Builder

	b.WriteString(renderHeader(m))
	b.WriteString("\n\n")
	b.WriteString(renderStageRows(m))

	return b.String()
}

// renderHeader renders the application header
func renderHeader(m Model) string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#5F5FD7")).
		Render("Slidecast 🎞 - Narrated Slideshow Assembler")

	subtitle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888888")).
		Italic(true).
		Render(fmt.Sprintf("Assembling %s", filepath.Base(m.OutputPath)))

	return title + "\n" + subtitle
}

// renderStageRows renders one line per pipeline stage with its status
func renderStageRows(m Model) string {
	var b strings.Builder

	for _, stage := range m.Stages {
		b.WriteString(renderStageRow(stage))
		b.WriteString("\n")
	}

	return b.String()
}

// renderStageRow renders a single stage entry
func renderStageRow(stage StageProgress) string {
	name := string(stage.Stage)

	switch stage.Status {
	case StatusDone:
		icon := lipgloss.NewStyle().Foreground(lipgloss.Color("#00AA00")).Render("✓")
		return fmt.Sprintf(" %s %-12s %s (%.1fs)", icon, name, stage.Detail, stage.ElapsedTime.Seconds())

	case StatusRunning:
		icon := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFA500")).Render("⚙")
		line := fmt.Sprintf(" %s %-12s %s", icon, name, stage.Detail)
		if stage.ElapsedTime.Seconds() >= 1 {
			line += fmt.Sprintf(" (%.0fs)", stage.ElapsedTime.Seconds())
		}
		return line

	case StatusFailed:
		icon := lipgloss.NewStyle().Foreground(lipgloss.Color("#A40000")).Render("✗")
		return fmt.Sprintf(" %s %-12s %s", icon, name, stage.Detail)

	default:
		icon := lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).Render("○")
		return fmt.Sprintf(" %s %-12s", icon, name)
	}
}

// renderCompletionSummary renders the final summary after the run
func renderCompletionSummary(m Model) string {
	var b strings.Builder

	if m.Err != nil {
		header := lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#A40000")).
			Render("✗ Assembly Failed")
		b.WriteString(header)
		b.WriteString("\n\n")
		b.WriteString(renderStageRows(m))
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("Error: %v\n", m.Err))
		return b.String()
	}

	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#00AA00")).
		Render("✨ Assembly Complete!")
	b.WriteString(header)
	b.WriteString("\n\n")
	b.WriteString(renderStageRows(m))
	b.WriteString("\n")
	b.WriteString(RenderResultSummary(m.Result))

	return b.String()
}

// RenderResultSummary renders the post-run statistics block. Shared with the
// plain (non-TUI) output path.
func RenderResultSummary(res *assemble.Result) string {
	if res == nil {
		return ""
	}

	key := lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	val := lipgloss.NewStyle().Bold(true)

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s %s\n", key.Render("Output:  "), val.Render(res.OutputPath)))
	b.WriteString(fmt.Sprintf("%s %s\n", key.Render("Duration:"), val.Render(formatDuration(res.Duration))))
	b.WriteString(fmt.Sprintf("%s %s\n", key.Render("Size:    "), val.Render(formatSize(res.SizeBytes))))
	b.WriteString(fmt.Sprintf("%s %s\n", key.Render("Loudness:"), val.Render(string(res.Normalization))))
	if res.UsedFallback {
		warn := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFA500"))
		b.WriteString(warn.Render("Note: crossfades unavailable, hard cuts used") + "\n")
	}
	if len(res.SlideDurations) > 0 {
		b.WriteString(key.Render("Slides:  ") + " ")
		parts := make([]string, len(res.SlideDurations))
		for i, d := range res.SlideDurations {
			parts[i] = fmt.Sprintf("%02d:%.1fs", i+1, d)
		}
		b.WriteString(strings.Join(parts, " "))
		b.WriteString("\n")
	}
	return b.String()
}

func formatDuration(seconds float64) string {
	total := int(seconds)
	return fmt.Sprintf("%d:%02d (%.1fs)", total/60, total%60, seconds)
}

func formatSize(bytes int64) string {
	const mb = 1024 * 1024
	if bytes >= mb {
		return fmt.Sprintf("%.1f MiB", float64(bytes)/mb)
	}
	return fmt.Sprintf("%d bytes", bytes)
}
