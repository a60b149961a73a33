package ui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/presspause/slidecast/internal/assemble"
)

// Spinner frames for indeterminate progress
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// CheckModel is the Bubbletea model for dry-run (check-only) mode
type CheckModel struct {
	OutputPath string

	StartTime time.Time

	// Spinner state
	spinnerIndex int

	// Results (populated when complete)
	Report *assemble.CheckReport
	Error  error
	Done   bool

	// Terminal dimensions
	Width  int
	Height int
}

// CheckCompleteMsg signals the dry run has completed
type CheckCompleteMsg struct {
	Report *assemble.CheckReport
	Error  error
}

// NewCheckModel creates a new dry-run UI model
func NewCheckModel(outputPath string) CheckModel {
	return CheckModel{
		OutputPath: outputPath,
		StartTime:  time.Now(),
	}
}

// Init initializes the model
func (m CheckModel) Init() tea.Cmd {
	return tickCmd()
}

// Update handles messages and updates the model
func (m CheckModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height

	case tickMsg:
		if !m.Done {
			m.spinnerIndex = (m.spinnerIndex + 1) % len(spinnerFrames)
			return m, tickCmd()
		}
		return m, nil

	case CheckCompleteMsg:
		m.Report = msg.Report
		m.Error = msg.Error
		m.Done = true
		return m, tea.Quit
	}

	return m, nil
}

// View renders the UI
func (m CheckModel) View() string {
	var b strings.Builder

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#5F5FD7")).
		Render("Slidecast")

	subtitle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888888")).
		Italic(true).
		Render("Check Mode")

	b.WriteString(title + " " + subtitle)
	b.WriteString("\n\n")

	if !m.Done {
		spinner := lipgloss.NewStyle().
			Foreground(lipgloss.Color("#5F5FD7")).
			Render(spinnerFrames[m.spinnerIndex])
		b.WriteString(fmt.Sprintf("%s Checking %s [%s]\n",
			spinner, filepath.Base(m.OutputPath), formatElapsed(time.Since(m.StartTime))))
		return b.String()
	}

	if m.Error != nil {
		errStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#A40000"))
		b.WriteString(errStyle.Render("✗ Check failed"))
		b.WriteString("\n\n")
		b.WriteString(fmt.Sprintf("%v\n", m.Error))
		return b.String()
	}

	b.WriteString(RenderCheckReport(m.Report))
	return b.String()
}

// RenderCheckReport renders the dry-run report. Shared with the plain
// (non-TUI) output path.
func RenderCheckReport(report *assemble.CheckReport) string {
	if report == nil {
		return ""
	}

	key := lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	ok := lipgloss.NewStyle().Foreground(lipgloss.Color("#00AA00"))

	var b strings.Builder
	b.WriteString(ok.Render("✓ All narrated slides have audio"))
	b.WriteString("\n\n")

	for _, s := range report.Slides {
		if s.Narrated {
			b.WriteString(fmt.Sprintf(" slide %02d  %5.1fs narration → %5.1fs on screen\n",
				s.Slide, s.RawDuration, s.Duration))
		} else {
			b.WriteString(fmt.Sprintf(" slide %02d  silent           → %5.1fs on screen\n",
				s.Slide, s.Duration))
		}
	}

	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%s %s\n", key.Render("Estimated length:"),
		formatElapsed(time.Duration(report.EstimatedDuration*float64(time.Second)))))
	loudness := "single-pass"
	if report.TwoPass {
		loudness = "two-pass"
	}
	b.WriteString(fmt.Sprintf("%s %s\n", key.Render("Loudness:        "), loudness))
	b.WriteString(fmt.Sprintf("%s %s\n", key.Render("Audio chain:     "), report.Chain))
	return b.String()
}

// formatElapsed formats elapsed time as MM:SS or HH:MM:SS
func formatElapsed(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
