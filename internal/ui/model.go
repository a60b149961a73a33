// Package ui provides the Bubbletea terminal user interface for slidecast
package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/presspause/slidecast/internal/assemble"
)

// StageStatus represents the state of a single pipeline stage
type StageStatus int

const (
	StatusPending StageStatus = iota
	StatusRunning
	StatusDone
	StatusFailed
)

// StageProgress tracks one pipeline stage's row in the display
type StageProgress struct {
	Stage  assemble.Stage
	Status StageStatus

	// Latest informational line for the stage (fallback notices, cache
	// skips, clip counts)
	Detail string

	StartTime   time.Time
	ElapsedTime time.Duration
}

// Model is the Bubbletea model for the assembly UI
type Model struct {
	OutputPath string
	Stages     []StageProgress

	// Global state
	StartTime time.Time
	Done      bool
	Result    *assemble.Result
	Err       error

	// Terminal dimensions
	Width  int
	Height int
}

// NewModel creates a new UI model with a row per pipeline stage
func NewModel(outputPath string) Model {
	stages := make([]StageProgress, len(assemble.Stages))
	for i, s := range assemble.Stages {
		stages[i] = StageProgress{Stage: s, Status: StatusPending}
	}
	return Model{
		OutputPath: outputPath,
		Stages:     stages,
		StartTime:  time.Now(),
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
		for i := range m.Stages {
			if m.Stages[i].Status == StatusRunning {
				m.Stages[i].ElapsedTime = time.Since(m.Stages[i].StartTime)
			}
		}
		if !m.Done {
			return m, tickCmd()
		}

	case StageStartMsg:
		if i := m.stageIndex(msg.Stage); i >= 0 {
			m.Stages[i].Status = StatusRunning
			m.Stages[i].StartTime = time.Now()
			m.Stages[i].Detail = msg.Message
		}

	case StageNoteMsg:
		if i := m.stageIndex(msg.Stage); i >= 0 {
			m.Stages[i].Detail = msg.Message
		}

	case StageDoneMsg:
		if i := m.stageIndex(msg.Stage); i >= 0 {
			m.Stages[i].Status = StatusDone
			m.Stages[i].ElapsedTime = time.Since(m.Stages[i].StartTime)
			m.Stages[i].Detail = msg.Message
		}

	case RunCompleteMsg:
		m.Done = true
		m.Result = msg.Result
		m.Err = msg.Err
		if msg.Err != nil {
			for i := range m.Stages {
				if m.Stages[i].Status == StatusRunning {
					m.Stages[i].Status = StatusFailed
				}
			}
		}
		return m, tea.Quit
	}

	return m, nil
}

// View renders the UI
func (m Model) View() string {
	if m.Done {
		return renderCompletionSummary(m)
	}
	return renderAssemblyView(m)
}

func (m Model) stageIndex(stage assemble.Stage) int {
	for i := range m.Stages {
		if m.Stages[i].Stage == stage {
			return i
		}
	}
	return -1
}

type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
