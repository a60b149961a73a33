package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/presspause/slidecast/internal/assemble"
)

// StageStartMsg indicates a pipeline stage has begun.
type StageStartMsg struct {
	Stage   assemble.Stage
	Message string
}

// StageNoteMsg carries informational detail for the running stage, including
// fallback notices.
type StageNoteMsg struct {
	Stage   assemble.Stage
	Message string
}

// StageDoneMsg indicates a pipeline stage has finished.
type StageDoneMsg struct {
	Stage   assemble.Stage
	Message string
}

// RunCompleteMsg indicates the whole pipeline has finished, successfully or
// not.
type RunCompleteMsg struct {
	Result *assemble.Result
	Err    error
}

// EventMsg converts a pipeline progress event into the matching UI message.
func EventMsg(e assemble.Event) tea.Msg {
	switch e.Kind {
	case assemble.KindStart:
		return StageStartMsg{Stage: e.Stage, Message: e.Message}
	case assemble.KindDone:
		return StageDoneMsg{Stage: e.Stage, Message: e.Message}
	default:
		return StageNoteMsg{Stage: e.Stage, Message: e.Message}
	}
}
