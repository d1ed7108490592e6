// Package state holds the answer and status shared between the query pipeline
// and the UI. A State is not safe for concurrent use: it is owned by the event
// loop goroutine, and every other goroutine reaches it by posting to that loop.
package state

import (
	"fmt"
	"unicode/utf8"

	"screen-answer-llm/src/answer"
)

// Phase is the pipeline stage reported by the status line.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseCapturing
	PhaseAnalyzing
	PhaseReady
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseCapturing:
		return "capturing"
	case PhaseAnalyzing:
		return "analyzing"
	case PhaseReady:
		return "ready"
	case PhaseError:
		return "error"
	default:
		return "idle"
	}
}

// maxStatusErrorLen bounds the error detail shown on the status line.
const maxStatusErrorLen = 50

// Status is the (text, color) pair shown on the status line.
type Status struct {
	Phase Phase
	Text  string
	Color string
}

// NewStatus renders the status line for phase. detail is only used by PhaseError.
func NewStatus(phase Phase, detail string) Status {
	switch phase {
	case PhaseCapturing:
		return Status{Phase: phase, Text: "📸 Capturing screen...", Color: "yellow"}
	case PhaseAnalyzing:
		return Status{Phase: phase, Text: "🤖 Analyzing with AI...", Color: "yellow"}
	case PhaseReady:
		return Status{Phase: phase, Text: "✅ Answer ready! Press . to show answer", Color: "green"}
	case PhaseError:
		return Status{Phase: phase, Text: fmt.Sprintf("❌ Error: %s...", truncateRunes(detail, maxStatusErrorLen)), Color: "red"}
	default:
		return Status{Phase: PhaseIdle}
	}
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// State is the single answer slot plus the current status.
type State struct {
	answer string
	status Status
}

func New() *State { return &State{} }

// Answer returns the latest answer, or "" before the first run completes.
func (s *State) Answer() string { return s.answer }

// HasAnswer reports whether there is anything to show.
func (s *State) HasAnswer() bool { return s.answer != "" }

func (s *State) Status() Status { return s.status }

// SetAnswer overwrites the answer slot. Only the latest value is kept.
func (s *State) SetAnswer(text string) {
	s.answer = text
}

// SetError stores err as an "Error: " answer and switches the status to error.
func (s *State) SetError(err error) {
	s.SetAnswer(answer.FromError(err))
	s.status = NewStatus(PhaseError, err.Error())
}

func (s *State) SetStatus(st Status) { s.status = st }
