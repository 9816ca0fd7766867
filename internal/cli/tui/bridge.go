package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/RevCBH/fiberd/internal/telemetry"
)

// Bridge forwards telemetry events into a running bubbletea program.
type Bridge struct {
	program *tea.Program
}

// NewBridge binds a Bridge to program.
func NewBridge(program *tea.Program) *Bridge {
	return &Bridge{program: program}
}

// Handler returns a telemetry.Handler suitable for Bus.Subscribe.
func (b *Bridge) Handler() telemetry.Handler {
	return func(e telemetry.Event) {
		b.program.Send(EventMsg{Event: e})
	}
}

// CaseStarted notifies the dashboard that a named test case began.
func (b *Bridge) CaseStarted(name string) {
	b.program.Send(CaseStartedMsg{Name: name})
}

// CaseFinished notifies the dashboard that a named test case ended,
// along with any failures it produced.
func (b *Bridge) CaseFinished(name string, failures []string) {
	b.program.Send(CaseFinishedMsg{Name: name, Failures: failures})
}

// Done notifies the dashboard that the whole matrix finished.
func (b *Bridge) Done(failures []string) {
	b.program.Send(DoneMsg{Failures: failures})
}
