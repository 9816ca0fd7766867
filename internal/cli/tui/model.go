// Package tui is the live dashboard shown while `fiberd test` runs the
// self-test matrix: a bubbletea program fed through a Bridge with case
// start/finish messages, showing case progress and failures as they
// happen. It also tallies telemetry events per type, but only for
// events a telemetry.Bus delivers through Bridge.Handler; `fiberd test`
// subscribes no bus, so those counters stay at zero during that run.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/RevCBH/fiberd/internal/telemetry"
)

// Model is the bubbletea model for the self-test dashboard.
type Model struct {
	Styles Styles

	TotalCases int
	RanCases   int
	Failures   []string

	Counts    map[telemetry.EventType]int
	StartTime time.Time
	LastEvent telemetry.Event

	Width  int
	Height int

	Quitting bool
	Done     bool
}

// NewModel creates a dashboard model for a run of totalCases test cases.
func NewModel(totalCases int) *Model {
	counts := make(map[telemetry.EventType]int, len(telemetry.AllEventTypes()))
	for _, t := range telemetry.AllEventTypes() {
		counts[t] = 0
	}
	return &Model{
		Styles:     DefaultStyles(),
		TotalCases: totalCases,
		Counts:     counts,
		StartTime:  time.Now(),
	}
}

func (m *Model) Init() tea.Cmd {
	return tickCmd()
}

// TickMsg drives the elapsed-time display.
type TickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// EventMsg wraps a telemetry event arriving from the bridge.
type EventMsg struct {
	Event telemetry.Event
}

// CaseStartedMsg marks the start of one registered test case.
type CaseStartedMsg struct {
	Name string
}

// CaseFinishedMsg marks the end of one registered test case, carrying
// any failures it produced.
type CaseFinishedMsg struct {
	Name     string
	Failures []string
}

// DoneMsg signals the whole matrix has finished running.
type DoneMsg struct {
	Failures []string
}
