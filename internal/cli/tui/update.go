package tui

import tea "github.com/charmbracelet/bubbletea"

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.Quitting = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height

	case TickMsg:
		return m, tickCmd()

	case EventMsg:
		m.Counts[msg.Event.Type]++
		m.LastEvent = msg.Event

	case CaseStartedMsg:
		// nothing to tally; RanCases advances on CaseFinishedMsg so the
		// counter reflects completed cases.

	case CaseFinishedMsg:
		m.RanCases++
		m.Failures = append(m.Failures, msg.Failures...)

	case DoneMsg:
		m.Done = true
		m.Failures = msg.Failures
		return m, tea.Quit
	}

	return m, nil
}
