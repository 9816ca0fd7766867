package tui

import "github.com/charmbracelet/lipgloss"

// Styles holds the dashboard's lipgloss styles.
type Styles struct {
	Title   lipgloss.Style
	Timer   lipgloss.Style
	Label   lipgloss.Style
	Value   lipgloss.Style
	Pass    lipgloss.Style
	Fail    lipgloss.Style
	Footer  lipgloss.Style
	LogLine lipgloss.Style
}

// DefaultStyles returns the dashboard's default color scheme.
func DefaultStyles() Styles {
	return Styles{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		Timer:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Label:   lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		Value:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
		Pass:    lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Fail:    lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		Footer:  lipgloss.NewStyle().Foreground(lipgloss.Color("245")).MarginTop(1),
		LogLine: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	}
}

const (
	IconPass    = "✓"
	IconFail    = "✗"
	IconRunning = "●"
)
