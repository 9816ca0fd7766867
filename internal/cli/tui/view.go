package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/RevCBH/fiberd/internal/telemetry"
)

func (m *Model) View() string {
	if m.Done || m.Quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")
	b.WriteString(m.renderCounts())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m *Model) renderHeader() string {
	elapsed := time.Since(m.StartTime).Round(100 * time.Millisecond)
	title := m.Styles.Title.Render("fiberd self-test")
	timer := m.Styles.Timer.Render(fmt.Sprintf("%s elapsed", elapsed))
	progress := m.Styles.Label.Render(fmt.Sprintf("case %d/%d", m.RanCases, m.TotalCases))
	return fmt.Sprintf("%s  %s  %s", title, progress, timer)
}

func (m *Model) renderCounts() string {
	var b strings.Builder
	keys := make([]string, 0, len(m.Counts))
	for k := range m.Counts {
		keys = append(keys, string(k))
	}
	sort.Strings(keys)
	for _, k := range keys {
		count := m.Counts[telemetry.EventType(k)]
		b.WriteString(fmt.Sprintf("  %s %s\n", m.Styles.Label.Render(k+":"), m.Styles.Value.Render(fmt.Sprintf("%d", count))))
	}
	return b.String()
}

func (m *Model) renderFooter() string {
	status := m.Styles.Pass.Render(fmt.Sprintf("%s no failures yet", IconPass))
	if len(m.Failures) > 0 {
		status = m.Styles.Fail.Render(fmt.Sprintf("%s %d failure(s)", IconFail, len(m.Failures)))
	}
	return m.Styles.Footer.Render(status + "  (q to quit)")
}
