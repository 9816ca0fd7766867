package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/RevCBH/fiberd/internal/telemetry"
)

func TestUpdateTalliesEventCounts(t *testing.T) {
	m := NewModel(3)
	m2, _ := m.Update(EventMsg{Event: telemetry.New(telemetry.FiberStarted)})
	updated := m2.(*Model)
	m2, _ = updated.Update(EventMsg{Event: telemetry.New(telemetry.FiberStarted)})
	updated = m2.(*Model)

	assert.Equal(t, 2, updated.Counts[telemetry.FiberStarted])
}

func TestUpdateAdvancesRanCasesOnFinish(t *testing.T) {
	m := NewModel(2)
	m2, _ := m.Update(CaseFinishedMsg{Name: "case-a", Failures: nil})
	updated := m2.(*Model)
	assert.Equal(t, 1, updated.RanCases)
	assert.Empty(t, updated.Failures)
}

func TestUpdateCollectsFailuresAcrossCases(t *testing.T) {
	m := NewModel(2)
	m2, _ := m.Update(CaseFinishedMsg{Name: "case-a", Failures: []string{"boom"}})
	updated := m2.(*Model)
	m2, _ = updated.Update(DoneMsg{Failures: []string{"boom"}})
	updated = m2.(*Model)

	assert.True(t, updated.Done)
	assert.Equal(t, []string{"boom"}, updated.Failures)
}
