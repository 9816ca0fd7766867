package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersionCmdPrintsSetVersion(t *testing.T) {
	app := New()
	app.SetVersion("1.2.3", "abcdef", "2026-07-31")

	var buf bytes.Buffer
	app.rootCmd.SetOut(&buf)
	app.rootCmd.SetArgs([]string{"version"})
	assert.NoError(t, app.Execute())

	out := buf.String()
	assert.Contains(t, out, "fiberd version 1.2.3")
	assert.Contains(t, out, "commit: abcdef")
	assert.Contains(t, out, "built: 2026-07-31")
}

func TestVersionCmdFallsBackToDevUnknown(t *testing.T) {
	app := New()

	var buf bytes.Buffer
	app.rootCmd.SetOut(&buf)
	app.rootCmd.SetArgs([]string{"version"})
	assert.NoError(t, app.Execute())

	out := buf.String()
	assert.Contains(t, out, "fiberd version dev")
	assert.Contains(t, out, "commit: unknown")
	assert.Contains(t, out, "built: unknown")
}
