package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTestCmdPrintsAllTestsPassed(t *testing.T) {
	app := New()

	var buf bytes.Buffer
	app.rootCmd.SetOut(&buf)
	app.rootCmd.SetArgs([]string{"test"})
	assert.NoError(t, app.Execute())
	assert.Equal(t, "ALL TESTS PASSED\n", buf.String())
}
