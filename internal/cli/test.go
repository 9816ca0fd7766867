package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/RevCBH/fiberd/internal/cli/tui"
	"github.com/RevCBH/fiberd/internal/selftest"
)

// NewTestCmd creates the test command: the self-test harness of
// spec.md §6. It always exits 0 and prints either one "FUNCTION:
// ASSERT(expr) failed: message" line per failed assertion, or the
// literal "ALL TESTS PASSED" line on success.
func NewTestCmd(app *App) *cobra.Command {
	var (
		withDashboard bool
		noDashboard   bool
	)

	cmd := &cobra.Command{
		Use:   "test",
		Short: "Run the fiberd self-test matrix",
		RunE: func(cmd *cobra.Command, args []string) error {
			useDashboard := withDashboard || (!noDashboard && isTerminal(os.Stdout))

			var failures []selftest.Failure
			if useDashboard {
				failures = runWithDashboard()
			} else {
				failures = selftest.Run()
			}

			out := cmd.OutOrStdout()
			if len(failures) == 0 {
				fmt.Fprintln(out, "ALL TESTS PASSED")
				return nil
			}
			for _, f := range failures {
				fmt.Fprintln(out, f.String())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&withDashboard, "tui", false, "show a live dashboard while the matrix runs")
	cmd.Flags().BoolVar(&noDashboard, "no-tui", false, "force plain line output even on a TTY")
	return cmd
}

// isTerminal reports whether f is an interactive terminal, the same
// check used to decide whether to drive a live display or fall back to
// plain output.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// runWithDashboard drives the self-test matrix inside a goroutine while
// a bubbletea program renders progress, bridged off each case's
// start/finish boundary (the self-test cases don't themselves hold a
// telemetry.Bus reference; the RPC scenario's own server still emits
// onto its own bus independently of this dashboard).
func runWithDashboard() []selftest.Failure {
	model := tui.NewModel(len(selftest.Names()))
	program := tea.NewProgram(model)
	bridge := tui.NewBridge(program)

	resultCh := make(chan []selftest.Failure, 1)
	go func() {
		failures := selftest.RunWithObserver(
			func(name string) { bridge.CaseStarted(name) },
			func(name string, caseFailures []selftest.Failure) {
				strs := make([]string, len(caseFailures))
				for i, f := range caseFailures {
					strs[i] = f.String()
				}
				bridge.CaseFinished(name, strs)
			},
		)
		strs := make([]string, len(failures))
		for i, f := range failures {
			strs[i] = f.String()
		}
		bridge.Done(strs)
		resultCh <- failures
	}()

	program.Run()
	return <-resultCh
}
