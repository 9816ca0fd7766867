package sched

import (
	"fmt"
	"os"
	"runtime"
)

// Fatal reports a precondition-violation or resource-exhaustion failure
// (spec.md §7 kinds 4 and 5) and terminates the process. There is no
// exception surface across the scheduler boundary: callers of Fatal
// never observe a return.
//
// invariant names the broken invariant; detail gives the offending
// values. The caller's file:line is resolved automatically.
func Fatal(invariant, detail string) {
	_, file, line, ok := runtime.Caller(1)
	if !ok {
		file, line = "unknown", 0
	}
	fmt.Fprintf(os.Stderr, "fatal: %s: %s (%s:%d)\n", invariant, detail, file, line)
	os.Exit(2)
}
