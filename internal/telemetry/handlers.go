package telemetry

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// LogConfig configures LogHandler.
type LogConfig struct {
	// Writer is where log lines are written (default: os.Stderr).
	Writer io.Writer

	// IncludePayload includes the event payload in log output.
	IncludePayload bool

	// TimeFormat formats the leading timestamp (default: time.RFC3339).
	TimeFormat string
}

// LogHandler returns a Handler that writes one line per event in the
// form "<time> [event.type] fiber=... conn=... error=...".
func LogHandler(cfg LogConfig) Handler {
	if cfg.Writer == nil {
		cfg.Writer = os.Stderr
	}
	if cfg.TimeFormat == "" {
		cfg.TimeFormat = time.RFC3339
	}

	return func(e Event) {
		var buf strings.Builder
		buf.WriteString(e.Time.Format(cfg.TimeFormat))
		buf.WriteString(" ")
		buf.WriteString(e.String())
		if cfg.IncludePayload && e.Payload != nil {
			fmt.Fprintf(&buf, " payload=%v", e.Payload)
		}
		buf.WriteString("\n")
		fmt.Fprint(cfg.Writer, buf.String())
	}
}

// CountingHandler returns a Handler that tallies events by type, and a
// snapshot function returning the current counts.
func CountingHandler() (Handler, func() map[EventType]int) {
	var mu sync.Mutex
	counts := make(map[EventType]int)

	h := func(e Event) {
		mu.Lock()
		counts[e.Type]++
		mu.Unlock()
	}
	snapshot := func() map[EventType]int {
		mu.Lock()
		defer mu.Unlock()
		out := make(map[EventType]int, len(counts))
		for k, v := range counts {
			out[k] = v
		}
		return out
	}
	return h, snapshot
}
