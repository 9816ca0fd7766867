package telemetry

import (
	"bytes"
	"strings"
	"testing"
)

func TestLogHandlerFormat(t *testing.T) {
	var buf bytes.Buffer
	handler := LogHandler(LogConfig{Writer: &buf})

	handler(New(RPCConnectionAccepted).WithConn("c-42").WithFiber("f-7"))

	out := buf.String()
	if !strings.Contains(out, "[rpc.connection.accepted]") {
		t.Errorf("expected output to contain [rpc.connection.accepted], got: %s", out)
	}
	if !strings.Contains(out, "conn=c-42") {
		t.Errorf("expected output to contain conn=c-42, got: %s", out)
	}
	if !strings.Contains(out, "fiber=f-7") {
		t.Errorf("expected output to contain fiber=f-7, got: %s", out)
	}
}

func TestLogHandlerIncludePayload(t *testing.T) {
	var buf bytes.Buffer
	handler := LogHandler(LogConfig{Writer: &buf, IncludePayload: true})
	handler(New(TimerFired).WithPayload(42))

	if !strings.Contains(buf.String(), "payload=42") {
		t.Errorf("expected payload in output, got: %s", buf.String())
	}
}

func TestCountingHandlerTallies(t *testing.T) {
	handler, snapshot := CountingHandler()
	handler(New(FiberStarted))
	handler(New(FiberStarted))
	handler(New(FiberFinished))

	counts := snapshot()
	if counts[FiberStarted] != 2 {
		t.Errorf("expected 2 FiberStarted, got %d", counts[FiberStarted])
	}
	if counts[FiberFinished] != 1 {
		t.Errorf("expected 1 FiberFinished, got %d", counts[FiberFinished])
	}
}
