package xpath

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestTraceLogger(t *testing.T) {
	var (
		buf    bytes.Buffer
		logger = slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	)
	if _, err := Compile("1 + $x", WithTracer(TraceLogger(logger))); err != nil {
		t.Fatalf("fail to compile expression: %s", err)
	}
	out := buf.String()
	for _, str := range []string{"start compile rule", "done compile rule", "rule=additive", "rule=primary"} {
		if !strings.Contains(out, str) {
			t.Errorf("trace should contain %q", str)
		}
	}

	buf.Reset()
	if _, err := Compile("1 +", WithTracer(TraceLogger(logger))); err == nil {
		t.Fatalf("expected error but compilation succeeded")
	}
	if out := buf.String(); !strings.Contains(out, "compile rule failed") || !strings.Contains(out, "count=1") {
		t.Errorf("trace should contain the error record:\n%s", out)
	}
}

func TestTraceWarning(t *testing.T) {
	var (
		buf    bytes.Buffer
		logger = slog.New(slog.NewTextHandler(&buf, nil))
	)
	if _, err := Compile("4 quo 2", WithTracer(TraceLogger(logger))); err != nil {
		t.Fatalf("fail to compile expression: %s", err)
	}
	out := buf.String()
	if !strings.Contains(out, "level=WARN") || !strings.Contains(out, ErrQuo.Error()) {
		t.Errorf("trace should contain the quo warning:\n%s", out)
	}
	if strings.Contains(out, "start compile rule") {
		t.Errorf("debug records should be filtered at info level")
	}
}
