package xpath

import (
	"io"
	"log/slog"
	"os"
)

type Tracer interface {
	Enter(string)
	Leave(string)
	Error(string, error)
	Warn(string, ...any)
}

func NoopTracer() Tracer {
	return discardTracer{}
}

type discardTracer struct{}

func (_ discardTracer) Enter(_ string)          {}
func (_ discardTracer) Leave(_ string)          {}
func (_ discardTracer) Error(_ string, _ error) {}
func (_ discardTracer) Warn(_ string, _ ...any) {}

type stdioTracer struct {
	logger   *slog.Logger
	depth    int
	errcount int
}

func TraceStdout() Tracer {
	return TraceLogger(stdioLogger(os.Stdout))
}

func TraceStderr() Tracer {
	return TraceLogger(stdioLogger(os.Stderr))
}

func TraceLogger(logger *slog.Logger) Tracer {
	tracer := stdioTracer{
		logger: logger,
	}
	return &tracer
}

func stdioLogger(w io.Writer) *slog.Logger {
	opts := slog.HandlerOptions{
		Level: slog.LevelDebug,
	}
	return slog.New(slog.NewTextHandler(w, &opts))
}

func (t *stdioTracer) Enter(rule string) {
	t.depth++
	args := []any{
		"rule",
		rule,
		"depth",
		t.depth,
	}
	t.logger.Debug("start compile rule", args...)
}

func (t *stdioTracer) Leave(rule string) {
	args := []any{
		"rule",
		rule,
		"depth",
		t.depth,
	}
	t.depth--
	t.logger.Debug("done compile rule", args...)
}

func (t *stdioTracer) Error(rule string, err error) {
	t.errcount++
	args := []any{
		"rule",
		rule,
		"depth",
		t.depth,
		"count",
		t.errcount,
		"err",
		err,
	}
	t.logger.Error("compile rule failed", args...)
}

func (t *stdioTracer) Warn(msg string, args ...any) {
	t.logger.Warn(msg, args...)
}
