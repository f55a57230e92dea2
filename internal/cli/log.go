package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger returns the CLI logger. Timestamps use centisecond precision
// ("14:32:01.45") so stage timings line up in verbose output.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// timed starts a clock and returns a func that logs a message with the
// elapsed time, e.g. "Rendered 3 format(s) (12ms)".
func timed(l *log.Logger) func(msg string) {
	start := time.Now()
	return func(msg string) {
		l.Infof("%s (%s)", msg, time.Since(start).Round(time.Millisecond))
	}
}

type loggerKey struct{}

// withLogger attaches l to ctx for the subcommands.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// loggerFromContext returns the logger set by withLogger, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*log.Logger); ok && l != nil {
		return l
	}
	return log.Default()
}
