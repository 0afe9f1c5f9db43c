package cline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/fatih/color"
)

// LoggerName is the value of the "logger" attribute on every record the
// library writes.
const LoggerName = "cline"

// LogLevelEnv names the environment variable read when no log level is
// given to InvokeAndExit.
const LogLevelEnv = "CLINE_LOG_LEVEL"

const diagnosticMarker = "🔥 "

var (
	initLogging sync.Once

	// Threshold for the cline namespace. Until SetLogLevel is called, the
	// wrapped handler decides.
	namespaceLevel    slog.LevelVar
	namespaceLevelSet atomic.Bool
)

// InitLogging installs a text handler on the default slog logger, writing
// to w with source locations. Only the first call has any effect.
func InitLogging(w io.Writer) {
	initLogging.Do(func() {
		slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
			AddSource: true,
			Level:     slog.LevelWarn,
		})))
	})
}

// SetLogLevel sets the threshold for records logged under the cline
// namespace.
func SetLogLevel(level slog.Level) {
	namespaceLevel.Set(level)
	namespaceLevelSet.Store(true)
}

// ParseLevel parses a named ("debug", "info", "warn", "warning", "error",
// optionally with an offset such as "info+2") or numeric slog level.
func ParseLevel(s string) (slog.Level, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return slog.Level(n), nil
	}
	if strings.EqualFold(s, "warning") {
		return slog.LevelWarn, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}

// newLogger returns a logger under the cline namespace built on base.
func newLogger(base *slog.Logger) *slog.Logger {
	return slog.New(&namespaceHandler{Handler: base.Handler()}).With("logger", LoggerName)
}

type namespaceHandler struct {
	slog.Handler
}

func (h *namespaceHandler) Enabled(ctx context.Context, level slog.Level) bool {
	if namespaceLevelSet.Load() {
		return level >= namespaceLevel.Level()
	}
	return h.Handler.Enabled(ctx, level)
}

func (h *namespaceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &namespaceHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *namespaceHandler) WithGroup(name string) slog.Handler {
	return &namespaceHandler{Handler: h.Handler.WithGroup(name)}
}

// diagnosticPainter returns the function that styles diagnostic messages.
func diagnosticPainter(colored bool) func(a ...any) string {
	if !colored {
		return fmt.Sprint
	}
	c := color.New(color.FgRed, color.Bold)
	c.EnableColor()
	return c.SprintFunc()
}

func writeDiagnostic(out io.Writer, paint func(a ...any) string, message string) {
	fmt.Fprintf(out, "%s%s\n", diagnosticMarker, paint(message))
}

// levelFromEnv reads LogLevelEnv, returning false when it is unset or
// invalid.
func levelFromEnv() (slog.Level, bool) {
	value := os.Getenv(LogLevelEnv)
	if value == "" {
		return 0, false
	}
	level, err := ParseLevel(value)
	if err != nil {
		return 0, false
	}
	return level, true
}
