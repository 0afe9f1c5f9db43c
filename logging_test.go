package cline

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{in: "debug", want: slog.LevelDebug},
		{in: "INFO", want: slog.LevelInfo},
		{in: "warn", want: slog.LevelWarn},
		{in: "Warning", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
		{in: "info+2", want: slog.LevelInfo + 2},
		{in: "8", want: slog.LevelError},
		{in: "-4", want: slog.LevelDebug},
		{in: "loud", wantErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseLevel(tc.in)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

// The tests below change the process-wide cline log level and must not run
// in parallel.

func TestNamespaceHandler_Level(t *testing.T) {
	t.Cleanup(func() { namespaceLevelSet.Store(false) })

	buf := &bytes.Buffer{}
	logger := newLogger(slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelWarn})))

	logger.Debug("hidden by the base handler")
	require.Empty(t, buf.String())

	SetLogLevel(slog.LevelDebug)
	logger.Debug("shown", "k", "v")
	require.Contains(t, buf.String(), "msg=shown")
	require.Contains(t, buf.String(), "logger=cline")

	buf.Reset()
	SetLogLevel(slog.LevelError)
	logger.Warn("hidden by the namespace level")
	require.Empty(t, buf.String())
}

func TestInvokeAndExit(t *testing.T) {
	t.Cleanup(func() { namespaceLevelSet.Store(false) })

	testCases := []struct {
		name     string
		opts     ExitOptions
		wantOut  string
		wantCode int
	}{
		{
			name:     "explicit help",
			opts:     ExitOptions{Config: Config{Args: []string{"--help"}}, LogLevel: "WARNING"},
			wantOut:  "help\n",
			wantCode: 0,
		},
		{
			name:     "implicit help",
			opts:     ExitOptions{Config: Config{Args: []string{}}, LogLevel: "WARNING"},
			wantOut:  "help\n",
			wantCode: 1,
		},
		{
			name:     "interrupt",
			opts:     ExitOptions{Config: Config{Args: []string{"--interrupt"}}},
			wantCode: 100,
		},
		{
			name:     "value error",
			opts:     ExitOptions{Config: Config{Args: []string{"--value-error"}}},
			wantOut:  "🔥 this is a value error\n",
			wantCode: 101,
		},
		{
			name:     "version",
			opts:     ExitOptions{Config: Config{AppVersion: "1.1.1", Args: []string{"--version"}}},
			wantOut:  "1.1.1\n",
			wantCode: 0,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out := &bytes.Buffer{}
			code := -1
			opts := tc.opts
			opts.Out = out
			opts.Exit = func(c int) { code = c }

			InvokeAndExit(context.Background(), newFooCli, opts)

			require.Equal(t, tc.wantCode, code)
			require.Equal(t, tc.wantOut, out.String())
		})
	}
}

func TestInvokeAndExit_LogLevel(t *testing.T) {
	t.Cleanup(func() { namespaceLevelSet.Store(false) })

	opts := ExitOptions{
		Config:   Config{Args: []string{"--help"}, Out: &bytes.Buffer{}},
		LogLevel: "WARNING",
		Exit:     func(int) {},
	}
	InvokeAndExit(context.Background(), newFooCli, opts)

	require.True(t, namespaceLevelSet.Load())
	require.Equal(t, slog.LevelWarn, namespaceLevel.Level())
}

func TestInvokeAndExit_LogLevelFromEnv(t *testing.T) {
	t.Cleanup(func() { namespaceLevelSet.Store(false) })
	t.Setenv(LogLevelEnv, "error")

	opts := ExitOptions{
		Config: Config{Args: []string{"--help"}, Out: &bytes.Buffer{}},
		Exit:   func(int) {},
	}
	InvokeAndExit(context.Background(), newFooCli, opts)

	require.Equal(t, slog.LevelError, namespaceLevel.Level())
}

func TestInvokeAndExit_NoLogLevel(t *testing.T) {
	t.Cleanup(func() { namespaceLevelSet.Store(false) })
	t.Setenv(LogLevelEnv, "")

	opts := ExitOptions{
		Config: Config{Args: []string{"--help"}, Out: &bytes.Buffer{}},
		Exit:   func(int) {},
	}
	InvokeAndExit(context.Background(), newFooCli, opts)

	require.False(t, namespaceLevelSet.Load())
}

func TestInitLogging(t *testing.T) {
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	first, second := &bytes.Buffer{}, &bytes.Buffer{}
	InitLogging(first)
	InitLogging(second)

	slog.Info("below the threshold")
	slog.Warn("kept", "k", "v")

	require.NotContains(t, first.String(), "below the threshold")
	require.Contains(t, first.String(), "level=WARN")
	require.Contains(t, first.String(), "source=")
	require.Contains(t, first.String(), "msg=kept k=v")
	require.Empty(t, second.String(), "only the first call installs a handler")
}

func TestInvokeAndExit_InterruptIgnoredByTask(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("interrupt signals cannot be sent to the current process on windows")
	}
	t.Cleanup(func() { namespaceLevelSet.Store(false) })
	t.Setenv(LogLevelEnv, "")

	// The task never returns the context error; it just finishes late.
	stubborn := Eager("stubborn", func(ctx context.Context, _ *Instance[struct{}]) (int, error) {
		p, err := os.FindProcess(os.Getpid())
		if err != nil {
			return 0, err
		}
		if err := p.Signal(os.Interrupt); err != nil {
			return 0, err
		}
		select {
		case <-ctx.Done():
		case <-time.After(5 * time.Second):
			return 0, errors.New("interrupt never arrived")
		}
		return 0, nil
	})
	newCli := func(cfg Config) *Cli {
		return New(&fooParser{}, []Task{stubborn}, cfg)
	}

	out := &bytes.Buffer{}
	code := -1
	InvokeAndExit(context.Background(), newCli, ExitOptions{
		Config: Config{Args: []string{}, Out: out, Logger: slog.New(slog.NewTextHandler(io.Discard, nil))},
		Exit:   func(c int) { code = c },
	})

	require.Equal(t, ExitInterrupted, code)
	require.Empty(t, out.String())
}
