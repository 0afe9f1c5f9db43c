/*
Package cline dispatches a command line to one of a host application's
tasks.

Each task pairs an argument builder with an invoke function. The builder is
tried speculatively: the first task, in registration order, whose builder
succeeds is bound to its strongly-typed arguments and invoked. A version
task (when the host has a version) and a help task are always appended as
fallbacks, so a command line nothing else understands ends in usage help.

Exit codes:
  - 0   success, explicit help or version
  - 1   implicit help (no task matched)
  - 2   the command line could not be parsed
  - 100 interrupted by the user
  - 101 the task failed or panicked
  - 102 no task, not even help, could build arguments
  - otherwise whatever the task returned
*/
package cline

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
)

// ExitOptions configure InvokeAndExit.
type ExitOptions struct {
	Config

	// InitLogging installs the default log handler on stderr.
	InitLogging bool

	// LogLevel sets the cline log threshold. When empty, CLINE_LOG_LEVEL
	// is read instead.
	LogLevel string

	// Exit is called with the exit code. Defaults to os.Exit.
	Exit func(code int)
}

// InvokeAndExit builds a Cli with newCli, runs it and exits with its code.
// The first interrupt signal cancels the context passed to the running task
// and ends the run with ExitInterrupted. A second interrupt kills the process.
func InvokeAndExit(ctx context.Context, newCli func(Config) *Cli, opts ExitOptions) {
	if opts.InitLogging {
		InitLogging(os.Stderr)
	}

	if opts.LogLevel != "" {
		level, err := ParseLevel(opts.LogLevel)
		if err != nil {
			slog.Warn("Ignoring log level.", "logger", LoggerName, "error", err)
		} else {
			SetLogLevel(level)
		}
	} else if level, ok := levelFromEnv(); ok {
		SetLogLevel(level)
	}

	exit := opts.Exit
	if exit == nil {
		exit = os.Exit
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	context.AfterFunc(ctx, stop)
	cli := newCli(opts.Config)
	code := cli.Run(ctx)
	stop()
	exit(code)
}
