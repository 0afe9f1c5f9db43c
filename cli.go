package cline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
)

// Parser turns raw command line tokens into the flags it recognises and the
// tokens it does not. It also renders usage help.
type Parser interface {
	Parse(tokens []string) (known map[string]any, unknown []string, err error)
	Help() string
}

// Config configures a Cli. Zero values select the defaults.
type Config struct {
	// AppVersion is the host application version. Empty disables the
	// built-in version task.
	AppVersion string

	// Args are the command line tokens. Defaults to os.Args[1:].
	Args []string

	// Out receives task output, help, version and diagnostics. Defaults to
	// os.Stdout.
	Out io.Writer

	// Logger receives debug records about resolution. Defaults to
	// slog.Default().
	Logger *slog.Logger

	// Color styles diagnostic messages for a terminal.
	Color bool
}

// Cli resolves command line arguments to one of its tasks and runs it.
//
// A Cli serves a single invocation and is not safe for concurrent use.
type Cli struct {
	parser     Parser
	appVersion string
	rawArgs    []string
	out        io.Writer
	logger     *slog.Logger
	paint      func(a ...any) string
	tasks      []Task

	parseOnce sync.Once
	args      *Arguments
	parseErr  error
}

// New makes a Cli over the host's tasks. The candidate list is fixed here:
// the host tasks in order, then the version task when cfg.AppVersion is
// set, then the help task.
func New(parser Parser, tasks []Task, cfg Config) *Cli {
	if cfg.Args == nil {
		cfg.Args = os.Args[1:]
	}
	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	candidates := make([]Task, 0, len(tasks)+2)
	candidates = append(candidates, tasks...)
	if cfg.AppVersion != "" {
		candidates = append(candidates, VersionTask())
	}
	candidates = append(candidates, HelpTask())

	c := &Cli{
		parser:     parser,
		appVersion: cfg.AppVersion,
		rawArgs:    cfg.Args,
		out:        cfg.Out,
		logger:     newLogger(cfg.Logger),
		paint:      diagnosticPainter(cfg.Color),
		tasks:      candidates,
	}
	c.logger.Debug("Cli initialised.", "tasks", len(candidates), "version", cfg.AppVersion)
	return c
}

// AppVersion returns the host application version.
func (c *Cli) AppVersion() string {
	return c.appVersion
}

// Out returns the output writer.
func (c *Cli) Out() io.Writer {
	return c.out
}

// Tasks returns the candidate tasks in priority order.
func (c *Cli) Tasks() []Task {
	return append([]Task(nil), c.tasks...)
}

// Arguments parses the command line once and returns the result on every
// call.
func (c *Cli) Arguments() (*Arguments, error) {
	c.parseOnce.Do(func() {
		known, unknown, err := c.parser.Parse(c.rawArgs)
		if err != nil {
			c.parseErr = fmt.Errorf("failed to parse arguments: %w", err)
			return
		}
		c.args = NewArguments(known, unknown)
		c.logger.Debug("Arguments parsed.", "keys", c.args.Keys())
	})
	return c.args, c.parseErr
}

// Help returns the parser's usage help.
func (c *Cli) Help() string {
	return c.parser.Help()
}

// WriteHelp writes usage help to the output writer.
func (c *Cli) WriteHelp() {
	io.WriteString(c.out, c.Help())
}

// Resolve returns the first task, in priority order, able to build
// arguments from the command line. Later tasks are never tried.
func (c *Cli) Resolve() (Runner, error) {
	args, err := c.Arguments()
	if err != nil {
		return nil, err
	}

	for _, task := range c.tasks {
		c.logger.Debug("Asking task to make arguments.", "task", task.Name())
		runner, err := task.Bind(args, c.out)
		if err == nil {
			c.logger.Debug("Task made arguments.", "task", task.Name())
			return runner, nil
		}
		if !errors.Is(err, ErrCannotMakeArguments) {
			return nil, fmt.Errorf("task %s: %w", task.Name(), err)
		}
		c.logger.Debug("Task failed to make arguments.", "task", task.Name(), "reason", err)
	}
	return nil, ErrNoAvailableTasks
}

// Run resolves and safely invokes a task, renders help and version
// requests, and returns the process exit code.
func (c *Cli) Run(ctx context.Context) int {
	if _, err := c.Arguments(); err != nil {
		c.logger.Debug("Command line rejected.", "error", err)
		writeDiagnostic(c.out, c.paint, err.Error())
		return ExitUsage
	}

	runner, err := c.Resolve()
	if err != nil {
		c.logger.Error("Task resolution failed.", "error", err)
		writeDiagnostic(c.out, c.paint, err.Error())
		if errors.Is(err, ErrNoAvailableTasks) {
			return ExitNoTasks
		}
		return ExitTaskFailed
	}

	outcome := safeInvoke(ctx, runner, c.paint)
	c.logger.Debug("Task finished.", "task", runner.Name(), "outcome", outcome.Kind)

	switch outcome.Kind {
	case OutcomeNeedsHelp:
		c.WriteHelp()
		if outcome.Explicit {
			return ExitOK
		}
		return ExitImplicitHelp
	case OutcomeNeedsVersion:
		fmt.Fprintln(c.out, c.appVersion)
		return ExitOK
	case OutcomeCompleted:
		// An interrupt the task ignored still ends the run as one.
		if errors.Is(ctx.Err(), context.Canceled) {
			c.logger.Debug("Task finished after an interrupt.", "task", runner.Name(), "code", outcome.ExitCode)
			return ExitInterrupted
		}
		return outcome.ExitCode
	default:
		panic(fmt.Sprintf("cline: unhandled outcome %v", outcome.Kind))
	}
}
