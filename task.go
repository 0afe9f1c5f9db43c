package cline

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// Task is a candidate unit of work registered with a Cli.
type Task interface {
	// Name identifies the task in logs.
	Name() string

	// Bind builds the task's arguments from args and binds them, with out,
	// to a Runner. It must not have side effects: Bind is called
	// speculatively for every candidate until one succeeds. Errors matching
	// ErrCannotMakeArguments mean "not my turn".
	Bind(args *Arguments, out io.Writer) (Runner, error)
}

// Runner is a task bound to its arguments and output writer.
type Runner interface {
	Name() string
	Out() io.Writer
	Invoke(ctx context.Context) (int, error)
}

// MakeArgsFunc builds strongly-typed task arguments.
type MakeArgsFunc[T any] func(args *Arguments) (T, error)

// InvokeFunc performs a task and returns the process exit code.
type InvokeFunc[T any] func(ctx context.Context, task *Instance[T]) (int, error)

type definition[T any] struct {
	name     string
	makeArgs MakeArgsFunc[T]
	invoke   InvokeFunc[T]
}

// Define describes a task with arguments of type T.
func Define[T any](name string, makeArgs MakeArgsFunc[T], invoke InvokeFunc[T]) Task {
	return &definition[T]{name: name, makeArgs: makeArgs, invoke: invoke}
}

func (d *definition[T]) Name() string {
	return d.name
}

func (d *definition[T]) Bind(args *Arguments, out io.Writer) (Runner, error) {
	taskArgs, err := d.makeArgs(args)
	if err != nil {
		return nil, err
	}
	return &Instance[T]{name: d.name, args: taskArgs, out: out, invoke: d.invoke}, nil
}

// Instance is a resolved task: a definition bound to validated arguments.
type Instance[T any] struct {
	name   string
	args   T
	out    io.Writer
	invoke InvokeFunc[T]
}

// Name returns the task name.
func (i *Instance[T]) Name() string {
	return i.name
}

// Args returns the task's arguments.
func (i *Instance[T]) Args() T {
	return i.args
}

// Out returns the writer the task reports to.
func (i *Instance[T]) Out() io.Writer {
	return i.out
}

// Invoke runs the task.
func (i *Instance[T]) Invoke(ctx context.Context) (int, error) {
	return i.invoke(ctx, i)
}

// Flag describes a task with no arguments that is eligible only when the
// boolean flag is set.
func Flag(name, flag string, invoke InvokeFunc[struct{}]) Task {
	return Define(name, func(args *Arguments) (struct{}, error) {
		return struct{}{}, args.AssertTrue(flag)
	}, invoke)
}

// Eager describes a task with no arguments that is always eligible.
func Eager(name string, invoke InvokeFunc[struct{}]) Task {
	return Define(name, func(*Arguments) (struct{}, error) {
		return struct{}{}, nil
	}, invoke)
}

// SafeInvoke invokes r and contains its failures. Help and version requests
// are returned as outcomes for the caller to render. Interrupts complete
// with ExitInterrupted. Any other error, or a panic, is written to r.Out()
// as a one-line diagnostic and completes with ExitTaskFailed.
func SafeInvoke(ctx context.Context, r Runner) Outcome {
	return safeInvoke(ctx, r, fmt.Sprint)
}

func safeInvoke(ctx context.Context, r Runner, paint func(a ...any) string) (outcome Outcome) {
	defer func() {
		if p := recover(); p != nil {
			writeDiagnostic(r.Out(), paint, fmt.Sprint(p))
			outcome = Completed(ExitTaskFailed)
		}
	}()

	code, err := r.Invoke(ctx)
	if err == nil {
		return Completed(code)
	}

	var help *HelpRequest
	switch {
	case errors.Is(err, ErrInterrupted), errors.Is(err, context.Canceled):
		return Completed(ExitInterrupted)
	case errors.As(err, &help):
		return NeedsHelp(help.Explicit)
	case errors.Is(err, ErrVersionRequested):
		return NeedsVersion()
	default:
		writeDiagnostic(r.Out(), paint, err.Error())
		return Completed(ExitTaskFailed)
	}
}
