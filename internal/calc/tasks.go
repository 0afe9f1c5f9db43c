package calc

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ldamasio/cline"
	"github.com/ldamasio/cline/internal/broadcast"
)

// NumberArgs are the arguments of the sum and subtract tasks.
type NumberArgs struct {
	A, B    int
	JSON    bool
	Publish bool
	Flags   SettingsFlags
}

// ServeArgs are the arguments of the serve task.
type ServeArgs struct {
	Flags SettingsFlags
}

// SumTask prints a + b when --sum is set.
func SumTask(app App) cline.Task {
	return cline.Define("sum", makeNumberArgs("sum"), app.arithmetic("sum", func(a, b int) int { return a + b }))
}

// SubtractTask prints a - b when --sub is set.
func SubtractTask(app App) cline.Task {
	return cline.Define("subtract", makeNumberArgs("sub"), app.arithmetic("subtract", func(a, b int) int { return a - b }))
}

// ServeTask serves published results over WebSocket when --serve is set.
func ServeTask(app App) cline.Task {
	return cline.Define("serve",
		func(args *cline.Arguments) (ServeArgs, error) {
			if err := args.AssertTrue("serve"); err != nil {
				return ServeArgs{}, err
			}
			flags, err := settingsFlags(args)
			if err != nil {
				return ServeArgs{}, err
			}
			return ServeArgs{Flags: flags}, nil
		},
		func(ctx context.Context, t *cline.Instance[ServeArgs]) (int, error) {
			settings, err := ResolveSettings(t.Args().Flags)
			if err != nil {
				return 0, err
			}
			logger := slog.Default().With("logger", "calc")
			if err := app.serve(ctx, settings, logger); err != nil {
				return 0, err
			}
			return 0, nil
		},
	)
}

func makeNumberArgs(selector string) cline.MakeArgsFunc[NumberArgs] {
	return func(args *cline.Arguments) (NumberArgs, error) {
		// Reject arguments meant for another task before validating ours.
		if err := args.AssertTrue(selector); err != nil {
			return NumberArgs{}, err
		}

		a, err := args.Integer("a")
		if err != nil {
			return NumberArgs{}, err
		}
		b, err := args.Integer("b")
		if err != nil {
			return NumberArgs{}, err
		}
		asJSON, err := args.BoolOr("json", false)
		if err != nil {
			return NumberArgs{}, err
		}
		publish, err := args.BoolOr("publish", false)
		if err != nil {
			return NumberArgs{}, err
		}
		flags, err := settingsFlags(args)
		if err != nil {
			return NumberArgs{}, err
		}
		return NumberArgs{A: a, B: b, JSON: asJSON, Publish: publish, Flags: flags}, nil
	}
}

func (app App) arithmetic(name string, op func(a, b int) int) cline.InvokeFunc[NumberArgs] {
	return func(ctx context.Context, t *cline.Instance[NumberArgs]) (int, error) {
		args := t.Args()
		result := op(args.A, args.B)

		if args.JSON {
			if err := outputJSON(t.Out(), map[string]interface{}{
				"task":   name,
				"a":      args.A,
				"b":      args.B,
				"result": result,
			}); err != nil {
				return 0, err
			}
		} else if _, err := fmt.Fprintf(t.Out(), "%d\n", result); err != nil {
			return 0, err
		}

		if args.Publish {
			if err := app.publish(ctx, args.Flags, broadcast.NewEvent(name, args.A, args.B, result)); err != nil {
				return 0, err
			}
		}
		return 0, nil
	}
}

func (app App) publish(ctx context.Context, flags SettingsFlags, event broadcast.Event) error {
	settings, err := ResolveSettings(flags)
	if err != nil {
		return err
	}
	publisher := app.publisher(settings)
	defer publisher.Close()
	return publisher.Publish(ctx, event)
}

func settingsFlags(args *cline.Arguments) (SettingsFlags, error) {
	var flags SettingsFlags
	for key, dest := range map[string]*string{
		"config":  &flags.ConfigPath,
		"redis":   &flags.RedisAddr,
		"channel": &flags.Channel,
		"port":    &flags.Port,
	} {
		value, err := args.StringOr(key, "")
		if err != nil {
			return SettingsFlags{}, err
		}
		*dest = value
	}
	return flags, nil
}
