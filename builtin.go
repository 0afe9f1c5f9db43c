package cline

import "context"

// HelpArgs are the arguments of the built-in help task.
type HelpArgs struct {
	// Explicit is true when the user asked for help, and false when help
	// was reached because no other task matched.
	Explicit bool
}

// HelpTask is the unconditional fallback. It is always eligible and asks
// the dispatcher to print usage help.
func HelpTask() Task {
	return Define("help",
		func(args *Arguments) (HelpArgs, error) {
			// A malformed help value still falls back to implicit help.
			explicit, _ := args.BoolOr("help", false)
			return HelpArgs{Explicit: explicit}, nil
		},
		func(_ context.Context, t *Instance[HelpArgs]) (int, error) {
			return 0, &HelpRequest{Explicit: t.Args().Explicit}
		},
	)
}

// VersionTask is eligible when the "version" flag is set and asks the
// dispatcher to print the application version.
func VersionTask() Task {
	return Flag("version", "version", func(context.Context, *Instance[struct{}]) (int, error) {
		return 0, ErrVersionRequested
	})
}
