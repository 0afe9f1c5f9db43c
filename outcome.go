package cline

// Exit codes returned by the dispatcher on its own behalf.
const (
	ExitOK           = 0
	ExitImplicitHelp = 1
	ExitUsage        = 2
	ExitInterrupted  = 100
	ExitTaskFailed   = 101
	ExitNoTasks      = 102
)

// OutcomeKind tags an Outcome.
type OutcomeKind int

const (
	// OutcomeCompleted means the task ran to an exit code.
	OutcomeCompleted OutcomeKind = iota
	// OutcomeNeedsHelp means usage help must be rendered.
	OutcomeNeedsHelp
	// OutcomeNeedsVersion means the application version must be rendered.
	OutcomeNeedsVersion
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeCompleted:
		return "completed"
	case OutcomeNeedsHelp:
		return "needs-help"
	case OutcomeNeedsVersion:
		return "needs-version"
	default:
		return "unknown"
	}
}

// Outcome is the result of safely invoking a task.
type Outcome struct {
	Kind OutcomeKind
	// ExitCode is set for OutcomeCompleted.
	ExitCode int
	// Explicit is set for OutcomeNeedsHelp.
	Explicit bool
}

// Completed makes an OutcomeCompleted.
func Completed(code int) Outcome {
	return Outcome{Kind: OutcomeCompleted, ExitCode: code}
}

// NeedsHelp makes an OutcomeNeedsHelp.
func NeedsHelp(explicit bool) Outcome {
	return Outcome{Kind: OutcomeNeedsHelp, Explicit: explicit}
}

// NeedsVersion makes an OutcomeNeedsVersion.
func NeedsVersion() Outcome {
	return Outcome{Kind: OutcomeNeedsVersion}
}
