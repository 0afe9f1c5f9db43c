package cline

import (
	"errors"
	"fmt"
)

var (
	// ErrCannotMakeArguments is returned by an argument builder when the
	// parsed arguments are not meant for its task.
	ErrCannotMakeArguments = errors.New("cannot make arguments")

	// ErrNoAvailableTasks means every candidate task, Help included, failed
	// to build arguments. It indicates a misconfigured host.
	ErrNoAvailableTasks = errors.New("no available tasks")

	// ErrInterrupted is returned by a task that was cancelled by the user.
	ErrInterrupted = errors.New("interrupted")

	// ErrVersionRequested is returned by a task that needs the host
	// application version printed.
	ErrVersionRequested = errors.New("user needs version")
)

// ArgumentError describes a typed accessor failure on Arguments.
type ArgumentError struct {
	Key    string
	Reason string
}

// Error implements the error interface for ArgumentError.
func (e *ArgumentError) Error() string {
	return fmt.Sprintf("argument %q %s", e.Key, e.Reason)
}

// Is lets resolution treat every ArgumentError as an eligibility failure.
func (e *ArgumentError) Is(target error) bool {
	return target == ErrCannotMakeArguments
}

// HelpRequest is returned by a task that needs usage help printed.
type HelpRequest struct {
	// Explicit is true when the user asked for help rather than falling
	// through to it.
	Explicit bool
}

// Error implements the error interface for HelpRequest.
func (h *HelpRequest) Error() string {
	if h.Explicit {
		return "user needs help (explicit)"
	}
	return "user needs help"
}

func missing(key string) error {
	return &ArgumentError{Key: key, Reason: "is not set"}
}

func wrongType(key, want string, value any) error {
	return &ArgumentError{Key: key, Reason: fmt.Sprintf("is %T, not %s", value, want)}
}
