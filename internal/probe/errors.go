package probe

import (
	"fmt"
)

// ExecutionError represents a command that could not be started or exited
// with a non-zero code.
type ExecutionError struct {
	// Command is the command line that failed
	Command string
	// ExitCode is the process exit code, -1 when it never ran
	ExitCode int
	// Stdout is the captured standard output (for context)
	Stdout string
	// Stderr is the captured standard error
	Stderr string
	// Underlying error if any
	Err error
}

func (e *ExecutionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("command %q failed (exit code %d): %v", e.Command, e.ExitCode, e.Err)
	}
	return fmt.Sprintf("command %q failed (exit code %d)", e.Command, e.ExitCode)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// TimeoutError represents a command killed after exceeding its deadline.
type TimeoutError struct {
	// Command is the command line that timed out
	Command string
	// Timeout is the duration that was exceeded
	Timeout string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("command %q timed out after %s", e.Command, e.Timeout)
}

// PrivilegeError is returned by the native collaborators when raw sockets are
// not available to the process.
type PrivilegeError struct {
	// Operation is the native probe that needs raw sockets
	Operation string
	// Underlying error
	Err error
}

func (e *PrivilegeError) Error() string {
	return fmt.Sprintf("%s needs raw socket access: %v\n"+
		"Hint: Run as root, grant CAP_NET_RAW, or use the command probe mode.",
		e.Operation, e.Err)
}

func (e *PrivilegeError) Unwrap() error {
	return e.Err
}
