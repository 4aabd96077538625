package exec

import "fmt"

// ExecError describes a failed command run. Callers that need the tool's
// diagnostics (git, git-buildpackage) read the captured Stderr rather than
// parsing the error string.
type ExecError struct {
	// Command is the full argument vector that was executed.
	Command []string

	// ExitCode is the command's exit code, or -1 if it never started.
	ExitCode int

	// Stdout is the captured standard output.
	Stdout string

	// Stderr is the captured standard error.
	Stderr string

	// Err is the underlying error from os/exec.
	Err error
}

// Error implements the error interface.
func (e *ExecError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("command %v failed with exit code %d: %v", e.Command, e.ExitCode, e.Err)
	}
	return fmt.Sprintf("command %v failed with exit code %d", e.Command, e.ExitCode)
}

// Unwrap returns the underlying error.
func (e *ExecError) Unwrap() error {
	return e.Err
}
