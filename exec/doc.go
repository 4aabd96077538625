// Package exec provides a testable interface for executing local commands.
//
// The package wraps the standard library's os/exec, providing the Command
// struct that implements the Executor interface. Following Go best practices,
// the package returns concrete types (Command, CommandWrapper) while callers
// accept the Executor interface in their parameters, making it easy to mock
// command execution in tests.
//
// # Basic usage
//
// Create an executor and run a command:
//
//	exec := exec.New()
//	result, err := exec.Run("git", "rev-parse", "HEAD")
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(result.Stdout)
//
// # Command wrappers
//
// For tools that are executed frequently, create a wrapper that automatically
// prepends the command name:
//
//	git := exec.NewWrapper(exec.New(), "git")
//	result, err := git.WithDir("/repo").Run("status")
//	// Equivalent to: exec.New().WithDir("/repo").Run("git", "status")
//
// # Error handling
//
// Command failures return a structured error that includes the exit code,
// command, and captured output:
//
//	result, err := exec.Run("false")
//	if err != nil {
//		execErr := err.(*exec.ExecError)
//		fmt.Printf("exit code: %d, stderr: %s\n", execErr.ExitCode, execErr.Stderr)
//	}
//
// # Context support
//
// Commands respect context cancellation and timeouts:
//
//	result, err := exec.WithContext(ctx).Run("git", "fetch", "origin")
package exec
