package exec

import (
	"context"
	"syscall"
)

// Executor is the main interface for executing commands.
// It provides a fluent API for configuring and running commands.
type Executor interface {
	// WithEnv sets environment variables for the command.
	// These are local settings that override any global environment variables.
	WithEnv(env map[string]string) Executor

	// WithDir sets the working directory for the command.
	// This is a local setting that overrides any global working directory.
	WithDir(dir string) Executor

	// WithContext sets the context for the command.
	// The command will be canceled if the context is canceled.
	WithContext(ctx context.Context) Executor

	// WithTimeout sets a timeout for the command execution.
	// This is a convenience method that creates a context with timeout.
	WithTimeout(timeout string) Executor

	// WithInheritEnv inherits environment variables from the parent process.
	WithInheritEnv() Executor

	// Run executes the command with the given arguments.
	// It returns a Result containing the captured output and exit code.
	Run(args ...string) (*Result, error)

	// Clone creates a copy of the executor with the same configuration.
	// This is useful for creating multiple executors with the same base
	// configuration without local settings bleeding between them.
	Clone() Executor
}

// Result represents the result of a command execution.
type Result struct {
	// Stdout is the captured standard output
	Stdout string

	// Stderr is the captured standard error
	Stderr string

	// Combined is the combined stdout and stderr output
	Combined string

	// ExitCode is the exit code returned by the command
	ExitCode int
}

// Option is a function that configures a Command with global settings.
// These settings are applied at creation time and can be overridden by local settings.
type Option func(*Command)

// WithEnv returns an Option that sets global environment variables.
func WithEnv(env map[string]string) Option {
	return func(c *Command) {
		c.WithEnv(env)
	}
}

// WithDir returns an Option that sets the global working directory.
func WithDir(dir string) Option {
	return func(c *Command) {
		c.WithDir(dir)
	}
}

// WithContext returns an Option that sets the global context.
func WithContext(ctx context.Context) Option {
	return func(c *Command) {
		c.WithContext(ctx)
	}
}

// WithInheritEnv returns an Option that globally enables environment inheritance.
func WithInheritEnv() Option {
	return func(c *Command) {
		c.WithInheritEnv()
	}
}

// WithCredential returns an Option that runs all commands under the given
// uid/gid. Requires the calling process to hold the privilege to switch
// identity.
func WithCredential(cred *syscall.Credential) Option {
	return func(c *Command) {
		c.config.credential = cred
	}
}
