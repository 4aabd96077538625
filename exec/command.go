package exec

import (
	"context"
	osexec "os/exec"
	"syscall"
	"time"
)

// Command is the concrete implementation of the Executor interface.
// It provides command execution with configurable settings.
type Command struct {
	config  *config
	ctx     context.Context
	timeout string
}

// New creates a new Command with the given options.
// Options set global defaults that can be overridden by local settings.
func New(opts ...Option) *Command {
	cmd := &Command{
		config: newConfig(),
		ctx:    context.Background(),
	}

	for _, opt := range opts {
		opt(cmd)
	}

	return cmd
}

// WithEnv sets environment variables for the command.
func (c *Command) WithEnv(env map[string]string) Executor {
	for k, v := range env {
		c.config.localEnv[k] = v
	}
	return c
}

// WithDir sets the working directory for the command.
func (c *Command) WithDir(dir string) Executor {
	c.config.localDir = dir
	return c
}

// WithContext sets the context for the command.
func (c *Command) WithContext(ctx context.Context) Executor {
	c.ctx = ctx
	return c
}

// WithTimeout sets a timeout for the command.
func (c *Command) WithTimeout(timeout string) Executor {
	c.timeout = timeout
	return c
}

// WithInheritEnv enables environment inheritance.
func (c *Command) WithInheritEnv() Executor {
	val := true
	c.config.localInheritEnv = &val
	return c
}

// Run executes the command with the given arguments.
func (c *Command) Run(args ...string) (*Result, error) {
	if len(args) == 0 {
		return nil, &ExecError{
			Command:  args,
			ExitCode: -1,
			Err:      osexec.ErrNotFound,
		}
	}

	// Apply timeout if set
	ctx := c.ctx
	if c.timeout != "" {
		duration, err := time.ParseDuration(c.timeout)
		if err != nil {
			return nil, &ExecError{
				Command:  args,
				ExitCode: -1,
				Err:      err,
			}
		}
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, duration)
		defer cancel()
	}

	cmd := osexec.CommandContext(ctx, args[0], args[1:]...)

	if dir := c.config.effectiveDir(); dir != "" {
		cmd.Dir = dir
	}

	cmd.Env = c.config.effectiveEnviron()

	if c.config.credential != nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{Credential: c.config.credential}
	}

	// Capture stdout and stderr separately plus an order-preserving
	// combined stream.
	stdout := newOutputCapture()
	stderr := newOutputCapture()
	combined := newCombinedWriter()

	cmd.Stdout = newMultiWriter(stdout, combined)
	cmd.Stderr = newMultiWriter(stderr, combined)

	err := cmd.Run()

	// ProcessState is nil when the command never started (e.g. binary not
	// found).
	exitCode := -1
	if cmd.ProcessState != nil {
		exitCode = cmd.ProcessState.ExitCode()
	}

	result := &Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Combined: combined.String(),
		ExitCode: exitCode,
	}

	// Reset local configuration for next run
	c.config.resetLocal()
	c.timeout = ""

	if err != nil {
		return result, &ExecError{
			Command:  args,
			ExitCode: result.ExitCode,
			Stdout:   result.Stdout,
			Stderr:   result.Stderr,
			Err:      err,
		}
	}

	return result, nil
}

// Clone creates a copy of the executor with the same configuration.
func (c *Command) Clone() Executor {
	return &Command{
		config: c.config.clone(),
		ctx:    c.ctx,
	}
}
