package git

import (
	"context"
	"strings"

	"github.com/intel/obs-service-git-buildpackage/exec"
)

// fakeExecutor is a scripted exec.Executor. Each Run call is recorded and
// dispatched to the respond function; fluent configuration calls are no-ops.
type fakeExecutor struct {
	calls   [][]string
	respond func(args []string) (*exec.Result, error)
}

func newFakeExecutor(respond func(args []string) (*exec.Result, error)) *fakeExecutor {
	return &fakeExecutor{respond: respond}
}

func (f *fakeExecutor) WithEnv(map[string]string) exec.Executor   { return f }
func (f *fakeExecutor) WithDir(string) exec.Executor              { return f }
func (f *fakeExecutor) WithContext(context.Context) exec.Executor { return f }
func (f *fakeExecutor) WithTimeout(string) exec.Executor          { return f }
func (f *fakeExecutor) WithInheritEnv() exec.Executor             { return f }
func (f *fakeExecutor) Clone() exec.Executor                      { return f }

func (f *fakeExecutor) Run(args ...string) (*exec.Result, error) {
	f.calls = append(f.calls, args)
	return f.respond(args)
}

// gitArgs strips the leading binary name from a recorded call.
func gitArgs(call []string) []string {
	if len(call) > 0 && call[0] == "git" {
		return call[1:]
	}
	return call
}

// hasCall reports whether a call matching the given prefix was recorded.
func (f *fakeExecutor) hasCall(prefix ...string) bool {
	return f.callIndex(prefix...) >= 0
}

// callIndex returns the position of the first call matching prefix, or -1.
func (f *fakeExecutor) callIndex(prefix ...string) int {
	for i, call := range f.calls {
		args := gitArgs(call)
		if len(args) < len(prefix) {
			continue
		}
		if strings.Join(args[:len(prefix)], " ") == strings.Join(prefix, " ") {
			return i
		}
	}
	return -1
}

func ok(stdout string) (*exec.Result, error) {
	return &exec.Result{Stdout: stdout}, nil
}

func fail(stderr string) (*exec.Result, error) {
	result := &exec.Result{Stderr: stderr, ExitCode: 1}
	return result, &exec.ExecError{
		ExitCode: 1,
		Stderr:   stderr,
	}
}
