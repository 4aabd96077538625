package cache

import (
	"github.com/rs/zerolog"

	"github.com/intel/obs-service-git-buildpackage/exec"
	"github.com/intel/obs-service-git-buildpackage/git"
)

// Option configures Open.
type Option func(*options)

type options struct {
	bare     bool
	refsHack bool
	executor exec.Executor
	log      zerolog.Logger
}

func newOptions(opts []Option) *options {
	o := &options{
		log: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithBare requests a bare mirror with no working tree. An existing slot
// whose mode does not match is destroyed and recloned.
func WithBare(bare bool) Option {
	return func(o *options) {
		o.bare = bare
	}
}

// WithRefsHack fetches all remote refs through an alternate namespace,
// tolerating refs a normal fetch refuses (e.g. branches resolving to tag
// objects, which some git servers allow).
func WithRefsHack(hack bool) Option {
	return func(o *options) {
		o.refsHack = hack
	}
}

// WithExecutor sets the executor used to run git commands.
func WithExecutor(executor exec.Executor) Option {
	return func(o *options) {
		o.executor = executor
	}
}

// WithLogger sets the logger for cache operations.
// The default discards all log output.
func WithLogger(log zerolog.Logger) Option {
	return func(o *options) {
		o.log = log
	}
}

// gitOptions translates cache options into repository options.
func (o *options) gitOptions() []git.Option {
	gitOpts := []git.Option{git.WithLogger(o.log)}
	if o.executor != nil {
		gitOpts = append(gitOpts, git.WithExecutor(o.executor))
	}
	return gitOpts
}
