package git

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/intel/obs-service-git-buildpackage/errors"
	"github.com/intel/obs-service-git-buildpackage/exec"
)

// Repository is a mirrored git repository driven through the git command-line
// tool. All I/O goes through the bound executor; the struct itself holds no
// open resources.
type Repository struct {
	path   string
	gitDir string
	bare   bool
	git    *exec.CommandWrapper
	log    zerolog.Logger
}

// Option configures repository construction (Open, Init, Clone).
type Option func(*options)

type options struct {
	executor exec.Executor
	log      zerolog.Logger
}

func newOptions(opts []Option) *options {
	o := &options{
		executor: exec.New(exec.WithInheritEnv()),
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithExecutor sets the executor used to run git commands.
// The default executes the git binary from PATH with the inherited
// environment. Tests provide mock executors through this option.
func WithExecutor(executor exec.Executor) Option {
	return func(o *options) {
		o.executor = executor
	}
}

// WithLogger sets the logger for repository operations.
// The default discards all log output.
func WithLogger(log zerolog.Logger) Option {
	return func(o *options) {
		o.log = log
	}
}

// Open opens an existing repository at path, detecting whether it is bare.
// Returns a NOT_FOUND platform error if path is not a git repository.
func Open(path string, opts ...Option) (*Repository, error) {
	o := newOptions(opts)

	repo := &Repository{
		path: path,
		git:  exec.NewWrapper(o.executor, "git"),
		log:  o.log.With().Str("repo", path).Logger(),
	}

	result, err := repo.runGit("rev-parse", "--is-bare-repository", "--git-dir")
	if err != nil {
		return nil, errors.WithContext(
			errors.Wrapf(err, errors.CodeNotFound, "%s is not a git repository", path),
			"path", path)
	}

	lines := strings.Split(strings.TrimSpace(result.Stdout), "\n")
	if len(lines) < 2 {
		return nil, errors.Newf(errors.CodeNotFound,
			"unexpected rev-parse output for %s: %q", path, result.Stdout)
	}

	repo.bare = lines[0] == "true"
	gitDir := lines[1]
	if !filepath.IsAbs(gitDir) {
		gitDir = filepath.Join(path, gitDir)
	}
	repo.gitDir = gitDir

	return repo, nil
}

// Init creates a new empty non-bare repository at path, creating the
// directory if needed.
func Init(path string, opts ...Option) (*Repository, error) {
	o := newOptions(opts)

	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, errors.Wrapf(err, errors.CodeCacheDir,
			"failed to create repository directory %s", path)
	}

	repo := &Repository{
		path:   path,
		gitDir: filepath.Join(path, ".git"),
		git:    exec.NewWrapper(o.executor, "git"),
		log:    o.log.With().Str("repo", path).Logger(),
	}

	if _, err := repo.runGit("init", "--quiet"); err != nil {
		return nil, errors.Wrapf(err, errors.CodeExecutionFailed,
			"failed to initialize repository at %s", path)
	}

	return repo, nil
}

// Path returns the filesystem path of the repository (the working copy root
// for non-bare repositories, the git database for bare ones).
func (r *Repository) Path() string {
	return r.path
}

// GitDir returns the path of the repository's git database.
func (r *Repository) GitDir() string {
	return r.gitDir
}

// IsBare reports whether the repository has no working tree.
func (r *Repository) IsBare() bool {
	return r.bare
}

// runGit executes a git subcommand in the repository directory.
func (r *Repository) runGit(args ...string) (*exec.Result, error) {
	return r.git.Clone().WithDir(r.path).Run(args...)
}

// runGitContext executes a git subcommand with cancellation support, for
// network-bound or long-running operations.
func (r *Repository) runGitContext(ctx context.Context, args ...string) (*exec.Result, error) {
	return r.git.Clone().WithContext(ctx).WithDir(r.path).Run(args...)
}

// stderrOf extracts the captured stderr from an exec error for diagnostics.
func stderrOf(err error) string {
	var execErr *exec.ExecError
	if errors.As(err, &execErr) {
		return strings.TrimSpace(execErr.Stderr)
	}
	return ""
}
