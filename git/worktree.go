package git

import (
	"context"

	"github.com/intel/obs-service-git-buildpackage/errors"
)

// ForceCheckout discards any working-tree or index differences and forces the
// working tree to match commitish.
func (r *Repository) ForceCheckout(ctx context.Context, commitish string) error {
	if _, err := r.runGitContext(ctx, "checkout", "--force", commitish); err != nil {
		return errors.Wrapf(err, errors.CodeUnknownRevision,
			"failed to checkout %q (%s)", commitish, stderrOf(err))
	}
	return nil
}

// ForceClean removes all untracked and ignored files, including directories.
func (r *Repository) ForceClean() error {
	if _, err := r.runGit("clean", "-f", "-f", "-d", "-x"); err != nil {
		return errors.Wrapf(err, errors.CodeExecutionFailed,
			"failed to clean repository (%s)", stderrOf(err))
	}
	return nil
}

// ForceHead hard-resets HEAD (and the working tree) onto the given commit.
func (r *Repository) ForceHead(commit string) error {
	if _, err := r.runGit("reset", "--hard", commit); err != nil {
		return errors.Wrapf(err, errors.CodeExecutionFailed,
			"failed to reset HEAD to %s (%s)", commit, stderrOf(err))
	}
	return nil
}

// UpdateSubmodules initializes and recursively updates all submodules,
// fetching their objects as needed.
func (r *Repository) UpdateSubmodules(ctx context.Context) error {
	if _, err := r.runGitContext(ctx, "submodule", "update", "--init", "--recursive"); err != nil {
		return errors.Wrapf(err, errors.CodeFetchFailed,
			"failed to update submodules (%s)", stderrOf(err))
	}
	return nil
}
