package git

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/intel/obs-service-git-buildpackage/errors"
)

// GetRef returns where a ref points. For a symbolic ref this is the
// fully-qualified target (e.g. refs/heads/master); anything else is resolved
// to an object id.
func (r *Repository) GetRef(ref string) (string, error) {
	result, err := r.runGit("symbolic-ref", ref)
	if err != nil {
		return r.RevParse(ref)
	}
	return firstLine(result.Stdout), nil
}

// SetRef changes a ref. Values that look like a ref path (refs/...) are
// written as symbolic refs through git; any other value is written directly
// into the ref file. The raw write deliberately bypasses git's validation so
// a ref can be pointed at an object id that does not exist locally, which the
// fetch protocol depends on.
func (r *Repository) SetRef(ref, value string) error {
	if strings.HasPrefix(value, "refs/") {
		result, err := r.runGit("symbolic-ref", "-q", ref, value)
		// git-symbolic-ref exits 0 even on some failures, so check
		// stderr as well.
		if err != nil || strings.TrimSpace(result.Stderr) != "" {
			diag := stderrOf(err)
			if diag == "" && result != nil {
				diag = strings.TrimSpace(result.Stderr)
			}
			return errors.Newf(errors.CodeRefUpdate,
				"failed to set symbolic ref %s to %s: %s", ref, value, diag)
		}
		return nil
	}

	refPath := filepath.Join(r.gitDir, ref)
	if err := os.WriteFile(refPath, []byte(value+"\n"), 0o644); err != nil {
		return errors.Wrapf(err, errors.CodeRefUpdate, "failed to write ref %s", ref)
	}
	return nil
}

// RevParse resolves a revision to an object id.
// Returns an UNKNOWN_REVISION platform error if the revision does not resolve.
func (r *Repository) RevParse(rev string) (string, error) {
	result, err := r.runGit("rev-parse", "--quiet", "--verify", rev)
	if err != nil {
		return "", errors.Wrapf(err, errors.CodeUnknownRevision,
			"revision %q not found", rev)
	}
	return firstLine(result.Stdout), nil
}

// symlinkRefs replaces the repository's refs directory with a relative
// symlink to tgt (a path inside the git dir), creating the target directory
// if needed.
func (r *Repository) symlinkRefs(tgt string) error {
	tgtAbs := filepath.Join(r.gitDir, tgt)
	refsPath := filepath.Join(r.gitDir, "refs")

	if err := os.MkdirAll(tgtAbs, 0o755); err != nil {
		return errors.Wrapf(err, errors.CodeRefUpdate,
			"failed to create alternate refs directory %s", tgtAbs)
	}

	info, err := os.Lstat(refsPath)
	switch {
	case err == nil && info.Mode()&os.ModeSymlink == 0:
		r.log.Info().Str("path", refsPath).Msg("removing old refs directory")
		if err := os.RemoveAll(refsPath); err != nil {
			return errors.Wrap(err, errors.CodeRefUpdate, "failed to remove refs directory")
		}
	case err == nil:
		if err := os.Remove(refsPath); err != nil {
			return errors.Wrap(err, errors.CodeRefUpdate, "failed to remove refs symlink")
		}
	case !os.IsNotExist(err):
		return errors.Wrap(err, errors.CodeRefUpdate, "failed to inspect refs directory")
	}

	r.log.Debug().Str("target", tgt).Str("link", refsPath).Msg("symlinking refs")
	if err := os.Symlink(tgt, refsPath); err != nil {
		return errors.Wrapf(err, errors.CodeRefUpdate, "failed to symlink refs to %s", tgt)
	}
	return nil
}

// resetRefsDir undoes a previous refs-hack symlink: the link target directory
// is deleted and a plain empty refs directory takes the symlink's place.
// A repository without the symlink is left untouched.
func (r *Repository) resetRefsDir() error {
	refsPath := filepath.Join(r.gitDir, "refs")

	info, err := os.Lstat(refsPath)
	if err != nil || info.Mode()&os.ModeSymlink == 0 {
		return nil
	}

	linkTgt, err := os.Readlink(refsPath)
	if err != nil {
		return errors.Wrap(err, errors.CodeRefUpdate, "failed to read refs symlink")
	}

	tgtPath := filepath.Join(r.gitDir, linkTgt)
	r.log.Debug().Str("target", tgtPath).Msg("removing refs symlink and link target")
	if err := os.RemoveAll(tgtPath); err != nil {
		return errors.Wrap(err, errors.CodeRefUpdate, "failed to remove refs symlink target")
	}
	if err := os.Remove(refsPath); err != nil {
		return errors.Wrap(err, errors.CodeRefUpdate, "failed to remove refs symlink")
	}
	if err := os.Mkdir(refsPath, 0o755); err != nil {
		return errors.Wrap(err, errors.CodeRefUpdate, "failed to recreate refs directory")
	}
	return nil
}

// firstLine returns the first line of s with surrounding whitespace trimmed.
func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
