package git

import (
	"context"
	"os"
	"path/filepath"

	"github.com/intel/obs-service-git-buildpackage/errors"
	"github.com/intel/obs-service-git-buildpackage/exec"
)

const (
	// tmpFetchHead is the definitely-absent branch HEAD is parked on during a
	// fetch. git refuses to fetch at all while the local HEAD is a symbolic
	// ref whose target fails validation mid-transaction; a target that does
	// not exist avoids that validation path entirely.
	tmpFetchHead = "refs/heads/non-existent-tmp-for-fetching"

	// altRefsRoot is the alternate refs namespace used by the refs hack.
	altRefsRoot = "refs.alt"

	// ZeroOID is the all-zero object id. ForceFetch writes it into FETCH_HEAD
	// when the remote HEAD is invalid, recording the condition as a value for
	// the working-copy update to detect instead of an error to propagate.
	ZeroOID = "0000000000000000000000000000000000000000"
)

// ForceFetch synchronizes the full ref namespace of origin into the local
// repository, tolerating a remote HEAD that points at a deleted branch.
//
// With refsHack set, all remote refs are fetched into an alternate namespace
// that is symlinked over the refs directory. This tolerates refs a normal
// fetch refuses, such as branches resolving to tag objects, which some git
// servers (Gerrit) are able to create.
func (r *Repository) ForceFetch(ctx context.Context, refsHack bool) (retErr error) {
	origHead, err := r.GetRef("HEAD")
	if err != nil {
		return err
	}
	if err := r.SetRef("HEAD", tmpFetchHead); err != nil {
		return err
	}

	defer func() {
		if err := r.SetRef("HEAD", origHead); err != nil && retErr == nil {
			retErr = err
		}
		if refsHack {
			// Point ref lookups at the freshly fetched namespace.
			err := r.symlinkRefs(filepath.Join(altRefsRoot, "fetch"))
			if err != nil && retErr == nil {
				retErr = err
			}
		}
	}()

	var refspec string
	if refsHack {
		if err := r.symlinkRefs(altRefsRoot); err != nil {
			return err
		}
		// Packed refs may contain entries that no longer exist in the
		// remote and are not aligned with a hacked fetch.
		packedRefs := filepath.Join(r.gitDir, "packed-refs")
		if err := os.Remove(packedRefs); err != nil && !os.IsNotExist(err) {
			return errors.Wrap(err, errors.CodeRefUpdate, "failed to remove packed-refs")
		}
		refspec = "+refs/*:refs/fetch/*"
	} else {
		if err := r.resetRefsDir(); err != nil {
			return err
		}
		refspec = "+refs/*:refs/*"
	}

	r.log.Debug().Str("refspec", refspec).Msg("fetching from origin")
	if _, err := r.runGitContext(ctx, "fetch", "-q", "-u", "-p", "origin", refspec); err != nil {
		return errors.Wrapf(err, errors.CodeFetchFailed,
			"fetch from origin failed (%s)", stderrOf(err))
	}

	// Fetch the remote HEAD separately. A remote whose HEAD points at a
	// deleted branch is broken but legal; record that state in FETCH_HEAD
	// instead of failing the whole synchronization.
	if _, err := r.runGitContext(ctx, "fetch", "-q", "-u", "origin", "HEAD"); err != nil {
		r.log.Info().Msg("remote HEAD is invalid, invalidating FETCH_HEAD")
		if err := r.SetRef("FETCH_HEAD", ZeroOID); err != nil {
			return err
		}
	}

	return nil
}

// Clone creates a mirrored clone of url at path. For bare mode this is a
// standard mirror clone; otherwise an empty repository is initialized, origin
// is registered with a mirror refspec, and the ref namespace is populated by
// ForceFetch.
func Clone(ctx context.Context, path, url string, bare, refsHack bool, opts ...Option) (*Repository, error) {
	o := newOptions(opts)

	if bare {
		wrapper := exec.NewWrapper(o.executor, "git")
		if _, err := wrapper.Clone().WithContext(ctx).Run("clone", "--quiet", "--mirror", url, path); err != nil {
			return nil, errors.Wrapf(err, errors.CodeCloneFailed,
				"mirror clone of %s failed (%s)", url, stderrOf(err))
		}
		return Open(path, opts...)
	}

	o.log.Debug().Str("url", url).Msg("initializing non-bare mirrored repo")
	repo, err := Init(path, opts...)
	if err != nil {
		return nil, err
	}
	if _, err := repo.runGit("remote", "add", "origin", url); err != nil {
		return nil, errors.Wrapf(err, errors.CodeCloneFailed,
			"failed to add remote %s (%s)", url, stderrOf(err))
	}
	// The refspec is mostly redundant as ForceFetch passes its own, but
	// having it in config keeps a plain git fetch behaving like a mirror.
	if err := repo.SetConfig("remote.origin.fetch", "+refs/*:refs/*", true); err != nil {
		return nil, err
	}
	if err := repo.ForceFetch(ctx, refsHack); err != nil {
		return nil, err
	}
	return repo, nil
}
