package cache

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/intel/obs-service-git-buildpackage/errors"
	"github.com/intel/obs-service-git-buildpackage/git"
)

// CachedRepo is an open handle on a cache slot. The slot lock is held for the
// handle's whole lifetime; Close releases it and makes the slot available to
// the next opener. A closed handle rejects all further operations.
type CachedRepo struct {
	url    string
	path   string
	repo   *git.Repository
	lock   *slotLock
	log    zerolog.Logger
	closed bool
}

// Open returns a handle on the cache slot for url, creating or refreshing
// the cached mirror as needed. The slot lock is acquired before any
// inspection of the slot, so concurrent opens for the same URL from any
// process are fully serialized. An existing slot that fails to open as a git
// repository, or whose bare-ness does not match the requested mode, is
// destroyed and recloned; a fetch failure on a healthy slot is surfaced with
// the slot left intact, since a transient network error must not destroy a
// previously good cache.
func Open(ctx context.Context, cacheDir, url string, opts ...Option) (*CachedRepo, error) {
	o := newOptions(opts)
	log := o.log.With().Str("url", url).Logger()
	o.log = log

	slot := slotPath(cacheDir, url)
	if err := os.MkdirAll(filepath.Dir(slot), 0o755); err != nil {
		return nil, errors.Wrapf(err, errors.CodeCacheDir,
			"failed to create cache directory %s", filepath.Dir(slot))
	}

	lock, err := acquireLock(slot + ".lock")
	if err != nil {
		return nil, errors.WithContext(err, "url", url)
	}

	repo, err := openSlot(ctx, slot, url, o)
	if err != nil {
		_ = lock.release()
		return nil, errors.WithContext(err, "url", url)
	}

	return &CachedRepo{
		url:  url,
		path: slot,
		repo: repo,
		lock: lock,
		log:  log,
	}, nil
}

// openSlot validates, heals or creates the mirror at slot. The caller holds
// the slot lock.
func openSlot(ctx context.Context, slot, url string, o *options) (*git.Repository, error) {
	gitOpts := o.gitOptions()

	if _, err := os.Stat(slot); err == nil {
		repo, err := git.Open(slot, gitOpts...)
		if err == nil && repo.IsBare() == o.bare {
			o.log.Debug().Str("slot", slot).Msg("refreshing cached repository")
			if err := repo.ForceFetch(ctx, o.refsHack); err != nil {
				return nil, err
			}
			return repo, nil
		}

		o.log.Info().Str("slot", slot).
			Msg("cached repository is corrupted or has the wrong mode, recreating")
		if err := os.RemoveAll(slot); err != nil {
			return nil, errors.Wrapf(err, errors.CodeCacheDir,
				"failed to remove unusable cache slot %s", slot)
		}
	}

	o.log.Info().Str("slot", slot).Msg("cloning repository into cache")
	return git.Clone(ctx, slot, url, o.bare, o.refsHack, gitOpts...)
}

// Path returns the filesystem path of the cache slot.
func (c *CachedRepo) Path() string {
	return c.path
}

// Repo returns the cached repository.
// Returns a HANDLE_CLOSED platform error after Close.
func (c *CachedRepo) Repo() (*git.Repository, error) {
	if c.closed {
		return nil, errors.Newf(errors.CodeHandleClosed,
			"cached repository %s is closed", c.url)
	}
	return c.repo, nil
}

// UpdateWorkingCopy materializes commitish in the working copy: the tree is
// cleaned of any local mutation, HEAD is pointed at whatever the last fetch
// recorded as the remote's HEAD, and the resolved commit is checked out with
// HEAD hard-reset onto it. With submodules set, all submodules are
// initialized and updated recursively. Returns the object id commitish
// resolved to.
//
// Only valid on a non-bare handle.
func (c *CachedRepo) UpdateWorkingCopy(ctx context.Context, commitish string, submodules bool) (string, error) {
	repo, err := c.Repo()
	if err != nil {
		return "", err
	}
	if repo.IsBare() {
		return "", errors.Newf(errors.CodeInvalidOperation,
			"cannot update the working copy of a bare mirror")
	}

	// HEAD must reflect the remote's advertised HEAD, not a stale prior
	// checkout. An invalid remote HEAD was recorded as the all-zero id in
	// FETCH_HEAD and fails revision resolution below, rather than here.
	fetchHead, err := repo.GetRef("FETCH_HEAD")
	if err != nil {
		return "", err
	}
	if err := repo.SetRef("HEAD", fetchHead); err != nil {
		return "", err
	}

	// Local mutation should never happen in a pure cache but must not be
	// allowed to block progress.
	if err := repo.ForceClean(); err != nil {
		return "", err
	}

	sha, err := repo.RevParse(commitish)
	if err != nil {
		return "", err
	}

	c.log.Debug().Str("commitish", commitish).Str("sha", sha).Msg("updating working copy")
	if err := repo.ForceCheckout(ctx, sha); err != nil {
		return "", err
	}
	if err := repo.ForceHead(sha); err != nil {
		return "", err
	}
	if submodules {
		if err := repo.UpdateSubmodules(ctx); err != nil {
			return "", err
		}
	}

	return sha, nil
}

// Close releases the slot lock and invalidates the handle. Closing an
// already-closed handle is a no-op.
func (c *CachedRepo) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.repo = nil
	return c.lock.release()
}
