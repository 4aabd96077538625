package cache

import (
	"github.com/gofrs/flock"

	"github.com/intel/obs-service-git-buildpackage/errors"
)

// slotLock is an exclusive advisory lock on a slot's sidecar lock file. The
// lock serializes slot access across unrelated processes. It is not
// re-entrant: a second acquisition of the same path blocks even within one
// process, matching OS advisory-lock semantics.
type slotLock struct {
	fl   *flock.Flock
	held bool
}

// acquireLock opens (creating if necessary) the lock file at path and blocks
// until an exclusive lock is held.
func acquireLock(path string) (*slotLock, error) {
	fl := flock.New(path)
	if err := fl.Lock(); err != nil {
		return nil, errors.Wrapf(err, errors.CodeLockFailed,
			"failed to lock %s", path)
	}
	return &slotLock{fl: fl, held: true}, nil
}

// release drops the lock. Releasing an already-released lock is a no-op.
func (l *slotLock) release() error {
	if !l.held {
		return nil
	}
	l.held = false
	if err := l.fl.Unlock(); err != nil {
		return errors.Wrapf(err, errors.CodeLockFailed,
			"failed to unlock %s", l.fl.Path())
	}
	return nil
}
