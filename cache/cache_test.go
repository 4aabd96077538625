package cache

import (
	"context"
	"os"
	osexec "os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intel/obs-service-git-buildpackage/errors"
	"github.com/intel/obs-service-git-buildpackage/git"
	"github.com/intel/obs-service-git-buildpackage/git/testutil"
)

// The lifecycle tests drive the real git binary against file-transport
// remotes built with go-git.
func requireGit(t *testing.T) {
	t.Helper()
	if _, err := osexec.LookPath("git"); err != nil {
		t.Skip("git binary not found in PATH")
	}
}

func newRemote(t *testing.T) *testutil.RemoteRepo {
	t.Helper()
	remote, err := testutil.NewRemoteRepo(filepath.Join(t.TempDir(), "remote"))
	require.NoError(t, err)
	return remote
}

func TestOpenAndUpdateWorkingCopy(t *testing.T) {
	requireGit(t)
	ctx := context.Background()
	remote := newRemote(t)
	cacheDir := t.TempDir()

	cached, err := Open(ctx, cacheDir, remote.Path)
	require.NoError(t, err)
	defer cached.Close()

	assert.Equal(t, slotPath(cacheDir, remote.Path), cached.Path())

	head, err := remote.Head()
	require.NoError(t, err)

	sha, err := cached.UpdateWorkingCopy(ctx, "master", false)
	require.NoError(t, err)
	assert.Equal(t, head, sha)

	content, err := os.ReadFile(filepath.Join(cached.Path(), "README.md"))
	require.NoError(t, err)
	assert.Equal(t, testutil.TestFileContent, string(content))

	// HEAD reflects the remote's advertised HEAD after an update.
	repo, err := cached.Repo()
	require.NoError(t, err)
	headSha, err := repo.RevParse("HEAD")
	require.NoError(t, err)
	assert.Equal(t, head, headSha)
}

func TestReopenFetchesInsteadOfCloning(t *testing.T) {
	requireGit(t)
	ctx := context.Background()
	remote := newRemote(t)
	cacheDir := t.TempDir()

	first, err := Open(ctx, cacheDir, remote.Path)
	require.NoError(t, err)
	slot := first.Path()

	repo, err := first.Repo()
	require.NoError(t, err)
	marker := filepath.Join(repo.GitDir(), "cache-slot-marker")
	require.NoError(t, os.WriteFile(marker, []byte("x"), 0o644))
	require.NoError(t, first.Close())

	newSha, err := remote.AddCommit("feature.txt", "feature\n", testutil.TestFeatureCommit)
	require.NoError(t, err)

	second, err := Open(ctx, cacheDir, remote.Path)
	require.NoError(t, err)
	defer second.Close()

	// Same slot, refreshed in place rather than recloned.
	assert.Equal(t, slot, second.Path())
	_, err = os.Stat(marker)
	assert.NoError(t, err, "slot was recloned instead of fetched")

	sha, err := second.UpdateWorkingCopy(ctx, "master", false)
	require.NoError(t, err)
	assert.Equal(t, newSha, sha)
}

func TestBareModeMismatchRebuildsSlot(t *testing.T) {
	requireGit(t)
	ctx := context.Background()
	remote := newRemote(t)
	cacheDir := t.TempDir()

	bare, err := Open(ctx, cacheDir, remote.Path, WithBare(true))
	require.NoError(t, err)

	repo, err := bare.Repo()
	require.NoError(t, err)
	assert.True(t, repo.IsBare())

	marker := filepath.Join(bare.Path(), "stale-mirror-marker")
	require.NoError(t, os.WriteFile(marker, []byte("x"), 0o644))
	require.NoError(t, bare.Close())

	nonBare, err := Open(ctx, cacheDir, remote.Path, WithBare(false))
	require.NoError(t, err)
	defer nonBare.Close()

	repo, err = nonBare.Repo()
	require.NoError(t, err)
	assert.False(t, repo.IsBare())

	// Nothing from the stale mirror survives the rebuild.
	_, err = os.Stat(marker)
	assert.True(t, os.IsNotExist(err))

	_, err = nonBare.UpdateWorkingCopy(ctx, "master", false)
	assert.NoError(t, err)
}

func TestCorruptedSlotSelfHeals(t *testing.T) {
	requireGit(t)
	ctx := context.Background()
	remote := newRemote(t)
	cacheDir := t.TempDir()

	cached, err := Open(ctx, cacheDir, remote.Path)
	require.NoError(t, err)
	slot := cached.Path()
	require.NoError(t, cached.Close())

	// Wreck the git database but leave the slot directory in place.
	require.NoError(t, os.RemoveAll(filepath.Join(slot, ".git")))

	healed, err := Open(ctx, cacheDir, remote.Path)
	require.NoError(t, err)
	defer healed.Close()

	_, err = healed.UpdateWorkingCopy(ctx, "master", false)
	assert.NoError(t, err)
}

func TestUpdateWorkingCopyOnBareRepo(t *testing.T) {
	requireGit(t)
	ctx := context.Background()
	remote := newRemote(t)

	cached, err := Open(ctx, t.TempDir(), remote.Path, WithBare(true))
	require.NoError(t, err)
	defer cached.Close()

	_, err = cached.UpdateWorkingCopy(ctx, "master", false)
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidOperation, errors.GetCode(err))
}

func TestUpdateWorkingCopyUnknownRevision(t *testing.T) {
	requireGit(t)
	ctx := context.Background()
	remote := newRemote(t)

	cached, err := Open(ctx, t.TempDir(), remote.Path)
	require.NoError(t, err)
	defer cached.Close()

	_, err = cached.UpdateWorkingCopy(ctx, "master", false)
	require.NoError(t, err)

	_, err = cached.UpdateWorkingCopy(ctx, "no/such/ref", false)
	require.Error(t, err)
	assert.Equal(t, errors.CodeUnknownRevision, errors.GetCode(err))
	assert.Contains(t, err.Error(), "no/such/ref")

	// The failed update leaves the previous working tree in place.
	content, err := os.ReadFile(filepath.Join(cached.Path(), "README.md"))
	require.NoError(t, err)
	assert.Equal(t, testutil.TestFileContent, string(content))
}

func TestClosedHandle(t *testing.T) {
	requireGit(t)
	ctx := context.Background()
	remote := newRemote(t)

	cached, err := Open(ctx, t.TempDir(), remote.Path)
	require.NoError(t, err)
	require.NoError(t, cached.Close())
	require.NoError(t, cached.Close(), "close is idempotent")

	_, err = cached.Repo()
	assert.Equal(t, errors.CodeHandleClosed, errors.GetCode(err))

	_, err = cached.UpdateWorkingCopy(ctx, "master", false)
	assert.Equal(t, errors.CodeHandleClosed, errors.GetCode(err))
}

func TestBrokenRemoteHead(t *testing.T) {
	requireGit(t)
	ctx := context.Background()
	remote := newRemote(t)

	head, err := remote.Head()
	require.NoError(t, err)
	require.NoError(t, remote.BreakHead())

	// The clone must survive a remote HEAD pointing at a deleted branch.
	cached, err := Open(ctx, t.TempDir(), remote.Path)
	require.NoError(t, err)
	defer cached.Close()

	repo, err := cached.Repo()
	require.NoError(t, err)

	fetchHead, err := repo.GetRef("FETCH_HEAD")
	require.NoError(t, err)
	assert.Equal(t, git.ZeroOID, fetchHead)

	_, err = cached.UpdateWorkingCopy(ctx, "HEAD", false)
	require.Error(t, err)
	assert.Equal(t, errors.CodeUnknownRevision, errors.GetCode(err))

	sha, err := cached.UpdateWorkingCopy(ctx, "master", false)
	require.NoError(t, err)
	assert.Equal(t, head, sha)
}

func TestRefsHackLifecycle(t *testing.T) {
	requireGit(t)
	ctx := context.Background()
	remote := newRemote(t)
	cacheDir := t.TempDir()

	hacked, err := Open(ctx, cacheDir, remote.Path, WithRefsHack(true))
	require.NoError(t, err)

	repo, err := hacked.Repo()
	require.NoError(t, err)

	// The hacked slot resolves refs through the alternate namespace.
	refsPath := filepath.Join(repo.GitDir(), "refs")
	info, err := os.Lstat(refsPath)
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&os.ModeSymlink)

	_, err = hacked.UpdateWorkingCopy(ctx, "master", false)
	require.NoError(t, err)
	require.NoError(t, hacked.Close())

	// Reopening without the hack must recover the slot in place.
	plain, err := Open(ctx, cacheDir, remote.Path, WithRefsHack(false))
	require.NoError(t, err)
	defer plain.Close()

	repo, err = plain.Repo()
	require.NoError(t, err)
	info, err = os.Lstat(filepath.Join(repo.GitDir(), "refs"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	_, err = plain.UpdateWorkingCopy(ctx, "master", false)
	assert.NoError(t, err)
}

func TestConcurrentOpensAreSerialized(t *testing.T) {
	requireGit(t)
	ctx := context.Background()
	remote := newRemote(t)
	cacheDir := t.TempDir()

	first, err := Open(ctx, cacheDir, remote.Path)
	require.NoError(t, err)

	type result struct {
		openedAt time.Time
		err      error
	}
	done := make(chan result, 1)
	go func() {
		second, err := Open(ctx, cacheDir, remote.Path)
		r := result{openedAt: time.Now(), err: err}
		if err == nil {
			_ = second.Close()
		}
		done <- r
	}()

	// Give the second opener time to block on the slot lock.
	time.Sleep(300 * time.Millisecond)
	select {
	case r := <-done:
		t.Fatalf("second open completed while the slot was locked: %+v", r)
	default:
	}

	closedAt := time.Now()
	require.NoError(t, first.Close())

	r := <-done
	require.NoError(t, r.err)
	assert.False(t, r.openedAt.Before(closedAt),
		"second open must not complete before the first handle closes")
}
