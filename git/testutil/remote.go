// Package testutil provides on-disk repository fixtures for tests. The
// fixtures are built with go-git so tests can construct arbitrary remote
// repositories (branches, annotated tags, broken HEADs) without shelling out,
// then point the cache at them over the file transport.
package testutil

import (
	"os"
	"path/filepath"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// RemoteRepo is a local repository acting as the remote end in tests.
type RemoteRepo struct {
	Path string
	Repo *gogit.Repository
}

// NewRemoteRepo initializes a non-bare repository at path with a single
// commit on master.
func NewRemoteRepo(path string) (*RemoteRepo, error) {
	repo, err := gogit.PlainInit(path, false)
	if err != nil {
		return nil, err
	}

	remote := &RemoteRepo{Path: path, Repo: repo}
	if _, err := remote.AddCommit("README.md", TestFileContent, TestInitialCommit); err != nil {
		return nil, err
	}
	return remote, nil
}

// AddCommit writes content to file and commits it, returning the commit hash.
func (r *RemoteRepo) AddCommit(file, content, message string) (string, error) {
	full := filepath.Join(r.Path, file)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		return "", err
	}

	wt, err := r.Repo.Worktree()
	if err != nil {
		return "", err
	}
	if _, err := wt.Add(file); err != nil {
		return "", err
	}

	hash, err := wt.Commit(message, &gogit.CommitOptions{
		Author: &object.Signature{
			Name:  TestAuthor,
			Email: TestEmail,
			When:  time.Now(),
		},
	})
	if err != nil {
		return "", err
	}
	return hash.String(), nil
}

// CreateBranch creates a branch pointing at the current HEAD commit.
func (r *RemoteRepo) CreateBranch(name string) error {
	head, err := r.Repo.Head()
	if err != nil {
		return err
	}
	ref := plumbing.NewHashReference(plumbing.NewBranchReferenceName(name), head.Hash())
	return r.Repo.Storer.SetReference(ref)
}

// DeleteBranch removes a branch ref without touching the objects it pointed
// at.
func (r *RemoteRepo) DeleteBranch(name string) error {
	return r.Repo.Storer.RemoveReference(plumbing.NewBranchReferenceName(name))
}

// CreateTag creates an annotated tag on the current HEAD commit and returns
// the hash of the tag object.
func (r *RemoteRepo) CreateTag(name, message string) (string, error) {
	head, err := r.Repo.Head()
	if err != nil {
		return "", err
	}

	ref, err := r.Repo.CreateTag(name, head.Hash(), &gogit.CreateTagOptions{
		Tagger: &object.Signature{
			Name:  TestAuthor,
			Email: TestEmail,
			When:  time.Now(),
		},
		Message: message,
	})
	if err != nil {
		return "", err
	}
	return ref.Hash().String(), nil
}

// Head returns the hash of the commit HEAD currently points at.
func (r *RemoteRepo) Head() (string, error) {
	head, err := r.Repo.Head()
	if err != nil {
		return "", err
	}
	return head.Hash().String(), nil
}

// BreakHead points HEAD at a branch that does not exist, producing the kind
// of broken-but-legal remote some git servers end up with after their default
// branch is deleted.
func (r *RemoteRepo) BreakHead() error {
	ref := plumbing.NewSymbolicReference(plumbing.HEAD, plumbing.NewBranchReferenceName("no-such-branch"))
	return r.Repo.Storer.SetReference(ref)
}
