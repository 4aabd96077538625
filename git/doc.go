// Package git drives an external git binary to maintain mirrored clones of
// remote repositories.
//
// The package does not reimplement any of git's object model or transport; it
// orchestrates when and how the git command-line tool is invoked, through the
// exec package. A mirror replicates the entire ref namespace of its remote and
// tolerates remote states a plain clone would reject, in particular a remote
// HEAD pointing at a deleted branch and (with the refs hack) branches that
// resolve to tag objects.
//
// Repositories come in two flavors, fixed at creation time:
//
//   - bare mirrors, created with git clone --mirror
//   - mirrors with a working copy, created as a plain repository whose refs
//     are wholesale synced from the remote by ForceFetch
//
// All operations return platform errors from the errors package so callers can
// distinguish network failures (retryable) from repository-state failures.
package git
