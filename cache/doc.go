// Package cache maintains a durable, multi-process-safe local mirror cache
// of remote git repositories. Each remote URL maps to a stable slot under the
// cache root; an exclusive advisory lock on a sidecar file serializes all
// access to a slot across processes. Opening a slot validates the cached
// mirror, heals corruption by recloning, and refreshes it from the remote, so
// repeated requests for the same repository pay for an incremental fetch
// instead of a full clone.
package cache
