package cache

import (
	"crypto/sha1"
	"encoding/hex"
	"path/filepath"
	"strings"
)

// splitURL splits a remote URL into a base and a repository name. The name is
// the final path segment with trailing slashes stripped; the base is
// everything before it. Both URL-style (scheme://host/path) and SCP-style
// (user@host:path) remotes are supported. A URL with no separator at all has
// an empty base.
func splitURL(url string) (base, name string) {
	url = strings.TrimRight(url, "/")
	if i := strings.LastIndex(url, "/"); i >= 0 {
		return url[:i], url[i+1:]
	}
	if i := strings.LastIndex(url, ":"); i >= 0 {
		return url[:i], url[i+1:]
	}
	return "", url
}

// slotPath maps a remote URL to its cache slot path. The mapping is a pure
// function of the URL: the base component is hashed so remotes from different
// hosts or paths never share a directory even when the repository names
// coincide.
func slotPath(root, url string) string {
	base, name := splitURL(url)
	sum := sha1.Sum([]byte(base))
	return filepath.Join(root, hex.EncodeToString(sum[:]), name)
}
