package cache

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitURL(t *testing.T) {
	tests := []struct {
		url  string
		base string
		name string
	}{
		{"http://foo.com/bar", "http://foo.com", "bar"},
		{"http://foo.com/bar/", "http://foo.com", "bar"},
		{"foo.com:bar", "foo.com", "bar"},
		{"user@foo.com:bar", "user@foo.com", "bar"},
		{"/foo/bar", "/foo", "bar"},
		{"foo/", "", "foo"},
		{"foo", "", "foo"},
	}

	for _, tt := range tests {
		base, name := splitURL(tt.url)
		assert.Equal(t, tt.base, base, "base of %q", tt.url)
		assert.Equal(t, tt.name, name, "name of %q", tt.url)
	}
}

func TestSlotPath(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		a := slotPath("/cache", "http://foo.com/bar")
		b := slotPath("/cache", "http://foo.com/bar")
		assert.Equal(t, a, b)
	})

	t.Run("layout", func(t *testing.T) {
		path := slotPath("/cache", "http://foo.com/bar")
		rel, err := filepath.Rel("/cache", path)
		assert.NoError(t, err)

		dir, name := filepath.Split(rel)
		assert.Equal(t, "bar", name)
		assert.Len(t, filepath.Clean(dir), 40, "hashed base is sha1 hex")
	})

	t.Run("same name under different bases does not collide", func(t *testing.T) {
		a := slotPath("/cache", "http://foo.com/bar")
		b := slotPath("/cache", "http://other.org/bar")
		assert.NotEqual(t, a, b)
	})

	t.Run("trailing slash is insignificant", func(t *testing.T) {
		assert.Equal(t,
			slotPath("/cache", "http://foo.com/bar"),
			slotPath("/cache", "http://foo.com/bar/"))
	})
}
