package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func populateCache(t *testing.T) string {
	t.Helper()
	cacheDir := t.TempDir()

	for _, slot := range []string{
		"aa00/repo-one",
		"aa00/repo-two",
		"bb11/repo-three",
	} {
		dir := filepath.Join(cacheDir, slot)
		require.NoError(t, os.MkdirAll(dir, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "data"),
			bytes.Repeat([]byte("x"), 2048), 0o644))
		require.NoError(t, os.WriteFile(dir+".lock", nil, 0o644))
	}
	return cacheDir
}

func TestStatCache(t *testing.T) {
	t.Run("counts repos and sizes", func(t *testing.T) {
		stats, err := statCache(populateCache(t))
		require.NoError(t, err)

		assert.Equal(t, 3, stats.Repos)
		assert.Equal(t, int64(3*2048), stats.TotalSize)
	})

	t.Run("empty cache", func(t *testing.T) {
		stats, err := statCache(t.TempDir())
		require.NoError(t, err)

		assert.Zero(t, stats.Repos)
		assert.Zero(t, stats.TotalSize)
	})

	t.Run("missing cache dir", func(t *testing.T) {
		_, err := statCache(filepath.Join(t.TempDir(), "missing"))
		require.Error(t, err)
	})
}

func TestStatCommand(t *testing.T) {
	cacheDir := populateCache(t)

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"stat", "--cache-dir", cacheDir})

	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "Total of 3 repos")
	assert.Contains(t, out.String(), "(6.0 KiB)")
}
