package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// cacheStats summarizes the cache contents. The numbers are best-effort: a
// slot mutated concurrently by a lock holder may be mid-transition while we
// walk it.
type cacheStats struct {
	// Repos is the number of repository slots (second-level directories
	// under the cache root).
	Repos int

	// TotalSize is the disk space taken by the cache, in bytes.
	TotalSize int64
}

// statCache walks the cache root counting repository slots and summing file
// sizes. Lock files are part of the cache and counted towards the size, but
// not towards the repository count.
func statCache(cacheDir string) (*cacheStats, error) {
	info, err := os.Stat(cacheDir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("repocache basedir %q not found", cacheDir)
	}

	stats := &cacheStats{}

	hashDirs, err := os.ReadDir(cacheDir)
	if err != nil {
		return nil, err
	}
	for _, hashDir := range hashDirs {
		if !hashDir.IsDir() {
			continue
		}
		slots, err := os.ReadDir(filepath.Join(cacheDir, hashDir.Name()))
		if err != nil {
			return nil, err
		}
		for _, slot := range slots {
			if slot.IsDir() && !strings.HasSuffix(slot.Name(), ".lock") {
				stats.Repos++
			}
		}
	}

	err = filepath.WalkDir(cacheDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			info, err := d.Info()
			if err != nil {
				return err
			}
			stats.TotalSize += info.Size()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return stats, nil
}
