// Package fileutil provides the filesystem checks the downloader and sync
// loop use to treat the destination directory as their idempotency ledger.
package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
)

// NonEmpty reports whether path exists as a regular file with nonzero size.
func NonEmpty(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular() && info.Size() > 0
}

// FirstMatch returns the first nonempty regular file in dir matching the
// glob pattern, in lexical order.
func FirstMatch(dir, pattern string) (string, bool, error) {
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return "", false, fmt.Errorf("glob %q: %w", pattern, err)
	}
	for _, m := range matches {
		if NonEmpty(m) {
			return m, true, nil
		}
	}
	return "", false, nil
}
