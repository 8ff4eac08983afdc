package imgfile

import (
	"fmt"
	"path/filepath"
	"strings"
)

// PreSuffix inserts suffix before the final extension of path.
// "dir/foo.nii" + "_bet" becomes "dir/foo_bet.nii". Compound extensions
// such as .nii.gz keep only the last component as the extension, matching
// how the FSL tools themselves derive output names.
func PreSuffix(path, suffix string) string {
	dir, name := filepath.Split(path)
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	return filepath.Join(dir, base+suffix+ext)
}

// WithExtension replaces the final extension of path with ext (no leading
// dot). An empty ext returns the bare base path.
func WithExtension(path, ext string) string {
	base := strings.TrimSuffix(path, filepath.Ext(path))
	if ext == "" {
		return base
	}
	return base + "." + ext
}

// StripExtension drops the final extension of path.
func StripExtension(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path))
}

// Glob returns the paths matching a glob-style pattern.
func Glob(pattern string) ([]string, error) {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", pattern, err)
	}
	return matches, nil
}

// ExistsOne reports whether pattern matches exactly one path on disk.
// Singular output roles are confirmed this way; zero or multiple matches
// both count as absent.
func ExistsOne(pattern string) bool {
	matches, err := filepath.Glob(pattern)
	return err == nil && len(matches) == 1
}

// FirstMatch returns the first path matching pattern, or "" when none do.
func FirstMatch(pattern string) string {
	matches, err := filepath.Glob(pattern)
	if err != nil || len(matches) == 0 {
		return ""
	}
	return matches[0]
}
