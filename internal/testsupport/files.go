package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// Touch creates an empty file at path, creating parent directories.
// Image outputs in tests only need to exist, not hold voxel data.
func Touch(t testing.TB, path string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("touch %s: %v", path, err)
	}
}

// TouchAll creates empty files for every path, resolved relative to dir.
func TouchAll(t testing.TB, dir string, names ...string) {
	t.Helper()

	for _, name := range names {
		Touch(t, filepath.Join(dir, name))
	}
}
