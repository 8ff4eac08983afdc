// Package version detects the installed FSL release.
package version

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ErrNotFound reports that no FSL installation could be located.
var ErrNotFound = errors.New("fsl installation not found")

// Detect locates the fsl entry point on PATH, derives the installation
// root, and reads etc/fslversion from it. The FSLDIR override, when set,
// is consulted first.
func Detect() (string, error) {
	root := strings.TrimSpace(os.Getenv("FSLDIR"))
	if root == "" {
		path, err := exec.LookPath("fsl")
		if err != nil {
			return "", ErrNotFound
		}
		// <root>/bin/fsl
		root = filepath.Dir(filepath.Dir(path))
	}
	return readVersionFile(root)
}

// DetectAt reads the version from an explicit installation root.
func DetectAt(root string) (string, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return "", ErrNotFound
	}
	return readVersionFile(root)
}

func readVersionFile(root string) (string, error) {
	raw, err := os.ReadFile(filepath.Join(root, "etc", "fslversion"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("read fslversion: %w", err)
	}
	version := strings.TrimSpace(string(raw))
	if version == "" {
		return "", ErrNotFound
	}
	return version, nil
}
