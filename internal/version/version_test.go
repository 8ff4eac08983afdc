package version_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"fslkit/internal/version"
)

func TestDetectAtReadsVersionFile(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "etc"), 0o755); err != nil {
		t.Fatalf("mkdir etc: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "etc", "fslversion"), []byte("6.0.7\n"), 0o644); err != nil {
		t.Fatalf("write fslversion: %v", err)
	}

	got, err := version.DetectAt(root)
	if err != nil {
		t.Fatalf("DetectAt returned error: %v", err)
	}
	if got != "6.0.7" {
		t.Fatalf("DetectAt = %q, want 6.0.7", got)
	}
}

func TestDetectAtMissingInstall(t *testing.T) {
	if _, err := version.DetectAt(t.TempDir()); !errors.Is(err, version.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := version.DetectAt(""); !errors.Is(err, version.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for empty root, got %v", err)
	}
}

func TestDetectHonorsFSLDIR(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "etc"), 0o755); err != nil {
		t.Fatalf("mkdir etc: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "etc", "fslversion"), []byte("6.0.7"), 0o644); err != nil {
		t.Fatalf("write fslversion: %v", err)
	}
	t.Setenv("FSLDIR", root)

	got, err := version.Detect()
	if err != nil {
		t.Fatalf("Detect returned error: %v", err)
	}
	if got != "6.0.7" {
		t.Fatalf("Detect = %q, want 6.0.7", got)
	}
}
