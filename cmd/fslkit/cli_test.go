package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"fslkit/internal/config"
	"fslkit/internal/testsupport"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q, got:\n%s", needle, haystack)
	}
}

func TestConfigInitWritesSample(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	target := filepath.Join(t.TempDir(), "config.toml")
	out, err := runCLI(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")

	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, err := runCLI(t, "config", "init", "--path", target); err == nil {
		t.Fatal("expected second config init to refuse overwrite")
	}
}

func TestConfigValidateWithDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	out, err := runCLI(t, "config", "validate")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, "defaults were used")
}

func TestFormatSetThenGet(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("FSLOUTPUTTYPE", "")
	os.Unsetenv("FSLOUTPUTTYPE")

	if _, err := runCLI(t, "format", "get"); err == nil {
		t.Fatal("expected format get to fail when unset")
	}

	out, err := runCLI(t, "format", "set", "nifti_gz")
	if err != nil {
		t.Fatalf("format set: %v", err)
	}
	requireContains(t, out, "NIFTI_GZ (.nii.gz)")

	out, err = runCLI(t, "format", "get")
	if err != nil {
		t.Fatalf("format get: %v", err)
	}
	requireContains(t, out, "NIFTI_GZ (.nii.gz)")
}

func TestFormatSetRejectsUnknown(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	if _, err := runCLI(t, "format", "set", "minc"); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestHistoryListEmpty(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	out, err := runCLI(t, "history", "list")
	if err != nil {
		t.Fatalf("history list: %v", err)
	}
	requireContains(t, out, "No runs recorded")
}

func writeConfigFile(t *testing.T, cfg *config.Config) string {
	t.Helper()

	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestStatusWithStubbedTools(t *testing.T) {
	t.Setenv("FSLDIR", "")
	os.Unsetenv("FSLDIR")

	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())
	configPath := writeConfigFile(t, cfg)

	out, err := runCLI(t, "--config", configPath, "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	for _, name := range []string{"BET", "FAST", "FLIRT", "MCFLIRT", "FNIRT", "Work directory"} {
		requireContains(t, out, name)
	}
	if strings.Contains(out, "missing") {
		t.Fatalf("expected all dependencies available, got:\n%s", out)
	}
}

func TestBetRequiresInput(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	if _, err := runCLI(t, "bet"); err == nil {
		t.Fatal("expected usage error without input file")
	}
}
