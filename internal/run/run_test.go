package run_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"fslkit/internal/run"
)

func TestCommandExecutorCapturesOutput(t *testing.T) {
	exec := run.CommandExecutor{}
	res, err := exec.Run(context.Background(), "sh", []string{"-c", "echo out; echo err >&2"})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if res.ExitCode != 0 {
		t.Fatalf("ExitCode = %d, want 0", res.ExitCode)
	}
	if strings.TrimSpace(res.Stdout) != "out" {
		t.Fatalf("Stdout = %q", res.Stdout)
	}
	if strings.TrimSpace(res.Stderr) != "err" {
		t.Fatalf("Stderr = %q", res.Stderr)
	}
}

func TestCommandExecutorReportsExitCode(t *testing.T) {
	exec := run.CommandExecutor{}
	res, err := exec.Run(context.Background(), "sh", []string{"-c", "exit 3"})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if res.ExitCode != 3 {
		t.Fatalf("ExitCode = %d, want 3", res.ExitCode)
	}
}

func TestCommandExecutorRejectsEmptyBinary(t *testing.T) {
	exec := run.CommandExecutor{}
	if _, err := exec.Run(context.Background(), " ", nil); err == nil {
		t.Fatal("expected error for empty binary")
	}
}

func TestResultCmdline(t *testing.T) {
	res := run.Result{Command: "flirt", Args: []string{"-in", "a.nii", "-ref", "b.nii"}}
	if got := res.Cmdline(); got != "flirt -in a.nii -ref b.nii" {
		t.Fatalf("Cmdline = %q", got)
	}
}

func TestLockBlocksSecondHolder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "locks", "format.lock")

	first := run.NewLock(path)
	if err := first.Acquire(); err != nil {
		t.Fatalf("Acquire returned error: %v", err)
	}
	defer first.Release()

	second := run.NewLock(path)
	if err := second.Acquire(); err == nil {
		second.Release()
		t.Fatal("expected second Acquire to fail while lock held")
	}

	if err := first.Release(); err != nil {
		t.Fatalf("Release returned error: %v", err)
	}
	if err := second.Acquire(); err != nil {
		t.Fatalf("Acquire after release returned error: %v", err)
	}
	second.Release()
}
