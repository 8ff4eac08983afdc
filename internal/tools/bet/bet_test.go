package bet_test

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"fslkit/internal/run"
	"fslkit/internal/testsupport"
	"fslkit/internal/tools"
	"fslkit/internal/tools/bet"
)

type stubExecutor struct {
	exitCode int
	stderr   string
	err      error
	calls    int
	args     [][]string
	onRun    func(args []string)
}

func (s *stubExecutor) Run(ctx context.Context, binary string, args []string) (run.Result, error) {
	s.calls++
	s.args = append(s.args, append([]string(nil), args...))
	if s.onRun != nil {
		s.onRun(args)
	}
	return run.Result{Command: binary, Args: args, Stderr: s.stderr, ExitCode: s.exitCode}, s.err
}

func TestCmdlineRoundTrip(t *testing.T) {
	client := bet.New("")
	frac := 0.5
	cmdline, err := client.Cmdline(bet.Params{
		InFile:  "foo.nii",
		OutFile: "bar.nii",
		Frac:    &frac,
		Verbose: true,
	})
	if err != nil {
		t.Fatalf("Cmdline returned error: %v", err)
	}
	if cmdline != "bet foo.nii bar.nii -f 0.50 -v" {
		t.Fatalf("Cmdline = %q", cmdline)
	}
}

func TestBuildArgsDerivesOutFile(t *testing.T) {
	client := bet.New("bet")
	args, err := client.BuildArgs(bet.Params{InFile: "foo.nii"})
	if err != nil {
		t.Fatalf("BuildArgs returned error: %v", err)
	}
	want := []string{"foo.nii", "foo_bet.nii"}
	if !reflect.DeepEqual(args, want) {
		t.Fatalf("BuildArgs = %v, want %v", args, want)
	}
}

func TestBuildArgsFlagsPassthrough(t *testing.T) {
	client := bet.New("bet")
	args, err := client.BuildArgs(bet.Params{InFile: "foo.nii", OutFile: "bar.nii", Flags: []string{"-R"}})
	if err != nil {
		t.Fatalf("BuildArgs returned error: %v", err)
	}
	want := []string{"foo.nii", "bar.nii", "-R"}
	if !reflect.DeepEqual(args, want) {
		t.Fatalf("BuildArgs = %v, want %v", args, want)
	}
}

func TestRunRequiresInFile(t *testing.T) {
	exec := &stubExecutor{}
	client := bet.New("bet", bet.WithExecutor(exec))

	_, err := client.Run(context.Background(), bet.Params{})
	if !errors.Is(err, tools.ErrMissingInput) {
		t.Fatalf("expected ErrMissingInput, got %v", err)
	}
	if exec.calls != 0 {
		t.Fatalf("executor ran %d times before validation", exec.calls)
	}
}

func TestRunVerifiesOutFileAndOptionalMask(t *testing.T) {
	dir := t.TempDir()
	inFile := filepath.Join(dir, "foo.nii")
	testsupport.Touch(t, inFile)

	exec := &stubExecutor{onRun: func(args []string) {
		testsupport.Touch(t, args[1])
	}}
	client := bet.New("bet", bet.WithExecutor(exec))

	outputs, err := client.Run(context.Background(), bet.Params{InFile: inFile})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if outputs.OutFile != filepath.Join(dir, "foo_bet.nii") {
		t.Fatalf("OutFile = %q", outputs.OutFile)
	}
	if outputs.MaskFile != "" {
		t.Fatalf("MaskFile = %q, want empty when no mask written", outputs.MaskFile)
	}
}

func TestRunReportsMaskWhenPresent(t *testing.T) {
	dir := t.TempDir()
	inFile := filepath.Join(dir, "foo.nii")
	testsupport.Touch(t, inFile)

	exec := &stubExecutor{onRun: func(args []string) {
		testsupport.Touch(t, args[1])
		testsupport.Touch(t, filepath.Join(dir, "foo_bet_mask.nii"))
	}}
	client := bet.New("bet", bet.WithExecutor(exec))

	outputs, err := client.Run(context.Background(), bet.Params{InFile: inFile, Mask: true})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if outputs.MaskFile != filepath.Join(dir, "foo_bet_mask.nii") {
		t.Fatalf("MaskFile = %q", outputs.MaskFile)
	}
}

func TestRunFailsWhenOutFileMissing(t *testing.T) {
	dir := t.TempDir()
	inFile := filepath.Join(dir, "foo.nii")
	testsupport.Touch(t, inFile)

	client := bet.New("bet", bet.WithExecutor(&stubExecutor{}))
	_, err := client.Run(context.Background(), bet.Params{InFile: inFile})
	if !errors.Is(err, tools.ErrMissingOutput) {
		t.Fatalf("expected ErrMissingOutput, got %v", err)
	}
}

func TestRunSurfacesNonZeroExit(t *testing.T) {
	client := bet.New("bet", bet.WithExecutor(&stubExecutor{exitCode: 1, stderr: "bad image"}))
	_, err := client.Run(context.Background(), bet.Params{InFile: "foo.nii"})
	if !errors.Is(err, tools.ErrExternalTool) {
		t.Fatalf("expected ErrExternalTool, got %v", err)
	}
}
