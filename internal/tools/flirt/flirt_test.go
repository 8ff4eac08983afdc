package flirt_test

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"fslkit/internal/run"
	"fslkit/internal/testsupport"
	"fslkit/internal/tools"
	"fslkit/internal/tools/flirt"
)

type stubExecutor struct {
	exitCode int
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
	return run.Result{Command: binary, Args: args, ExitCode: s.exitCode}, nil
}

func TestBuildArgsSlotOrdering(t *testing.T) {
	client := flirt.New("flirt")
	bins := 640
	args, err := client.BuildArgs(flirt.Params{
		InFile:     "subject.nii",
		Reference:  "template.nii",
		OutFile:    "moved.nii",
		OutMatrix:  "subj_to_tmpl.mat",
		Bins:       &bins,
		SearchCost: "mutualinfo",
	})
	if err != nil {
		t.Fatalf("BuildArgs returned error: %v", err)
	}
	want := []string{
		"-in", "subject.nii",
		"-ref", "template.nii",
		"-omat", "subj_to_tmpl.mat",
		"-out", "moved.nii",
		"-searchcost", "mutualinfo",
		"-bins", "640",
	}
	if !reflect.DeepEqual(args, want) {
		t.Fatalf("BuildArgs = %v, want %v", args, want)
	}
}

func TestBuildArgsOmitsUnsetSlots(t *testing.T) {
	client := flirt.New("flirt")
	args, err := client.BuildArgs(flirt.Params{InFile: "a.nii", Reference: "b.nii"})
	if err != nil {
		t.Fatalf("BuildArgs returned error: %v", err)
	}
	want := []string{"-in", "a.nii", "-ref", "b.nii"}
	if !reflect.DeepEqual(args, want) {
		t.Fatalf("BuildArgs = %v, want %v", args, want)
	}
}

func TestRunRequiresInFileAndReference(t *testing.T) {
	exec := &stubExecutor{}
	client := flirt.New("flirt", flirt.WithExecutor(exec))

	if _, err := client.Run(context.Background(), flirt.Params{Reference: "b.nii"}); !errors.Is(err, tools.ErrMissingInput) {
		t.Fatalf("expected ErrMissingInput for infile, got %v", err)
	}
	if _, err := client.Run(context.Background(), flirt.Params{InFile: "a.nii"}); !errors.Is(err, tools.ErrMissingInput) {
		t.Fatalf("expected ErrMissingInput for reference, got %v", err)
	}
	if exec.calls != 0 {
		t.Fatal("executor must not run before validation")
	}
}

func TestRunVerifiesOutputsWhenGiven(t *testing.T) {
	dir := t.TempDir()
	outFile := filepath.Join(dir, "moved.nii")
	outMatrix := filepath.Join(dir, "subj.mat")

	exec := &stubExecutor{onRun: func([]string) {
		testsupport.Touch(t, outFile)
		testsupport.Touch(t, outMatrix)
	}}
	client := flirt.New("flirt", flirt.WithExecutor(exec))

	outputs, err := client.Run(context.Background(), flirt.Params{
		InFile:    "a.nii",
		Reference: "b.nii",
		OutFile:   outFile,
		OutMatrix: outMatrix,
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if outputs.OutFile != outFile || outputs.OutMatrix != outMatrix {
		t.Fatalf("outputs = %+v", outputs)
	}
}

func TestRunFailsNamingMissingMatrix(t *testing.T) {
	dir := t.TempDir()
	outFile := filepath.Join(dir, "moved.nii")
	outMatrix := filepath.Join(dir, "subj.mat")

	exec := &stubExecutor{onRun: func([]string) {
		testsupport.Touch(t, outFile)
	}}
	client := flirt.New("flirt", flirt.WithExecutor(exec))

	_, err := client.Run(context.Background(), flirt.Params{
		InFile:    "a.nii",
		Reference: "b.nii",
		OutFile:   outFile,
		OutMatrix: outMatrix,
	})
	if !errors.Is(err, tools.ErrMissingOutput) {
		t.Fatalf("expected ErrMissingOutput, got %v", err)
	}
	if !strings.Contains(err.Error(), "outmatrix") {
		t.Fatalf("error must name the matrix role: %v", err)
	}
}

func TestApplyXFMRequiresInMatrix(t *testing.T) {
	client := flirt.New("flirt", flirt.WithExecutor(&stubExecutor{}))
	_, err := client.ApplyXFM(context.Background(), flirt.Params{InFile: "a.nii", Reference: "b.nii"})
	if !errors.Is(err, tools.ErrMissingInput) {
		t.Fatalf("expected ErrMissingInput, got %v", err)
	}
}

func TestApplyXFMSkipsMatrixVerification(t *testing.T) {
	dir := t.TempDir()
	outFile := filepath.Join(dir, "xfm_subject.nii")
	inMatrix := filepath.Join(dir, "xform.mat")
	outMatrix := filepath.Join(dir, "never_written.mat")
	testsupport.Touch(t, inMatrix)

	exec := &stubExecutor{onRun: func([]string) {
		testsupport.Touch(t, outFile)
	}}
	client := flirt.New("flirt", flirt.WithExecutor(exec))

	outputs, err := client.ApplyXFM(context.Background(), flirt.Params{
		InFile:    "a.nii",
		Reference: "b.nii",
		InMatrix:  inMatrix,
		OutFile:   outFile,
		OutMatrix: outMatrix,
	})
	if err != nil {
		t.Fatalf("ApplyXFM returned error: %v", err)
	}
	if outputs.OutFile != outFile {
		t.Fatalf("OutFile = %q", outputs.OutFile)
	}

	args := exec.args[0]
	found := false
	for _, a := range args {
		if a == "-applyxfm" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected -applyxfm in args %v", args)
	}
}
