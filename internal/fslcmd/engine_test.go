package fslcmd_test

import (
	"reflect"
	"testing"

	"fslkit/internal/fslcmd"
)

func TestFormatOptionFlagTrue(t *testing.T) {
	tokens, err := fslcmd.FormatOption("-m", fslcmd.Bool(true))
	if err != nil {
		t.Fatalf("FormatOption returned error: %v", err)
	}
	if !reflect.DeepEqual(tokens, []string{"-m"}) {
		t.Fatalf("FormatOption = %v, want [-m]", tokens)
	}
}

func TestFormatOptionFlagFalseEmitsNothing(t *testing.T) {
	tokens, err := fslcmd.FormatOption("-m", fslcmd.Bool(false))
	if err != nil {
		t.Fatalf("FormatOption returned error: %v", err)
	}
	if len(tokens) != 0 {
		t.Fatalf("FormatOption = %v, want no tokens", tokens)
	}
}

func TestFormatOptionFlagRejectsNonBool(t *testing.T) {
	if _, err := fslcmd.FormatOption("-m", fslcmd.Int(2)); err == nil {
		t.Fatal("expected error for non-boolean flag value")
	}
}

func TestFormatOptionScalarSubstitution(t *testing.T) {
	tokens, err := fslcmd.FormatOption("-f %.2f", fslcmd.Float(0.5))
	if err != nil {
		t.Fatalf("FormatOption returned error: %v", err)
	}
	if !reflect.DeepEqual(tokens, []string{"-f", "0.50"}) {
		t.Fatalf("FormatOption = %v, want [-f 0.50]", tokens)
	}
}

func TestFormatOptionSequencePreservesOrder(t *testing.T) {
	tokens, err := fslcmd.FormatOption("-c %d %d %d", fslcmd.Ints(10, 20, 30))
	if err != nil {
		t.Fatalf("FormatOption returned error: %v", err)
	}
	if !reflect.DeepEqual(tokens, []string{"-c", "10", "20", "30"}) {
		t.Fatalf("FormatOption = %v, want [-c 10 20 30]", tokens)
	}
}

func TestFormatOptionArityMismatch(t *testing.T) {
	if _, err := fslcmd.FormatOption("-c %d %d %d", fslcmd.Ints(10, 20)); err == nil {
		t.Fatal("expected error for short sequence")
	}
	if _, err := fslcmd.FormatOption("-r %d", fslcmd.Ints(1, 2)); err == nil {
		t.Fatal("expected error for long sequence")
	}
}

func TestArity(t *testing.T) {
	cases := map[string]int{
		"-m":            0,
		"--nopve":       0,
		"-f %.2f":       1,
		"-c %d %d %d":   3,
		"-A %s %s %s":   3,
		"--subsamp %d":  1,
		"literal %%200": 0,
	}
	for template, want := range cases {
		if got := fslcmd.Arity(template); got != want {
			t.Errorf("Arity(%q) = %d, want %d", template, got, want)
		}
	}
}

func TestExpandTemplate(t *testing.T) {
	got := fslcmd.ExpandTemplate("--subsamp %d", 3)
	if got != "--subsamp %d %d %d" {
		t.Fatalf("ExpandTemplate = %q", got)
	}
	if got := fslcmd.ExpandTemplate("--miter %f", 1); got != "--miter %f" {
		t.Fatalf("ExpandTemplate n=1 = %q", got)
	}
}

func TestBuildCollectsProblemsWithoutFailing(t *testing.T) {
	spec := fslcmd.OptionSpec{
		"mask":   "-m",
		"frac":   "-f %.2f",
		"center": "-c %d %d %d",
	}
	params := []fslcmd.Param{
		{Name: "mask", Value: fslcmd.Int(1)},       // non-boolean flag value
		{Name: "frac", Value: fslcmd.Float(0.35)},  // valid
		{Name: "center", Value: fslcmd.Ints(1, 2)}, // arity mismatch
		{Name: "mystery", Value: fslcmd.Bool(true)},
		{Name: "verbose", Value: fslcmd.Bool(false)},
	}

	tokens, problems := fslcmd.Build(params, spec, nil)
	if !reflect.DeepEqual(tokens, []string{"-f", "0.35"}) {
		t.Fatalf("Build tokens = %v, want [-f 0.35]", tokens)
	}
	if len(problems) != 4 {
		t.Fatalf("expected 4 problems, got %d: %v", len(problems), problems)
	}
}

func TestBuildSkipsDesignatedNames(t *testing.T) {
	spec := fslcmd.OptionSpec{"outfile": "-out %s", "verbose": "-v"}
	params := []fslcmd.Param{
		{Name: "outfile", Value: fslcmd.String("res.nii")},
		{Name: "verbose", Value: fslcmd.Bool(true)},
	}
	skip := map[string]struct{}{"outfile": {}}

	tokens, problems := fslcmd.Build(params, spec, skip)
	if len(problems) != 0 {
		t.Fatalf("unexpected problems: %v", problems)
	}
	if !reflect.DeepEqual(tokens, []string{"-v"}) {
		t.Fatalf("Build tokens = %v, want [-v]", tokens)
	}
}

func TestBuildRawPassthrough(t *testing.T) {
	params := []fslcmd.Param{
		{Name: fslcmd.RawParam, Value: fslcmd.Strings("-applyxfm", "--warpres 6 6 6")},
	}
	tokens, problems := fslcmd.Build(params, fslcmd.OptionSpec{}, nil)
	if len(problems) != 0 {
		t.Fatalf("unexpected problems: %v", problems)
	}
	want := []string{"-applyxfm", "--warpres", "6", "6", "6"}
	if !reflect.DeepEqual(tokens, want) {
		t.Fatalf("Build tokens = %v, want %v", tokens, want)
	}
}

func TestBuildIsIdempotent(t *testing.T) {
	spec := fslcmd.OptionSpec{"frac": "-f %.2f", "mask": "-m"}
	params := []fslcmd.Param{
		{Name: "frac", Value: fslcmd.Float(0.5)},
		{Name: "mask", Value: fslcmd.Bool(true)},
	}

	first, _ := fslcmd.Build(params, spec, nil)
	second, _ := fslcmd.Build(params, spec, nil)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("Build not idempotent: %v vs %v", first, second)
	}
}

func TestCmdline(t *testing.T) {
	got := fslcmd.Cmdline("bet", []string{"foo.nii", "bar.nii", "-v"})
	if got != "bet foo.nii bar.nii -v" {
		t.Fatalf("Cmdline = %q", got)
	}
	if got := fslcmd.Cmdline("fast", nil); got != "fast" {
		t.Fatalf("Cmdline no args = %q", got)
	}
}
