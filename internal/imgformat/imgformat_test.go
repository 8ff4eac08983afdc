package imgformat_test

import (
	"errors"
	"testing"

	"fslkit/internal/imgformat"
)

func TestSetThenCurrentReturnsExtension(t *testing.T) {
	t.Setenv(imgformat.EnvVar, "")

	format, ext, err := imgformat.Set(imgformat.NIFTIGz)
	if err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	if format != imgformat.NIFTIGz || ext != "nii.gz" {
		t.Fatalf("Set returned %q/%q, want NIFTI_GZ/nii.gz", format, ext)
	}

	current, ext, err := imgformat.Current()
	if err != nil {
		t.Fatalf("Current returned error: %v", err)
	}
	if current != imgformat.NIFTIGz || ext != "nii.gz" {
		t.Fatalf("Current returned %q/%q, want NIFTI_GZ/nii.gz", current, ext)
	}
}

func TestCurrentUnsetReturnsSentinel(t *testing.T) {
	t.Setenv(imgformat.EnvVar, "")

	if _, _, err := imgformat.Current(); !errors.Is(err, imgformat.ErrUnset) {
		t.Fatalf("expected ErrUnset, got %v", err)
	}
}

func TestSetRejectsUnknownFormat(t *testing.T) {
	if _, _, err := imgformat.Set("MINC"); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestResolvePrefersExplicitFormat(t *testing.T) {
	t.Setenv(imgformat.EnvVar, "NIFTI_GZ")

	ext, err := imgformat.Resolve(imgformat.Analyze)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if ext != "hdr" {
		t.Fatalf("Resolve returned %q, want hdr", ext)
	}
}

func TestResolveFallsBackToEnvironment(t *testing.T) {
	t.Setenv(imgformat.EnvVar, "NIFTI")

	ext, err := imgformat.Resolve("")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if ext != "nii" {
		t.Fatalf("Resolve returned %q, want nii", ext)
	}
}

func TestExtensionTable(t *testing.T) {
	cases := map[imgformat.Format]string{
		imgformat.NIFTI:       "nii",
		imgformat.NIFTIGz:     "nii.gz",
		imgformat.NIFTIPair:   "hdr",
		imgformat.NIFTIPairGz: "hdr.gz",
		imgformat.Analyze:     "hdr",
		imgformat.AnalyzeGz:   "hdr.gz",
	}
	for format, want := range cases {
		ext, err := format.Extension()
		if err != nil {
			t.Fatalf("Extension(%s) returned error: %v", format, err)
		}
		if ext != want {
			t.Fatalf("Extension(%s) = %q, want %q", format, ext, want)
		}
	}
}
