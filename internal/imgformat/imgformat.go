package imgformat

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// EnvVar is the process environment entry FSL tools consult when deciding
// which image container to write.
const EnvVar = "FSLOUTPUTTYPE"

// Format names an FSL output file type.
type Format string

const (
	NIFTI       Format = "NIFTI"
	NIFTIGz     Format = "NIFTI_GZ"
	NIFTIPair   Format = "NIFTI_PAIR"
	NIFTIPairGz Format = "NIFTI_PAIR_GZ"
	Analyze     Format = "ANALYZE"
	AnalyzeGz   Format = "ANALYZE_GZ"
)

var extensions = map[Format]string{
	NIFTI:       "nii",
	NIFTIGz:     "nii.gz",
	NIFTIPair:   "hdr",
	NIFTIPairGz: "hdr.gz",
	Analyze:     "hdr",
	AnalyzeGz:   "hdr.gz",
}

// ErrUnset reports that no output format is configured in the environment.
var ErrUnset = fmt.Errorf("env variable %s not set", EnvVar)

// Known reports whether name is a recognised format.
func Known(name string) bool {
	_, ok := extensions[Format(strings.TrimSpace(name))]
	return ok
}

// Names returns the recognised format names, sorted.
func Names() []string {
	names := make([]string, 0, len(extensions))
	for f := range extensions {
		names = append(names, string(f))
	}
	sort.Strings(names)
	return names
}

// Extension returns the file extension associated with a format.
func (f Format) Extension() (string, error) {
	ext, ok := extensions[f]
	if !ok {
		return "", fmt.Errorf("unknown output format %q", string(f))
	}
	return ext, nil
}

// Current reads the process-wide output format from the environment.
func Current() (Format, string, error) {
	value := strings.TrimSpace(os.Getenv(EnvVar))
	if value == "" {
		return "", "", ErrUnset
	}
	format := Format(value)
	ext, err := format.Extension()
	if err != nil {
		return format, "", err
	}
	return format, ext, nil
}

// Set stores the output format in the process environment and echoes the
// resulting format/extension pair.
func Set(format Format) (Format, string, error) {
	ext, err := format.Extension()
	if err != nil {
		return "", "", err
	}
	if err := os.Setenv(EnvVar, string(format)); err != nil {
		return "", "", fmt.Errorf("set %s: %w", EnvVar, err)
	}
	return format, ext, nil
}

// Resolve returns the extension for explicit when provided, otherwise the
// extension of the environment's current format. Output predictors call this
// once per run and carry the result as a value; the environment is never
// re-read mid-computation.
func Resolve(explicit Format) (string, error) {
	if explicit != "" {
		return explicit.Extension()
	}
	_, ext, err := Current()
	return ext, err
}
