package tools

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingInput marks a mandatory parameter that was absent; raised
	// before any argument vector is built.
	ErrMissingInput = errors.New("missing mandatory parameter")
	// ErrExternalTool marks a non-zero exit code from the external binary.
	ErrExternalTool = errors.New("external tool error")
	// ErrMissingOutput marks a predicted output file that was absent after
	// a successful exit code.
	ErrMissingOutput = errors.New("expected output not generated")
)

// Wrap builds an error message that includes tool context while tagging it
// with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, tool, operation, message string, err error) error {
	detail := buildDetail(tool, operation, message)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// MissingOutput reports a predicted-but-absent output file, naming the
// role and path so a partial failure is diagnosable.
func MissingOutput(tool, role, path string) error {
	return fmt.Errorf("%w: %s: output %q of type %q", ErrMissingOutput, tool, path, role)
}

func buildDetail(tool, operation, message string) string {
	parts := make([]string, 0, 3)
	if tool = strings.TrimSpace(tool); tool != "" {
		parts = append(parts, tool)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "tool failure"
	}
	return strings.Join(parts, ": ")
}
