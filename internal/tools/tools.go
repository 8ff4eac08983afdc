package tools

import (
	"fmt"
	"log/slog"
	"strings"

	"fslkit/internal/fslcmd"
	"fslkit/internal/run"
)

// ReportProblems logs each schema violation encountered during argument
// assembly. Violations are warnings, never failures: the offending
// parameter has already been dropped from the vector.
func ReportProblems(logger *slog.Logger, tool string, problems []fslcmd.Problem) {
	if logger == nil {
		return
	}
	for _, p := range problems {
		logger.Warn("option dropped", "tool", tool, "option", p.Param, "detail", p.Detail)
	}
}

// ExecError classifies a failed execution: a spawn error or a non-zero
// exit code. The raw captured stderr is surfaced for diagnosis and no
// output prediction happens afterwards.
func ExecError(tool string, res run.Result, err error) error {
	if err != nil {
		return Wrap(ErrExternalTool, tool, "run", "", err)
	}
	if res.ExitCode != 0 {
		detail := res.Stderr
		if detail == "" {
			detail = res.Stdout
		}
		return Wrap(ErrExternalTool, tool, "run", formatExit(res.ExitCode, detail), nil)
	}
	return nil
}

func formatExit(code int, detail string) string {
	if detail = strings.TrimSpace(detail); detail == "" {
		return fmt.Sprintf("exit code %d", code)
	}
	return fmt.Sprintf("exit code %d: %s", code, detail)
}
