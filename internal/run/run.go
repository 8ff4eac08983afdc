package run

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Result captures one external process execution.
type Result struct {
	Command  string
	Args     []string
	Stdout   string
	Stderr   string
	ExitCode int
}

// Cmdline renders the executed command as one display string.
func (r Result) Cmdline() string {
	if len(r.Args) == 0 {
		return r.Command
	}
	return r.Command + " " + strings.Join(r.Args, " ")
}

// Executor abstracts command execution for testability. An error is
// returned only when the process could not be run at all; non-zero exit
// codes are carried in the Result for the caller to classify.
type Executor interface {
	Run(ctx context.Context, binary string, args []string) (Result, error)
}

// CommandExecutor executes binaries through os/exec with captured output.
type CommandExecutor struct{}

// Run executes binary with args, capturing stdout, stderr, and the exit code.
func (CommandExecutor) Run(ctx context.Context, binary string, args []string) (Result, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return Result{}, errors.New("executor: empty binary")
	}

	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	result := Result{Command: binary, Args: append([]string(nil), args...)}
	err := cmd.Run()
	result.Stdout = stdout.String()
	result.Stderr = stderr.String()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		return result, fmt.Errorf("run %s: %w", binary, err)
	}
	return result, nil
}
